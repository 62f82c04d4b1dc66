package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
	if isUniqueViolation(err) {
		return domain.ErrSlotNoLongerAvailable
	}
	return err
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return r.getAppointment(ctx, r.db.WithContext(ctx), tenantID, appointmentID)
}

func (r *AppointmentGormRepository) GetAppointmentForUpdate(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return r.getAppointment(
		ctx,
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		tenantID,
		appointmentID,
	)
}

func (r *AppointmentGormRepository) getAppointment(
	ctx context.Context,
	q *gorm.DB,
	tenantID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := q.
		Where("id = ? AND tenant_id = ?", appointmentID, tenantID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, domain.ErrAppointmentNotFound)
	}

	if ap.ServiceID != nil {
		var svc models.CatalogItem
		err := r.db.WithContext(ctx).
			Where("id = ?", *ap.ServiceID).
			First(&svc).Error
		switch {
		case err == nil:
			ap.Service = &svc
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	return &ap, nil
}

// UpdateAppointment saves every column. A move onto an occupied slot is
// rejected by the active-slot index.
func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
	if isUniqueViolation(err) {
		return domain.ErrSlotNoLongerAvailable
	}
	return err
}

// ListActiveAppointmentsForDay returns the rows that can block slots on
// q.Date: non-canceled and not quick sales.
func (r *AppointmentGormRepository) ListActiveAppointmentsForDay(
	ctx context.Context,
	q domain.DayQuery,
) ([]models.Appointment, error) {

	db := r.db.WithContext(ctx).
		Select("id", "professional_id", "date", "time", "status", "origin").
		Where(`tenant_id = ? AND "date" = ? AND status <> ? AND origin <> ?`,
			q.TenantID, q.Date, string(domain.StatusCanceled), models.OriginQuickSale)

	if q.ProfessionalID != nil {
		db = db.Where("professional_id = ?", *q.ProfessionalID)
	}
	if q.ExcludeID != 0 {
		db = db.Where("id <> ?", q.ExcludeID)
	}

	var apps []models.Appointment
	if err := db.Order(`"time" ASC`).Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// ListAppointmentsForPeriod lists every appointment between two civil dates,
// inclusive, for the dashboards.
func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	tenantID uint,
	professionalID *uint,
	fromDate string,
	toDate string,
) ([]models.Appointment, error) {

	db := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Professional").
		Where(`tenant_id = ? AND "date" >= ? AND "date" <= ?`, tenantID, fromDate, toDate)

	if professionalID != nil {
		db = db.Where("professional_id = ?", *professionalID)
	}

	var apps []models.Appointment
	if err := db.Order(`"date" ASC, "time" ASC, id ASC`).Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}
