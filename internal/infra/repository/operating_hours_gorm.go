package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// --------------------------------------------------
// Operating hours
// --------------------------------------------------

// ListOperatingHours returns every row for the day, general and
// professional-specific alike; selection happens in the schedule package.
func (r *AppointmentGormRepository) ListOperatingHours(
	ctx context.Context,
	tenantID uint,
	dayOfWeek int,
) ([]models.OperatingHours, error) {

	var rows []models.OperatingHours
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND day_of_week = ?", tenantID, dayOfWeek).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceOperatingHours deletes the whole week of one scope and inserts rows
// in its place. A nil professionalID is the tenant's general scope.
func (r *AppointmentGormRepository) ReplaceOperatingHours(
	ctx context.Context,
	tenantID uint,
	professionalID *uint,
	rows []models.OperatingHours,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Where("tenant_id = ?", tenantID)
		if professionalID == nil {
			del = del.Where("professional_id IS NULL")
		} else {
			del = del.Where("professional_id = ?", *professionalID)
		}
		if err := del.Delete(&models.OperatingHours{}).Error; err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].TenantID = tenantID
			rows[i].ProfessionalID = professionalID
		}
		return tx.Create(&rows).Error
	})
}
