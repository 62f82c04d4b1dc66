package appointment

import (
	"context"

	"github.com/BruksfildServices01/booking-engine/internal/domain/client"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// DayQuery selects the appointments that can block slots on one civil day.
// A nil ProfessionalID means the whole tenant.
type DayQuery struct {
	TenantID       uint
	ProfessionalID *uint
	Date           string
	// ExcludeID leaves one appointment out (the one being rescheduled).
	ExcludeID uint
}

type Repository interface {
	client.Store

	// Transaction runs fn against a repository bound to one database
	// transaction; fn's error rolls everything back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Tenant / staff / catalog --------
	GetTenantByID(ctx context.Context, id uint) (*models.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	GetProfessional(ctx context.Context, tenantID uint, userID uint) (*models.User, error)
	GetCatalogItem(ctx context.Context, tenantID uint, itemID uint) (*models.CatalogItem, error)
	ListCatalogItems(ctx context.Context, tenantID uint, ids []uint) (map[uint]models.CatalogItem, error)

	// -------- Operating hours --------
	ListOperatingHours(ctx context.Context, tenantID uint, dayOfWeek int) ([]models.OperatingHours, error)
	ReplaceOperatingHours(ctx context.Context, tenantID uint, professionalID *uint, rows []models.OperatingHours) error

	// -------- Appointment --------
	// CreateAppointment returns ErrSlotNoLongerAvailable when the store's
	// active-slot uniqueness rejects the row.
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	GetAppointment(ctx context.Context, tenantID uint, appointmentID uint) (*models.Appointment, error)
	// GetAppointmentForUpdate row-locks the appointment for the rest of the
	// enclosing transaction.
	GetAppointmentForUpdate(ctx context.Context, tenantID uint, appointmentID uint) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	ListActiveAppointmentsForDay(ctx context.Context, q DayQuery) ([]models.Appointment, error)
	ListAppointmentsForPeriod(ctx context.Context, tenantID uint, professionalID *uint, fromDate string, toDate string) ([]models.Appointment, error)

	// -------- Ledger --------
	ReplaceLineItems(ctx context.Context, appointmentID uint, items []models.AppointmentLineItem) error
	ListLineItems(ctx context.Context, appointmentID uint) ([]models.AppointmentLineItem, error)
}
