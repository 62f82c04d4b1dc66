package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/booking-engine/internal/domain/client"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) FindClientByIdentity(
	ctx context.Context,
	tenantID uint,
	identity string,
) (*models.Client, error) {

	var c models.Client
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND auth_identity = ?", tenantID, identity).
		First(&c).Error; err != nil {
		return nil, notFound(err, client.ErrClientNotFound)
	}
	return &c, nil
}

func (r *AppointmentGormRepository) FindClientByPhone(
	ctx context.Context,
	tenantID uint,
	phone string,
) (*models.Client, error) {

	var c models.Client
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		First(&c).Error; err != nil {
		return nil, notFound(err, client.ErrClientNotFound)
	}
	return &c, nil
}

// CreateClient inserts inside a savepoint so a unique-index hit rolls back
// only the insert and the caller's transaction stays usable.
func (r *AppointmentGormRepository) CreateClient(
	ctx context.Context,
	c *models.Client,
) error {

	err := r.db.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		return sp.Omit(clause.Associations).Create(c).Error
	})
	if isUniqueViolation(err) {
		c.ID = 0
		return client.ErrDuplicateClient
	}
	return err
}

// LinkClientIdentity fills auth_identity only while it is still empty.
func (r *AppointmentGormRepository) LinkClientIdentity(
	ctx context.Context,
	clientID uint,
	identity string,
) error {

	err := r.db.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		return sp.Model(&models.Client{}).
			Where("id = ? AND auth_identity IS NULL", clientID).
			Update("auth_identity", identity).Error
	})
	if isUniqueViolation(err) {
		return client.ErrDuplicateClient
	}
	return err
}

func (r *AppointmentGormRepository) ReassertClientOwnership(
	ctx context.Context,
	clientID uint,
	tenantID uint,
	ownerUserID *uint,
) error {

	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", clientID).
		Updates(map[string]any{
			"tenant_id":     tenantID,
			"owner_user_id": ownerUserID,
		}).Error
}
