package repository

import (
	"context"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *AppointmentGormRepository) GetTenantByID(
	ctx context.Context,
	id uint,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, notFound(err, domain.ErrTenantNotFound)
	}
	return &tenant, nil
}

func (r *AppointmentGormRepository) GetTenantBySlug(
	ctx context.Context,
	slug string,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&tenant).Error; err != nil {
		return nil, notFound(err, domain.ErrTenantNotFound)
	}
	return &tenant, nil
}

// --------------------------------------------------
// Staff
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	tenantID uint,
	userID uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", userID, tenantID).
		First(&user).Error; err != nil {
		return nil, notFound(err, domain.ErrProfessionalNotFound)
	}
	return &user, nil
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetCatalogItem(
	ctx context.Context,
	tenantID uint,
	itemID uint,
) (*models.CatalogItem, error) {

	var item models.CatalogItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", itemID, tenantID).
		First(&item).Error; err != nil {
		return nil, notFound(err, domain.ErrServiceNotFound)
	}
	return &item, nil
}

// ListCatalogItems returns the tenant's items among ids, keyed by id. Missing
// ids are simply absent from the map.
func (r *AppointmentGormRepository) ListCatalogItems(
	ctx context.Context,
	tenantID uint,
	ids []uint,
) (map[uint]models.CatalogItem, error) {

	out := make(map[uint]models.CatalogItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []models.CatalogItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&items).Error; err != nil {
		return nil, err
	}

	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}
