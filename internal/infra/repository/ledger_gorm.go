package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// --------------------------------------------------
// Line items
// --------------------------------------------------

// ReplaceLineItems swaps the appointment's whole consumption set.
func (r *AppointmentGormRepository) ReplaceLineItems(
	ctx context.Context,
	appointmentID uint,
	items []models.AppointmentLineItem,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("appointment_id = ?", appointmentID).
			Delete(&models.AppointmentLineItem{}).Error; err != nil {
			return err
		}

		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ID = 0
			items[i].AppointmentID = appointmentID
		}
		return tx.Create(&items).Error
	})
}

func (r *AppointmentGormRepository) ListLineItems(
	ctx context.Context,
	appointmentID uint,
) ([]models.AppointmentLineItem, error) {

	var items []models.AppointmentLineItem
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
