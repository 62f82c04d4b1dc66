package models

import "time"

// AppointmentLineItem snapshots the catalog price at sale time so later
// catalog edits never rewrite historical revenue.
type AppointmentLineItem struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"index;not null" json:"appointment_id"`
	CatalogItemID uint `json:"catalog_item_id"`

	Name      string  `gorm:"size:100" json:"name"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`

	CreatedAt time.Time `json:"created_at"`
}
