package models

import "time"

const (
	CatalogKindService = "service"
	CatalogKindProduct = "product"
)

type CatalogItem struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	Kind        string  `gorm:"size:20;default:'service'" json:"kind"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
	Active      bool    `gorm:"default:true" json:"active"`

	Category string `gorm:"size:50" json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
