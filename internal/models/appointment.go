package models

import "time"

const (
	OriginSite          = "site"
	OriginManual        = "manual"
	OriginManualHistory = "manual_history"
	OriginQuickSale     = "quick_sale"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TenantID uint `gorm:"index" json:"tenant_id"`

	ProfessionalID *uint `json:"professional_id"`
	Professional   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"professional,omitempty"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ServiceID *uint        `json:"service_id"`
	Service   *CatalogItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	// Civil, zone-less values in the tenant timezone.
	Date string `gorm:"size:10;index" json:"date"`
	Time string `gorm:"size:5" json:"time"`

	Status string   `gorm:"size:20;default:'pending'" json:"status"`
	Price  *float64 `json:"price"`
	Origin string   `gorm:"size:20;default:'site'" json:"origin"`
	// PriceOverride marks a price set by staff at completion; later item
	// edits leave it alone.
	PriceOverride bool `gorm:"not null;default:false" json:"price_override"`

	Notes       string     `gorm:"size:255" json:"notes"`
	ConcludedAt *time.Time `json:"concluded_at"`

	LineItems []AppointmentLineItem `json:"line_items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
