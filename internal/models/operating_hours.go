package models

import "time"

// OperatingHours is one day-of-week row. ProfessionalID nil is the tenant's
// general row; a non-nil value overrides it for that professional.
type OperatingHours struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	TenantID       uint  `gorm:"index" json:"tenant_id"`
	ProfessionalID *uint `json:"professional_id"`

	DayOfWeek int `json:"day_of_week"`

	StartTime    string `gorm:"size:5" json:"start_time"`
	EndTime      string `gorm:"size:5" json:"end_time"`
	LunchStart   string `gorm:"size:5" json:"lunch_start"`
	LunchEnd     string `gorm:"size:5" json:"lunch_end"`
	SlotDuration int    `gorm:"default:30" json:"slot_duration"`
	IsClosed     bool   `json:"is_closed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OperatingHours) TableName() string { return "operating_hours" }
