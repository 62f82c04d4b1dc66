package models

import "time"

// Tenant is one business (shop / location). Civil dates and times of its
// appointments are interpreted in Timezone.
type Tenant struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:100;not null" json:"name"`
	Slug              string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone             string    `gorm:"size:20" json:"phone"`
	Address           string    `gorm:"size:255" json:"address"`
	Timezone          string    `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`
	MinAdvanceMinutes int       `gorm:"default:0" json:"min_advance_minutes"`
	OwnerUserID       *uint     `json:"owner_user_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
