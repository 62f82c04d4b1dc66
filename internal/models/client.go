package models

import "time"

// Client is the durable merge point between a logged-in identity and a phone
// number, scoped to one tenant.
type Client struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`

	// OwnerUserID mirrors the tenant owner so ownership checks need no join.
	OwnerUserID  *uint   `json:"owner_user_id"`
	AuthIdentity *string `gorm:"size:128" json:"auth_identity,omitempty"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
