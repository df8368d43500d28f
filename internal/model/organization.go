package model

import (
	"time"
)

// Organization represents a tenant in the developer API platform. Every
// credential, token, and webhook belongs to exactly one organization.
type Organization struct {
	UUID           string    `json:"uuid" db:"uuid"`
	Handle         string    `json:"handle" db:"handle"`
	Name           string    `json:"name" db:"name"`
	AllowedOrigins []string  `json:"allowedOrigins" db:"allowed_origins"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Organization model
func (Organization) TableName() string {
	return "organizations"
}
