package models

import "time"

// Business is a tenant. Every other entity is scoped to a business id.
type Business struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	LogoPath  string    `db:"logo_path" json:"-"`
	LogoURL   string    `db:"-" json:"logo_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
