package models

import "time"

// ClientRequest uses pointer fields so that an absent field is "leave
// unchanged". A caller cannot clear a field to NULL through an update.
type ClientRequest struct {
	Name            *string `json:"name" db:"name"`
	Referent        *string `json:"referent" db:"referent"`
	Email           *string `json:"email" db:"email"`
	Phone           *string `json:"phone" db:"phone"`
	Status          *string `json:"status" db:"status"`
	Notes           *string `json:"notes" db:"notes"`
	ExpectedVersion *int    `json:"expectedVersion" db:"-"`
}

type Client struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Referent  string    `json:"referent" db:"referent"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Status    string    `json:"status" db:"status"`
	Notes     string    `json:"notes" db:"notes"`
	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
