package models

import "time"

type ContractRequest struct {
	ClientID  *int       `json:"clientID" db:"client_id"`
	ProjectID *int       `json:"projectID" db:"project_id"`
	Title     *string    `json:"title" db:"title"`
	Amount    *float64   `json:"amount" db:"amount"`
	Status    *string    `json:"status" db:"status"`
	SignedAt  *time.Time `json:"signedAt" db:"signed_at"`
}

// Contracts have no version column: updates are last-write-wins.
type Contract struct {
	ID        int        `json:"id" db:"id"`
	ClientID  int        `json:"clientID" db:"client_id"`
	ProjectID *int       `json:"projectID" db:"project_id"`
	Title     string     `json:"title" db:"title"`
	Amount    float64    `json:"amount" db:"amount"`
	Status    string     `json:"status" db:"status"`
	SignedAt  *time.Time `json:"signedAt" db:"signed_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}
