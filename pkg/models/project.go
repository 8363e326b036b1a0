package models

import "time"

const ProjectStatusActive = `In Corso`

type ProjectRequest struct {
	Name            *string `json:"name" db:"name"`
	ClientID        *int    `json:"clientID" db:"client_id"`
	Area            *string `json:"area" db:"area"`
	Status          *string `json:"status" db:"status"`
	Notes           *string `json:"notes" db:"notes"`
	ExpectedVersion *int    `json:"expectedVersion" db:"-"`
}

type Project struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ClientID  *int      `json:"clientID" db:"client_id"`
	Area      string    `json:"area" db:"area"`
	Status    string    `json:"status" db:"status"`
	Notes     string    `json:"notes" db:"notes"`
	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type TeamMember struct {
	ProjectID int `json:"projectID" db:"project_id"`
	UserID    int `json:"userID" db:"user_id"`
}
