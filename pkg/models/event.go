package models

import "time"

const (
	ParticipantPending  = `pending`
	ParticipantAccepted = `accepted`
	ParticipantDeclined = `declined`
)

type EventRequest struct {
	Title       *string    `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	StartTime   *time.Time `json:"startTime" db:"start_at"`
	EndTime     *time.Time `json:"endTime" db:"end_at"`
	CallURL     *string    `json:"callURL" db:"call_url"`
}

type Event struct {
	ID           int           `json:"id" db:"id"`
	Title        string        `json:"title" db:"title"`
	Description  string        `json:"description" db:"description"`
	StartTime    time.Time     `json:"startTime" db:"start_at"`
	EndTime      time.Time     `json:"endTime" db:"end_at"`
	CallURL      string        `json:"callURL" db:"call_url"`
	CreatedBy    int           `json:"createdBy" db:"created_by"`
	Notified     bool          `json:"-" db:"notified"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" db:"updated_at"`
	Participants []Participant `json:"participants,omitempty" db:"-"`
}

type Participant struct {
	EventID int    `json:"eventID" db:"event_id"`
	UserID  int    `json:"userID" db:"user_id"`
	Status  string `json:"status" db:"status"`
}

type RSVPRequest struct {
	Status string `json:"status"`
}

// EventReminder is one (event, participant) pair the reminder worker still
// has to notify.
type EventReminder struct {
	EventID   int       `db:"event_id"`
	Title     string    `db:"title"`
	StartTime time.Time `db:"start_at"`
	UserID    int       `db:"user_id"`
	ChatID    *int64    `db:"chat_id"`
}
