package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	PollStatusOpen   = `open`
	PollStatusClosed = `closed`
)

// InvitationRules are the structured criteria a poll creator uses to pick the
// invitees: named cohorts (matched against role or area), explicit user ids,
// and an optional single-area filter. Unknown group names are ignored so old
// clients keep working when cohorts are renamed.
type InvitationRules struct {
	Groups      []string `json:"groups,omitempty"`
	Individuals []int    `json:"individuals,omitempty"`
	Area        string   `json:"area,omitempty"`
}

// Stored as jsonb.
func (r InvitationRules) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *InvitationRules) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	case nil:
		*r = InvitationRules{}
		return nil
	default:
		return fmt.Errorf("unsupported invitation rules type %T", src)
	}
}

type PollRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"durationMinutes"`
	InvitationRules InvitationRules `json:"invitationRules"`
	Slots           []SlotRequest   `json:"slots"`
}

type SlotRequest struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type Poll struct {
	ID              int             `json:"id" db:"id"`
	Title           string          `json:"title" db:"title"`
	Description     string          `json:"description" db:"description"`
	DurationMinutes int             `json:"durationMinutes" db:"duration_minutes"`
	InvitationRules InvitationRules `json:"invitationRules" db:"invitation_rules"`
	Status          string          `json:"status" db:"status"`
	FinalEventID    *int            `json:"finalEventID" db:"final_event_id"`
	CreatedBy       int             `json:"createdBy" db:"created_by"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
	Slots           []PollSlot      `json:"slots,omitempty" db:"-"`
}

type PollSlot struct {
	ID        int       `json:"id" db:"id"`
	PollID    int       `json:"pollID" db:"poll_id"`
	StartTime time.Time `json:"startTime" db:"start_at"`
	EndTime   time.Time `json:"endTime" db:"end_at"`
	Votes     []int     `json:"votes,omitempty" db:"-"`
}

type VoteRequest struct {
	SlotIDs []int `json:"slotIDs"`
}

type OrganizeRequest struct {
	SlotID int `json:"slotID"`
}
