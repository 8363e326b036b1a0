package models

import "time"

// Candidate pipeline statuses. The UI renders them verbatim, so they stay in
// Italian.
const (
	CandidateStatusPending    = `In attesa`
	CandidateStatusInterview  = `In colloquio`
	CandidateStatusAccepted   = `Accettato`
	CandidateStatusRejected   = `Rifiutato`
	CandidateStatusOnboarding = `Onboarding`
)

type CandidateRequest struct {
	LastName  *string `json:"lastName" db:"last_name"`
	FirstName *string `json:"firstName" db:"first_name"`
	Email     *string `json:"email" db:"email"`
	Phone     *string `json:"phone" db:"phone"`
	Area      *string `json:"area" db:"area"`
	Status    *string `json:"status" db:"status"`
	Notes     *string `json:"notes" db:"notes"`
}

type Candidate struct {
	ID        int       `json:"id" db:"id"`
	LastName  string    `json:"lastName" db:"last_name"`
	FirstName string    `json:"firstName" db:"first_name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Area      string    `json:"area" db:"area"`
	Status    string    `json:"status" db:"status"`
	Notes     string    `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// OnboardingResult is what startOnboarding hands back: the freshly created
// user and trial project plus the one-time temporary password. The password
// is shown exactly once; only its bcrypt hash is stored.
type OnboardingResult struct {
	User         User    `json:"user"`
	Project      Project `json:"project"`
	TempPassword string  `json:"tempPassword"`
}
