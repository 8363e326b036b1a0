package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"gestionale/pkg/models"
)

// StartOnboarding consumes an accepted candidate: inside one transaction it
// creates an active trial user with a temporary password, a trial project,
// one team assignment, and advances the candidate status. Preconditions are
// checked in order; any failure rolls the whole unit back, leaving no orphan
// user or project.
func (s *Store) StartOnboarding(ctx context.Context, candidateID int, actorArea string) (result models.OnboardingResult, err error) {
	start := time.Now()
	defer func() { s.observe("StartOnboarding", start, err) }()
	tempPassword := uuid.NewString()[:13]
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.OnboardingResult{}, fmt.Errorf("err hashing temp password: %w", err)
	}
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		var candidate models.Candidate
		errTx := tx.GetContext(ctx, &candidate,
			`SELECT * FROM candidates WHERE id = $1 FOR UPDATE`, candidateID)
		switch {
		case errors.Is(errTx, sql.ErrNoRows):
			return ErrCandidateNotFound
		case errTx != nil:
			return fmt.Errorf("err getting candidate %d: %w", candidateID, errTx)
		}
		if candidate.Status != models.CandidateStatusAccepted {
			return ErrCandidateNotAccepted
		}
		var taken bool
		if errTx = tx.GetContext(ctx, &taken,
			`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, candidate.Email); errTx != nil {
			return fmt.Errorf("err checking email: %w", errTx)
		}
		if taken {
			return ErrEmailTaken
		}
		area := candidate.Area
		if area == "" {
			area = actorArea
		}
		query := `
INSERT INTO users (last_name, first_name, email, password_hash, role, area, active)
VALUES ($1, $2, $3, $4, $5, $6, TRUE)
RETURNING *;`
		if errTx = tx.GetContext(ctx, &result.User, query,
			candidate.LastName, candidate.FirstName, candidate.Email,
			string(hash), models.RoleTrial, area); errTx != nil {
			return fmt.Errorf("err creating user: %w", errTx)
		}
		query = `
INSERT INTO projects (name, area, status)
VALUES ($1, $2, $3)
RETURNING *;`
		name := fmt.Sprintf("Percorso di prova - %s %s", candidate.FirstName, candidate.LastName)
		if errTx = tx.GetContext(ctx, &result.Project, query,
			name, area, models.ProjectStatusActive); errTx != nil {
			return fmt.Errorf("err creating trial project: %w", errTx)
		}
		if _, errTx = tx.ExecContext(ctx,
			`INSERT INTO project_teams (project_id, user_id) VALUES ($1, $2)`,
			result.Project.ID, result.User.ID); errTx != nil {
			return fmt.Errorf("err assigning user to trial project: %w", errTx)
		}
		if _, errTx = tx.ExecContext(ctx,
			`UPDATE candidates SET status = $2, updated_at = now() WHERE id = $1`,
			candidateID, models.CandidateStatusOnboarding); errTx != nil {
			return fmt.Errorf("err updating candidate status: %w", errTx)
		}
		return nil
	})
	if err != nil {
		return models.OnboardingResult{}, err
	}
	result.TempPassword = tempPassword
	return result, nil
}
