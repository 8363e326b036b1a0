package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gestionale/pkg/models"
)

func (s *Store) GetCandidates(ctx context.Context) (candidates []models.Candidate, err error) {
	start := time.Now()
	defer func() { s.observe("GetCandidates", start, err) }()
	if err = s.db.SelectContext(ctx, &candidates, `SELECT * FROM candidates ORDER BY id`); err != nil {
		return nil, fmt.Errorf("err getting candidates: %w", err)
	}
	return candidates, nil
}

func (s *Store) CreateCandidate(ctx context.Context, candidate models.CandidateRequest) (created models.Candidate, err error) {
	start := time.Now()
	defer func() { s.observe("CreateCandidate", start, err) }()
	if candidate.Email == nil {
		return models.Candidate{}, fmt.Errorf("email is required")
	}
	query := `
INSERT INTO candidates (last_name, first_name, email, phone, area, status, notes)
VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), $7), $8)
RETURNING *;`
	err = s.db.GetContext(ctx, &created, query,
		orEmpty(candidate.LastName), orEmpty(candidate.FirstName), *candidate.Email,
		orEmpty(candidate.Phone), orEmpty(candidate.Area), orEmpty(candidate.Status),
		models.CandidateStatusPending, orEmpty(candidate.Notes))
	if err != nil {
		return models.Candidate{}, fmt.Errorf("err creating candidate: %w", err)
	}
	return created, nil
}

func (s *Store) GetCandidate(ctx context.Context, id int) (candidate models.Candidate, err error) {
	start := time.Now()
	defer func() { s.observe("GetCandidate", start, err) }()
	err = s.db.GetContext(ctx, &candidate, `SELECT * FROM candidates WHERE id = $1;`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Candidate{}, ErrCandidateNotFound
	case err != nil:
		return models.Candidate{}, fmt.Errorf("err getting candidate %d: %w", id, err)
	}
	return candidate, nil
}

func (s *Store) UpdateCandidate(ctx context.Context, id int, candidate models.CandidateRequest) (updated models.Candidate, err error) {
	start := time.Now()
	defer func() { s.observe("UpdateCandidate", start, err) }()
	query := `
UPDATE candidates
SET last_name  = COALESCE($2, last_name),
    first_name = COALESCE($3, first_name),
    email      = COALESCE($4, email),
    phone      = COALESCE($5, phone),
    area       = COALESCE($6, area),
    status     = COALESCE($7, status),
    notes      = COALESCE($8, notes),
    updated_at = now()
WHERE id = $1
RETURNING *;`
	err = s.db.GetContext(ctx, &updated, query, id,
		candidate.LastName, candidate.FirstName, candidate.Email, candidate.Phone,
		candidate.Area, candidate.Status, candidate.Notes)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Candidate{}, ErrCandidateNotFound
	case err != nil:
		return models.Candidate{}, fmt.Errorf("err updating candidate %d: %w", id, err)
	}
	return updated, nil
}

func (s *Store) DeleteCandidate(ctx context.Context, id int) (deleted models.Candidate, err error) {
	start := time.Now()
	defer func() { s.observe("DeleteCandidate", start, err) }()
	err = s.db.GetContext(ctx, &deleted, `DELETE FROM candidates WHERE id = $1 RETURNING *;`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Candidate{}, ErrCandidateNotFound
	case err != nil:
		return models.Candidate{}, fmt.Errorf("err deleting candidate %d: %w", id, err)
	}
	return deleted, nil
}
