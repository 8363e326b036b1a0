package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gestionale/pkg/models"
)

func (s *Store) GetClients(ctx context.Context) (clients []models.Client, err error) {
	start := time.Now()
	defer func() { s.observe("GetClients", start, err) }()
	if err = s.db.SelectContext(ctx, &clients, `SELECT * FROM clients ORDER BY id`); err != nil {
		return nil, fmt.Errorf("err getting clients: %w", err)
	}
	return clients, nil
}

func (s *Store) CreateClient(ctx context.Context, client models.ClientRequest) (created models.Client, err error) {
	start := time.Now()
	defer func() { s.observe("CreateClient", start, err) }()
	query := `
INSERT INTO clients (name, referent, email, phone, status, notes)
VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5, ''), 'attivo'), $6)
RETURNING *;`
	err = s.db.GetContext(ctx, &created, query,
		orEmpty(client.Name), orEmpty(client.Referent), orEmpty(client.Email),
		orEmpty(client.Phone), orEmpty(client.Status), orEmpty(client.Notes))
	if err != nil {
		return models.Client{}, fmt.Errorf("err creating client: %w", err)
	}
	return created, nil
}

func (s *Store) GetClient(ctx context.Context, id int) (client models.Client, err error) {
	start := time.Now()
	defer func() { s.observe("GetClient", start, err) }()
	err = s.db.GetContext(ctx, &client, `SELECT * FROM clients WHERE id = $1;`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Client{}, ErrClientNotFound
	case err != nil:
		return models.Client{}, fmt.Errorf("err getting client %d: %w", id, err)
	}
	return client, nil
}

// UpdateClient applies a coalesce-on-null patch. When ExpectedVersion is set
// the check is folded into the UPDATE's WHERE clause, so zero rows affected
// is the conflict signal and no second statement can race the check. Without
// ExpectedVersion the update is unconditional (legacy last-write-wins path).
// Either way version increments in the same statement.
func (s *Store) UpdateClient(ctx context.Context, id int, client models.ClientRequest) (updated models.Client, err error) {
	start := time.Now()
	defer func() { s.observe("UpdateClient", start, err) }()
	query := `
UPDATE clients
SET name       = COALESCE($2, name),
    referent   = COALESCE($3, referent),
    email      = COALESCE($4, email),
    phone      = COALESCE($5, phone),
    status     = COALESCE($6, status),
    notes      = COALESCE($7, notes),
    version    = version + 1,
    updated_at = now()
WHERE id = $1 AND ($8::int IS NULL OR version = $8)
RETURNING *;`
	err = s.db.GetContext(ctx, &updated, query, id,
		client.Name, client.Referent, client.Email, client.Phone,
		client.Status, client.Notes, client.ExpectedVersion)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		current, errCur := s.GetClient(ctx, id)
		if errCur != nil {
			err = errCur
			return models.Client{}, err
		}
		err = &models.VersionConflictError{
			Expected: *client.ExpectedVersion,
			Current:  current.Version,
			Server:   current,
		}
		return models.Client{}, err
	case err != nil:
		return models.Client{}, fmt.Errorf("err updating client %d: %w", id, err)
	}
	return updated, nil
}

// DeleteClient unlinks the client's projects and removes its contracts in the
// same transaction. Projects outlive their client; contracts do not, they have
// no meaning without a counterparty.
func (s *Store) DeleteClient(ctx context.Context, id int) (deleted models.Client, err error) {
	start := time.Now()
	defer func() { s.observe("DeleteClient", start, err) }()
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, errTx := tx.ExecContext(ctx, `UPDATE projects SET client_id = NULL WHERE client_id = $1`, id); errTx != nil {
			return fmt.Errorf("err unlinking projects: %w", errTx)
		}
		if _, errTx := tx.ExecContext(ctx, `DELETE FROM contracts WHERE client_id = $1`, id); errTx != nil {
			return fmt.Errorf("err deleting contracts: %w", errTx)
		}
		errTx := tx.GetContext(ctx, &deleted, `DELETE FROM clients WHERE id = $1 RETURNING *;`, id)
		switch {
		case errors.Is(errTx, sql.ErrNoRows):
			return ErrClientNotFound
		case errTx != nil:
			return fmt.Errorf("err deleting client %d: %w", id, errTx)
		}
		return nil
	})
	if err != nil {
		return models.Client{}, err
	}
	return deleted, nil
}
