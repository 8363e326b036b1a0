package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gestionale/pkg/models"
)

func (s *Store) GetContracts(ctx context.Context) (contracts []models.Contract, err error) {
	start := time.Now()
	defer func() { s.observe("GetContracts", start, err) }()
	if err = s.db.SelectContext(ctx, &contracts, `SELECT * FROM contracts ORDER BY id`); err != nil {
		return nil, fmt.Errorf("err getting contracts: %w", err)
	}
	return contracts, nil
}

func (s *Store) CreateContract(ctx context.Context, contract models.ContractRequest) (created models.Contract, err error) {
	start := time.Now()
	defer func() { s.observe("CreateContract", start, err) }()
	if contract.ClientID == nil || contract.Title == nil {
		return models.Contract{}, fmt.Errorf("clientID and title are required")
	}
	query := `
INSERT INTO contracts (client_id, project_id, title, amount, status, signed_at)
VALUES ($1, $2, $3, COALESCE($4, 0), COALESCE($5, 'bozza'), $6)
RETURNING *;`
	err = s.db.GetContext(ctx, &created, query,
		contract.ClientID, contract.ProjectID, contract.Title,
		contract.Amount, contract.Status, contract.SignedAt)
	if err != nil {
		return models.Contract{}, fmt.Errorf("err creating contract: %w", err)
	}
	return created, nil
}

func (s *Store) GetContract(ctx context.Context, id int) (contract models.Contract, err error) {
	start := time.Now()
	defer func() { s.observe("GetContract", start, err) }()
	err = s.db.GetContext(ctx, &contract, `SELECT * FROM contracts WHERE id = $1;`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Contract{}, ErrContractNotFound
	case err != nil:
		return models.Contract{}, fmt.Errorf("err getting contract %d: %w", id, err)
	}
	return contract, nil
}

// Contracts carry no version column: updates are last-write-wins.
func (s *Store) UpdateContract(ctx context.Context, id int, contract models.ContractRequest) (updated models.Contract, err error) {
	start := time.Now()
	defer func() { s.observe("UpdateContract", start, err) }()
	query := `
UPDATE contracts
SET client_id  = COALESCE($2, client_id),
    project_id = COALESCE($3, project_id),
    title      = COALESCE($4, title),
    amount     = COALESCE($5, amount),
    status     = COALESCE($6, status),
    signed_at  = COALESCE($7, signed_at),
    updated_at = now()
WHERE id = $1
RETURNING *;`
	err = s.db.GetContext(ctx, &updated, query, id,
		contract.ClientID, contract.ProjectID, contract.Title,
		contract.Amount, contract.Status, contract.SignedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Contract{}, ErrContractNotFound
	case err != nil:
		return models.Contract{}, fmt.Errorf("err updating contract %d: %w", id, err)
	}
	return updated, nil
}

func (s *Store) DeleteContract(ctx context.Context, id int) (deleted models.Contract, err error) {
	start := time.Now()
	defer func() { s.observe("DeleteContract", start, err) }()
	err = s.db.GetContext(ctx, &deleted, `DELETE FROM contracts WHERE id = $1 RETURNING *;`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Contract{}, ErrContractNotFound
	case err != nil:
		return models.Contract{}, fmt.Errorf("err deleting contract %d: %w", id, err)
	}
	return deleted, nil
}
