package pgstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"gestionale/pkg/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewStoreWithDB(log, sqlx.NewDb(db, "sqlmock")), mock
}

var clientColumns = []string{
	"id", "name", "referent", "email", "phone", "status", "notes",
	"version", "created_at", "updated_at",
}

func clientRow(id int, name string, version int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(clientColumns).
		AddRow(id, name, "", "", "", "attivo", "", version, now, now)
}

func TestUpdateClientStaleVersionConflict(t *testing.T) {
	store, mock := newMockStore(t)

	// the WHERE clause eats the stale update, zero rows come back
	mock.ExpectQuery(`UPDATE clients`).
		WithArgs(7, nil, nil, nil, nil, nil, nil, 3).
		WillReturnRows(sqlmock.NewRows(clientColumns))
	mock.ExpectQuery(`SELECT \* FROM clients WHERE id = \$1`).
		WithArgs(7).
		WillReturnRows(clientRow(7, "Acme", 5))

	_, err := store.UpdateClient(context.Background(), 7, models.ClientRequest{
		ExpectedVersion: intPtr(3),
	})
	var conflict *models.VersionConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, 3, conflict.Expected)
	require.Equal(t, 5, conflict.Current)
	server, ok := conflict.Server.(models.Client)
	require.True(t, ok)
	require.Equal(t, 5, server.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClientNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`UPDATE clients`).
		WithArgs(99, nil, nil, nil, nil, nil, nil, 1).
		WillReturnRows(sqlmock.NewRows(clientColumns))
	mock.ExpectQuery(`SELECT \* FROM clients WHERE id = \$1`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := store.UpdateClient(context.Background(), 99, models.ClientRequest{
		ExpectedVersion: intPtr(1),
	})
	require.ErrorIs(t, err, ErrClientNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClientMatchingVersionBumps(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`UPDATE clients`).
		WithArgs(7, "Acme Srl", nil, nil, nil, nil, nil, 3).
		WillReturnRows(clientRow(7, "Acme Srl", 4))

	updated, err := store.UpdateClient(context.Background(), 7, models.ClientRequest{
		Name:            strPtr("Acme Srl"),
		ExpectedVersion: intPtr(3),
	})
	require.NoError(t, err)
	require.Equal(t, "Acme Srl", updated.Name)
	require.Equal(t, 4, updated.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClientWithoutVersionIsUnconditional(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`UPDATE clients`).
		WithArgs(7, "Acme Srl", nil, nil, nil, nil, nil, nil).
		WillReturnRows(clientRow(7, "Acme Srl", 9))

	updated, err := store.UpdateClient(context.Background(), 7, models.ClientRequest{
		Name: strPtr("Acme Srl"),
	})
	require.NoError(t, err)
	require.Equal(t, 9, updated.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClientNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM clients WHERE id = \$1`).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetClient(context.Background(), 42)
	require.ErrorIs(t, err, ErrClientNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteClientUnlinksProjectsAndContracts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE projects SET client_id = NULL WHERE client_id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM contracts WHERE client_id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`DELETE FROM clients WHERE id = \$1 RETURNING \*`).
		WithArgs(7).
		WillReturnRows(clientRow(7, "Acme", 3))
	mock.ExpectCommit()

	deleted, err := store.DeleteClient(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "Acme", deleted.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteClientNotFoundRollsBack(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE projects SET client_id = NULL WHERE client_id = \$1`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM contracts WHERE client_id = \$1`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`DELETE FROM clients WHERE id = \$1 RETURNING \*`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := store.DeleteClient(context.Background(), 99)
	require.ErrorIs(t, err, ErrClientNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
