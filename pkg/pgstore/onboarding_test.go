package pgstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"gestionale/pkg/models"
)

var candidateColumns = []string{
	"id", "last_name", "first_name", "email", "phone", "area", "status",
	"notes", "created_at", "updated_at",
}

func candidateRow(id int, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(candidateColumns).
		AddRow(id, "Bianchi", "Luca", "luca@studio.it", "", "design", status, "", now, now)
}

func TestStartOnboardingCandidateNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM candidates WHERE id = \$1 FOR UPDATE`).
		WithArgs(4).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := store.StartOnboarding(context.Background(), 4, "design")
	require.ErrorIs(t, err, ErrCandidateNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStartOnboardingRequiresAcceptedStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM candidates WHERE id = \$1 FOR UPDATE`).
		WithArgs(4).
		WillReturnRows(candidateRow(4, models.CandidateStatusPending))
	mock.ExpectRollback()

	_, err := store.StartOnboarding(context.Background(), 4, "design")
	require.ErrorIs(t, err, ErrCandidateNotAccepted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStartOnboardingEmailCollisionRollsBack(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM candidates WHERE id = \$1 FOR UPDATE`).
		WithArgs(4).
		WillReturnRows(candidateRow(4, models.CandidateStatusAccepted))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("luca@studio.it").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := store.StartOnboarding(context.Background(), 4, "design")
	require.ErrorIs(t, err, ErrEmailTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}
