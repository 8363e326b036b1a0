package pgstore

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{
	"id", "last_name", "first_name", "email", "password_hash", "role",
	"area", "chat_id", "active", "created_at", "updated_at",
}

func userRow(id int, email, role string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userColumns).
		AddRow(id, "Rossi", "Mario", email, "x", role, "tech", nil, true, now, now)
}

func TestDeleteUserDetachesReferences(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM project_teams WHERE user_id = \$1`).
		WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM poll_votes WHERE user_id = \$1`).
		WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM event_participants WHERE user_id = \$1`).
		WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE tasks SET assignee_id = NULL WHERE assignee_id = \$1`).
		WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM tasks WHERE created_by = \$1`).
		WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM scheduling_polls WHERE created_by = \$1`).
		WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE scheduling_polls SET final_event_id = NULL WHERE final_event_id IN \(SELECT id FROM events WHERE created_by = \$1\)`).
		WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM events WHERE created_by = \$1`).
		WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`DELETE FROM users WHERE id = \$1 RETURNING \*`).
		WithArgs(4).
		WillReturnRows(userRow(4, "mario@studio.it", "staff"))
	mock.ExpectCommit()

	deleted, err := store.DeleteUser(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, "mario@studio.it", deleted.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}
