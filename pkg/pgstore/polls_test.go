package pgstore

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"gestionale/pkg/models"
)

var pollColumns = []string{
	"id", "title", "description", "duration_minutes", "invitation_rules",
	"status", "final_event_id", "created_by", "created_at", "updated_at",
}

func pollRow(id int, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(pollColumns).
		AddRow(id, "Retro", "", 60, []byte(`{}`), status, nil, 1, now, now)
}

func TestVoteOnClosedPoll(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM scheduling_polls WHERE id = \$1 FOR UPDATE`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.PollStatusClosed))
	mock.ExpectRollback()

	err := store.Vote(context.Background(), 3, 9, []int{1})
	require.ErrorIs(t, err, ErrPollClosed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteForeignSlotRejected(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM scheduling_polls`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.PollStatusOpen))
	mock.ExpectQuery(`SELECT id FROM poll_slots WHERE poll_id = \$1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectRollback()

	err := store.Vote(context.Background(), 3, 9, []int{1, 99})
	require.ErrorIs(t, err, ErrSlotNotInPoll)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteReplacesPriorVotes(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM scheduling_polls`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.PollStatusOpen))
	mock.ExpectQuery(`SELECT id FROM poll_slots WHERE poll_id = \$1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectExec(`DELETE FROM poll_votes`).
		WithArgs(3, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO poll_votes`).
		WithArgs(1, 9, 2, 9).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := store.Vote(context.Background(), 3, 9, []int{1, 2})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteEmptySetOnlyClears(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM scheduling_polls`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.PollStatusOpen))
	mock.ExpectQuery(`SELECT id FROM poll_slots WHERE poll_id = \$1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`DELETE FROM poll_votes`).
		WithArgs(3, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.Vote(context.Background(), 3, 9, nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizeClosedPollIsTerminal(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM scheduling_polls WHERE id = \$1 FOR UPDATE`).
		WithArgs(3).
		WillReturnRows(pollRow(3, models.PollStatusClosed))
	mock.ExpectRollback()

	_, err := store.OrganizePoll(context.Background(), 3, 1)
	require.ErrorIs(t, err, ErrPollClosed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizePollForeignSlot(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM scheduling_polls WHERE id = \$1 FOR UPDATE`).
		WithArgs(3).
		WillReturnRows(pollRow(3, models.PollStatusOpen))
	mock.ExpectQuery(`SELECT \* FROM poll_slots WHERE id = \$1 AND poll_id = \$2`).
		WithArgs(99, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "poll_id", "start_at", "end_at"}))
	mock.ExpectRollback()

	_, err := store.OrganizePoll(context.Background(), 3, 99)
	require.ErrorIs(t, err, ErrSlotNotInPoll)
	require.NoError(t, mock.ExpectationsWereMet())
}
