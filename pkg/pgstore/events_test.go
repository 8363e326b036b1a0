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

var (
	eventColumns = []string{
		"id", "title", "description", "start_at", "end_at", "call_url",
		"created_by", "notified", "created_at", "updated_at",
	}
	participantColumns = []string{"event_id", "user_id", "status"}
)

func eventRow(id int, title string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(eventColumns).
		AddRow(id, title, "", now.Add(time.Hour), now.Add(2*time.Hour), "", 1, false, now, now)
}

func TestSetRSVPUpdatesInvitedParticipant(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`UPDATE event_participants SET status = \$3 WHERE event_id = \$1 AND user_id = \$2 RETURNING \*`).
		WithArgs(3, 9, models.ParticipantAccepted).
		WillReturnRows(sqlmock.NewRows(participantColumns).AddRow(3, 9, models.ParticipantAccepted))

	p, err := store.SetRSVP(context.Background(), 3, 9, models.ParticipantAccepted)
	require.NoError(t, err)
	require.Equal(t, models.ParticipantAccepted, p.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRSVPRejectsUninvitedUser(t *testing.T) {
	store, mock := newMockStore(t)

	// no participant row for this user, but the event exists
	mock.ExpectQuery(`UPDATE event_participants`).
		WithArgs(3, 9, models.ParticipantDeclined).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT \* FROM events WHERE id = \$1`).
		WithArgs(3).
		WillReturnRows(eventRow(3, "Riunione"))
	mock.ExpectQuery(`SELECT \* FROM event_participants WHERE event_id = \$1 ORDER BY user_id`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(participantColumns).AddRow(3, 2, models.ParticipantPending))

	_, err := store.SetRSVP(context.Background(), 3, 9, models.ParticipantDeclined)
	require.ErrorIs(t, err, ErrParticipantNotInvited)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRSVPUnknownEvent(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`UPDATE event_participants`).
		WithArgs(42, 9, models.ParticipantAccepted).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT \* FROM events WHERE id = \$1`).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := store.SetRSVP(context.Background(), 42, 9, models.ParticipantAccepted)
	require.ErrorIs(t, err, ErrEventNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRSVPInvalidStatus(t *testing.T) {
	store, mock := newMockStore(t)

	_, err := store.SetRSVP(context.Background(), 3, 9, "forse")
	require.ErrorIs(t, err, ErrInvalidParticipant)
	require.NoError(t, mock.ExpectationsWereMet())
}
