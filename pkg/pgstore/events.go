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

func (s *Store) GetEvents(ctx context.Context) (events []models.Event, err error) {
	start := time.Now()
	defer func() { s.observe("GetEvents", start, err) }()
	if err = s.db.SelectContext(ctx, &events, `SELECT * FROM events ORDER BY start_at`); err != nil {
		return nil, fmt.Errorf("err getting events: %w", err)
	}
	for i := range events {
		if err = s.db.SelectContext(ctx, &events[i].Participants,
			`SELECT * FROM event_participants WHERE event_id = $1 ORDER BY user_id`, events[i].ID); err != nil {
			return nil, fmt.Errorf("err getting participants: %w", err)
		}
	}
	return events, nil
}

func (s *Store) CreateEvent(ctx context.Context, event models.EventRequest, createdBy int, participantIDs []int) (created models.Event, err error) {
	start := time.Now()
	defer func() { s.observe("CreateEvent", start, err) }()
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		query := `
INSERT INTO events (title, description, start_at, end_at, call_url, created_by)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING *;`
		if errTx := tx.GetContext(ctx, &created, query,
			orEmpty(event.Title), orEmpty(event.Description), event.StartTime,
			event.EndTime, orEmpty(event.CallURL), createdBy); errTx != nil {
			return fmt.Errorf("err creating event: %w", errTx)
		}
		participants, errTx := insertParticipants(ctx, tx, created.ID, participantIDs)
		if errTx != nil {
			return errTx
		}
		created.Participants = participants
		return nil
	})
	if err != nil {
		return models.Event{}, err
	}
	return created, nil
}

// insertParticipants adds the given users as pending participants with one
// multi-row insert. Duplicate ids collapse on the unique constraint.
func insertParticipants(ctx context.Context, tx *sqlx.Tx, eventID int, userIDs []int) ([]models.Participant, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	args := make([]interface{}, 0, len(userIDs)*3)
	for _, id := range userIDs {
		args = append(args, eventID, id, models.ParticipantPending)
	}
	query := `INSERT INTO event_participants (event_id, user_id, status) VALUES ` +
		valuesPlaceholders(len(userIDs), 3) + ` ON CONFLICT DO NOTHING RETURNING *;`
	var participants []models.Participant
	if err := tx.SelectContext(ctx, &participants, query, args...); err != nil {
		return nil, fmt.Errorf("err inserting participants: %w", err)
	}
	return participants, nil
}

func (s *Store) GetEvent(ctx context.Context, id int) (event models.Event, err error) {
	start := time.Now()
	defer func() { s.observe("GetEvent", start, err) }()
	err = s.db.GetContext(ctx, &event, `SELECT * FROM events WHERE id = $1;`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Event{}, ErrEventNotFound
	case err != nil:
		return models.Event{}, fmt.Errorf("err getting event %d: %w", id, err)
	}
	if err = s.db.SelectContext(ctx, &event.Participants,
		`SELECT * FROM event_participants WHERE event_id = $1 ORDER BY user_id`, id); err != nil {
		return models.Event{}, fmt.Errorf("err getting participants: %w", err)
	}
	return event, nil
}

func (s *Store) UpdateEvent(ctx context.Context, id int, event models.EventRequest) (updated models.Event, err error) {
	start := time.Now()
	defer func() { s.observe("UpdateEvent", start, err) }()
	query := `
UPDATE events
SET title       = COALESCE($2, title),
    description = COALESCE($3, description),
    start_at    = COALESCE($4, start_at),
    end_at      = COALESCE($5, end_at),
    call_url    = COALESCE($6, call_url),
    updated_at  = now()
WHERE id = $1
RETURNING *;`
	err = s.db.GetContext(ctx, &updated, query, id,
		event.Title, event.Description, event.StartTime, event.EndTime, event.CallURL)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Event{}, ErrEventNotFound
	case err != nil:
		return models.Event{}, fmt.Errorf("err updating event %d: %w", id, err)
	}
	return updated, nil
}

// DeleteEvent removes participant rows in the same transaction; there is no
// database-level cascade the application relies on.
func (s *Store) DeleteEvent(ctx context.Context, id int) (deleted models.Event, err error) {
	start := time.Now()
	defer func() { s.observe("DeleteEvent", start, err) }()
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, errTx := tx.ExecContext(ctx, `DELETE FROM event_participants WHERE event_id = $1`, id); errTx != nil {
			return fmt.Errorf("err deleting participants: %w", errTx)
		}
		if _, errTx := tx.ExecContext(ctx, `UPDATE scheduling_polls SET final_event_id = NULL WHERE final_event_id = $1`, id); errTx != nil {
			return fmt.Errorf("err unlinking polls: %w", errTx)
		}
		errTx := tx.GetContext(ctx, &deleted, `DELETE FROM events WHERE id = $1 RETURNING *;`, id)
		switch {
		case errors.Is(errTx, sql.ErrNoRows):
			return ErrEventNotFound
		case errTx != nil:
			return fmt.Errorf("err deleting event %d: %w", id, errTx)
		}
		return nil
	})
	if err != nil {
		return models.Event{}, err
	}
	return deleted, nil
}

// SetRSVP records the caller's answer on their invitation. Only invited users
// have a participant row to update; anyone else gets ErrParticipantNotInvited.
func (s *Store) SetRSVP(ctx context.Context, eventID, userID int, status string) (participant models.Participant, err error) {
	start := time.Now()
	defer func() { s.observe("SetRSVP", start, err) }()
	if status != models.ParticipantAccepted && status != models.ParticipantDeclined {
		return models.Participant{}, ErrInvalidParticipant
	}
	query := `
UPDATE event_participants
SET status = $3
WHERE event_id = $1 AND user_id = $2
RETURNING *;`
	err = s.db.GetContext(ctx, &participant, query, eventID, userID, status)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, errEv := s.GetEvent(ctx, eventID); errEv != nil {
			err = errEv
			return models.Participant{}, err
		}
		err = ErrParticipantNotInvited
		return models.Participant{}, err
	case err != nil:
		return models.Participant{}, fmt.Errorf("err setting rsvp: %w", err)
	}
	return participant, nil
}

// PendingEventReminders lists accepted participants of not-yet-notified
// events starting within the window.
func (s *Store) PendingEventReminders(ctx context.Context, window time.Duration) (reminders []models.EventReminder, err error) {
	start := time.Now()
	defer func() { s.observe("PendingEventReminders", start, err) }()
	query := `
SELECT e.id AS event_id, e.title, e.start_at, p.user_id, u.chat_id
FROM events e
JOIN event_participants p ON p.event_id = e.id AND p.status = 'accepted'
JOIN users u ON u.id = p.user_id
WHERE NOT e.notified
  AND e.start_at > now()
  AND e.start_at < now() + $1 * interval '1 second'
ORDER BY e.start_at;`
	if err = s.db.SelectContext(ctx, &reminders, query, int(window.Seconds())); err != nil {
		return nil, fmt.Errorf("err getting pending reminders: %w", err)
	}
	return reminders, nil
}

func (s *Store) MarkEventNotified(ctx context.Context, eventID int) (err error) {
	start := time.Now()
	defer func() { s.observe("MarkEventNotified", start, err) }()
	if _, err = s.db.ExecContext(ctx, `UPDATE events SET notified = TRUE WHERE id = $1`, eventID); err != nil {
		return fmt.Errorf("err marking event %d notified: %w", eventID, err)
	}
	return nil
}
