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

func (s *Store) GetPolls(ctx context.Context) (polls []models.Poll, err error) {
	start := time.Now()
	defer func() { s.observe("GetPolls", start, err) }()
	if err = s.db.SelectContext(ctx, &polls, `SELECT * FROM scheduling_polls ORDER BY id`); err != nil {
		return nil, fmt.Errorf("err getting polls: %w", err)
	}
	return polls, nil
}

// CreatePoll inserts the poll and its slots in one transaction. A poll with
// no slots is rejected before the transaction starts.
func (s *Store) CreatePoll(ctx context.Context, poll models.PollRequest, createdBy int) (created models.Poll, err error) {
	start := time.Now()
	defer func() { s.observe("CreatePoll", start, err) }()
	if len(poll.Slots) == 0 {
		return models.Poll{}, fmt.Errorf("at least one slot is required")
	}
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		query := `
INSERT INTO scheduling_polls (title, description, duration_minutes, invitation_rules, status, created_by)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING *;`
		if errTx := tx.GetContext(ctx, &created, query,
			poll.Title, poll.Description, poll.DurationMinutes,
			poll.InvitationRules, models.PollStatusOpen, createdBy); errTx != nil {
			return fmt.Errorf("err creating poll: %w", errTx)
		}
		args := make([]interface{}, 0, len(poll.Slots)*3)
		for _, slot := range poll.Slots {
			args = append(args, created.ID, slot.StartTime, slot.EndTime)
		}
		query = `INSERT INTO poll_slots (poll_id, start_at, end_at) VALUES ` +
			valuesPlaceholders(len(poll.Slots), 3) + ` RETURNING *;`
		if errTx := tx.SelectContext(ctx, &created.Slots, query, args...); errTx != nil {
			return fmt.Errorf("err creating poll slots: %w", errTx)
		}
		return nil
	})
	if err != nil {
		return models.Poll{}, err
	}
	return created, nil
}

// GetPoll returns the poll with its slots and, per slot, the voter ids.
func (s *Store) GetPoll(ctx context.Context, id int) (poll models.Poll, err error) {
	start := time.Now()
	defer func() { s.observe("GetPoll", start, err) }()
	err = s.db.GetContext(ctx, &poll, `SELECT * FROM scheduling_polls WHERE id = $1;`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Poll{}, ErrPollNotFound
	case err != nil:
		return models.Poll{}, fmt.Errorf("err getting poll %d: %w", id, err)
	}
	if err = s.db.SelectContext(ctx, &poll.Slots,
		`SELECT * FROM poll_slots WHERE poll_id = $1 ORDER BY start_at`, id); err != nil {
		return models.Poll{}, fmt.Errorf("err getting poll slots: %w", err)
	}
	for i := range poll.Slots {
		if err = s.db.SelectContext(ctx, &poll.Slots[i].Votes,
			`SELECT user_id FROM poll_votes WHERE slot_id = $1 ORDER BY user_id`, poll.Slots[i].ID); err != nil {
			return models.Poll{}, fmt.Errorf("err getting poll votes: %w", err)
		}
	}
	return poll, nil
}

func (s *Store) DeletePoll(ctx context.Context, id int) (deleted models.Poll, err error) {
	start := time.Now()
	defer func() { s.observe("DeletePoll", start, err) }()
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, errTx := tx.ExecContext(ctx,
			`DELETE FROM poll_votes v USING poll_slots sl WHERE v.slot_id = sl.id AND sl.poll_id = $1`, id); errTx != nil {
			return fmt.Errorf("err deleting poll votes: %w", errTx)
		}
		if _, errTx := tx.ExecContext(ctx, `DELETE FROM poll_slots WHERE poll_id = $1`, id); errTx != nil {
			return fmt.Errorf("err deleting poll slots: %w", errTx)
		}
		errTx := tx.GetContext(ctx, &deleted, `DELETE FROM scheduling_polls WHERE id = $1 RETURNING *;`, id)
		switch {
		case errors.Is(errTx, sql.ErrNoRows):
			return ErrPollNotFound
		case errTx != nil:
			return fmt.Errorf("err deleting poll %d: %w", id, errTx)
		}
		return nil
	})
	if err != nil {
		return models.Poll{}, err
	}
	return deleted, nil
}

// Vote replaces the voter's entire prior vote set for the poll: delete then a
// single multi-row insert, one transaction. Slot ids from another poll abort
// the whole unit.
func (s *Store) Vote(ctx context.Context, pollID, userID int, slotIDs []int) (err error) {
	start := time.Now()
	defer func() { s.observe("Vote", start, err) }()
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var status string
		errTx := tx.GetContext(ctx, &status,
			`SELECT status FROM scheduling_polls WHERE id = $1 FOR UPDATE`, pollID)
		switch {
		case errors.Is(errTx, sql.ErrNoRows):
			return ErrPollNotFound
		case errTx != nil:
			return fmt.Errorf("err getting poll %d: %w", pollID, errTx)
		}
		if status != models.PollStatusOpen {
			return ErrPollClosed
		}
		var pollSlots []int
		if errTx = tx.SelectContext(ctx, &pollSlots,
			`SELECT id FROM poll_slots WHERE poll_id = $1`, pollID); errTx != nil {
			return fmt.Errorf("err getting poll slots: %w", errTx)
		}
		known := make(map[int]struct{}, len(pollSlots))
		for _, id := range pollSlots {
			known[id] = struct{}{}
		}
		for _, id := range slotIDs {
			if _, ok := known[id]; !ok {
				return ErrSlotNotInPoll
			}
		}
		if _, errTx = tx.ExecContext(ctx,
			`DELETE FROM poll_votes v USING poll_slots sl WHERE v.slot_id = sl.id AND sl.poll_id = $1 AND v.user_id = $2`,
			pollID, userID); errTx != nil {
			return fmt.Errorf("err clearing votes: %w", errTx)
		}
		if len(slotIDs) == 0 {
			return nil
		}
		args := make([]interface{}, 0, len(slotIDs)*2)
		for _, id := range slotIDs {
			args = append(args, id, userID)
		}
		query := `INSERT INTO poll_votes (slot_id, user_id) VALUES ` +
			valuesPlaceholders(len(slotIDs), 2) + ` ON CONFLICT DO NOTHING;`
		if _, errTx = tx.ExecContext(ctx, query, args...); errTx != nil {
			return fmt.Errorf("err inserting votes: %w", errTx)
		}
		return nil
	})
}

// OrganizePoll closes the poll on the winning slot and materializes the
// event. Participants are exactly the voters of that slot. The poll row is
// locked FOR UPDATE so a concurrent organize observes the closed status and
// fails without a second event; closed is terminal.
func (s *Store) OrganizePoll(ctx context.Context, pollID, slotID int) (event models.Event, err error) {
	start := time.Now()
	defer func() { s.observe("OrganizePoll", start, err) }()
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		var poll models.Poll
		errTx := tx.GetContext(ctx, &poll,
			`SELECT * FROM scheduling_polls WHERE id = $1 FOR UPDATE`, pollID)
		switch {
		case errors.Is(errTx, sql.ErrNoRows):
			return ErrPollNotFound
		case errTx != nil:
			return fmt.Errorf("err getting poll %d: %w", pollID, errTx)
		}
		if poll.Status != models.PollStatusOpen {
			return ErrPollClosed
		}
		var slot models.PollSlot
		errTx = tx.GetContext(ctx, &slot,
			`SELECT * FROM poll_slots WHERE id = $1 AND poll_id = $2`, slotID, pollID)
		switch {
		case errors.Is(errTx, sql.ErrNoRows):
			return ErrSlotNotInPoll
		case errTx != nil:
			return fmt.Errorf("err getting slot %d: %w", slotID, errTx)
		}
		var voters []int
		if errTx = tx.SelectContext(ctx, &voters,
			`SELECT user_id FROM poll_votes WHERE slot_id = $1 ORDER BY user_id`, slotID); errTx != nil {
			return fmt.Errorf("err getting voters: %w", errTx)
		}
		query := `
INSERT INTO events (title, description, start_at, end_at, created_by)
VALUES ($1, $2, $3, $4, $5)
RETURNING *;`
		if errTx = tx.GetContext(ctx, &event, query,
			poll.Title, poll.Description, slot.StartTime, slot.EndTime, poll.CreatedBy); errTx != nil {
			return fmt.Errorf("err creating event from poll: %w", errTx)
		}
		participants, errTx := insertParticipants(ctx, tx, event.ID, voters)
		if errTx != nil {
			return errTx
		}
		event.Participants = participants
		if _, errTx = tx.ExecContext(ctx,
			`UPDATE scheduling_polls SET status = $2, final_event_id = $3, updated_at = now() WHERE id = $1`,
			pollID, models.PollStatusClosed, event.ID); errTx != nil {
			return fmt.Errorf("err closing poll %d: %w", pollID, errTx)
		}
		return nil
	})
	if err != nil {
		return models.Event{}, err
	}
	return event, nil
}
