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

func (s *Store) GetUsers(ctx context.Context) (users []models.User, err error) {
	start := time.Now()
	defer func() { s.observe("GetUsers", start, err) }()
	if err = s.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("err getting users: %w", err)
	}
	return users, nil
}

func (s *Store) ActiveUsers(ctx context.Context) (users []models.User, err error) {
	start := time.Now()
	defer func() { s.observe("ActiveUsers", start, err) }()
	if err = s.db.SelectContext(ctx, &users, `SELECT * FROM users WHERE active ORDER BY id`); err != nil {
		return nil, fmt.Errorf("err getting active users: %w", err)
	}
	return users, nil
}

func (s *Store) CreateUser(ctx context.Context, user models.UserRequest) (created models.User, err error) {
	start := time.Now()
	defer func() { s.observe("CreateUser", start, err) }()
	query := `
INSERT INTO users (last_name, first_name, email, password_hash, role, area, chat_id, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, TRUE))
RETURNING *;`
	err = s.db.GetContext(ctx, &created, query,
		orEmpty(user.LastName), orEmpty(user.FirstName), orEmpty(user.Email),
		orEmpty(user.PasswordHash), coalesce(user.Role, models.RoleStaff), orEmpty(user.Area),
		user.ChatID, user.Active)
	if err != nil {
		return models.User{}, fmt.Errorf("err creating user: %w", err)
	}
	return created, nil
}

func (s *Store) GetUser(ctx context.Context, id int) (user models.User, err error) {
	start := time.Now()
	defer func() { s.observe("GetUser", start, err) }()
	err = s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1;`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, ErrUserNotFound
	case err != nil:
		return models.User{}, fmt.Errorf("err getting user %d: %w", id, err)
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user models.User, err error) {
	start := time.Now()
	defer func() { s.observe("GetUserByEmail", start, err) }()
	err = s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1;`, email)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, ErrUserNotFound
	case err != nil:
		return models.User{}, fmt.Errorf("err getting user by email: %w", err)
	}
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int, user models.UserRequest) (updated models.User, err error) {
	start := time.Now()
	defer func() { s.observe("UpdateUser", start, err) }()
	query := `
UPDATE users
SET last_name     = COALESCE($2, last_name),
    first_name    = COALESCE($3, first_name),
    email         = COALESCE($4, email),
    password_hash = COALESCE($5, password_hash),
    role          = COALESCE($6, role),
    area          = COALESCE($7, area),
    chat_id       = COALESCE($8, chat_id),
    active        = COALESCE($9, active),
    updated_at    = now()
WHERE id = $1
RETURNING *;`
	err = s.db.GetContext(ctx, &updated, query, id,
		user.LastName, user.FirstName, user.Email, user.PasswordHash,
		user.Role, user.Area, user.ChatID, user.Active)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, ErrUserNotFound
	case err != nil:
		return models.User{}, fmt.Errorf("err updating user %d: %w", id, err)
	}
	return updated, nil
}

// userCleanup detaches a user from every table that references it before the
// row itself goes. Memberships, votes and invitations are dropped; assigned
// tasks survive unassigned; tasks, polls and events the user created go away
// with their owner (child rows cascade).
var userCleanup = []string{
	`DELETE FROM project_teams WHERE user_id = $1`,
	`DELETE FROM poll_votes WHERE user_id = $1`,
	`DELETE FROM event_participants WHERE user_id = $1`,
	`UPDATE tasks SET assignee_id = NULL WHERE assignee_id = $1`,
	`DELETE FROM tasks WHERE created_by = $1`,
	`DELETE FROM scheduling_polls WHERE created_by = $1`,
	`UPDATE scheduling_polls SET final_event_id = NULL
 WHERE final_event_id IN (SELECT id FROM events WHERE created_by = $1)`,
	`DELETE FROM events WHERE created_by = $1`,
}

func (s *Store) DeleteUser(ctx context.Context, id int) (deleted models.User, err error) {
	start := time.Now()
	defer func() { s.observe("DeleteUser", start, err) }()
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, query := range userCleanup {
			if _, errTx := tx.ExecContext(ctx, query, id); errTx != nil {
				return fmt.Errorf("err detaching user %d: %w", id, errTx)
			}
		}
		errTx := tx.GetContext(ctx, &deleted, `DELETE FROM users WHERE id = $1 RETURNING *;`, id)
		switch {
		case errors.Is(errTx, sql.ErrNoRows):
			return ErrUserNotFound
		case errTx != nil:
			return fmt.Errorf("err deleting user %d: %w", id, errTx)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return deleted, nil
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func coalesce(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
