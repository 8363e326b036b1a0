package pgstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"

	"gestionale/pkg/metrics"
)

//go:embed migrations
var migrations embed.FS

type Store struct {
	log *logrus.Entry
	db  *sqlx.DB
}

var (
	ErrUserNotFound      = fmt.Errorf("user not found")
	ErrClientNotFound    = fmt.Errorf("client not found")
	ErrProjectNotFound   = fmt.Errorf("project not found")
	ErrContractNotFound  = fmt.Errorf("contract not found")
	ErrCandidateNotFound = fmt.Errorf("candidate not found")
	ErrTaskNotFound      = fmt.Errorf("task not found")
	ErrEventNotFound     = fmt.Errorf("event not found")
	ErrPollNotFound      = fmt.Errorf("poll not found")

	ErrPollClosed            = fmt.Errorf("poll already closed")
	ErrSlotNotInPoll         = fmt.Errorf("slot does not belong to poll")
	ErrEmailTaken            = fmt.Errorf("email already in use")
	ErrCandidateNotAccepted  = fmt.Errorf("candidate is not in status Accettato")
	ErrInvalidParticipant    = fmt.Errorf("invalid participant status")
	ErrParticipantNotInvited = fmt.Errorf("user is not a participant of this event")
)

func NewStore(ctx context.Context, log *logrus.Logger, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("err connecting to postgres: %w", err)
	}
	return &Store{
		log: log.WithField("component", "pgstore"),
		db:  db,
	}, nil
}

// NewStoreWithDB wraps an existing connection, used by tests.
func NewStoreWithDB(log *logrus.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log.WithField("component", "pgstore"),
		db:  db,
	}
}

func (s *Store) Migrate(direction migrate.MigrationDirection) error {
	assetDir := func() func(string) ([]string, error) {
		return func(path string) ([]string, error) {
			dirEntry, er := migrations.ReadDir(path)
			if er != nil {
				return nil, er
			}
			entries := make([]string, 0)
			for _, e := range dirEntry {
				entries = append(entries, e.Name())
			}

			return entries, nil
		}
	}()
	asset := migrate.AssetMigrationSource{
		Asset:    migrations.ReadFile,
		AssetDir: assetDir,
		Dir:      "migrations",
	}
	_, err := migrate.Exec(s.db.DB, "postgres", asset, direction)
	return err
}

// inTx runs fn inside a transaction. Rollback is deferred so every exit path,
// including a panic inside fn, releases the connection with the transaction
// resolved.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("err starting tx: %w", err)
	}
	defer func() {
		if errRb := tx.Rollback(); errRb != nil && errRb != sql.ErrTxDone {
			s.log.Warnf("err rolling back tx: %v", errRb)
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("err committing tx: %w", err)
	}
	return nil
}

func (s *Store) observe(method string, start time.Time, err error) {
	metrics.PgDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PgErrCount.WithLabelValues(method).Inc()
	}
}

// valuesPlaceholders builds the VALUES clause for a multi-row insert:
// valuesPlaceholders(2, 3) -> "($1, $2, $3), ($4, $5, $6)".
func valuesPlaceholders(rows, cols int) string {
	parts := make([]string, 0, rows)
	n := 1
	for i := 0; i < rows; i++ {
		ph := make([]string, 0, cols)
		for j := 0; j < cols; j++ {
			ph = append(ph, fmt.Sprintf("$%d", n))
			n++
		}
		parts = append(parts, "("+strings.Join(ph, ", ")+")")
	}
	return strings.Join(parts, ", ")
}

func (s *Store) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return s.db.QueryRowContext(ctx, query, args...)
}

func (s *Store) ResetTables(ctx context.Context, tables []string) error {
	_, err := s.db.ExecContext(ctx, `TRUNCATE TABLE `+strings.Join(tables, `, `)+` RESTART IDENTITY CASCADE`)
	return err
}
