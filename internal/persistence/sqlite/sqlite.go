// Package sqlite implements the persistence store on top of a SQLite
// database using the pure-Go modernc.org driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/event-staffing/internal/persistence"
	_ "modernc.org/sqlite"
)

const (
	dateLayout = "2006-01-02"
)

// Store provides the SQLite-backed persistence layer. It satisfies
// persistence.Store.
type Store struct {
	db *sql.DB
}

// Open connects to the database identified by the DSN. Use a file DSN for
// durable storage or "file::memory:?cache=shared" for tests.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The modernc driver serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent readers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id     TEXT PRIMARY KEY,
		name   TEXT NOT NULL DEFAULT '',
		role   TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		ref              TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		type             TEXT NOT NULL,
		start_date       TEXT NOT NULL,
		due_date         TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		staffed          INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS schedules (
		event_ref   TEXT PRIMARY KEY REFERENCES events(ref),
		event_type  TEXT NOT NULL,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		starts_at   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS proposals (
		id               TEXT PRIMARY KEY,
		run_id           TEXT NOT NULL,
		event_ref        TEXT NOT NULL,
		event_name       TEXT NOT NULL DEFAULT '',
		event_type       TEXT NOT NULL,
		employee_id      TEXT NOT NULL DEFAULT '',
		starts_at        TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL,
		reason           TEXT NOT NULL DEFAULT '',
		bumped_event_ref TEXT NOT NULL DEFAULT '',
		bump_reason      TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_run ON proposals(run_id)`,
	`CREATE TABLE IF NOT EXISTS rotation_assignments (
		weekday       INTEGER NOT NULL,
		rotation_type TEXT NOT NULL,
		employee_id   TEXT NOT NULL REFERENCES employees(id),
		PRIMARY KEY (weekday, rotation_type)
	)`,
	`CREATE TABLE IF NOT EXISTS rotation_exceptions (
		date          TEXT NOT NULL,
		rotation_type TEXT NOT NULL,
		employee_id   TEXT NOT NULL REFERENCES employees(id),
		PRIMARY KEY (date, rotation_type)
	)`,
	`CREATE TABLE IF NOT EXISTS time_off (
		employee_id TEXT NOT NULL REFERENCES employees(id),
		from_date   TEXT NOT NULL,
		to_date     TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS weekly_availability (
		employee_id TEXT NOT NULL REFERENCES employees(id),
		weekday     INTEGER NOT NULL,
		available   INTEGER NOT NULL,
		PRIMARY KEY (employee_id, weekday)
	)`,
}

// Migrate bootstraps the schema. Statements are idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// withTransaction executes fn inside a transaction, rolling back when fn
// returns an error and committing otherwise.
func (s *Store) withTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// mapError translates driver errors into persistence sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return persistence.ErrNotFound
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY constraint failed") {
		return persistence.ErrDuplicate
	}
	return err
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dateLayout, v, time.UTC)
}

func formatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseInstant(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
