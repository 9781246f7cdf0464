package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/event-staffing/internal/staffing"
)

// UpsertEvent inserts or replaces an event record from the external source.
func (s *Store) UpsertEvent(ctx context.Context, ev staffing.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (ref, name, type, start_date, due_date, duration_minutes, staffed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ref) DO UPDATE SET
			name = excluded.name, type = excluded.type,
			start_date = excluded.start_date, due_date = excluded.due_date,
			duration_minutes = excluded.duration_minutes, staffed = excluded.staffed`,
		ev.Ref, ev.Name, string(ev.Type),
		formatDate(ev.Start), formatDate(ev.Due),
		int(ev.Duration/time.Minute), boolToInt(ev.Staffed),
	)
	if err != nil {
		return fmt.Errorf("upsert event %s: %w", ev.Ref, mapError(err))
	}
	return nil
}

// ListEvents returns every event ordered by due date then ref.
func (s *Store) ListEvents(ctx context.Context) ([]staffing.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ref, name, type, start_date, due_date, duration_minutes, staffed
		FROM events ORDER BY due_date, ref`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []staffing.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// GetEvent returns one event by ref.
func (s *Store) GetEvent(ctx context.Context, ref string) (staffing.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT ref, name, type, start_date, due_date, duration_minutes, staffed
		FROM events WHERE ref = ?`, ref)
	ev, err := scanEvent(row)
	if err != nil {
		return staffing.Event{}, mapError(err)
	}
	return ev, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (staffing.Event, error) {
	var ev staffing.Event
	var evType, start, due string
	var durationMinutes, staffed int
	if err := row.Scan(&ev.Ref, &ev.Name, &evType, &start, &due, &durationMinutes, &staffed); err != nil {
		return staffing.Event{}, err
	}

	ev.Type = staffing.EventType(evType)
	ev.Duration = time.Duration(durationMinutes) * time.Minute
	ev.Staffed = staffed != 0

	var err error
	if ev.Start, err = parseDate(start); err != nil {
		return staffing.Event{}, fmt.Errorf("event %s start date: %w", ev.Ref, err)
	}
	if ev.Due, err = parseDate(due); err != nil {
		return staffing.Event{}, fmt.Errorf("event %s due date: %w", ev.Ref, err)
	}
	return ev, nil
}
