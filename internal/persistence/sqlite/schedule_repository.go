package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/event-staffing/internal/persistence"
	"github.com/example/event-staffing/internal/staffing"
)

// ListSchedules returns every committed schedule ordered by start instant.
func (s *Store) ListSchedules(ctx context.Context) ([]staffing.Schedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_ref, event_type, employee_id, starts_at
		FROM schedules ORDER BY starts_at, event_ref`)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var out []staffing.Schedule
	for rows.Next() {
		var sched staffing.Schedule
		var evType, startsAt string
		if err := rows.Scan(&sched.EventRef, &evType, &sched.EmployeeID, &startsAt); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		sched.EventType = staffing.EventType(evType)
		if sched.StartsAt, err = parseInstant(startsAt); err != nil {
			return nil, fmt.Errorf("schedule %s starts_at: %w", sched.EventRef, err)
		}
		out = append(out, sched)
	}
	return out, rows.Err()
}

// GetScheduleByEvent returns the committed schedule for one event.
func (s *Store) GetScheduleByEvent(ctx context.Context, eventRef string) (staffing.Schedule, error) {
	var sched staffing.Schedule
	var evType, startsAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT event_ref, event_type, employee_id, starts_at
		FROM schedules WHERE event_ref = ?`, eventRef,
	).Scan(&sched.EventRef, &evType, &sched.EmployeeID, &startsAt)
	if err != nil {
		return staffing.Schedule{}, mapError(err)
	}
	sched.EventType = staffing.EventType(evType)
	if sched.StartsAt, err = parseInstant(startsAt); err != nil {
		return staffing.Schedule{}, fmt.Errorf("schedule %s starts_at: %w", eventRef, err)
	}
	return sched, nil
}

// CommitAssignments writes one schedule per proposal and marks each event
// staffed. The whole batch is one transaction: a paired demo and audit
// either both commit or neither does.
func (s *Store) CommitAssignments(ctx context.Context, proposals []staffing.Proposal) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		for _, p := range proposals {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO schedules (event_ref, event_type, employee_id, starts_at)
				VALUES (?, ?, ?, ?)`,
				p.EventRef, string(p.EventType), p.EmployeeID, formatInstant(p.StartsAt),
			); err != nil {
				return fmt.Errorf("commit schedule for %s: %w", p.EventRef, mapError(err))
			}

			res, err := tx.ExecContext(ctx, `UPDATE events SET staffed = 1 WHERE ref = ?`, p.EventRef)
			if err != nil {
				return fmt.Errorf("mark event %s staffed: %w", p.EventRef, mapError(err))
			}
			if affected, _ := res.RowsAffected(); affected == 0 {
				return fmt.Errorf("mark event %s staffed: %w", p.EventRef, persistence.ErrNotFound)
			}
		}
		return nil
	})
}

// MoveAssignments relocates committed schedules in one transaction; any
// missing schedule rolls the whole batch back.
func (s *Store) MoveAssignments(ctx context.Context, moves []persistence.ScheduleMove) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		for _, m := range moves {
			res, err := tx.ExecContext(ctx,
				`UPDATE schedules SET starts_at = ? WHERE event_ref = ?`,
				formatInstant(m.StartsAt), m.EventRef,
			)
			if err != nil {
				return fmt.Errorf("move schedule for %s: %w", m.EventRef, mapError(err))
			}
			if affected, _ := res.RowsAffected(); affected == 0 {
				return fmt.Errorf("move schedule for %s: %w", m.EventRef, persistence.ErrNotFound)
			}
		}
		return nil
	})
}

// RemoveAssignments deletes committed schedules and flips the events back to
// unstaffed, in one transaction.
func (s *Store) RemoveAssignments(ctx context.Context, eventRefs []string) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		for _, ref := range eventRefs {
			res, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE event_ref = ?`, ref)
			if err != nil {
				return fmt.Errorf("remove schedule for %s: %w", ref, mapError(err))
			}
			if affected, _ := res.RowsAffected(); affected == 0 {
				return fmt.Errorf("remove schedule for %s: %w", ref, persistence.ErrNotFound)
			}
			if _, err := tx.ExecContext(ctx, `UPDATE events SET staffed = 0 WHERE ref = ?`, ref); err != nil {
				return fmt.Errorf("mark event %s unstaffed: %w", ref, mapError(err))
			}
		}
		return nil
	})
}
