package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/event-staffing/internal/staffing"
)

// AddTimeOff records a time-off range for an employee.
func (s *Store) AddTimeOff(ctx context.Context, rec staffing.TimeOffRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO time_off (employee_id, from_date, to_date) VALUES (?, ?, ?)`,
		rec.EmployeeID, formatDate(rec.From), formatDate(rec.To),
	)
	if err != nil {
		return fmt.Errorf("add time off for %s: %w", rec.EmployeeID, mapError(err))
	}
	return nil
}

// SetWeeklyAvailability writes an explicit weekday availability flag.
func (s *Store) SetWeeklyAvailability(ctx context.Context, w staffing.WeeklyAvailability) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weekly_availability (employee_id, weekday, available) VALUES (?, ?, ?)
		ON CONFLICT(employee_id, weekday) DO UPDATE SET available = excluded.available`,
		w.EmployeeID, int(w.Weekday), boolToInt(w.Available),
	)
	if err != nil {
		return fmt.Errorf("set weekly availability for %s: %w", w.EmployeeID, mapError(err))
	}
	return nil
}

// ListTimeOff returns every time-off record.
func (s *Store) ListTimeOff(ctx context.Context) ([]staffing.TimeOffRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, from_date, to_date FROM time_off ORDER BY employee_id, from_date`)
	if err != nil {
		return nil, fmt.Errorf("list time off: %w", err)
	}
	defer rows.Close()

	var out []staffing.TimeOffRecord
	for rows.Next() {
		var rec staffing.TimeOffRecord
		var from, to string
		if err := rows.Scan(&rec.EmployeeID, &from, &to); err != nil {
			return nil, fmt.Errorf("scan time off: %w", err)
		}
		if rec.From, err = parseDate(from); err != nil {
			return nil, fmt.Errorf("time off from date: %w", err)
		}
		if rec.To, err = parseDate(to); err != nil {
			return nil, fmt.Errorf("time off to date: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListWeeklyAvailability returns every explicit weekday flag.
func (s *Store) ListWeeklyAvailability(ctx context.Context) ([]staffing.WeeklyAvailability, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, weekday, available FROM weekly_availability ORDER BY employee_id, weekday`)
	if err != nil {
		return nil, fmt.Errorf("list weekly availability: %w", err)
	}
	defer rows.Close()

	var out []staffing.WeeklyAvailability
	for rows.Next() {
		var w staffing.WeeklyAvailability
		var weekday, available int
		if err := rows.Scan(&w.EmployeeID, &weekday, &available); err != nil {
			return nil, fmt.Errorf("scan weekly availability: %w", err)
		}
		w.Weekday = time.Weekday(weekday)
		w.Available = available != 0
		out = append(out, w)
	}
	return out, rows.Err()
}
