package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/event-staffing/internal/staffing"
)

// SetRotationAssignment writes a weekly default for (weekday, type).
func (s *Store) SetRotationAssignment(ctx context.Context, a staffing.RotationAssignment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rotation_assignments (weekday, rotation_type, employee_id) VALUES (?, ?, ?)
		ON CONFLICT(weekday, rotation_type) DO UPDATE SET employee_id = excluded.employee_id`,
		int(a.Weekday), string(a.Type), a.EmployeeID,
	)
	if err != nil {
		return fmt.Errorf("set rotation assignment: %w", mapError(err))
	}
	return nil
}

// SetRotationException writes a date override for (date, type).
func (s *Store) SetRotationException(ctx context.Context, x staffing.RotationException) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rotation_exceptions (date, rotation_type, employee_id) VALUES (?, ?, ?)
		ON CONFLICT(date, rotation_type) DO UPDATE SET employee_id = excluded.employee_id`,
		formatDate(x.Date), string(x.Type), x.EmployeeID,
	)
	if err != nil {
		return fmt.Errorf("set rotation exception: %w", mapError(err))
	}
	return nil
}

// ListRotationAssignments returns every weekly default.
func (s *Store) ListRotationAssignments(ctx context.Context) ([]staffing.RotationAssignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT weekday, rotation_type, employee_id FROM rotation_assignments ORDER BY weekday, rotation_type`)
	if err != nil {
		return nil, fmt.Errorf("list rotation assignments: %w", err)
	}
	defer rows.Close()

	var out []staffing.RotationAssignment
	for rows.Next() {
		var weekday int
		var rt string
		var a staffing.RotationAssignment
		if err := rows.Scan(&weekday, &rt, &a.EmployeeID); err != nil {
			return nil, fmt.Errorf("scan rotation assignment: %w", err)
		}
		a.Weekday = time.Weekday(weekday)
		a.Type = staffing.RotationType(rt)
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListRotationExceptions returns every date override.
func (s *Store) ListRotationExceptions(ctx context.Context) ([]staffing.RotationException, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, rotation_type, employee_id FROM rotation_exceptions ORDER BY date, rotation_type`)
	if err != nil {
		return nil, fmt.Errorf("list rotation exceptions: %w", err)
	}
	defer rows.Close()

	var out []staffing.RotationException
	for rows.Next() {
		var date, rt string
		var x staffing.RotationException
		if err := rows.Scan(&date, &rt, &x.EmployeeID); err != nil {
			return nil, fmt.Errorf("scan rotation exception: %w", err)
		}
		if x.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("rotation exception date: %w", err)
		}
		x.Type = staffing.RotationType(rt)
		out = append(out, x)
	}
	return out, rows.Err()
}
