package sqlite

import (
	"context"
	"fmt"

	"github.com/example/event-staffing/internal/staffing"
)

// UpsertEmployee inserts or replaces a directory record. Employee data is
// owned externally; this is the ingestion seam.
func (s *Store) UpsertEmployee(ctx context.Context, emp staffing.Employee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, role, active) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, role = excluded.role, active = excluded.active`,
		emp.ID, emp.Name, string(emp.Role), boolToInt(emp.Active),
	)
	if err != nil {
		return fmt.Errorf("upsert employee %s: %w", emp.ID, mapError(err))
	}
	return nil
}

// ListEmployees returns every employee ordered by ID.
func (s *Store) ListEmployees(ctx context.Context) ([]staffing.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, role, active FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []staffing.Employee
	for rows.Next() {
		var emp staffing.Employee
		var role string
		var active int
		if err := rows.Scan(&emp.ID, &emp.Name, &role, &active); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		emp.Role = staffing.Role(role)
		emp.Active = active != 0
		out = append(out, emp)
	}
	return out, rows.Err()
}

// GetEmployee returns one employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (staffing.Employee, error) {
	var emp staffing.Employee
	var role string
	var active int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, role, active FROM employees WHERE id = ?`, id,
	).Scan(&emp.ID, &emp.Name, &role, &active)
	if err != nil {
		return staffing.Employee{}, mapError(err)
	}
	emp.Role = staffing.Role(role)
	emp.Active = active != 0
	return emp, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
