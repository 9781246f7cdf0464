package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/event-staffing/internal/persistence"
	"github.com/example/event-staffing/internal/staffing"
)

// CreateProposals stores a run's full output in one transaction.
func (s *Store) CreateProposals(ctx context.Context, proposals []staffing.Proposal) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		for _, p := range proposals {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO proposals (id, run_id, event_ref, event_name, event_type, employee_id,
					starts_at, status, reason, bumped_event_ref, bump_reason, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				p.ID, p.RunID, p.EventRef, p.EventName, string(p.EventType), p.EmployeeID,
				formatInstant(p.StartsAt), string(p.Status), p.Reason,
				p.BumpedEventRef, p.BumpReason,
				formatInstant(p.CreatedAt), formatInstant(p.UpdatedAt),
			); err != nil {
				return fmt.Errorf("create proposal %s: %w", p.ID, mapError(err))
			}
		}
		return nil
	})
}

// GetProposal returns one proposal by ID.
func (s *Store) GetProposal(ctx context.Context, id string) (staffing.Proposal, error) {
	row := s.db.QueryRowContext(ctx, proposalSelect+` WHERE id = ?`, id)
	p, err := scanProposal(row)
	if err != nil {
		return staffing.Proposal{}, mapError(err)
	}
	return p, nil
}

// ListProposalsByRun returns a run's proposals in creation order.
func (s *Store) ListProposalsByRun(ctx context.Context, runID string) ([]staffing.Proposal, error) {
	rows, err := s.db.QueryContext(ctx, proposalSelect+` WHERE run_id = ? ORDER BY created_at, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	var out []staffing.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateProposal rewrites a proposal's mutable fields.
func (s *Store) UpdateProposal(ctx context.Context, p staffing.Proposal) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE proposals SET employee_id = ?, starts_at = ?, status = ?, reason = ?, updated_at = ?
		WHERE id = ?`,
		p.EmployeeID, formatInstant(p.StartsAt), string(p.Status), p.Reason,
		formatInstant(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update proposal %s: %w", p.ID, mapError(err))
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteProposal removes a proposal after successful submission.
func (s *Store) DeleteProposal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM proposals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete proposal %s: %w", id, mapError(err))
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

const proposalSelect = `
	SELECT id, run_id, event_ref, event_name, event_type, employee_id,
		starts_at, status, reason, bumped_event_ref, bump_reason, created_at, updated_at
	FROM proposals`

func scanProposal(row rowScanner) (staffing.Proposal, error) {
	var p staffing.Proposal
	var evType, startsAt, status, createdAt, updatedAt string
	if err := row.Scan(&p.ID, &p.RunID, &p.EventRef, &p.EventName, &evType, &p.EmployeeID,
		&startsAt, &status, &p.Reason, &p.BumpedEventRef, &p.BumpReason, &createdAt, &updatedAt); err != nil {
		return staffing.Proposal{}, err
	}
	p.EventType = staffing.EventType(evType)
	p.Status = staffing.ProposalStatus(status)

	var err error
	if p.StartsAt, err = parseInstant(startsAt); err != nil {
		return staffing.Proposal{}, fmt.Errorf("proposal %s starts_at: %w", p.ID, err)
	}
	if p.CreatedAt, err = parseInstant(createdAt); err != nil {
		return staffing.Proposal{}, fmt.Errorf("proposal %s created_at: %w", p.ID, err)
	}
	if p.UpdatedAt, err = parseInstant(updatedAt); err != nil {
		return staffing.Proposal{}, fmt.Errorf("proposal %s updated_at: %w", p.ID, err)
	}
	return p, nil
}
