package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/event-staffing/internal/metrics"
	"github.com/example/event-staffing/internal/staffing"
)

// ProposalService is the approval pipeline: operator review, edits, the
// transactional commit, and the retryable external submission.
type ProposalService struct {
	store     Store
	submitter Submitter
	collector *metrics.Collector
	now       func() time.Time
	logger    *slog.Logger
}

// NewProposalService wires dependencies for proposal operations. submitter
// may be nil; committed proposals are then removed without an external call.
func NewProposalService(store Store, submitter Submitter, collector *metrics.Collector, now func() time.Time, logger *slog.Logger) *ProposalService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProposalService{
		store:     store,
		submitter: submitter,
		collector: collector,
		now:       now,
		logger:    logger,
	}
}

// ListPending returns a run's proposals, failure reasons included.
func (s *ProposalService) ListPending(ctx context.Context, runID string) ([]staffing.Proposal, error) {
	proposals, err := s.store.ListProposalsByRun(ctx, runID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return proposals, nil
}

// EditPending replaces a proposal's assignment and re-validates it
// immediately against the committed view. Invalid edits are rejected and
// leave the proposal unchanged. Races with concurrent manual scheduling are
// caught again at approval time.
func (s *ProposalService) EditPending(ctx context.Context, id, employeeID string, startsAt time.Time) (staffing.Proposal, error) {
	proposal, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return staffing.Proposal{}, mapStoreError(err)
	}
	if proposal.Status != staffing.StatusProposed && proposal.Status != staffing.StatusUserEdited {
		return staffing.Proposal{}, ErrInvalidTransition
	}

	employee, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return staffing.Proposal{}, mapStoreError(err)
	}
	event, err := s.store.GetEvent(ctx, proposal.EventRef)
	if err != nil {
		return staffing.Proposal{}, mapStoreError(err)
	}

	snap, _, err := loadSnapshot(ctx, s.store)
	if err != nil {
		return staffing.Proposal{}, err
	}
	if vf := staffing.Validate(snap, nil, employee, event, startsAt); vf != nil {
		return staffing.Proposal{}, vf
	}

	proposal.EmployeeID = employeeID
	proposal.StartsAt = startsAt.UTC()
	proposal.Status = staffing.StatusUserEdited
	proposal.Reason = ""
	proposal.UpdatedAt = s.now()

	if err := s.store.UpdateProposal(ctx, proposal); err != nil {
		return staffing.Proposal{}, mapStoreError(err)
	}
	return proposal, nil
}

// Approve commits the identified proposals. Proposals are grouped with their
// paired counterpart when both appear in the batch; each group commits in a
// single transaction, so a paired demo and audit land together or not at
// all. Every proposal is re-validated against a fresh committed snapshot
// overlaid with the groups already committed in this batch, so two demos for
// one employee cannot slip past the daily cap by arriving together.
func (s *ProposalService) Approve(ctx context.Context, ids []string) (CommitResult, error) {
	var result CommitResult

	proposals := make([]staffing.Proposal, 0, len(ids))
	for _, id := range ids {
		p, err := s.store.GetProposal(ctx, id)
		if err != nil {
			result.Failed = append(result.Failed, CommitFailure{ProposalID: id, Reason: mapStoreError(err).Error()})
			continue
		}
		proposals = append(proposals, p)
	}

	snap, _, err := loadSnapshot(ctx, s.store)
	if err != nil {
		return CommitResult{}, err
	}

	pending := staffing.NewRunState()
	for _, group := range groupPaired(proposals) {
		pending = s.commitGroup(ctx, snap, pending, group, &result)
	}
	return result, nil
}

// Retry re-submits an api_failed proposal to the external system.
func (s *ProposalService) Retry(ctx context.Context, id string) (staffing.Proposal, error) {
	proposal, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return staffing.Proposal{}, mapStoreError(err)
	}
	if !proposal.Status.CanTransition(staffing.StatusAPISubmitted) {
		return staffing.Proposal{}, ErrInvalidTransition
	}
	return s.submit(ctx, proposal)
}

// commitGroup validates one group against the committed snapshot plus the
// batch overlay, commits it, and returns the overlay for the next group. A
// group that fails validation or rolls back leaves the overlay untouched.
func (s *ProposalService) commitGroup(ctx context.Context, snap *staffing.Snapshot, pending *staffing.RunState, group []staffing.Proposal, result *CommitResult) *staffing.RunState {
	candidate := pending.Clone()
	if reason := s.validateGroup(ctx, snap, candidate, group); reason != "" {
		for _, p := range group {
			result.Failed = append(result.Failed, CommitFailure{ProposalID: p.ID, Reason: reason})
		}
		return pending
	}

	if err := s.store.CommitAssignments(ctx, group); err != nil {
		s.collector.ObserveCommitFailure()
		txErr := &staffing.TransactionFailure{Op: "commit", Err: err}
		s.logger.Error("commit rolled back", "error", txErr)
		for _, p := range group {
			result.Failed = append(result.Failed, CommitFailure{ProposalID: p.ID, Reason: txErr.Error()})
		}
		return pending
	}

	s.collector.ObserveCommit(len(group))
	for _, p := range group {
		p.Status = staffing.StatusApproved
		p.UpdatedAt = s.now()
		if _, err := s.submit(ctx, p); err != nil {
			s.logger.Warn("external submission failed", "proposal", p.ID, "error", err)
		}
		result.Committed = append(result.Committed, p.ID)
	}
	return candidate
}

// validateGroup re-checks every proposal in a group and the paired-date
// invariant, recording each passing assignment in the overlay so later
// proposals see it. Returns an empty string when the group may commit.
func (s *ProposalService) validateGroup(ctx context.Context, snap *staffing.Snapshot, overlay *staffing.RunState, group []staffing.Proposal) string {
	var demoDate, auditDate time.Time
	for _, p := range group {
		if !p.Scheduled() {
			return fmt.Sprintf("proposal %s has no assignment: %s", p.ID, p.Reason)
		}
		if !p.Status.CanTransition(staffing.StatusApproved) {
			return fmt.Sprintf("proposal %s cannot be approved from status %s", p.ID, p.Status)
		}

		employee, err := s.store.GetEmployee(ctx, p.EmployeeID)
		if err != nil {
			return fmt.Sprintf("employee %s: %v", p.EmployeeID, mapStoreError(err))
		}
		event, err := s.store.GetEvent(ctx, p.EventRef)
		if err != nil {
			return fmt.Sprintf("event %s: %v", p.EventRef, mapStoreError(err))
		}
		if vf := staffing.Validate(snap, overlay, employee, event, p.StartsAt); vf != nil {
			return vf.Error()
		}
		overlay.RecordPlacement(event, employee, p.StartsAt, "")

		switch p.EventType {
		case staffing.EventTypeDemo:
			demoDate = staffing.DateOf(p.StartsAt)
		case staffing.EventTypeAudit:
			auditDate = staffing.DateOf(p.StartsAt)
		}
	}
	if !demoDate.IsZero() && !auditDate.IsZero() && !demoDate.Equal(auditDate) {
		return "paired demo and audit must share a date"
	}
	return ""
}

// submit forwards a committed proposal externally and advances its status.
// Success removes the proposal; failure retains it as api_failed for retry.
func (s *ProposalService) submit(ctx context.Context, proposal staffing.Proposal) (staffing.Proposal, error) {
	if s.submitter == nil {
		if err := s.store.DeleteProposal(ctx, proposal.ID); err != nil {
			return staffing.Proposal{}, mapStoreError(err)
		}
		proposal.Status = staffing.StatusAPISubmitted
		return proposal, nil
	}

	if err := s.submitter.Submit(ctx, proposal); err != nil {
		proposal.Status = staffing.StatusAPIFailed
		proposal.UpdatedAt = s.now()
		if uerr := s.store.UpdateProposal(ctx, proposal); uerr != nil {
			return staffing.Proposal{}, mapStoreError(uerr)
		}
		return proposal, err
	}

	proposal.Status = staffing.StatusAPISubmitted
	if err := s.store.DeleteProposal(ctx, proposal.ID); err != nil {
		return staffing.Proposal{}, mapStoreError(err)
	}
	return proposal, nil
}

// groupPaired buckets proposals so a demo and its audit from the same batch
// commit in one transaction. Everything else forms a singleton group.
func groupPaired(proposals []staffing.Proposal) [][]staffing.Proposal {
	groups := make([][]staffing.Proposal, 0, len(proposals))
	byKey := make(map[string]int)

	for _, p := range proposals {
		if p.EventType == staffing.EventTypeDemo || p.EventType == staffing.EventTypeAudit {
			if key, ok := staffing.ExtractPairKey(p.EventName); ok {
				if idx, seen := byKey[key]; seen {
					groups[idx] = append(groups[idx], p)
					continue
				}
				byKey[key] = len(groups)
				groups = append(groups, []staffing.Proposal{p})
				continue
			}
		}
		groups = append(groups, []staffing.Proposal{p})
	}
	return groups
}
