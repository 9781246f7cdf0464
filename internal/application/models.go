package application

import (
	"context"

	"github.com/example/event-staffing/internal/persistence"
	"github.com/example/event-staffing/internal/staffing"
)

// Store captures the persistence interactions the services need. The SQLite
// store satisfies it; tests substitute stubs.
type Store interface {
	ListEmployees(ctx context.Context) ([]staffing.Employee, error)
	GetEmployee(ctx context.Context, id string) (staffing.Employee, error)

	ListEvents(ctx context.Context) ([]staffing.Event, error)
	GetEvent(ctx context.Context, ref string) (staffing.Event, error)

	ListSchedules(ctx context.Context) ([]staffing.Schedule, error)
	GetScheduleByEvent(ctx context.Context, eventRef string) (staffing.Schedule, error)

	ListTimeOff(ctx context.Context) ([]staffing.TimeOffRecord, error)
	ListWeeklyAvailability(ctx context.Context) ([]staffing.WeeklyAvailability, error)

	ListRotationAssignments(ctx context.Context) ([]staffing.RotationAssignment, error)
	ListRotationExceptions(ctx context.Context) ([]staffing.RotationException, error)

	CreateProposals(ctx context.Context, proposals []staffing.Proposal) error
	GetProposal(ctx context.Context, id string) (staffing.Proposal, error)
	ListProposalsByRun(ctx context.Context, runID string) ([]staffing.Proposal, error)
	UpdateProposal(ctx context.Context, proposal staffing.Proposal) error
	DeleteProposal(ctx context.Context, id string) error

	CommitAssignments(ctx context.Context, proposals []staffing.Proposal) error
	MoveAssignments(ctx context.Context, moves []persistence.ScheduleMove) error
	RemoveAssignments(ctx context.Context, eventRefs []string) error
}

// Submitter forwards an approved assignment to the external system. The
// engine's correctness never depends on it: submission failures only affect
// proposal status flags.
type Submitter interface {
	Submit(ctx context.Context, proposal staffing.Proposal) error
}

// RunResult summarizes one full wave pass.
type RunResult struct {
	RunID     string
	Processed int
	Scheduled int
	Failed    int
}

// CommitFailure reports why one proposal could not be committed.
type CommitFailure struct {
	ProposalID string
	Reason     string
}

// CommitResult reports the outcome of an approval batch.
type CommitResult struct {
	Committed []string
	Failed    []CommitFailure
}

// loadSnapshot assembles the committed view and the full event catalog from
// the store.
func loadSnapshot(ctx context.Context, store Store) (*staffing.Snapshot, []staffing.Event, error) {
	employees, err := store.ListEmployees(ctx)
	if err != nil {
		return nil, nil, err
	}
	events, err := store.ListEvents(ctx)
	if err != nil {
		return nil, nil, err
	}
	schedules, err := store.ListSchedules(ctx)
	if err != nil {
		return nil, nil, err
	}
	timeOff, err := store.ListTimeOff(ctx)
	if err != nil {
		return nil, nil, err
	}
	weekly, err := store.ListWeeklyAvailability(ctx)
	if err != nil {
		return nil, nil, err
	}
	assignments, err := store.ListRotationAssignments(ctx)
	if err != nil {
		return nil, nil, err
	}
	exceptions, err := store.ListRotationExceptions(ctx)
	if err != nil {
		return nil, nil, err
	}

	registry := staffing.NewRegistry(assignments, exceptions, employees)
	snap := staffing.NewSnapshot(employees, schedules, timeOff, weekly, registry)
	return snap, events, nil
}

// snapshotExcluding rebuilds the committed view with some events' schedules
// removed, so a manual move does not collide with the assignment it is
// replacing.
func snapshotExcluding(ctx context.Context, store Store, excluded map[string]bool) (*staffing.Snapshot, []staffing.Event, error) {
	employees, err := store.ListEmployees(ctx)
	if err != nil {
		return nil, nil, err
	}
	events, err := store.ListEvents(ctx)
	if err != nil {
		return nil, nil, err
	}
	schedules, err := store.ListSchedules(ctx)
	if err != nil {
		return nil, nil, err
	}
	kept := schedules[:0]
	for _, sched := range schedules {
		if !excluded[sched.EventRef] {
			kept = append(kept, sched)
		}
	}
	timeOff, err := store.ListTimeOff(ctx)
	if err != nil {
		return nil, nil, err
	}
	weekly, err := store.ListWeeklyAvailability(ctx)
	if err != nil {
		return nil, nil, err
	}
	assignments, err := store.ListRotationAssignments(ctx)
	if err != nil {
		return nil, nil, err
	}
	exceptions, err := store.ListRotationExceptions(ctx)
	if err != nil {
		return nil, nil, err
	}

	registry := staffing.NewRegistry(assignments, exceptions, employees)
	snap := staffing.NewSnapshot(employees, kept, timeOff, weekly, registry)
	return snap, events, nil
}
