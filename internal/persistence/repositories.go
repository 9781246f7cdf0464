package persistence

import (
	"context"
	"time"

	"github.com/example/event-staffing/internal/staffing"
)

// ScheduleMove relocates one committed assignment to a new start instant.
type ScheduleMove struct {
	EventRef string
	StartsAt time.Time
}

// Store is the full persistence contract the application layer composes
// from. Implementations must make CommitAssignments, MoveAssignments, and
// RemoveAssignments atomic across every entity they touch.
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

	// CommitAssignments writes one schedule per proposal and flips each
	// event to staffed, all in a single transaction.
	CommitAssignments(ctx context.Context, proposals []staffing.Proposal) error
	// MoveAssignments relocates committed schedules in a single transaction.
	MoveAssignments(ctx context.Context, moves []ScheduleMove) error
	// RemoveAssignments deletes committed schedules and flips the events
	// back to unstaffed, in a single transaction.
	RemoveAssignments(ctx context.Context, eventRefs []string) error
}
