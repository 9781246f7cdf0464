package application

import (
	"context"

	"github.com/example/event-staffing/internal/persistence"
	"github.com/example/event-staffing/internal/staffing"
	"github.com/example/event-staffing/internal/testfixtures"
)

// stubStore is an in-memory Store for service tests. It records mutating
// calls so tests can assert on transaction boundaries.
type stubStore struct {
	employees  []staffing.Employee
	events     map[string]staffing.Event
	schedules  map[string]staffing.Schedule
	timeOff    []staffing.TimeOffRecord
	weekly     []staffing.WeeklyAvailability
	rotations  []staffing.RotationAssignment
	exceptions []staffing.RotationException
	proposals  map[string]staffing.Proposal

	commitErr   error
	moveErr     error
	commitCalls [][]staffing.Proposal
	moveCalls   [][]persistence.ScheduleMove
	removeCalls [][]string
}

func newStubStore() *stubStore {
	return &stubStore{
		employees: testfixtures.Crew(),
		events:    make(map[string]staffing.Event),
		schedules: make(map[string]staffing.Schedule),
		rotations: testfixtures.RotationWeek(),
		proposals: make(map[string]staffing.Proposal),
	}
}

func (s *stubStore) addEvent(ev staffing.Event)          { s.events[ev.Ref] = ev }
func (s *stubStore) addSchedule(sched staffing.Schedule) { s.schedules[sched.EventRef] = sched }
func (s *stubStore) addProposal(p staffing.Proposal)     { s.proposals[p.ID] = p }

func (s *stubStore) ListEmployees(context.Context) ([]staffing.Employee, error) {
	return s.employees, nil
}

func (s *stubStore) GetEmployee(_ context.Context, id string) (staffing.Employee, error) {
	for _, emp := range s.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return staffing.Employee{}, persistence.ErrNotFound
}

func (s *stubStore) ListEvents(context.Context) ([]staffing.Event, error) {
	out := make([]staffing.Event, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev)
	}
	return out, nil
}

func (s *stubStore) GetEvent(_ context.Context, ref string) (staffing.Event, error) {
	ev, ok := s.events[ref]
	if !ok {
		return staffing.Event{}, persistence.ErrNotFound
	}
	return ev, nil
}

func (s *stubStore) ListSchedules(context.Context) ([]staffing.Schedule, error) {
	out := make([]staffing.Schedule, 0, len(s.schedules))
	for _, sched := range s.schedules {
		out = append(out, sched)
	}
	return out, nil
}

func (s *stubStore) GetScheduleByEvent(_ context.Context, eventRef string) (staffing.Schedule, error) {
	sched, ok := s.schedules[eventRef]
	if !ok {
		return staffing.Schedule{}, persistence.ErrNotFound
	}
	return sched, nil
}

func (s *stubStore) ListTimeOff(context.Context) ([]staffing.TimeOffRecord, error) {
	return s.timeOff, nil
}

func (s *stubStore) ListWeeklyAvailability(context.Context) ([]staffing.WeeklyAvailability, error) {
	return s.weekly, nil
}

func (s *stubStore) ListRotationAssignments(context.Context) ([]staffing.RotationAssignment, error) {
	return s.rotations, nil
}

func (s *stubStore) ListRotationExceptions(context.Context) ([]staffing.RotationException, error) {
	return s.exceptions, nil
}

func (s *stubStore) CreateProposals(_ context.Context, proposals []staffing.Proposal) error {
	for _, p := range proposals {
		s.proposals[p.ID] = p
	}
	return nil
}

func (s *stubStore) GetProposal(_ context.Context, id string) (staffing.Proposal, error) {
	p, ok := s.proposals[id]
	if !ok {
		return staffing.Proposal{}, persistence.ErrNotFound
	}
	return p, nil
}

func (s *stubStore) ListProposalsByRun(_ context.Context, runID string) ([]staffing.Proposal, error) {
	var out []staffing.Proposal
	for _, p := range s.proposals {
		if p.RunID == runID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubStore) UpdateProposal(_ context.Context, proposal staffing.Proposal) error {
	if _, ok := s.proposals[proposal.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.proposals[proposal.ID] = proposal
	return nil
}

func (s *stubStore) DeleteProposal(_ context.Context, id string) error {
	if _, ok := s.proposals[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.proposals, id)
	return nil
}

func (s *stubStore) CommitAssignments(_ context.Context, proposals []staffing.Proposal) error {
	s.commitCalls = append(s.commitCalls, proposals)
	if s.commitErr != nil {
		return s.commitErr
	}
	for _, p := range proposals {
		s.schedules[p.EventRef] = staffing.Schedule{
			EventRef:   p.EventRef,
			EventType:  p.EventType,
			EmployeeID: p.EmployeeID,
			StartsAt:   p.StartsAt,
		}
		ev := s.events[p.EventRef]
		ev.Staffed = true
		s.events[p.EventRef] = ev
	}
	return nil
}

func (s *stubStore) MoveAssignments(_ context.Context, moves []persistence.ScheduleMove) error {
	s.moveCalls = append(s.moveCalls, moves)
	if s.moveErr != nil {
		return s.moveErr
	}
	for _, m := range moves {
		sched, ok := s.schedules[m.EventRef]
		if !ok {
			return persistence.ErrNotFound
		}
		sched.StartsAt = m.StartsAt
		s.schedules[m.EventRef] = sched
	}
	return nil
}

func (s *stubStore) RemoveAssignments(_ context.Context, eventRefs []string) error {
	s.removeCalls = append(s.removeCalls, eventRefs)
	for _, ref := range eventRefs {
		delete(s.schedules, ref)
		ev := s.events[ref]
		ev.Staffed = false
		s.events[ref] = ev
	}
	return nil
}

// stubSubmitter fails or succeeds on demand and records submissions.
type stubSubmitter struct {
	err       error
	submitted []staffing.Proposal
}

func (s *stubSubmitter) Submit(_ context.Context, proposal staffing.Proposal) error {
	if s.err != nil {
		return s.err
	}
	s.submitted = append(s.submitted, proposal)
	return nil
}
