package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/example/event-staffing/internal/persistence"
	"github.com/example/event-staffing/internal/staffing"
)

// ScheduleService is the manual-scheduling path: moving or removing a
// committed assignment outside a run. Moving a demo drags its committed
// audit to the same date inside one transaction; a failure on either side
// reverts both.
type ScheduleService struct {
	store  Store
	now    func() time.Time
	logger *slog.Logger
}

// NewScheduleService wires dependencies for manual schedule operations.
func NewScheduleService(store Store, now func() time.Time, logger *slog.Logger) *ScheduleService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleService{store: store, now: now, logger: logger}
}

// Reschedule moves a committed assignment to a new start instant. The
// current assignment's employee is kept and the move is validated against
// the committed view with the moved schedules excluded. When a demo drags
// its audit along, the audit's landing spot is validated the same way.
func (s *ScheduleService) Reschedule(ctx context.Context, eventRef string, newStart time.Time) error {
	event, err := s.store.GetEvent(ctx, eventRef)
	if err != nil {
		return mapStoreError(err)
	}
	sched, err := s.store.GetScheduleByEvent(ctx, eventRef)
	if err != nil {
		return mapStoreError(err)
	}
	employee, err := s.store.GetEmployee(ctx, sched.EmployeeID)
	if err != nil {
		return mapStoreError(err)
	}

	moves := []persistence.ScheduleMove{{EventRef: eventRef, StartsAt: newStart.UTC()}}
	excluded := map[string]bool{eventRef: true}

	pairSched, pairOK, err := s.committedPair(ctx, event)
	if err != nil {
		return err
	}
	if pairOK {
		switch event.Type {
		case staffing.EventTypeDemo:
			// The audit keeps its fixed midday time on the demo's new date.
			moves = append(moves, persistence.ScheduleMove{
				EventRef: pairSched.EventRef,
				StartsAt: staffing.Midday.On(newStart),
			})
			excluded[pairSched.EventRef] = true
		case staffing.EventTypeAudit:
			if !staffing.DateOf(newStart).Equal(staffing.DateOf(pairSched.StartsAt)) {
				return &staffing.ValidationFailure{
					Check:  "pairing",
					Reason: "an audit must stay on its paired demo's date",
				}
			}
		}
	}

	snap, _, err := snapshotExcluding(ctx, s.store, excluded)
	if err != nil {
		return err
	}
	if vf := staffing.Validate(snap, nil, employee, event, newStart); vf != nil {
		return vf
	}
	if pairOK && event.Type == staffing.EventTypeDemo {
		pairEvent, err := s.store.GetEvent(ctx, pairSched.EventRef)
		if err != nil {
			return mapStoreError(err)
		}
		pairEmployee, err := s.store.GetEmployee(ctx, pairSched.EmployeeID)
		if err != nil {
			return mapStoreError(err)
		}
		if vf := staffing.Validate(snap, nil, pairEmployee, pairEvent, staffing.Midday.On(newStart)); vf != nil {
			return vf
		}
	}

	if err := s.store.MoveAssignments(ctx, moves); err != nil {
		return &staffing.TransactionFailure{Op: "reschedule", Err: err}
	}

	s.logger.Info("assignment rescheduled",
		"event", eventRef, "starts_at", newStart.UTC().Format(time.RFC3339), "cascaded", len(moves) > 1)
	return nil
}

// Remove deletes a committed assignment and flips the event back to
// unstaffed. Removing a demo removes its committed audit in the same
// transaction.
func (s *ScheduleService) Remove(ctx context.Context, eventRef string) error {
	event, err := s.store.GetEvent(ctx, eventRef)
	if err != nil {
		return mapStoreError(err)
	}
	if _, err := s.store.GetScheduleByEvent(ctx, eventRef); err != nil {
		return mapStoreError(err)
	}

	refs := []string{eventRef}
	if event.Type == staffing.EventTypeDemo {
		pairSched, ok, err := s.committedPair(ctx, event)
		if err != nil {
			return err
		}
		if ok {
			refs = append(refs, pairSched.EventRef)
		}
	}

	if err := s.store.RemoveAssignments(ctx, refs); err != nil {
		return &staffing.TransactionFailure{Op: "remove", Err: err}
	}

	s.logger.Info("assignment removed", "event", eventRef, "cascaded", len(refs) > 1)
	return nil
}

// committedPair finds the committed schedule of the event's paired
// counterpart, if both the pair and its schedule exist.
func (s *ScheduleService) committedPair(ctx context.Context, event staffing.Event) (staffing.Schedule, bool, error) {
	if event.Type != staffing.EventTypeDemo && event.Type != staffing.EventTypeAudit {
		return staffing.Schedule{}, false, nil
	}
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return staffing.Schedule{}, false, err
	}
	pair, ok := staffing.FindPair(event, events)
	if !ok {
		return staffing.Schedule{}, false, nil
	}
	sched, err := s.store.GetScheduleByEvent(ctx, pair.Ref)
	if err != nil {
		if errors.Is(mapStoreError(err), ErrNotFound) {
			return staffing.Schedule{}, false, nil
		}
		return staffing.Schedule{}, false, err
	}
	return sched, true, nil
}
