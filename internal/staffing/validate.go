package staffing

import (
	"fmt"
	"time"
)

// Validate checks a candidate (employee, event, datetime) triple against the
// hard constraints, reading committed state from the snapshot and in-flight
// proposals from the pending overlay. A nil overlay means only committed
// data is considered (the manual-scheduling path). Returns nil when every
// hard check passes.
func Validate(snap *Snapshot, pending *RunState, emp Employee, event Event, at time.Time) *ValidationFailure {
	date := DateOf(at)

	if snap.OnTimeOff(emp.ID, date) {
		return &ValidationFailure{
			Check:  "time_off",
			Reason: fmt.Sprintf("%s has time off on %s", emp.ID, date.Format("2006-01-02")),
		}
	}

	if !snap.AvailableOn(emp.ID, date.Weekday()) {
		return &ValidationFailure{
			Check:  "weekly_availability",
			Reason: fmt.Sprintf("%s is not available on %s", emp.ID, date.Weekday()),
		}
	}

	if !Eligible(emp.Role, event.Type) {
		return &ValidationFailure{
			Check:  "eligibility",
			Reason: fmt.Sprintf("role %s cannot work %s events", emp.Role, event.Type),
		}
	}

	if event.Type == EventTypeDemo {
		count := snap.coreCountOn(emp.ID, date)
		if pending != nil {
			count += pending.coreCountOn(emp.ID, date)
		}
		if count > 0 {
			return &ValidationFailure{
				Check:  "daily_cap",
				Reason: fmt.Sprintf("%s already holds a demo on %s", emp.ID, date.Format("2006-01-02")),
			}
		}
	}

	if !managerSlotExempt(emp, event.Type) {
		occupied := snap.occupiedAt(emp.ID, at)
		if !occupied && pending != nil {
			occupied = pending.occupiedAt(emp.ID, at)
		}
		if occupied {
			return &ValidationFailure{
				Check:  "slot_collision",
				Reason: fmt.Sprintf("%s is already booked at %s", emp.ID, at.UTC().Format(time.RFC3339)),
			}
		}
	}

	if !date.Before(DateOf(event.Due)) {
		return &ValidationFailure{
			Check:  "deadline",
			Reason: fmt.Sprintf("%s is not before the due date %s", date.Format("2006-01-02"), DateOf(event.Due).Format("2006-01-02")),
		}
	}

	return nil
}

// managerSlotExempt reports whether the candidate skips the slot-collision
// check: managers may hold unlimited concurrent bookings on checkpoint,
// setup, teardown, and catch-all events.
func managerSlotExempt(emp Employee, t EventType) bool {
	return emp.Role == RoleManager && slotExempt[t]
}

// SoftWarning returns the non-blocking advisory for a candidate, if any.
// The management role should not be used for ordinary event types; callers
// log the warning and proceed.
func SoftWarning(emp Employee, event Event) (string, bool) {
	if emp.Role == RoleManager && ordinaryTypes[event.Type] {
		return fmt.Sprintf("manager %s assigned to ordinary %s event %s", emp.ID, event.Type, event.Ref), true
	}
	return "", false
}
