package staffing

import (
	"fmt"
	"sort"
	"time"
)

// The bump engine can displace a lower-priority committed assignment to free
// a contested slot. The five waves never invoke it; it is an entry point for
// operator-triggered conflict resolution and always emits a flagged swap
// proposal that requires approval before anything moves.

// PriorityScore ranks an event's urgency as whole days until its due date,
// relative to today. Lower is more urgent.
func PriorityScore(event Event, today time.Time) int {
	return int(DateOf(event.Due).Sub(DateOf(today)) / (24 * time.Hour))
}

// Bumpable reports whether the occupant event may be displaced in favor of
// requester: its due date must be more than two days out, it must not be a
// checkpoint event, it must be committed, and it must be strictly less
// urgent than the requester.
func Bumpable(occupant, requester Event, today time.Time) bool {
	if PriorityScore(occupant, today) <= 2 {
		return false
	}
	if occupant.Type == EventTypeAudit {
		return false
	}
	if !occupant.Staffed {
		return false
	}
	return PriorityScore(occupant, today) > PriorityScore(requester, today)
}

// PlanBump selects the least urgent bumpable occupant of a contested slot
// and emits a swap proposal assigning the requester in its place. The
// returned proposal references the bumped event; the bumped event is not
// rescheduled until an operator approves the swap. Returns false when no
// occupant can be displaced.
func PlanBump(requester Event, employee Employee, at time.Time, occupants []Event, today time.Time) (Proposal, bool) {
	bumpable := make([]Event, 0, len(occupants))
	for _, occ := range occupants {
		if Bumpable(occ, requester, today) {
			bumpable = append(bumpable, occ)
		}
	}
	if len(bumpable) == 0 {
		return Proposal{}, false
	}

	// Least urgent first, ref as tie-break for determinism.
	sort.Slice(bumpable, func(i, j int) bool {
		si, sj := PriorityScore(bumpable[i], today), PriorityScore(bumpable[j], today)
		if si != sj {
			return si > sj
		}
		return bumpable[i].Ref < bumpable[j].Ref
	})
	victim := bumpable[0]

	return Proposal{
		EventRef:       requester.Ref,
		EventName:      requester.Name,
		EventType:      requester.Type,
		EmployeeID:     employee.ID,
		StartsAt:       at.UTC(),
		Status:         StatusProposed,
		BumpedEventRef: victim.Ref,
		BumpReason: fmt.Sprintf("displaced %s (due %s) for more urgent %s (due %s)",
			victim.Ref, DateOf(victim.Due).Format("2006-01-02"),
			requester.Ref, DateOf(requester.Due).Format("2006-01-02")),
	}, true
}
