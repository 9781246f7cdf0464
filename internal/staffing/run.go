package staffing

import "time"

type slotCounterKey struct {
	day      time.Time
	category SlotCategory
}

// pairOutcome records how this run resolved an event, so later waves can
// follow or cascade from earlier waves' results.
type pairOutcome struct {
	scheduled bool
	date      time.Time
	reason    string
}

// RunState is the run-scoped pending overlay layered on top of the committed
// snapshot. It is owned exclusively by one run, threaded through every wave
// and validator call, and discarded when the run ends. Proposals recorded
// here count toward daily caps and slot-collision checks for later waves.
type RunState struct {
	occupied       map[occupancyKey]struct{}
	coreByDay      map[employeeDayKey]int
	productionDays map[employeeDayKey]struct{}
	slotCounters   map[slotCounterKey]int
	outcomes       map[string]pairOutcome
	proposals      []Proposal
}

// NewRunState returns an empty pending overlay.
func NewRunState() *RunState {
	return &RunState{
		occupied:       make(map[occupancyKey]struct{}),
		coreByDay:      make(map[employeeDayKey]int),
		productionDays: make(map[employeeDayKey]struct{}),
		slotCounters:   make(map[slotCounterKey]int),
		outcomes:       make(map[string]pairOutcome),
	}
}

// Clone returns an independent copy of the overlay. Mutating the copy does
// not affect the original, so callers can validate a candidate set of
// placements and discard it on failure.
func (r *RunState) Clone() *RunState {
	c := NewRunState()
	for k := range r.occupied {
		c.occupied[k] = struct{}{}
	}
	for k, v := range r.coreByDay {
		c.coreByDay[k] = v
	}
	for k := range r.productionDays {
		c.productionDays[k] = struct{}{}
	}
	for k, v := range r.slotCounters {
		c.slotCounters[k] = v
	}
	for k, v := range r.outcomes {
		c.outcomes[k] = v
	}
	c.proposals = append(c.proposals, r.proposals...)
	return c
}

// Placements returns how many slots this run has already allocated for the
// (date, category) pair.
func (r *RunState) Placements(date time.Time, category SlotCategory) int {
	return r.slotCounters[slotCounterKey{DateOf(date), category}]
}

// NextSlot peeks at the slot the allocator would hand out next without
// consuming it. The counter advances only when a placement is recorded.
func (r *RunState) NextSlot(date time.Time, category SlotCategory) ClockTime {
	return SlotAt(category, r.Placements(date, category))
}

// RecordPlacement registers a successful assignment in the overlay and
// appends the proposal. When category is non-empty the slot counter for the
// proposal's date advances by one.
func (r *RunState) RecordPlacement(event Event, employee Employee, at time.Time, category SlotCategory) Proposal {
	at = at.UTC()
	r.occupied[occupancyKey{employee.ID, at}] = struct{}{}
	day := employeeDayKey{employee.ID, DateOf(at)}
	switch event.Type {
	case EventTypeDemo:
		r.coreByDay[day]++
	case EventTypeBuild, EventTypePrep:
		r.productionDays[day] = struct{}{}
	}
	if category != "" {
		r.slotCounters[slotCounterKey{DateOf(at), category}]++
	}
	r.outcomes[event.Ref] = pairOutcome{scheduled: true, date: DateOf(at)}

	p := Proposal{
		EventRef:   event.Ref,
		EventName:  event.Name,
		EventType:  event.Type,
		EmployeeID: employee.ID,
		StartsAt:   at,
		Status:     StatusProposed,
	}
	r.proposals = append(r.proposals, p)
	return p
}

// RecordFailure registers a failed event with its reason. The failure is
// visible to later waves so paired events can cascade.
func (r *RunState) RecordFailure(event Event, reason string) Proposal {
	r.outcomes[event.Ref] = pairOutcome{reason: reason}

	p := Proposal{
		EventRef:  event.Ref,
		EventName: event.Name,
		EventType: event.Type,
		Status:    StatusProposed,
		Reason:    reason,
	}
	r.proposals = append(r.proposals, p)
	return p
}

// Outcome reports how this run resolved the event, if it has been processed.
func (r *RunState) Outcome(eventRef string) (scheduled bool, date time.Time, reason string, ok bool) {
	o, found := r.outcomes[eventRef]
	if !found {
		return false, time.Time{}, "", false
	}
	return o.scheduled, o.date, o.reason, true
}

// Proposals returns every proposal emitted so far, in processing order.
func (r *RunState) Proposals() []Proposal {
	out := make([]Proposal, len(r.proposals))
	copy(out, r.proposals)
	return out
}

func (r *RunState) occupiedAt(employeeID string, at time.Time) bool {
	_, ok := r.occupied[occupancyKey{employeeID, at.UTC()}]
	return ok
}

func (r *RunState) coreCountOn(employeeID string, date time.Time) int {
	return r.coreByDay[employeeDayKey{employeeID, DateOf(date)}]
}

func (r *RunState) hasProductionOn(employeeID string, date time.Time) bool {
	_, ok := r.productionDays[employeeDayKey{employeeID, DateOf(date)}]
	return ok
}
