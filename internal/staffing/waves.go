package staffing

import (
	"fmt"
	"log/slog"
	"time"
)

// Scheduler executes one full wave pass over the unstaffed events. A
// scheduler instance is built per run and is not reentrant: Run owns the
// pending overlay exclusively and must not execute concurrently with
// another run.
type Scheduler struct {
	snap     *Snapshot
	logger   *slog.Logger
	today    time.Time
	leadDays int
}

// NewScheduler wires a wave pass against the committed snapshot. today is
// the run's reference date; leadDays is the minimum scheduling lead time
// applied to date-flexible waves.
func NewScheduler(snap *Snapshot, today time.Time, leadDays int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		snap:     snap,
		logger:   logger,
		today:    DateOf(today),
		leadDays: leadDays,
	}
}

// Run executes the five waves in fixed order and returns one proposal per
// unstaffed event. events is the full catalog; staffed events are skipped by
// the waves but remain visible to the pairing resolver. Later waves validate
// against earlier waves' in-run proposals through the shared overlay.
func (s *Scheduler) Run(events []Event) []Proposal {
	run := NewRunState()

	unstaffed := make([]Event, 0, len(events))
	for _, ev := range events {
		if !ev.Staffed {
			unstaffed = append(unstaffed, ev)
		}
	}
	ordered := SortEvents(unstaffed)

	s.waveProduction(run, ordered)
	s.waveDemo(run, ordered)
	s.waveAudit(run, ordered, events)
	s.waveFixedDate(run, ordered)
	s.waveVisit(run, ordered)

	return run.Proposals()
}

// waveProduction handles wave 1: build and prep events staffed from the
// builder rotation, advancing day by day inside the due-date window.
func (s *Scheduler) waveProduction(run *RunState, events []Event) {
	for _, ev := range events {
		if ev.Type != EventTypeBuild && ev.Type != EventTypePrep {
			continue
		}

		fixed, _ := FixedTime(ev.Type)
		from := DateOf(ev.Start)
		until := DateOf(ev.Due)

		sawRotation := false
		scheduled := false
		for day := from; day.Before(until); day = day.AddDate(0, 0, 1) {
			builder, ok := s.snap.Rotations.Lookup(day, RotationBuilder)
			if !ok {
				continue
			}
			sawRotation = true

			at := fixed.On(day)
			if vf := Validate(s.snap, run, builder, ev, at); vf != nil {
				s.logger.Debug("wave 1 candidate rejected",
					"event", ev.Ref, "employee", builder.ID, "date", day.Format("2006-01-02"), "reason", vf.Reason)
				continue
			}
			s.place(run, ev, builder, at, "")
			scheduled = true
			break
		}
		if scheduled {
			continue
		}

		if !sawRotation {
			gap := &RotationGap{Type: RotationBuilder, Date: from}
			s.fail(run, ev, gap.Error())
			continue
		}
		s.fail(run, ev, s.exhausted(ev, from, until).Error())
	}
}

// waveDemo handles wave 2: core demo events via three ordered strategies.
func (s *Scheduler) waveDemo(run *RunState, events []Event) {
	for _, ev := range events {
		if ev.Type != EventTypeDemo {
			continue
		}

		from, until := s.flexibleWindow(ev)
		if !from.Before(until) {
			s.fail(run, ev, s.exhausted(ev, from, until).Error())
			continue
		}

		if s.demoSeniorStrategy(run, ev, from, until) {
			continue
		}
		if s.demoBuilderStrategy(run, ev, from, until) {
			continue
		}
		if s.demoGenericStrategy(run, ev, from, until) {
			continue
		}
		s.fail(run, ev, s.exhausted(ev, from, until).Error())
	}
}

// demoSeniorStrategy books the senior rotation employee on a day the
// rotation designates them, preferring the demo list's first slot.
func (s *Scheduler) demoSeniorStrategy(run *RunState, ev Event, from, until time.Time) bool {
	for day := from; day.Before(until); day = day.AddDate(0, 0, 1) {
		senior, ok := s.snap.Rotations.Lookup(day, RotationSenior)
		if !ok {
			continue
		}

		first := FirstSlot(CategoryDemo).On(day)
		if Validate(s.snap, run, senior, ev, first) == nil {
			s.place(run, ev, senior, first, CategoryDemo)
			return true
		}

		next := run.NextSlot(day, CategoryDemo).On(day)
		if !next.Equal(first) && Validate(s.snap, run, senior, ev, next) == nil {
			s.place(run, ev, senior, next, CategoryDemo)
			return true
		}
	}
	return false
}

// demoBuilderStrategy books a builder on a day free of production work.
func (s *Scheduler) demoBuilderStrategy(run *RunState, ev Event, from, until time.Time) bool {
	builders := s.snap.EmployeesByRole(RoleBuilder)
	for day := from; day.Before(until); day = day.AddDate(0, 0, 1) {
		for _, builder := range builders {
			if s.snap.hasProductionOn(builder.ID, day) || run.hasProductionOn(builder.ID, day) {
				continue
			}
			at := run.NextSlot(day, CategoryDemo).On(day)
			if Validate(s.snap, run, builder, ev, at) == nil {
				s.place(run, ev, builder, at, CategoryDemo)
				return true
			}
		}
	}
	return false
}

// demoGenericStrategy books the first qualified employee the validator
// accepts, in deterministic ID order.
func (s *Scheduler) demoGenericStrategy(run *RunState, ev Event, from, until time.Time) bool {
	for day := from; day.Before(until); day = day.AddDate(0, 0, 1) {
		at := run.NextSlot(day, CategoryDemo).On(day)
		for _, emp := range s.snap.Employees() {
			if !Eligible(emp.Role, EventTypeDemo) {
				continue
			}
			if Validate(s.snap, run, emp, ev, at) == nil {
				s.place(run, ev, emp, at, CategoryDemo)
				return true
			}
		}
	}
	return false
}

// waveAudit handles wave 3: checkpoint events pinned to their paired demo's
// resolved date at the fixed midday time.
func (s *Scheduler) waveAudit(run *RunState, events []Event, catalog []Event) {
	for _, ev := range events {
		if ev.Type != EventTypeAudit {
			continue
		}

		pair, ok := FindPair(ev, catalog)
		if !ok {
			pf := &PairingFailure{EventRef: ev.Ref, Reason: "no paired demo event found"}
			s.fail(run, ev, pf.Error())
			continue
		}

		pairDate, perr := s.pairDate(run, pair)
		if perr != nil {
			pf := &PairingFailure{EventRef: ev.Ref, Reason: perr.Error()}
			s.fail(run, ev, pf.Error())
			continue
		}

		at := Midday.On(pairDate)
		if s.tryCandidates(run, ev, at, s.auditCandidates(pairDate)) {
			continue
		}
		s.fail(run, ev, fmt.Sprintf("no eligible supervisor for %s at %s", ev.Ref, at.Format(time.RFC3339)))
	}
}

// pairDate resolves the date the paired demo landed on: this run's outcome
// first, then any committed schedule.
func (s *Scheduler) pairDate(run *RunState, pair Event) (time.Time, error) {
	if scheduled, date, reason, ok := run.Outcome(pair.Ref); ok {
		if !scheduled {
			return time.Time{}, fmt.Errorf("paired demo %s failed: %s", pair.Ref, reason)
		}
		return date, nil
	}
	if sched, ok := s.snap.ScheduleFor(pair.Ref); ok {
		return DateOf(sched.StartsAt), nil
	}
	return time.Time{}, fmt.Errorf("paired demo %s is not scheduled", pair.Ref)
}

func (s *Scheduler) auditCandidates(date time.Time) []Employee {
	candidates := make([]Employee, 0, 4)
	candidates = append(candidates, s.snap.EmployeesByRole(RoleManager)...)
	if senior, ok := s.snap.Rotations.Lookup(date, RotationSenior); ok {
		candidates = append(candidates, senior)
	}
	return candidates
}

// waveFixedDate handles wave 4: setup and teardown events bound to their own
// start date, drawing times from the subtype's rotating slot list.
func (s *Scheduler) waveFixedDate(run *RunState, events []Event) {
	for _, ev := range events {
		if ev.Type != EventTypeSetup && ev.Type != EventTypeTeardown {
			continue
		}

		category, _ := SlotCategoryFor(ev.Type)
		date := DateOf(ev.Start)
		scheduled := false

		// The date's rotation lead gets the list's first entry.
		if lead, ok := s.snap.Rotations.Lookup(date, RotationLead); ok {
			at := FirstSlot(category).On(date)
			if Validate(s.snap, run, lead, ev, at) == nil {
				s.place(run, ev, lead, at, category)
				scheduled = true
			}
		}
		if !scheduled {
			at := run.NextSlot(date, category).On(date)
			if s.tryCandidates(run, ev, at, s.snap.Rotations.SecondaryLeads(date)) {
				scheduled = true
			}
		}
		if !scheduled {
			at := run.NextSlot(date, category).On(date)
			if s.tryCandidates(run, ev, at, s.snap.EmployeesByRole(RoleManager)) {
				scheduled = true
			}
		}
		if !scheduled {
			s.fail(run, ev, fmt.Sprintf("no eligible lead or manager for %s on %s", ev.Ref, date.Format("2006-01-02")))
		}
	}
}

// waveVisit handles wave 5: catch-all visits at the fixed midday time,
// manager first, then any qualified lead.
func (s *Scheduler) waveVisit(run *RunState, events []Event) {
	for _, ev := range events {
		if ev.Type != EventTypeVisit {
			continue
		}

		from, until := s.flexibleWindow(ev)
		scheduled := false
		for day := from; day.Before(until); day = day.AddDate(0, 0, 1) {
			at := Midday.On(day)
			candidates := append([]Employee{}, s.snap.EmployeesByRole(RoleManager)...)
			candidates = append(candidates, s.snap.EmployeesByRole(RoleLead)...)
			if s.tryCandidates(run, ev, at, candidates) {
				scheduled = true
				break
			}
		}
		if !scheduled {
			s.fail(run, ev, s.exhausted(ev, from, until).Error())
		}
	}
}

// tryCandidates validates candidates in order and places the first that
// passes. The slot category is resolved from the event type so placements
// advance the right counter.
func (s *Scheduler) tryCandidates(run *RunState, ev Event, at time.Time, candidates []Employee) bool {
	category, _ := SlotCategoryFor(ev.Type)
	for _, emp := range candidates {
		if vf := Validate(s.snap, run, emp, ev, at); vf != nil {
			s.logger.Debug("candidate rejected",
				"event", ev.Ref, "employee", emp.ID, "check", vf.Check, "reason", vf.Reason)
			continue
		}
		s.place(run, ev, emp, at, category)
		return true
	}
	return false
}

// flexibleWindow computes the candidate date range for date-flexible waves:
// from max(event start, today+lead time) up to, excluding, the due date.
func (s *Scheduler) flexibleWindow(ev Event) (from, until time.Time) {
	from = DateOf(ev.Start)
	earliest := s.today.AddDate(0, 0, s.leadDays)
	if from.Before(earliest) {
		from = earliest
	}
	return from, DateOf(ev.Due)
}

func (s *Scheduler) exhausted(ev Event, from, until time.Time) *ExhaustedWindow {
	last := until.AddDate(0, 0, -1)
	if last.Before(from) {
		last = from
	}
	return &ExhaustedWindow{EventRef: ev.Ref, From: from, Until: last}
}

func (s *Scheduler) place(run *RunState, ev Event, emp Employee, at time.Time, category SlotCategory) {
	if warning, ok := SoftWarning(emp, ev); ok {
		s.logger.Warn("soft constraint", "warning", warning)
	}
	run.RecordPlacement(ev, emp, at, category)
	s.logger.Info("proposal emitted",
		"event", ev.Ref, "type", string(ev.Type), "employee", emp.ID, "starts_at", at.Format(time.RFC3339))
}

func (s *Scheduler) fail(run *RunState, ev Event, reason string) {
	run.RecordFailure(ev, reason)
	s.logger.Info("event not staffed", "event", ev.Ref, "type", string(ev.Type), "reason", reason)
}
