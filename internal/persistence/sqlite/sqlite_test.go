package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/event-staffing/internal/persistence"
	"github.com/example/event-staffing/internal/staffing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func seedEmployee(t *testing.T, store *Store, id string, role staffing.Role) {
	t.Helper()
	err := store.UpsertEmployee(context.Background(), staffing.Employee{
		ID: id, Name: id, Role: role, Active: true,
	})
	if err != nil {
		t.Fatalf("seed employee %s: %v", id, err)
	}
}

func seedEvent(t *testing.T, store *Store, ref string, evType staffing.EventType) staffing.Event {
	t.Helper()
	ev := staffing.Event{
		Ref:      ref,
		Name:     "606001-DEMO-Campaign",
		Type:     evType,
		Start:    time.Date(2025, time.October, 6, 0, 0, 0, 0, time.UTC),
		Due:      time.Date(2025, time.October, 20, 0, 0, 0, 0, time.UTC),
		Duration: time.Hour,
	}
	if err := store.UpsertEvent(context.Background(), ev); err != nil {
		t.Fatalf("seed event %s: %v", ref, err)
	}
	return ev
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestEmployeeRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1", staffing.RoleSenior)

	emp, err := store.GetEmployee(ctx, "emp-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if emp.Role != staffing.RoleSenior || !emp.Active {
		t.Fatalf("round trip mismatch: %+v", emp)
	}

	// Upsert replaces in place.
	if err := store.UpsertEmployee(ctx, staffing.Employee{ID: "emp-1", Role: staffing.RoleSenior}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	emp, err = store.GetEmployee(ctx, "emp-1")
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if emp.Active {
		t.Fatal("upsert should have deactivated the employee")
	}

	if _, err := store.GetEmployee(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seeded := seedEvent(t, store, "ev-1", staffing.EventTypeDemo)

	ev, err := store.GetEvent(ctx, "ev-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ev.Start.Equal(seeded.Start) || !ev.Due.Equal(seeded.Due) {
		t.Fatalf("date mismatch: %+v", ev)
	}
	if ev.Duration != time.Hour || ev.Staffed {
		t.Fatalf("round trip mismatch: %+v", ev)
	}

	if _, err := store.GetEvent(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCommitAssignments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1", staffing.RoleSenior)
	seedEvent(t, store, "ev-1", staffing.EventTypeDemo)

	startsAt := time.Date(2025, time.October, 9, 10, 0, 0, 0, time.UTC)
	err := store.CommitAssignments(ctx, []staffing.Proposal{{
		EventRef: "ev-1", EventType: staffing.EventTypeDemo,
		EmployeeID: "emp-1", StartsAt: startsAt,
	}})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	sched, err := store.GetScheduleByEvent(ctx, "ev-1")
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if sched.EmployeeID != "emp-1" || !sched.StartsAt.Equal(startsAt) {
		t.Fatalf("schedule mismatch: %+v", sched)
	}

	ev, err := store.GetEvent(ctx, "ev-1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if !ev.Staffed {
		t.Fatal("commit must mark the event staffed")
	}
}

func TestCommitAssignmentsRollsBackOnMissingEvent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1", staffing.RoleSenior)
	seedEvent(t, store, "ev-1", staffing.EventTypeDemo)

	startsAt := time.Date(2025, time.October, 9, 10, 0, 0, 0, time.UTC)
	err := store.CommitAssignments(ctx, []staffing.Proposal{
		{EventRef: "ev-1", EventType: staffing.EventTypeDemo, EmployeeID: "emp-1", StartsAt: startsAt},
		{EventRef: "ev-ghost", EventType: staffing.EventTypeAudit, EmployeeID: "emp-1", StartsAt: startsAt},
	})
	if err == nil {
		t.Fatal("expected commit failure")
	}

	// The valid first proposal must have been rolled back with the batch.
	if _, err := store.GetScheduleByEvent(ctx, "ev-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected rolled-back schedule, got %v", err)
	}
	ev, err := store.GetEvent(ctx, "ev-1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if ev.Staffed {
		t.Fatal("event must stay unstaffed after rollback")
	}
}

func TestCommitAssignmentsRejectsDoubleBooking(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1", staffing.RoleSenior)
	seedEvent(t, store, "ev-1", staffing.EventTypeDemo)

	proposal := staffing.Proposal{
		EventRef: "ev-1", EventType: staffing.EventTypeDemo,
		EmployeeID: "emp-1", StartsAt: time.Date(2025, time.October, 9, 10, 0, 0, 0, time.UTC),
	}
	if err := store.CommitAssignments(ctx, []staffing.Proposal{proposal}); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	err := store.CommitAssignments(ctx, []staffing.Proposal{proposal})
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestMoveAssignmentsRollsBackOnMissingSchedule(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1", staffing.RoleSenior)
	seedEvent(t, store, "ev-1", staffing.EventTypeDemo)

	original := time.Date(2025, time.October, 9, 10, 0, 0, 0, time.UTC)
	if err := store.CommitAssignments(ctx, []staffing.Proposal{{
		EventRef: "ev-1", EventType: staffing.EventTypeDemo, EmployeeID: "emp-1", StartsAt: original,
	}}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	moved := original.AddDate(0, 0, 5)
	err := store.MoveAssignments(ctx, []persistence.ScheduleMove{
		{EventRef: "ev-1", StartsAt: moved},
		{EventRef: "ev-ghost", StartsAt: moved},
	})
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	sched, err := store.GetScheduleByEvent(ctx, "ev-1")
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if !sched.StartsAt.Equal(original) {
		t.Fatalf("move must roll back whole batch, got %v", sched.StartsAt)
	}

	// A clean single move applies.
	if err := store.MoveAssignments(ctx, []persistence.ScheduleMove{{EventRef: "ev-1", StartsAt: moved}}); err != nil {
		t.Fatalf("single move: %v", err)
	}
	sched, _ = store.GetScheduleByEvent(ctx, "ev-1")
	if !sched.StartsAt.Equal(moved) {
		t.Fatalf("schedule at %v, want %v", sched.StartsAt, moved)
	}
}

func TestRemoveAssignmentsUnstaffsEvent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1", staffing.RoleSenior)
	seedEvent(t, store, "ev-1", staffing.EventTypeDemo)

	if err := store.CommitAssignments(ctx, []staffing.Proposal{{
		EventRef: "ev-1", EventType: staffing.EventTypeDemo, EmployeeID: "emp-1",
		StartsAt: time.Date(2025, time.October, 9, 10, 0, 0, 0, time.UTC),
	}}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if err := store.RemoveAssignments(ctx, []string{"ev-1"}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.GetScheduleByEvent(ctx, "ev-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("schedule should be gone, got %v", err)
	}
	ev, err := store.GetEvent(ctx, "ev-1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if ev.Staffed {
		t.Fatal("remove must flip the event back to unstaffed")
	}
}

func TestProposalLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2025, time.October, 6, 8, 0, 0, 0, time.UTC)
	proposal := staffing.Proposal{
		ID: "p-1", RunID: "run-1",
		EventRef: "ev-1", EventName: "606001-DEMO-Campaign", EventType: staffing.EventTypeDemo,
		EmployeeID: "emp-1",
		StartsAt:   time.Date(2025, time.October, 9, 10, 0, 0, 0, time.UTC),
		Status:     staffing.StatusProposed,
		CreatedAt:  created, UpdatedAt: created,
	}
	failed := staffing.Proposal{
		ID: "p-2", RunID: "run-1",
		EventRef: "ev-2", EventType: staffing.EventTypeBuild,
		Status: staffing.StatusProposed, Reason: "no valid date",
		CreatedAt: created, UpdatedAt: created,
	}
	if err := store.CreateProposals(ctx, []staffing.Proposal{proposal, failed}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetProposal(ctx, "p-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RunID != proposal.RunID || got.EventName != proposal.EventName ||
		got.EmployeeID != proposal.EmployeeID || got.Status != proposal.Status {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, proposal)
	}
	if !got.StartsAt.Equal(proposal.StartsAt) || !got.CreatedAt.Equal(proposal.CreatedAt) {
		t.Fatalf("timestamp mismatch: %+v", got)
	}

	byRun, err := store.ListProposalsByRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("list by run: %v", err)
	}
	if len(byRun) != 2 {
		t.Fatalf("expected 2 proposals, got %d", len(byRun))
	}

	got.Status = staffing.StatusUserEdited
	got.EmployeeID = "emp-2"
	if err := store.UpdateProposal(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, _ := store.GetProposal(ctx, "p-1")
	if updated.Status != staffing.StatusUserEdited || updated.EmployeeID != "emp-2" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := store.DeleteProposal(ctx, "p-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetProposal(ctx, "p-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteProposal(ctx, "p-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("double delete should report ErrNotFound, got %v", err)
	}
}

func TestRotationRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1", staffing.RoleSenior)
	seedEmployee(t, store, "emp-2", staffing.RoleSenior)

	assignment := staffing.RotationAssignment{
		Weekday: time.Monday, Type: staffing.RotationSenior, EmployeeID: "emp-1",
	}
	if err := store.SetRotationAssignment(ctx, assignment); err != nil {
		t.Fatalf("set assignment: %v", err)
	}
	// Setting the same slot again replaces the employee.
	assignment.EmployeeID = "emp-2"
	if err := store.SetRotationAssignment(ctx, assignment); err != nil {
		t.Fatalf("replace assignment: %v", err)
	}

	assignments, err := store.ListRotationAssignments(ctx)
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if len(assignments) != 1 || assignments[0].EmployeeID != "emp-2" {
		t.Fatalf("assignments = %+v", assignments)
	}

	exception := staffing.RotationException{
		Date: time.Date(2025, time.October, 6, 0, 0, 0, 0, time.UTC),
		Type: staffing.RotationSenior, EmployeeID: "emp-1",
	}
	if err := store.SetRotationException(ctx, exception); err != nil {
		t.Fatalf("set exception: %v", err)
	}
	exceptions, err := store.ListRotationExceptions(ctx)
	if err != nil {
		t.Fatalf("list exceptions: %v", err)
	}
	if len(exceptions) != 1 || !exceptions[0].Date.Equal(exception.Date) {
		t.Fatalf("exceptions = %+v", exceptions)
	}
}

func TestAvailabilityRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1", staffing.RoleSenior)

	rec := staffing.TimeOffRecord{
		EmployeeID: "emp-1",
		From:       time.Date(2025, time.October, 6, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2025, time.October, 8, 0, 0, 0, 0, time.UTC),
	}
	if err := store.AddTimeOff(ctx, rec); err != nil {
		t.Fatalf("add time off: %v", err)
	}
	timeOff, err := store.ListTimeOff(ctx)
	if err != nil {
		t.Fatalf("list time off: %v", err)
	}
	if len(timeOff) != 1 || !timeOff[0].From.Equal(rec.From) || !timeOff[0].To.Equal(rec.To) {
		t.Fatalf("time off = %+v", timeOff)
	}

	w := staffing.WeeklyAvailability{EmployeeID: "emp-1", Weekday: time.Sunday, Available: false}
	if err := store.SetWeeklyAvailability(ctx, w); err != nil {
		t.Fatalf("set weekly: %v", err)
	}
	weekly, err := store.ListWeeklyAvailability(ctx)
	if err != nil {
		t.Fatalf("list weekly: %v", err)
	}
	if len(weekly) != 1 || weekly[0].Available {
		t.Fatalf("weekly = %+v", weekly)
	}
}
