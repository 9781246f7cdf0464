package staffing

import (
	"testing"
	"time"
)

func validateFixture() (*Snapshot, Employee, Event, time.Time) {
	specialist := Employee{ID: "spec-1", Role: RoleSpecialist, Active: true}
	employees := []Employee{
		specialist,
		{ID: "mgr-1", Role: RoleManager, Active: true},
	}
	event := Event{
		Ref:  "ev-1",
		Name: "606001-DEMO-X",
		Type: EventTypeDemo,
		Due:  time.Date(2025, time.October, 20, 0, 0, 0, 0, time.UTC),
	}
	at := time.Date(2025, time.October, 9, 10, 0, 0, 0, time.UTC)
	snap := NewSnapshot(employees, nil, nil, nil, NewRegistry(nil, nil, employees))
	return snap, specialist, event, at
}

func TestValidatePasses(t *testing.T) {
	snap, emp, event, at := validateFixture()
	if vf := Validate(snap, NewRunState(), emp, event, at); vf != nil {
		t.Fatalf("expected pass, got %v", vf)
	}
}

func TestValidateTimeOff(t *testing.T) {
	_, emp, event, at := validateFixture()
	snap := NewSnapshot([]Employee{emp}, nil, []TimeOffRecord{
		{EmployeeID: emp.ID, From: at.AddDate(0, 0, -1), To: at.AddDate(0, 0, 1)},
	}, nil, nil)

	vf := Validate(snap, nil, emp, event, at)
	if vf == nil || vf.Check != "time_off" {
		t.Fatalf("expected time_off failure, got %v", vf)
	}
}

func TestValidateWeeklyAvailability(t *testing.T) {
	_, emp, event, at := validateFixture()
	snap := NewSnapshot([]Employee{emp}, nil, nil, []WeeklyAvailability{
		{EmployeeID: emp.ID, Weekday: at.Weekday(), Available: false},
	}, nil)

	vf := Validate(snap, nil, emp, event, at)
	if vf == nil || vf.Check != "weekly_availability" {
		t.Fatalf("expected weekly_availability failure, got %v", vf)
	}

	// An explicit true record keeps the employee available.
	snap = NewSnapshot([]Employee{emp}, nil, nil, []WeeklyAvailability{
		{EmployeeID: emp.ID, Weekday: at.Weekday(), Available: true},
	}, nil)
	if vf := Validate(snap, nil, emp, event, at); vf != nil {
		t.Fatalf("explicit available record must pass, got %v", vf)
	}
}

func TestValidateEligibility(t *testing.T) {
	snap, _, event, at := validateFixture()
	manager := Employee{ID: "mgr-1", Role: RoleManager, Active: true}

	vf := Validate(snap, nil, manager, event, at)
	if vf == nil || vf.Check != "eligibility" {
		t.Fatalf("manager on a demo must fail eligibility, got %v", vf)
	}
}

func TestValidateDailyCapCountsPending(t *testing.T) {
	snap, emp, event, at := validateFixture()

	pending := NewRunState()
	pending.RecordPlacement(Event{Ref: "other", Type: EventTypeDemo}, emp, at.Add(4*time.Hour), CategoryDemo)

	vf := Validate(snap, pending, emp, event, at)
	if vf == nil || vf.Check != "daily_cap" {
		t.Fatalf("expected daily_cap failure from pending demo, got %v", vf)
	}
}

func TestValidateDailyCapCountsCommitted(t *testing.T) {
	_, emp, event, at := validateFixture()
	snap := NewSnapshot([]Employee{emp}, []Schedule{
		{EventRef: "other", EventType: EventTypeDemo, EmployeeID: emp.ID, StartsAt: at.Add(4 * time.Hour)},
	}, nil, nil, nil)

	vf := Validate(snap, NewRunState(), emp, event, at)
	if vf == nil || vf.Check != "daily_cap" {
		t.Fatalf("expected daily_cap failure from committed demo, got %v", vf)
	}
}

func TestValidateSlotCollision(t *testing.T) {
	snap, emp, event, at := validateFixture()

	pending := NewRunState()
	pending.RecordPlacement(Event{Ref: "other", Type: EventTypeVisit}, emp, at, "")

	vf := Validate(snap, pending, emp, event, at)
	if vf == nil || vf.Check != "slot_collision" {
		t.Fatalf("expected slot_collision failure, got %v", vf)
	}
}

func TestValidateManagerSlotExemption(t *testing.T) {
	manager := Employee{ID: "mgr-1", Role: RoleManager, Active: true}
	audit := Event{
		Ref:  "a-1",
		Name: "606001-AUDIT-X",
		Type: EventTypeAudit,
		Due:  time.Date(2025, time.October, 20, 0, 0, 0, 0, time.UTC),
	}
	at := time.Date(2025, time.October, 9, 13, 0, 0, 0, time.UTC)

	// The manager already holds another audit at the same instant.
	snap := NewSnapshot([]Employee{manager}, []Schedule{
		{EventRef: "a-0", EventType: EventTypeAudit, EmployeeID: manager.ID, StartsAt: at},
	}, nil, nil, nil)

	if vf := Validate(snap, NewRunState(), manager, audit, at); vf != nil {
		t.Fatalf("manager must be exempt from slot collision on audits, got %v", vf)
	}
}

func TestValidateDeadline(t *testing.T) {
	snap, emp, event, _ := validateFixture()
	onDue := DateOf(event.Due).Add(10 * time.Hour)

	vf := Validate(snap, nil, emp, event, onDue)
	if vf == nil || vf.Check != "deadline" {
		t.Fatalf("assignment on the due date must fail, got %v", vf)
	}
}

func TestSoftWarningForManagerOnOrdinaryTypes(t *testing.T) {
	manager := Employee{ID: "mgr-1", Role: RoleManager, Active: true}

	if _, ok := SoftWarning(manager, Event{Ref: "e", Type: EventTypeDemo}); !ok {
		t.Fatal("manager on a demo should warn")
	}
	if _, ok := SoftWarning(manager, Event{Ref: "e", Type: EventTypeVisit}); ok {
		t.Fatal("manager on a visit is expected")
	}
	lead := Employee{ID: "lead-1", Role: RoleLead, Active: true}
	if _, ok := SoftWarning(lead, Event{Ref: "e", Type: EventTypeDemo}); ok {
		t.Fatal("lead on a demo should not warn")
	}
}
