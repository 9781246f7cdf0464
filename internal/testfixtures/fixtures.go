package testfixtures

import (
	"time"

	"github.com/example/event-staffing/internal/staffing"
)

// Crew returns a representative employee set covering every role, ordered
// by ID.
func Crew() []staffing.Employee {
	return []staffing.Employee{
		{ID: "emp-builder-1", Name: "Bea Builder", Role: staffing.RoleBuilder, Active: true},
		{ID: "emp-builder-2", Name: "Ben Builder", Role: staffing.RoleBuilder, Active: true},
		{ID: "emp-lead-1", Name: "Lena Lead", Role: staffing.RoleLead, Active: true},
		{ID: "emp-lead-2", Name: "Liam Lead", Role: staffing.RoleLead, Active: true},
		{ID: "emp-manager-1", Name: "Mona Manager", Role: staffing.RoleManager, Active: true},
		{ID: "emp-senior-1", Name: "Sara Senior", Role: staffing.RoleSenior, Active: true},
		{ID: "emp-spec-1", Name: "Sam Specialist", Role: staffing.RoleSpecialist, Active: true},
		{ID: "emp-spec-2", Name: "Sue Specialist", Role: staffing.RoleSpecialist, Active: true},
	}
}

// RotationWeek covers every weekday with the same trio, matching Crew IDs.
func RotationWeek() []staffing.RotationAssignment {
	var out []staffing.RotationAssignment
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		out = append(out,
			staffing.RotationAssignment{Weekday: wd, Type: staffing.RotationSenior, EmployeeID: "emp-senior-1"},
			staffing.RotationAssignment{Weekday: wd, Type: staffing.RotationBuilder, EmployeeID: "emp-builder-1"},
			staffing.RotationAssignment{Weekday: wd, Type: staffing.RotationLead, EmployeeID: "emp-lead-1"},
		)
	}
	return out
}

// Registry builds a rotation registry from RotationWeek and Crew.
func Registry() *staffing.Registry {
	return staffing.NewRegistry(RotationWeek(), nil, Crew())
}

// Event builds an event with sensible defaults: start at the reference
// date, due two weeks later.
func Event(ref, name string, t staffing.EventType) staffing.Event {
	start := staffing.DateOf(ReferenceTime())
	return staffing.Event{
		Ref:      ref,
		Name:     name,
		Type:     t,
		Start:    start,
		Due:      start.AddDate(0, 0, 14),
		Duration: time.Hour,
	}
}

// DemoPair builds a paired demo and audit for the campaign token.
func DemoPair(token string) (staffing.Event, staffing.Event) {
	demo := Event("ev-"+token+"-demo", token+"-DEMO-Campaign", staffing.EventTypeDemo)
	audit := Event("ev-"+token+"-audit", token+"-AUDIT-Campaign", staffing.EventTypeAudit)
	return demo, audit
}

// Snapshot assembles a committed view with the standard crew and rotations
// plus the supplied committed schedules.
func Snapshot(schedules []staffing.Schedule, timeOff []staffing.TimeOffRecord, weekly []staffing.WeeklyAvailability) *staffing.Snapshot {
	return staffing.NewSnapshot(Crew(), schedules, timeOff, weekly, Registry())
}
