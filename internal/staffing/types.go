package staffing

import (
	"fmt"
	"time"
)

// Role identifies the staffing role an employee holds. Capabilities are
// derived from the role via the eligibility table, never from subtyping.
type Role string

const (
	// RoleSpecialist staffs product demos.
	RoleSpecialist Role = "specialist"
	// RoleSenior is the prioritized senior specialist role.
	RoleSenior Role = "senior"
	// RoleBuilder handles specialized production work (builds, prep).
	RoleBuilder Role = "builder"
	// RoleLead is a store lead.
	RoleLead Role = "lead"
	// RoleManager is the management fallback role.
	RoleManager Role = "manager"
)

// EventType enumerates the kinds of work events the engine staffs.
type EventType string

const (
	// EventTypeBuild is a specialized-production display build.
	EventTypeBuild EventType = "build"
	// EventTypePrep is a specialized-production stock prep.
	EventTypePrep EventType = "prep"
	// EventTypeDemo is the core in-store demo event.
	EventTypeDemo EventType = "demo"
	// EventTypeAudit is the supervisor checkpoint paired with a demo.
	EventTypeAudit EventType = "audit"
	// EventTypeSetup is a fixed-date short setup event.
	EventTypeSetup EventType = "setup"
	// EventTypeTeardown is a fixed-date short teardown event.
	EventTypeTeardown EventType = "teardown"
	// EventTypeVisit is the catch-all store visit.
	EventTypeVisit EventType = "visit"
)

// typePriority orders event types for scheduling, most constrained first.
var typePriority = map[EventType]int{
	EventTypeBuild:    0,
	EventTypePrep:     1,
	EventTypeDemo:     2,
	EventTypeAudit:    3,
	EventTypeSetup:    4,
	EventTypeTeardown: 5,
	EventTypeVisit:    6,
}

// Priority returns the fixed scheduling rank of the event type. Unknown
// types sort last.
func (t EventType) Priority() int {
	if p, ok := typePriority[t]; ok {
		return p
	}
	return len(typePriority)
}

// eligibility is the explicit capability table: which roles may work which
// event types. The manager role is deliberately absent from core demos.
var eligibility = map[EventType]map[Role]bool{
	EventTypeDemo:     {RoleSenior: true, RoleSpecialist: true, RoleBuilder: true, RoleLead: true},
	EventTypeAudit:    {RoleManager: true, RoleSenior: true},
	EventTypeBuild:    {RoleBuilder: true},
	EventTypePrep:     {RoleBuilder: true},
	EventTypeSetup:    {RoleLead: true, RoleManager: true},
	EventTypeTeardown: {RoleLead: true, RoleManager: true},
	EventTypeVisit:    {RoleManager: true, RoleLead: true},
}

// Eligible reports whether the role may work the given event type.
func Eligible(role Role, t EventType) bool {
	return eligibility[t][role]
}

// slotExempt lists the event types on which the manager role may hold
// unlimited concurrent bookings at the same instant.
var slotExempt = map[EventType]bool{
	EventTypeAudit:    true,
	EventTypeSetup:    true,
	EventTypeTeardown: true,
	EventTypeVisit:    true,
}

// ordinaryTypes are the event types the management role should stay away
// from; using a manager there is logged but not blocked.
var ordinaryTypes = map[EventType]bool{
	EventTypeDemo:  true,
	EventTypeBuild: true,
	EventTypePrep:  true,
}

// RotationType identifies a weekly rotation the registry resolves.
type RotationType string

const (
	// RotationSenior designates the senior specialist of the day.
	RotationSenior RotationType = "senior"
	// RotationBuilder designates the production builder of the day.
	RotationBuilder RotationType = "builder"
	// RotationLead designates the primary lead of the day.
	RotationLead RotationType = "lead"
)

// Employee is a read-only view of a directory record.
type Employee struct {
	ID     string
	Name   string
	Role   Role
	Active bool
}

// Event is a work event to staff. Events are owned by an external source;
// the engine flips Staffed only through committed schedule writes.
type Event struct {
	Ref      string
	Name     string
	Type     EventType
	Start    time.Time
	Due      time.Time
	Duration time.Duration
	Staffed  bool
}

// Schedule is a committed assignment. At most one exists per event.
type Schedule struct {
	EventRef   string
	EventType  EventType
	EmployeeID string
	StartsAt   time.Time
}

// ProposalStatus is the forward-only state machine of a pending schedule.
type ProposalStatus string

const (
	StatusProposed     ProposalStatus = "proposed"
	StatusUserEdited   ProposalStatus = "user_edited"
	StatusApproved     ProposalStatus = "approved"
	StatusAPISubmitted ProposalStatus = "api_submitted"
	StatusAPIFailed    ProposalStatus = "api_failed"
)

// CanTransition reports whether a proposal may move from its current status
// to next. api_failed may loop back to api_submitted after a retry.
func (s ProposalStatus) CanTransition(next ProposalStatus) bool {
	switch s {
	case StatusProposed:
		return next == StatusUserEdited || next == StatusApproved
	case StatusUserEdited:
		return next == StatusApproved
	case StatusApproved:
		return next == StatusAPISubmitted || next == StatusAPIFailed
	case StatusAPIFailed:
		return next == StatusAPISubmitted
	default:
		return false
	}
}

// Proposal is a tentative assignment produced by a run, awaiting operator
// review. A failed proposal carries an empty EmployeeID and a reason.
type Proposal struct {
	ID         string
	RunID      string
	EventRef   string
	EventName  string
	EventType  EventType
	EmployeeID string
	StartsAt   time.Time
	Status     ProposalStatus
	Reason     string

	// Swap metadata, set only by the bump engine.
	BumpedEventRef string
	BumpReason     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Scheduled reports whether the proposal carries a real assignment.
func (p Proposal) Scheduled() bool {
	return p.EmployeeID != "" && p.Reason == ""
}

// RotationAssignment is a weekly default: this employee covers the rotation
// on the given weekday.
type RotationAssignment struct {
	Weekday    time.Weekday
	Type       RotationType
	EmployeeID string
}

// RotationException overrides the weekly default for one exact date.
type RotationException struct {
	Date       time.Time
	Type       RotationType
	EmployeeID string
}

// TimeOffRecord marks an employee as unavailable for an inclusive range.
type TimeOffRecord struct {
	EmployeeID string
	From       time.Time
	To         time.Time
}

// WeeklyAvailability records an explicit weekday availability flag. Absence
// of a record implies available.
type WeeklyAvailability struct {
	EmployeeID string
	Weekday    time.Weekday
	Available  bool
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ClockTime is a time of day applied to calendar dates.
type ClockTime struct {
	Hour   int
	Minute int
}

// On combines the clock time with a calendar date.
func (c ClockTime) On(date time.Time) time.Time {
	d := DateOf(date)
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, time.UTC)
}

// String renders the clock time as HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
