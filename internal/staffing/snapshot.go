package staffing

import (
	"sort"
	"time"
)

type occupancyKey struct {
	employeeID string
	at         time.Time
}

type employeeDayKey struct {
	employeeID string
	day        time.Time
}

// Snapshot is the committed view a run validates against: employees,
// committed schedules, availability, and rotation configuration, loaded once
// at run start. It is read-only for the duration of the run.
type Snapshot struct {
	Rotations *Registry

	employees      []Employee
	byRole         map[Role][]Employee
	byEvent        map[string]Schedule
	occupied       map[occupancyKey]struct{}
	coreByDay      map[employeeDayKey]int
	productionDays map[employeeDayKey]struct{}
	timeOff        map[string][]TimeOffRecord
	weeklyOff      map[string]map[time.Weekday]bool
}

// NewSnapshot assembles the committed view. Inactive employees are dropped;
// schedule occupancy is indexed by employee and exact start instant.
func NewSnapshot(employees []Employee, schedules []Schedule, timeOff []TimeOffRecord, weekly []WeeklyAvailability, rotations *Registry) *Snapshot {
	s := &Snapshot{
		Rotations:      rotations,
		byRole:         make(map[Role][]Employee),
		byEvent:        make(map[string]Schedule, len(schedules)),
		occupied:       make(map[occupancyKey]struct{}, len(schedules)),
		coreByDay:      make(map[employeeDayKey]int),
		productionDays: make(map[employeeDayKey]struct{}),
		timeOff:        make(map[string][]TimeOffRecord),
		weeklyOff:      make(map[string]map[time.Weekday]bool),
	}

	for _, emp := range employees {
		if !emp.Active {
			continue
		}
		s.employees = append(s.employees, emp)
		s.byRole[emp.Role] = append(s.byRole[emp.Role], emp)
	}
	sort.Slice(s.employees, func(i, j int) bool { return s.employees[i].ID < s.employees[j].ID })
	for role := range s.byRole {
		list := s.byRole[role]
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}

	for _, sched := range schedules {
		s.byEvent[sched.EventRef] = sched
		s.occupied[occupancyKey{sched.EmployeeID, sched.StartsAt.UTC()}] = struct{}{}
		day := employeeDayKey{sched.EmployeeID, DateOf(sched.StartsAt)}
		switch sched.EventType {
		case EventTypeDemo:
			s.coreByDay[day]++
		case EventTypeBuild, EventTypePrep:
			s.productionDays[day] = struct{}{}
		}
	}

	for _, rec := range timeOff {
		s.timeOff[rec.EmployeeID] = append(s.timeOff[rec.EmployeeID], rec)
	}
	for _, w := range weekly {
		days, ok := s.weeklyOff[w.EmployeeID]
		if !ok {
			days = make(map[time.Weekday]bool)
			s.weeklyOff[w.EmployeeID] = days
		}
		days[w.Weekday] = w.Available
	}

	return s
}

// Employees returns every active employee, ordered by ID.
func (s *Snapshot) Employees() []Employee {
	return s.employees
}

// EmployeesByRole returns the active employees holding the role, ordered by
// ID for deterministic candidate iteration.
func (s *Snapshot) EmployeesByRole(role Role) []Employee {
	return s.byRole[role]
}

// ScheduleFor returns the committed schedule for an event, if any.
func (s *Snapshot) ScheduleFor(eventRef string) (Schedule, bool) {
	sched, ok := s.byEvent[eventRef]
	return sched, ok
}

// OnTimeOff reports whether a time-off record covers the date.
func (s *Snapshot) OnTimeOff(employeeID string, date time.Time) bool {
	day := DateOf(date)
	for _, rec := range s.timeOff[employeeID] {
		if !day.Before(DateOf(rec.From)) && !day.After(DateOf(rec.To)) {
			return true
		}
	}
	return false
}

// AvailableOn reports the weekly availability flag for the weekday. Absence
// of a record implies available.
func (s *Snapshot) AvailableOn(employeeID string, weekday time.Weekday) bool {
	days, ok := s.weeklyOff[employeeID]
	if !ok {
		return true
	}
	available, ok := days[weekday]
	if !ok {
		return true
	}
	return available
}

func (s *Snapshot) occupiedAt(employeeID string, at time.Time) bool {
	_, ok := s.occupied[occupancyKey{employeeID, at.UTC()}]
	return ok
}

func (s *Snapshot) coreCountOn(employeeID string, date time.Time) int {
	return s.coreByDay[employeeDayKey{employeeID, DateOf(date)}]
}

func (s *Snapshot) hasProductionOn(employeeID string, date time.Time) bool {
	_, ok := s.productionDays[employeeDayKey{employeeID, DateOf(date)}]
	return ok
}
