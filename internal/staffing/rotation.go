package staffing

import (
	"sort"
	"time"
)

// Registry resolves the rotation-designated employee for a date. Exact-date
// exceptions always win over the weekly defaults.
type Registry struct {
	defaults   map[time.Weekday]map[RotationType]string
	exceptions map[time.Time]map[RotationType]string
	employees  map[string]Employee
}

// NewRegistry builds a registry from rotation configuration and the employee
// directory. Inactive employees never resolve.
func NewRegistry(assignments []RotationAssignment, exceptions []RotationException, employees []Employee) *Registry {
	r := &Registry{
		defaults:   make(map[time.Weekday]map[RotationType]string),
		exceptions: make(map[time.Time]map[RotationType]string),
		employees:  make(map[string]Employee, len(employees)),
	}

	for _, emp := range employees {
		r.employees[emp.ID] = emp
	}
	for _, a := range assignments {
		byType, ok := r.defaults[a.Weekday]
		if !ok {
			byType = make(map[RotationType]string)
			r.defaults[a.Weekday] = byType
		}
		byType[a.Type] = a.EmployeeID
	}
	for _, x := range exceptions {
		date := DateOf(x.Date)
		byType, ok := r.exceptions[date]
		if !ok {
			byType = make(map[RotationType]string)
			r.exceptions[date] = byType
		}
		byType[x.Type] = x.EmployeeID
	}

	return r
}

// Lookup resolves the employee covering the rotation on the given date. The
// boolean is false when neither an exception nor a weekly default exists, or
// when the resolved employee is unknown or inactive.
func (r *Registry) Lookup(date time.Time, rt RotationType) (Employee, bool) {
	if r == nil {
		return Employee{}, false
	}
	day := DateOf(date)

	if byType, ok := r.exceptions[day]; ok {
		if id, ok := byType[rt]; ok {
			return r.activeEmployee(id)
		}
	}
	if byType, ok := r.defaults[day.Weekday()]; ok {
		if id, ok := byType[rt]; ok {
			return r.activeEmployee(id)
		}
	}
	return Employee{}, false
}

// SecondaryLeads returns the qualified leads for the date excluding the
// primary lead rotation result, ordered by employee ID. The secondary set is
// computed, never stored.
func (r *Registry) SecondaryLeads(date time.Time) []Employee {
	if r == nil {
		return nil
	}
	primary, _ := r.Lookup(date, RotationLead)

	leads := make([]Employee, 0)
	for _, emp := range r.employees {
		if !emp.Active || emp.Role != RoleLead {
			continue
		}
		if emp.ID == primary.ID {
			continue
		}
		leads = append(leads, emp)
	}
	sort.Slice(leads, func(i, j int) bool { return leads[i].ID < leads[j].ID })
	return leads
}

func (r *Registry) activeEmployee(id string) (Employee, bool) {
	emp, ok := r.employees[id]
	if !ok || !emp.Active {
		return Employee{}, false
	}
	return emp, true
}
