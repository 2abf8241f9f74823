package domain

import (
	"slices"
	"time"
)

// Team is a manager's roster of employees.
type Team struct {
	ID          string
	Name        string
	ManagerID   string
	JoinCode    string
	EmployeeIDs []string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasEmployee reports whether employeeID is on the roster.
func (t *Team) HasEmployee(employeeID string) bool {
	return slices.Contains(t.EmployeeIDs, employeeID)
}

// AddEmployee appends employeeID unless already present and reports whether the roster changed.
func (t *Team) AddEmployee(employeeID string) bool {
	if t.HasEmployee(employeeID) {
		return false
	}
	t.EmployeeIDs = append(t.EmployeeIDs, employeeID)
	return true
}

// RemoveEmployee drops every occurrence of employeeID and reports whether one was found.
func (t *Team) RemoveEmployee(employeeID string) bool {
	idx := slices.Index(t.EmployeeIDs, employeeID)
	if idx < 0 {
		return false
	}
	t.EmployeeIDs = slices.DeleteFunc(slices.Clone(t.EmployeeIDs), func(id string) bool {
		return id == employeeID
	})
	return true
}
