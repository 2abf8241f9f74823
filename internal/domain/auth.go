package domain

// Role differentiates managers from employees.
type Role string

const (
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)
