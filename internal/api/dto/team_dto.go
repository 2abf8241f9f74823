package dto

// CreateTeamRequest payload. ManagerID defaults to the caller.
type CreateTeamRequest struct {
	TeamName   string   `json:"teamName"`
	ManagerID  string   `json:"managerId"`
	EmployeeID []string `json:"employeeId"`
}

// AddEmployeeRequest payload.
type AddEmployeeRequest struct {
	EmployeeID string `json:"employeeId"`
}

// JoinTeamRequest payload. EmployeeID defaults to the caller.
type JoinTeamRequest struct {
	TeamCode   string `json:"teamCode"`
	EmployeeID string `json:"employeeId"`
}

// TeamResponse mirrors a stored team.
type TeamResponse struct {
	ID         string   `json:"id"`
	TeamName   string   `json:"teamName"`
	ManagerID  string   `json:"managerId"`
	TeamCode   string   `json:"teamCode"`
	EmployeeID []string `json:"employeeId"`
	Version    int64    `json:"version"`
}
