package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/auth"
	"github.com/spec-kit/facility-service/internal/service"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// TeamsHandler exposes roster endpoints.
type TeamsHandler struct {
	service *service.TeamService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teamService *service.TeamService) *TeamsHandler {
	return &TeamsHandler{service: teamService}
}

// List GET /teams.
func (h *TeamsHandler) List(c *fiber.Ctx) error {
	teams, err := h.service.AllTeams(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(teams, teamResponse)})
}

// Create POST /teams.
func (h *TeamsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	managerID := req.ManagerID
	if managerID == "" {
		managerID = principal.User.ID
	}
	if managerID != principal.User.ID {
		return apperrors.NewForbidden("managers can only create their own team")
	}

	team, err := h.service.CreateTeam(c.UserContext(), service.TeamCreateInput{
		Name:        req.TeamName,
		ManagerID:   managerID,
		EmployeeIDs: req.EmployeeID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": teamResponse(team)})
}

// GetByManager GET /teams/:managerId.
func (h *TeamsHandler) GetByManager(c *fiber.Ctx) error {
	team, err := h.service.GetTeamByManager(c.UserContext(), c.Params("managerId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": teamResponse(team)})
}

// GetByCode GET /teams/by-code/:code.
func (h *TeamsHandler) GetByCode(c *fiber.Ctx) error {
	team, err := h.service.GetTeamByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": teamResponse(team)})
}

// GetByEmployee GET /teams/by-employee/:employeeId.
func (h *TeamsHandler) GetByEmployee(c *fiber.Ctx) error {
	team, err := h.service.GetTeamByEmployee(c.UserContext(), c.Params("employeeId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": teamResponse(team)})
}

// Join POST /teams/join.
func (h *TeamsHandler) Join(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.JoinTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = principal.User.ID
	}
	if employeeID != principal.User.ID && !principal.IsManager() {
		return apperrors.NewForbidden("employees can only join as themselves")
	}

	team, err := h.service.JoinTeam(c.UserContext(), req.TeamCode, employeeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": teamResponse(team)})
}

// AddEmployee POST /teams/:managerId/employees.
func (h *TeamsHandler) AddEmployee(c *fiber.Ctx) error {
	var req dto.AddEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	team, err := h.service.AddEmployeeToManagerTeam(c.UserContext(), c.Params("managerId"), req.EmployeeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": teamResponse(team)})
}

// RemoveEmployee DELETE /teams/:managerId/employees/:employeeId.
func (h *TeamsHandler) RemoveEmployee(c *fiber.Ctx) error {
	team, err := h.service.RemoveEmployee(c.UserContext(), c.Params("managerId"), c.Params("employeeId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": teamResponse(team)})
}
