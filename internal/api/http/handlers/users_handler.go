package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/service"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth  *service.AuthService
	teams *service.TeamService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, teamService *service.TeamService) *UsersHandler {
	return &UsersHandler{auth: authService, teams: teamService}
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.PhoneNumber == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewValidationError("name, phoneNumber, password required", nil)
	}

	teamCode := strings.TrimSpace(req.TeamCode)
	if teamCode != "" {
		if req.Manager {
			return apperrors.NewValidationError("managers cannot join a team by code", nil)
		}
		if _, err := h.teams.GetTeamByCode(c.UserContext(), teamCode); err != nil {
			return err
		}
	}

	session, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:        req.Name,
		Surname:     req.Surname,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		IsManager:   req.Manager,
		Lang:        req.Lang,
	})
	if err != nil {
		return err
	}

	data := fiber.Map{
		"user": userResponse(session.User),
		"auth": dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
	}
	if teamCode != "" {
		// The account already exists; a failed join is reported alongside it
		// and can be retried through POST /teams/join.
		team, err := h.teams.JoinTeam(c.UserContext(), teamCode, session.User.ID)
		if err != nil {
			joinErr := apperrors.ToDomainError(err)
			data["teamError"] = fiber.Map{"code": joinErr.Code, "message": joinErr.Message}
		} else {
			data["team"] = teamResponse(team)
		}
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": data})
}

// Login handles POST /users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.PhoneNumber == "" || req.Password == "" {
		return apperrors.NewValidationError("phoneNumber and password required", nil)
	}

	session, err := h.auth.Login(c.UserContext(), req.PhoneNumber, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(session.User),
			"auth": dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(users, userResponse)})
}
