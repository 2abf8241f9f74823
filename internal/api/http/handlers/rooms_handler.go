package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/service"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// RoomsHandler exposes room and feedback endpoints.
type RoomsHandler struct {
	service *service.RoomService
}

// NewRoomsHandler constructs handler.
func NewRoomsHandler(roomService *service.RoomService) *RoomsHandler {
	return &RoomsHandler{service: roomService}
}

// List GET /rooms?teamId=.
func (h *RoomsHandler) List(c *fiber.Ctx) error {
	rooms, err := h.service.ListRooms(c.UserContext(), c.Query("teamId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(rooms, roomResponse)})
}

// Create POST /rooms.
func (h *RoomsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	room, err := h.service.CreateRoom(c.UserContext(), service.RoomCreateInput{
		RoomID: req.RoomID,
		Name:   req.RoomName,
		Floor:  req.RoomFloor,
		TeamID: req.TeamID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": roomResponse(room)})
}

// Delete DELETE /rooms/:roomId.
func (h *RoomsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteRoom(c.UserContext(), c.Params("roomId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SubmitFeedback POST /rooms/:roomId/feedback.
func (h *RoomsHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	fb, err := h.service.SubmitFeedback(c.UserContext(), c.Params("roomId"), service.FeedbackInput{
		Rating:      req.Rating,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": feedbackResponse(fb)})
}

// ListFeedback GET /rooms/:roomId/feedback.
func (h *RoomsHandler) ListFeedback(c *fiber.Ctx) error {
	items, err := h.service.ListFeedback(c.UserContext(), c.Params("roomId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(items, feedbackResponse)})
}
