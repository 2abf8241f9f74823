package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/auth"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/service"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

const maxImageBytes = 10 << 20

// TasksHandler exposes task lifecycle endpoints.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// List GET /tasks?managerId=&employeeId=.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	tasks, err := h.service.ListTasks(c.UserContext())
	if err != nil {
		return err
	}
	managerID, employeeID := c.Query("managerId"), c.Query("employeeId")
	filtered := tasks[:0]
	for _, task := range tasks {
		if managerID != "" && task.ManagerID != managerID {
			continue
		}
		if employeeID != "" && task.EmployeeID != employeeID {
			continue
		}
		filtered = append(filtered, task)
	}
	return c.JSON(fiber.Map{"data": mapSlice(filtered, taskResponse)})
}

// Create POST /tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EmployeeID == "" || req.Title == "" {
		return apperrors.NewValidationError("employeeId and title required", nil)
	}
	managerID := req.ManagerID
	if managerID == "" {
		managerID = principal.User.ID
	}

	task, err := h.service.CreateTask(c.UserContext(), service.TaskCreateInput{
		TaskID:        req.TaskID,
		ManagerID:     managerID,
		EmployeeID:    req.EmployeeID,
		Title:         req.Title,
		Description:   req.Description,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		ImageURL:      req.ImageURL,
		Questionnaire: req.Questionnaire.ToDomain(),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": taskResponse(task)})
}

// Get GET /tasks/:taskId.
func (h *TasksHandler) Get(c *fiber.Ctx) error {
	task, err := h.service.GetTask(c.UserContext(), c.Params("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// Status GET /tasks/:taskId/status.
func (h *TasksHandler) Status(c *fiber.Ctx) error {
	view, err := h.service.TaskStatus(c.UserContext(), c.Params("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TaskStatusResponse{
		TaskID: view.TaskID,
		Status: view.Status,
		State:  view.State,
	}})
}

// Update PUT /tasks/:taskId. The body replaces every mutable field.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	task, err := h.service.UpdateTask(c.UserContext(), c.Params("taskId"), domain.TaskPatch{
		ManagerID:     req.ManagerID,
		EmployeeID:    req.EmployeeID,
		Title:         req.Title,
		Description:   req.Description,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		ImageURL:      req.ImageURL,
		Questionnaire: req.Questionnaire.ToDomain(),
		Done:          req.Done,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// Delete DELETE /tasks/:taskId.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteTask(c.UserContext(), c.Params("taskId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Complete PUT /tasks/:taskId/complete.
func (h *TasksHandler) Complete(c *fiber.Ctx) error {
	task, err := h.service.MarkDone(c.UserContext(), c.Params("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// SubmitQuestionnaire POST /tasks/:taskId/questionnaire.
func (h *TasksHandler) SubmitQuestionnaire(c *fiber.Ctx) error {
	var req dto.Questionnaire
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	task, err := h.service.SubmitQuestionnaire(c.UserContext(), c.Params("taskId"), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// UploadImage POST /tasks/:taskId/image (multipart field "image").
func (h *TasksHandler) UploadImage(c *fiber.Ctx) error {
	header, err := c.FormFile("image")
	if err != nil {
		return apperrors.NewValidationError("image file required", nil)
	}
	if header.Size > maxImageBytes {
		return apperrors.NewValidationError("image too large", map[string]any{"max_bytes": maxImageBytes})
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	task, err := h.service.AttachImage(c.UserContext(), c.Params("taskId"), service.TaskImageInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}
