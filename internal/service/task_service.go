package service

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/repository"
	"github.com/spec-kit/facility-service/internal/storage"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// TaskService owns task creation, mutation and completion.
type TaskService struct {
	tasks    repository.TaskRepository
	uploader storage.Uploader
	events   publisher
	logger   *zap.Logger
	now      func() time.Time
}

// TaskDependencies bundles collaborators for the task service.
type TaskDependencies struct {
	TaskRepo   repository.TaskRepository
	Uploader   storage.Uploader
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TaskCreateInput describes a new assignment.
type TaskCreateInput struct {
	TaskID        string
	ManagerID     string
	EmployeeID    string
	Title         string
	Description   string
	StartTime     time.Time
	EndTime       time.Time
	ImageURL      string
	Questionnaire domain.Questionnaire
}

// TaskImageInput is an uploaded task photo.
type TaskImageInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	uploader := deps.Uploader
	if uploader == nil {
		uploader = storage.Disabled{}
	}
	return &TaskService{
		tasks:    deps.TaskRepo,
		uploader: uploader,
		events:   publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:   logger,
		now:      time.Now,
	}
}

// ListTasks returns every task.
func (s *TaskService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tasks, nil
}

// GetTask fetches a task by its task identifier.
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetByTaskID(ctx, taskID)
	if err != nil {
		return nil, taskError(err, taskID)
	}
	return task, nil
}

// TaskStatusView is the derived label and lifecycle state of one task.
type TaskStatusView struct {
	TaskID string
	Status domain.TaskStatus
	State  domain.TaskState
}

// TaskStatus derives the status of the stored task.
func (s *TaskService) TaskStatus(ctx context.Context, taskID string) (*TaskStatusView, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return &TaskStatusView{TaskID: task.TaskID, Status: task.Status(), State: task.State()}, nil
}

// CreateTask stores a new open task.
func (s *TaskService) CreateTask(ctx context.Context, input TaskCreateInput) (*domain.Task, error) {
	if err := validateWindow(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}

	task := &domain.Task{
		TaskID:        strings.TrimSpace(input.TaskID),
		ManagerID:     input.ManagerID,
		EmployeeID:    input.EmployeeID,
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		ImageURL:      input.ImageURL,
		Questionnaire: input.Questionnaire,
		Done:          false,
	}
	if task.TaskID == "" {
		task.TaskID = uuid.NewString()
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("task already exists", map[string]any{"task_id": task.TaskID})
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("task created",
		zap.String("task_id", task.TaskID),
		zap.String("manager_id", task.ManagerID),
		zap.String("employee_id", task.EmployeeID))
	s.publishTask(ctx, events.EventTaskCreated, task)
	return task, nil
}

// UpdateTask replaces every mutable field of the task with patch.
func (s *TaskService) UpdateTask(ctx context.Context, taskID string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := validateWindow(patch.StartTime, patch.EndTime); err != nil {
		return nil, err
	}
	task, err := s.tasks.Replace(ctx, taskID, patch)
	if err != nil {
		return nil, taskError(err, taskID)
	}
	s.publishTask(ctx, events.EventTaskUpdated, task)
	return task, nil
}

// DeleteTask removes the task.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	if err := s.tasks.DeleteByTaskID(ctx, taskID); err != nil {
		return taskError(err, taskID)
	}
	s.logger.Info("task deleted", zap.String("task_id", taskID))
	s.events.publish(ctx, events.Event{Type: events.EventTaskDeleted, SubjectID: taskID})
	return nil
}

// MarkDone closes the task. Closing a closed task is a no-op success.
func (s *TaskService) MarkDone(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.tasks.MarkDone(ctx, taskID)
	if err != nil {
		return nil, taskError(err, taskID)
	}
	s.publishTask(ctx, events.EventTaskCompleted, task)
	return task, nil
}

// SubmitQuestionnaire records the assignee's answers and closes the task.
func (s *TaskService) SubmitQuestionnaire(ctx context.Context, taskID string, answers domain.Questionnaire) (*domain.Task, error) {
	task, err := s.tasks.Complete(ctx, taskID, answers)
	if err != nil {
		return nil, taskError(err, taskID)
	}

	status := task.Status()
	s.logger.Info("questionnaire submitted",
		zap.String("task_id", taskID),
		zap.String("status", string(status)))
	s.publishTask(ctx, events.EventTaskCompleted, task)
	if status == domain.TaskStatusCritical {
		s.publishTask(ctx, events.EventTaskCritical, task)
	}
	return task, nil
}

// AttachImage uploads a photo for the task and stores its URL.
func (s *TaskService) AttachImage(ctx context.Context, taskID string, image TaskImageInput) (*domain.Task, error) {
	if len(image.Data) == 0 {
		return nil, apperrors.NewValidationError("image is empty", nil)
	}
	if !strings.HasPrefix(image.ContentType, "image/") {
		return nil, apperrors.NewValidationError("only image uploads are accepted", map[string]any{"content_type": image.ContentType})
	}
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}

	key := "tasks/" + taskID + "/" + uuid.NewString() + strings.ToLower(path.Ext(image.FileName))
	url, err := s.uploader.Upload(ctx, key, image.Data, image.ContentType)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	task, err := s.tasks.SetImageURL(ctx, taskID, url)
	if err != nil {
		return nil, taskError(err, taskID)
	}
	return task, nil
}

func (s *TaskService) publishTask(ctx context.Context, eventType events.EventType, task *domain.Task) {
	s.events.publish(ctx, events.Event{
		Type:      eventType,
		SubjectID: task.TaskID,
		Timestamp: s.now().UTC(),
		Payload:   events.NewTaskPayload(task),
	})
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperrors.NewValidationError("start_time and end_time required", nil)
	}
	if end.Before(start) {
		return apperrors.NewValidationError("end_time must not be before start_time", map[string]any{
			"start_time": start,
			"end_time":   end,
		})
	}
	return nil
}

func taskError(err error, taskID string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
	}
	return apperrors.MapError(err)
}
