package events

import (
	"time"

	"github.com/spec-kit/facility-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskCreated   EventType = "task_created"
	EventTaskUpdated   EventType = "task_updated"
	EventTaskCompleted EventType = "task_completed"
	EventTaskCritical  EventType = "task_critical"
	EventTaskDeleted   EventType = "task_deleted"
	EventRosterChanged EventType = "roster_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// TaskPayload summarizes a task for listeners.
type TaskPayload struct {
	ManagerID  string            `json:"manager_id"`
	EmployeeID string            `json:"employee_id"`
	Title      string            `json:"title"`
	Done       bool              `json:"done"`
	Status     domain.TaskStatus `json:"status"`
}

// RosterChangedPayload describes a membership change.
type RosterChangedPayload struct {
	ManagerID  string `json:"manager_id"`
	EmployeeID string `json:"employee_id"`
	Action     string `json:"action"`
}

// NewTaskPayload builds a payload from the task's current state.
func NewTaskPayload(task *domain.Task) TaskPayload {
	return TaskPayload{
		ManagerID:  task.ManagerID,
		EmployeeID: task.EmployeeID,
		Title:      task.Title,
		Done:       task.Done,
		Status:     task.Status(),
	}
}
