package domain

import "time"

// TaskState is the Open/Closed lifecycle derived from the done flag.
type TaskState string

const (
	TaskStateOpen   TaskState = "OPEN"
	TaskStateClosed TaskState = "CLOSED"
)

// Questionnaire holds the assignee's five completion answers in their fixed order.
type Questionnaire struct {
	Condition     string // 1: was the room as expected
	IssueNotes    string // 2: free-text issues
	SafetyConcern string // 3: yes/no
	Cleanliness   string // 4: rating
	Satisfaction  string // 5: rating
}

// Task is a unit of work a manager assigns to an employee for a room.
type Task struct {
	ID            string
	TaskID        string
	ManagerID     string
	EmployeeID    string
	Title         string
	Description   string
	StartTime     time.Time
	EndTime       time.Time
	ImageURL      string
	Questionnaire Questionnaire
	Done          bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// State maps the done flag onto the task lifecycle.
func (t *Task) State() TaskState {
	if t.Done {
		return TaskStateClosed
	}
	return TaskStateOpen
}

// Status derives the questionnaire label from the task's current answers.
func (t *Task) Status() TaskStatus {
	return EvaluateStatus(t.Questionnaire)
}

// Apply overwrites every mutable field with patch.
func (t *Task) Apply(patch TaskPatch) {
	t.ManagerID = patch.ManagerID
	t.EmployeeID = patch.EmployeeID
	t.Title = patch.Title
	t.Description = patch.Description
	t.StartTime = patch.StartTime
	t.EndTime = patch.EndTime
	t.ImageURL = patch.ImageURL
	t.Questionnaire = patch.Questionnaire
	t.Done = patch.Done
}

// TaskPatch is a full replacement of a task's mutable fields.
type TaskPatch struct {
	ManagerID     string
	EmployeeID    string
	Title         string
	Description   string
	StartTime     time.Time
	EndTime       time.Time
	ImageURL      string
	Questionnaire Questionnaire
	Done          bool
}
