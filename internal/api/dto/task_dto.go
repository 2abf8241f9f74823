package dto

import (
	"time"

	"github.com/spec-kit/facility-service/internal/domain"
)

// Questionnaire carries the five answers in their fixed order.
type Questionnaire struct {
	QuestionnaireOne   string `json:"questionnaireOne"`
	QuestionnaireTwo   string `json:"questionnaireTwo"`
	QuestionnaireThree string `json:"questionnaireThree"`
	QuestionnaireFour  string `json:"questionnaireFour"`
	QuestionnaireFive  string `json:"questionnaireFive"`
}

// TaskRequest is used for both create and full-replace updates. On update,
// every field is written, including empty ones.
type TaskRequest struct {
	TaskID      string    `json:"taskId"`
	ManagerID   string    `json:"managerId"`
	EmployeeID  string    `json:"employeeId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	ImageURL    string    `json:"imageUrl"`
	Done        bool      `json:"done"`
	Questionnaire
}

// TaskResponse is a task with its derived status and state.
type TaskResponse struct {
	TaskID      string            `json:"taskId"`
	ManagerID   string            `json:"managerId"`
	EmployeeID  string            `json:"employeeId"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	StartTime   time.Time         `json:"startTime"`
	EndTime     time.Time         `json:"endTime"`
	ImageURL    string            `json:"imageUrl"`
	Done        bool              `json:"done"`
	State       domain.TaskState  `json:"state"`
	Status      domain.TaskStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Questionnaire
}

// TaskStatusResponse is the derived status of one task.
type TaskStatusResponse struct {
	TaskID string            `json:"taskId"`
	Status domain.TaskStatus `json:"status"`
	State  domain.TaskState  `json:"state"`
}

// ToDomain maps wire answers onto the domain questionnaire.
func (q Questionnaire) ToDomain() domain.Questionnaire {
	return domain.Questionnaire{
		Condition:     q.QuestionnaireOne,
		IssueNotes:    q.QuestionnaireTwo,
		SafetyConcern: q.QuestionnaireThree,
		Cleanliness:   q.QuestionnaireFour,
		Satisfaction:  q.QuestionnaireFive,
	}
}

// QuestionnaireFrom maps domain answers onto the wire shape.
func QuestionnaireFrom(q domain.Questionnaire) Questionnaire {
	return Questionnaire{
		QuestionnaireOne:   q.Condition,
		QuestionnaireTwo:   q.IssueNotes,
		QuestionnaireThree: q.SafetyConcern,
		QuestionnaireFour:  q.Cleanliness,
		QuestionnaireFive:  q.Satisfaction,
	}
}
