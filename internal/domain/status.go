package domain

import "strings"

// TaskStatus is the label derived from questionnaire answers.
type TaskStatus string

const (
	TaskStatusCritical TaskStatus = "critical"
	TaskStatusUrgent   TaskStatus = "urgent"
	TaskStatusNormal   TaskStatus = "normal"
)

// Expected answers for a task that needs no follow-up.
const (
	AnswerAsExpected    = "As expected"
	AnswerNo            = "No"
	AnswerExcellent     = "Excellent"
	AnswerGood          = "Good"
	AnswerVerySatisfied = "Very Satisfied"
	AnswerSatisfied     = "Satisfied"
)

// EvaluateStatus labels a set of answers. Any safety concern other than "No" is
// critical; only the all-positive pattern is normal; everything else is urgent.
func EvaluateStatus(q Questionnaire) TaskStatus {
	if q.SafetyConcern != "" && !strings.EqualFold(q.SafetyConcern, AnswerNo) {
		return TaskStatusCritical
	}
	if strings.EqualFold(q.Condition, AnswerAsExpected) &&
		strings.TrimSpace(q.IssueNotes) == "" &&
		strings.EqualFold(q.SafetyConcern, AnswerNo) &&
		equalsAny(q.Cleanliness, AnswerExcellent, AnswerGood) &&
		equalsAny(q.Satisfaction, AnswerVerySatisfied, AnswerSatisfied) {
		return TaskStatusNormal
	}
	return TaskStatusUrgent
}

func equalsAny(val string, options ...string) bool {
	for _, opt := range options {
		if strings.EqualFold(val, opt) {
			return true
		}
	}
	return false
}
