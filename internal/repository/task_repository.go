package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/facility-service/internal/domain"
)

// TaskRepository encapsulates task persistence. Every mutation is a single
// statement keyed by task_id, so a lookup can never be paired with a write
// against a different row.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	List(ctx context.Context) ([]domain.Task, error)
	GetByTaskID(ctx context.Context, taskID string) (*domain.Task, error)
	Replace(ctx context.Context, taskID string, patch domain.TaskPatch) (*domain.Task, error)
	MarkDone(ctx context.Context, taskID string) (*domain.Task, error)
	Complete(ctx context.Context, taskID string, answers domain.Questionnaire) (*domain.Task, error)
	SetImageURL(ctx context.Context, taskID, url string) (*domain.Task, error)
	DeleteByTaskID(ctx context.Context, taskID string) error
}

type taskRepository struct {
	db DB
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(db DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, task_id, manager_id, employee_id, title, description, start_time, end_time, image_url,
               questionnaire_one, questionnaire_two, questionnaire_three, questionnaire_four, questionnaire_five,
               done, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (task_id, manager_id, employee_id, title, description, start_time, end_time, image_url,
            questionnaire_one, questionnaire_two, questionnaire_three, questionnaire_four, questionnaire_five, done)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	q := task.Questionnaire
	return r.db.QueryRow(ctx, query,
		task.TaskID,
		task.ManagerID,
		task.EmployeeID,
		task.Title,
		task.Description,
		task.StartTime,
		task.EndTime,
		task.ImageURL,
		q.Condition,
		q.IssueNotes,
		q.SafetyConcern,
		q.Cleanliness,
		q.Satisfaction,
		task.Done,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY start_time, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *task)
	}
	return result, rows.Err()
}

func (r *taskRepository) GetByTaskID(ctx context.Context, taskID string) (*domain.Task, error) {
	return scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE task_id=$1`, taskID))
}

func (r *taskRepository) Replace(ctx context.Context, taskID string, patch domain.TaskPatch) (*domain.Task, error) {
	const query = `
        UPDATE tasks SET manager_id=$1, employee_id=$2, title=$3, description=$4, start_time=$5, end_time=$6,
            image_url=$7, questionnaire_one=$8, questionnaire_two=$9, questionnaire_three=$10,
            questionnaire_four=$11, questionnaire_five=$12, done=$13, updated_at=NOW()
        WHERE task_id=$14
        RETURNING ` + taskColumns
	q := patch.Questionnaire
	return scanTask(r.db.QueryRow(ctx, query,
		patch.ManagerID,
		patch.EmployeeID,
		patch.Title,
		patch.Description,
		patch.StartTime,
		patch.EndTime,
		patch.ImageURL,
		q.Condition,
		q.IssueNotes,
		q.SafetyConcern,
		q.Cleanliness,
		q.Satisfaction,
		patch.Done,
		taskID,
	))
}

func (r *taskRepository) MarkDone(ctx context.Context, taskID string) (*domain.Task, error) {
	const query = `UPDATE tasks SET done=TRUE, updated_at=NOW() WHERE task_id=$1 RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, taskID))
}

func (r *taskRepository) Complete(ctx context.Context, taskID string, answers domain.Questionnaire) (*domain.Task, error) {
	const query = `
        UPDATE tasks SET questionnaire_one=$1, questionnaire_two=$2, questionnaire_three=$3,
            questionnaire_four=$4, questionnaire_five=$5, done=TRUE, updated_at=NOW()
        WHERE task_id=$6
        RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query,
		answers.Condition,
		answers.IssueNotes,
		answers.SafetyConcern,
		answers.Cleanliness,
		answers.Satisfaction,
		taskID,
	))
}

func (r *taskRepository) SetImageURL(ctx context.Context, taskID, url string) (*domain.Task, error) {
	const query = `UPDATE tasks SET image_url=$1, updated_at=NOW() WHERE task_id=$2 RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, url, taskID))
}

func (r *taskRepository) DeleteByTaskID(ctx context.Context, taskID string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE task_id=$1`, taskID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	q := &task.Questionnaire
	if err := row.Scan(
		&task.ID,
		&task.TaskID,
		&task.ManagerID,
		&task.EmployeeID,
		&task.Title,
		&task.Description,
		&task.StartTime,
		&task.EndTime,
		&task.ImageURL,
		&q.Condition,
		&q.IssueNotes,
		&q.SafetyConcern,
		&q.Cleanliness,
		&q.Satisfaction,
		&task.Done,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}
