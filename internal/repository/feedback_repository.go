package repository

import (
	"context"

	"github.com/spec-kit/facility-service/internal/domain"
)

// FeedbackRepository stores room feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	ListByRoom(ctx context.Context, roomID string) ([]domain.Feedback, error)
}

type feedbackRepository struct {
	db DB
}

// NewFeedbackRepository constructs repository.
func NewFeedbackRepository(db DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
        INSERT INTO feedbacks (feedback_id, room_id, rating, category, description, submitted_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		feedback.FeedbackID,
		feedback.RoomID,
		feedback.Rating,
		feedback.Category,
		feedback.Description,
		feedback.SubmittedAt,
	).Scan(&feedback.ID)
}

func (r *feedbackRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Feedback, error) {
	const query = `
        SELECT id, feedback_id, room_id, rating, category, description, submitted_at
        FROM feedbacks WHERE room_id=$1 ORDER BY submitted_at DESC`
	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(&fb.ID, &fb.FeedbackID, &fb.RoomID, &fb.Rating, &fb.Category, &fb.Description, &fb.SubmittedAt); err != nil {
			return nil, err
		}
		result = append(result, fb)
	}
	return result, rows.Err()
}
