package domain

import "time"

// Feedback rating bounds.
const (
	MinFeedbackRating = 1
	MaxFeedbackRating = 5
)

// Feedback is a visitor's rating of a room.
type Feedback struct {
	ID          string
	FeedbackID  string
	RoomID      string
	Rating      int
	Category    string
	Description string
	SubmittedAt time.Time
}
