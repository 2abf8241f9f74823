package dto

import "time"

// CreateRoomRequest payload.
type CreateRoomRequest struct {
	RoomID    string `json:"roomId"`
	RoomName  string `json:"roomName"`
	RoomFloor string `json:"roomFloor"`
	TeamID    string `json:"teamId"`
}

// RoomResponse mirrors a stored room.
type RoomResponse struct {
	RoomID    string    `json:"roomId"`
	RoomName  string    `json:"roomName"`
	RoomFloor string    `json:"roomFloor"`
	TeamID    string    `json:"teamId"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedbackRequest is a visitor's rating.
type FeedbackRequest struct {
	Rating      int    `json:"rating"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// FeedbackResponse mirrors stored feedback.
type FeedbackResponse struct {
	FeedbackID     string    `json:"feedbackId"`
	RoomID         string    `json:"roomId"`
	Rating         int       `json:"rating"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	SubmissionTime time.Time `json:"submissionTime"`
}
