package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// RoomService manages rooms and the feedback left for them.
type RoomService struct {
	rooms     repository.RoomRepository
	feedbacks repository.FeedbackRepository
	logger    *zap.Logger
	now       func() time.Time
}

// RoomDependencies bundles repositories for the room service.
type RoomDependencies struct {
	RoomRepo     repository.RoomRepository
	FeedbackRepo repository.FeedbackRepository
	Logger       *zap.Logger
}

// RoomCreateInput describes a new room.
type RoomCreateInput struct {
	RoomID string
	Name   string
	Floor  string
	TeamID string
}

// FeedbackInput is a visitor's rating of a room.
type FeedbackInput struct {
	Rating      int
	Category    string
	Description string
}

// NewRoomService constructs the service.
func NewRoomService(deps RoomDependencies) *RoomService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{
		rooms:     deps.RoomRepo,
		feedbacks: deps.FeedbackRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// ListRooms returns every room, or only teamID's rooms when teamID is set.
func (s *RoomService) ListRooms(ctx context.Context, teamID string) ([]domain.Room, error) {
	var (
		rooms []domain.Room
		err   error
	)
	if teamID != "" {
		rooms, err = s.rooms.ListByTeam(ctx, teamID)
	} else {
		rooms, err = s.rooms.List(ctx)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rooms, nil
}

// CreateRoom stores a room under a unique room identifier.
func (s *RoomService) CreateRoom(ctx context.Context, input RoomCreateInput) (*domain.Room, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.TeamID == "" {
		return nil, apperrors.NewValidationError("room_name and team_id required", nil)
	}
	room := &domain.Room{
		RoomID: strings.TrimSpace(input.RoomID),
		Name:   name,
		Floor:  strings.TrimSpace(input.Floor),
		TeamID: input.TeamID,
	}
	if room.RoomID == "" {
		room.RoomID = uuid.NewString()
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("room already exists", map[string]any{"room_id": room.RoomID})
		}
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("room created", zap.String("room_id", room.RoomID), zap.String("team_id", room.TeamID))
	return room, nil
}

// DeleteRoom removes the room.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID string) error {
	if err := s.rooms.DeleteByRoomID(ctx, roomID); err != nil {
		return roomError(err, roomID)
	}
	s.logger.Info("room deleted", zap.String("room_id", roomID))
	return nil
}

// SubmitFeedback records a rating for an existing room.
func (s *RoomService) SubmitFeedback(ctx context.Context, roomID string, input FeedbackInput) (*domain.Feedback, error) {
	if input.Rating < domain.MinFeedbackRating || input.Rating > domain.MaxFeedbackRating {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": input.Rating})
	}
	if _, err := s.rooms.GetByRoomID(ctx, roomID); err != nil {
		return nil, roomError(err, roomID)
	}

	fb := &domain.Feedback{
		FeedbackID:  uuid.NewString(),
		RoomID:      roomID,
		Rating:      input.Rating,
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
		SubmittedAt: s.now().UTC(),
	}
	if err := s.feedbacks.Create(ctx, fb); err != nil {
		return nil, apperrors.MapError(err)
	}
	return fb, nil
}

// ListFeedback returns the room's feedback, newest first.
func (s *RoomService) ListFeedback(ctx context.Context, roomID string) ([]domain.Feedback, error) {
	items, err := s.feedbacks.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

func roomError(err error, roomID string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("room", map[string]any{"room_id": roomID})
	}
	return apperrors.MapError(err)
}
