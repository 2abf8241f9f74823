package handlers

import (
	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/domain"
)

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Surname:     user.Surname,
		PhoneNumber: user.PhoneNumber,
		Manager:     user.IsManager,
		Lang:        user.Lang,
		CreatedAt:   user.CreatedAt,
	}
}

func teamResponse(team *domain.Team) dto.TeamResponse {
	employees := team.EmployeeIDs
	if employees == nil {
		employees = []string{}
	}
	return dto.TeamResponse{
		ID:         team.ID,
		TeamName:   team.Name,
		ManagerID:  team.ManagerID,
		TeamCode:   team.JoinCode,
		EmployeeID: employees,
		Version:    team.Version,
	}
}

func roomResponse(room *domain.Room) dto.RoomResponse {
	return dto.RoomResponse{
		RoomID:    room.RoomID,
		RoomName:  room.Name,
		RoomFloor: room.Floor,
		TeamID:    room.TeamID,
		CreatedAt: room.CreatedAt,
	}
}

func feedbackResponse(fb *domain.Feedback) dto.FeedbackResponse {
	return dto.FeedbackResponse{
		FeedbackID:     fb.FeedbackID,
		RoomID:         fb.RoomID,
		Rating:         fb.Rating,
		Category:       fb.Category,
		Description:    fb.Description,
		SubmissionTime: fb.SubmittedAt,
	}
}

func taskResponse(task *domain.Task) dto.TaskResponse {
	return dto.TaskResponse{
		TaskID:        task.TaskID,
		ManagerID:     task.ManagerID,
		EmployeeID:    task.EmployeeID,
		Title:         task.Title,
		Description:   task.Description,
		StartTime:     task.StartTime,
		EndTime:       task.EndTime,
		ImageURL:      task.ImageURL,
		Done:          task.Done,
		State:         task.State(),
		Status:        task.Status(),
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
		Questionnaire: dto.QuestionnaireFrom(task.Questionnaire),
	}
}

func mapSlice[T any, R any](items []T, fn func(*T) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}
