package service

import (
	"context"
	"sort"
	"strings"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/report"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// ReportService builds manager reports over completed tasks.
type ReportService struct {
	tasks repository.TaskRepository
	users repository.UserRepository
}

// NewReportService constructs the service.
func NewReportService(tasks repository.TaskRepository, users repository.UserRepository) *ReportService {
	return &ReportService{tasks: tasks, users: users}
}

// CompletedTasks returns managerID's closed tasks, latest end time first.
func (s *ReportService) CompletedTasks(ctx context.Context, managerID string) ([]domain.Task, error) {
	all, err := s.tasks.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	var done []domain.Task
	for _, task := range all {
		if task.Done && task.ManagerID == managerID {
			done = append(done, task)
		}
	}
	sort.SliceStable(done, func(i, j int) bool {
		return done[i].EndTime.After(done[j].EndTime)
	})
	return done, nil
}

// ExportTaskReport renders CompletedTasks as an .xlsx workbook.
func (s *ReportService) ExportTaskReport(ctx context.Context, managerID string) ([]byte, error) {
	tasks, err := s.CompletedTasks(ctx, managerID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = strings.TrimSpace(u.Name + " " + u.Surname)
	}

	data, err := report.BuildTaskReport(tasks, names)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return data, nil
}
