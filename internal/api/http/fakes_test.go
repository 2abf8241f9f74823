package http

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/repository"
)

var errUnique = &pgconn.PgError{Code: "23505"}

type memStore struct {
	mu        sync.Mutex
	users     []domain.User
	teams     map[string]domain.Team
	rooms     map[string]domain.Room
	feedbacks []domain.Feedback
	tasks     map[string]domain.Task
}

func newMemStore() *memStore {
	return &memStore{
		teams: map[string]domain.Team{},
		rooms: map[string]domain.Room{},
		tasks: map[string]domain.Task{},
	}
}

type memUsers struct{ *memStore }

func (s memUsers) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.PhoneNumber == user.PhoneNumber {
			return errUnique
		}
	}
	user.ID = uuid.NewString()
	s.users = append(s.users, *user)
	return nil
}

func (s memUsers) find(match func(domain.User) bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.ID == id })
}

func (s memUsers) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.PhoneNumber == phone })
}

func (s memUsers) List(context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.users), nil
}

type memTeams struct{ *memStore }

func (s memTeams) get(match func(domain.Team) bool) (*domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.teams {
		if match(t) {
			t.EmployeeIDs = slices.Clone(t.EmployeeIDs)
			return &t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s memTeams) Create(_ context.Context, team *domain.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[team.ManagerID]; ok {
		return errUnique
	}
	team.ID = uuid.NewString()
	team.Version = 1
	stored := *team
	stored.EmployeeIDs = slices.Clone(team.EmployeeIDs)
	s.teams[team.ManagerID] = stored
	return nil
}

func (s memTeams) List(context.Context) ([]domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Team
	for _, t := range s.teams {
		out = append(out, t)
	}
	return out, nil
}

func (s memTeams) GetByManager(_ context.Context, managerID string) (*domain.Team, error) {
	return s.get(func(t domain.Team) bool { return t.ManagerID == managerID })
}

func (s memTeams) GetByJoinCode(_ context.Context, code string) (*domain.Team, error) {
	return s.get(func(t domain.Team) bool { return t.JoinCode == code })
}

func (s memTeams) GetByEmployee(_ context.Context, employeeID string) (*domain.Team, error) {
	return s.get(func(t domain.Team) bool { return slices.Contains(t.EmployeeIDs, employeeID) })
}

func (s memTeams) UpdateRoster(_ context.Context, team *domain.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.teams[team.ManagerID]
	if !ok || stored.Version != team.Version {
		return repository.ErrVersionConflict
	}
	team.Version++
	stored.Version = team.Version
	stored.EmployeeIDs = slices.Clone(team.EmployeeIDs)
	s.teams[team.ManagerID] = stored
	return nil
}

type memRooms struct{ *memStore }

func (s memRooms) Create(_ context.Context, room *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.RoomID]; ok {
		return errUnique
	}
	s.rooms[room.RoomID] = *room
	return nil
}

func (s memRooms) List(context.Context) ([]domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Room
	for _, r := range s.rooms {
		out = append(out, r)
	}
	return out, nil
}

func (s memRooms) ListByTeam(ctx context.Context, teamID string) ([]domain.Room, error) {
	all, _ := s.List(ctx)
	return slices.DeleteFunc(all, func(r domain.Room) bool { return r.TeamID != teamID }), nil
}

func (s memRooms) GetByRoomID(_ context.Context, roomID string) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &r, nil
}

func (s memRooms) DeleteByRoomID(_ context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.rooms, roomID)
	return nil
}

type memFeedback struct{ *memStore }

func (s memFeedback) Create(_ context.Context, fb *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedbacks = append(s.feedbacks, *fb)
	return nil
}

func (s memFeedback) ListByRoom(_ context.Context, roomID string) ([]domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.DeleteFunc(slices.Clone(s.feedbacks), func(fb domain.Feedback) bool { return fb.RoomID != roomID }), nil
}

type memTasks struct{ *memStore }

func (s memTasks) Create(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.TaskID]; ok {
		return errUnique
	}
	s.tasks[task.TaskID] = *task
	return nil
}

func (s memTasks) List(context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Task
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (s memTasks) GetByTaskID(_ context.Context, taskID string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (s memTasks) mutate(taskID string, fn func(*domain.Task)) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	fn(&t)
	s.tasks[taskID] = t
	return &t, nil
}

func (s memTasks) Replace(_ context.Context, taskID string, patch domain.TaskPatch) (*domain.Task, error) {
	return s.mutate(taskID, func(t *domain.Task) { t.Apply(patch) })
}

func (s memTasks) MarkDone(_ context.Context, taskID string) (*domain.Task, error) {
	return s.mutate(taskID, func(t *domain.Task) { t.Done = true })
}

func (s memTasks) Complete(_ context.Context, taskID string, answers domain.Questionnaire) (*domain.Task, error) {
	return s.mutate(taskID, func(t *domain.Task) {
		t.Questionnaire = answers
		t.Done = true
	})
}

func (s memTasks) SetImageURL(_ context.Context, taskID, url string) (*domain.Task, error) {
	return s.mutate(taskID, func(t *domain.Task) { t.ImageURL = url })
}

func (s memTasks) DeleteByTaskID(_ context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[taskID]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.tasks, taskID)
	return nil
}

type okPinger struct{ err error }

func (p okPinger) Ping(context.Context) error { return p.err }

type memUploader struct{}

func (memUploader) Upload(_ context.Context, key string, _ []byte, _ string) (string, error) {
	return "https://cdn.test/" + key, nil
}
