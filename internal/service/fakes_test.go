package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/repository"
)

var errUnique = &pgconn.PgError{Code: "23505"}

type fakeTaskRepo struct {
	mu     sync.Mutex
	tasks  map[string]domain.Task
	writes int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]domain.Task{}}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.TaskID]; ok {
		return errUnique
	}
	task.ID = uuid.NewString()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	r.tasks[task.TaskID] = *task
	r.writes++
	return nil
}

func (r *fakeTaskRepo) List(context.Context) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTaskRepo) GetByTaskID(_ context.Context, taskID string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[taskID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (r *fakeTaskRepo) mutate(taskID string, fn func(*domain.Task)) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[taskID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	fn(&t)
	t.UpdatedAt = time.Now()
	r.tasks[taskID] = t
	r.writes++
	return &t, nil
}

func (r *fakeTaskRepo) Replace(_ context.Context, taskID string, patch domain.TaskPatch) (*domain.Task, error) {
	return r.mutate(taskID, func(t *domain.Task) { t.Apply(patch) })
}

func (r *fakeTaskRepo) MarkDone(_ context.Context, taskID string) (*domain.Task, error) {
	return r.mutate(taskID, func(t *domain.Task) { t.Done = true })
}

func (r *fakeTaskRepo) Complete(_ context.Context, taskID string, answers domain.Questionnaire) (*domain.Task, error) {
	return r.mutate(taskID, func(t *domain.Task) {
		t.Questionnaire = answers
		t.Done = true
	})
}

func (r *fakeTaskRepo) SetImageURL(_ context.Context, taskID, url string) (*domain.Task, error) {
	return r.mutate(taskID, func(t *domain.Task) { t.ImageURL = url })
}

func (r *fakeTaskRepo) DeleteByTaskID(_ context.Context, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[taskID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tasks, taskID)
	r.writes++
	return nil
}

type fakeTeamRepo struct {
	mu      sync.Mutex
	teams   map[string]domain.Team // by manager
	updates int
}

func newFakeTeamRepo(teams ...domain.Team) *fakeTeamRepo {
	r := &fakeTeamRepo{teams: map[string]domain.Team{}}
	for _, t := range teams {
		if t.Version == 0 {
			t.Version = 1
		}
		r.teams[t.ManagerID] = t
	}
	return r
}

func cloneTeam(t domain.Team) *domain.Team {
	t.EmployeeIDs = slices.Clone(t.EmployeeIDs)
	return &t
}

func (r *fakeTeamRepo) Create(_ context.Context, team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[team.ManagerID]; ok {
		return errUnique
	}
	team.ID = uuid.NewString()
	team.Version = 1
	r.teams[team.ManagerID] = *cloneTeam(*team)
	return nil
}

func (r *fakeTeamRepo) List(context.Context) ([]domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Team
	for _, t := range r.teams {
		out = append(out, *cloneTeam(t))
	}
	return out, nil
}

func (r *fakeTeamRepo) GetByManager(_ context.Context, managerID string) (*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[managerID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneTeam(t), nil
}

func (r *fakeTeamRepo) GetByJoinCode(_ context.Context, code string) (*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.JoinCode == code {
			return cloneTeam(t), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTeamRepo) GetByEmployee(_ context.Context, employeeID string) (*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if slices.Contains(t.EmployeeIDs, employeeID) {
			return cloneTeam(t), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTeamRepo) UpdateRoster(_ context.Context, team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.teams[team.ManagerID]
	if !ok || stored.Version != team.Version {
		return repository.ErrVersionConflict
	}
	team.Version++
	stored.EmployeeIDs = slices.Clone(team.EmployeeIDs)
	stored.Version = team.Version
	r.teams[team.ManagerID] = stored
	r.updates++
	return nil
}

func (r *fakeTeamRepo) roster(managerID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.teams[managerID].EmployeeIDs)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users []domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.PhoneNumber == user.PhoneNumber {
			return errUnique
		}
	}
	user.ID = uuid.NewString()
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.PhoneNumber == phone })
}

func (r *fakeUserRepo) List(context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.users), nil
}

type fakeRoomRepo struct {
	rooms map[string]domain.Room
}

func newFakeRoomRepo(rooms ...domain.Room) *fakeRoomRepo {
	r := &fakeRoomRepo{rooms: map[string]domain.Room{}}
	for _, room := range rooms {
		r.rooms[room.RoomID] = room
	}
	return r
}

func (r *fakeRoomRepo) Create(_ context.Context, room *domain.Room) error {
	if _, ok := r.rooms[room.RoomID]; ok {
		return errUnique
	}
	room.ID = uuid.NewString()
	r.rooms[room.RoomID] = *room
	return nil
}

func (r *fakeRoomRepo) List(context.Context) ([]domain.Room, error) {
	var out []domain.Room
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out, nil
}

func (r *fakeRoomRepo) ListByTeam(_ context.Context, teamID string) ([]domain.Room, error) {
	var out []domain.Room
	for _, room := range r.rooms {
		if room.TeamID == teamID {
			out = append(out, room)
		}
	}
	return out, nil
}

func (r *fakeRoomRepo) GetByRoomID(_ context.Context, roomID string) (*domain.Room, error) {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &room, nil
}

func (r *fakeRoomRepo) DeleteByRoomID(_ context.Context, roomID string) error {
	if _, ok := r.rooms[roomID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.rooms, roomID)
	return nil
}

type fakeFeedbackRepo struct {
	items []domain.Feedback
}

func (r *fakeFeedbackRepo) Create(_ context.Context, fb *domain.Feedback) error {
	fb.ID = uuid.NewString()
	r.items = append(r.items, *fb)
	return nil
}

func (r *fakeFeedbackRepo) ListByRoom(_ context.Context, roomID string) ([]domain.Feedback, error) {
	var out []domain.Feedback
	for _, fb := range r.items {
		if fb.RoomID == roomID {
			out = append(out, fb)
		}
	}
	return out, nil
}

type fakeUploader struct {
	key         string
	contentType string
	data        []byte
}

func (u *fakeUploader) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	u.key, u.data, u.contentType = key, data, contentType
	return "https://bucket.example/" + key, nil
}

type recordedEvents struct {
	mu    sync.Mutex
	types []events.EventType
}

func recordAll(d events.Dispatcher, types ...events.EventType) *recordedEvents {
	rec := &recordedEvents{}
	for _, et := range types {
		d.Subscribe(et, func(_ context.Context, e events.Event) error {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			rec.types = append(rec.types, e.Type)
			return nil
		})
	}
	return rec
}

func (r *recordedEvents) list() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.types)
}
