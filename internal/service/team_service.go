package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/lock"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// TeamService manages team rosters.
type TeamService struct {
	teams  repository.TeamRepository
	locker lock.Locker
	events publisher
	logger *zap.Logger
}

// TeamDependencies bundles collaborators for the roster service.
type TeamDependencies struct {
	TeamRepo   repository.TeamRepository
	Locker     lock.Locker
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TeamCreateInput describes a new team.
type TeamCreateInput struct {
	Name        string
	ManagerID   string
	EmployeeIDs []string
}

// NewTeamService constructs the service.
func NewTeamService(deps TeamDependencies) *TeamService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	locker := deps.Locker
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	return &TeamService{
		teams:  deps.TeamRepo,
		locker: locker,
		events: publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger: logger,
	}
}

// AllTeams returns every team.
func (s *TeamService) AllTeams(ctx context.Context) ([]domain.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// CreateTeam registers a team for a manager who does not have one yet.
func (s *TeamService) CreateTeam(ctx context.Context, input TeamCreateInput) (*domain.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.ManagerID == "" {
		return nil, apperrors.NewValidationError("team_name and manager_id required", nil)
	}

	var created *domain.Team
	err := s.withTeamLock(ctx, input.ManagerID, func() error {
		if _, err := s.teams.GetByManager(ctx, input.ManagerID); err == nil {
			return apperrors.NewConflict("manager already has a team", map[string]any{"manager_id": input.ManagerID})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return apperrors.MapError(err)
		}

		team := &domain.Team{
			Name:        name,
			ManagerID:   input.ManagerID,
			JoinCode:    generateJoinCode(),
			EmployeeIDs: []string{},
		}
		for _, employeeID := range input.EmployeeIDs {
			if employeeID == "" || team.HasEmployee(employeeID) {
				continue
			}
			if err := s.ensureUnassigned(ctx, employeeID, ""); err != nil {
				return err
			}
			team.AddEmployee(employeeID)
		}

		if err := s.teams.Create(ctx, team); err != nil {
			if apperrors.IsUniqueViolation(err) {
				return apperrors.NewConflict("team already exists", map[string]any{"manager_id": input.ManagerID})
			}
			return apperrors.MapError(err)
		}
		created = team
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team created",
		zap.String("team_id", created.ID),
		zap.String("manager_id", created.ManagerID),
		zap.Int("employees", len(created.EmployeeIDs)))
	return created, nil
}

// GetTeamByManager returns the team led by managerID.
func (s *TeamService) GetTeamByManager(ctx context.Context, managerID string) (*domain.Team, error) {
	team, err := s.teams.GetByManager(ctx, managerID)
	if err != nil {
		return nil, teamError(err, "manager_id", managerID)
	}
	return team, nil
}

// GetTeamByCode returns the team whose join code equals code, ignoring case.
func (s *TeamService) GetTeamByCode(ctx context.Context, code string) (*domain.Team, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.NewValidationError("team code required", nil)
	}
	team, err := s.teams.GetByJoinCode(ctx, code)
	if err != nil {
		return nil, teamError(err, "team_code", code)
	}
	return team, nil
}

// GetTeamByEmployee returns the team whose roster contains employeeID.
func (s *TeamService) GetTeamByEmployee(ctx context.Context, employeeID string) (*domain.Team, error) {
	team, err := s.teams.GetByEmployee(ctx, employeeID)
	if err != nil {
		return nil, teamError(err, "employee_id", employeeID)
	}
	return team, nil
}

// AddEmployee puts employeeID on team's roster. Adding a current member
// returns the team unchanged.
func (s *TeamService) AddEmployee(ctx context.Context, team *domain.Team, employeeID string) (*domain.Team, error) {
	if team == nil || team.ManagerID == "" {
		return nil, apperrors.NewValidationError("team required", nil)
	}
	if strings.TrimSpace(employeeID) == "" {
		return nil, apperrors.NewValidationError("employee_id required", nil)
	}

	var result *domain.Team
	err := s.withTeamLock(ctx, team.ManagerID, func() error {
		current, err := s.teams.GetByManager(ctx, team.ManagerID)
		if err != nil {
			return teamError(err, "manager_id", team.ManagerID)
		}
		if current.HasEmployee(employeeID) {
			result = current
			return nil
		}
		if err := s.ensureUnassigned(ctx, employeeID, current.ID); err != nil {
			return err
		}

		current.AddEmployee(employeeID)
		if err := s.teams.UpdateRoster(ctx, current); err != nil {
			return rosterWriteError(err, current)
		}
		result = current
		s.publishRoster(ctx, current, employeeID, "added")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddEmployeeToManagerTeam resolves the manager's team and adds employeeID.
func (s *TeamService) AddEmployeeToManagerTeam(ctx context.Context, managerID, employeeID string) (*domain.Team, error) {
	team, err := s.GetTeamByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return s.AddEmployee(ctx, team, employeeID)
}

// JoinTeam adds employeeID to the team identified by its join code.
func (s *TeamService) JoinTeam(ctx context.Context, code, employeeID string) (*domain.Team, error) {
	team, err := s.GetTeamByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.AddEmployee(ctx, team, employeeID)
}

// RemoveEmployee drops employeeID from the roster of managerID's team.
func (s *TeamService) RemoveEmployee(ctx context.Context, managerID, employeeID string) (*domain.Team, error) {
	var result *domain.Team
	err := s.withTeamLock(ctx, managerID, func() error {
		team, err := s.teams.GetByManager(ctx, managerID)
		if err != nil {
			return teamError(err, "manager_id", managerID)
		}
		if !team.RemoveEmployee(employeeID) {
			return apperrors.NewNotFound("team member", map[string]any{
				"manager_id":  managerID,
				"employee_id": employeeID,
			})
		}
		if err := s.teams.UpdateRoster(ctx, team); err != nil {
			return rosterWriteError(err, team)
		}
		result = team
		s.publishRoster(ctx, team, employeeID, "removed")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *TeamService) ensureUnassigned(ctx context.Context, employeeID, teamID string) error {
	other, err := s.teams.GetByEmployee(ctx, employeeID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil
	case err != nil:
		return apperrors.MapError(err)
	case other.ID == teamID:
		return nil
	default:
		return apperrors.NewConflict("employee already belongs to another team", map[string]any{
			"employee_id": employeeID,
			"team_id":     other.ID,
		})
	}
}

func (s *TeamService) withTeamLock(ctx context.Context, managerID string, fn func() error) error {
	unlock, err := s.locker.Lock(ctx, lock.TeamKey(managerID))
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return apperrors.NewConflict("team is being modified, retry", map[string]any{"manager_id": managerID})
		}
		return apperrors.NewInternalError(err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("release team lock", zap.String("manager_id", managerID), zap.Error(err))
		}
	}()
	return fn()
}

func (s *TeamService) publishRoster(ctx context.Context, team *domain.Team, employeeID, action string) {
	s.logger.Info("roster changed",
		zap.String("team_id", team.ID),
		zap.String("employee_id", employeeID),
		zap.String("action", action),
		zap.Int64("version", team.Version))
	s.events.publish(ctx, events.Event{
		Type:      events.EventRosterChanged,
		SubjectID: team.ID,
		Payload: events.RosterChangedPayload{
			ManagerID:  team.ManagerID,
			EmployeeID: employeeID,
			Action:     action,
		},
	})
}

func generateJoinCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func teamError(err error, field, value string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("team", map[string]any{field: value})
	}
	return apperrors.MapError(err)
}

func rosterWriteError(err error, team *domain.Team) error {
	if errors.Is(err, repository.ErrVersionConflict) {
		return apperrors.NewConflict("team roster changed concurrently, retry", map[string]any{"team_id": team.ID})
	}
	return apperrors.MapError(err)
}
