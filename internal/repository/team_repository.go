package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/facility-service/internal/domain"
)

// TeamRepository manages persistence for team rosters.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	List(ctx context.Context) ([]domain.Team, error)
	GetByManager(ctx context.Context, managerID string) (*domain.Team, error)
	GetByJoinCode(ctx context.Context, code string) (*domain.Team, error)
	GetByEmployee(ctx context.Context, employeeID string) (*domain.Team, error)
	UpdateRoster(ctx context.Context, team *domain.Team) error
}

type teamRepository struct {
	db DB
}

// NewTeamRepository constructs repository.
func NewTeamRepository(db DB) TeamRepository {
	return &teamRepository{db: db}
}

const teamColumns = `id, team_name, manager_id, join_code, employee_ids, version, created_at, updated_at`

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	const query = `
        INSERT INTO teams (team_name, manager_id, join_code, employee_ids)
        VALUES ($1,$2,$3,$4)
        RETURNING id, version, created_at, updated_at`
	if team.EmployeeIDs == nil {
		team.EmployeeIDs = []string{}
	}
	return r.db.QueryRow(ctx, query,
		team.Name,
		team.ManagerID,
		team.JoinCode,
		team.EmployeeIDs,
	).Scan(&team.ID, &team.Version, &team.CreatedAt, &team.UpdatedAt)
}

func (r *teamRepository) List(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.db.Query(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *team)
	}
	return result, rows.Err()
}

func (r *teamRepository) GetByManager(ctx context.Context, managerID string) (*domain.Team, error) {
	return scanTeam(r.db.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE manager_id=$1`, managerID))
}

func (r *teamRepository) GetByJoinCode(ctx context.Context, code string) (*domain.Team, error) {
	return scanTeam(r.db.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE UPPER(join_code)=UPPER($1)`, code))
}

func (r *teamRepository) GetByEmployee(ctx context.Context, employeeID string) (*domain.Team, error) {
	const query = `SELECT ` + teamColumns + ` FROM teams WHERE $1 = ANY(employee_ids) ORDER BY created_at LIMIT 1`
	return scanTeam(r.db.QueryRow(ctx, query, employeeID))
}

// UpdateRoster persists team.EmployeeIDs if the stored version still equals
// team.Version, then advances team.Version.
func (r *teamRepository) UpdateRoster(ctx context.Context, team *domain.Team) error {
	const query = `
        UPDATE teams SET employee_ids=$1, version=version+1, updated_at=NOW()
        WHERE id=$2 AND version=$3
        RETURNING version, updated_at`
	err := r.db.QueryRow(ctx, query, team.EmployeeIDs, team.ID, team.Version).
		Scan(&team.Version, &team.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrVersionConflict
	}
	return err
}

func scanTeam(row rowScanner) (*domain.Team, error) {
	var team domain.Team
	if err := row.Scan(
		&team.ID,
		&team.Name,
		&team.ManagerID,
		&team.JoinCode,
		&team.EmployeeIDs,
		&team.Version,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &team, nil
}
