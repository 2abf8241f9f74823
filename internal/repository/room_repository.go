package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/facility-service/internal/domain"
)

// RoomRepository manages persistence for rooms.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	List(ctx context.Context) ([]domain.Room, error)
	ListByTeam(ctx context.Context, teamID string) ([]domain.Room, error)
	GetByRoomID(ctx context.Context, roomID string) (*domain.Room, error)
	DeleteByRoomID(ctx context.Context, roomID string) error
}

type roomRepository struct {
	db DB
}

// NewRoomRepository constructs repository.
func NewRoomRepository(db DB) RoomRepository {
	return &roomRepository{db: db}
}

const roomColumns = `id, room_id, room_name, room_floor, team_id, created_at`

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	const query = `
        INSERT INTO rooms (room_id, room_name, room_floor, team_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		room.RoomID,
		room.Name,
		room.Floor,
		room.TeamID,
	).Scan(&room.ID, &room.CreatedAt)
}

func (r *roomRepository) List(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY room_floor, room_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRooms(rows)
}

func (r *roomRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx, `SELECT `+roomColumns+` FROM rooms WHERE team_id=$1 ORDER BY room_floor, room_name`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRooms(rows)
}

func (r *roomRepository) GetByRoomID(ctx context.Context, roomID string) (*domain.Room, error) {
	return scanRoom(r.db.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE room_id=$1`, roomID))
}

func (r *roomRepository) DeleteByRoomID(ctx context.Context, roomID string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE room_id=$1`, roomID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanRooms(rows pgx.Rows) ([]domain.Room, error) {
	var result []domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *room)
	}
	return result, rows.Err()
}

func scanRoom(row rowScanner) (*domain.Room, error) {
	var room domain.Room
	if err := row.Scan(&room.ID, &room.RoomID, &room.Name, &room.Floor, &room.TeamID, &room.CreatedAt); err != nil {
		return nil, err
	}
	return &room, nil
}
