package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

// RoomRepository manages persistence for venues.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListBySession returns a session's rooms ordered by name.
func (r *RoomRepository) ListBySession(ctx context.Context, sessionID string) ([]models.Room, error) {
	const query = `SELECT id, session_id, name, room_type, capacity, location, created_at, updated_at
        FROM rooms WHERE session_id = $1 ORDER BY name, id`
	rooms := []models.Room{}
	if err := r.db.SelectContext(ctx, &rooms, query, sessionID); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// Create inserts a new room.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = now
	const query = `INSERT INTO rooms (id, session_id, name, room_type, capacity, location, created_at, updated_at)
        VALUES (:id, :session_id, :name, :room_type, :capacity, :location, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Delete removes a room.
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM rooms WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
