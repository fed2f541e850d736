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

// LockRepository manages persistence for pinned event placements.
type LockRepository struct {
	db *sqlx.DB
}

// NewLockRepository constructs a LockRepository.
func NewLockRepository(db *sqlx.DB) *LockRepository {
	return &LockRepository{db: db}
}

// ListBySession returns a session's locks.
func (r *LockRepository) ListBySession(ctx context.Context, sessionID string) ([]models.Lock, error) {
	const query = `SELECT id, session_id, event_id, day, timeslot_id, second_timeslot_id, room_id, created_by, created_at
        FROM locks WHERE session_id = $1 ORDER BY created_at, id`
	locks := []models.Lock{}
	if err := r.db.SelectContext(ctx, &locks, query, sessionID); err != nil {
		return nil, fmt.Errorf("list locks: %w", err)
	}
	return locks, nil
}

// Create pins an event placement. One lock per event; re-locking replaces the
// previous placement.
func (r *LockRepository) Create(ctx context.Context, lock *models.Lock) error {
	if lock.ID == "" {
		lock.ID = uuid.NewString()
	}
	if lock.CreatedAt.IsZero() {
		lock.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO locks (id, session_id, event_id, day, timeslot_id, second_timeslot_id, room_id, created_by, created_at)
        VALUES (:id, :session_id, :event_id, :day, :timeslot_id, :second_timeslot_id, :room_id, :created_by, :created_at)
        ON CONFLICT (event_id) DO UPDATE SET day = EXCLUDED.day, timeslot_id = EXCLUDED.timeslot_id,
            second_timeslot_id = EXCLUDED.second_timeslot_id, room_id = EXCLUDED.room_id,
            created_by = EXCLUDED.created_by, created_at = EXCLUDED.created_at`
	if _, err := r.db.NamedExecContext(ctx, query, lock); err != nil {
		return fmt.Errorf("create lock: %w", err)
	}
	return nil
}

// Delete removes a lock.
func (r *LockRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM locks WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteOrphans removes locks whose event no longer exists, which happens
// after a re-expansion replaces the event set.
func (r *LockRepository) DeleteOrphans(ctx context.Context, sessionID string) (int64, error) {
	const query = `DELETE FROM locks WHERE session_id = $1
        AND NOT EXISTS (SELECT 1 FROM events WHERE events.id = locks.event_id)`
	result, err := r.db.ExecContext(ctx, query, sessionID)
	if err != nil {
		return 0, fmt.Errorf("delete orphan locks: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count orphan locks: %w", err)
	}
	return affected, nil
}
