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

// BlockedTimeRepository manages persistence for blocked time entries.
type BlockedTimeRepository struct {
	db *sqlx.DB
}

// NewBlockedTimeRepository constructs a BlockedTimeRepository.
func NewBlockedTimeRepository(db *sqlx.DB) *BlockedTimeRepository {
	return &BlockedTimeRepository{db: db}
}

// ListBySession returns a session's blocked times.
func (r *BlockedTimeRepository) ListBySession(ctx context.Context, sessionID string) ([]models.BlockedTime, error) {
	const query = `SELECT id, session_id, scope, scope_id, day, timeslot_id, reason, created_at
        FROM blocked_times WHERE session_id = $1 ORDER BY day, timeslot_id, id`
	blocked := []models.BlockedTime{}
	if err := r.db.SelectContext(ctx, &blocked, query, sessionID); err != nil {
		return nil, fmt.Errorf("list blocked times: %w", err)
	}
	return blocked, nil
}

// Create inserts a blocked time entry.
func (r *BlockedTimeRepository) Create(ctx context.Context, blocked *models.BlockedTime) error {
	if blocked.ID == "" {
		blocked.ID = uuid.NewString()
	}
	if blocked.CreatedAt.IsZero() {
		blocked.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO blocked_times (id, session_id, scope, scope_id, day, timeslot_id, reason, created_at)
        VALUES (:id, :session_id, :scope, :scope_id, :day, :timeslot_id, :reason, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, blocked); err != nil {
		return fmt.Errorf("create blocked time: %w", err)
	}
	return nil
}

// Delete removes a blocked time entry.
func (r *BlockedTimeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM blocked_times WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete blocked time: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
