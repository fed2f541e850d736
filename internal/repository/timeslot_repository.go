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

// TimeSlotRepository manages persistence for the per-session slot template.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository constructs a TimeSlotRepository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// ListBySession returns a session's slots in sort order.
func (r *TimeSlotRepository) ListBySession(ctx context.Context, sessionID string) ([]models.TimeSlot, error) {
	const query = `SELECT id, session_id, label, start_time, end_time, sort_order, created_at
        FROM time_slots WHERE session_id = $1 ORDER BY sort_order, id`
	slots := []models.TimeSlot{}
	if err := r.db.SelectContext(ctx, &slots, query, sessionID); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

// Create inserts a new slot.
func (r *TimeSlotRepository) Create(ctx context.Context, slot *models.TimeSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO time_slots (id, session_id, label, start_time, end_time, sort_order, created_at)
        VALUES (:id, :session_id, :label, :start_time, :end_time, :sort_order, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create time slot: %w", err)
	}
	return nil
}

// Delete removes a slot.
func (r *TimeSlotRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM time_slots WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete time slot: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
