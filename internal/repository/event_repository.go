package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

// EventRepository manages persistence for atomic schedulable events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ListBySession returns a session's events in expansion order.
func (r *EventRepository) ListBySession(ctx context.Context, sessionID string) ([]models.Event, error) {
	const query = `SELECT id, session_id, offering_id, lecturer_id, event_index, duration_slots, room_type_required, created_at
        FROM events WHERE session_id = $1 ORDER BY offering_id, event_index, id`
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, query, sessionID); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// FindByID fetches an event by ID.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	const query = `SELECT id, session_id, offering_id, lecturer_id, event_index, duration_slots, room_type_required, created_at
        FROM events WHERE id = $1`
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// DeleteBySession removes every event in a session ahead of re-expansion.
func (r *EventRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	const query = `DELETE FROM events WHERE session_id = $1`
	if _, err := r.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	return nil
}

// CreateBatch inserts events in one transaction and returns them with IDs set.
func (r *EventRepository) CreateBatch(ctx context.Context, events []models.Event) ([]models.Event, error) {
	if len(events) == 0 {
		return events, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.NewString()
		}
		if events[i].CreatedAt.IsZero() {
			events[i].CreatedAt = time.Now().UTC()
		}
		const query = `INSERT INTO events (id, session_id, offering_id, lecturer_id, event_index, duration_slots, room_type_required, created_at)
            VALUES (:id, :session_id, :offering_id, :lecturer_id, :event_index, :duration_slots, :room_type_required, :created_at)`
		if _, err := tx.NamedExecContext(ctx, query, events[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return nil, fmt.Errorf("insert event: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit events: %w", err)
	}
	return events, nil
}
