package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

// ScheduleRunRepository manages persistence for allocation runs and their
// placement results.
type ScheduleRunRepository struct {
	db *sqlx.DB
}

// NewScheduleRunRepository constructs a ScheduleRunRepository.
func NewScheduleRunRepository(db *sqlx.DB) *ScheduleRunRepository {
	return &ScheduleRunRepository{db: db}
}

// Create inserts a run in its initial state and returns it with the ID and
// creation time set.
func (r *ScheduleRunRepository) Create(ctx context.Context, run models.ScheduleRun) (models.ScheduleRun, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO schedule_runs (id, session_id, seed, candidate_limit, scheduled_count,
        unscheduled_count, soft_score, status, created_at)
        VALUES (:id, :session_id, :seed, :candidate_limit, :scheduled_count,
        :unscheduled_count, :soft_score, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return models.ScheduleRun{}, fmt.Errorf("create run: %w", err)
	}
	return run, nil
}

// SaveResults persists a run's placements and failures in one transaction.
func (r *ScheduleRunRepository) SaveResults(ctx context.Context, runID string, scheduled []models.ScheduledEvent, unscheduled []models.UnscheduledEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range scheduled {
		if scheduled[i].ID == "" {
			scheduled[i].ID = uuid.NewString()
		}
		scheduled[i].RunID = runID
		if scheduled[i].CreatedAt.IsZero() {
			scheduled[i].CreatedAt = now
		}
		const query = `INSERT INTO scheduled_events (id, run_id, event_id, day, timeslot_id, second_timeslot_id, room_id, created_at)
            VALUES (:id, :run_id, :event_id, :day, :timeslot_id, :second_timeslot_id, :room_id, :created_at)`
		if _, err := tx.NamedExecContext(ctx, query, scheduled[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert scheduled event: %w", err)
		}
	}
	for i := range unscheduled {
		if unscheduled[i].ID == "" {
			unscheduled[i].ID = uuid.NewString()
		}
		unscheduled[i].RunID = runID
		if unscheduled[i].CreatedAt.IsZero() {
			unscheduled[i].CreatedAt = now
		}
		const query = `INSERT INTO unscheduled_events (id, run_id, event_id, reason, created_at)
            VALUES (:id, :run_id, :event_id, :reason, :created_at)`
		if _, err := tx.NamedExecContext(ctx, query, unscheduled[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert unscheduled event: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run results: %w", err)
	}
	return nil
}

// Complete marks a run finished with its final counts and score.
func (r *ScheduleRunRepository) Complete(ctx context.Context, runID string, scheduledCount, unscheduledCount int, softScore float64) error {
	const query = `UPDATE schedule_runs
        SET status = $2, scheduled_count = $3, unscheduled_count = $4, soft_score = $5, completed_at = $6
        WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, runID, models.RunStatusCompleted, scheduledCount, unscheduledCount, softScore, time.Now().UTC()); err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}

// Fail marks a run failed with the error message.
func (r *ScheduleRunRepository) Fail(ctx context.Context, runID, message string) error {
	const query = `UPDATE schedule_runs SET status = $2, error_message = $3, completed_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, runID, models.RunStatusFailed, message, time.Now().UTC()); err != nil {
		return fmt.Errorf("fail run: %w", err)
	}
	return nil
}

// FindByID fetches a run by ID.
func (r *ScheduleRunRepository) FindByID(ctx context.Context, runID string) (models.ScheduleRun, error) {
	const query = `SELECT id, session_id, seed, candidate_limit, scheduled_count, unscheduled_count,
        soft_score, status, error_message, created_at, completed_at
        FROM schedule_runs WHERE id = $1`
	var run models.ScheduleRun
	if err := r.db.GetContext(ctx, &run, query, runID); err != nil {
		return models.ScheduleRun{}, err
	}
	return run, nil
}

// ListBySession returns a session's runs, newest first.
func (r *ScheduleRunRepository) ListBySession(ctx context.Context, sessionID string) ([]models.ScheduleRun, error) {
	const query = `SELECT id, session_id, seed, candidate_limit, scheduled_count, unscheduled_count,
        soft_score, status, error_message, created_at, completed_at
        FROM schedule_runs WHERE session_id = $1 ORDER BY created_at DESC, id`
	runs := []models.ScheduleRun{}
	if err := r.db.SelectContext(ctx, &runs, query, sessionID); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ListScheduled returns a run's placements.
func (r *ScheduleRunRepository) ListScheduled(ctx context.Context, runID string) ([]models.ScheduledEvent, error) {
	const query = `SELECT id, run_id, event_id, day, timeslot_id, second_timeslot_id, room_id, created_at
        FROM scheduled_events WHERE run_id = $1 ORDER BY day, timeslot_id, id`
	scheduled := []models.ScheduledEvent{}
	if err := r.db.SelectContext(ctx, &scheduled, query, runID); err != nil {
		return nil, fmt.Errorf("list scheduled events: %w", err)
	}
	return scheduled, nil
}

// ListUnscheduled returns a run's placement failures.
func (r *ScheduleRunRepository) ListUnscheduled(ctx context.Context, runID string) ([]models.UnscheduledEvent, error) {
	const query = `SELECT id, run_id, event_id, reason, created_at
        FROM unscheduled_events WHERE run_id = $1 ORDER BY event_id, id`
	unscheduled := []models.UnscheduledEvent{}
	if err := r.db.SelectContext(ctx, &unscheduled, query, runID); err != nil {
		return nil, fmt.Errorf("list unscheduled events: %w", err)
	}
	return unscheduled, nil
}
