package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

// SessionRepository manages persistence for academic sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns all sessions, newest first.
func (r *SessionRepository) List(ctx context.Context) ([]models.Session, error) {
	const query = `SELECT id, name, semester, active, created_at, updated_at
        FROM sessions ORDER BY created_at DESC, id`
	sessions := []models.Session{}
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// FindByID fetches a session by ID.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	const query = `SELECT id, name, semester, active, created_at, updated_at FROM sessions WHERE id = $1`
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// Create inserts a new session.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	const query = `INSERT INTO sessions (id, name, semester, active, created_at, updated_at)
        VALUES (:id, :name, :semester, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SetActive marks one session active and the rest inactive in one transaction.
func (r *SessionRepository) SetActive(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `UPDATE sessions SET active = false, updated_at = $1 WHERE active = true`, now); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("deactivate sessions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE sessions SET active = true, updated_at = $2 WHERE id = $1`, id, now); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("activate session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session activation: %w", err)
	}
	return nil
}
