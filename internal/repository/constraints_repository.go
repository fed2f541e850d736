package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

// ConstraintsRepository manages the per-session constraint configuration row.
// The configuration itself is stored as a JSONB document; the service layer
// owns its shape.
type ConstraintsRepository struct {
	db *sqlx.DB
}

// NewConstraintsRepository constructs a ConstraintsRepository.
func NewConstraintsRepository(db *sqlx.DB) *ConstraintsRepository {
	return &ConstraintsRepository{db: db}
}

// FindBySession fetches a session's constraint row.
func (r *ConstraintsRepository) FindBySession(ctx context.Context, sessionID string) (*models.Constraints, error) {
	const query = `SELECT id, session_id, config, created_at, updated_at
        FROM constraints WHERE session_id = $1`
	var constraints models.Constraints
	if err := r.db.GetContext(ctx, &constraints, query, sessionID); err != nil {
		return nil, err
	}
	return &constraints, nil
}

// Upsert writes a session's constraint document, creating the row on first
// write.
func (r *ConstraintsRepository) Upsert(ctx context.Context, sessionID string, config []byte) (*models.Constraints, error) {
	now := time.Now().UTC()
	constraints := models.Constraints{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Config:    config,
		CreatedAt: now,
		UpdatedAt: now,
	}
	const query = `INSERT INTO constraints (id, session_id, config, created_at, updated_at)
        VALUES (:id, :session_id, :config, :created_at, :updated_at)
        ON CONFLICT (session_id) DO UPDATE SET config = EXCLUDED.config, updated_at = EXCLUDED.updated_at
        RETURNING id, session_id, config, created_at, updated_at`
	rows, err := r.db.NamedQueryContext(ctx, query, constraints)
	if err != nil {
		return nil, fmt.Errorf("upsert constraints: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	if !rows.Next() {
		return nil, fmt.Errorf("upsert constraints: no row returned")
	}
	var saved models.Constraints
	if err := rows.StructScan(&saved); err != nil {
		return nil, fmt.Errorf("scan constraints: %w", err)
	}
	return &saved, nil
}
