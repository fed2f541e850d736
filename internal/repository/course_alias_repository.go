package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

// CourseAliasRepository manages the learned alias table that shortcuts the
// matching cascade on re-imports.
type CourseAliasRepository struct {
	db *sqlx.DB
}

// NewCourseAliasRepository constructs a CourseAliasRepository.
func NewCourseAliasRepository(db *sqlx.DB) *CourseAliasRepository {
	return &CourseAliasRepository{db: db}
}

// FindCanonicalByCode resolves a normalized course code to a canonical course
// ID. Returns an empty ID, not an error, when no alias exists.
func (r *CourseAliasRepository) FindCanonicalByCode(ctx context.Context, normalizedCode string) (string, error) {
	const query = `SELECT canonical_course_id FROM course_aliases
        WHERE normalized_code = $1 ORDER BY confidence DESC, created_at LIMIT 1`
	var canonicalID string
	if err := r.db.GetContext(ctx, &canonicalID, query, normalizedCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find alias by code: %w", err)
	}
	return canonicalID, nil
}

// FindCanonicalByTitle resolves a normalized title to a canonical course ID.
// Returns an empty ID when no alias exists.
func (r *CourseAliasRepository) FindCanonicalByTitle(ctx context.Context, normalizedTitle string) (string, error) {
	const query = `SELECT canonical_course_id FROM course_aliases
        WHERE normalized_title = $1 ORDER BY confidence DESC, created_at LIMIT 1`
	var canonicalID string
	if err := r.db.GetContext(ctx, &canonicalID, query, normalizedTitle); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find alias by title: %w", err)
	}
	return canonicalID, nil
}

// Upsert records an alias, keyed by normalized code and title. A repeat match
// refreshes the source and confidence rather than piling up duplicates.
func (r *CourseAliasRepository) Upsert(ctx context.Context, alias *models.CourseAlias) error {
	if alias.ID == "" {
		alias.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if alias.CreatedAt.IsZero() {
		alias.CreatedAt = now
	}
	alias.UpdatedAt = now
	const query = `INSERT INTO course_aliases (id, canonical_course_id, course_code, normalized_code,
        original_title, normalized_title, source, confidence, created_at, updated_at)
        VALUES (:id, :canonical_course_id, :course_code, :normalized_code,
        :original_title, :normalized_title, :source, :confidence, :created_at, :updated_at)
        ON CONFLICT (normalized_code, normalized_title)
        DO UPDATE SET canonical_course_id = EXCLUDED.canonical_course_id, source = EXCLUDED.source,
            confidence = EXCLUDED.confidence, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, alias); err != nil {
		return fmt.Errorf("upsert alias: %w", err)
	}
	return nil
}
