package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

// CanonicalCourseRepository manages persistence of the canonical catalog.
type CanonicalCourseRepository struct {
	db *sqlx.DB
}

// NewCanonicalCourseRepository constructs a CanonicalCourseRepository.
func NewCanonicalCourseRepository(db *sqlx.DB) *CanonicalCourseRepository {
	return &CanonicalCourseRepository{db: db}
}

// ListAll returns the full catalog in a stable order. The matcher iterates
// this list, so ordering must not depend on insertion time alone.
func (r *CanonicalCourseRepository) ListAll(ctx context.Context) ([]models.CanonicalCourse, error) {
	const query = `SELECT id, title, normalized_title, department, created_at, updated_at
        FROM canonical_courses ORDER BY normalized_title, id`
	courses := []models.CanonicalCourse{}
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list canonical courses: %w", err)
	}
	return courses, nil
}

// FindByNormalizedTitle fetches a catalog entry by its normalized title.
func (r *CanonicalCourseRepository) FindByNormalizedTitle(ctx context.Context, normalizedTitle string) (*models.CanonicalCourse, error) {
	const query = `SELECT id, title, normalized_title, department, created_at, updated_at
        FROM canonical_courses WHERE normalized_title = $1 LIMIT 1`
	var course models.CanonicalCourse
	if err := r.db.GetContext(ctx, &course, query, normalizedTitle); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create inserts a catalog entry.
func (r *CanonicalCourseRepository) Create(ctx context.Context, course *models.CanonicalCourse) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO canonical_courses (id, title, normalized_title, department, created_at, updated_at)
        VALUES (:id, :title, :normalized_title, :department, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create canonical course: %w", err)
	}
	return nil
}

// CreateBatch inserts catalog entries in one transaction, skipping titles that
// already exist.
func (r *CanonicalCourseRepository) CreateBatch(ctx context.Context, courses []models.CanonicalCourse) error {
	if len(courses) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	for i := range courses {
		if courses[i].ID == "" {
			courses[i].ID = uuid.NewString()
		}
		now := time.Now().UTC()
		if courses[i].CreatedAt.IsZero() {
			courses[i].CreatedAt = now
		}
		courses[i].UpdatedAt = now
		const query = `INSERT INTO canonical_courses (id, title, normalized_title, department, created_at, updated_at)
            VALUES (:id, :title, :normalized_title, :department, :created_at, :updated_at)
            ON CONFLICT (normalized_title) DO NOTHING`
		if _, err := tx.NamedExecContext(ctx, query, courses[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert canonical course: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit canonical courses: %w", err)
	}
	return nil
}
