package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

const offeringColumns = `id, session_id, course_code, normalized_code, original_title, normalized_title,
        level, credit_units, type, department, match_status, canonical_course_id, match_method,
        match_score, matched_by, matched_at, created_at, updated_at`

// CourseOfferingRepository manages persistence for imported course listings.
type CourseOfferingRepository struct {
	db *sqlx.DB
}

// NewCourseOfferingRepository constructs a CourseOfferingRepository.
func NewCourseOfferingRepository(db *sqlx.DB) *CourseOfferingRepository {
	return &CourseOfferingRepository{db: db}
}

// ListBySession returns a session's offerings, optionally filtered by match
// status. An empty status returns every offering.
func (r *CourseOfferingRepository) ListBySession(ctx context.Context, sessionID string, status models.MatchStatus) ([]models.CourseOffering, error) {
	query := fmt.Sprintf(`SELECT %s FROM course_offerings WHERE session_id = $1`, offeringColumns)
	args := []interface{}{sessionID}
	if status != "" {
		query += " AND match_status = $2"
		args = append(args, status)
	}
	query += " ORDER BY course_code, id"
	offerings := []models.CourseOffering{}
	if err := r.db.SelectContext(ctx, &offerings, query, args...); err != nil {
		return nil, fmt.Errorf("list offerings: %w", err)
	}
	return offerings, nil
}

// ListAllBySession returns every offering in a session regardless of status.
func (r *CourseOfferingRepository) ListAllBySession(ctx context.Context, sessionID string) ([]models.CourseOffering, error) {
	return r.ListBySession(ctx, sessionID, "")
}

// FindByID fetches an offering by ID.
func (r *CourseOfferingRepository) FindByID(ctx context.Context, id string) (*models.CourseOffering, error) {
	query := fmt.Sprintf(`SELECT %s FROM course_offerings WHERE id = $1`, offeringColumns)
	var offering models.CourseOffering
	if err := r.db.GetContext(ctx, &offering, query, id); err != nil {
		return nil, err
	}
	return &offering, nil
}

// UpdateMatch writes the matching outcome back to an offering.
func (r *CourseOfferingRepository) UpdateMatch(ctx context.Context, id string, update models.OfferingMatchUpdate) error {
	const query = `UPDATE course_offerings
        SET match_status = $2, canonical_course_id = $3, match_method = $4, match_score = $5,
            matched_by = $6, matched_at = $7, updated_at = $8
        WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, update.Status, update.CanonicalCourseID,
		update.Method, update.Score, update.MatchedBy, update.MatchedAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update offering match: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update offering match: offering %s not found", id)
	}
	return nil
}

// CreateBatch inserts offerings in one transaction.
func (r *CourseOfferingRepository) CreateBatch(ctx context.Context, offerings []models.CourseOffering) error {
	if len(offerings) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	for i := range offerings {
		if offerings[i].ID == "" {
			offerings[i].ID = uuid.NewString()
		}
		now := time.Now().UTC()
		if offerings[i].CreatedAt.IsZero() {
			offerings[i].CreatedAt = now
		}
		offerings[i].UpdatedAt = now
		const query = `INSERT INTO course_offerings (id, session_id, course_code, normalized_code, original_title,
            normalized_title, level, credit_units, type, department, match_status, created_at, updated_at)
            VALUES (:id, :session_id, :course_code, :normalized_code, :original_title,
            :normalized_title, :level, :credit_units, :type, :department, :match_status, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, offerings[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert offering: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit offerings: %w", err)
	}
	return nil
}
