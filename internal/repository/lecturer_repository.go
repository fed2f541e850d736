package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

// LecturerRepository manages persistence for teaching staff.
type LecturerRepository struct {
	db *sqlx.DB
}

// NewLecturerRepository constructs a LecturerRepository.
func NewLecturerRepository(db *sqlx.DB) *LecturerRepository {
	return &LecturerRepository{db: db}
}

// ListAll returns every lecturer ordered by name.
func (r *LecturerRepository) ListAll(ctx context.Context) ([]models.Lecturer, error) {
	const query = `SELECT id, full_name, email, department, active, created_at, updated_at
        FROM lecturers ORDER BY full_name, id`
	lecturers := []models.Lecturer{}
	if err := r.db.SelectContext(ctx, &lecturers, query); err != nil {
		return nil, fmt.Errorf("list lecturers: %w", err)
	}
	return lecturers, nil
}

// Create inserts a new lecturer.
func (r *LecturerRepository) Create(ctx context.Context, lecturer *models.Lecturer) error {
	if lecturer.ID == "" {
		lecturer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lecturer.CreatedAt.IsZero() {
		lecturer.CreatedAt = now
	}
	lecturer.UpdatedAt = now
	const query = `INSERT INTO lecturers (id, full_name, email, department, active, created_at, updated_at)
        VALUES (:id, :full_name, :email, :department, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lecturer); err != nil {
		return fmt.Errorf("create lecturer: %w", err)
	}
	return nil
}

// AssignmentRepository manages lecturer-to-offering assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create links a lecturer to an offering. Re-assigning an existing pair
// updates the share instead of duplicating the row.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.LecturerAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO lecturer_assignments (id, offering_id, lecturer_id, share, created_at)
        VALUES (:id, :offering_id, :lecturer_id, :share, :created_at)
        ON CONFLICT (offering_id, lecturer_id) DO UPDATE SET share = EXCLUDED.share`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// ListByOffering returns an offering's assignments, highest share first.
func (r *AssignmentRepository) ListByOffering(ctx context.Context, offeringID string) ([]models.LecturerAssignment, error) {
	const query = `SELECT id, offering_id, lecturer_id, share, created_at
        FROM lecturer_assignments WHERE offering_id = $1 ORDER BY share DESC, lecturer_id`
	assignments := []models.LecturerAssignment{}
	if err := r.db.SelectContext(ctx, &assignments, query, offeringID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}
