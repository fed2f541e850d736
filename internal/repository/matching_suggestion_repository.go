package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

// MatchingSuggestionRepository manages the review queue's candidate links.
type MatchingSuggestionRepository struct {
	db *sqlx.DB
}

// NewMatchingSuggestionRepository constructs a MatchingSuggestionRepository.
func NewMatchingSuggestionRepository(db *sqlx.DB) *MatchingSuggestionRepository {
	return &MatchingSuggestionRepository{db: db}
}

// ReplaceForOffering swaps an offering's suggestion set atomically. Each
// cascade pass recomputes suggestions from scratch, so stale rows never
// survive a re-run.
func (r *MatchingSuggestionRepository) ReplaceForOffering(ctx context.Context, offeringID string, suggestions []models.MatchingSuggestion) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM matching_suggestions WHERE offering_id = $1`, offeringID); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("clear suggestions: %w", err)
	}
	for i := range suggestions {
		if suggestions[i].ID == "" {
			suggestions[i].ID = uuid.NewString()
		}
		if suggestions[i].CreatedAt.IsZero() {
			suggestions[i].CreatedAt = time.Now().UTC()
		}
		suggestions[i].OfferingID = offeringID
		const query = `INSERT INTO matching_suggestions (id, offering_id, canonical_course_id, score, token_overlap, method, created_at)
            VALUES (:id, :offering_id, :canonical_course_id, :score, :token_overlap, :method, :created_at)`
		if _, err := tx.NamedExecContext(ctx, query, suggestions[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert suggestion: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit suggestions: %w", err)
	}
	return nil
}

// ListByOffering returns an offering's suggestions, best score first.
func (r *MatchingSuggestionRepository) ListByOffering(ctx context.Context, offeringID string) ([]models.MatchingSuggestion, error) {
	const query = `SELECT id, offering_id, canonical_course_id, score, token_overlap, method, created_at
        FROM matching_suggestions WHERE offering_id = $1 ORDER BY score DESC, canonical_course_id`
	suggestions := []models.MatchingSuggestion{}
	if err := r.db.SelectContext(ctx, &suggestions, query, offeringID); err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return suggestions, nil
}

// DeleteByOffering clears an offering's suggestions after a review decision.
func (r *MatchingSuggestionRepository) DeleteByOffering(ctx context.Context, offeringID string) error {
	const query = `DELETE FROM matching_suggestions WHERE offering_id = $1`
	if _, err := r.db.ExecContext(ctx, query, offeringID); err != nil {
		return fmt.Errorf("delete suggestions: %w", err)
	}
	return nil
}
