package dto

import "github.com/dayo-ade/uniplan-api/internal/models"

// RunMatchingRequest triggers the cascade for every unresolved offering in a session.
type RunMatchingRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	UserID    string `json:"-"`
}

// MatchingSummary reports per-outcome counts for a batch run.
type MatchingSummary struct {
	AutoMatched int `json:"auto_matched"`
	NeedsReview int `json:"needs_review"`
	Unresolved  int `json:"unresolved"`
}

// ApproveMatchRequest links an offering to a canonical course from the review queue.
type ApproveMatchRequest struct {
	OfferingID        string   `json:"offering_id" validate:"required"`
	CanonicalCourseID string   `json:"canonical_course_id" validate:"required"`
	Method            string   `json:"method"`
	Score             *float64 `json:"score"`
	UserID            string   `json:"-"`
}

// ApproveMatchResponse confirms the manual link.
type ApproveMatchResponse struct {
	OfferingID        string `json:"offering_id"`
	CanonicalCourseID string `json:"canonical_course_id"`
	AliasCreated      bool   `json:"alias_created"`
}

// ReviewItem pairs an offering awaiting review with its stored suggestions.
type ReviewItem struct {
	Offering    models.CourseOffering       `json:"offering"`
	Suggestions []models.MatchingSuggestion `json:"suggestions"`
}
