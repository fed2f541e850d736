package models

import "time"

// MatchStatus tracks where a course offering sits in the matching lifecycle.
type MatchStatus string

const (
	MatchStatusUnresolved    MatchStatus = "unresolved"
	MatchStatusAutoMatched   MatchStatus = "auto_matched"
	MatchStatusNeedsReview   MatchStatus = "needs_review"
	MatchStatusManualMatched MatchStatus = "manual_matched"
	MatchStatusRejected      MatchStatus = "rejected"
)

// MatchMethod records which cascade rule resolved an offering.
type MatchMethod string

const (
	MatchMethodExactCode    MatchMethod = "exact_code"
	MatchMethodExactTitle   MatchMethod = "exact_title"
	MatchMethodSimilarity   MatchMethod = "similarity"
	MatchMethodManualReview MatchMethod = "manual_review"
)

// OfferingType distinguishes the delivery format of a course offering.
type OfferingType string

const (
	OfferingTypeLecture  OfferingType = "lecture"
	OfferingTypeLab      OfferingType = "lab"
	OfferingTypeTutorial OfferingType = "tutorial"
)

// CourseOffering is one as-imported course listing row for a session.
type CourseOffering struct {
	ID                string       `db:"id" json:"id"`
	SessionID         string       `db:"session_id" json:"session_id"`
	CourseCode        string       `db:"course_code" json:"course_code"`
	NormalizedCode    string       `db:"normalized_code" json:"normalized_code"`
	OriginalTitle     string       `db:"original_title" json:"original_title"`
	NormalizedTitle   string       `db:"normalized_title" json:"normalized_title"`
	Level             int          `db:"level" json:"level"`
	CreditUnits       int          `db:"credit_units" json:"credit_units"`
	Type              OfferingType `db:"type" json:"type"`
	Department        *string      `db:"department" json:"department,omitempty"`
	MatchStatus       MatchStatus  `db:"match_status" json:"match_status"`
	CanonicalCourseID *string      `db:"canonical_course_id" json:"canonical_course_id,omitempty"`
	MatchMethod       *string      `db:"match_method" json:"match_method,omitempty"`
	MatchScore        *float64     `db:"match_score" json:"match_score,omitempty"`
	MatchedBy         *string      `db:"matched_by" json:"matched_by,omitempty"`
	MatchedAt         *time.Time   `db:"matched_at" json:"matched_at,omitempty"`
	CreatedAt         time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time    `db:"updated_at" json:"updated_at"`
}

// CanonicalCourse is the deduplicated course identity offerings match against.
type CanonicalCourse struct {
	ID              string    `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	NormalizedTitle string    `db:"normalized_title" json:"normalized_title"`
	Department      *string   `db:"department" json:"department,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// AliasSource marks how a course alias came to exist.
type AliasSource string

const (
	AliasSourceAuto          AliasSource = "auto"
	AliasSourceManualConfirm AliasSource = "manual_confirm"
)

// CourseAlias is a learned shortcut from a normalized code/title to a canonical course.
type CourseAlias struct {
	ID                string      `db:"id" json:"id"`
	CanonicalCourseID string      `db:"canonical_course_id" json:"canonical_course_id"`
	CourseCode        string      `db:"course_code" json:"course_code"`
	NormalizedCode    string      `db:"normalized_code" json:"normalized_code"`
	OriginalTitle     string      `db:"original_title" json:"original_title"`
	NormalizedTitle   string      `db:"normalized_title" json:"normalized_title"`
	Source            AliasSource `db:"source" json:"source"`
	Confidence        float64     `db:"confidence" json:"confidence"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time   `db:"updated_at" json:"updated_at"`
}

// MatchingSuggestion is one review-queue candidate link for an offering.
type MatchingSuggestion struct {
	ID                string    `db:"id" json:"id"`
	OfferingID        string    `db:"offering_id" json:"offering_id"`
	CanonicalCourseID string    `db:"canonical_course_id" json:"canonical_course_id"`
	Score             float64   `db:"score" json:"score"`
	TokenOverlap      string    `db:"token_overlap" json:"token_overlap"`
	Method            string    `db:"method" json:"method"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
