package models

import "time"

// OfferingMatchUpdate carries the mutable matching state written back to an
// offering after a cascade pass or manual approval.
type OfferingMatchUpdate struct {
	Status            MatchStatus
	CanonicalCourseID *string
	Method            *string
	Score             *float64
	MatchedBy         *string
	MatchedAt         *time.Time
}
