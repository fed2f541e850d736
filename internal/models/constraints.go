package models

import "time"

// DurationSegment is one schedulable chunk produced by the unit mapping.
type DurationSegment struct {
	DurationSlots int      `json:"duration_slots"`
	PreferredPair []string `json:"preferred_pair,omitempty"`
}

// UnitMapping maps offering type -> credit units (or "default") -> segments.
type UnitMapping map[string]map[string][]DurationSegment

// SchedulingDefaults carries per-session caps for the allocator.
type SchedulingDefaults struct {
	MaxSessionsPerLecturerPerDay int `json:"max_sessions_per_lecturer_per_day"`
	MaxConsecutiveSessions       int `json:"max_consecutive_sessions_per_lecturer"`
	CandidateLimitPerEvent       int `json:"candidate_limit_per_event"`
}

// SoftWeights configures the penalty model. Higher weight means the pattern is
// avoided more strongly; none of these affect feasibility.
type SoftWeights struct {
	SpreadCourseSessions float64 `json:"spread_course_sessions"`
	AvoidEarly           float64 `json:"avoid_early"`
	AvoidLate            float64 `json:"avoid_late"`
	LecturerOverload     float64 `json:"lecturer_overload"`
	LevelGaps            float64 `json:"level_gaps"`
	RoomPreference       float64 `json:"room_preference"`
}

// ConstraintsConfig is the per-session scheduling configuration document.
type ConstraintsConfig struct {
	AllowedDays      []Day              `json:"allowed_days"`
	ConsecutivePairs [][2]string        `json:"consecutive_pairs"`
	UnitMapping      UnitMapping        `json:"unit_mapping"`
	Defaults         SchedulingDefaults `json:"defaults"`
	SoftWeights      SoftWeights        `json:"soft_weights"`
}

// Constraints is the stored row wrapping a ConstraintsConfig.
type Constraints struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Config    []byte    `db:"config" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultConstraints is the documented fallback used when a session has no
// stored configuration. Callers persist it on first use.
func DefaultConstraints() ConstraintsConfig {
	return ConstraintsConfig{
		AllowedDays: []Day{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday},
		ConsecutivePairs: [][2]string{
			{"TS3", "TS4"},
			{"TS4", "TS5"},
			{"TS5", "TS6"},
			{"TS6", "TS7"},
			{"TS7", "TS8"},
		},
		UnitMapping: UnitMapping{
			string(OfferingTypeLecture): {
				"1": {{DurationSlots: 1}},
				"2": {{DurationSlots: 1}, {DurationSlots: 1}},
				"3": {{DurationSlots: 2}, {DurationSlots: 1}},
			},
			string(OfferingTypeLab): {
				"default": {{DurationSlots: 2, PreferredPair: []string{"TS7", "TS8"}}},
			},
		},
		Defaults: SchedulingDefaults{
			MaxSessionsPerLecturerPerDay: 3,
			MaxConsecutiveSessions:       2,
			CandidateLimitPerEvent:       25,
		},
		SoftWeights: SoftWeights{
			SpreadCourseSessions: 3,
			AvoidEarly:           2,
			AvoidLate:            2,
			LecturerOverload:     10,
			LevelGaps:            2,
			RoomPreference:       1,
		},
	}
}
