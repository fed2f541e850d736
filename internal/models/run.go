package models

import "time"

// RunStatus is the lifecycle state of one allocation run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ScheduleRun records one invocation of the allocator for a session.
type ScheduleRun struct {
	ID               string     `db:"id" json:"id"`
	SessionID        string     `db:"session_id" json:"session_id"`
	Seed             *int64     `db:"seed" json:"seed,omitempty"`
	CandidateLimit   int        `db:"candidate_limit" json:"candidate_limit"`
	ScheduledCount   int        `db:"scheduled_count" json:"scheduled_count"`
	UnscheduledCount int        `db:"unscheduled_count" json:"unscheduled_count"`
	SoftScore        float64    `db:"soft_score" json:"soft_score"`
	Status           RunStatus  `db:"status" json:"status"`
	ErrorMessage     *string    `db:"error_message" json:"error_message,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	CompletedAt      *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// ScheduledEvent is one committed placement belonging to a run.
type ScheduledEvent struct {
	ID               string    `db:"id" json:"id"`
	RunID            string    `db:"run_id" json:"run_id"`
	EventID          string    `db:"event_id" json:"event_id"`
	Day              Day       `db:"day" json:"day"`
	TimeslotID       string    `db:"timeslot_id" json:"timeslot_id"`
	SecondTimeslotID *string   `db:"second_timeslot_id" json:"second_timeslot_id,omitempty"`
	RoomID           string    `db:"room_id" json:"room_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// UnscheduledEvent is an event the run could not place, with the reason.
type UnscheduledEvent struct {
	ID        string    `db:"id" json:"id"`
	RunID     string    `db:"run_id" json:"run_id"`
	EventID   string    `db:"event_id" json:"event_id"`
	Reason    string    `db:"reason" json:"reason"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
