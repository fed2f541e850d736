package dto

import "github.com/dayo-ade/uniplan-api/internal/models"

// GenerateRunRequest starts one allocation run for a session. Seed reserves
// future randomized tie-breaking; a zero CandidateLimit falls back to the
// session constraints and then the configured default.
type GenerateRunRequest struct {
	SessionID      string `json:"session_id" validate:"required"`
	Seed           *int64 `json:"seed"`
	CandidateLimit int    `json:"candidate_limit" validate:"gte=0"`
}

// RunSummary is the run row plus its result sets.
type RunSummary struct {
	Run         models.ScheduleRun        `json:"run"`
	Scheduled   []models.ScheduledEvent   `json:"scheduled"`
	Unscheduled []models.UnscheduledEvent `json:"unscheduled"`
}

// TimetableEntry is one denormalized placement for timetable views and
// exports.
type TimetableEntry struct {
	EventID          string     `json:"event_id"`
	OfferingID       string     `json:"offering_id"`
	CourseCode       string     `json:"course_code"`
	CourseTitle      string     `json:"course_title"`
	Level            int        `json:"level"`
	LecturerName     string     `json:"lecturer_name,omitempty"`
	Day              models.Day `json:"day"`
	TimeslotID       string     `json:"timeslot_id"`
	TimeslotLabel    string     `json:"timeslot_label"`
	SecondTimeslotID *string    `json:"second_timeslot_id,omitempty"`
	RoomID           string     `json:"room_id"`
	RoomName         string     `json:"room_name"`
}

// TimetableView is the cached per-run timetable payload.
type TimetableView struct {
	RunID     string           `json:"run_id"`
	SessionID string           `json:"session_id"`
	Entries   []TimetableEntry `json:"entries"`
}
