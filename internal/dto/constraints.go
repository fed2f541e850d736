package dto

import "github.com/dayo-ade/uniplan-api/internal/models"

// UpdateConstraintsRequest replaces a session's scheduling configuration.
type UpdateConstraintsRequest struct {
	SessionID string                   `json:"session_id" validate:"required"`
	Config    models.ConstraintsConfig `json:"config" validate:"required"`
}

// CreateBlockedTimeRequest excludes a (day, timeslot) for one scope.
type CreateBlockedTimeRequest struct {
	SessionID  string            `json:"session_id" validate:"required"`
	Scope      models.BlockScope `json:"scope" validate:"required"`
	ScopeID    *string           `json:"scope_id"`
	Day        models.Day        `json:"day" validate:"required"`
	TimeslotID string            `json:"timeslot_id" validate:"required"`
	Reason     *string           `json:"reason"`
}

// CreateLockRequest pins an event to a fixed placement.
type CreateLockRequest struct {
	SessionID        string     `json:"session_id" validate:"required"`
	EventID          string     `json:"event_id" validate:"required"`
	Day              models.Day `json:"day" validate:"required"`
	TimeslotID       string     `json:"timeslot_id" validate:"required"`
	SecondTimeslotID *string    `json:"second_timeslot_id"`
	RoomID           string     `json:"room_id" validate:"required"`
	UserID           string     `json:"-"`
}
