package models

import "time"

// RoomType classifies rooms and the requirement events carry.
type RoomType string

const (
	RoomTypeLectureRoom RoomType = "lecture_room"
	RoomTypeLab         RoomType = "lab"
)

// Event is one atomic schedulable session derived from a matched offering.
// DurationSlots of 2 means the event must occupy one of the configured
// consecutive slot pairs, never two arbitrary slots.
type Event struct {
	ID               string    `db:"id" json:"id"`
	SessionID        string    `db:"session_id" json:"session_id"`
	OfferingID       string    `db:"offering_id" json:"offering_id"`
	LecturerID       *string   `db:"lecturer_id" json:"lecturer_id,omitempty"`
	EventIndex       int       `db:"event_index" json:"event_index"`
	DurationSlots    int       `db:"duration_slots" json:"duration_slots"`
	RoomTypeRequired RoomType  `db:"room_type_required" json:"room_type_required"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
