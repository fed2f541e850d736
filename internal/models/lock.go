package models

import "time"

// Lock pins one event to a fixed placement. Locked events are emitted as
// already scheduled and the allocator never moves them.
type Lock struct {
	ID               string    `db:"id" json:"id"`
	SessionID        string    `db:"session_id" json:"session_id"`
	EventID          string    `db:"event_id" json:"event_id"`
	Day              Day       `db:"day" json:"day"`
	TimeslotID       string    `db:"timeslot_id" json:"timeslot_id"`
	SecondTimeslotID *string   `db:"second_timeslot_id" json:"second_timeslot_id,omitempty"`
	RoomID           string    `db:"room_id" json:"room_id"`
	CreatedBy        *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
