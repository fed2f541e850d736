package models

import "time"

// TimeSlot is a named interval within a day. The allocator reasons about slot
// identity and sort order, not wall-clock times.
type TimeSlot struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Label     string    `db:"label" json:"label"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
