package models

import "time"

// Room is a teaching venue.
type Room struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Name      string    `db:"name" json:"name"`
	RoomType  RoomType  `db:"room_type" json:"room_type"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Location  *string   `db:"location" json:"location,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
