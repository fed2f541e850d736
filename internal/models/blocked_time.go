package models

import "time"

// BlockScope narrows which resources a blocked time applies to. It is a closed
// set so scope handling can be checked exhaustively.
type BlockScope string

const (
	BlockScopeGlobal   BlockScope = "global"
	BlockScopeLevel    BlockScope = "level"
	BlockScopeLecturer BlockScope = "lecturer"
	BlockScopeRoom     BlockScope = "room"
)

// Valid reports whether the scope is one of the known values.
func (s BlockScope) Valid() bool {
	switch s {
	case BlockScopeGlobal, BlockScopeLevel, BlockScopeLecturer, BlockScopeRoom:
		return true
	}
	return false
}

// BlockedTime excludes a (day, timeslot) from placement for the given scope.
// ScopeID is empty for global blocks, a numeric level string for level blocks,
// and a lecturer or room id otherwise.
type BlockedTime struct {
	ID         string     `db:"id" json:"id"`
	SessionID  string     `db:"session_id" json:"session_id"`
	Scope      BlockScope `db:"scope" json:"scope"`
	ScopeID    *string    `db:"scope_id" json:"scope_id,omitempty"`
	Day        Day        `db:"day" json:"day"`
	TimeslotID string     `db:"timeslot_id" json:"timeslot_id"`
	Reason     *string    `db:"reason" json:"reason,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
