package service

import (
	"strconv"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

// OccupancyTracker enforces hard conflicts only. Three independent maps track
// which "day:timeslot" keys a lecturer, a level, or a room already consumes.
// A tracker is owned exclusively by one in-progress allocation and is never
// shared between runs.
type OccupancyTracker struct {
	lecturer map[string]map[string]struct{}
	level    map[string]map[string]struct{}
	room     map[string]map[string]struct{}
}

// NewOccupancyTracker returns an empty tracker.
func NewOccupancyTracker() *OccupancyTracker {
	return &OccupancyTracker{
		lecturer: make(map[string]map[string]struct{}),
		level:    make(map[string]map[string]struct{}),
		room:     make(map[string]map[string]struct{}),
	}
}

// SeedLock pre-marks the slots a pinned placement consumes. Locks occupy the
// lecturer and the room but not the level, matching how pinned placements have
// always been applied.
func (t *OccupancyTracker) SeedLock(lock models.Lock, lecturerID *string) {
	keys := lockSlotKeys(lock)
	if lecturerID != nil {
		occupy(t.lecturer, *lecturerID, keys)
	}
	occupy(t.room, lock.RoomID, keys)
}

// CanPlace reports whether none of the candidate's slots collide with the
// lecturer's, the level's, or the room's occupied set.
func (t *OccupancyTracker) CanPlace(lecturerID *string, level int, c Candidate) bool {
	keys := c.SlotKeys()
	if lecturerID != nil && intersects(t.lecturer[*lecturerID], keys) {
		return false
	}
	if intersects(t.level[strconv.Itoa(level)], keys) {
		return false
	}
	return !intersects(t.room[c.RoomID], keys)
}

// Place marks the candidate's slots occupied in all three maps.
func (t *OccupancyTracker) Place(lecturerID *string, level int, c Candidate) {
	keys := c.SlotKeys()
	if lecturerID != nil {
		occupy(t.lecturer, *lecturerID, keys)
	}
	occupy(t.level, strconv.Itoa(level), keys)
	occupy(t.room, c.RoomID, keys)
}

// Unplace is the exact inverse of Place.
func (t *OccupancyTracker) Unplace(lecturerID *string, level int, c Candidate) {
	keys := c.SlotKeys()
	if lecturerID != nil {
		release(t.lecturer, *lecturerID, keys)
	}
	release(t.level, strconv.Itoa(level), keys)
	release(t.room, c.RoomID, keys)
}

func lockSlotKeys(lock models.Lock) []string {
	keys := []string{string(lock.Day) + ":" + lock.TimeslotID}
	if lock.SecondTimeslotID != nil {
		keys = append(keys, string(lock.Day)+":"+*lock.SecondTimeslotID)
	}
	return keys
}

func occupy(m map[string]map[string]struct{}, id string, keys []string) {
	set, ok := m[id]
	if !ok {
		set = make(map[string]struct{})
		m[id] = set
	}
	for _, key := range keys {
		set[key] = struct{}{}
	}
}

func release(m map[string]map[string]struct{}, id string, keys []string) {
	set, ok := m[id]
	if !ok {
		return
	}
	for _, key := range keys {
		delete(set, key)
	}
}

func intersects(set map[string]struct{}, keys []string) bool {
	if len(set) == 0 {
		return false
	}
	for _, key := range keys {
		if _, ok := set[key]; ok {
			return true
		}
	}
	return false
}
