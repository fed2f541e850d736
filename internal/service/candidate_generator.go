package service

import (
	"strconv"
	"strings"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

// Candidate is one feasible-by-construction placement for an event. Candidate
// generation only establishes existence; ranking happens later.
type Candidate struct {
	Day              models.Day
	TimeslotID       string
	SecondTimeslotID *string
	RoomID           string
}

// SlotKeys returns the "day:timeslot" occupancy keys the candidate covers.
func (c Candidate) SlotKeys() []string {
	keys := []string{string(c.Day) + ":" + c.TimeslotID}
	if c.SecondTimeslotID != nil {
		keys = append(keys, string(c.Day)+":"+*c.SecondTimeslotID)
	}
	return keys
}

// CandidateGenerator produces the raw placement space for events of one
// session. It is built once per run from static resource data and performs no
// I/O.
type CandidateGenerator struct {
	allowedDays []models.Day
	slots       []models.TimeSlot
	pairs       [][2]models.TimeSlot
	rooms       []models.Room
	blocked     blockedIndex
}

// NewCandidateGenerator indexes the session's resources. Time slots must be
// sorted ascending by sort order; consecutive pair labels that resolve to no
// known slot are skipped.
func NewCandidateGenerator(cfg models.ConstraintsConfig, slots []models.TimeSlot, rooms []models.Room, blocked []models.BlockedTime) *CandidateGenerator {
	g := &CandidateGenerator{
		allowedDays: cfg.AllowedDays,
		slots:       slots,
		rooms:       rooms,
		blocked:     newBlockedIndex(blocked),
	}
	for _, pair := range cfg.ConsecutivePairs {
		first, ok1 := resolveSlotLabel(slots, pair[0])
		second, ok2 := resolveSlotLabel(slots, pair[1])
		if ok1 && ok2 {
			g.pairs = append(g.pairs, [2]models.TimeSlot{first, second})
		}
	}
	return g
}

// RoomsOfType reports how many rooms satisfy the requirement. The allocator
// uses this to classify unscheduled events.
func (g *CandidateGenerator) RoomsOfType(roomType models.RoomType) int {
	n := 0
	for _, room := range g.rooms {
		if room.RoomType == roomType {
			n++
		}
	}
	return n
}

// Generate returns every unblocked (day, slot(s), room) tuple for the event.
// Duration-2 events only ever try the configured consecutive pairs.
func (g *CandidateGenerator) Generate(event models.Event, level int) []Candidate {
	var out []Candidate
	for _, day := range g.allowedDays {
		for _, room := range g.rooms {
			if room.RoomType != event.RoomTypeRequired {
				continue
			}
			if event.DurationSlots == 2 {
				out = append(out, g.pairCandidates(event, level, day, room)...)
				continue
			}
			for _, slot := range g.slots {
				if g.blocked.covers(day, slot.ID, level, event.LecturerID, room.ID) {
					continue
				}
				out = append(out, Candidate{Day: day, TimeslotID: slot.ID, RoomID: room.ID})
			}
		}
	}
	return out
}

func (g *CandidateGenerator) pairCandidates(event models.Event, level int, day models.Day, room models.Room) []Candidate {
	var out []Candidate
	for _, pair := range g.pairs {
		if g.blocked.covers(day, pair[0].ID, level, event.LecturerID, room.ID) {
			continue
		}
		if g.blocked.covers(day, pair[1].ID, level, event.LecturerID, room.ID) {
			continue
		}
		secondID := pair[1].ID
		out = append(out, Candidate{Day: day, TimeslotID: pair[0].ID, SecondTimeslotID: &secondID, RoomID: room.ID})
	}
	return out
}

// resolveSlotLabel maps a configured pair label to a concrete time slot,
// matching on exact label first, then label containment, then the label's
// numeric suffix against sort order.
func resolveSlotLabel(slots []models.TimeSlot, label string) (models.TimeSlot, bool) {
	for _, slot := range slots {
		if slot.Label == label {
			return slot, true
		}
	}
	for _, slot := range slots {
		if strings.Contains(slot.Label, label) {
			return slot, true
		}
	}
	if order, ok := trailingNumber(label); ok {
		for _, slot := range slots {
			if slot.SortOrder == order {
				return slot, true
			}
		}
	}
	return models.TimeSlot{}, false
}

func trailingNumber(label string) (int, bool) {
	i := len(label)
	for i > 0 && label[i-1] >= '0' && label[i-1] <= '9' {
		i--
	}
	if i == len(label) {
		return 0, false
	}
	n, err := strconv.Atoi(label[i:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// blockedIndex answers "is (day, slot) excluded for this event" in O(1) per
// scope.
type blockedIndex struct {
	keys map[string]struct{}
}

func newBlockedIndex(blocked []models.BlockedTime) blockedIndex {
	idx := blockedIndex{keys: make(map[string]struct{}, len(blocked))}
	for _, b := range blocked {
		scopeID := ""
		if b.ScopeID != nil {
			scopeID = *b.ScopeID
		}
		idx.keys[blockedKey(b.Scope, scopeID, b.Day, b.TimeslotID)] = struct{}{}
	}
	return idx
}

func blockedKey(scope models.BlockScope, scopeID string, day models.Day, timeslotID string) string {
	return string(scope) + "|" + scopeID + "|" + string(day) + "|" + timeslotID
}

func (idx blockedIndex) covers(day models.Day, timeslotID string, level int, lecturerID *string, roomID string) bool {
	if _, ok := idx.keys[blockedKey(models.BlockScopeGlobal, "", day, timeslotID)]; ok {
		return true
	}
	if _, ok := idx.keys[blockedKey(models.BlockScopeLevel, strconv.Itoa(level), day, timeslotID)]; ok {
		return true
	}
	if lecturerID != nil {
		if _, ok := idx.keys[blockedKey(models.BlockScopeLecturer, *lecturerID, day, timeslotID)]; ok {
			return true
		}
	}
	if _, ok := idx.keys[blockedKey(models.BlockScopeRoom, roomID, day, timeslotID)]; ok {
		return true
	}
	return false
}
