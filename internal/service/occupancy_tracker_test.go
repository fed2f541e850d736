package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

func TestOccupancyPlaceUnplaceRoundTrip(t *testing.T) {
	tracker := NewOccupancyTracker()
	lecturer := strPtr("lect-1")
	second := "ts-4"
	candidate := Candidate{Day: models.DayMonday, TimeslotID: "ts-3", SecondTimeslotID: &second, RoomID: "room-1"}

	require.True(t, tracker.CanPlace(lecturer, 300, candidate))
	tracker.Place(lecturer, 300, candidate)
	assert.False(t, tracker.CanPlace(lecturer, 300, candidate))

	tracker.Unplace(lecturer, 300, candidate)
	assert.True(t, tracker.CanPlace(lecturer, 300, candidate))
}

func TestOccupancyIndependentAxes(t *testing.T) {
	tracker := NewOccupancyTracker()
	placed := Candidate{Day: models.DayMonday, TimeslotID: "ts-1", RoomID: "room-1"}
	tracker.Place(strPtr("lect-1"), 300, placed)

	sameLecturer := Candidate{Day: models.DayMonday, TimeslotID: "ts-1", RoomID: "room-2"}
	assert.False(t, tracker.CanPlace(strPtr("lect-1"), 400, sameLecturer))

	sameLevel := Candidate{Day: models.DayMonday, TimeslotID: "ts-1", RoomID: "room-2"}
	assert.False(t, tracker.CanPlace(strPtr("lect-2"), 300, sameLevel))

	sameRoom := Candidate{Day: models.DayMonday, TimeslotID: "ts-1", RoomID: "room-1"}
	assert.False(t, tracker.CanPlace(strPtr("lect-2"), 400, sameRoom))

	clear := Candidate{Day: models.DayTuesday, TimeslotID: "ts-1", RoomID: "room-1"}
	assert.True(t, tracker.CanPlace(strPtr("lect-1"), 300, clear))
}

func TestOccupancyLockSeedSkipsLevel(t *testing.T) {
	tracker := NewOccupancyTracker()
	tracker.SeedLock(models.Lock{
		EventID:    "event-1",
		Day:        models.DayWednesday,
		TimeslotID: "ts-2",
		RoomID:     "room-1",
	}, strPtr("lect-1"))

	blockedByLecturer := Candidate{Day: models.DayWednesday, TimeslotID: "ts-2", RoomID: "room-2"}
	assert.False(t, tracker.CanPlace(strPtr("lect-1"), 200, blockedByLecturer))

	blockedByRoom := Candidate{Day: models.DayWednesday, TimeslotID: "ts-2", RoomID: "room-1"}
	assert.False(t, tracker.CanPlace(strPtr("lect-2"), 200, blockedByRoom))

	// Locks do not occupy the level axis.
	sameLevelOnly := Candidate{Day: models.DayWednesday, TimeslotID: "ts-2", RoomID: "room-2"}
	assert.True(t, tracker.CanPlace(strPtr("lect-2"), 200, sameLevelOnly))
}

func TestOccupancyNilLecturer(t *testing.T) {
	tracker := NewOccupancyTracker()
	candidate := Candidate{Day: models.DayFriday, TimeslotID: "ts-1", RoomID: "room-1"}
	tracker.Place(nil, 100, candidate)

	otherRoom := Candidate{Day: models.DayFriday, TimeslotID: "ts-1", RoomID: "room-2"}
	assert.False(t, tracker.CanPlace(nil, 100, otherRoom), "level axis still applies")
	assert.True(t, tracker.CanPlace(nil, 200, otherRoom))
}
