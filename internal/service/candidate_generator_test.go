package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

func testSlots(n int) []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, n)
	for i := 1; i <= n; i++ {
		slots = append(slots, models.TimeSlot{
			ID:        "slot-" + string(rune('0'+i)),
			Label:     "TS" + string(rune('0'+i)),
			SortOrder: i,
		})
	}
	return slots
}

func testConfig() models.ConstraintsConfig {
	cfg := models.DefaultConstraints()
	cfg.AllowedDays = []models.Day{models.DayMonday, models.DayTuesday}
	cfg.ConsecutivePairs = [][2]string{{"TS3", "TS4"}, {"TS4", "TS5"}}
	return cfg
}

func TestGenerateDurationOneCrossProduct(t *testing.T) {
	rooms := []models.Room{
		{ID: "room-1", RoomType: models.RoomTypeLectureRoom},
		{ID: "room-2", RoomType: models.RoomTypeLab},
	}
	gen := NewCandidateGenerator(testConfig(), testSlots(5), rooms, nil)

	event := models.Event{ID: "event-1", DurationSlots: 1, RoomTypeRequired: models.RoomTypeLectureRoom}
	candidates := gen.Generate(event, 300)

	// 2 days x 5 slots x 1 lecture room.
	assert.Len(t, candidates, 10)
	for _, c := range candidates {
		assert.Equal(t, "room-1", c.RoomID)
		assert.Nil(t, c.SecondTimeslotID)
	}
}

func TestGenerateDurationTwoOnlyConfiguredPairs(t *testing.T) {
	rooms := []models.Room{{ID: "lab-1", RoomType: models.RoomTypeLab}}
	cfg := testConfig()
	gen := NewCandidateGenerator(cfg, testSlots(5), rooms, nil)

	event := models.Event{ID: "event-1", DurationSlots: 2, RoomTypeRequired: models.RoomTypeLab}
	candidates := gen.Generate(event, 300)

	// 2 days x 2 pairs x 1 lab.
	require.Len(t, candidates, 4)
	valid := map[string]string{"slot-3": "slot-4", "slot-4": "slot-5"}
	for _, c := range candidates {
		require.NotNil(t, c.SecondTimeslotID)
		assert.Equal(t, valid[c.TimeslotID], *c.SecondTimeslotID)
	}
}

func TestGenerateBlockedTimeScopes(t *testing.T) {
	rooms := []models.Room{{ID: "room-1", RoomType: models.RoomTypeLectureRoom}}
	cfg := testConfig()
	cfg.AllowedDays = []models.Day{models.DayMonday}
	level := "300"
	lecturer := "lect-1"
	blocked := []models.BlockedTime{
		{Scope: models.BlockScopeGlobal, Day: models.DayMonday, TimeslotID: "slot-1"},
		{Scope: models.BlockScopeLevel, ScopeID: &level, Day: models.DayMonday, TimeslotID: "slot-2"},
		{Scope: models.BlockScopeLecturer, ScopeID: &lecturer, Day: models.DayMonday, TimeslotID: "slot-3"},
		{Scope: models.BlockScopeRoom, ScopeID: strPtr("room-1"), Day: models.DayMonday, TimeslotID: "slot-4"},
	}
	gen := NewCandidateGenerator(cfg, testSlots(5), rooms, blocked)

	event := models.Event{ID: "event-1", LecturerID: &lecturer, DurationSlots: 1, RoomTypeRequired: models.RoomTypeLectureRoom}
	candidates := gen.Generate(event, 300)

	require.Len(t, candidates, 1)
	assert.Equal(t, "slot-5", candidates[0].TimeslotID)

	// A different level and lecturer only hit the global and room blocks.
	other := models.Event{ID: "event-2", LecturerID: strPtr("lect-2"), DurationSlots: 1, RoomTypeRequired: models.RoomTypeLectureRoom}
	candidates = gen.Generate(other, 400)
	assert.Len(t, candidates, 3)
}

func TestGenerateDurationTwoBlockedSecondSlot(t *testing.T) {
	rooms := []models.Room{{ID: "lab-1", RoomType: models.RoomTypeLab}}
	cfg := testConfig()
	cfg.AllowedDays = []models.Day{models.DayMonday}
	blocked := []models.BlockedTime{
		{Scope: models.BlockScopeGlobal, Day: models.DayMonday, TimeslotID: "slot-4"},
	}
	gen := NewCandidateGenerator(cfg, testSlots(5), rooms, blocked)

	event := models.Event{ID: "event-1", DurationSlots: 2, RoomTypeRequired: models.RoomTypeLab}
	// slot-4 participates in both configured pairs, so blocking it removes
	// every candidate.
	assert.Empty(t, gen.Generate(event, 300))
}

func TestResolveSlotLabelFallbacks(t *testing.T) {
	slots := []models.TimeSlot{
		{ID: "slot-1", Label: "Period 1 (08:00)", SortOrder: 1},
		{ID: "slot-2", Label: "Period 2 (09:00)", SortOrder: 2},
	}

	byContains, ok := resolveSlotLabel(slots, "Period 2")
	require.True(t, ok)
	assert.Equal(t, "slot-2", byContains.ID)

	bySortOrder, ok := resolveSlotLabel(slots, "TS1")
	require.True(t, ok)
	assert.Equal(t, "slot-1", bySortOrder.ID)

	_, ok = resolveSlotLabel(slots, "TS9")
	assert.False(t, ok)
}
