package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/models"
)

func singleSlotConfig() models.ConstraintsConfig {
	cfg := models.DefaultConstraints()
	cfg.AllowedDays = []models.Day{models.DayMonday}
	cfg.ConsecutivePairs = nil
	return cfg
}

func lectureEvent(id, offeringID string, lecturerID *string) models.Event {
	return models.Event{
		ID:               id,
		SessionID:        "session-1",
		OfferingID:       offeringID,
		LecturerID:       lecturerID,
		DurationSlots:    1,
		RoomTypeRequired: models.RoomTypeLectureRoom,
	}
}

func allocInput(events []models.Event, slots []models.TimeSlot, rooms []models.Room, blocked []models.BlockedTime, locks []models.Lock) allocationInput {
	offerings := make(map[string]models.CourseOffering)
	for _, e := range events {
		offerings[e.OfferingID] = models.CourseOffering{ID: e.OfferingID, Level: 300}
	}
	return allocationInput{
		events:    events,
		offerings: offerings,
		timeslots: slots,
		rooms:     rooms,
		blocked:   blocked,
		locks:     locks,
	}
}

func TestAllocateSingleEventSingleSlot(t *testing.T) {
	slots := testSlots(1)
	rooms := []models.Room{{ID: "room-1", RoomType: models.RoomTypeLectureRoom}}
	events := []models.Event{lectureEvent("event-1", "off-1", strPtr("lect-1"))}

	result := allocate(singleSlotConfig(), 25, allocInput(events, slots, rooms, nil, nil))

	require.Len(t, result.placements, 1)
	assert.Empty(t, result.unplaced)
	placed := result.placements[0]
	assert.Equal(t, models.DayMonday, placed.candidate.Day)
	assert.Equal(t, "slot-1", placed.candidate.TimeslotID)
	assert.Equal(t, "room-1", placed.candidate.RoomID)
}

func TestAllocateGlobalBlockLeavesNoSlots(t *testing.T) {
	slots := testSlots(1)
	rooms := []models.Room{{ID: "room-1", RoomType: models.RoomTypeLectureRoom}}
	events := []models.Event{lectureEvent("event-1", "off-1", strPtr("lect-1"))}
	blocked := []models.BlockedTime{{Scope: models.BlockScopeGlobal, Day: models.DayMonday, TimeslotID: "slot-1"}}

	result := allocate(singleSlotConfig(), 25, allocInput(events, slots, rooms, blocked, nil))

	assert.Empty(t, result.placements)
	require.Len(t, result.unplaced, 1)
	assert.Equal(t, reasonNoSlots, result.unplaced[0].reason)
}

func TestAllocateMissingRoomType(t *testing.T) {
	slots := testSlots(1)
	rooms := []models.Room{{ID: "room-1", RoomType: models.RoomTypeLectureRoom}}
	lab := models.Event{
		ID: "event-1", SessionID: "session-1", OfferingID: "off-1",
		DurationSlots: 2, RoomTypeRequired: models.RoomTypeLab,
	}

	result := allocate(singleSlotConfig(), 25, allocInput([]models.Event{lab}, slots, rooms, nil, nil))

	require.Len(t, result.unplaced, 1)
	assert.Equal(t, reasonNoRoomType, result.unplaced[0].reason)
}

func TestAllocateLecturerContentionNeverDoubleBooks(t *testing.T) {
	slots := testSlots(1)
	rooms := []models.Room{
		{ID: "room-1", RoomType: models.RoomTypeLectureRoom},
		{ID: "room-2", RoomType: models.RoomTypeLectureRoom},
	}
	lecturer := strPtr("lect-1")
	events := []models.Event{
		lectureEvent("event-1", "off-1", lecturer),
		lectureEvent("event-2", "off-2", lecturer),
	}
	input := allocInput(events, slots, rooms, nil, nil)
	input.offerings["off-2"] = models.CourseOffering{ID: "off-2", Level: 400}

	result := allocate(singleSlotConfig(), 25, input)

	// Two rooms, one slot, one lecturer: exactly one event fits.
	require.Len(t, result.placements, 1)
	require.Len(t, result.unplaced, 1)
	assert.Equal(t, reasonNoFeasible, result.unplaced[0].reason)
}

func TestAllocateDurationTwoUsesConfiguredPairs(t *testing.T) {
	cfg := models.DefaultConstraints()
	cfg.AllowedDays = []models.Day{models.DayMonday}
	cfg.ConsecutivePairs = [][2]string{{"TS3", "TS4"}}
	slots := testSlots(5)
	rooms := []models.Room{{ID: "lab-1", RoomType: models.RoomTypeLab}}
	lab := models.Event{
		ID: "event-1", SessionID: "session-1", OfferingID: "off-1",
		DurationSlots: 2, RoomTypeRequired: models.RoomTypeLab,
	}

	result := allocate(cfg, 25, allocInput([]models.Event{lab}, slots, rooms, nil, nil))

	require.Len(t, result.placements, 1)
	placed := result.placements[0]
	assert.Equal(t, "slot-3", placed.candidate.TimeslotID)
	require.NotNil(t, placed.candidate.SecondTimeslotID)
	assert.Equal(t, "slot-4", *placed.candidate.SecondTimeslotID)
}

func TestAllocateLockedEventImmovable(t *testing.T) {
	slots := testSlots(2)
	rooms := []models.Room{{ID: "room-1", RoomType: models.RoomTypeLectureRoom}}
	lecturer := strPtr("lect-1")
	events := []models.Event{
		lectureEvent("event-1", "off-1", lecturer),
		lectureEvent("event-2", "off-2", lecturer),
	}
	locks := []models.Lock{{
		EventID: "event-1", Day: models.DayMonday, TimeslotID: "slot-1", RoomID: "room-1",
	}}
	input := allocInput(events, slots, rooms, nil, locks)

	result := allocate(singleSlotConfig(), 25, input)

	require.Len(t, result.placements, 2)
	assert.True(t, result.placements[0].locked)
	assert.Equal(t, "event-1", result.placements[0].event.ID)
	assert.Equal(t, "slot-1", result.placements[0].candidate.TimeslotID)

	// The free event avoids the locked lecturer slot.
	assert.Equal(t, "event-2", result.placements[1].event.ID)
	assert.Equal(t, "slot-2", result.placements[1].candidate.TimeslotID)
}

func TestAllocateStaleLockSkipped(t *testing.T) {
	slots := testSlots(1)
	rooms := []models.Room{{ID: "room-1", RoomType: models.RoomTypeLectureRoom}}
	events := []models.Event{lectureEvent("event-1", "off-1", nil)}
	locks := []models.Lock{{
		EventID: "event-gone", Day: models.DayMonday, TimeslotID: "slot-1", RoomID: "room-1",
	}}

	result := allocate(singleSlotConfig(), 25, allocInput(events, slots, rooms, nil, locks))

	// The stale lock is ignored entirely: it neither schedules nor blocks.
	require.Len(t, result.placements, 1)
	assert.Equal(t, "event-1", result.placements[0].event.ID)
}

func TestAllocateDifficultyOrdersLabsFirst(t *testing.T) {
	cfg := models.DefaultConstraints()
	cfg.AllowedDays = []models.Day{models.DayMonday}
	cfg.ConsecutivePairs = [][2]string{{"TS1", "TS2"}}
	slots := testSlots(2)
	rooms := []models.Room{
		{ID: "room-1", RoomType: models.RoomTypeLectureRoom},
		{ID: "lab-1", RoomType: models.RoomTypeLab},
	}
	lecturer := strPtr("lect-1")
	lecture := lectureEvent("event-lecture", "off-1", lecturer)
	lab := models.Event{
		ID: "event-lab", SessionID: "session-1", OfferingID: "off-2",
		LecturerID: lecturer, DurationSlots: 2, RoomTypeRequired: models.RoomTypeLab,
	}
	input := allocInput([]models.Event{lecture, lab}, slots, rooms, nil, nil)
	input.offerings["off-2"] = models.CourseOffering{ID: "off-2", Level: 300}

	result := allocate(cfg, 25, input)

	// The lab is harder (lab bonus + duration bonus + fewer candidates) and
	// claims the lecturer's two slots; the lecture then has nowhere to go.
	require.Len(t, result.placements, 1)
	assert.Equal(t, "event-lab", result.placements[0].event.ID)
	require.Len(t, result.unplaced, 1)
	assert.Equal(t, "event-lecture", result.unplaced[0].event.ID)
}

func TestAllocateDeterministic(t *testing.T) {
	cfg := models.DefaultConstraints()
	cfg.AllowedDays = []models.Day{models.DayMonday, models.DayTuesday, models.DayWednesday}
	slots := testSlots(4)
	rooms := []models.Room{
		{ID: "room-1", RoomType: models.RoomTypeLectureRoom},
		{ID: "room-2", RoomType: models.RoomTypeLectureRoom},
	}
	var events []models.Event
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		events = append(events, lectureEvent("event-"+id, "off-"+id, strPtr("lect-"+id)))
	}
	input := allocInput(events, slots, rooms, nil, nil)

	first := allocate(cfg, 25, input)
	for i := 0; i < 5; i++ {
		again := allocate(cfg, 25, allocInput(events, slots, rooms, nil, nil))
		require.Equal(t, len(first.placements), len(again.placements))
		for j := range first.placements {
			assert.Equal(t, first.placements[j].event.ID, again.placements[j].event.ID)
			assert.Equal(t, first.placements[j].candidate, again.placements[j].candidate)
		}
		assert.Equal(t, first.softScore, again.softScore)
	}
}

func TestAllocateNoSharedDayTimeslotPerAxis(t *testing.T) {
	cfg := models.DefaultConstraints()
	cfg.AllowedDays = []models.Day{models.DayMonday}
	slots := testSlots(3)
	rooms := []models.Room{
		{ID: "room-1", RoomType: models.RoomTypeLectureRoom},
		{ID: "room-2", RoomType: models.RoomTypeLectureRoom},
	}
	lecturer := strPtr("lect-1")
	var events []models.Event
	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		events = append(events, lectureEvent("event-"+id, "off-"+id, lecturer))
	}
	input := allocInput(events, slots, rooms, nil, nil)

	result := allocate(cfg, 25, input)

	type axisKey struct{ axis, id, slot string }
	seen := make(map[axisKey]bool)
	for _, p := range result.placements {
		for _, key := range p.candidate.SlotKeys() {
			lect := axisKey{"lecturer", *p.event.LecturerID, key}
			room := axisKey{"room", p.candidate.RoomID, key}
			assert.False(t, seen[lect], "lecturer double-booked at %s", key)
			assert.False(t, seen[room], "room double-booked at %s", key)
			seen[lect] = true
			seen[room] = true
		}
	}
	// One lecturer, three slots: at most three placements.
	assert.Len(t, result.placements, 3)
	assert.Len(t, result.unplaced, 3)
}

type stubRunRepo struct {
	created     *models.ScheduleRun
	scheduled   []models.ScheduledEvent
	unscheduled []models.UnscheduledEvent
	completed   bool
	failMessage string
}

func (r *stubRunRepo) Create(_ context.Context, run models.ScheduleRun) (models.ScheduleRun, error) {
	run.ID = "run-1"
	r.created = &run
	return run, nil
}

func (r *stubRunRepo) SaveResults(_ context.Context, _ string, scheduled []models.ScheduledEvent, unscheduled []models.UnscheduledEvent) error {
	r.scheduled = scheduled
	r.unscheduled = unscheduled
	return nil
}

func (r *stubRunRepo) Complete(_ context.Context, _ string, scheduledCount, unscheduledCount int, softScore float64) error {
	r.completed = true
	r.created.ScheduledCount = scheduledCount
	r.created.UnscheduledCount = unscheduledCount
	r.created.SoftScore = softScore
	return nil
}

func (r *stubRunRepo) Fail(_ context.Context, _ string, message string) error {
	r.failMessage = message
	return nil
}

func (r *stubRunRepo) FindByID(_ context.Context, _ string) (models.ScheduleRun, error) {
	return *r.created, nil
}

func (r *stubRunRepo) ListBySession(_ context.Context, _ string) ([]models.ScheduleRun, error) {
	return []models.ScheduleRun{*r.created}, nil
}

func (r *stubRunRepo) ListScheduled(_ context.Context, _ string) ([]models.ScheduledEvent, error) {
	return r.scheduled, nil
}

func (r *stubRunRepo) ListUnscheduled(_ context.Context, _ string) ([]models.UnscheduledEvent, error) {
	return r.unscheduled, nil
}

type stubEventLister struct{ events []models.Event }

func (r *stubEventLister) ListBySession(_ context.Context, _ string) ([]models.Event, error) {
	return r.events, nil
}

type stubOfferingLister struct{ offerings []models.CourseOffering }

func (r *stubOfferingLister) ListAllBySession(_ context.Context, _ string) ([]models.CourseOffering, error) {
	return r.offerings, nil
}

type stubTimeslotLister struct{ slots []models.TimeSlot }

func (r *stubTimeslotLister) ListBySession(_ context.Context, _ string) ([]models.TimeSlot, error) {
	return r.slots, nil
}

type stubRoomLister struct{ rooms []models.Room }

func (r *stubRoomLister) ListBySession(_ context.Context, _ string) ([]models.Room, error) {
	return r.rooms, nil
}

type stubBlockedLister struct{ blocked []models.BlockedTime }

func (r *stubBlockedLister) ListBySession(_ context.Context, _ string) ([]models.BlockedTime, error) {
	return r.blocked, nil
}

type stubLockLister struct{ locks []models.Lock }

func (r *stubLockLister) ListBySession(_ context.Context, _ string) ([]models.Lock, error) {
	return r.locks, nil
}

func TestGenerateRunPersistsResults(t *testing.T) {
	cfg := singleSlotConfig()
	runs := &stubRunRepo{}
	service := NewAllocatorService(
		&stubEventLister{events: []models.Event{lectureEvent("event-1", "off-1", strPtr("lect-1"))}},
		&stubOfferingLister{offerings: []models.CourseOffering{{ID: "off-1", Level: 300}}},
		&stubTimeslotLister{slots: testSlots(1)},
		&stubRoomLister{rooms: []models.Room{{ID: "room-1", RoomType: models.RoomTypeLectureRoom}}},
		&stubBlockedLister{},
		&stubLockLister{},
		runs,
		&stubConstraintsProvider{cfg: cfg},
		nil,
		nil,
		newTestValidator(),
		zapTestLogger(),
		25,
	)

	summary, err := service.GenerateRun(context.Background(), dto.GenerateRunRequest{SessionID: "session-1"})
	require.NoError(t, err)

	assert.True(t, runs.completed)
	assert.Empty(t, runs.failMessage)
	assert.Equal(t, models.RunStatusCompleted, summary.Run.Status)
	assert.Equal(t, cfg.Defaults.CandidateLimitPerEvent, summary.Run.CandidateLimit)
	require.Len(t, summary.Scheduled, 1)
	assert.Equal(t, "run-1", summary.Scheduled[0].RunID)
	assert.Equal(t, "event-1", summary.Scheduled[0].EventID)
	assert.Empty(t, summary.Unscheduled)
}
