package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/models"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
)

type stubExportRunRepo struct {
	run         models.ScheduleRun
	findErr     error
	scheduled   []models.ScheduledEvent
	unscheduled []models.UnscheduledEvent
}

func (r *stubExportRunRepo) FindByID(_ context.Context, _ string) (models.ScheduleRun, error) {
	return r.run, r.findErr
}

func (r *stubExportRunRepo) ListScheduled(_ context.Context, _ string) ([]models.ScheduledEvent, error) {
	return r.scheduled, nil
}

func (r *stubExportRunRepo) ListUnscheduled(_ context.Context, _ string) ([]models.UnscheduledEvent, error) {
	return r.unscheduled, nil
}

type stubExportEventRepo struct{ events []models.Event }

func (r *stubExportEventRepo) ListBySession(_ context.Context, _ string) ([]models.Event, error) {
	return r.events, nil
}

type stubExportOfferingRepo struct{ offerings []models.CourseOffering }

func (r *stubExportOfferingRepo) ListAllBySession(_ context.Context, _ string) ([]models.CourseOffering, error) {
	return r.offerings, nil
}

type stubExportLecturerRepo struct{ lecturers []models.Lecturer }

func (r *stubExportLecturerRepo) ListAll(_ context.Context) ([]models.Lecturer, error) {
	return r.lecturers, nil
}

type stubExportTimeslotRepo struct{ slots []models.TimeSlot }

func (r *stubExportTimeslotRepo) ListBySession(_ context.Context, _ string) ([]models.TimeSlot, error) {
	return r.slots, nil
}

type stubExportRoomRepo struct{ rooms []models.Room }

func (r *stubExportRoomRepo) ListBySession(_ context.Context, _ string) ([]models.Room, error) {
	return r.rooms, nil
}

type stubTimetableCache struct {
	views map[string]*dto.TimetableView
	sets  int
}

func (c *stubTimetableCache) GetTimetable(_ context.Context, runID string) (*dto.TimetableView, error) {
	view, ok := c.views[runID]
	if !ok {
		return nil, appErrors.ErrCacheMiss
	}
	return view, nil
}

func (c *stubTimetableCache) SetTimetable(_ context.Context, view *dto.TimetableView, _ time.Duration) error {
	c.sets++
	c.views[view.RunID] = view
	return nil
}

func lecturerIDPtr(id string) *string { return &id }

func newExportFixture(runs *stubExportRunRepo, cache *stubTimetableCache) *ExportService {
	events := &stubExportEventRepo{events: []models.Event{
		{ID: "event-1", SessionID: "session-1", OfferingID: "off-1", LecturerID: lecturerIDPtr("lect-1"), EventIndex: 1},
		{ID: "event-2", SessionID: "session-1", OfferingID: "off-1", LecturerID: lecturerIDPtr("lect-1"), EventIndex: 2},
	}}
	offerings := &stubExportOfferingRepo{offerings: []models.CourseOffering{
		{ID: "off-1", SessionID: "session-1", CourseCode: "CSC 301", OriginalTitle: "Algorithms", Level: 300},
	}}
	lecturers := &stubExportLecturerRepo{lecturers: []models.Lecturer{
		{ID: "lect-1", FullName: "A. Bello"},
	}}
	slots := &stubExportTimeslotRepo{slots: []models.TimeSlot{
		{ID: "TS1", SessionID: "session-1", Label: "08:00-09:00", SortOrder: 1},
		{ID: "TS2", SessionID: "session-1", Label: "09:00-10:00", SortOrder: 2},
	}}
	rooms := &stubExportRoomRepo{rooms: []models.Room{
		{ID: "room-1", SessionID: "session-1", Name: "LT-A"},
	}}

	var cacheArg timetableViewCache
	if cache != nil {
		cacheArg = cache
	}
	return NewExportService(runs, events, offerings, lecturers, slots, rooms, cacheArg, nil, nil, zapTestLogger(), time.Minute)
}

func completedRunRepo() *stubExportRunRepo {
	return &stubExportRunRepo{
		run: models.ScheduleRun{ID: "run-1", SessionID: "session-1", Status: models.RunStatusCompleted},
		scheduled: []models.ScheduledEvent{
			{EventID: "event-2", Day: models.DayMonday, TimeslotID: "TS2", RoomID: "room-1"},
			{EventID: "event-1", Day: models.DayMonday, TimeslotID: "TS1", RoomID: "room-1"},
		},
		unscheduled: []models.UnscheduledEvent{
			{EventID: "event-2", Reason: "no feasible slot/room combination"},
		},
	}
}

func TestExportTimetableSortsAndDenormalizes(t *testing.T) {
	service := newExportFixture(completedRunRepo(), nil)

	view, err := service.Timetable(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", view.SessionID)
	require.Len(t, view.Entries, 2)

	assert.Equal(t, "TS1", view.Entries[0].TimeslotID)
	assert.Equal(t, "TS2", view.Entries[1].TimeslotID)

	first := view.Entries[0]
	assert.Equal(t, "CSC 301", first.CourseCode)
	assert.Equal(t, "Algorithms", first.CourseTitle)
	assert.Equal(t, "08:00-09:00", first.TimeslotLabel)
	assert.Equal(t, "LT-A", first.RoomName)
	assert.Equal(t, "A. Bello", first.LecturerName)
}

func TestExportTimetableRejectsIncompleteRun(t *testing.T) {
	runs := completedRunRepo()
	runs.run.Status = models.RunStatusRunning
	service := newExportFixture(runs, nil)

	_, err := service.Timetable(context.Background(), "run-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)

	_, err = service.TimetableCSV(context.Background(), "run-1")
	require.Error(t, err)
}

func TestExportTimetableCSVRendersRows(t *testing.T) {
	service := newExportFixture(completedRunRepo(), nil)

	payload, err := service.TimetableCSV(context.Background(), "run-1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "course_code,course_title,level,lecturer,day,timeslot,room", lines[0])
	assert.Equal(t, "CSC 301,Algorithms,300,A. Bello,MON,08:00-09:00,LT-A", lines[1])
}

func TestExportUnscheduledCSVIncludesReason(t *testing.T) {
	service := newExportFixture(completedRunRepo(), nil)

	payload, err := service.UnscheduledCSV(context.Background(), "run-1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "course_code,course_title,event_index,reason", lines[0])
	assert.Equal(t, "CSC 301,Algorithms,2,no feasible slot/room combination", lines[1])
}

func TestExportTimetablePDFNonEmpty(t *testing.T) {
	service := newExportFixture(completedRunRepo(), nil)

	payload, err := service.TimetablePDF(context.Background(), "run-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportTimetableServedFromCache(t *testing.T) {
	runs := completedRunRepo()
	runs.findErr = assert.AnError
	cache := &stubTimetableCache{views: map[string]*dto.TimetableView{
		"run-1": {RunID: "run-1", SessionID: "session-1", Entries: []dto.TimetableEntry{{EventID: "event-1"}}},
	}}
	service := newExportFixture(runs, cache)

	view, err := service.Timetable(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "event-1", view.Entries[0].EventID)
}

func TestExportTimetablePopulatesCache(t *testing.T) {
	cache := &stubTimetableCache{views: map[string]*dto.TimetableView{}}
	service := newExportFixture(completedRunRepo(), cache)

	_, err := service.Timetable(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Contains(t, cache.views, "run-1")
}
