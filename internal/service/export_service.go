package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/models"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
	"github.com/dayo-ade/uniplan-api/pkg/export"
)

type exportRunRepository interface {
	FindByID(ctx context.Context, runID string) (models.ScheduleRun, error)
	ListScheduled(ctx context.Context, runID string) ([]models.ScheduledEvent, error)
	ListUnscheduled(ctx context.Context, runID string) ([]models.UnscheduledEvent, error)
}

type exportEventRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.Event, error)
}

type exportOfferingRepository interface {
	ListAllBySession(ctx context.Context, sessionID string) ([]models.CourseOffering, error)
}

type exportLecturerRepository interface {
	ListAll(ctx context.Context) ([]models.Lecturer, error)
}

type exportTimeslotRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.TimeSlot, error)
}

type exportRoomRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.Room, error)
}

type timetableViewCache interface {
	GetTimetable(ctx context.Context, runID string) (*dto.TimetableView, error)
	SetTimetable(ctx context.Context, view *dto.TimetableView, ttl time.Duration) error
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type timetableRenderer interface {
	RenderTimetable(grid export.TimetableGrid) ([]byte, error)
}

// ExportService builds timetable views for completed runs and renders them as
// CSV or PDF. Views are cached per run; the allocator invalidates the cache
// when a session gets a new run.
type ExportService struct {
	runs      exportRunRepository
	events    exportEventRepository
	offerings exportOfferingRepository
	lecturers exportLecturerRepository
	timeslots exportTimeslotRepository
	rooms     exportRoomRepository
	cache     timetableViewCache
	csv       csvRenderer
	pdf       timetableRenderer
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewExportService constructs an ExportService. cache may be nil.
func NewExportService(
	runs exportRunRepository,
	events exportEventRepository,
	offerings exportOfferingRepository,
	lecturers exportLecturerRepository,
	timeslots exportTimeslotRepository,
	rooms exportRoomRepository,
	cache timetableViewCache,
	csv csvRenderer,
	pdf timetableRenderer,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &ExportService{
		runs:      runs,
		events:    events,
		offerings: offerings,
		lecturers: lecturers,
		timeslots: timeslots,
		rooms:     rooms,
		cache:     cache,
		csv:       csv,
		pdf:       pdf,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// Timetable returns the denormalized timetable for a completed run, serving
// from cache when possible.
func (s *ExportService) Timetable(ctx context.Context, runID string) (*dto.TimetableView, error) {
	if s.cache != nil {
		if view, err := s.cache.GetTimetable(ctx, runID); err == nil && view != nil {
			return view, nil
		}
	}

	view, err := s.buildTimetable(ctx, runID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetTimetable(ctx, view, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache timetable", zap.String("run_id", runID), zap.Error(err))
		}
	}
	return view, nil
}

// TimetableCSV renders the run's placements as a flat CSV document.
func (s *ExportService) TimetableCSV(ctx context.Context, runID string) ([]byte, error) {
	view, err := s.Timetable(ctx, runID)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"course_code", "course_title", "level", "lecturer", "day", "timeslot", "room"},
	}
	for _, entry := range view.Entries {
		dataset.Rows = append(dataset.Rows, []string{
			entry.CourseCode,
			entry.CourseTitle,
			strconv.Itoa(entry.Level),
			entry.LecturerName,
			string(entry.Day),
			entry.TimeslotLabel,
			entry.RoomName,
		})
	}
	return s.csv.Render(dataset)
}

// TimetablePDF renders the run as a landscape week grid, one page per level.
func (s *ExportService) TimetablePDF(ctx context.Context, runID string) ([]byte, error) {
	view, err := s.Timetable(ctx, runID)
	if err != nil {
		return nil, err
	}
	slots, err := s.timeslots.ListBySession(ctx, view.SessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time slots")
	}

	days := []string{}
	seenDays := map[string]struct{}{}
	for _, d := range []models.Day{models.DayMonday, models.DayTuesday, models.DayWednesday, models.DayThursday, models.DayFriday, models.DaySaturday} {
		for _, entry := range view.Entries {
			if entry.Day == d {
				if _, ok := seenDays[string(d)]; !ok {
					seenDays[string(d)] = struct{}{}
					days = append(days, string(d))
				}
				break
			}
		}
	}
	if len(days) == 0 {
		days = []string{string(models.DayMonday)}
	}

	labelByID := make(map[string]string, len(slots))
	slotLabels := make([]string, 0, len(slots))
	for _, slot := range slots {
		labelByID[slot.ID] = slot.Label
		slotLabels = append(slotLabels, slot.Label)
	}

	grid := export.TimetableGrid{
		Title: "Timetable " + view.RunID,
		Days:  days,
		Slots: slotLabels,
		Cells: make(map[string]string),
	}
	for _, entry := range view.Entries {
		key := string(entry.Day) + "|" + entry.TimeslotLabel
		cell := fmt.Sprintf("%s (%s)", entry.CourseCode, entry.RoomName)
		if existing, ok := grid.Cells[key]; ok {
			cell = existing + " / " + cell
		}
		grid.Cells[key] = cell
		if entry.SecondTimeslotID != nil {
			second := string(entry.Day) + "|" + labelByID[*entry.SecondTimeslotID]
			grid.Cells[second] = cell
		}
	}
	return s.pdf.RenderTimetable(grid)
}

// UnscheduledCSV renders the run's unplaced events with their reasons.
func (s *ExportService) UnscheduledCSV(ctx context.Context, runID string) ([]byte, error) {
	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "run not found")
	}
	unscheduled, err := s.runs.ListUnscheduled(ctx, runID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list unscheduled events")
	}
	offerings, events, err := s.loadOfferingIndex(ctx, run.SessionID)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: []string{"course_code", "course_title", "event_index", "reason"}}
	for _, u := range unscheduled {
		event := events[u.EventID]
		offering := offerings[event.OfferingID]
		dataset.Rows = append(dataset.Rows, []string{
			offering.CourseCode,
			offering.OriginalTitle,
			strconv.Itoa(event.EventIndex),
			u.Reason,
		})
	}
	return s.csv.Render(dataset)
}

func (s *ExportService) buildTimetable(ctx context.Context, runID string) (*dto.TimetableView, error) {
	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "run not found")
	}
	if run.Status != models.RunStatusCompleted {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "run has not completed")
	}

	scheduled, err := s.runs.ListScheduled(ctx, runID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scheduled events")
	}
	offerings, events, err := s.loadOfferingIndex(ctx, run.SessionID)
	if err != nil {
		return nil, err
	}
	slots, err := s.timeslots.ListBySession(ctx, run.SessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time slots")
	}
	rooms, err := s.rooms.ListBySession(ctx, run.SessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	lecturers, err := s.lecturers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lecturers")
	}

	slotByID := make(map[string]models.TimeSlot, len(slots))
	for _, slot := range slots {
		slotByID[slot.ID] = slot
	}
	roomByID := make(map[string]models.Room, len(rooms))
	for _, room := range rooms {
		roomByID[room.ID] = room
	}
	lecturerByID := make(map[string]models.Lecturer, len(lecturers))
	for _, lecturer := range lecturers {
		lecturerByID[lecturer.ID] = lecturer
	}

	view := &dto.TimetableView{RunID: runID, SessionID: run.SessionID}
	for _, placed := range scheduled {
		event := events[placed.EventID]
		offering := offerings[event.OfferingID]
		entry := dto.TimetableEntry{
			EventID:          placed.EventID,
			OfferingID:       event.OfferingID,
			CourseCode:       offering.CourseCode,
			CourseTitle:      offering.OriginalTitle,
			Level:            offering.Level,
			Day:              placed.Day,
			TimeslotID:       placed.TimeslotID,
			TimeslotLabel:    slotByID[placed.TimeslotID].Label,
			SecondTimeslotID: placed.SecondTimeslotID,
			RoomID:           placed.RoomID,
			RoomName:         roomByID[placed.RoomID].Name,
		}
		if event.LecturerID != nil {
			entry.LecturerName = lecturerByID[*event.LecturerID].FullName
		}
		view.Entries = append(view.Entries, entry)
	}

	sort.SliceStable(view.Entries, func(i, j int) bool {
		if view.Entries[i].Day != view.Entries[j].Day {
			return view.Entries[i].Day < view.Entries[j].Day
		}
		si := slotByID[view.Entries[i].TimeslotID].SortOrder
		sj := slotByID[view.Entries[j].TimeslotID].SortOrder
		if si != sj {
			return si < sj
		}
		return view.Entries[i].CourseCode < view.Entries[j].CourseCode
	})
	return view, nil
}

func (s *ExportService) loadOfferingIndex(ctx context.Context, sessionID string) (map[string]models.CourseOffering, map[string]models.Event, error) {
	offeringList, err := s.offerings.ListAllBySession(ctx, sessionID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list offerings")
	}
	eventList, err := s.events.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}

	offerings := make(map[string]models.CourseOffering, len(offeringList))
	for _, o := range offeringList {
		offerings[o.ID] = o
	}
	events := make(map[string]models.Event, len(eventList))
	for _, e := range eventList {
		events[e.ID] = e
	}
	return offerings, events, nil
}
