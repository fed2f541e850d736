package service

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/models"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
)

const (
	reasonNoSlots     = "No valid time slots or rooms available"
	reasonNoFeasible  = "No feasible candidates (all slots blocked or conflicting)"
	reasonNoRoomType  = "No suitable room type available"
	reasonAllConflict = "All candidate placements conflict with existing schedule"
)

type allocatorEventRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.Event, error)
}

type allocatorOfferingRepository interface {
	ListAllBySession(ctx context.Context, sessionID string) ([]models.CourseOffering, error)
}

type allocatorTimeslotRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.TimeSlot, error)
}

type allocatorRoomRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.Room, error)
}

type allocatorBlockedTimeRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.BlockedTime, error)
}

type allocatorLockRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.Lock, error)
}

type allocatorRunRepository interface {
	Create(ctx context.Context, run models.ScheduleRun) (models.ScheduleRun, error)
	SaveResults(ctx context.Context, runID string, scheduled []models.ScheduledEvent, unscheduled []models.UnscheduledEvent) error
	Complete(ctx context.Context, runID string, scheduledCount, unscheduledCount int, softScore float64) error
	Fail(ctx context.Context, runID, message string) error
	FindByID(ctx context.Context, runID string) (models.ScheduleRun, error)
	ListBySession(ctx context.Context, sessionID string) ([]models.ScheduleRun, error)
	ListScheduled(ctx context.Context, runID string) ([]models.ScheduledEvent, error)
	ListUnscheduled(ctx context.Context, runID string) ([]models.UnscheduledEvent, error)
}

type timetableCache interface {
	InvalidateSession(ctx context.Context, sessionID string) error
}

type allocatorMetrics interface {
	ObserveRun(status models.RunStatus, seconds float64)
}

// AllocatorService orchestrates a full allocation run: it loads one session's
// events and resources, runs the greedy placement pipeline in memory, and
// persists the outcome. A run either completes or fails outright; there is no
// partial state.
type AllocatorService struct {
	events       allocatorEventRepository
	offerings    allocatorOfferingRepository
	timeslots    allocatorTimeslotRepository
	rooms        allocatorRoomRepository
	blockedTimes allocatorBlockedTimeRepository
	locks        allocatorLockRepository
	runs         allocatorRunRepository
	constraints  constraintsProvider
	cache        timetableCache
	metrics      allocatorMetrics
	validate     *validator.Validate
	logger       *zap.Logger
	defaultLimit int
}

// NewAllocatorService wires the allocator. cache and metrics may be nil.
func NewAllocatorService(
	events allocatorEventRepository,
	offerings allocatorOfferingRepository,
	timeslots allocatorTimeslotRepository,
	rooms allocatorRoomRepository,
	blockedTimes allocatorBlockedTimeRepository,
	locks allocatorLockRepository,
	runs allocatorRunRepository,
	constraints constraintsProvider,
	cache timetableCache,
	metrics allocatorMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
	defaultCandidateLimit int,
) *AllocatorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocatorService{
		events:       events,
		offerings:    offerings,
		timeslots:    timeslots,
		rooms:        rooms,
		blockedTimes: blockedTimes,
		locks:        locks,
		runs:         runs,
		constraints:  constraints,
		cache:        cache,
		metrics:      metrics,
		validate:     validate,
		logger:       logger,
		defaultLimit: defaultCandidateLimit,
	}
}

// GenerateRun executes one allocation run for the session and returns the run
// row with its scheduled and unscheduled sets.
func (s *AllocatorService) GenerateRun(ctx context.Context, req dto.GenerateRunRequest) (*dto.RunSummary, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid run request")
	}

	cfg, err := s.constraints.GetOrDefault(ctx, req.SessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraints")
	}
	limit := s.candidateLimit(req.CandidateLimit, cfg)

	run, err := s.runs.Create(ctx, models.ScheduleRun{
		SessionID:      req.SessionID,
		Seed:           req.Seed,
		CandidateLimit: limit,
		Status:         models.RunStatusRunning,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create run")
	}

	start := time.Now()
	input, err := s.loadInput(ctx, req.SessionID)
	if err != nil {
		return nil, s.failRun(ctx, run.ID, err)
	}

	result := allocate(cfg, limit, input)

	scheduled := make([]models.ScheduledEvent, 0, len(result.placements))
	for _, p := range result.placements {
		scheduled = append(scheduled, models.ScheduledEvent{
			RunID:            run.ID,
			EventID:          p.event.ID,
			Day:              p.candidate.Day,
			TimeslotID:       p.candidate.TimeslotID,
			SecondTimeslotID: p.candidate.SecondTimeslotID,
			RoomID:           p.candidate.RoomID,
		})
	}
	unscheduled := make([]models.UnscheduledEvent, 0, len(result.unplaced))
	for _, u := range result.unplaced {
		unscheduled = append(unscheduled, models.UnscheduledEvent{
			RunID:   run.ID,
			EventID: u.event.ID,
			Reason:  u.reason,
		})
	}

	if err := s.runs.SaveResults(ctx, run.ID, scheduled, unscheduled); err != nil {
		return nil, s.failRun(ctx, run.ID, err)
	}
	if err := s.runs.Complete(ctx, run.ID, len(scheduled), len(unscheduled), result.softScore); err != nil {
		return nil, s.failRun(ctx, run.ID, err)
	}
	if s.cache != nil {
		if err := s.cache.InvalidateSession(ctx, req.SessionID); err != nil {
			s.logger.Warn("timetable cache invalidation failed", zap.String("session_id", req.SessionID), zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveRun(models.RunStatusCompleted, time.Since(start).Seconds())
	}

	run.Status = models.RunStatusCompleted
	run.ScheduledCount = len(scheduled)
	run.UnscheduledCount = len(unscheduled)
	run.SoftScore = result.softScore

	s.logger.Info("allocation run completed",
		zap.String("run_id", run.ID),
		zap.String("session_id", req.SessionID),
		zap.Int("scheduled", len(scheduled)),
		zap.Int("unscheduled", len(unscheduled)),
		zap.Float64("soft_score", result.softScore),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &dto.RunSummary{Run: run, Scheduled: scheduled, Unscheduled: unscheduled}, nil
}

// GetRun returns a run with its result sets.
func (s *AllocatorService) GetRun(ctx context.Context, runID string) (*dto.RunSummary, error) {
	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "run not found")
	}
	scheduled, err := s.runs.ListScheduled(ctx, runID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scheduled events")
	}
	unscheduled, err := s.runs.ListUnscheduled(ctx, runID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list unscheduled events")
	}
	return &dto.RunSummary{Run: run, Scheduled: scheduled, Unscheduled: unscheduled}, nil
}

// ListRuns returns the run history for a session, newest first.
func (s *AllocatorService) ListRuns(ctx context.Context, sessionID string) ([]models.ScheduleRun, error) {
	if sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session_id is required")
	}
	runs, err := s.runs.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list runs")
	}
	return runs, nil
}

func (s *AllocatorService) candidateLimit(requested int, cfg models.ConstraintsConfig) int {
	if requested > 0 {
		return requested
	}
	if cfg.Defaults.CandidateLimitPerEvent > 0 {
		return cfg.Defaults.CandidateLimitPerEvent
	}
	return s.defaultLimit
}

func (s *AllocatorService) failRun(ctx context.Context, runID string, cause error) error {
	if err := s.runs.Fail(ctx, runID, cause.Error()); err != nil {
		s.logger.Error("failed to mark run failed", zap.String("run_id", runID), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.ObserveRun(models.RunStatusFailed, 0)
	}
	return appErrors.Wrap(cause, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "allocation run failed")
}

// allocationInput is everything the pure pipeline consumes, fetched once per
// run.
type allocationInput struct {
	events    []models.Event
	offerings map[string]models.CourseOffering
	timeslots []models.TimeSlot
	rooms     []models.Room
	blocked   []models.BlockedTime
	locks     []models.Lock
}

func (s *AllocatorService) loadInput(ctx context.Context, sessionID string) (allocationInput, error) {
	var input allocationInput
	var err error

	if input.events, err = s.events.ListBySession(ctx, sessionID); err != nil {
		return input, err
	}
	offerings, err := s.offerings.ListAllBySession(ctx, sessionID)
	if err != nil {
		return input, err
	}
	input.offerings = make(map[string]models.CourseOffering, len(offerings))
	for _, o := range offerings {
		input.offerings[o.ID] = o
	}
	if input.timeslots, err = s.timeslots.ListBySession(ctx, sessionID); err != nil {
		return input, err
	}
	if input.rooms, err = s.rooms.ListBySession(ctx, sessionID); err != nil {
		return input, err
	}
	if input.blocked, err = s.blockedTimes.ListBySession(ctx, sessionID); err != nil {
		return input, err
	}
	if input.locks, err = s.locks.ListBySession(ctx, sessionID); err != nil {
		return input, err
	}
	return input, nil
}

type placement struct {
	event     models.Event
	candidate Candidate
	penalty   float64
	locked    bool
}

type unplaced struct {
	event  models.Event
	reason string
}

type allocationResult struct {
	placements []placement
	unplaced   []unplaced
	softScore  float64
}

// dayCounters tracks per-day placement counts the soft scorer depends on. An
// event counts once per day regardless of duration.
type dayCounters struct {
	offering map[string]int
	lecturer map[string]int
}

func newDayCounters() *dayCounters {
	return &dayCounters{offering: make(map[string]int), lecturer: make(map[string]int)}
}

func (c *dayCounters) sameOffering(offeringID string, day models.Day) int {
	return c.offering[offeringID+"|"+string(day)]
}

func (c *dayCounters) sameLecturer(lecturerID *string, day models.Day) int {
	if lecturerID == nil {
		return 0
	}
	return c.lecturer[*lecturerID+"|"+string(day)]
}

func (c *dayCounters) record(event models.Event, day models.Day) {
	c.offering[event.OfferingID+"|"+string(day)]++
	if event.LecturerID != nil {
		c.lecturer[*event.LecturerID+"|"+string(day)]++
	}
}

// allocate runs the placement pipeline. It is single-threaded, performs no
// I/O, and is deterministic for fixed inputs: events keep their input order
// through every stable sort and no ranking step iterates an unordered map.
func allocate(cfg models.ConstraintsConfig, candidateLimit int, input allocationInput) allocationResult {
	gen := NewCandidateGenerator(cfg, input.timeslots, input.rooms, input.blocked)
	scorer := NewSoftScorer(cfg, input.timeslots)
	tracker := NewOccupancyTracker()
	counters := newDayCounters()

	eventByID := make(map[string]models.Event, len(input.events))
	for _, e := range input.events {
		eventByID[e.ID] = e
	}

	var result allocationResult

	// Locked events are placed first and never moved. Locks referencing a
	// deleted event are skipped.
	lockedEventIDs := make(map[string]struct{}, len(input.locks))
	for _, lock := range input.locks {
		event, ok := eventByID[lock.EventID]
		if !ok {
			continue
		}
		tracker.SeedLock(lock, event.LecturerID)
		counters.record(event, lock.Day)
		lockedEventIDs[event.ID] = struct{}{}
		result.placements = append(result.placements, placement{
			event: event,
			candidate: Candidate{
				Day:              lock.Day,
				TimeslotID:       lock.TimeslotID,
				SecondTimeslotID: lock.SecondTimeslotID,
				RoomID:           lock.RoomID,
			},
			locked: true,
		})
	}

	lecturerEventCount := make(map[string]int)
	for _, e := range input.events {
		if e.LecturerID != nil {
			lecturerEventCount[*e.LecturerID]++
		}
	}

	type pending struct {
		event      models.Event
		level      int
		candidates []Candidate
		difficulty int
	}
	var queue []pending
	for _, event := range input.events {
		if _, locked := lockedEventIDs[event.ID]; locked {
			continue
		}
		level := input.offerings[event.OfferingID].Level
		candidates := gen.Generate(event, level)
		count := 0
		if event.LecturerID != nil {
			count = lecturerEventCount[*event.LecturerID]
		}
		queue = append(queue, pending{
			event:      event,
			level:      level,
			candidates: candidates,
			difficulty: Difficulty(event, len(candidates), count),
		})
	}
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].difficulty > queue[j].difficulty
	})

	for _, item := range queue {
		feasible := filterFeasible(tracker, item.event, item.level, item.candidates)
		if len(feasible) == 0 {
			result.unplaced = append(result.unplaced, unplaced{
				event:  item.event,
				reason: infeasibleReason(gen, item.event, len(item.candidates)),
			})
			continue
		}

		ranked := rankByPenalty(scorer, counters, item.event, feasible)
		topK := ranked
		if candidateLimit > 0 && len(topK) > candidateLimit {
			topK = topK[:candidateLimit]
		}

		placed, ok := placeFirstFit(tracker, counters, item.event, item.level, topK)
		if !ok {
			// Bounded repair: re-rank the full candidate list against
			// current occupancy and retry once. No prior placement is
			// ever displaced.
			retry := rankByPenalty(scorer, counters, item.event, filterFeasible(tracker, item.event, item.level, item.candidates))
			placed, ok = placeFirstFit(tracker, counters, item.event, item.level, retry)
		}
		if !ok {
			result.unplaced = append(result.unplaced, unplaced{event: item.event, reason: reasonAllConflict})
			continue
		}
		result.placements = append(result.placements, placed)
		result.softScore += placed.penalty
	}

	return result
}

func filterFeasible(tracker *OccupancyTracker, event models.Event, level int, candidates []Candidate) []Candidate {
	feasible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if tracker.CanPlace(event.LecturerID, level, c) {
			feasible = append(feasible, c)
		}
	}
	return feasible
}

type scoredCandidate struct {
	candidate Candidate
	penalty   float64
}

func rankByPenalty(scorer *SoftScorer, counters *dayCounters, event models.Event, candidates []Candidate) []scoredCandidate {
	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, scoredCandidate{
			candidate: c,
			penalty: scorer.Penalty(c,
				counters.sameOffering(event.OfferingID, c.Day),
				counters.sameLecturer(event.LecturerID, c.Day)),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].penalty < scored[j].penalty
	})
	return scored
}

func placeFirstFit(tracker *OccupancyTracker, counters *dayCounters, event models.Event, level int, ranked []scoredCandidate) (placement, bool) {
	for _, sc := range ranked {
		if !tracker.CanPlace(event.LecturerID, level, sc.candidate) {
			continue
		}
		tracker.Place(event.LecturerID, level, sc.candidate)
		counters.record(event, sc.candidate.Day)
		return placement{event: event, candidate: sc.candidate, penalty: sc.penalty}, true
	}
	return placement{}, false
}

// infeasibleReason classifies why an event had no feasible candidate before
// any placement attempt.
func infeasibleReason(gen *CandidateGenerator, event models.Event, rawCandidates int) string {
	if gen.RoomsOfType(event.RoomTypeRequired) == 0 {
		return reasonNoRoomType
	}
	if rawCandidates == 0 {
		return reasonNoSlots
	}
	return reasonNoFeasible
}
