package service

import (
	"context"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/dayo-ade/uniplan-api/internal/models"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
)

type expanderOfferingRepository interface {
	ListBySession(ctx context.Context, sessionID string, status models.MatchStatus) ([]models.CourseOffering, error)
}

type expanderAssignmentRepository interface {
	ListByOffering(ctx context.Context, offeringID string) ([]models.LecturerAssignment, error)
}

type expanderEventRepository interface {
	DeleteBySession(ctx context.Context, sessionID string) error
	CreateBatch(ctx context.Context, events []models.Event) ([]models.Event, error)
}

type constraintsProvider interface {
	GetOrDefault(ctx context.Context, sessionID string) (models.ConstraintsConfig, error)
}

// EventExpanderService turns matched offerings into atomic schedulable events
// using the session's unit mapping.
type EventExpanderService struct {
	offerings   expanderOfferingRepository
	assignments expanderAssignmentRepository
	events      expanderEventRepository
	constraints constraintsProvider
	logger      *zap.Logger
}

// NewEventExpanderService wires expander dependencies.
func NewEventExpanderService(
	offerings expanderOfferingRepository,
	assignments expanderAssignmentRepository,
	events expanderEventRepository,
	constraints constraintsProvider,
	logger *zap.Logger,
) *EventExpanderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventExpanderService{
		offerings:   offerings,
		assignments: assignments,
		events:      events,
		constraints: constraints,
		logger:      logger,
	}
}

// ExpandSession regenerates the full event set for a session. Existing events
// are deleted first; locks referencing them become stale and must be pruned by
// the caller before the next run.
func (s *EventExpanderService) ExpandSession(ctx context.Context, sessionID string) ([]models.Event, error) {
	if sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session_id is required")
	}

	cfg, err := s.constraints.GetOrDefault(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraints")
	}

	offerings, err := s.matchedOfferings(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.events.DeleteBySession(ctx, sessionID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear existing events")
	}

	var all []models.Event
	for i := range offerings {
		expanded, err := s.expandOffering(ctx, &offerings[i], cfg, sessionID)
		if err != nil {
			return nil, err
		}
		all = append(all, expanded...)
	}

	created, err := s.events.CreateBatch(ctx, all)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create events")
	}

	s.logger.Info("events expanded",
		zap.String("session_id", sessionID),
		zap.Int("offerings", len(offerings)),
		zap.Int("events", len(created)),
	)
	return created, nil
}

func (s *EventExpanderService) matchedOfferings(ctx context.Context, sessionID string) ([]models.CourseOffering, error) {
	auto, err := s.offerings.ListBySession(ctx, sessionID, models.MatchStatusAutoMatched)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list offerings")
	}
	manual, err := s.offerings.ListBySession(ctx, sessionID, models.MatchStatusManualMatched)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list offerings")
	}
	return append(auto, manual...), nil
}

func (s *EventExpanderService) expandOffering(ctx context.Context, offering *models.CourseOffering, cfg models.ConstraintsConfig, sessionID string) ([]models.Event, error) {
	segments := resolveSegments(cfg.UnitMapping, offering.Type, offering.CreditUnits)

	lecturerID, err := s.primaryLecturer(ctx, offering.ID)
	if err != nil {
		return nil, err
	}

	roomType := models.RoomTypeLectureRoom
	if offering.Type == models.OfferingTypeLab {
		roomType = models.RoomTypeLab
	}

	events := make([]models.Event, 0, len(segments))
	for index, segment := range segments {
		events = append(events, models.Event{
			SessionID:        sessionID,
			OfferingID:       offering.ID,
			LecturerID:       lecturerID,
			EventIndex:       index,
			DurationSlots:    segment.DurationSlots,
			RoomTypeRequired: roomType,
		})
	}
	return events, nil
}

// resolveSegments picks the unit-mapping entry for (type, credit units),
// falling back to the type's "default" entry and finally to one 1-slot
// segment per credit unit.
func resolveSegments(mapping models.UnitMapping, offeringType models.OfferingType, creditUnits int) []models.DurationSegment {
	byUnits, ok := mapping[string(offeringType)]
	if !ok {
		byUnits = mapping[string(models.OfferingTypeLecture)]
	}
	if byUnits != nil {
		if segments, ok := byUnits[strconv.Itoa(creditUnits)]; ok && len(segments) > 0 {
			return segments
		}
		if segments, ok := byUnits["default"]; ok && len(segments) > 0 {
			return segments
		}
	}

	fallback := make([]models.DurationSegment, 0, creditUnits)
	for i := 0; i < creditUnits; i++ {
		fallback = append(fallback, models.DurationSegment{DurationSlots: 1})
	}
	return fallback
}

// primaryLecturer returns the assignment with the highest share, nil when the
// offering has no assignments.
func (s *EventExpanderService) primaryLecturer(ctx context.Context, offeringID string) (*string, error) {
	assignments, err := s.assignments.ListByOffering(ctx, offeringID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lecturer assignments")
	}
	if len(assignments) == 0 {
		return nil, nil
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].Share > assignments[j].Share
	})
	lecturerID := assignments[0].LecturerID
	return &lecturerID, nil
}
