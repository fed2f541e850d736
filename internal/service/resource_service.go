package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/models"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
)

type sessionRepository interface {
	List(ctx context.Context) ([]models.Session, error)
	FindByID(ctx context.Context, id string) (*models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	SetActive(ctx context.Context, id string) error
}

type timeslotRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.TimeSlot, error)
	Create(ctx context.Context, slot *models.TimeSlot) error
	Delete(ctx context.Context, id string) error
}

type roomRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id string) error
}

type lecturerRepository interface {
	ListAll(ctx context.Context) ([]models.Lecturer, error)
	Create(ctx context.Context, lecturer *models.Lecturer) error
}

type assignmentRepository interface {
	Create(ctx context.Context, assignment *models.LecturerAssignment) error
	ListByOffering(ctx context.Context, offeringID string) ([]models.LecturerAssignment, error)
}

// ResourceService manages the static scheduling inventory: sessions, time
// slots, rooms and lecturers.
type ResourceService struct {
	sessions    sessionRepository
	timeslots   timeslotRepository
	rooms       roomRepository
	lecturers   lecturerRepository
	assignments assignmentRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewResourceService wires resource dependencies.
func NewResourceService(
	sessions sessionRepository,
	timeslots timeslotRepository,
	rooms roomRepository,
	lecturers lecturerRepository,
	assignments assignmentRepository,
	validate *validator.Validate,
	logger *zap.Logger,
) *ResourceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceService{
		sessions:    sessions,
		timeslots:   timeslots,
		rooms:       rooms,
		lecturers:   lecturers,
		assignments: assignments,
		validator:   validate,
		logger:      logger,
	}
}

// ListSessions returns all academic sessions.
func (s *ResourceService) ListSessions(ctx context.Context) ([]models.Session, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// CreateSession registers a new session, inactive by default.
func (s *ResourceService) CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	session := &models.Session{Name: req.Name, Semester: req.Semester}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return session, nil
}

// ActivateSession marks one session active, deactivating the rest.
func (s *ResourceService) ActivateSession(ctx context.Context, id string) error {
	if _, err := s.sessions.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if err := s.sessions.SetActive(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate session")
	}
	return nil
}

// ListTimeSlots returns a session's slots in sort order.
func (s *ResourceService) ListTimeSlots(ctx context.Context, sessionID string) ([]models.TimeSlot, error) {
	if sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session_id is required")
	}
	slots, err := s.timeslots.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time slots")
	}
	return slots, nil
}

// CreateTimeSlot adds one slot to the session template.
func (s *ResourceService) CreateTimeSlot(ctx context.Context, req dto.CreateTimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slot payload")
	}
	slot := &models.TimeSlot{
		SessionID: req.SessionID,
		Label:     req.Label,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		SortOrder: req.SortOrder,
	}
	if err := s.timeslots.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create time slot")
	}
	return slot, nil
}

// DeleteTimeSlot removes a slot from the template.
func (s *ResourceService) DeleteTimeSlot(ctx context.Context, id string) error {
	if err := s.timeslots.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "time slot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete time slot")
	}
	return nil
}

// ListRooms returns a session's rooms.
func (s *ResourceService) ListRooms(ctx context.Context, sessionID string) ([]models.Room, error) {
	if sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session_id is required")
	}
	rooms, err := s.rooms.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// CreateRoom registers a venue.
func (s *ResourceService) CreateRoom(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	roomType := models.RoomType(strings.ToLower(req.RoomType))
	if roomType != models.RoomTypeLectureRoom && roomType != models.RoomTypeLab {
		return nil, appErrors.Clone(appErrors.ErrValidation, "room_type must be lecture_room or lab")
	}
	room := &models.Room{
		SessionID: req.SessionID,
		Name:      req.Name,
		RoomType:  roomType,
		Capacity:  req.Capacity,
		Location:  req.Location,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	return room, nil
}

// DeleteRoom removes a venue.
func (s *ResourceService) DeleteRoom(ctx context.Context, id string) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete room")
	}
	return nil
}

// ListLecturers returns all lecturers.
func (s *ResourceService) ListLecturers(ctx context.Context) ([]models.Lecturer, error) {
	lecturers, err := s.lecturers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lecturers")
	}
	return lecturers, nil
}

// CreateLecturer registers a staff member.
func (s *ResourceService) CreateLecturer(ctx context.Context, req dto.CreateLecturerRequest) (*models.Lecturer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecturer payload")
	}
	lecturer := &models.Lecturer{
		FullName:   req.FullName,
		Email:      req.Email,
		Department: req.Department,
		Active:     true,
	}
	if err := s.lecturers.Create(ctx, lecturer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lecturer")
	}
	return lecturer, nil
}

// AssignLecturer links a lecturer to an offering. Shares across an offering
// should sum to one but that is left to coordinators; the expander only cares
// about relative order.
func (s *ResourceService) AssignLecturer(ctx context.Context, req dto.AssignLecturerRequest) (*models.LecturerAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	assignment := &models.LecturerAssignment{
		OfferingID: req.OfferingID,
		LecturerID: req.LecturerID,
		Share:      req.Share,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}
