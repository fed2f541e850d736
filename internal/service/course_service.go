package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/models"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
)

type courseOfferingRepository interface {
	ListBySession(ctx context.Context, sessionID string, status models.MatchStatus) ([]models.CourseOffering, error)
	FindByID(ctx context.Context, id string) (*models.CourseOffering, error)
}

type canonicalCourseRepository interface {
	ListAll(ctx context.Context) ([]models.CanonicalCourse, error)
	Create(ctx context.Context, course *models.CanonicalCourse) error
}

// CourseService exposes read paths over offerings and management of the
// canonical catalog.
type CourseService struct {
	offerings       courseOfferingRepository
	canonicals      canonicalCourseRepository
	validator       *validator.Validate
	logger          *zap.Logger
	removeStopwords bool
}

// NewCourseService wires course dependencies.
func NewCourseService(offerings courseOfferingRepository, canonicals canonicalCourseRepository, validate *validator.Validate, logger *zap.Logger, removeStopwords bool) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		offerings:       offerings,
		canonicals:      canonicals,
		validator:       validate,
		logger:          logger,
		removeStopwords: removeStopwords,
	}
}

// ListOfferings returns a session's offerings, optionally filtered by match
// status.
func (s *CourseService) ListOfferings(ctx context.Context, sessionID string, status models.MatchStatus) ([]models.CourseOffering, error) {
	if sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session_id is required")
	}
	offerings, err := s.offerings.ListBySession(ctx, sessionID, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list offerings")
	}
	return offerings, nil
}

// GetOffering returns one offering by id.
func (s *CourseService) GetOffering(ctx context.Context, id string) (*models.CourseOffering, error) {
	offering, err := s.offerings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offering")
	}
	return offering, nil
}

// ListCanonicalCourses returns the catalog in stable order.
func (s *CourseService) ListCanonicalCourses(ctx context.Context) ([]models.CanonicalCourse, error) {
	catalog, err := s.canonicals.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list canonical courses")
	}
	return catalog, nil
}

// CreateCanonicalCourse adds one catalog entry by hand.
func (s *CourseService) CreateCanonicalCourse(ctx context.Context, req dto.CreateCanonicalCourseRequest) (*models.CanonicalCourse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid canonical course payload")
	}
	course := &models.CanonicalCourse{
		Title:           req.Title,
		NormalizedTitle: NormalizeTitle(req.Title, s.removeStopwords),
		Department:      req.Department,
	}
	if err := s.canonicals.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create canonical course")
	}
	return course, nil
}
