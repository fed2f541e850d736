package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/models"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
)

type constraintsRepository interface {
	FindBySession(ctx context.Context, sessionID string) (*models.Constraints, error)
	Upsert(ctx context.Context, sessionID string, config []byte) (*models.Constraints, error)
}

type blockedTimeRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.BlockedTime, error)
	Create(ctx context.Context, blocked *models.BlockedTime) error
	Delete(ctx context.Context, id string) error
}

type lockRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.Lock, error)
	Create(ctx context.Context, lock *models.Lock) error
	Delete(ctx context.Context, id string) error
	DeleteOrphans(ctx context.Context, sessionID string) (int64, error)
}

type lockEventRepository interface {
	FindByID(ctx context.Context, id string) (*models.Event, error)
}

// ConstraintService manages per-session scheduling configuration, blocked
// times and locks. A missing configuration is not an error: the documented
// default is substituted and persisted on first read.
type ConstraintService struct {
	constraints constraintsRepository
	blocked     blockedTimeRepository
	locks       lockRepository
	events      lockEventRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewConstraintService wires constraint dependencies.
func NewConstraintService(
	constraints constraintsRepository,
	blocked blockedTimeRepository,
	locks lockRepository,
	events lockEventRepository,
	validate *validator.Validate,
	logger *zap.Logger,
) *ConstraintService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConstraintService{
		constraints: constraints,
		blocked:     blocked,
		locks:       locks,
		events:      events,
		validator:   validate,
		logger:      logger,
	}
}

// GetOrDefault returns the session's configuration, persisting the default
// when none is stored yet.
func (s *ConstraintService) GetOrDefault(ctx context.Context, sessionID string) (models.ConstraintsConfig, error) {
	row, err := s.constraints.FindBySession(ctx, sessionID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return models.ConstraintsConfig{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraints")
	}

	if row == nil || errors.Is(err, sql.ErrNoRows) {
		cfg := models.DefaultConstraints()
		raw, marshalErr := json.Marshal(cfg)
		if marshalErr != nil {
			return models.ConstraintsConfig{}, appErrors.Wrap(marshalErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode default constraints")
		}
		if _, upsertErr := s.constraints.Upsert(ctx, sessionID, raw); upsertErr != nil {
			return models.ConstraintsConfig{}, appErrors.Wrap(upsertErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist default constraints")
		}
		s.logger.Info("default constraints persisted", zap.String("session_id", sessionID))
		return cfg, nil
	}

	var cfg models.ConstraintsConfig
	if err := json.Unmarshal(row.Config, &cfg); err != nil {
		return models.ConstraintsConfig{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored constraints are not valid JSON")
	}
	return cfg, nil
}

// Update replaces the session's configuration wholesale.
func (s *ConstraintService) Update(ctx context.Context, req dto.UpdateConstraintsRequest) (models.ConstraintsConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.ConstraintsConfig{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid constraints payload")
	}
	for _, day := range req.Config.AllowedDays {
		if !day.Valid() {
			return models.ConstraintsConfig{}, appErrors.Clone(appErrors.ErrValidation, "unknown day in allowed_days")
		}
	}

	raw, err := json.Marshal(req.Config)
	if err != nil {
		return models.ConstraintsConfig{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode constraints")
	}
	if _, err := s.constraints.Upsert(ctx, req.SessionID, raw); err != nil {
		return models.ConstraintsConfig{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store constraints")
	}
	return req.Config, nil
}

// ListBlockedTimes returns the session's blocked times.
func (s *ConstraintService) ListBlockedTimes(ctx context.Context, sessionID string) ([]models.BlockedTime, error) {
	if sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session_id is required")
	}
	blocked, err := s.blocked.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list blocked times")
	}
	return blocked, nil
}

// CreateBlockedTime adds a placement exclusion. Non-global scopes must carry
// the resource or level they apply to.
func (s *ConstraintService) CreateBlockedTime(ctx context.Context, req dto.CreateBlockedTimeRequest) (*models.BlockedTime, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid blocked time payload")
	}
	if !req.Scope.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown blocked time scope")
	}
	if !req.Day.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown day")
	}
	if req.Scope != models.BlockScopeGlobal && (req.ScopeID == nil || *req.ScopeID == "") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scope_id is required for non-global scopes")
	}

	blocked := &models.BlockedTime{
		SessionID:  req.SessionID,
		Scope:      req.Scope,
		ScopeID:    req.ScopeID,
		Day:        req.Day,
		TimeslotID: req.TimeslotID,
		Reason:     req.Reason,
	}
	if err := s.blocked.Create(ctx, blocked); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create blocked time")
	}
	return blocked, nil
}

// DeleteBlockedTime removes an exclusion.
func (s *ConstraintService) DeleteBlockedTime(ctx context.Context, id string) error {
	if err := s.blocked.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "blocked time not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete blocked time")
	}
	return nil
}

// ListLocks returns the session's pinned placements.
func (s *ConstraintService) ListLocks(ctx context.Context, sessionID string) ([]models.Lock, error) {
	if sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session_id is required")
	}
	locks, err := s.locks.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list locks")
	}
	return locks, nil
}

// CreateLock pins an event. The event must exist; its placement is taken on
// faith and only verified at allocation time.
func (s *ConstraintService) CreateLock(ctx context.Context, req dto.CreateLockRequest) (*models.Lock, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lock payload")
	}
	if !req.Day.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown day")
	}

	if _, err := s.events.FindByID(ctx, req.EventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	lock := &models.Lock{
		SessionID:        req.SessionID,
		EventID:          req.EventID,
		Day:              req.Day,
		TimeslotID:       req.TimeslotID,
		SecondTimeslotID: req.SecondTimeslotID,
		RoomID:           req.RoomID,
		CreatedBy:        &req.UserID,
	}
	if err := s.locks.Create(ctx, lock); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lock")
	}
	return lock, nil
}

// DeleteLock removes a pin.
func (s *ConstraintService) DeleteLock(ctx context.Context, id string) error {
	if err := s.locks.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lock not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lock")
	}
	return nil
}

// PruneOrphanLocks drops locks whose event no longer exists, typically after
// re-expansion.
func (s *ConstraintService) PruneOrphanLocks(ctx context.Context, sessionID string) (int64, error) {
	removed, err := s.locks.DeleteOrphans(ctx, sessionID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prune locks")
	}
	if removed > 0 {
		s.logger.Info("orphan locks pruned", zap.String("session_id", sessionID), zap.Int64("removed", removed))
	}
	return removed, nil
}
