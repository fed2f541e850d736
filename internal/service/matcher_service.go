package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/models"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
)

const (
	autoMatchThreshold  = 0.92
	reviewThreshold     = 0.80
	maxSuggestions      = 5
	autoAliasConfidence = 0.9
)

type matcherOfferingRepository interface {
	ListBySession(ctx context.Context, sessionID string, status models.MatchStatus) ([]models.CourseOffering, error)
	FindByID(ctx context.Context, id string) (*models.CourseOffering, error)
	UpdateMatch(ctx context.Context, id string, update models.OfferingMatchUpdate) error
}

type matcherCanonicalRepository interface {
	ListAll(ctx context.Context) ([]models.CanonicalCourse, error)
	FindByNormalizedTitle(ctx context.Context, normalizedTitle string) (*models.CanonicalCourse, error)
}

type matcherAliasRepository interface {
	FindCanonicalByCode(ctx context.Context, normalizedCode string) (string, error)
	FindCanonicalByTitle(ctx context.Context, normalizedTitle string) (string, error)
	Upsert(ctx context.Context, alias *models.CourseAlias) error
}

type matcherSuggestionRepository interface {
	ReplaceForOffering(ctx context.Context, offeringID string, suggestions []models.MatchingSuggestion) error
	ListByOffering(ctx context.Context, offeringID string) ([]models.MatchingSuggestion, error)
	DeleteByOffering(ctx context.Context, offeringID string) error
}

// MatchResult is the outcome of the cascade for a single offering.
type MatchResult struct {
	Status      models.MatchStatus
	CanonicalID *string
	Method      *models.MatchMethod
	Score       *float64
	Suggestions []models.MatchingSuggestion
}

// MatcherConfig tunes normalization behaviour for the cascade.
type MatcherConfig struct {
	RemoveStopwords bool
}

// MatcherService links course offerings to canonical courses through a
// five-rule cascade: exact code, exact title, high-similarity auto-link,
// medium-similarity review queue, unresolved.
type MatcherService struct {
	offerings   matcherOfferingRepository
	canonicals  matcherCanonicalRepository
	aliases     matcherAliasRepository
	suggestions matcherSuggestionRepository
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         MatcherConfig
}

// NewMatcherService wires matcher dependencies.
func NewMatcherService(
	offerings matcherOfferingRepository,
	canonicals matcherCanonicalRepository,
	aliases matcherAliasRepository,
	suggestions matcherSuggestionRepository,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg MatcherConfig,
) *MatcherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatcherService{
		offerings:   offerings,
		canonicals:  canonicals,
		aliases:     aliases,
		suggestions: suggestions,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
	}
}

// RunMatching applies the cascade to every unresolved offering in a session.
// Each offering's update commits independently: a failure part-way through
// leaves earlier updates in place.
func (s *MatcherService) RunMatching(ctx context.Context, req dto.RunMatchingRequest) (*dto.MatchingSummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid matching payload")
	}

	unresolved, err := s.offerings.ListBySession(ctx, req.SessionID, models.MatchStatusUnresolved)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list unresolved offerings")
	}

	summary := &dto.MatchingSummary{}
	for i := range unresolved {
		offering := &unresolved[i]
		result, err := s.MatchOffering(ctx, offering)
		if err != nil {
			return summary, err
		}
		if err := s.commitResult(ctx, offering, result, req.UserID); err != nil {
			return summary, err
		}

		switch result.Status {
		case models.MatchStatusAutoMatched:
			summary.AutoMatched++
		case models.MatchStatusNeedsReview:
			summary.NeedsReview++
		default:
			summary.Unresolved++
		}
	}

	s.logger.Info("matching completed",
		zap.String("session_id", req.SessionID),
		zap.Int("auto_matched", summary.AutoMatched),
		zap.Int("needs_review", summary.NeedsReview),
		zap.Int("unresolved", summary.Unresolved),
	)
	return summary, nil
}

// MatchOffering evaluates the cascade for one offering without persisting
// anything. Rules are checked in strict order; the first hit wins.
func (s *MatcherService) MatchOffering(ctx context.Context, offering *models.CourseOffering) (*MatchResult, error) {
	// Rule 1: exact normalized code via aliases or a matched sibling offering.
	canonicalID, err := s.matchByCode(ctx, offering)
	if err != nil {
		return nil, err
	}
	if canonicalID != "" {
		return autoResult(canonicalID, models.MatchMethodExactCode, 1.0), nil
	}

	// Rule 2: exact normalized title via the canonical catalog or aliases.
	canonicalID, err = s.matchByTitle(ctx, offering)
	if err != nil {
		return nil, err
	}
	if canonicalID != "" {
		return autoResult(canonicalID, models.MatchMethodExactTitle, 1.0), nil
	}

	// Rules 3-5: similarity band.
	scored, err := s.scoreAgainstCatalog(ctx, offering)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return &MatchResult{Status: models.MatchStatusUnresolved}, nil
	}

	best := scored[0]
	switch {
	case best.Score >= autoMatchThreshold:
		return autoResult(best.CanonicalCourseID, models.MatchMethodSimilarity, best.Score), nil
	case best.Score >= reviewThreshold:
		top := scored
		if len(top) > maxSuggestions {
			top = top[:maxSuggestions]
		}
		method := models.MatchMethodSimilarity
		score := best.Score
		return &MatchResult{
			Status:      models.MatchStatusNeedsReview,
			Method:      &method,
			Score:       &score,
			Suggestions: top,
		}, nil
	default:
		return &MatchResult{Status: models.MatchStatusUnresolved}, nil
	}
}

// Approve performs the manual review confirmation: the offering becomes
// manual_matched, a manual_confirm alias is learned and pending suggestions
// are cleared.
func (s *MatcherService) Approve(ctx context.Context, req dto.ApproveMatchRequest) (*dto.ApproveMatchResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid approval payload")
	}

	offering, err := s.offerings.FindByID(ctx, req.OfferingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offering")
	}

	method := req.Method
	if method == "" {
		method = string(models.MatchMethodManualReview)
	}
	now := time.Now().UTC()
	update := models.OfferingMatchUpdate{
		Status:            models.MatchStatusManualMatched,
		CanonicalCourseID: &req.CanonicalCourseID,
		Method:            &method,
		Score:             req.Score,
		MatchedBy:         &req.UserID,
		MatchedAt:         &now,
	}
	if err := s.offerings.UpdateMatch(ctx, offering.ID, update); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update offering")
	}

	if err := s.upsertAlias(ctx, offering, req.CanonicalCourseID, models.AliasSourceManualConfirm); err != nil {
		return nil, err
	}
	if err := s.suggestions.DeleteByOffering(ctx, offering.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear suggestions")
	}

	return &dto.ApproveMatchResponse{
		OfferingID:        offering.ID,
		CanonicalCourseID: req.CanonicalCourseID,
		AliasCreated:      true,
	}, nil
}

// ReviewItems lists offerings awaiting review with their stored suggestions.
func (s *MatcherService) ReviewItems(ctx context.Context, sessionID string) ([]dto.ReviewItem, error) {
	if sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session_id is required")
	}
	offerings, err := s.offerings.ListBySession(ctx, sessionID, models.MatchStatusNeedsReview)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list review offerings")
	}

	items := make([]dto.ReviewItem, 0, len(offerings))
	for _, offering := range offerings {
		suggestions, err := s.suggestions.ListByOffering(ctx, offering.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list suggestions")
		}
		items = append(items, dto.ReviewItem{Offering: offering, Suggestions: suggestions})
	}
	return items, nil
}

func (s *MatcherService) commitResult(ctx context.Context, offering *models.CourseOffering, result *MatchResult, userID string) error {
	update := models.OfferingMatchUpdate{
		Status:            result.Status,
		CanonicalCourseID: result.CanonicalID,
		Score:             result.Score,
	}
	if result.Method != nil {
		m := string(*result.Method)
		update.Method = &m
	}
	if result.Status == models.MatchStatusAutoMatched || result.Status == models.MatchStatusNeedsReview {
		now := time.Now().UTC()
		update.MatchedBy = &userID
		update.MatchedAt = &now
	}

	if err := s.offerings.UpdateMatch(ctx, offering.ID, update); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update offering match state")
	}

	if result.Status == models.MatchStatusNeedsReview {
		if err := s.suggestions.ReplaceForOffering(ctx, offering.ID, result.Suggestions); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store suggestions")
		}
	}

	if result.Status == models.MatchStatusAutoMatched && result.CanonicalID != nil {
		if err := s.upsertAlias(ctx, offering, *result.CanonicalID, models.AliasSourceAuto); err != nil {
			return err
		}
	}
	return nil
}

func (s *MatcherService) matchByCode(ctx context.Context, offering *models.CourseOffering) (string, error) {
	normalizedCode := NormalizeCode(offering.CourseCode)
	if normalizedCode == "" {
		return "", nil
	}

	canonicalID, err := s.aliases.FindCanonicalByCode(ctx, normalizedCode)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up alias by code")
	}
	if canonicalID != "" {
		return canonicalID, nil
	}

	siblings, err := s.offerings.ListBySession(ctx, offering.SessionID, "")
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session offerings")
	}
	for _, sibling := range siblings {
		if sibling.ID == offering.ID {
			continue
		}
		if sibling.NormalizedCode == normalizedCode && sibling.CanonicalCourseID != nil {
			return *sibling.CanonicalCourseID, nil
		}
	}
	return "", nil
}

func (s *MatcherService) matchByTitle(ctx context.Context, offering *models.CourseOffering) (string, error) {
	normalizedTitle := NormalizeTitle(offering.OriginalTitle, s.cfg.RemoveStopwords)

	canonical, err := s.canonicals.FindByNormalizedTitle(ctx, normalizedTitle)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up canonical by title")
	}
	if canonical != nil {
		return canonical.ID, nil
	}

	canonicalID, err := s.aliases.FindCanonicalByTitle(ctx, normalizedTitle)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up alias by title")
	}
	return canonicalID, nil
}

// scoreAgainstCatalog scores the offering against every canonical course and
// returns suggestions sorted by descending score. The catalog order is stable,
// so equal scores keep their catalog position and reruns are deterministic.
func (s *MatcherService) scoreAgainstCatalog(ctx context.Context, offering *models.CourseOffering) ([]models.MatchingSuggestion, error) {
	catalog, err := s.canonicals.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load canonical catalog")
	}
	if len(catalog) == 0 {
		return nil, nil
	}

	normalizedTitle := NormalizeTitle(offering.OriginalTitle, s.cfg.RemoveStopwords)
	scored := make([]models.MatchingSuggestion, 0, len(catalog))
	for _, canonical := range catalog {
		departmentMatch := offering.Department != nil && canonical.Department != nil &&
			*offering.Department == *canonical.Department
		scored = append(scored, models.MatchingSuggestion{
			OfferingID:        offering.ID,
			CanonicalCourseID: canonical.ID,
			Score:             ComputeSimilarity(normalizedTitle, canonical.NormalizedTitle, departmentMatch),
			TokenOverlap:      TokenOverlap(normalizedTitle, canonical.NormalizedTitle),
			Method:            string(models.MatchMethodSimilarity),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored, nil
}

func (s *MatcherService) upsertAlias(ctx context.Context, offering *models.CourseOffering, canonicalID string, source models.AliasSource) error {
	confidence := autoAliasConfidence
	if source == models.AliasSourceManualConfirm {
		confidence = 1.0
	}
	alias := &models.CourseAlias{
		CanonicalCourseID: canonicalID,
		CourseCode:        offering.CourseCode,
		NormalizedCode:    NormalizeCode(offering.CourseCode),
		OriginalTitle:     offering.OriginalTitle,
		NormalizedTitle:   NormalizeTitle(offering.OriginalTitle, s.cfg.RemoveStopwords),
		Source:            source,
		Confidence:        confidence,
	}
	if err := s.aliases.Upsert(ctx, alias); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert course alias")
	}
	return nil
}

func autoResult(canonicalID string, method models.MatchMethod, score float64) *MatchResult {
	return &MatchResult{
		Status:      models.MatchStatusAutoMatched,
		CanonicalID: &canonicalID,
		Method:      &method,
		Score:       &score,
	}
}
