package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/models"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
)

type importOfferingRepository interface {
	CreateBatch(ctx context.Context, offerings []models.CourseOffering) error
}

type importCanonicalRepository interface {
	CreateBatch(ctx context.Context, courses []models.CanonicalCourse) error
}

// ImportConfig bounds uploads.
type ImportConfig struct {
	MaxRows         int
	RemoveStopwords bool
}

// ImportService ingests CSV uploads of course listings and the canonical
// catalog. Rows are normalized on the way in so the matcher never sees raw
// text.
type ImportService struct {
	offerings  importOfferingRepository
	canonicals importCanonicalRepository
	logger     *zap.Logger
	cfg        ImportConfig
}

// NewImportService wires import dependencies.
func NewImportService(offerings importOfferingRepository, canonicals importCanonicalRepository, logger *zap.Logger, cfg ImportConfig) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 5000
	}
	return &ImportService{offerings: offerings, canonicals: canonicals, logger: logger, cfg: cfg}
}

// ImportOfferings parses an uploaded course-listing CSV and stores the rows
// as unresolved offerings. Invalid rows are skipped and reported, not fatal.
func (s *ImportService) ImportOfferings(ctx context.Context, sessionID string, r io.Reader) (*dto.ImportSummary, error) {
	if sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session_id is required")
	}

	var rows []dto.OfferingCSVRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not parse CSV file")
	}
	if len(rows) > s.cfg.MaxRows {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds the %d row limit", s.cfg.MaxRows))
	}

	summary := &dto.ImportSummary{}
	offerings := make([]models.CourseOffering, 0, len(rows))
	for i, row := range rows {
		if err := validateOfferingRow(row); err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		var department *string
		if d := strings.TrimSpace(row.Department); d != "" {
			department = &d
		}
		offerings = append(offerings, models.CourseOffering{
			SessionID:       sessionID,
			CourseCode:      strings.TrimSpace(row.CourseCode),
			NormalizedCode:  NormalizeCode(row.CourseCode),
			OriginalTitle:   strings.TrimSpace(row.Title),
			NormalizedTitle: NormalizeTitle(row.Title, s.cfg.RemoveStopwords),
			Level:           row.Level,
			CreditUnits:     row.CreditUnits,
			Type:            models.OfferingType(strings.ToLower(strings.TrimSpace(row.Type))),
			Department:      department,
			MatchStatus:     models.MatchStatusUnresolved,
		})
	}

	if len(offerings) > 0 {
		if err := s.offerings.CreateBatch(ctx, offerings); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store offerings")
		}
	}
	summary.Imported = len(offerings)

	s.logger.Info("offerings imported",
		zap.String("session_id", sessionID),
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// ImportCanonicalCourses parses an uploaded catalog CSV into canonical
// courses.
func (s *ImportService) ImportCanonicalCourses(ctx context.Context, r io.Reader) (*dto.ImportSummary, error) {
	var rows []dto.CanonicalCSVRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not parse CSV file")
	}
	if len(rows) > s.cfg.MaxRows {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds the %d row limit", s.cfg.MaxRows))
	}

	summary := &dto.ImportSummary{}
	courses := make([]models.CanonicalCourse, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		title := strings.TrimSpace(row.Title)
		if title == "" {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: title is required", i+2))
			continue
		}
		normalized := NormalizeTitle(title, s.cfg.RemoveStopwords)
		if _, dup := seen[normalized]; dup {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: duplicate title %q", i+2, title))
			continue
		}
		seen[normalized] = struct{}{}

		var department *string
		if d := strings.TrimSpace(row.Department); d != "" {
			department = &d
		}
		courses = append(courses, models.CanonicalCourse{
			Title:           title,
			NormalizedTitle: normalized,
			Department:      department,
		})
	}

	if len(courses) > 0 {
		if err := s.canonicals.CreateBatch(ctx, courses); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store canonical courses")
		}
	}
	summary.Imported = len(courses)

	s.logger.Info("canonical courses imported",
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

func validateOfferingRow(row dto.OfferingCSVRow) error {
	if strings.TrimSpace(row.CourseCode) == "" {
		return fmt.Errorf("course_code is required")
	}
	if strings.TrimSpace(row.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if row.CreditUnits <= 0 {
		return fmt.Errorf("credit_units must be positive")
	}
	switch models.OfferingType(strings.ToLower(strings.TrimSpace(row.Type))) {
	case models.OfferingTypeLecture, models.OfferingTypeLab, models.OfferingTypeTutorial:
		return nil
	default:
		return fmt.Errorf("unknown type %q", row.Type)
	}
}
