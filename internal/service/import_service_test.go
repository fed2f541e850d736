package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

type stubOfferingBatchRepo struct {
	created []models.CourseOffering
	err     error
}

func (r *stubOfferingBatchRepo) CreateBatch(_ context.Context, offerings []models.CourseOffering) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, offerings...)
	return nil
}

type stubCanonicalBatchRepo struct {
	created []models.CanonicalCourse
}

func (r *stubCanonicalBatchRepo) CreateBatch(_ context.Context, courses []models.CanonicalCourse) error {
	r.created = append(r.created, courses...)
	return nil
}

const offeringsCSVHeader = "course_code,title,level,credit_units,type,department\n"

func TestImportOfferingsHappyPath(t *testing.T) {
	repo := &stubOfferingBatchRepo{}
	service := NewImportService(repo, &stubCanonicalBatchRepo{}, zapTestLogger(), ImportConfig{})

	csv := offeringsCSVHeader +
		"CS 101,Intro to Programming,100,3,lecture,CSC\n" +
		"mth-201,Linear Algebra,200,2,tutorial,\n"
	summary, err := service.ImportOfferings(context.Background(), "session-1", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 0, summary.Skipped)

	require.Len(t, repo.created, 2)
	first := repo.created[0]
	assert.Equal(t, "session-1", first.SessionID)
	assert.Equal(t, "CS101", first.NormalizedCode)
	assert.Equal(t, "INTRO TO PROGRAMMING", first.NormalizedTitle)
	assert.Equal(t, models.MatchStatusUnresolved, first.MatchStatus)
	require.NotNil(t, first.Department)
	assert.Equal(t, "CSC", *first.Department)

	second := repo.created[1]
	assert.Equal(t, "MTH201", second.NormalizedCode)
	assert.Equal(t, models.OfferingTypeTutorial, second.Type)
	assert.Nil(t, second.Department)
}

func TestImportOfferingsSkipsInvalidRows(t *testing.T) {
	repo := &stubOfferingBatchRepo{}
	service := NewImportService(repo, &stubCanonicalBatchRepo{}, zapTestLogger(), ImportConfig{})

	csv := offeringsCSVHeader +
		",Missing Code,100,3,lecture,\n" +
		"CS 102,Zero Units,100,0,lecture,\n" +
		"CS 103,Bad Type,100,3,seminar,\n" +
		"CS 104,Good Row,100,3,lab,\n"
	summary, err := service.ImportOfferings(context.Background(), "session-1", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 3, summary.Skipped)

	require.Len(t, summary.Errors, 3)
	assert.Contains(t, summary.Errors[0], "row 2: course_code is required")
	assert.Contains(t, summary.Errors[1], "row 3: credit_units must be positive")
	assert.Contains(t, summary.Errors[2], `row 4: unknown type "seminar"`)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "CS104", repo.created[0].NormalizedCode)
}

func TestImportOfferingsRequiresSession(t *testing.T) {
	service := NewImportService(&stubOfferingBatchRepo{}, &stubCanonicalBatchRepo{}, zapTestLogger(), ImportConfig{})

	_, err := service.ImportOfferings(context.Background(), "", strings.NewReader(offeringsCSVHeader))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_id is required")
}

func TestImportOfferingsEnforcesRowLimit(t *testing.T) {
	repo := &stubOfferingBatchRepo{}
	service := NewImportService(repo, &stubCanonicalBatchRepo{}, zapTestLogger(), ImportConfig{MaxRows: 2})

	csv := offeringsCSVHeader +
		"CS 101,One,100,3,lecture,\n" +
		"CS 102,Two,100,3,lecture,\n" +
		"CS 103,Three,100,3,lecture,\n"
	_, err := service.ImportOfferings(context.Background(), "session-1", strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row limit")
	assert.Empty(t, repo.created)
}

func TestImportCanonicalCoursesDeduplicates(t *testing.T) {
	repo := &stubCanonicalBatchRepo{}
	service := NewImportService(&stubOfferingBatchRepo{}, repo, zapTestLogger(), ImportConfig{})

	csv := "title,department\n" +
		"Data Structures,CSC\n" +
		"data structures,CSC\n" +
		",CSC\n" +
		"Organic Chemistry,\n"
	summary, err := service.ImportCanonicalCourses(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 2, summary.Skipped)

	require.Len(t, repo.created, 2)
	assert.Equal(t, "DATA STRUCTURES", repo.created[0].NormalizedTitle)
	assert.Equal(t, "ORGANIC CHEMISTRY", repo.created[1].NormalizedTitle)
	assert.Nil(t, repo.created[1].Department)
}
