package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/models"
)

type stubOfferingRepo struct {
	offerings []models.CourseOffering
	updates   map[string]models.OfferingMatchUpdate
}

func newStubOfferingRepo(offerings ...models.CourseOffering) *stubOfferingRepo {
	return &stubOfferingRepo{offerings: offerings, updates: make(map[string]models.OfferingMatchUpdate)}
}

func (r *stubOfferingRepo) ListBySession(_ context.Context, sessionID string, status models.MatchStatus) ([]models.CourseOffering, error) {
	var out []models.CourseOffering
	for _, o := range r.offerings {
		if o.SessionID != sessionID {
			continue
		}
		if status != "" && o.MatchStatus != status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *stubOfferingRepo) FindByID(_ context.Context, id string) (*models.CourseOffering, error) {
	for i := range r.offerings {
		if r.offerings[i].ID == id {
			o := r.offerings[i]
			return &o, nil
		}
	}
	return nil, nil
}

func (r *stubOfferingRepo) UpdateMatch(_ context.Context, id string, update models.OfferingMatchUpdate) error {
	r.updates[id] = update
	return nil
}

type stubCanonicalRepo struct {
	catalog []models.CanonicalCourse
}

func (r *stubCanonicalRepo) ListAll(_ context.Context) ([]models.CanonicalCourse, error) {
	return r.catalog, nil
}

func (r *stubCanonicalRepo) FindByNormalizedTitle(_ context.Context, normalizedTitle string) (*models.CanonicalCourse, error) {
	for i := range r.catalog {
		if r.catalog[i].NormalizedTitle == normalizedTitle {
			c := r.catalog[i]
			return &c, nil
		}
	}
	return nil, nil
}

type stubAliasRepo struct {
	byCode   map[string]string
	byTitle  map[string]string
	upserted []models.CourseAlias
}

func newStubAliasRepo() *stubAliasRepo {
	return &stubAliasRepo{byCode: make(map[string]string), byTitle: make(map[string]string)}
}

func (r *stubAliasRepo) FindCanonicalByCode(_ context.Context, normalizedCode string) (string, error) {
	return r.byCode[normalizedCode], nil
}

func (r *stubAliasRepo) FindCanonicalByTitle(_ context.Context, normalizedTitle string) (string, error) {
	return r.byTitle[normalizedTitle], nil
}

func (r *stubAliasRepo) Upsert(_ context.Context, alias *models.CourseAlias) error {
	r.upserted = append(r.upserted, *alias)
	if alias.NormalizedCode != "" {
		r.byCode[alias.NormalizedCode] = alias.CanonicalCourseID
	}
	r.byTitle[alias.NormalizedTitle] = alias.CanonicalCourseID
	return nil
}

type stubSuggestionRepo struct {
	byOffering map[string][]models.MatchingSuggestion
}

func newStubSuggestionRepo() *stubSuggestionRepo {
	return &stubSuggestionRepo{byOffering: make(map[string][]models.MatchingSuggestion)}
}

func (r *stubSuggestionRepo) ReplaceForOffering(_ context.Context, offeringID string, suggestions []models.MatchingSuggestion) error {
	r.byOffering[offeringID] = suggestions
	return nil
}

func (r *stubSuggestionRepo) ListByOffering(_ context.Context, offeringID string) ([]models.MatchingSuggestion, error) {
	return r.byOffering[offeringID], nil
}

func (r *stubSuggestionRepo) DeleteByOffering(_ context.Context, offeringID string) error {
	delete(r.byOffering, offeringID)
	return nil
}

func strPtr(s string) *string { return &s }

func unresolvedOffering(id, code, title string) models.CourseOffering {
	return models.CourseOffering{
		ID:            id,
		SessionID:     "session-1",
		CourseCode:    code,
		OriginalTitle: title,
		MatchStatus:   models.MatchStatusUnresolved,
	}
}

func newMatcherFixture(offerings *stubOfferingRepo, canonicals *stubCanonicalRepo, aliases *stubAliasRepo, suggestions *stubSuggestionRepo) *MatcherService {
	return NewMatcherService(offerings, canonicals, aliases, suggestions, nil, zapTestLogger(), MatcherConfig{})
}

func TestMatcherExactCodeViaAlias(t *testing.T) {
	offerings := newStubOfferingRepo(unresolvedOffering("off-1", "CSC 301", "Algorithms"))
	aliases := newStubAliasRepo()
	aliases.byCode["CSC301"] = "canon-1"
	service := newMatcherFixture(offerings, &stubCanonicalRepo{}, aliases, newStubSuggestionRepo())

	summary, err := service.RunMatching(context.Background(), dto.RunMatchingRequest{SessionID: "session-1", UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.AutoMatched)

	update := offerings.updates["off-1"]
	require.NotNil(t, update.CanonicalCourseID)
	assert.Equal(t, "canon-1", *update.CanonicalCourseID)
	require.NotNil(t, update.Method)
	assert.Equal(t, string(models.MatchMethodExactCode), *update.Method)
}

func TestMatcherExactTitleBeatsSimilarity(t *testing.T) {
	offerings := newStubOfferingRepo(unresolvedOffering("off-1", "XYZ 999", "Data Structures"))
	canonicals := &stubCanonicalRepo{catalog: []models.CanonicalCourse{
		{ID: "canon-1", Title: "Data Structures", NormalizedTitle: "DATA STRUCTURES"},
		{ID: "canon-2", Title: "Data Structures II", NormalizedTitle: "DATA STRUCTURES II"},
	}}
	service := newMatcherFixture(offerings, canonicals, newStubAliasRepo(), newStubSuggestionRepo())

	result, err := service.MatchOffering(context.Background(), &offerings.offerings[0])
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusAutoMatched, result.Status)
	require.NotNil(t, result.Method)
	assert.Equal(t, models.MatchMethodExactTitle, *result.Method)
	assert.Equal(t, "canon-1", *result.CanonicalID)
}

func TestMatcherReviewBandPersistsSuggestions(t *testing.T) {
	offerings := newStubOfferingRepo(unresolvedOffering("off-1", "CSC 415", "Advanced Topics in Machine Learning"))
	canonicals := &stubCanonicalRepo{catalog: []models.CanonicalCourse{
		{ID: "canon-1", NormalizedTitle: "ADVANCED TOPICS IN MACHINE LEARNING SYSTEMS"},
		{ID: "canon-2", NormalizedTitle: "ORGANIC CHEMISTRY"},
	}}
	suggestions := newStubSuggestionRepo()
	service := newMatcherFixture(offerings, canonicals, newStubAliasRepo(), suggestions)

	summary, err := service.RunMatching(context.Background(), dto.RunMatchingRequest{SessionID: "session-1", UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.NeedsReview)

	stored := suggestions.byOffering["off-1"]
	require.NotEmpty(t, stored)
	assert.Equal(t, "canon-1", stored[0].CanonicalCourseID)
	for i := 1; i < len(stored); i++ {
		assert.LessOrEqual(t, stored[i].Score, stored[i-1].Score)
	}
}

func TestMatcherSimilarityAutoMatch(t *testing.T) {
	dept := "CSC"
	offering := unresolvedOffering("off-1", "CSC 202", "Algorithms and Data Structures")
	offering.Department = &dept
	offerings := newStubOfferingRepo(offering)
	canonicals := &stubCanonicalRepo{catalog: []models.CanonicalCourse{
		{ID: "canon-1", NormalizedTitle: "DATA STRUCTURES AND ALGORITHMS", Department: &dept},
	}}
	service := newMatcherFixture(offerings, canonicals, newStubAliasRepo(), newStubSuggestionRepo())

	result, err := service.MatchOffering(context.Background(), &offerings.offerings[0])
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusAutoMatched, result.Status)
	require.NotNil(t, result.Method)
	assert.Equal(t, models.MatchMethodSimilarity, *result.Method)
	require.NotNil(t, result.Score)
	assert.GreaterOrEqual(t, *result.Score, 0.92)
}

func TestMatcherUnrelatedTitleStaysUnresolved(t *testing.T) {
	offerings := newStubOfferingRepo(unresolvedOffering("off-1", "ART 101", "Renaissance Painting"))
	canonicals := &stubCanonicalRepo{catalog: []models.CanonicalCourse{
		{ID: "canon-1", NormalizedTitle: "QUANTUM FIELD THEORY"},
	}}
	service := newMatcherFixture(offerings, canonicals, newStubAliasRepo(), newStubSuggestionRepo())

	summary, err := service.RunMatching(context.Background(), dto.RunMatchingRequest{SessionID: "session-1", UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unresolved)
	assert.Nil(t, offerings.updates["off-1"].CanonicalCourseID)
}

func TestMatcherAutoMatchLearnsAlias(t *testing.T) {
	offerings := newStubOfferingRepo(unresolvedOffering("off-1", "CHM 101", "Introduction to Organic Chemistry"))
	canonicals := &stubCanonicalRepo{catalog: []models.CanonicalCourse{
		{ID: "canon-1", NormalizedTitle: "INTRODUCTION TO ORGANIC CHEMISTRY"},
	}}
	aliases := newStubAliasRepo()
	service := newMatcherFixture(offerings, canonicals, aliases, newStubSuggestionRepo())

	_, err := service.RunMatching(context.Background(), dto.RunMatchingRequest{SessionID: "session-1", UserID: "user-1"})
	require.NoError(t, err)

	require.Len(t, aliases.upserted, 1)
	assert.Equal(t, models.AliasSourceAuto, aliases.upserted[0].Source)
	assert.Equal(t, 0.9, aliases.upserted[0].Confidence)
	assert.Equal(t, "canon-1", aliases.upserted[0].CanonicalCourseID)
}

func TestMatcherDeterministicAcrossReruns(t *testing.T) {
	canonicals := &stubCanonicalRepo{catalog: []models.CanonicalCourse{
		{ID: "canon-1", NormalizedTitle: "SOFTWARE ENGINEERING PRINCIPLES"},
		{ID: "canon-2", NormalizedTitle: "SOFTWARE ENGINEERING PRACTICE"},
		{ID: "canon-3", NormalizedTitle: "SOFTWARE PROJECT MANAGEMENT"},
	}}

	var first *MatchResult
	for i := 0; i < 5; i++ {
		offerings := newStubOfferingRepo(unresolvedOffering("off-1", "SEN 301", "Software Engineering"))
		service := newMatcherFixture(offerings, canonicals, newStubAliasRepo(), newStubSuggestionRepo())
		result, err := service.MatchOffering(context.Background(), &offerings.offerings[0])
		require.NoError(t, err)
		if first == nil {
			first = result
			continue
		}
		assert.Equal(t, first.Status, result.Status)
		require.Equal(t, len(first.Suggestions), len(result.Suggestions))
		for j := range first.Suggestions {
			assert.Equal(t, first.Suggestions[j].CanonicalCourseID, result.Suggestions[j].CanonicalCourseID)
			assert.Equal(t, first.Suggestions[j].Score, result.Suggestions[j].Score)
		}
	}
}

func TestMatcherApproveCreatesManualAlias(t *testing.T) {
	offering := unresolvedOffering("off-1", "GEO 204", "Geomorphology")
	offering.MatchStatus = models.MatchStatusNeedsReview
	offerings := newStubOfferingRepo(offering)
	aliases := newStubAliasRepo()
	suggestions := newStubSuggestionRepo()
	suggestions.byOffering["off-1"] = []models.MatchingSuggestion{{OfferingID: "off-1", CanonicalCourseID: "canon-1", Score: 0.85}}
	service := newMatcherFixture(offerings, &stubCanonicalRepo{}, aliases, suggestions)

	resp, err := service.Approve(context.Background(), dto.ApproveMatchRequest{
		OfferingID:        "off-1",
		CanonicalCourseID: "canon-1",
		UserID:            "reviewer-1",
	})
	require.NoError(t, err)
	assert.True(t, resp.AliasCreated)

	update := offerings.updates["off-1"]
	assert.Equal(t, models.MatchStatusManualMatched, update.Status)

	require.Len(t, aliases.upserted, 1)
	assert.Equal(t, models.AliasSourceManualConfirm, aliases.upserted[0].Source)
	assert.Equal(t, 1.0, aliases.upserted[0].Confidence)
	assert.Empty(t, suggestions.byOffering["off-1"])
}
