package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

type stubAssignmentRepo struct {
	byOffering map[string][]models.LecturerAssignment
}

func (r *stubAssignmentRepo) ListByOffering(_ context.Context, offeringID string) ([]models.LecturerAssignment, error) {
	return r.byOffering[offeringID], nil
}

type stubEventRepo struct {
	deletedSessions []string
	created         []models.Event
}

func (r *stubEventRepo) DeleteBySession(_ context.Context, sessionID string) error {
	r.deletedSessions = append(r.deletedSessions, sessionID)
	return nil
}

func (r *stubEventRepo) CreateBatch(_ context.Context, events []models.Event) ([]models.Event, error) {
	r.created = append(r.created, events...)
	return events, nil
}

type stubConstraintsProvider struct {
	cfg models.ConstraintsConfig
}

func (p *stubConstraintsProvider) GetOrDefault(_ context.Context, _ string) (models.ConstraintsConfig, error) {
	return p.cfg, nil
}

func matchedOffering(id string, offeringType models.OfferingType, units int) models.CourseOffering {
	return models.CourseOffering{
		ID:          id,
		SessionID:   "session-1",
		Type:        offeringType,
		CreditUnits: units,
		MatchStatus: models.MatchStatusAutoMatched,
	}
}

func newExpanderFixture(offerings *stubOfferingRepo, assignments *stubAssignmentRepo, events *stubEventRepo) *EventExpanderService {
	if assignments == nil {
		assignments = &stubAssignmentRepo{byOffering: map[string][]models.LecturerAssignment{}}
	}
	return NewEventExpanderService(offerings, assignments, events, &stubConstraintsProvider{cfg: models.DefaultConstraints()}, zapTestLogger())
}

func TestExpandThreeUnitLecture(t *testing.T) {
	offerings := newStubOfferingRepo(matchedOffering("off-1", models.OfferingTypeLecture, 3))
	events := &stubEventRepo{}
	service := newExpanderFixture(offerings, nil, events)

	created, err := service.ExpandSession(context.Background(), "session-1")
	require.NoError(t, err)

	// 3-unit lectures expand to one double and one single slot.
	require.Len(t, created, 2)
	assert.Equal(t, 2, created[0].DurationSlots)
	assert.Equal(t, 1, created[1].DurationSlots)
	assert.Equal(t, 0, created[0].EventIndex)
	assert.Equal(t, 1, created[1].EventIndex)
	for _, e := range created {
		assert.Equal(t, models.RoomTypeLectureRoom, e.RoomTypeRequired)
		assert.Equal(t, "session-1", e.SessionID)
	}
	assert.Equal(t, []string{"session-1"}, events.deletedSessions)
}

func TestExpandLabUsesDefaultMapping(t *testing.T) {
	offerings := newStubOfferingRepo(matchedOffering("off-1", models.OfferingTypeLab, 1))
	events := &stubEventRepo{}
	service := newExpanderFixture(offerings, nil, events)

	created, err := service.ExpandSession(context.Background(), "session-1")
	require.NoError(t, err)

	require.Len(t, created, 1)
	assert.Equal(t, 2, created[0].DurationSlots)
	assert.Equal(t, models.RoomTypeLab, created[0].RoomTypeRequired)
}

func TestExpandUnmappedUnitsFallBackToSingles(t *testing.T) {
	offerings := newStubOfferingRepo(matchedOffering("off-1", models.OfferingTypeLecture, 5))
	events := &stubEventRepo{}
	service := newExpanderFixture(offerings, nil, events)

	created, err := service.ExpandSession(context.Background(), "session-1")
	require.NoError(t, err)

	// No mapping entry for 5 units and no lecture default: one single slot
	// per unit.
	require.Len(t, created, 5)
	for _, e := range created {
		assert.Equal(t, 1, e.DurationSlots)
	}
}

func TestExpandPicksHighestShareLecturer(t *testing.T) {
	offerings := newStubOfferingRepo(matchedOffering("off-1", models.OfferingTypeLecture, 1))
	assignments := &stubAssignmentRepo{byOffering: map[string][]models.LecturerAssignment{
		"off-1": {
			{OfferingID: "off-1", LecturerID: "lect-1", Share: 0.3},
			{OfferingID: "off-1", LecturerID: "lect-2", Share: 0.7},
		},
	}}
	events := &stubEventRepo{}
	service := newExpanderFixture(offerings, assignments, events)

	created, err := service.ExpandSession(context.Background(), "session-1")
	require.NoError(t, err)

	require.Len(t, created, 1)
	require.NotNil(t, created[0].LecturerID)
	assert.Equal(t, "lect-2", *created[0].LecturerID)
}

func TestExpandSkipsUnmatchedOfferings(t *testing.T) {
	unmatched := matchedOffering("off-2", models.OfferingTypeLecture, 2)
	unmatched.MatchStatus = models.MatchStatusUnresolved
	offerings := newStubOfferingRepo(matchedOffering("off-1", models.OfferingTypeLecture, 2), unmatched)
	events := &stubEventRepo{}
	service := newExpanderFixture(offerings, nil, events)

	created, err := service.ExpandSession(context.Background(), "session-1")
	require.NoError(t, err)

	require.Len(t, created, 2)
	for _, e := range created {
		assert.Equal(t, "off-1", e.OfferingID)
	}
}
