package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dayo-ade/uniplan-api/internal/models"
)

func newScorerFixture() *SoftScorer {
	cfg := models.ConstraintsConfig{
		SoftWeights: models.SoftWeights{
			SpreadCourseSessions: 2.0,
			AvoidEarly:           1.0,
			AvoidLate:            1.5,
			LecturerOverload:     3.0,
		},
		Defaults: models.SchedulingDefaults{MaxSessionsPerLecturerPerDay: 3},
	}
	slots := []models.TimeSlot{
		{ID: "TS1"}, {ID: "TS2"}, {ID: "TS3"}, {ID: "TS4"},
	}
	return NewSoftScorer(cfg, slots)
}

func TestPenaltyZeroForMidday(t *testing.T) {
	scorer := newScorerFixture()

	penalty := scorer.Penalty(Candidate{Day: models.DayMonday, TimeslotID: "TS2", RoomID: "room-1"}, 0, 0)
	assert.Equal(t, 0.0, penalty)
}

func TestPenaltyEarlyAndLateSlots(t *testing.T) {
	scorer := newScorerFixture()

	early := scorer.Penalty(Candidate{Day: models.DayMonday, TimeslotID: "TS1"}, 0, 0)
	assert.Equal(t, 1.0, early)

	late := scorer.Penalty(Candidate{Day: models.DayMonday, TimeslotID: "TS4"}, 0, 0)
	assert.Equal(t, 1.5, late)
}

func TestPenaltyDoubleSlotEndingLate(t *testing.T) {
	scorer := newScorerFixture()
	second := "TS4"

	penalty := scorer.Penalty(Candidate{Day: models.DayMonday, TimeslotID: "TS3", SecondTimeslotID: &second}, 0, 0)
	assert.Equal(t, 1.5, penalty)
}

func TestPenaltySpreadScalesWithSameDayEvents(t *testing.T) {
	scorer := newScorerFixture()
	c := Candidate{Day: models.DayTuesday, TimeslotID: "TS2"}

	assert.Equal(t, 2.0, scorer.Penalty(c, 1, 0))
	assert.Equal(t, 4.0, scorer.Penalty(c, 2, 0))
}

func TestPenaltyLecturerOverloadKicksInAtLimit(t *testing.T) {
	scorer := newScorerFixture()
	c := Candidate{Day: models.DayTuesday, TimeslotID: "TS2"}

	assert.Equal(t, 0.0, scorer.Penalty(c, 0, 2))
	assert.Equal(t, 3.0, scorer.Penalty(c, 0, 3))
	assert.Equal(t, 6.0, scorer.Penalty(c, 0, 4))
}

func TestPenaltiesAccumulate(t *testing.T) {
	scorer := newScorerFixture()

	penalty := scorer.Penalty(Candidate{Day: models.DayFriday, TimeslotID: "TS1"}, 1, 3)
	assert.Equal(t, 1.0+2.0+3.0, penalty)
}

func TestPenaltyWithoutDailyLimit(t *testing.T) {
	cfg := models.ConstraintsConfig{
		SoftWeights: models.SoftWeights{LecturerOverload: 3.0},
	}
	scorer := NewSoftScorer(cfg, []models.TimeSlot{{ID: "TS1"}, {ID: "TS2"}})

	assert.Equal(t, 0.0, scorer.Penalty(Candidate{TimeslotID: "TS2"}, 0, 10))
}
