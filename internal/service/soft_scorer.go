package service

import "github.com/dayo-ade/uniplan-api/internal/models"

// SoftScorer assigns a quality penalty to a feasible candidate. Penalties
// never affect feasibility; the allocator only uses them to rank candidates
// and to report an aggregate run score.
type SoftScorer struct {
	weights          models.SoftWeights
	firstSlotID      string
	lastSlotID       string
	maxLecturerDaily int
}

// NewSoftScorer derives the day's first and last slot from the sorted slot
// list.
func NewSoftScorer(cfg models.ConstraintsConfig, slots []models.TimeSlot) *SoftScorer {
	s := &SoftScorer{
		weights:          cfg.SoftWeights,
		maxLecturerDaily: cfg.Defaults.MaxSessionsPerLecturerPerDay,
	}
	if len(slots) > 0 {
		s.firstSlotID = slots[0].ID
		s.lastSlotID = slots[len(slots)-1].ID
	}
	return s
}

// Penalty accumulates independent weighted penalties for the candidate given
// how many same-offering events and same-lecturer events are already placed
// on the candidate's day.
func (s *SoftScorer) Penalty(c Candidate, sameOfferingOnDay, lecturerOnDay int) float64 {
	penalty := s.weights.SpreadCourseSessions * float64(sameOfferingOnDay)
	if c.TimeslotID == s.firstSlotID {
		penalty += s.weights.AvoidEarly
	}
	last := c.TimeslotID
	if c.SecondTimeslotID != nil {
		last = *c.SecondTimeslotID
	}
	if last == s.lastSlotID {
		penalty += s.weights.AvoidLate
	}
	if s.maxLecturerDaily > 0 && lecturerOnDay >= s.maxLecturerDaily {
		penalty += s.weights.LecturerOverload * float64(lecturerOnDay-s.maxLecturerDaily+1)
	}
	return penalty
}
