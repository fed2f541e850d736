package service

import "github.com/dayo-ade/uniplan-api/internal/models"

// Difficulty scores how constrained an event is so the allocator can schedule
// tight events before flexible ones claim their slots. It is an ordering
// heuristic only and never gates feasibility.
func Difficulty(event models.Event, candidateCount, lecturerEventCount int) int {
	score := 100 - candidateCount
	if score < 0 {
		score = 0
	}
	if event.RoomTypeRequired == models.RoomTypeLab {
		score += 50
	}
	if event.DurationSlots == 2 {
		score += 30
	}
	return score + lecturerEventCount
}
