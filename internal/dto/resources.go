package dto

// CreateSessionRequest registers an academic session.
type CreateSessionRequest struct {
	Name     string `json:"name" validate:"required"`
	Semester string `json:"semester" validate:"required"`
}

// CreateTimeSlotRequest adds one slot to a session's day template.
type CreateTimeSlotRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Label     string `json:"label" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
}

// CreateRoomRequest registers a teaching venue.
type CreateRoomRequest struct {
	SessionID string  `json:"session_id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	RoomType  string  `json:"room_type" validate:"required"`
	Capacity  int     `json:"capacity" validate:"gte=0"`
	Location  *string `json:"location"`
}

// CreateLecturerRequest registers a staff member.
type CreateLecturerRequest struct {
	FullName   string  `json:"full_name" validate:"required"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Department *string `json:"department"`
}

// AssignLecturerRequest links a lecturer to an offering with a share.
type AssignLecturerRequest struct {
	OfferingID string  `json:"offering_id" validate:"required"`
	LecturerID string  `json:"lecturer_id" validate:"required"`
	Share      float64 `json:"share" validate:"gt=0,lte=1"`
}

// CreateCanonicalCourseRequest adds one catalog entry by hand.
type CreateCanonicalCourseRequest struct {
	Title      string  `json:"title" validate:"required"`
	Department *string `json:"department"`
}
