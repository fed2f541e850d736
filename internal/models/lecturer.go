package models

import "time"

// Lecturer is a teaching staff member.
type Lecturer struct {
	ID         string    `db:"id" json:"id"`
	FullName   string    `db:"full_name" json:"full_name"`
	Email      *string   `db:"email" json:"email,omitempty"`
	Department *string   `db:"department" json:"department,omitempty"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// LecturerAssignment links a lecturer to a course offering with a teaching share.
type LecturerAssignment struct {
	ID         string    `db:"id" json:"id"`
	OfferingID string    `db:"offering_id" json:"offering_id"`
	LecturerID string    `db:"lecturer_id" json:"lecturer_id"`
	Share      float64   `db:"share" json:"share"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
