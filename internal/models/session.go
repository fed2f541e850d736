package models

import "time"

// Session is one academic session/semester that scopes all scheduling data.
type Session struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Semester  string    `db:"semester" json:"semester"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
