package models

import "time"

// Curriculum is a time-bounded instance of a course owned by the user
// who created it. (course_id, start_year, end_year) is unique.
type Curriculum struct {
	ID          int64     `json:"id" db:"id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	UserID      int64     `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	StartYear   int       `json:"startYear" db:"start_year"`
	EndYear     int       `json:"endYear" db:"end_year"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
	Owner  *User   `json:"owner,omitempty"`
}
