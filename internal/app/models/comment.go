package models

import "time"

// Comment is a user remark on a curriculum. The author is fixed at
// creation time and never changes.
type Comment struct {
	ID           int64     `json:"id" db:"id"`
	CurriculumID int64     `json:"curriculumId" db:"curriculum_id"`
	UserID       int64     `json:"userId" db:"user_id"`
	Content      string    `json:"content" db:"content"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	Author *User `json:"author,omitempty"`
}
