package models

import "time"

// Syllabus is a document attached to a curriculum. Title is globally unique.
type Syllabus struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Content      string    `json:"content" db:"content"`
	CurriculumID *int64    `json:"curriculumId,omitempty" db:"curriculum_id"` // Nullable
	FilePath     string    `json:"filePath" db:"file_path"`                   // Stored attachment path
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	Curriculum *Curriculum `json:"curriculum,omitempty"`
}
