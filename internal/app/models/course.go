package models

import "time"

// Course represents a course offered under a category.
type Course struct {
	ID         int64     `json:"id" db:"id"`
	CategoryID int64     `json:"categoryId" db:"category_id"`
	Name       string    `json:"name" db:"name"`
	Credits    int       `json:"credits" db:"credits"`
	Active     bool      `json:"active" db:"active"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Category *Category `json:"category,omitempty"`
}
