package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`                             // Unique identifier for the user
	Username    *string    `json:"username,omitempty" db:"username"`                   // Unique login name, assigned at approval for students (nullable)
	Email       string     `json:"email" db:"email" example:"jane.doe@school.edu.vn"`  // User's email address
	Password    string     `json:"-" db:"password"`                                    // User's hashed password (excluded from JSON)
	FirstName   string     `json:"firstName" db:"first_name" example:"Jane"`           // User's first name
	LastName    string     `json:"lastName" db:"last_name" example:"Doe"`              // User's last name
	BirthYear   *int       `json:"birthYear,omitempty" db:"birth_year" example:"2001"` // Year of birth (nullable)
	Degree      *string    `json:"degree,omitempty" db:"degree" example:"PhD"`         // Academic degree, teachers only (nullable)
	AvatarPath  *string    `json:"avatar,omitempty" db:"avatar_path"`                  // Stored avatar image path (nullable)
	IsStudent   bool       `json:"isStudent" db:"is_student" example:"true"`           // Student role flag
	IsTeacher   bool       `json:"isTeacher" db:"is_teacher" example:"false"`          // Teacher role flag
	IsStaff     bool       `json:"isStaff" db:"is_staff" example:"false"`              // Staff flag, granted on approval
	IsSuperuser bool       `json:"isSuperuser" db:"is_superuser" example:"false"`      // Superuser flag
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`             // Whether the account has been approved
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`           // Timestamp of the last login (nullable)
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`                          // Timestamp when the user was created
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`                          // Timestamp when the user was last updated
}

// Role returns the primary role of the account for token claims.
func (u *User) Role() RoleType {
	switch {
	case u.IsSuperuser:
		return RoleSuperuser
	case u.IsTeacher:
		return RoleTeacher
	default:
		return RoleStudent
	}
}
