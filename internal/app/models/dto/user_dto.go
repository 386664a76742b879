package dto

import (
	"github.com/minhle/curricula/internal/app/models"
)

// RegisterTeacherRequest is bound from the multipart teacher
// self-registration form. All fields are mandatory, the avatar file is
// read separately from the form.
type RegisterTeacherRequest struct {
	Username  string `form:"username" binding:"required" example:"prof.nguyen"`
	Password  string `form:"password" binding:"required" example:"s3cret-pass1"`
	Email     string `form:"email" binding:"required" example:"prof.nguyen@school.edu.vn"`
	Degree    string `form:"degree" binding:"required" example:"PhD"`
	FirstName string `form:"firstName" example:"Van"`
	LastName  string `form:"lastName" example:"Nguyen"`
	BirthYear *int   `form:"birthYear" example:"1980"`
}

// RegisterStudentRequest is bound from the student self-registration
// form. Only the email is mandatory; the username and an initial
// password are assigned at approval time.
type RegisterStudentRequest struct {
	Email     string `json:"email" binding:"required" example:"jane.doe@school.edu.vn"`
	FirstName string `json:"firstName" example:"Jane"`
	LastName  string `json:"lastName" example:"Doe"`
	BirthYear *int   `json:"birthYear" example:"2003"`
}

// UpdateProfileRequest carries the allow-listed self-service profile
// fields. Anything else on the account is off limits.
type UpdateProfileRequest struct {
	FirstName *string `form:"firstName"`
	LastName  *string `form:"lastName"`
	BirthYear *int    `form:"birthYear"`
	Password  *string `form:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID          int64   `json:"id" example:"1"`
	Username    *string `json:"username,omitempty" example:"jane.doe"`
	Email       string  `json:"email" example:"jane.doe@school.edu.vn"`
	FirstName   string  `json:"firstName" example:"Jane"`
	LastName    string  `json:"lastName" example:"Doe"`
	BirthYear   *int    `json:"birthYear,omitempty" example:"2003"`
	Degree      *string `json:"degree,omitempty" example:"PhD"`
	Avatar      *string `json:"avatar,omitempty"`
	IsStudent   bool    `json:"isStudent" example:"true"`
	IsTeacher   bool    `json:"isTeacher" example:"false"`
	IsStaff     bool    `json:"isStaff" example:"false"`
	IsSuperuser bool    `json:"isSuperuser" example:"false"`
	IsActive    bool    `json:"isActive" example:"true"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(u *models.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		BirthYear:   u.BirthYear,
		Degree:      u.Degree,
		Avatar:      u.AvatarPath,
		IsStudent:   u.IsStudent,
		IsTeacher:   u.IsTeacher,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
	}
}
