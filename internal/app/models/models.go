package models

// RoleType defines the user role type carried in token claims
type RoleType string

const (
	RoleStudent   RoleType = "STUDENT"
	RoleTeacher   RoleType = "TEACHER"
	RoleSuperuser RoleType = "SUPERUSER"
)
