package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is not active")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")
)

// User and role lifecycle errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrInvalidAccount is the precondition violation reported when an
	// approval targets a wrong-role or already-active account.
	ErrInvalidAccount = errors.New("invalid account")
)

// Catalog errors
var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
	ErrCourseNotFound        = errors.New("course not found")
	ErrCourseNameTaken       = errors.New("course with this name already exists")
	ErrCurriculumNotFound    = errors.New("curriculum not found")
	ErrCurriculumYearsTaken  = errors.New("curriculum for this course and year range already exists")
	ErrSyllabusNotFound      = errors.New("syllabus not found")
	ErrSyllabusTitleTaken    = errors.New("syllabus with this title already exists")
	ErrCommentNotFound       = errors.New("comment not found")
)

// Evaluation scheme errors
var (
	ErrCriterionNotFound           = errors.New("evaluation criterion not found")
	ErrCriterionNameTaken          = errors.New("criterion with this name already exists for the curriculum")
	ErrCriterionLimitReached       = errors.New("curriculum already has the maximum number of criteria")
	ErrWeightBudgetExceeded        = errors.New("total criterion weight would exceed 1.00")
	ErrEvaluationNotFound          = errors.New("curriculum evaluation not found")
	ErrCriterionCurriculumMismatch = errors.New("criterion does not belong to the evaluation's curriculum")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a field-scoped validation failure.
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}

// NewInvalidAccountError creates a precondition violation for approval flows.
func NewInvalidAccountError(message string) error {
	return &CustomError{
		Err:     ErrInvalidAccount,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
