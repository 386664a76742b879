// Package accesspolicy is the single decision table for who may perform
// which operation. It is pure: callers load the facts, the table answers.
package accesspolicy

// Operation classifies every guarded action in the API.
type Operation string

const (
	// Public catalog reads and syllabus downloads
	OpCatalogRead      Operation = "catalog.read"
	OpSyllabusDownload Operation = "syllabus.download"

	// Superuser-only administration
	OpCategoryWrite   Operation = "category.write"
	OpCourseWrite     Operation = "course.write"
	OpSyllabusWrite   Operation = "syllabus.write"
	OpCriterionWrite  Operation = "criterion.write"
	OpEvaluationWrite Operation = "evaluation.write"
	OpUserAdmin       Operation = "user.admin"

	// Authenticated operations with finer rules
	OpCurriculumCreate Operation = "curriculum.create"
	OpCurriculumModify Operation = "curriculum.modify"
	OpCommentCreate    Operation = "comment.create"
	OpCommentModify    Operation = "comment.modify"
	OpProfileUpdate    Operation = "profile.update"
)

// Caller is the identity a decision is made against. The zero value is
// an unauthenticated visitor.
type Caller struct {
	Authenticated bool
	UserID        int64
	IsStudent     bool
	IsTeacher     bool
	IsSuperuser   bool
	IsActive      bool
}

// Allowed reports whether the caller may perform op on a resource it
// does not own. Ownership-scoped operations (curriculum.modify,
// comment.modify, profile.update) use AllowedOnResource instead.
func Allowed(op Operation, caller Caller) bool {
	switch op {
	case OpCatalogRead, OpSyllabusDownload:
		return true

	case OpCategoryWrite, OpCourseWrite, OpSyllabusWrite,
		OpCriterionWrite, OpEvaluationWrite, OpUserAdmin:
		return caller.Authenticated && caller.IsActive && caller.IsSuperuser

	case OpCurriculumCreate:
		return caller.Authenticated && caller.IsActive &&
			(caller.IsTeacher || caller.IsSuperuser)

	case OpCommentCreate:
		return caller.Authenticated && caller.IsActive

	case OpCurriculumModify, OpCommentModify, OpProfileUpdate:
		// Without a resource owner only a superuser qualifies
		return caller.Authenticated && caller.IsActive && caller.IsSuperuser

	default:
		return false
	}
}

// AllowedOnResource reports whether the caller may perform op on a
// resource owned by ownerID. Superusers pass; otherwise the caller must
// own the resource and hold the operation's base permission.
func AllowedOnResource(op Operation, caller Caller, ownerID int64) bool {
	if !caller.Authenticated || !caller.IsActive {
		return false
	}
	if caller.IsSuperuser {
		return true
	}

	switch op {
	case OpCurriculumModify:
		return caller.UserID == ownerID && (caller.IsTeacher || caller.IsSuperuser)
	case OpCommentModify, OpProfileUpdate:
		return caller.UserID == ownerID
	default:
		return Allowed(op, caller)
	}
}

// FromUserFacts builds a Caller from the account flags carried in an
// access token or loaded user row.
func FromUserFacts(userID int64, isStudent, isTeacher, isSuperuser, isActive bool) Caller {
	return Caller{
		Authenticated: true,
		UserID:        userID,
		IsStudent:     isStudent,
		IsTeacher:     isTeacher,
		IsSuperuser:   isSuperuser,
		IsActive:      isActive,
	}
}
