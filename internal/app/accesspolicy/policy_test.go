package accesspolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	visitor := Caller{}
	student := FromUserFacts(1, true, false, false, true)
	teacher := FromUserFacts(2, false, true, false, true)
	superuser := FromUserFacts(3, false, false, true, true)
	inactiveTeacher := FromUserFacts(4, false, true, false, false)

	tests := []struct {
		name   string
		op     Operation
		caller Caller
		want   bool
	}{
		{"visitor reads the catalog", OpCatalogRead, visitor, true},
		{"visitor downloads syllabuses", OpSyllabusDownload, visitor, true},
		{"visitor cannot write categories", OpCategoryWrite, visitor, false},
		{"visitor cannot comment", OpCommentCreate, visitor, false},

		{"student comments", OpCommentCreate, student, true},
		{"student cannot create curricula", OpCurriculumCreate, student, false},
		{"student cannot administer users", OpUserAdmin, student, false},

		{"teacher creates curricula", OpCurriculumCreate, teacher, true},
		{"teacher cannot write courses", OpCourseWrite, teacher, false},
		{"teacher cannot retrieve other accounts", OpUserAdmin, teacher, false},
		{"inactive teacher cannot create curricula", OpCurriculumCreate, inactiveTeacher, false},

		{"superuser writes categories", OpCategoryWrite, superuser, true},
		{"superuser writes criteria", OpCriterionWrite, superuser, true},
		{"superuser administers users", OpUserAdmin, superuser, true},
		{"superuser creates curricula", OpCurriculumCreate, superuser, true},

		{"unknown operation denied", Operation("nope"), superuser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.op, tt.caller))
		})
	}
}

func TestAllowedOnResource(t *testing.T) {
	owner := FromUserFacts(10, false, true, false, true)
	otherTeacher := FromUserFacts(11, false, true, false, true)
	student := FromUserFacts(12, true, false, false, true)
	superuser := FromUserFacts(13, false, false, true, true)
	inactiveOwner := FromUserFacts(10, false, true, false, false)

	t.Run("owner modifies their curriculum", func(t *testing.T) {
		assert.True(t, AllowedOnResource(OpCurriculumModify, owner, 10))
	})

	t.Run("another teacher cannot", func(t *testing.T) {
		assert.False(t, AllowedOnResource(OpCurriculumModify, otherTeacher, 10))
	})

	t.Run("a student owner cannot modify a curriculum", func(t *testing.T) {
		assert.False(t, AllowedOnResource(OpCurriculumModify, student, 12))
	})

	t.Run("superuser modifies any curriculum", func(t *testing.T) {
		assert.True(t, AllowedOnResource(OpCurriculumModify, superuser, 10))
	})

	t.Run("inactive owner is denied", func(t *testing.T) {
		assert.False(t, AllowedOnResource(OpCurriculumModify, inactiveOwner, 10))
	})

	t.Run("comment author edits their comment", func(t *testing.T) {
		assert.True(t, AllowedOnResource(OpCommentModify, student, 12))
		assert.False(t, AllowedOnResource(OpCommentModify, student, 11))
	})

	t.Run("profile updates are self-only", func(t *testing.T) {
		assert.True(t, AllowedOnResource(OpProfileUpdate, student, 12))
		assert.False(t, AllowedOnResource(OpProfileUpdate, student, 10))
		assert.True(t, AllowedOnResource(OpProfileUpdate, superuser, 10))
	})

	t.Run("unauthenticated caller is always denied", func(t *testing.T) {
		assert.False(t, AllowedOnResource(OpCurriculumModify, Caller{}, 0))
	})
}
