package repositories

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhle/curricula/internal/app/models/dto"
)

func TestSoftDeleteQuery(t *testing.T) {
	tables := []string{
		"categories",
		"courses",
		"curricula",
		"syllabuses",
		"comments",
		"evaluation_criteria",
		"curriculum_evaluations",
	}

	for _, table := range tables {
		t.Run(table, func(t *testing.T) {
			query := softDeleteQuery(table)

			assert.True(t, strings.HasPrefix(query, "UPDATE "+table+" SET active = FALSE"),
				"deletes must deactivate, not remove: %s", query)
			assert.Contains(t, query, "WHERE id = $1 AND active = TRUE")
			assert.NotContains(t, query, "DELETE")
		})
	}
}

func TestCourseQueriesSkipDeactivatedRows(t *testing.T) {
	r := NewCourseRepository(nil)

	sql, args, err := r.filteredQuery(r.sb.Select("c.id").From("courses c"), dto.CourseFilter{}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "c.active = $1")
	assert.Equal(t, []interface{}{true}, args)
}

func TestSyllabusSearchSkipsDeactivatedRows(t *testing.T) {
	r := NewSyllabusRepository(nil)

	sql, args, err := r.searchQuery(r.sb.Select("s.id").From("syllabuses s"), dto.SyllabusFilter{}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "s.active = $1")
	assert.Equal(t, []interface{}{true}, args)
}
