package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	TokenRepository      *TokenRepository
	CategoryRepository   *CategoryRepository
	CourseRepository     *CourseRepository
	CurriculumRepository *CurriculumRepository
	SyllabusRepository   *SyllabusRepository
	EvaluationRepository *EvaluationRepository
	CommentRepository    *CommentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		TokenRepository:      NewTokenRepository(db),
		CategoryRepository:   NewCategoryRepository(db),
		CourseRepository:     NewCourseRepository(db),
		CurriculumRepository: NewCurriculumRepository(db),
		SyllabusRepository:   NewSyllabusRepository(db),
		EvaluationRepository: NewEvaluationRepository(db),
		CommentRepository:    NewCommentRepository(db),
	}
}

// softDeleteQuery builds the deactivation statement shared by every
// soft-deleted entity. Rows are never removed, so dependent history
// (schemes, scores, comments) survives a delete.
func softDeleteQuery(table string) string {
	return `UPDATE ` + table + ` SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active = TRUE`
}
