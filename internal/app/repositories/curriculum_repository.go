package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/pkg/apperrors"
	"github.com/minhle/curricula/internal/pkg/dberrors"
)

// CurriculumRepository handles database operations for curricula
type CurriculumRepository struct {
	db *pgxpool.Pool
}

// NewCurriculumRepository creates a new curriculum repository
func NewCurriculumRepository(db *pgxpool.Pool) *CurriculumRepository {
	return &CurriculumRepository{
		db: db,
	}
}

// Create creates a new curriculum
func (r *CurriculumRepository) Create(ctx context.Context, curriculum *models.Curriculum) error {
	query := `
		INSERT INTO curricula (course_id, user_id, title, description, start_year, end_year, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		curriculum.CourseID,
		curriculum.UserID,
		curriculum.Title,
		curriculum.Description,
		curriculum.StartYear,
		curriculum.EndYear,
		curriculum.Active,
	).Scan(&curriculum.ID, &curriculum.CreatedAt, &curriculum.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_curricula_course_years") {
			return apperrors.ErrCurriculumYearsTaken
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating curriculum: %w", err)
	}

	return nil
}

// GetByID retrieves a curriculum with its course and owner by ID
func (r *CurriculumRepository) GetByID(ctx context.Context, id int64) (*models.Curriculum, error) {
	query := `
		SELECT cu.id, cu.course_id, cu.user_id, cu.title, cu.description,
			cu.start_year, cu.end_year, cu.active, cu.created_at, cu.updated_at,
			c.id, c.category_id, c.name, c.credits, c.active, c.created_at, c.updated_at,
			u.id, u.username, u.email, u.first_name, u.last_name
		FROM curricula cu
		JOIN courses c ON c.id = cu.course_id
		JOIN users u ON u.id = cu.user_id
		WHERE cu.id = $1 AND cu.active = TRUE
	`

	var curriculum models.Curriculum
	var course models.Course
	var owner models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&curriculum.ID,
		&curriculum.CourseID,
		&curriculum.UserID,
		&curriculum.Title,
		&curriculum.Description,
		&curriculum.StartYear,
		&curriculum.EndYear,
		&curriculum.Active,
		&curriculum.CreatedAt,
		&curriculum.UpdatedAt,
		&course.ID,
		&course.CategoryID,
		&course.Name,
		&course.Credits,
		&course.Active,
		&course.CreatedAt,
		&course.UpdatedAt,
		&owner.ID,
		&owner.Username,
		&owner.Email,
		&owner.FirstName,
		&owner.LastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCurriculumNotFound
		}
		return nil, fmt.Errorf("error retrieving curriculum: %w", err)
	}

	curriculum.Course = &course
	curriculum.Owner = &owner
	return &curriculum, nil
}

// List retrieves curricula, optionally filtered by course, newest year first
func (r *CurriculumRepository) List(ctx context.Context, courseID int64, offset, limit int) ([]*models.Curriculum, error) {
	query := `
		SELECT cu.id, cu.course_id, cu.user_id, cu.title, cu.description,
			cu.start_year, cu.end_year, cu.active, cu.created_at, cu.updated_at,
			c.id, c.category_id, c.name, c.credits, c.active, c.created_at, c.updated_at,
			u.id, u.username, u.email, u.first_name, u.last_name
		FROM curricula cu
		JOIN courses c ON c.id = cu.course_id
		JOIN users u ON u.id = cu.user_id
		WHERE cu.active = TRUE AND ($1 = 0 OR cu.course_id = $1)
		ORDER BY cu.start_year DESC, cu.id DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, courseID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing curricula: %w", err)
	}
	defer rows.Close()

	var curricula []*models.Curriculum
	for rows.Next() {
		var curriculum models.Curriculum
		var course models.Course
		var owner models.User
		if err := rows.Scan(
			&curriculum.ID,
			&curriculum.CourseID,
			&curriculum.UserID,
			&curriculum.Title,
			&curriculum.Description,
			&curriculum.StartYear,
			&curriculum.EndYear,
			&curriculum.Active,
			&curriculum.CreatedAt,
			&curriculum.UpdatedAt,
			&course.ID,
			&course.CategoryID,
			&course.Name,
			&course.Credits,
			&course.Active,
			&course.CreatedAt,
			&course.UpdatedAt,
			&owner.ID,
			&owner.Username,
			&owner.Email,
			&owner.FirstName,
			&owner.LastName,
		); err != nil {
			return nil, err
		}
		curriculum.Course = &course
		curriculum.Owner = &owner
		curricula = append(curricula, &curriculum)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return curricula, nil
}

// Count returns the number of curricula, optionally filtered by course
func (r *CurriculumRepository) Count(ctx context.Context, courseID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM curricula WHERE active = TRUE AND ($1 = 0 OR course_id = $1)`, courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting curricula: %w", err)
	}
	return count, nil
}

// Update updates an existing curriculum
func (r *CurriculumRepository) Update(ctx context.Context, curriculum *models.Curriculum) error {
	query := `
		UPDATE curricula
		SET course_id = $1, title = $2, description = $3, start_year = $4, end_year = $5,
			active = $6, updated_at = $7
		WHERE id = $8
	`

	now := time.Now()
	cmdTag, err := r.db.Exec(ctx, query,
		curriculum.CourseID,
		curriculum.Title,
		curriculum.Description,
		curriculum.StartYear,
		curriculum.EndYear,
		curriculum.Active,
		now,
		curriculum.ID,
	)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_curricula_course_years") {
			return apperrors.ErrCurriculumYearsTaken
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error updating curriculum: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCurriculumNotFound
	}

	curriculum.UpdatedAt = now
	return nil
}

// Delete deactivates a curriculum by ID. Its scheme, recorded scores
// and comments stay in place.
func (r *CurriculumRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, softDeleteQuery("curricula"), id)
	if err != nil {
		return fmt.Errorf("error deleting curriculum: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCurriculumNotFound
	}

	return nil
}
