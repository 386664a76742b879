package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/pkg/apperrors"
	"github.com/minhle/curricula/internal/pkg/dberrors"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (category_id, name, credits, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		course.CategoryID, course.Name, course.Credits, course.Active).
		Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_courses_name") {
			return apperrors.ErrCourseNameTaken
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCategoryNotFound
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course with its category by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT c.id, c.category_id, c.name, c.credits, c.active, c.created_at, c.updated_at,
			cat.id, cat.name, cat.active, cat.created_at, cat.updated_at
		FROM courses c
		JOIN categories cat ON cat.id = c.category_id
		WHERE c.id = $1 AND c.active = TRUE
	`

	var course models.Course
	var category models.Category
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.CategoryID,
		&course.Name,
		&course.Credits,
		&course.Active,
		&course.CreatedAt,
		&course.UpdatedAt,
		&category.ID,
		&category.Name,
		&category.Active,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	course.Category = &category
	return &course, nil
}

func (r *CourseRepository) filteredQuery(base squirrel.SelectBuilder, filter dto.CourseFilter) squirrel.SelectBuilder {
	base = base.Where(squirrel.Eq{"c.active": true})
	if filter.Query != "" {
		base = base.Where(squirrel.ILike{"c.name": "%" + filter.Query + "%"})
	}
	if filter.CategoryID > 0 {
		base = base.Where(squirrel.Eq{"c.category_id": filter.CategoryID})
	}
	return base
}

// List retrieves courses matching the filter, ordered by name
func (r *CourseRepository) List(ctx context.Context, filter dto.CourseFilter, offset, limit int) ([]*models.Course, error) {
	base := r.sb.Select(
		"c.id", "c.category_id", "c.name", "c.credits", "c.active", "c.created_at", "c.updated_at",
		"cat.id", "cat.name", "cat.active", "cat.created_at", "cat.updated_at").
		From("courses c").
		Join("categories cat ON cat.id = c.category_id").
		OrderBy("c.name").
		Offset(uint64(offset)).
		Limit(uint64(limit))

	sql, args, err := r.filteredQuery(base, filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		var category models.Category
		if err := rows.Scan(
			&course.ID,
			&course.CategoryID,
			&course.Name,
			&course.Credits,
			&course.Active,
			&course.CreatedAt,
			&course.UpdatedAt,
			&category.ID,
			&category.Name,
			&category.Active,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		course.Category = &category
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// Count returns the number of courses matching the filter
func (r *CourseRepository) Count(ctx context.Context, filter dto.CourseFilter) (int64, error) {
	base := r.sb.Select("COUNT(*)").From("courses c")

	sql, args, err := r.filteredQuery(base, filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build course count query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return count, nil
}

// Update updates an existing course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET category_id = $1, name = $2, credits = $3, active = $4, updated_at = $5
		WHERE id = $6
	`

	now := time.Now()
	cmdTag, err := r.db.Exec(ctx, query,
		course.CategoryID, course.Name, course.Credits, course.Active, now, course.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_courses_name") {
			return apperrors.ErrCourseNameTaken
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCategoryNotFound
		}
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	course.UpdatedAt = now
	return nil
}

// Delete deactivates a course by ID. The row is kept.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, softDeleteQuery("courses"), id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}
