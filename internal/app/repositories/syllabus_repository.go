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

// SyllabusRepository handles database operations for syllabuses
type SyllabusRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSyllabusRepository creates a new syllabus repository
func NewSyllabusRepository(db *pgxpool.Pool) *SyllabusRepository {
	return &SyllabusRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create creates a new syllabus
func (r *SyllabusRepository) Create(ctx context.Context, syllabus *models.Syllabus) error {
	query := `
		INSERT INTO syllabuses (curriculum_id, title, content, file_path, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		syllabus.CurriculumID,
		syllabus.Title,
		syllabus.Content,
		nullableString(syllabus.FilePath),
		syllabus.Active,
	).Scan(&syllabus.ID, &syllabus.CreatedAt, &syllabus.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_syllabuses_title") {
			return apperrors.ErrSyllabusTitleTaken
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCurriculumNotFound
		}
		return fmt.Errorf("error creating syllabus: %w", err)
	}

	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetByID retrieves a syllabus by ID
func (r *SyllabusRepository) GetByID(ctx context.Context, id int64) (*models.Syllabus, error) {
	query := `
		SELECT id, curriculum_id, title, content, COALESCE(file_path, ''), active, created_at, updated_at
		FROM syllabuses
		WHERE id = $1 AND active = TRUE
	`

	var syllabus models.Syllabus
	err := r.db.QueryRow(ctx, query, id).Scan(
		&syllabus.ID,
		&syllabus.CurriculumID,
		&syllabus.Title,
		&syllabus.Content,
		&syllabus.FilePath,
		&syllabus.Active,
		&syllabus.CreatedAt,
		&syllabus.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSyllabusNotFound
		}
		return nil, fmt.Errorf("error retrieving syllabus: %w", err)
	}

	return &syllabus, nil
}

// search joins through curricula, courses and users so every filter can
// be applied in one query. Syllabuses without a curriculum only match
// when no curriculum-dependent filter is set.
func (r *SyllabusRepository) searchQuery(base squirrel.SelectBuilder, filter dto.SyllabusFilter) squirrel.SelectBuilder {
	base = base.Where(squirrel.Eq{"s.active": true})
	if filter.Title != "" {
		base = base.Where(squirrel.ILike{"s.title": "%" + filter.Title + "%"})
	}
	if filter.CourseName != "" {
		base = base.Where(squirrel.ILike{"co.name": "%" + filter.CourseName + "%"})
	}
	if filter.CourseCredits > 0 {
		base = base.Where(squirrel.Eq{"co.credits": filter.CourseCredits})
	}
	if filter.OwnerUsername != "" {
		base = base.Where(squirrel.Eq{"u.username": filter.OwnerUsername})
	}
	if filter.StartYear > 0 {
		base = base.Where(squirrel.Eq{"cu.start_year": filter.StartYear})
	}
	if filter.EndYear > 0 {
		base = base.Where(squirrel.Eq{"cu.end_year": filter.EndYear})
	}
	return base
}

func needsCurriculumJoin(filter dto.SyllabusFilter) bool {
	return filter.CourseName != "" || filter.CourseCredits > 0 ||
		filter.OwnerUsername != "" || filter.StartYear > 0 || filter.EndYear > 0
}

func (r *SyllabusRepository) joined(base squirrel.SelectBuilder, filter dto.SyllabusFilter) squirrel.SelectBuilder {
	if needsCurriculumJoin(filter) {
		return base.
			Join("curricula cu ON cu.id = s.curriculum_id").
			Join("courses co ON co.id = cu.course_id").
			Join("users u ON u.id = cu.user_id")
	}
	return base
}

// Search retrieves syllabuses matching the filter, newest first
func (r *SyllabusRepository) Search(ctx context.Context, filter dto.SyllabusFilter, offset, limit int) ([]*models.Syllabus, error) {
	base := r.sb.Select(
		"s.id", "s.curriculum_id", "s.title", "s.content", "COALESCE(s.file_path, '')",
		"s.active", "s.created_at", "s.updated_at").
		From("syllabuses s").
		OrderBy("s.created_at DESC", "s.id DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit))

	base = r.joined(base, filter)

	sql, args, err := r.searchQuery(base, filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build syllabus search query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error searching syllabuses: %w", err)
	}
	defer rows.Close()

	var syllabuses []*models.Syllabus
	for rows.Next() {
		var syllabus models.Syllabus
		if err := rows.Scan(
			&syllabus.ID,
			&syllabus.CurriculumID,
			&syllabus.Title,
			&syllabus.Content,
			&syllabus.FilePath,
			&syllabus.Active,
			&syllabus.CreatedAt,
			&syllabus.UpdatedAt,
		); err != nil {
			return nil, err
		}
		syllabuses = append(syllabuses, &syllabus)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return syllabuses, nil
}

// CountSearch returns the number of syllabuses matching the filter
func (r *SyllabusRepository) CountSearch(ctx context.Context, filter dto.SyllabusFilter) (int64, error) {
	base := r.sb.Select("COUNT(*)").From("syllabuses s")
	base = r.joined(base, filter)

	sql, args, err := r.searchQuery(base, filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build syllabus count query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting syllabuses: %w", err)
	}
	return count, nil
}

// Update updates an existing syllabus
func (r *SyllabusRepository) Update(ctx context.Context, syllabus *models.Syllabus) error {
	query := `
		UPDATE syllabuses
		SET curriculum_id = $1, title = $2, content = $3, file_path = $4, active = $5, updated_at = $6
		WHERE id = $7
	`

	now := time.Now()
	cmdTag, err := r.db.Exec(ctx, query,
		syllabus.CurriculumID,
		syllabus.Title,
		syllabus.Content,
		nullableString(syllabus.FilePath),
		syllabus.Active,
		now,
		syllabus.ID,
	)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_syllabuses_title") {
			return apperrors.ErrSyllabusTitleTaken
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCurriculumNotFound
		}
		return fmt.Errorf("error updating syllabus: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSyllabusNotFound
	}

	syllabus.UpdatedAt = now
	return nil
}

// Delete deactivates a syllabus by ID. The row and its stored
// attachment are kept.
func (r *SyllabusRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, softDeleteQuery("syllabuses"), id)
	if err != nil {
		return fmt.Errorf("error deleting syllabus: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSyllabusNotFound
	}

	return nil
}
