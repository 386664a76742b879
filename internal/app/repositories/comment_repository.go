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

// CommentRepository handles database operations for curriculum comments
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		db: db,
	}
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (curriculum_id, user_id, content, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		comment.CurriculumID,
		comment.UserID,
		comment.Content,
		comment.Active,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCurriculumNotFound
		}
		return fmt.Errorf("error creating comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment with its author by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `
		SELECT cm.id, cm.curriculum_id, cm.user_id, cm.content, cm.active, cm.created_at, cm.updated_at,
			u.id, u.username, u.email, u.first_name, u.last_name
		FROM comments cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.id = $1 AND cm.active = TRUE
	`

	var comment models.Comment
	var author models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.CurriculumID,
		&comment.UserID,
		&comment.Content,
		&comment.Active,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&author.ID,
		&author.Username,
		&author.Email,
		&author.FirstName,
		&author.LastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("error retrieving comment: %w", err)
	}

	comment.Author = &author
	return &comment, nil
}

// ListByCurriculum retrieves comments of a curriculum, newest first
func (r *CommentRepository) ListByCurriculum(ctx context.Context, curriculumID int64, offset, limit int) ([]*models.Comment, error) {
	query := `
		SELECT cm.id, cm.curriculum_id, cm.user_id, cm.content, cm.active, cm.created_at, cm.updated_at,
			u.id, u.username, u.email, u.first_name, u.last_name
		FROM comments cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.curriculum_id = $1 AND cm.active = TRUE
		ORDER BY cm.created_at DESC, cm.id DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, curriculumID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		var author models.User
		if err := rows.Scan(
			&comment.ID,
			&comment.CurriculumID,
			&comment.UserID,
			&comment.Content,
			&comment.Active,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&author.ID,
			&author.Username,
			&author.Email,
			&author.FirstName,
			&author.LastName,
		); err != nil {
			return nil, err
		}
		comment.Author = &author
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

// CountByCurriculum returns the number of comments on a curriculum
func (r *CommentRepository) CountByCurriculum(ctx context.Context, curriculumID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE curriculum_id = $1 AND active = TRUE`, curriculumID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting comments: %w", err)
	}
	return count, nil
}

// Update updates the content of an existing comment
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments
		SET content = $1, active = $2, updated_at = $3
		WHERE id = $4
	`

	now := time.Now()
	cmdTag, err := r.db.Exec(ctx, query,
		comment.Content, comment.Active, now, comment.ID)
	if err != nil {
		return fmt.Errorf("error updating comment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}

	comment.UpdatedAt = now
	return nil
}

// Delete deactivates a comment by ID. The row is kept.
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, softDeleteQuery("comments"), id)
	if err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}

	return nil
}
