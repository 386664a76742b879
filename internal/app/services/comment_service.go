package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/pkg/apperrors"
)

// CommentStore is the comment persistence surface.
type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByCurriculum(ctx context.Context, curriculumID int64, offset, limit int) ([]*models.Comment, error)
	CountByCurriculum(ctx context.Context, curriculumID int64) (int64, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) error
}

// CommentService manages curriculum comments.
type CommentService interface {
	CreateComment(ctx context.Context, authorID int64, req dto.CreateCommentRequest) (*models.Comment, error)
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	ListComments(ctx context.Context, curriculumID int64, offset, limit int) ([]*models.Comment, int64, error)
	UpdateComment(ctx context.Context, id int64, caller *models.User, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int64, caller *models.User) error
}

type commentService struct {
	store           CommentStore
	curriculumStore CurriculumStore
	logger          zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(store CommentStore, curriculumStore CurriculumStore, logger zerolog.Logger) CommentService {
	return &commentService{
		store:           store,
		curriculumStore: curriculumStore,
		logger:          logger,
	}
}

// CreateComment posts a comment on a curriculum. The author is fixed at
// creation time.
func (s *commentService) CreateComment(ctx context.Context, authorID int64, req dto.CreateCommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("content", "content is required")
	}

	if _, err := s.curriculumStore.GetByID(ctx, req.CurriculumID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		CurriculumID: req.CurriculumID,
		UserID:       authorID,
		Content:      content,
		Active:       true,
	}

	if err := s.store.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.store.GetByID(ctx, comment.ID)
}

// GetComment retrieves a comment by ID.
func (s *commentService) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	return s.store.GetByID(ctx, id)
}

// ListComments retrieves a page of a curriculum's comments with the
// total count.
func (s *commentService) ListComments(ctx context.Context, curriculumID int64, offset, limit int) ([]*models.Comment, int64, error) {
	if _, err := s.curriculumStore.GetByID(ctx, curriculumID); err != nil {
		return nil, 0, err
	}

	comments, err := s.store.ListByCurriculum(ctx, curriculumID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.CountByCurriculum(ctx, curriculumID)
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// UpdateComment edits a comment. Only the author or a superuser may
// edit; the author never changes.
func (s *commentService) UpdateComment(ctx context.Context, id int64, caller *models.User, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content", "content is required")
	}

	comment, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if comment.UserID != caller.ID && !caller.IsSuperuser {
		return nil, apperrors.NewForbiddenError("only the author or a superuser can edit a comment")
	}

	comment.Content = content
	if err := s.store.Update(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// DeleteComment removes a comment. Only the author or a superuser may
// delete.
func (s *commentService) DeleteComment(ctx context.Context, id int64, caller *models.User) error {
	comment, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if comment.UserID != caller.ID && !caller.IsSuperuser {
		return apperrors.NewForbiddenError("only the author or a superuser can delete a comment")
	}

	return s.store.Delete(ctx, id)
}
