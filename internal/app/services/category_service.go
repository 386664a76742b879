package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/pkg/apperrors"
)

// CategoryStore is the category persistence surface.
type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context, offset, limit int) ([]*models.Category, error)
	Count(ctx context.Context) (int64, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
}

// CategoryService manages course categories.
type CategoryService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context, offset, limit int) ([]*models.Category, int64, error)
	UpdateCategory(ctx context.Context, id int64, req dto.CreateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryService struct {
	store  CategoryStore
	logger zerolog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(store CategoryStore, logger zerolog.Logger) CategoryService {
	return &categoryService{
		store:  store,
		logger: logger,
	}
}

// CreateCategory creates a category with a unique name.
func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "name is required")
	}

	category := &models.Category{
		Name:   name,
		Active: true,
	}

	if err := s.store.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("categoryID", category.ID).Str("name", name).Msg("Category created")
	return category, nil
}

// GetCategory retrieves a category by ID.
func (s *categoryService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return s.store.GetByID(ctx, id)
}

// ListCategories retrieves a page of categories with the total count.
func (s *categoryService) ListCategories(ctx context.Context, offset, limit int) ([]*models.Category, int64, error) {
	categories, err := s.store.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}

// UpdateCategory renames a category.
func (s *categoryService) UpdateCategory(ctx context.Context, id int64, req dto.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "name is required")
	}

	category, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if taken, err := s.store.ExistsByName(ctx, name, id); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.ErrCategoryAlreadyExists
	}

	category.Name = name
	if err := s.store.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category without associated courses.
func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
