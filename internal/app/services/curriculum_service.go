package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/pkg/apperrors"
)

// CurriculumStore is the curriculum persistence surface.
type CurriculumStore interface {
	Create(ctx context.Context, curriculum *models.Curriculum) error
	GetByID(ctx context.Context, id int64) (*models.Curriculum, error)
	List(ctx context.Context, courseID int64, offset, limit int) ([]*models.Curriculum, error)
	Count(ctx context.Context, courseID int64) (int64, error)
	Update(ctx context.Context, curriculum *models.Curriculum) error
	Delete(ctx context.Context, id int64) error
}

// CurriculumService manages curricula, the versioned instances of courses.
type CurriculumService interface {
	CreateCurriculum(ctx context.Context, ownerID int64, req dto.CreateCurriculumRequest) (*models.Curriculum, error)
	GetCurriculum(ctx context.Context, id int64) (*models.Curriculum, error)
	ListCurricula(ctx context.Context, courseID int64, offset, limit int) ([]*models.Curriculum, int64, error)
	UpdateCurriculum(ctx context.Context, id int64, req dto.UpdateCurriculumRequest) (*models.Curriculum, error)
	DeleteCurriculum(ctx context.Context, id int64) error
}

type curriculumService struct {
	store       CurriculumStore
	courseStore CourseStore
	logger      zerolog.Logger
}

// NewCurriculumService creates a new CurriculumService
func NewCurriculumService(store CurriculumStore, courseStore CourseStore, logger zerolog.Logger) CurriculumService {
	return &curriculumService{
		store:       store,
		courseStore: courseStore,
		logger:      logger,
	}
}

func validateYearRange(startYear, endYear int) error {
	if startYear <= 0 {
		return apperrors.NewValidationError("startYear", "start year must be positive")
	}
	if endYear < startYear {
		return apperrors.NewValidationError("endYear", "end year must not precede start year")
	}
	return nil
}

// CreateCurriculum creates a curriculum owned by the calling user.
// (course, start year, end year) must be unique.
func (s *curriculumService) CreateCurriculum(ctx context.Context, ownerID int64, req dto.CreateCurriculumRequest) (*models.Curriculum, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title", "title is required")
	}
	if err := validateYearRange(req.StartYear, req.EndYear); err != nil {
		return nil, err
	}

	if _, err := s.courseStore.GetByID(ctx, req.CourseID); err != nil {
		return nil, err
	}

	curriculum := &models.Curriculum{
		CourseID:    req.CourseID,
		UserID:      ownerID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		StartYear:   req.StartYear,
		EndYear:     req.EndYear,
		Active:      true,
	}

	if err := s.store.Create(ctx, curriculum); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("curriculumID", curriculum.ID).
		Int64("courseID", curriculum.CourseID).
		Int64("ownerID", ownerID).
		Msg("Curriculum created")

	return s.store.GetByID(ctx, curriculum.ID)
}

// GetCurriculum retrieves a curriculum by ID.
func (s *curriculumService) GetCurriculum(ctx context.Context, id int64) (*models.Curriculum, error) {
	return s.store.GetByID(ctx, id)
}

// ListCurricula retrieves a page of curricula, optionally scoped to a course.
func (s *curriculumService) ListCurricula(ctx context.Context, courseID int64, offset, limit int) ([]*models.Curriculum, int64, error) {
	curricula, err := s.store.List(ctx, courseID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.Count(ctx, courseID)
	if err != nil {
		return nil, 0, err
	}

	return curricula, total, nil
}

// UpdateCurriculum applies partial curriculum changes. The owner never
// changes after creation.
func (s *curriculumService) UpdateCurriculum(ctx context.Context, id int64, req dto.UpdateCurriculumRequest) (*models.Curriculum, error) {
	curriculum, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title", "title cannot be empty")
		}
		curriculum.Title = title
	}
	if req.Description != nil {
		curriculum.Description = strings.TrimSpace(*req.Description)
	}
	if req.StartYear != nil {
		curriculum.StartYear = *req.StartYear
	}
	if req.EndYear != nil {
		curriculum.EndYear = *req.EndYear
	}
	if err := validateYearRange(curriculum.StartYear, curriculum.EndYear); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, curriculum); err != nil {
		return nil, err
	}

	return s.store.GetByID(ctx, id)
}

// DeleteCurriculum removes a curriculum and, via cascade, its scheme,
// scores and comments.
func (s *curriculumService) DeleteCurriculum(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
