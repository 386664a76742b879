package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/pkg/apperrors"
)

// CourseStore is the course persistence surface.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, filter dto.CourseFilter, offset, limit int) ([]*models.Course, error)
	Count(ctx context.Context, filter dto.CourseFilter) (int64, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// CourseService manages the course catalog.
type CourseService interface {
	CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context, filter dto.CourseFilter, offset, limit int) ([]*models.Course, int64, error)
	UpdateCourse(ctx context.Context, id int64, req dto.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

type courseService struct {
	store         CourseStore
	categoryStore CategoryStore
	logger        zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(store CourseStore, categoryStore CategoryStore, logger zerolog.Logger) CourseService {
	return &courseService{
		store:         store,
		categoryStore: categoryStore,
		logger:        logger,
	}
}

// CreateCourse creates a course under an existing category.
func (s *courseService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "name is required")
	}
	if req.Credits <= 0 {
		return nil, apperrors.NewValidationError("credits", "credits must be positive")
	}

	if _, err := s.categoryStore.GetByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	course := &models.Course{
		CategoryID: req.CategoryID,
		Name:       name,
		Credits:    req.Credits,
		Active:     true,
	}

	if err := s.store.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", course.ID).Str("name", name).Msg("Course created")
	return s.store.GetByID(ctx, course.ID)
}

// GetCourse retrieves a course by ID.
func (s *courseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return s.store.GetByID(ctx, id)
}

// ListCourses retrieves a filtered page of courses with the total count.
func (s *courseService) ListCourses(ctx context.Context, filter dto.CourseFilter, offset, limit int) ([]*models.Course, int64, error) {
	courses, err := s.store.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// UpdateCourse applies partial course changes.
func (s *courseService) UpdateCourse(ctx context.Context, id int64, req dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name", "name cannot be empty")
		}
		course.Name = name
	}
	if req.Credits != nil {
		if *req.Credits <= 0 {
			return nil, apperrors.NewValidationError("credits", "credits must be positive")
		}
		course.Credits = *req.Credits
	}
	if req.CategoryID != nil {
		if _, err := s.categoryStore.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		course.CategoryID = *req.CategoryID
	}

	if err := s.store.Update(ctx, course); err != nil {
		return nil, err
	}

	return s.store.GetByID(ctx, id)
}

// DeleteCourse removes a course without associated curricula.
func (s *courseService) DeleteCourse(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
