package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/pkg/apperrors"
	"github.com/minhle/curricula/internal/pkg/filestorage"
)

// SyllabusStore is the syllabus persistence surface.
type SyllabusStore interface {
	Create(ctx context.Context, syllabus *models.Syllabus) error
	GetByID(ctx context.Context, id int64) (*models.Syllabus, error)
	Search(ctx context.Context, filter dto.SyllabusFilter, offset, limit int) ([]*models.Syllabus, error)
	CountSearch(ctx context.Context, filter dto.SyllabusFilter) (int64, error)
	Update(ctx context.Context, syllabus *models.Syllabus) error
	Delete(ctx context.Context, id int64) error
}

// SyllabusService manages syllabus documents and their attachments.
type SyllabusService interface {
	CreateSyllabus(ctx context.Context, req dto.CreateSyllabusRequest, attachment *multipart.FileHeader) (*models.Syllabus, error)
	GetSyllabus(ctx context.Context, id int64) (*models.Syllabus, error)
	SearchSyllabuses(ctx context.Context, filter dto.SyllabusFilter, offset, limit int) ([]*models.Syllabus, int64, error)
	UpdateSyllabus(ctx context.Context, id int64, req dto.UpdateSyllabusRequest, attachment *multipart.FileHeader) (*models.Syllabus, error)
	DeleteSyllabus(ctx context.Context, id int64) error
	// AttachmentPath resolves the filesystem path of a syllabus
	// attachment for download.
	AttachmentPath(ctx context.Context, id int64) (string, error)
}

type syllabusService struct {
	store           SyllabusStore
	curriculumStore CurriculumStore
	storage         filestorage.FileStorage
	logger          zerolog.Logger
}

// NewSyllabusService creates a new SyllabusService
func NewSyllabusService(
	store SyllabusStore,
	curriculumStore CurriculumStore,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) SyllabusService {
	return &syllabusService{
		store:           store,
		curriculumStore: curriculumStore,
		storage:         storage,
		logger:          logger,
	}
}

// CreateSyllabus creates a syllabus with its document file, optionally
// attached to a curriculum. The file is mandatory.
func (s *syllabusService) CreateSyllabus(ctx context.Context, req dto.CreateSyllabusRequest, attachment *multipart.FileHeader) (*models.Syllabus, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title", "title is required")
	}

	if attachment == nil {
		return nil, apperrors.NewValidationError("file", "a syllabus file is required")
	}

	if req.CurriculumID != nil {
		if _, err := s.curriculumStore.GetByID(ctx, *req.CurriculumID); err != nil {
			return nil, err
		}
	}

	filePath, err := s.storage.SaveFileWithPath(attachment, "syllabus")
	if err != nil {
		return nil, err
	}

	syllabus := &models.Syllabus{
		Title:        title,
		Content:      req.Content,
		CurriculumID: req.CurriculumID,
		FilePath:     filePath,
		Active:       true,
	}

	if err := s.store.Create(ctx, syllabus); err != nil {
		if filePath != "" {
			if delErr := s.storage.DeleteFile(filePath); delErr != nil {
				s.logger.Warn().Err(delErr).Str("path", filePath).Msg("Failed to remove orphaned attachment")
			}
		}
		return nil, err
	}

	s.logger.Info().Int64("syllabusID", syllabus.ID).Str("title", title).Msg("Syllabus created")
	return syllabus, nil
}

// GetSyllabus retrieves a syllabus by ID.
func (s *syllabusService) GetSyllabus(ctx context.Context, id int64) (*models.Syllabus, error) {
	return s.store.GetByID(ctx, id)
}

// SearchSyllabuses retrieves a filtered page of syllabuses with the
// total count.
func (s *syllabusService) SearchSyllabuses(ctx context.Context, filter dto.SyllabusFilter, offset, limit int) ([]*models.Syllabus, int64, error) {
	syllabuses, err := s.store.Search(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.CountSearch(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return syllabuses, total, nil
}

// UpdateSyllabus applies partial syllabus changes; a new attachment
// replaces the previous one.
func (s *syllabusService) UpdateSyllabus(ctx context.Context, id int64, req dto.UpdateSyllabusRequest, attachment *multipart.FileHeader) (*models.Syllabus, error) {
	syllabus, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title", "title cannot be empty")
		}
		syllabus.Title = title
	}
	if req.Content != nil {
		syllabus.Content = *req.Content
	}
	if req.CurriculumID != nil {
		if _, err := s.curriculumStore.GetByID(ctx, *req.CurriculumID); err != nil {
			return nil, err
		}
		syllabus.CurriculumID = req.CurriculumID
	}

	if attachment != nil {
		oldPath := syllabus.FilePath
		saved, err := s.storage.SaveFileWithPath(attachment, "syllabus")
		if err != nil {
			return nil, err
		}
		syllabus.FilePath = saved

		if oldPath != "" {
			if err := s.storage.DeleteFile(oldPath); err != nil {
				s.logger.Warn().Err(err).Str("path", oldPath).Msg("Failed to remove replaced attachment")
			}
		}
	}

	if err := s.store.Update(ctx, syllabus); err != nil {
		return nil, err
	}

	return syllabus, nil
}

// DeleteSyllabus deactivates a syllabus. The stored attachment stays
// with the retained row.
func (s *syllabusService) DeleteSyllabus(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// AttachmentPath resolves the stored attachment of a syllabus to a
// filesystem path for download.
func (s *syllabusService) AttachmentPath(ctx context.Context, id int64) (string, error) {
	syllabus, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if syllabus.FilePath == "" {
		return "", apperrors.NewResourceNotFoundError("syllabus has no attachment")
	}

	return s.storage.GetFullPath(syllabus.FilePath), nil
}
