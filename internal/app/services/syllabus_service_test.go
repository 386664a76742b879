package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/pkg/apperrors"
)

// fakeSyllabusStore keeps syllabuses in memory. Reads skip deactivated
// rows like the real repository does.
type fakeSyllabusStore struct {
	syllabuses map[int64]*models.Syllabus
	nextID     int64
}

func newFakeSyllabusStore(syllabuses ...*models.Syllabus) *fakeSyllabusStore {
	f := &fakeSyllabusStore{syllabuses: make(map[int64]*models.Syllabus), nextID: 1}
	for _, s := range syllabuses {
		if s.ID >= f.nextID {
			f.nextID = s.ID + 1
		}
		f.syllabuses[s.ID] = s
	}
	return f
}

func (f *fakeSyllabusStore) Create(_ context.Context, syllabus *models.Syllabus) error {
	syllabus.ID = f.nextID
	f.nextID++
	f.syllabuses[syllabus.ID] = syllabus
	return nil
}

func (f *fakeSyllabusStore) GetByID(_ context.Context, id int64) (*models.Syllabus, error) {
	s, ok := f.syllabuses[id]
	if !ok || !s.Active {
		return nil, apperrors.ErrSyllabusNotFound
	}
	return s, nil
}

func (f *fakeSyllabusStore) Search(_ context.Context, _ dto.SyllabusFilter, _, _ int) ([]*models.Syllabus, error) {
	var out []*models.Syllabus
	for _, s := range f.syllabuses {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSyllabusStore) CountSearch(_ context.Context, _ dto.SyllabusFilter) (int64, error) {
	var count int64
	for _, s := range f.syllabuses {
		if s.Active {
			count++
		}
	}
	return count, nil
}

func (f *fakeSyllabusStore) Update(_ context.Context, syllabus *models.Syllabus) error {
	if _, ok := f.syllabuses[syllabus.ID]; !ok {
		return apperrors.ErrSyllabusNotFound
	}
	f.syllabuses[syllabus.ID] = syllabus
	return nil
}

func (f *fakeSyllabusStore) Delete(_ context.Context, id int64) error {
	s, ok := f.syllabuses[id]
	if !ok || !s.Active {
		return apperrors.ErrSyllabusNotFound
	}
	s.Active = false
	return nil
}

func newSyllabusServiceForTest(store *fakeSyllabusStore, curricula *fakeCurriculumStore, storage *fakeStorage) SyllabusService {
	return NewSyllabusService(store, curricula, storage, zerolog.Nop())
}

func TestCreateSyllabus(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the uploaded document", func(t *testing.T) {
		storage := &fakeStorage{}
		svc := newSyllabusServiceForTest(newFakeSyllabusStore(), newFakeCurriculumStore(1), storage)

		curriculumID := int64(1)
		syllabus, err := svc.CreateSyllabus(ctx, dto.CreateSyllabusRequest{
			Title:        "Week-by-week plan",
			Content:      "Twelve lecture weeks",
			CurriculumID: &curriculumID,
		}, &multipart.FileHeader{Filename: "plan.pdf"})
		require.NoError(t, err)

		assert.Equal(t, "syllabus/plan.pdf", syllabus.FilePath)
		assert.True(t, syllabus.Active)
		assert.Contains(t, storage.saved, "syllabus/plan.pdf")
	})

	t.Run("missing document is rejected", func(t *testing.T) {
		storage := &fakeStorage{}
		store := newFakeSyllabusStore()
		svc := newSyllabusServiceForTest(store, newFakeCurriculumStore(1), storage)

		_, err := svc.CreateSyllabus(ctx, dto.CreateSyllabusRequest{
			Title:   "Week-by-week plan",
			Content: "Twelve lecture weeks",
		}, nil)

		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Empty(t, store.syllabuses)
		assert.Empty(t, storage.saved)
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		svc := newSyllabusServiceForTest(newFakeSyllabusStore(), newFakeCurriculumStore(1), &fakeStorage{})

		_, err := svc.CreateSyllabus(ctx, dto.CreateSyllabusRequest{
			Title:   "   ",
			Content: "Twelve lecture weeks",
		}, &multipart.FileHeader{Filename: "plan.pdf"})

		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("unknown curriculum is rejected", func(t *testing.T) {
		svc := newSyllabusServiceForTest(newFakeSyllabusStore(), newFakeCurriculumStore(1), &fakeStorage{})

		curriculumID := int64(99)
		_, err := svc.CreateSyllabus(ctx, dto.CreateSyllabusRequest{
			Title:        "Week-by-week plan",
			Content:      "Twelve lecture weeks",
			CurriculumID: &curriculumID,
		}, &multipart.FileHeader{Filename: "plan.pdf"})

		assert.ErrorIs(t, err, apperrors.ErrCurriculumNotFound)
	})
}

func TestDeleteSyllabus(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivates the row and keeps the attachment", func(t *testing.T) {
		storage := &fakeStorage{}
		store := newFakeSyllabusStore(&models.Syllabus{
			ID:       1,
			Title:    "Week-by-week plan",
			FilePath: "syllabus/plan.pdf",
			Active:   true,
		})
		svc := newSyllabusServiceForTest(store, newFakeCurriculumStore(), storage)

		require.NoError(t, svc.DeleteSyllabus(ctx, 1))

		assert.False(t, store.syllabuses[1].Active)
		assert.Equal(t, "syllabus/plan.pdf", store.syllabuses[1].FilePath)
		assert.Empty(t, storage.deleted)

		_, err := svc.GetSyllabus(ctx, 1)
		assert.ErrorIs(t, err, apperrors.ErrSyllabusNotFound)
	})

	t.Run("unknown syllabus", func(t *testing.T) {
		svc := newSyllabusServiceForTest(newFakeSyllabusStore(), newFakeCurriculumStore(), &fakeStorage{})

		err := svc.DeleteSyllabus(ctx, 42)
		assert.ErrorIs(t, err, apperrors.ErrSyllabusNotFound)
	})
}

func TestAttachmentPath(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the stored path", func(t *testing.T) {
		store := newFakeSyllabusStore(&models.Syllabus{
			ID:       1,
			Title:    "Week-by-week plan",
			FilePath: "syllabus/plan.pdf",
			Active:   true,
		})
		svc := newSyllabusServiceForTest(store, newFakeCurriculumStore(), &fakeStorage{})

		path, err := svc.AttachmentPath(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "/storage/syllabus/plan.pdf", path)
	})

	t.Run("syllabus without a file", func(t *testing.T) {
		store := newFakeSyllabusStore(&models.Syllabus{
			ID:     1,
			Title:  "Week-by-week plan",
			Active: true,
		})
		svc := newSyllabusServiceForTest(store, newFakeCurriculumStore(), &fakeStorage{})

		_, err := svc.AttachmentPath(ctx, 1)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}
