package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/pkg/apperrors"
)

// fakeCommentStore keeps comments in memory.
type fakeCommentStore struct {
	comments map[int64]*models.Comment
	nextID   int64
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[int64]*models.Comment), nextID: 1}
}

func (f *fakeCommentStore) Create(_ context.Context, comment *models.Comment) error {
	comment.ID = f.nextID
	f.nextID++
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentStore) GetByID(_ context.Context, id int64) (*models.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, apperrors.ErrCommentNotFound
	}
	return c, nil
}

func (f *fakeCommentStore) ListByCurriculum(_ context.Context, curriculumID int64, _, _ int) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range f.comments {
		if c.CurriculumID == curriculumID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentStore) CountByCurriculum(_ context.Context, curriculumID int64) (int64, error) {
	var n int64
	for _, c := range f.comments {
		if c.CurriculumID == curriculumID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCommentStore) Update(_ context.Context, comment *models.Comment) error {
	if _, ok := f.comments[comment.ID]; !ok {
		return apperrors.ErrCommentNotFound
	}
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.comments[id]; !ok {
		return apperrors.ErrCommentNotFound
	}
	delete(f.comments, id)
	return nil
}

func newCommentServiceForTest(store *fakeCommentStore) CommentService {
	return NewCommentService(store, newFakeCurriculumStore(1), zerolog.Nop())
}

func TestCreateComment(t *testing.T) {
	ctx := context.Background()

	t.Run("records the caller as author", func(t *testing.T) {
		svc := newCommentServiceForTest(newFakeCommentStore())

		comment, err := svc.CreateComment(ctx, 7, dto.CreateCommentRequest{
			CurriculumID: 1,
			Content:      "The weighting seems off.",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), comment.UserID)
		assert.Equal(t, "The weighting seems off.", comment.Content)
	})

	t.Run("rejects blank content", func(t *testing.T) {
		svc := newCommentServiceForTest(newFakeCommentStore())

		_, err := svc.CreateComment(ctx, 7, dto.CreateCommentRequest{
			CurriculumID: 1,
			Content:      "   ",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("rejects unknown curriculum", func(t *testing.T) {
		svc := newCommentServiceForTest(newFakeCommentStore())

		_, err := svc.CreateComment(ctx, 7, dto.CreateCommentRequest{
			CurriculumID: 99,
			Content:      "hello",
		})
		assert.ErrorIs(t, err, apperrors.ErrCurriculumNotFound)
	})
}

func TestCommentOwnership(t *testing.T) {
	ctx := context.Background()
	author := &models.User{ID: 7, IsStudent: true, IsActive: true}
	stranger := &models.User{ID: 8, IsStudent: true, IsActive: true}
	superuser := &models.User{ID: 9, IsSuperuser: true, IsActive: true}

	setup := func(t *testing.T) (CommentService, *models.Comment) {
		t.Helper()
		svc := newCommentServiceForTest(newFakeCommentStore())
		comment, err := svc.CreateComment(ctx, author.ID, dto.CreateCommentRequest{
			CurriculumID: 1,
			Content:      "original",
		})
		require.NoError(t, err)
		return svc, comment
	}

	t.Run("author edits their comment", func(t *testing.T) {
		svc, comment := setup(t)

		updated, err := svc.UpdateComment(ctx, comment.ID, author, "revised")
		require.NoError(t, err)
		assert.Equal(t, "revised", updated.Content)
		assert.Equal(t, author.ID, updated.UserID)
	})

	t.Run("another user cannot edit", func(t *testing.T) {
		svc, comment := setup(t)

		_, err := svc.UpdateComment(ctx, comment.ID, stranger, "hijacked")
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("superuser edits any comment", func(t *testing.T) {
		svc, comment := setup(t)

		updated, err := svc.UpdateComment(ctx, comment.ID, superuser, "moderated")
		require.NoError(t, err)
		assert.Equal(t, "moderated", updated.Content)
		// The author never changes
		assert.Equal(t, author.ID, updated.UserID)
	})

	t.Run("another user cannot delete", func(t *testing.T) {
		svc, comment := setup(t)

		err := svc.DeleteComment(ctx, comment.ID, stranger)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("superuser deletes any comment", func(t *testing.T) {
		svc, comment := setup(t)

		require.NoError(t, svc.DeleteComment(ctx, comment.ID, superuser))
		_, err := svc.GetComment(ctx, comment.ID)
		assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)
	})
}
