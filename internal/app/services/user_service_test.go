package services

import (
	"context"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/config"
	"github.com/minhle/curricula/internal/pkg/apperrors"
)

// fakeUserStore keeps users in memory.
type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[int64]*models.User), nextID: 1}
	for _, u := range users {
		if u.ID == 0 {
			u.ID = f.nextID
		}
		if u.ID >= f.nextID {
			f.nextID = u.ID + 1
		}
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
		if user.Username != nil && existing.Username != nil && *existing.Username == *user.Username {
			return apperrors.ErrUsernameAlreadyExists
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username != nil && *u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) List(_ context.Context, _, _ int) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserStore) Update(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

// noopMailer satisfies email.Mailer without sending anything.
type noopMailer struct{}

func (noopMailer) SendRegistrationReceived(_, _ string) error  { return nil }
func (noopMailer) SendTeacherApproved(_, _ string) error       { return nil }
func (noopMailer) SendStudentCredentials(_, _, _ string) error { return nil }

// fakeStorage satisfies filestorage.FileStorage in memory.
type fakeStorage struct {
	saved   []string
	deleted []string
}

func (f *fakeStorage) SaveFile(fh *multipart.FileHeader) (string, error) {
	return f.SaveFileWithPath(fh, "")
}

func (f *fakeStorage) SaveFileWithPath(fh *multipart.FileHeader, path string) (string, error) {
	stored := path + "/" + fh.Filename
	f.saved = append(f.saved, stored)
	return stored, nil
}

func (f *fakeStorage) DeleteFile(filePath string) error {
	f.deleted = append(f.deleted, filePath)
	return nil
}

func (f *fakeStorage) GetFullPath(fileURL string) string {
	return "/storage/" + fileURL
}

func testAccountsConfig(teacherSuperuser bool) *config.Config {
	cfg := &config.Config{}
	cfg.Accounts.StudentDefaultPassword = "changeme123"
	cfg.Accounts.TeacherSuperuser = teacherSuperuser
	return cfg
}

func newUserServiceForTest(store *fakeUserStore, cfg *config.Config) UserService {
	return NewUserService(store, noopMailer{}, &fakeStorage{}, cfg, zerolog.Nop())
}

func TestRegisterStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an inactive student account", func(t *testing.T) {
		store := newFakeUserStore()
		svc := newUserServiceForTest(store, testAccountsConfig(false))

		user, err := svc.RegisterStudent(ctx, dto.RegisterStudentRequest{
			Email:     "Jane.Doe@school.edu.vn",
			FirstName: "Jane",
			LastName:  "Doe",
		})
		require.NoError(t, err)
		assert.Equal(t, "jane.doe@school.edu.vn", user.Email)
		assert.True(t, user.IsStudent)
		assert.False(t, user.IsActive)
		assert.Nil(t, user.Username)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		svc := newUserServiceForTest(newFakeUserStore(), testAccountsConfig(false))

		_, err := svc.RegisterStudent(ctx, dto.RegisterStudentRequest{Email: "not-an-email"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		store := newFakeUserStore(&models.User{Email: "jane.doe@school.edu.vn"})
		svc := newUserServiceForTest(store, testAccountsConfig(false))

		_, err := svc.RegisterStudent(ctx, dto.RegisterStudentRequest{Email: "jane.doe@school.edu.vn"})
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})
}

func TestRegisterTeacher(t *testing.T) {
	ctx := context.Background()

	t.Run("avatar is mandatory", func(t *testing.T) {
		svc := newUserServiceForTest(newFakeUserStore(), testAccountsConfig(false))

		_, err := svc.RegisterTeacher(ctx, dto.RegisterTeacherRequest{
			Username: "prof.nguyen",
			Password: "s3cret-pass1",
			Email:    "prof.nguyen@school.edu.vn",
			Degree:   "PhD",
		}, nil)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		svc := newUserServiceForTest(newFakeUserStore(), testAccountsConfig(false))

		_, err := svc.RegisterTeacher(ctx, dto.RegisterTeacherRequest{
			Username: "prof.nguyen",
			Password: "short",
			Email:    "prof.nguyen@school.edu.vn",
			Degree:   "PhD",
		}, &multipart.FileHeader{Filename: "avatar.png"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("creates an inactive teacher with stored avatar", func(t *testing.T) {
		store := newFakeUserStore()
		storage := &fakeStorage{}
		svc := NewUserService(store, noopMailer{}, storage, testAccountsConfig(false), zerolog.Nop())

		user, err := svc.RegisterTeacher(ctx, dto.RegisterTeacherRequest{
			Username: "prof.nguyen",
			Password: "s3cret-pass1",
			Email:    "prof.nguyen@school.edu.vn",
			Degree:   "PhD",
		}, &multipart.FileHeader{Filename: "avatar.png"})
		require.NoError(t, err)
		assert.True(t, user.IsTeacher)
		assert.False(t, user.IsActive)
		require.NotNil(t, user.AvatarPath)
		assert.Len(t, storage.saved, 1)
	})
}

func TestApproveTeacher(t *testing.T) {
	ctx := context.Background()

	t.Run("activates a pending teacher", func(t *testing.T) {
		store := newFakeUserStore(&models.User{IsTeacher: true, Email: "t@school.edu.vn"})
		svc := newUserServiceForTest(store, testAccountsConfig(false))

		user, err := svc.ApproveTeacher(ctx, 1)
		require.NoError(t, err)
		assert.True(t, user.IsActive)
		assert.True(t, user.IsStaff)
		assert.False(t, user.IsSuperuser)
	})

	t.Run("elevates to superuser when configured", func(t *testing.T) {
		store := newFakeUserStore(&models.User{IsTeacher: true, Email: "t@school.edu.vn"})
		svc := newUserServiceForTest(store, testAccountsConfig(true))

		user, err := svc.ApproveTeacher(ctx, 1)
		require.NoError(t, err)
		assert.True(t, user.IsSuperuser)
	})

	t.Run("rejects an already active teacher", func(t *testing.T) {
		store := newFakeUserStore(&models.User{IsTeacher: true, IsActive: true, Email: "t@school.edu.vn"})
		svc := newUserServiceForTest(store, testAccountsConfig(false))

		_, err := svc.ApproveTeacher(ctx, 1)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAccount)
	})

	t.Run("rejects a student account", func(t *testing.T) {
		store := newFakeUserStore(&models.User{IsStudent: true, Email: "s@school.edu.vn"})
		svc := newUserServiceForTest(store, testAccountsConfig(false))

		_, err := svc.ApproveTeacher(ctx, 1)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAccount)
	})
}

func TestApproveStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("derives username from the email local part", func(t *testing.T) {
		store := newFakeUserStore(&models.User{IsStudent: true, Email: "jane.doe@school.edu.vn"})
		svc := newUserServiceForTest(store, testAccountsConfig(false))

		user, err := svc.ApproveStudent(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, user.Username)
		assert.Equal(t, "jane.doe", *user.Username)
		assert.True(t, user.IsActive)
		assert.True(t, user.IsStaff)
	})

	t.Run("assigns the documented initial password", func(t *testing.T) {
		store := newFakeUserStore(&models.User{IsStudent: true, Email: "jane.doe@school.edu.vn"})
		svc := newUserServiceForTest(store, testAccountsConfig(false))

		user, err := svc.ApproveStudent(ctx, 1)
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("changeme123")))
	})

	t.Run("suffixes the username on collision", func(t *testing.T) {
		taken := "jane.doe"
		store := newFakeUserStore(
			&models.User{ID: 1, Username: &taken, Email: "other@school.edu.vn", IsActive: true, IsStudent: true},
			&models.User{ID: 2, IsStudent: true, Email: "jane.doe@school.edu.vn"},
		)
		svc := newUserServiceForTest(store, testAccountsConfig(false))

		user, err := svc.ApproveStudent(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, user.Username)
		assert.True(t, strings.HasPrefix(*user.Username, "jane.doe"))
		assert.Len(t, *user.Username, len("jane.doe")+4)
	})

	t.Run("rejects an already active student", func(t *testing.T) {
		store := newFakeUserStore(&models.User{IsStudent: true, IsActive: true, Email: "jane.doe@school.edu.vn"})
		svc := newUserServiceForTest(store, testAccountsConfig(false))

		_, err := svc.ApproveStudent(ctx, 1)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAccount)
	})

	t.Run("rejects a teacher account", func(t *testing.T) {
		store := newFakeUserStore(&models.User{IsTeacher: true, Email: "t@school.edu.vn"})
		svc := newUserServiceForTest(store, testAccountsConfig(false))

		_, err := svc.ApproveStudent(ctx, 1)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAccount)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("updates the allow-listed fields", func(t *testing.T) {
		store := newFakeUserStore(&models.User{IsStudent: true, IsActive: true, Email: "jane.doe@school.edu.vn"})
		svc := newUserServiceForTest(store, testAccountsConfig(false))

		firstName := "Janet"
		birthYear := 2002
		user, err := svc.UpdateProfile(ctx, 1, dto.UpdateProfileRequest{
			FirstName: &firstName,
			BirthYear: &birthYear,
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Janet", user.FirstName)
		require.NotNil(t, user.BirthYear)
		assert.Equal(t, 2002, *user.BirthYear)
	})

	t.Run("rejects short replacement password", func(t *testing.T) {
		store := newFakeUserStore(&models.User{IsStudent: true, IsActive: true, Email: "jane.doe@school.edu.vn"})
		svc := newUserServiceForTest(store, testAccountsConfig(false))

		short := "short"
		_, err := svc.UpdateProfile(ctx, 1, dto.UpdateProfileRequest{Password: &short}, nil)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}
