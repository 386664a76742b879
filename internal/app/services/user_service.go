package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/config"
	"github.com/minhle/curricula/internal/pkg/apperrors"
	"github.com/minhle/curricula/internal/pkg/auth"
	"github.com/minhle/curricula/internal/pkg/email"
	"github.com/minhle/curricula/internal/pkg/filestorage"
	"github.com/minhle/curricula/internal/pkg/validation"
)

// usernameSuffixAttempts bounds the retries when de-duplicating a
// generated student username.
const usernameSuffixAttempts = 10

// UserStore is the user persistence surface of the user service.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

// UserService handles registration, approval and account management.
type UserService interface {
	RegisterTeacher(ctx context.Context, req dto.RegisterTeacherRequest, avatar *multipart.FileHeader) (*models.User, error)
	RegisterStudent(ctx context.Context, req dto.RegisterStudentRequest) (*models.User, error)
	ApproveTeacher(ctx context.Context, userID int64) (*models.User, error)
	ApproveStudent(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req dto.UpdateProfileRequest, avatar *multipart.FileHeader) (*models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	DeleteUser(ctx context.Context, userID int64) error
}

type userService struct {
	userStore UserStore
	mailer    email.Mailer
	storage   filestorage.FileStorage
	cfg       *config.Config
	logger    zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userStore UserStore,
	mailer email.Mailer,
	storage filestorage.FileStorage,
	cfg *config.Config,
	logger zerolog.Logger,
) UserService {
	return &userService{
		userStore: userStore,
		mailer:    mailer,
		storage:   storage,
		cfg:       cfg,
		logger:    logger,
	}
}

// RegisterTeacher creates an inactive teacher account awaiting
// superuser approval. Every field, the avatar included, is mandatory.
func (s *userService) RegisterTeacher(ctx context.Context, req dto.RegisterTeacherRequest, avatar *multipart.FileHeader) (*models.User, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.IsValidEmail(emailAddr) {
		return nil, apperrors.NewValidationError("email", "invalid email format")
	}

	username := strings.TrimSpace(req.Username)
	if !validation.IsValidUsername(username) {
		return nil, apperrors.NewValidationError("username", "invalid username format")
	}

	if len(req.Password) < validation.PasswordMinLength {
		return nil, apperrors.NewValidationError("password", "password must be at least 8 characters long")
	}

	if strings.TrimSpace(req.Degree) == "" {
		return nil, apperrors.NewValidationError("degree", "degree is required")
	}

	if avatar == nil {
		return nil, apperrors.NewValidationError("avatar", "avatar is required")
	}

	if taken, err := s.userStore.ExistsByEmail(ctx, emailAddr); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	if taken, err := s.userStore.ExistsByUsername(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.ErrUsernameAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	avatarPath, err := s.storage.SaveFileWithPath(avatar, "avatars")
	if err != nil {
		return nil, err
	}

	degree := strings.TrimSpace(req.Degree)
	user := &models.User{
		Username:   &username,
		Email:      emailAddr,
		Password:   hashed,
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		BirthYear:  req.BirthYear,
		Degree:     &degree,
		AvatarPath: &avatarPath,
		IsTeacher:  true,
		IsActive:   false,
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		// The avatar is already on disk, clean it up so rejected
		// registrations don't leak files
		if delErr := s.storage.DeleteFile(avatarPath); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", avatarPath).Msg("Failed to remove orphaned avatar")
		}
		return nil, err
	}

	s.notify(func() error {
		return s.mailer.SendRegistrationReceived(user.Email, user.FirstName)
	})

	s.logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("Teacher registered, awaiting approval")
	return user, nil
}

// RegisterStudent creates an inactive student account. Only the email
// is required; credentials are assigned at approval.
func (s *userService) RegisterStudent(ctx context.Context, req dto.RegisterStudentRequest) (*models.User, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.IsValidEmail(emailAddr) {
		return nil, apperrors.NewValidationError("email", "invalid email format")
	}

	if taken, err := s.userStore.ExistsByEmail(ctx, emailAddr); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	user := &models.User{
		Email:     emailAddr,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		BirthYear: req.BirthYear,
		IsStudent: true,
		IsActive:  false,
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, err
	}

	s.notify(func() error {
		return s.mailer.SendRegistrationReceived(user.Email, user.FirstName)
	})

	s.logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("Student registered, awaiting approval")
	return user, nil
}

// ApproveTeacher activates a pending teacher account and grants staff
// status. Approving anything but an inactive teacher account is a
// precondition violation.
func (s *userService) ApproveTeacher(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsTeacher || user.IsActive {
		return nil, apperrors.NewInvalidAccountError("account is not a teacher awaiting approval")
	}

	user.IsStaff = true
	user.IsActive = true
	if s.cfg.Accounts.TeacherSuperuser {
		user.IsSuperuser = true
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	s.notify(func() error {
		return s.mailer.SendTeacherApproved(user.Email, user.FirstName)
	})

	s.logger.Info().Int64("userID", user.ID).Msg("Teacher approved")
	return user, nil
}

// ApproveStudent activates a pending student account, deriving a
// username from the email local part and assigning the documented
// initial password.
func (s *userService) ApproveStudent(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsStudent || user.IsActive {
		return nil, apperrors.NewInvalidAccountError("account is not a student awaiting approval")
	}

	username, err := s.deriveUsername(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	defaultPassword := s.cfg.Accounts.StudentDefaultPassword
	hashed, err := auth.HashPassword(defaultPassword)
	if err != nil {
		return nil, err
	}

	user.Username = &username
	user.Password = hashed
	user.IsStaff = true
	user.IsActive = true

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	s.notify(func() error {
		return s.mailer.SendStudentCredentials(user.Email, username, defaultPassword)
	})

	s.logger.Info().Int64("userID", user.ID).Str("username", username).Msg("Student approved")
	return user, nil
}

// deriveUsername slugifies the email local part and, on collision,
// appends a random four-digit suffix until a free name is found.
func (s *userService) deriveUsername(ctx context.Context, emailAddr string) (string, error) {
	base := validation.Slugify(validation.EmailLocalPart(emailAddr))
	if base == "" {
		base = "student"
	}

	taken, err := s.userStore.ExistsByUsername(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for i := 0; i < usernameSuffixAttempts; i++ {
		candidate := base + validation.RandomDigitSuffix(4)
		taken, err := s.userStore.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", apperrors.NewConflictError("could not derive a unique username")
}

// UpdateProfile applies the allow-listed self-service profile changes.
func (s *userService) UpdateProfile(ctx context.Context, userID int64, req dto.UpdateProfileRequest, avatar *multipart.FileHeader) (*models.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.BirthYear != nil {
		user.BirthYear = req.BirthYear
	}
	if req.Password != nil {
		if len(*req.Password) < validation.PasswordMinLength {
			return nil, apperrors.NewValidationError("password", "password must be at least 8 characters long")
		}
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if avatar != nil {
		oldAvatar := user.AvatarPath
		avatarPath, err := s.storage.SaveFileWithPath(avatar, "avatars")
		if err != nil {
			return nil, err
		}
		user.AvatarPath = &avatarPath

		if oldAvatar != nil {
			if err := s.storage.DeleteFile(*oldAvatar); err != nil {
				s.logger.Warn().Err(err).Str("path", *oldAvatar).Msg("Failed to remove replaced avatar")
			}
		}
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves an account by ID.
func (s *userService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.userStore.GetByID(ctx, userID)
}

// ListUsers retrieves a page of accounts with the total count.
func (s *userService) ListUsers(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	users, err := s.userStore.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userStore.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// DeleteUser removes an account.
func (s *userService) DeleteUser(ctx context.Context, userID int64) error {
	return s.userStore.Delete(ctx, userID)
}

// notify runs a mail send in the background. Notification failures are
// logged and never propagated to the triggering operation.
func (s *userService) notify(send func() error) {
	go func() {
		if err := send(); err != nil {
			s.logger.Error().Err(err).Msg("Failed to send notification email")
		}
	}()
}
