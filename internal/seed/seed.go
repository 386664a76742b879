package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/minhle/curricula/internal/app/models"
	appRepos "github.com/minhle/curricula/internal/app/repositories"
	"github.com/minhle/curricula/internal/pkg/apperrors"
)

// CreateDefaultData seeds the starter categories and the default
// superuser account if they don't exist yet.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	categoryRepo := appRepos.NewCategoryRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error // Collect errors without stopping the process

	// --- Starter categories --- //
	for _, name := range []string{
		"Information Technology",
		"Mathematics",
		"Foreign Languages",
	} {
		category := &appModels.Category{Name: name}
		if err := categoryRepo.Create(ctx, category); err != nil &&
			!errors.Is(err, apperrors.ErrCategoryAlreadyExists) {
			lgr.Error().Err(err).Str("name", name).Msg("Error creating default category")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Default superuser --- //
	exists, err := userRepo.ExistsByEmail(ctx, "admin@curricula.app")
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if superuser exists")
		return errors.Join(finalErr, err)
	}
	if exists {
		lgr.Info().Msg("Superuser already exists, skipping creation")
		return finalErr
	}

	lgr.Info().Msg("Creating default superuser...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), bcrypt.DefaultCost)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing superuser password")
		return errors.Join(finalErr, err)
	}

	username := "admin"
	admin := &appModels.User{
		Username:    &username,
		Email:       "admin@curricula.app",
		Password:    string(hashedPassword),
		FirstName:   "System",
		LastName:    "Administrator",
		IsStaff:     true,
		IsSuperuser: true,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating default superuser")
		return errors.Join(finalErr, err)
	}

	lgr.Info().Int64("userID", admin.ID).Msg("Default superuser created")
	return finalErr
}
