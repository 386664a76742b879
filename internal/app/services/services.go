package services

import (
	"github.com/rs/zerolog"

	"github.com/minhle/curricula/internal/app/repositories"
	"github.com/minhle/curricula/internal/config"
	"github.com/minhle/curricula/internal/pkg/auth"
	"github.com/minhle/curricula/internal/pkg/email"
	"github.com/minhle/curricula/internal/pkg/filestorage"
)

// Services holds all the service instances
type Services struct {
	AuthService       AuthService
	UserService       UserService
	CategoryService   CategoryService
	CourseService     CourseService
	CurriculumService CurriculumService
	SyllabusService   SyllabusService
	EvaluationService EvaluationService
	CommentService    CommentService
}

// NewServices wires all services to their repositories
func NewServices(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	mailer email.Mailer,
	storage filestorage.FileStorage,
	cfg *config.Config,
	logger zerolog.Logger,
) *Services {
	return &Services{
		AuthService: NewAuthService(
			repos.UserRepository, repos.TokenRepository, jwtService, logger),
		UserService: NewUserService(
			repos.UserRepository, mailer, storage, cfg, logger),
		CategoryService:   NewCategoryService(repos.CategoryRepository, logger),
		CourseService:     NewCourseService(repos.CourseRepository, repos.CategoryRepository, logger),
		CurriculumService: NewCurriculumService(repos.CurriculumRepository, repos.CourseRepository, logger),
		SyllabusService: NewSyllabusService(
			repos.SyllabusRepository, repos.CurriculumRepository, storage, logger),
		EvaluationService: NewEvaluationService(
			repos.EvaluationRepository, repos.CurriculumRepository, logger),
		CommentService: NewCommentService(
			repos.CommentRepository, repos.CurriculumRepository, logger),
	}
}
