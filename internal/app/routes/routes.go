package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minhle/curricula/internal/app/accesspolicy"
	"github.com/minhle/curricula/internal/app/controllers"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/middleware"
)

// Controllers bundles every HTTP controller wired into the router.
type Controllers struct {
	Auth       *controllers.AuthController
	User       *controllers.UserController
	Category   *controllers.CategoryController
	Course     *controllers.CourseController
	Curriculum *controllers.CurriculumController
	Syllabus   *controllers.SyllabusController
	Evaluation *controllers.EvaluationController
	Comment    *controllers.CommentController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public catalog reads ---
	categories := v1.Group("/categories")
	{
		categories.GET("", ctrl.Category.ListCategories)
		categories.GET("/:id", ctrl.Category.GetCategory)
	}

	courses := v1.Group("/courses")
	{
		courses.GET("", ctrl.Course.ListCourses)
		courses.GET("/:id", ctrl.Course.GetCourse)
	}

	curricula := v1.Group("/curricula")
	{
		curricula.GET("", ctrl.Curriculum.ListCurricula)
		curricula.GET("/:id", ctrl.Curriculum.GetCurriculum)
	}

	syllabuses := v1.Group("/syllabuses")
	{
		syllabuses.GET("", ctrl.Syllabus.SearchSyllabuses)
		syllabuses.GET("/:id", ctrl.Syllabus.GetSyllabus)
		syllabuses.GET("/:id/download", ctrl.Syllabus.DownloadAttachment)
	}

	comments := v1.Group("/comments")
	{
		comments.GET("", ctrl.Comment.ListComments)
		comments.GET("/:id", ctrl.Comment.GetComment)
	}

	// --- Public auth and registration routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/refresh", ctrl.Auth.RefreshToken)
		auth.POST("/logout", ctrl.Auth.Logout)
	}

	users := v1.Group("/users")
	{
		users.POST("/register-teacher", ctrl.User.RegisterTeacher)
		users.POST("/register-student", ctrl.User.RegisterStudent)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", ctrl.Auth.GetCurrentUser)
		authenticated.PATCH("/users/me", ctrl.User.UpdateProfile)

		// Any active account may comment; edits are checked against the
		// author inside the service.
		authenticated.POST("/comments",
			authMiddleware.RequirePermission(accesspolicy.OpCommentCreate),
			ctrl.Comment.CreateComment)
		authenticated.PATCH("/comments/:id", ctrl.Comment.UpdateComment)
		authenticated.DELETE("/comments/:id", ctrl.Comment.DeleteComment)

		// Teachers and superusers create curricula; modification is
		// ownership-checked in the controller.
		authenticated.POST("/curricula",
			authMiddleware.RequirePermission(accesspolicy.OpCurriculumCreate),
			ctrl.Curriculum.CreateCurriculum)
		authenticated.PATCH("/curricula/:id", ctrl.Curriculum.UpdateCurriculum)
		authenticated.DELETE("/curricula/:id", ctrl.Curriculum.DeleteCurriculum)

		// Superuser-only catalog administration
		categoriesAdmin := authenticated.Group("/categories")
		categoriesAdmin.Use(authMiddleware.RequirePermission(accesspolicy.OpCategoryWrite))
		{
			categoriesAdmin.POST("", ctrl.Category.CreateCategory)
			categoriesAdmin.PUT("/:id", ctrl.Category.UpdateCategory)
			categoriesAdmin.DELETE("/:id", ctrl.Category.DeleteCategory)
		}

		coursesAdmin := authenticated.Group("/courses")
		coursesAdmin.Use(authMiddleware.RequirePermission(accesspolicy.OpCourseWrite))
		{
			coursesAdmin.POST("", ctrl.Course.CreateCourse)
			coursesAdmin.PATCH("/:id", ctrl.Course.UpdateCourse)
			coursesAdmin.DELETE("/:id", ctrl.Course.DeleteCourse)
		}

		syllabusesAdmin := authenticated.Group("/syllabuses")
		syllabusesAdmin.Use(authMiddleware.RequirePermission(accesspolicy.OpSyllabusWrite))
		{
			syllabusesAdmin.POST("", ctrl.Syllabus.CreateSyllabus)
			syllabusesAdmin.PATCH("/:id", ctrl.Syllabus.UpdateSyllabus)
			syllabusesAdmin.DELETE("/:id", ctrl.Syllabus.DeleteSyllabus)
		}

		criteriaAdmin := authenticated.Group("/evaluation-criteria")
		criteriaAdmin.Use(authMiddleware.RequirePermission(accesspolicy.OpCriterionWrite))
		{
			criteriaAdmin.GET("", ctrl.Evaluation.ListCriteria)
			criteriaAdmin.GET("/:id", ctrl.Evaluation.GetCriterion)
			criteriaAdmin.POST("", ctrl.Evaluation.CreateCriterion)
			criteriaAdmin.PATCH("/:id", ctrl.Evaluation.UpdateCriterion)
			criteriaAdmin.DELETE("/:id", ctrl.Evaluation.DeleteCriterion)
		}

		evaluationsAdmin := authenticated.Group("/evaluations")
		evaluationsAdmin.Use(authMiddleware.RequirePermission(accesspolicy.OpEvaluationWrite))
		{
			evaluationsAdmin.GET("", ctrl.Evaluation.ListEvaluations)
			evaluationsAdmin.GET("/:id", ctrl.Evaluation.GetEvaluation)
			evaluationsAdmin.POST("", ctrl.Evaluation.CreateEvaluation)
			evaluationsAdmin.PATCH("/:id", ctrl.Evaluation.UpdateEvaluation)
			evaluationsAdmin.DELETE("/:id", ctrl.Evaluation.DeleteEvaluation)
		}

		// Superuser-only account administration
		usersAdmin := authenticated.Group("/users")
		usersAdmin.Use(authMiddleware.RequirePermission(accesspolicy.OpUserAdmin))
		{
			usersAdmin.GET("", ctrl.User.ListUsers)
			usersAdmin.GET("/:id", ctrl.User.GetUser)
			usersAdmin.POST("/:id/approve-teacher", ctrl.User.ApproveTeacher)
			usersAdmin.POST("/:id/approve-student", ctrl.User.ApproveStudent)
			usersAdmin.DELETE("/:id", ctrl.User.DeleteUser)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})
}
