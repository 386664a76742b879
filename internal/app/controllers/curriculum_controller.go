package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minhle/curricula/internal/app/accesspolicy"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/app/services"
	"github.com/minhle/curricula/internal/middleware"
	"github.com/minhle/curricula/internal/pkg/helpers"
)

// CurriculumController handles curriculum operations
type CurriculumController struct {
	curriculumService services.CurriculumService
}

// NewCurriculumController creates a new CurriculumController
func NewCurriculumController(curriculumService services.CurriculumService) *CurriculumController {
	return &CurriculumController{
		curriculumService: curriculumService,
	}
}

// checkCurriculumOwnership fetches the curriculum and verifies the
// caller may modify it. Superusers pass; otherwise only the owner.
func (c *CurriculumController) checkCurriculumOwnership(ctx *gin.Context, id int64) bool {
	caller, ok := middleware.CallerFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return false
	}

	curriculum, err := c.curriculumService.GetCurriculum(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return false
	}

	if !accesspolicy.AllowedOnResource(accesspolicy.OpCurriculumModify, caller, curriculum.UserID) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
		errorDetail = errorDetail.WithDetails("Only the owner or a superuser can modify this curriculum")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return false
	}

	return true
}

// CreateCurriculum creates a curriculum owned by the caller
// @Summary Create a curriculum
// @Description Creates a versioned curriculum for a course. The caller becomes the owner. Teachers and superusers only.
// @Tags curricula
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCurriculumRequest true "Curriculum"
// @Success 201 {object} dto.APIResponse{data=models.Curriculum}
// @Failure 400 {object} dto.ErrorResponse "Invalid curriculum data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Year range already taken for this course"
// @Router /curricula [post]
func (c *CurriculumController) CreateCurriculum(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.CreateCurriculumRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid curriculum data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	curriculum, err := c.curriculumService.CreateCurriculum(ctx, userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      curriculum,
		Timestamp: time.Now(),
	})
}

// GetCurriculum retrieves a curriculum by ID
// @Summary Get curriculum
// @Tags curricula
// @Produce json
// @Param id path int true "Curriculum ID"
// @Success 200 {object} dto.APIResponse{data=models.Curriculum}
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Router /curricula/{id} [get]
func (c *CurriculumController) GetCurriculum(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	curriculum, err := c.curriculumService.GetCurriculum(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      curriculum,
		Timestamp: time.Now(),
	})
}

// ListCurricula retrieves a page of curricula
// @Summary List curricula
// @Description Lists curricula, optionally scoped to one course
// @Tags curricula
// @Produce json
// @Param courseId query int false "Course ID"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse}
// @Router /curricula [get]
func (c *CurriculumController) ListCurricula(ctx *gin.Context) {
	var courseID int64
	if courseIDStr := ctx.Query("courseId"); courseIDStr != "" {
		parsed, err := strconv.ParseInt(courseIDStr, 10, 64)
		if err != nil || parsed <= 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course filter")
			errorDetail = errorDetail.WithDetails("courseId must be a positive number")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		courseID = parsed
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	curricula, total, err := c.curriculumService.ListCurricula(ctx, courseID, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      curricula,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// UpdateCurriculum applies partial curriculum changes
// @Summary Update curriculum
// @Description Updates a curriculum. Only the owner or a superuser may modify; the owner never changes.
// @Tags curricula
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Curriculum ID"
// @Param request body dto.UpdateCurriculumRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=models.Curriculum}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Router /curricula/{id} [patch]
func (c *CurriculumController) UpdateCurriculum(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if !c.checkCurriculumOwnership(ctx, id) {
		return
	}

	var req dto.UpdateCurriculumRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid curriculum data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	curriculum, err := c.curriculumService.UpdateCurriculum(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      curriculum,
		Timestamp: time.Now(),
	})
}

// DeleteCurriculum removes a curriculum
// @Summary Delete curriculum
// @Description Deletes a curriculum together with its evaluation scheme, recorded scores and comments. Only the owner or a superuser.
// @Tags curricula
// @Produce json
// @Security BearerAuth
// @Param id path int true "Curriculum ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Router /curricula/{id} [delete]
func (c *CurriculumController) DeleteCurriculum(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if !c.checkCurriculumOwnership(ctx, id) {
		return
	}

	if err := c.curriculumService.DeleteCurriculum(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Curriculum deleted"},
		Timestamp: time.Now(),
	})
}
