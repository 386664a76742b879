package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/app/services"
	"github.com/minhle/curricula/internal/middleware"
	"github.com/minhle/curricula/internal/pkg/helpers"
)

// SyllabusController handles syllabus documents and their attachments
type SyllabusController struct {
	syllabusService services.SyllabusService
}

// NewSyllabusController creates a new SyllabusController
func NewSyllabusController(syllabusService services.SyllabusService) *SyllabusController {
	return &SyllabusController{
		syllabusService: syllabusService,
	}
}

func parseQueryInt(ctx *gin.Context, name string) (int, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid filter")
		errorDetail = errorDetail.WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return value, true
}

// CreateSyllabus creates a syllabus
// @Summary Create a syllabus
// @Description Creates a syllabus document, optionally attached to a curriculum and optionally carrying an uploaded file
// @Tags syllabuses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param curriculumId formData int false "Curriculum ID"
// @Param file formData file false "Attachment"
// @Success 201 {object} dto.APIResponse{data=models.Syllabus}
// @Failure 400 {object} dto.ErrorResponse "Invalid syllabus data"
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Failure 409 {object} dto.ErrorResponse "Title already taken"
// @Router /syllabuses [post]
func (c *SyllabusController) CreateSyllabus(ctx *gin.Context) {
	var req dto.CreateSyllabusRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid syllabus data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	attachment, _ := ctx.FormFile("file")

	syllabus, err := c.syllabusService.CreateSyllabus(ctx, req, attachment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      syllabus,
		Timestamp: time.Now(),
	})
}

// GetSyllabus retrieves a syllabus by ID
// @Summary Get syllabus
// @Tags syllabuses
// @Produce json
// @Param id path int true "Syllabus ID"
// @Success 200 {object} dto.APIResponse{data=models.Syllabus}
// @Failure 404 {object} dto.ErrorResponse "Syllabus not found"
// @Router /syllabuses/{id} [get]
func (c *SyllabusController) GetSyllabus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	syllabus, err := c.syllabusService.GetSyllabus(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      syllabus,
		Timestamp: time.Now(),
	})
}

// SearchSyllabuses retrieves a filtered page of syllabuses
// @Summary Search syllabuses
// @Description Searches syllabuses across the curriculum and course relations. All filters are optional and combine with AND.
// @Tags syllabuses
// @Produce json
// @Param title query string false "Title substring, case-insensitive"
// @Param courseName query string false "Course name substring, case-insensitive"
// @Param courseCredits query int false "Exact course credits"
// @Param ownerUsername query string false "Curriculum owner's username"
// @Param startYear query int false "Curriculum start year"
// @Param endYear query int false "Curriculum end year"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse}
// @Router /syllabuses [get]
func (c *SyllabusController) SearchSyllabuses(ctx *gin.Context) {
	filter := dto.SyllabusFilter{
		Title:         ctx.Query("title"),
		CourseName:    ctx.Query("courseName"),
		OwnerUsername: ctx.Query("ownerUsername"),
	}

	var ok bool
	if filter.CourseCredits, ok = parseQueryInt(ctx, "courseCredits"); !ok {
		return
	}
	if filter.StartYear, ok = parseQueryInt(ctx, "startYear"); !ok {
		return
	}
	if filter.EndYear, ok = parseQueryInt(ctx, "endYear"); !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	syllabuses, total, err := c.syllabusService.SearchSyllabuses(ctx, filter, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      syllabuses,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// UpdateSyllabus applies partial syllabus changes
// @Summary Update syllabus
// @Description Updates a syllabus; a newly uploaded file replaces the previous attachment
// @Tags syllabuses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Syllabus ID"
// @Param title formData string false "Title"
// @Param content formData string false "Content"
// @Param curriculumId formData int false "Curriculum ID"
// @Param file formData file false "Replacement attachment"
// @Success 200 {object} dto.APIResponse{data=models.Syllabus}
// @Failure 404 {object} dto.ErrorResponse "Syllabus not found"
// @Failure 409 {object} dto.ErrorResponse "Title already taken"
// @Router /syllabuses/{id} [patch]
func (c *SyllabusController) UpdateSyllabus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSyllabusRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid syllabus data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	attachment, _ := ctx.FormFile("file")

	syllabus, err := c.syllabusService.UpdateSyllabus(ctx, id, req, attachment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      syllabus,
		Timestamp: time.Now(),
	})
}

// DeleteSyllabus removes a syllabus and its attachment
// @Summary Delete syllabus
// @Tags syllabuses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Syllabus ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Syllabus not found"
// @Router /syllabuses/{id} [delete]
func (c *SyllabusController) DeleteSyllabus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.syllabusService.DeleteSyllabus(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Syllabus deleted"},
		Timestamp: time.Now(),
	})
}

// DownloadAttachment streams the stored attachment of a syllabus
// @Summary Download syllabus attachment
// @Tags syllabuses
// @Produce octet-stream
// @Param id path int true "Syllabus ID"
// @Success 200 {file} binary "Attachment content"
// @Failure 404 {object} dto.ErrorResponse "Syllabus or attachment not found"
// @Router /syllabuses/{id}/download [get]
func (c *SyllabusController) DownloadAttachment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	path, err := c.syllabusService.AttachmentPath(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.File(path)
}
