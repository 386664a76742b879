package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/app/services"
	"github.com/minhle/curricula/internal/middleware"
)

// EvaluationController handles evaluation criteria and recorded scores
type EvaluationController struct {
	evaluationService services.EvaluationService
}

// NewEvaluationController creates a new EvaluationController
func NewEvaluationController(evaluationService services.EvaluationService) *EvaluationController {
	return &EvaluationController{
		evaluationService: evaluationService,
	}
}

func requireCurriculumIDQuery(ctx *gin.Context) (int64, bool) {
	curriculumID, err := strconv.ParseInt(ctx.Query("curriculumId"), 10, 64)
	if err != nil || curriculumID <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid curriculum filter")
		errorDetail = errorDetail.WithDetails("curriculumId is required and must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return curriculumID, true
}

// CreateCriterion adds a criterion to a curriculum's evaluation scheme
// @Summary Create an evaluation criterion
// @Description Adds a weighted criterion to a curriculum's scheme. A curriculum holds at most 5 active criteria whose weights sum to at most 1.00.
// @Tags evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCriterionRequest true "Criterion"
// @Success 201 {object} dto.APIResponse{data=dto.CriterionResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid criterion data"
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Failure 409 {object} dto.ErrorResponse "Scheme limit reached, weight budget exceeded or name taken"
// @Router /evaluation-criteria [post]
func (c *EvaluationController) CreateCriterion(ctx *gin.Context) {
	var req dto.CreateCriterionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid criterion data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	criterion, err := c.evaluationService.CreateCriterion(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromCriterion(criterion),
		Timestamp: time.Now(),
	})
}

// GetCriterion retrieves a criterion by ID
// @Summary Get evaluation criterion
// @Tags evaluations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Criterion ID"
// @Success 200 {object} dto.APIResponse{data=dto.CriterionResponse}
// @Failure 404 {object} dto.ErrorResponse "Criterion not found"
// @Router /evaluation-criteria/{id} [get]
func (c *EvaluationController) GetCriterion(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	criterion, err := c.evaluationService.GetCriterion(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromCriterion(criterion),
		Timestamp: time.Now(),
	})
}

// ListCriteria retrieves a curriculum's evaluation scheme
// @Summary List evaluation criteria
// @Tags evaluations
// @Produce json
// @Security BearerAuth
// @Param curriculumId query int true "Curriculum ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CriterionResponse}
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Router /evaluation-criteria [get]
func (c *EvaluationController) ListCriteria(ctx *gin.Context) {
	curriculumID, ok := requireCurriculumIDQuery(ctx)
	if !ok {
		return
	}

	criteria, err := c.evaluationService.ListCriteria(ctx, curriculumID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.CriterionResponse, 0, len(criteria))
	for _, criterion := range criteria {
		responses = append(responses, dto.FromCriterion(criterion))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      responses,
		Timestamp: time.Now(),
	})
}

// UpdateCriterion applies partial criterion changes
// @Summary Update evaluation criterion
// @Description Updates a criterion. The scheme invariants are re-checked with the new weight.
// @Tags evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Criterion ID"
// @Param request body dto.UpdateCriterionRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=dto.CriterionResponse}
// @Failure 404 {object} dto.ErrorResponse "Criterion not found"
// @Failure 409 {object} dto.ErrorResponse "Weight budget exceeded or name taken"
// @Router /evaluation-criteria/{id} [patch]
func (c *EvaluationController) UpdateCriterion(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCriterionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid criterion data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	criterion, err := c.evaluationService.UpdateCriterion(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromCriterion(criterion),
		Timestamp: time.Now(),
	})
}

// DeleteCriterion removes a criterion and its recorded scores
// @Summary Delete evaluation criterion
// @Tags evaluations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Criterion ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Criterion not found"
// @Router /evaluation-criteria/{id} [delete]
func (c *EvaluationController) DeleteCriterion(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.evaluationService.DeleteCriterion(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Criterion deleted"},
		Timestamp: time.Now(),
	})
}

// CreateEvaluation records a score against a criterion
// @Summary Record an evaluation
// @Description Records a score against a criterion of the same curriculum. The score must lie within [0, maxScore].
// @Tags evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEvaluationRequest true "Evaluation"
// @Success 201 {object} dto.APIResponse{data=dto.EvaluationResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid score or criterion belongs to another curriculum"
// @Failure 404 {object} dto.ErrorResponse "Criterion not found"
// @Router /evaluations [post]
func (c *EvaluationController) CreateEvaluation(ctx *gin.Context) {
	var req dto.CreateEvaluationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid evaluation data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	evaluation, err := c.evaluationService.CreateEvaluation(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromEvaluation(evaluation),
		Timestamp: time.Now(),
	})
}

// GetEvaluation retrieves a recorded score by ID
// @Summary Get evaluation
// @Tags evaluations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Evaluation ID"
// @Success 200 {object} dto.APIResponse{data=dto.EvaluationResponse}
// @Failure 404 {object} dto.ErrorResponse "Evaluation not found"
// @Router /evaluations/{id} [get]
func (c *EvaluationController) GetEvaluation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	evaluation, err := c.evaluationService.GetEvaluation(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromEvaluation(evaluation),
		Timestamp: time.Now(),
	})
}

// ListEvaluations retrieves a curriculum's recorded scores
// @Summary List evaluations
// @Tags evaluations
// @Produce json
// @Security BearerAuth
// @Param curriculumId query int true "Curriculum ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.EvaluationResponse}
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Router /evaluations [get]
func (c *EvaluationController) ListEvaluations(ctx *gin.Context) {
	curriculumID, ok := requireCurriculumIDQuery(ctx)
	if !ok {
		return
	}

	evaluations, err := c.evaluationService.ListEvaluations(ctx, curriculumID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.EvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		responses = append(responses, dto.FromEvaluation(evaluation))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      responses,
		Timestamp: time.Now(),
	})
}

// UpdateEvaluation changes a recorded score
// @Summary Update evaluation
// @Tags evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Evaluation ID"
// @Param request body dto.UpdateEvaluationRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=dto.EvaluationResponse}
// @Failure 400 {object} dto.ErrorResponse "Score out of range"
// @Failure 404 {object} dto.ErrorResponse "Evaluation not found"
// @Router /evaluations/{id} [patch]
func (c *EvaluationController) UpdateEvaluation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEvaluationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid evaluation data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	evaluation, err := c.evaluationService.UpdateEvaluation(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromEvaluation(evaluation),
		Timestamp: time.Now(),
	})
}

// DeleteEvaluation removes a recorded score
// @Summary Delete evaluation
// @Tags evaluations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Evaluation ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Evaluation not found"
// @Router /evaluations/{id} [delete]
func (c *EvaluationController) DeleteEvaluation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.evaluationService.DeleteEvaluation(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Evaluation deleted"},
		Timestamp: time.Now(),
	})
}
