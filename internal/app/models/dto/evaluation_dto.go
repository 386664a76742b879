package dto

import (
	"github.com/shopspring/decimal"

	"github.com/minhle/curricula/internal/app/models"
)

// CreateCriterionRequest carries a new evaluation criterion.
type CreateCriterionRequest struct {
	CurriculumID int64  `json:"curriculumId" binding:"required" example:"1"`
	Name         string `json:"name" binding:"required" example:"Final exam"`
	Weight       string `json:"weight" binding:"required" example:"0.50"`
	MaxScore     string `json:"maxScore" binding:"required" example:"10.00"`
}

// UpdateCriterionRequest carries criterion fields to change.
type UpdateCriterionRequest struct {
	Name     *string `json:"name"`
	Weight   *string `json:"weight"`
	MaxScore *string `json:"maxScore"`
}

// CriterionResponse is the public view of an evaluation criterion.
type CriterionResponse struct {
	ID           int64  `json:"id" example:"1"`
	CurriculumID int64  `json:"curriculumId" example:"1"`
	Name         string `json:"name" example:"Final exam"`
	Weight       string `json:"weight" example:"0.50"`
	MaxScore     string `json:"maxScore" example:"10.00"`
	Active       bool   `json:"active" example:"true"`
}

// FromCriterion converts a models.EvaluationCriterion to a CriterionResponse
func FromCriterion(c *models.EvaluationCriterion) CriterionResponse {
	if c == nil {
		return CriterionResponse{}
	}
	return CriterionResponse{
		ID:           c.ID,
		CurriculumID: c.CurriculumID,
		Name:         c.Name,
		Weight:       c.Weight.StringFixed(2),
		MaxScore:     c.MaxScore.StringFixed(2),
		Active:       c.Active,
	}
}

// CreateEvaluationRequest carries a new recorded score.
type CreateEvaluationRequest struct {
	CurriculumID int64  `json:"curriculumId" binding:"required" example:"1"`
	CriterionID  int64  `json:"evaluationCriterionId" binding:"required" example:"1"`
	Score        string `json:"score" binding:"required" example:"8.50"`
}

// UpdateEvaluationRequest carries evaluation fields to change.
type UpdateEvaluationRequest struct {
	Score *string `json:"score"`
}

// EvaluationResponse is the public view of a recorded score.
type EvaluationResponse struct {
	ID            int64  `json:"id" example:"1"`
	CurriculumID  int64  `json:"curriculumId" example:"1"`
	CriterionID   int64  `json:"evaluationCriterionId" example:"1"`
	CriterionName string `json:"evaluationCriterionName,omitempty" example:"Final exam"`
	Score         string `json:"score" example:"8.50"`
	Active        bool   `json:"active" example:"true"`
}

// FromEvaluation converts a models.CurriculumEvaluation to an EvaluationResponse
func FromEvaluation(e *models.CurriculumEvaluation) EvaluationResponse {
	if e == nil {
		return EvaluationResponse{}
	}
	resp := EvaluationResponse{
		ID:           e.ID,
		CurriculumID: e.CurriculumID,
		CriterionID:  e.CriterionID,
		Score:        e.Score.StringFixed(2),
		Active:       e.Active,
	}
	if e.Criterion != nil {
		resp.CriterionName = e.Criterion.Name
	}
	return resp
}

// ParseAmount parses a fixed-point decimal string with at most two
// fractional digits, as used for weights and scores.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(2), nil
}
