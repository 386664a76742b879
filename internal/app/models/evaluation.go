package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Limits on a curriculum's evaluation scheme. A curriculum holds at most
// MaxCriteriaPerCurriculum active criteria and their weights sum to at
// most WeightBudget at all times.
const MaxCriteriaPerCurriculum = 5

// WeightBudget is the maximum total weight of a curriculum's active criteria.
var WeightBudget = decimal.NewFromInt(1)

// EvaluationCriterion is a named, weighted grading component of a
// curriculum's evaluation scheme. Name is unique within the curriculum.
type EvaluationCriterion struct {
	ID           int64           `json:"id" db:"id"`
	CurriculumID int64           `json:"curriculumId" db:"curriculum_id"`
	Name         string          `json:"name" db:"name"`
	Weight       decimal.Decimal `json:"weight" db:"weight"`       // Fixed-point, 2 decimal places, 0-1
	MaxScore     decimal.Decimal `json:"maxScore" db:"max_score"`  // Fixed-point, 2 decimal places
	Active       bool            `json:"active" db:"active"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// CurriculumEvaluation records a score against one criterion of a
// curriculum. The criterion must belong to the same curriculum.
type CurriculumEvaluation struct {
	ID           int64           `json:"id" db:"id"`
	CurriculumID int64           `json:"curriculumId" db:"curriculum_id"`
	CriterionID  int64           `json:"evaluationCriterionId" db:"criterion_id"`
	Score        decimal.Decimal `json:"score" db:"score"` // Fixed-point, 2 decimal places
	Active       bool            `json:"active" db:"active"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`

	Criterion *EvaluationCriterion `json:"criterion,omitempty"`
}
