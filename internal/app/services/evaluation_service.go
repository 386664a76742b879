package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/app/repositories"
	"github.com/minhle/curricula/internal/pkg/apperrors"
)

// EvaluationStore is the persistence surface for evaluation schemes and
// recorded scores. Criterion writes go through the guarded variants so
// scheme invariants are checked under the curriculum lock.
type EvaluationStore interface {
	CreateCriterionGuarded(ctx context.Context, criterion *models.EvaluationCriterion, guard repositories.CriterionGuard) error
	UpdateCriterionGuarded(ctx context.Context, criterion *models.EvaluationCriterion, guard repositories.CriterionGuard) error
	GetCriterionByID(ctx context.Context, id int64) (*models.EvaluationCriterion, error)
	ListCriteriaByCurriculum(ctx context.Context, curriculumID int64) ([]*models.EvaluationCriterion, error)
	DeleteCriterion(ctx context.Context, id int64) error

	CreateEvaluation(ctx context.Context, evaluation *models.CurriculumEvaluation) error
	GetEvaluationByID(ctx context.Context, id int64) (*models.CurriculumEvaluation, error)
	ListEvaluationsByCurriculum(ctx context.Context, curriculumID int64) ([]*models.CurriculumEvaluation, error)
	UpdateEvaluation(ctx context.Context, evaluation *models.CurriculumEvaluation) error
	DeleteEvaluation(ctx context.Context, id int64) error
}

// EvaluationService manages evaluation criteria and recorded scores.
type EvaluationService interface {
	CreateCriterion(ctx context.Context, req dto.CreateCriterionRequest) (*models.EvaluationCriterion, error)
	GetCriterion(ctx context.Context, id int64) (*models.EvaluationCriterion, error)
	ListCriteria(ctx context.Context, curriculumID int64) ([]*models.EvaluationCriterion, error)
	UpdateCriterion(ctx context.Context, id int64, req dto.UpdateCriterionRequest) (*models.EvaluationCriterion, error)
	DeleteCriterion(ctx context.Context, id int64) error

	CreateEvaluation(ctx context.Context, req dto.CreateEvaluationRequest) (*models.CurriculumEvaluation, error)
	GetEvaluation(ctx context.Context, id int64) (*models.CurriculumEvaluation, error)
	ListEvaluations(ctx context.Context, curriculumID int64) ([]*models.CurriculumEvaluation, error)
	UpdateEvaluation(ctx context.Context, id int64, req dto.UpdateEvaluationRequest) (*models.CurriculumEvaluation, error)
	DeleteEvaluation(ctx context.Context, id int64) error
}

type evaluationService struct {
	store           EvaluationStore
	curriculumStore CurriculumStore
	logger          zerolog.Logger
}

// NewEvaluationService creates a new EvaluationService
func NewEvaluationService(store EvaluationStore, curriculumStore CurriculumStore, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		store:           store,
		curriculumStore: curriculumStore,
		logger:          logger,
	}
}

// validateWeight checks a criterion weight is within (0, 1].
func validateWeight(weight decimal.Decimal) error {
	if weight.LessThanOrEqual(decimal.Zero) {
		return apperrors.NewValidationError("weight", "weight must be positive")
	}
	if weight.GreaterThan(models.WeightBudget) {
		return apperrors.NewValidationError("weight", "weight cannot exceed 1.00")
	}
	return nil
}

// validateMaxScore checks a criterion maximum score is positive.
func validateMaxScore(maxScore decimal.Decimal) error {
	if maxScore.LessThanOrEqual(decimal.Zero) {
		return apperrors.NewValidationError("maxScore", "max score must be positive")
	}
	return nil
}

// checkSchemeLimits verifies the scheme invariants for a criterion about
// to be written: the name is unused within the curriculum, at most
// models.MaxCriteriaPerCurriculum active criteria per curriculum, and
// active weights summing to at most models.WeightBudget. excludeID
// names the criterion being replaced (0 on create). The existing slice
// must be the curriculum's full set, deactivated rows included.
func checkSchemeLimits(existing []*models.EvaluationCriterion, candidate *models.EvaluationCriterion, excludeID int64) error {
	activeCount := 0
	weightSum := decimal.Zero
	for _, c := range existing {
		if c.ID == excludeID {
			continue
		}
		if c.Name == candidate.Name {
			return apperrors.ErrCriterionNameTaken
		}
		if !c.Active {
			continue
		}
		activeCount++
		weightSum = weightSum.Add(c.Weight)
	}

	if !candidate.Active {
		return nil
	}

	if activeCount >= models.MaxCriteriaPerCurriculum {
		return apperrors.ErrCriterionLimitReached
	}

	if weightSum.Add(candidate.Weight).GreaterThan(models.WeightBudget) {
		return apperrors.ErrWeightBudgetExceeded
	}

	return nil
}

// CreateCriterion adds a criterion to a curriculum's evaluation scheme.
func (s *evaluationService) CreateCriterion(ctx context.Context, req dto.CreateCriterionRequest) (*models.EvaluationCriterion, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "name is required")
	}

	weight, err := dto.ParseAmount(req.Weight)
	if err != nil {
		return nil, apperrors.NewValidationError("weight", "weight must be a decimal number")
	}
	if err := validateWeight(weight); err != nil {
		return nil, err
	}

	maxScore, err := dto.ParseAmount(req.MaxScore)
	if err != nil {
		return nil, apperrors.NewValidationError("maxScore", "max score must be a decimal number")
	}
	if err := validateMaxScore(maxScore); err != nil {
		return nil, err
	}

	if _, err := s.curriculumStore.GetByID(ctx, req.CurriculumID); err != nil {
		return nil, err
	}

	criterion := &models.EvaluationCriterion{
		CurriculumID: req.CurriculumID,
		Name:         name,
		Weight:       weight,
		MaxScore:     maxScore,
		Active:       true,
	}

	guard := func(existing []*models.EvaluationCriterion) error {
		return checkSchemeLimits(existing, criterion, 0)
	}

	if err := s.store.CreateCriterionGuarded(ctx, criterion, guard); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("criterionID", criterion.ID).
		Int64("curriculumID", criterion.CurriculumID).
		Str("weight", criterion.Weight.StringFixed(2)).
		Msg("Evaluation criterion created")

	return criterion, nil
}

// GetCriterion retrieves a criterion by ID.
func (s *evaluationService) GetCriterion(ctx context.Context, id int64) (*models.EvaluationCriterion, error) {
	return s.store.GetCriterionByID(ctx, id)
}

// ListCriteria retrieves the criteria of a curriculum.
func (s *evaluationService) ListCriteria(ctx context.Context, curriculumID int64) ([]*models.EvaluationCriterion, error) {
	if _, err := s.curriculumStore.GetByID(ctx, curriculumID); err != nil {
		return nil, err
	}
	return s.store.ListCriteriaByCurriculum(ctx, curriculumID)
}

// UpdateCriterion applies partial criterion changes under the scheme
// invariants.
func (s *evaluationService) UpdateCriterion(ctx context.Context, id int64, req dto.UpdateCriterionRequest) (*models.EvaluationCriterion, error) {
	criterion, err := s.store.GetCriterionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name", "name cannot be empty")
		}
		criterion.Name = name
	}
	if req.Weight != nil {
		weight, err := dto.ParseAmount(*req.Weight)
		if err != nil {
			return nil, apperrors.NewValidationError("weight", "weight must be a decimal number")
		}
		if err := validateWeight(weight); err != nil {
			return nil, err
		}
		criterion.Weight = weight
	}
	if req.MaxScore != nil {
		maxScore, err := dto.ParseAmount(*req.MaxScore)
		if err != nil {
			return nil, apperrors.NewValidationError("maxScore", "max score must be a decimal number")
		}
		if err := validateMaxScore(maxScore); err != nil {
			return nil, err
		}
		criterion.MaxScore = maxScore
	}

	guard := func(existing []*models.EvaluationCriterion) error {
		return checkSchemeLimits(existing, criterion, criterion.ID)
	}

	if err := s.store.UpdateCriterionGuarded(ctx, criterion, guard); err != nil {
		return nil, err
	}

	return criterion, nil
}

// DeleteCriterion removes a criterion and its recorded scores.
func (s *evaluationService) DeleteCriterion(ctx context.Context, id int64) error {
	return s.store.DeleteCriterion(ctx, id)
}

// validateScore checks a score is within [0, maxScore].
func validateScore(score, maxScore decimal.Decimal) error {
	if score.LessThan(decimal.Zero) {
		return apperrors.NewValidationError("score", "score cannot be negative")
	}
	if score.GreaterThan(maxScore) {
		return apperrors.NewValidationError("score", "score cannot exceed the criterion's max score")
	}
	return nil
}

// CreateEvaluation records a score against a criterion. The criterion
// must belong to the evaluation's curriculum.
func (s *evaluationService) CreateEvaluation(ctx context.Context, req dto.CreateEvaluationRequest) (*models.CurriculumEvaluation, error) {
	score, err := dto.ParseAmount(req.Score)
	if err != nil {
		return nil, apperrors.NewValidationError("score", "score must be a decimal number")
	}

	criterion, err := s.store.GetCriterionByID(ctx, req.CriterionID)
	if err != nil {
		return nil, err
	}

	if criterion.CurriculumID != req.CurriculumID {
		return nil, apperrors.ErrCriterionCurriculumMismatch
	}

	if err := validateScore(score, criterion.MaxScore); err != nil {
		return nil, err
	}

	evaluation := &models.CurriculumEvaluation{
		CurriculumID: req.CurriculumID,
		CriterionID:  req.CriterionID,
		Score:        score,
		Active:       true,
	}

	if err := s.store.CreateEvaluation(ctx, evaluation); err != nil {
		return nil, err
	}
	evaluation.Criterion = criterion

	s.logger.Info().
		Int64("evaluationID", evaluation.ID).
		Int64("criterionID", criterion.ID).
		Str("score", score.StringFixed(2)).
		Msg("Evaluation recorded")

	return evaluation, nil
}

// GetEvaluation retrieves a recorded score by ID.
func (s *evaluationService) GetEvaluation(ctx context.Context, id int64) (*models.CurriculumEvaluation, error) {
	return s.store.GetEvaluationByID(ctx, id)
}

// ListEvaluations retrieves the recorded scores of a curriculum.
func (s *evaluationService) ListEvaluations(ctx context.Context, curriculumID int64) ([]*models.CurriculumEvaluation, error) {
	if _, err := s.curriculumStore.GetByID(ctx, curriculumID); err != nil {
		return nil, err
	}
	return s.store.ListEvaluationsByCurriculum(ctx, curriculumID)
}

// UpdateEvaluation changes a recorded score within the criterion's range.
func (s *evaluationService) UpdateEvaluation(ctx context.Context, id int64, req dto.UpdateEvaluationRequest) (*models.CurriculumEvaluation, error) {
	evaluation, err := s.store.GetEvaluationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Score != nil {
		score, err := dto.ParseAmount(*req.Score)
		if err != nil {
			return nil, apperrors.NewValidationError("score", "score must be a decimal number")
		}
		if evaluation.Criterion != nil {
			if err := validateScore(score, evaluation.Criterion.MaxScore); err != nil {
				return nil, err
			}
		}
		evaluation.Score = score
	}

	if err := s.store.UpdateEvaluation(ctx, evaluation); err != nil {
		return nil, err
	}

	return evaluation, nil
}

// DeleteEvaluation removes a recorded score.
func (s *evaluationService) DeleteEvaluation(ctx context.Context, id int64) error {
	return s.store.DeleteEvaluation(ctx, id)
}
