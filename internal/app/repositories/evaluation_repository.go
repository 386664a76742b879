package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/db"
	"github.com/minhle/curricula/internal/pkg/apperrors"
	"github.com/minhle/curricula/internal/pkg/dberrors"
)

// CriterionGuard inspects a curriculum's current criteria before a write
// commits. Returning an error aborts the transaction. The slice holds
// every criterion of the curriculum, active and inactive.
type CriterionGuard func(existing []*models.EvaluationCriterion) error

// EvaluationRepository handles database operations for evaluation
// criteria and curriculum evaluations.
type EvaluationRepository struct {
	db *pgxpool.Pool
}

// NewEvaluationRepository creates a new evaluation repository
func NewEvaluationRepository(db *pgxpool.Pool) *EvaluationRepository {
	return &EvaluationRepository{
		db: db,
	}
}

const criterionColumns = `id, curriculum_id, name, weight, max_score, active, created_at, updated_at`

func scanCriterion(row pgx.Row) (*models.EvaluationCriterion, error) {
	var criterion models.EvaluationCriterion
	err := row.Scan(
		&criterion.ID,
		&criterion.CurriculumID,
		&criterion.Name,
		&criterion.Weight,
		&criterion.MaxScore,
		&criterion.Active,
		&criterion.CreatedAt,
		&criterion.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &criterion, nil
}

// lockCurriculum takes a row lock on the curriculum so concurrent
// criterion writes against the same scheme serialize.
func lockCurriculum(ctx context.Context, tx pgx.Tx, curriculumID int64) error {
	var id int64
	err := tx.QueryRow(ctx,
		`SELECT id FROM curricula WHERE id = $1 FOR UPDATE`, curriculumID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrCurriculumNotFound
		}
		return fmt.Errorf("error locking curriculum: %w", err)
	}
	return nil
}

func listCriteriaTx(ctx context.Context, tx pgx.Tx, curriculumID int64) ([]*models.EvaluationCriterion, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM evaluation_criteria WHERE curriculum_id = $1 ORDER BY id`, criterionColumns)

	rows, err := tx.Query(ctx, query, curriculumID)
	if err != nil {
		return nil, fmt.Errorf("error listing criteria: %w", err)
	}
	defer rows.Close()

	var criteria []*models.EvaluationCriterion
	for rows.Next() {
		criterion, err := scanCriterion(rows)
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, criterion)
	}

	return criteria, rows.Err()
}

// CreateCriterionGuarded inserts a criterion after the guard has
// approved it against the curriculum's current scheme, all within one
// transaction holding the curriculum row lock.
func (r *EvaluationRepository) CreateCriterionGuarded(ctx context.Context, criterion *models.EvaluationCriterion, guard CriterionGuard) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := lockCurriculum(ctx, tx, criterion.CurriculumID); err != nil {
			return err
		}

		existing, err := listCriteriaTx(ctx, tx, criterion.CurriculumID)
		if err != nil {
			return err
		}

		if err := guard(existing); err != nil {
			return err
		}

		query := `
			INSERT INTO evaluation_criteria (curriculum_id, name, weight, max_score, active)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`

		err = tx.QueryRow(ctx, query,
			criterion.CurriculumID,
			criterion.Name,
			criterion.Weight,
			criterion.MaxScore,
			criterion.Active,
		).Scan(&criterion.ID, &criterion.CreatedAt, &criterion.UpdatedAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "uq_evaluation_criteria_name") {
				return apperrors.ErrCriterionNameTaken
			}
			return fmt.Errorf("error creating criterion: %w", err)
		}

		return nil
	})
}

// UpdateCriterionGuarded updates a criterion under the same curriculum
// lock and guard discipline as creation.
func (r *EvaluationRepository) UpdateCriterionGuarded(ctx context.Context, criterion *models.EvaluationCriterion, guard CriterionGuard) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := lockCurriculum(ctx, tx, criterion.CurriculumID); err != nil {
			return err
		}

		existing, err := listCriteriaTx(ctx, tx, criterion.CurriculumID)
		if err != nil {
			return err
		}

		if err := guard(existing); err != nil {
			return err
		}

		query := `
			UPDATE evaluation_criteria
			SET name = $1, weight = $2, max_score = $3, active = $4, updated_at = $5
			WHERE id = $6 AND curriculum_id = $7
		`

		now := time.Now()
		cmdTag, err := tx.Exec(ctx, query,
			criterion.Name,
			criterion.Weight,
			criterion.MaxScore,
			criterion.Active,
			now,
			criterion.ID,
			criterion.CurriculumID,
		)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "uq_evaluation_criteria_name") {
				return apperrors.ErrCriterionNameTaken
			}
			return fmt.Errorf("error updating criterion: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrCriterionNotFound
		}

		criterion.UpdatedAt = now
		return nil
	})
}

// GetCriterionByID retrieves a criterion by ID
func (r *EvaluationRepository) GetCriterionByID(ctx context.Context, id int64) (*models.EvaluationCriterion, error) {
	query := fmt.Sprintf(`SELECT %s FROM evaluation_criteria WHERE id = $1 AND active = TRUE`, criterionColumns)

	criterion, err := scanCriterion(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCriterionNotFound
		}
		return nil, fmt.Errorf("error retrieving criterion: %w", err)
	}

	return criterion, nil
}

// ListCriteriaByCurriculum retrieves the active criteria of a curriculum
func (r *EvaluationRepository) ListCriteriaByCurriculum(ctx context.Context, curriculumID int64) ([]*models.EvaluationCriterion, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM evaluation_criteria WHERE curriculum_id = $1 AND active = TRUE ORDER BY id`, criterionColumns)

	rows, err := r.db.Query(ctx, query, curriculumID)
	if err != nil {
		return nil, fmt.Errorf("error listing criteria: %w", err)
	}
	defer rows.Close()

	var criteria []*models.EvaluationCriterion
	for rows.Next() {
		criterion, err := scanCriterion(rows)
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, criterion)
	}

	return criteria, rows.Err()
}

// DeleteCriterion deactivates a criterion by ID. Recorded scores
// against it stay in place.
func (r *EvaluationRepository) DeleteCriterion(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, softDeleteQuery("evaluation_criteria"), id)
	if err != nil {
		return fmt.Errorf("error deleting criterion: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCriterionNotFound
	}

	return nil
}

const evaluationColumns = `e.id, e.curriculum_id, e.criterion_id, e.score, e.active, e.created_at, e.updated_at,
	c.id, c.curriculum_id, c.name, c.weight, c.max_score, c.active, c.created_at, c.updated_at`

func scanEvaluation(row pgx.Row) (*models.CurriculumEvaluation, error) {
	var evaluation models.CurriculumEvaluation
	var criterion models.EvaluationCriterion
	err := row.Scan(
		&evaluation.ID,
		&evaluation.CurriculumID,
		&evaluation.CriterionID,
		&evaluation.Score,
		&evaluation.Active,
		&evaluation.CreatedAt,
		&evaluation.UpdatedAt,
		&criterion.ID,
		&criterion.CurriculumID,
		&criterion.Name,
		&criterion.Weight,
		&criterion.MaxScore,
		&criterion.Active,
		&criterion.CreatedAt,
		&criterion.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	evaluation.Criterion = &criterion
	return &evaluation, nil
}

// CreateEvaluation records a score against a criterion
func (r *EvaluationRepository) CreateEvaluation(ctx context.Context, evaluation *models.CurriculumEvaluation) error {
	query := `
		INSERT INTO curriculum_evaluations (curriculum_id, criterion_id, score, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		evaluation.CurriculumID,
		evaluation.CriterionID,
		evaluation.Score,
		evaluation.Active,
	).Scan(&evaluation.ID, &evaluation.CreatedAt, &evaluation.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCriterionNotFound
		}
		return fmt.Errorf("error creating evaluation: %w", err)
	}

	return nil
}

// GetEvaluationByID retrieves an evaluation with its criterion by ID
func (r *EvaluationRepository) GetEvaluationByID(ctx context.Context, id int64) (*models.CurriculumEvaluation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM curriculum_evaluations e
		JOIN evaluation_criteria c ON c.id = e.criterion_id
		WHERE e.id = $1 AND e.active = TRUE`, evaluationColumns)

	evaluation, err := scanEvaluation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("error retrieving evaluation: %w", err)
	}

	return evaluation, nil
}

// ListEvaluationsByCurriculum retrieves all evaluations of a curriculum
func (r *EvaluationRepository) ListEvaluationsByCurriculum(ctx context.Context, curriculumID int64) ([]*models.CurriculumEvaluation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM curriculum_evaluations e
		JOIN evaluation_criteria c ON c.id = e.criterion_id
		WHERE e.curriculum_id = $1 AND e.active = TRUE
		ORDER BY e.id`, evaluationColumns)

	rows, err := r.db.Query(ctx, query, curriculumID)
	if err != nil {
		return nil, fmt.Errorf("error listing evaluations: %w", err)
	}
	defer rows.Close()

	var evaluations []*models.CurriculumEvaluation
	for rows.Next() {
		evaluation, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evaluations = append(evaluations, evaluation)
	}

	return evaluations, rows.Err()
}

// UpdateEvaluation updates the score or active flag of an evaluation
func (r *EvaluationRepository) UpdateEvaluation(ctx context.Context, evaluation *models.CurriculumEvaluation) error {
	query := `
		UPDATE curriculum_evaluations
		SET score = $1, active = $2, updated_at = $3
		WHERE id = $4
	`

	now := time.Now()
	cmdTag, err := r.db.Exec(ctx, query,
		evaluation.Score, evaluation.Active, now, evaluation.ID)
	if err != nil {
		return fmt.Errorf("error updating evaluation: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEvaluationNotFound
	}

	evaluation.UpdatedAt = now
	return nil
}

// DeleteEvaluation deactivates an evaluation by ID. The row is kept.
func (r *EvaluationRepository) DeleteEvaluation(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, softDeleteQuery("curriculum_evaluations"), id)
	if err != nil {
		return fmt.Errorf("error deleting evaluation: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEvaluationNotFound
	}

	return nil
}
