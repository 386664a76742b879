package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/app/repositories"
	"github.com/minhle/curricula/internal/pkg/apperrors"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func activeCriterion(id int64, weight string) *models.EvaluationCriterion {
	return &models.EvaluationCriterion{
		ID:           id,
		CurriculumID: 1,
		Name:         fmt.Sprintf("criterion-%d", id),
		Weight:       dec(weight),
		MaxScore:     dec("10.00"),
		Active:       true,
	}
}

func TestCheckSchemeLimits(t *testing.T) {
	tests := []struct {
		name      string
		existing  []*models.EvaluationCriterion
		candidate *models.EvaluationCriterion
		excludeID int64
		wantErr   error
	}{
		{
			name: "fifth criterion accepted",
			existing: []*models.EvaluationCriterion{
				activeCriterion(1, "0.20"),
				activeCriterion(2, "0.20"),
				activeCriterion(3, "0.20"),
				activeCriterion(4, "0.20"),
			},
			candidate: activeCriterion(0, "0.20"),
		},
		{
			name: "sixth criterion rejected",
			existing: []*models.EvaluationCriterion{
				activeCriterion(1, "0.10"),
				activeCriterion(2, "0.10"),
				activeCriterion(3, "0.10"),
				activeCriterion(4, "0.10"),
				activeCriterion(5, "0.10"),
			},
			candidate: activeCriterion(0, "0.10"),
			wantErr:   apperrors.ErrCriterionLimitReached,
		},
		{
			name: "weight budget exceeded",
			existing: []*models.EvaluationCriterion{
				activeCriterion(1, "0.60"),
				activeCriterion(2, "0.30"),
			},
			candidate: activeCriterion(0, "0.20"),
			wantErr:   apperrors.ErrWeightBudgetExceeded,
		},
		{
			name: "weight budget exactly met",
			existing: []*models.EvaluationCriterion{
				activeCriterion(1, "0.60"),
				activeCriterion(2, "0.30"),
			},
			candidate: activeCriterion(0, "0.10"),
		},
		{
			name: "update excludes the replaced criterion",
			existing: []*models.EvaluationCriterion{
				activeCriterion(1, "0.50"),
				activeCriterion(2, "0.50"),
			},
			candidate: activeCriterion(2, "0.50"),
			excludeID: 2,
		},
		{
			name: "inactive existing criteria don't count",
			existing: []*models.EvaluationCriterion{
				activeCriterion(1, "0.50"),
				{ID: 2, CurriculumID: 1, Weight: dec("0.90"), Active: false},
			},
			candidate: activeCriterion(0, "0.50"),
		},
		{
			name: "inactive candidate always passes",
			existing: []*models.EvaluationCriterion{
				activeCriterion(1, "0.20"),
				activeCriterion(2, "0.20"),
				activeCriterion(3, "0.20"),
				activeCriterion(4, "0.20"),
				activeCriterion(5, "0.20"),
			},
			candidate: &models.EvaluationCriterion{Name: "extra", Weight: dec("0.50"), Active: false},
		},
		{
			name: "duplicate name within the curriculum rejected",
			existing: []*models.EvaluationCriterion{
				activeCriterion(1, "0.20"),
			},
			candidate: &models.EvaluationCriterion{Name: "criterion-1", Weight: dec("0.20"), MaxScore: dec("10.00"), Active: true},
			wantErr:   apperrors.ErrCriterionNameTaken,
		},
		{
			name: "deactivated criteria still reserve their name",
			existing: []*models.EvaluationCriterion{
				{ID: 2, CurriculumID: 1, Name: "criterion-2", Weight: dec("0.90"), Active: false},
			},
			candidate: &models.EvaluationCriterion{Name: "criterion-2", Weight: dec("0.20"), MaxScore: dec("10.00"), Active: true},
			wantErr:   apperrors.ErrCriterionNameTaken,
		},
		{
			name: "update keeps its own name",
			existing: []*models.EvaluationCriterion{
				activeCriterion(1, "0.50"),
				activeCriterion(2, "0.30"),
			},
			candidate: activeCriterion(2, "0.40"),
			excludeID: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkSchemeLimits(tt.existing, tt.candidate, tt.excludeID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// fakeEvaluationStore keeps criteria and evaluations in memory and runs
// guards against the stored criteria, mirroring the transactional
// repository behavior.
type fakeEvaluationStore struct {
	criteria    map[int64]*models.EvaluationCriterion
	evaluations map[int64]*models.CurriculumEvaluation
	nextID      int64
}

func newFakeEvaluationStore() *fakeEvaluationStore {
	return &fakeEvaluationStore{
		criteria:    make(map[int64]*models.EvaluationCriterion),
		evaluations: make(map[int64]*models.CurriculumEvaluation),
		nextID:      1,
	}
}

func (f *fakeEvaluationStore) criteriaOf(curriculumID int64) []*models.EvaluationCriterion {
	var out []*models.EvaluationCriterion
	for _, c := range f.criteria {
		if c.CurriculumID == curriculumID {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeEvaluationStore) CreateCriterionGuarded(_ context.Context, criterion *models.EvaluationCriterion, guard repositories.CriterionGuard) error {
	if err := guard(f.criteriaOf(criterion.CurriculumID)); err != nil {
		return err
	}
	criterion.ID = f.nextID
	f.nextID++
	f.criteria[criterion.ID] = criterion
	return nil
}

func (f *fakeEvaluationStore) UpdateCriterionGuarded(_ context.Context, criterion *models.EvaluationCriterion, guard repositories.CriterionGuard) error {
	if _, ok := f.criteria[criterion.ID]; !ok {
		return apperrors.ErrCriterionNotFound
	}
	if err := guard(f.criteriaOf(criterion.CurriculumID)); err != nil {
		return err
	}
	f.criteria[criterion.ID] = criterion
	return nil
}

func (f *fakeEvaluationStore) GetCriterionByID(_ context.Context, id int64) (*models.EvaluationCriterion, error) {
	c, ok := f.criteria[id]
	if !ok {
		return nil, apperrors.ErrCriterionNotFound
	}
	return c, nil
}

func (f *fakeEvaluationStore) ListCriteriaByCurriculum(_ context.Context, curriculumID int64) ([]*models.EvaluationCriterion, error) {
	return f.criteriaOf(curriculumID), nil
}

func (f *fakeEvaluationStore) DeleteCriterion(_ context.Context, id int64) error {
	if _, ok := f.criteria[id]; !ok {
		return apperrors.ErrCriterionNotFound
	}
	delete(f.criteria, id)
	return nil
}

func (f *fakeEvaluationStore) CreateEvaluation(_ context.Context, evaluation *models.CurriculumEvaluation) error {
	evaluation.ID = f.nextID
	f.nextID++
	f.evaluations[evaluation.ID] = evaluation
	return nil
}

func (f *fakeEvaluationStore) GetEvaluationByID(_ context.Context, id int64) (*models.CurriculumEvaluation, error) {
	e, ok := f.evaluations[id]
	if !ok {
		return nil, apperrors.ErrEvaluationNotFound
	}
	return e, nil
}

func (f *fakeEvaluationStore) ListEvaluationsByCurriculum(_ context.Context, curriculumID int64) ([]*models.CurriculumEvaluation, error) {
	var out []*models.CurriculumEvaluation
	for _, e := range f.evaluations {
		if e.CurriculumID == curriculumID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvaluationStore) UpdateEvaluation(_ context.Context, evaluation *models.CurriculumEvaluation) error {
	if _, ok := f.evaluations[evaluation.ID]; !ok {
		return apperrors.ErrEvaluationNotFound
	}
	f.evaluations[evaluation.ID] = evaluation
	return nil
}

func (f *fakeEvaluationStore) DeleteEvaluation(_ context.Context, id int64) error {
	if _, ok := f.evaluations[id]; !ok {
		return apperrors.ErrEvaluationNotFound
	}
	delete(f.evaluations, id)
	return nil
}

// fakeCurriculumStore serves fixed curricula by ID.
type fakeCurriculumStore struct {
	curricula map[int64]*models.Curriculum
}

func newFakeCurriculumStore(ids ...int64) *fakeCurriculumStore {
	f := &fakeCurriculumStore{curricula: make(map[int64]*models.Curriculum)}
	for _, id := range ids {
		f.curricula[id] = &models.Curriculum{ID: id, CourseID: 1, UserID: 1, Active: true}
	}
	return f
}

func (f *fakeCurriculumStore) Create(_ context.Context, curriculum *models.Curriculum) error {
	curriculum.ID = int64(len(f.curricula) + 1)
	f.curricula[curriculum.ID] = curriculum
	return nil
}

func (f *fakeCurriculumStore) GetByID(_ context.Context, id int64) (*models.Curriculum, error) {
	c, ok := f.curricula[id]
	if !ok {
		return nil, apperrors.ErrCurriculumNotFound
	}
	return c, nil
}

func (f *fakeCurriculumStore) List(_ context.Context, _ int64, _, _ int) ([]*models.Curriculum, error) {
	var out []*models.Curriculum
	for _, c := range f.curricula {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCurriculumStore) Count(_ context.Context, _ int64) (int64, error) {
	return int64(len(f.curricula)), nil
}

func (f *fakeCurriculumStore) Update(_ context.Context, curriculum *models.Curriculum) error {
	f.curricula[curriculum.ID] = curriculum
	return nil
}

func (f *fakeCurriculumStore) Delete(_ context.Context, id int64) error {
	delete(f.curricula, id)
	return nil
}

func newEvaluationServiceForTest(store *fakeEvaluationStore, curricula *fakeCurriculumStore) EvaluationService {
	return NewEvaluationService(store, curricula, zerolog.Nop())
}

func TestCreateCriterion(t *testing.T) {
	ctx := context.Background()

	t.Run("valid criterion is stored active", func(t *testing.T) {
		svc := newEvaluationServiceForTest(newFakeEvaluationStore(), newFakeCurriculumStore(1))

		criterion, err := svc.CreateCriterion(ctx, dto.CreateCriterionRequest{
			CurriculumID: 1,
			Name:         "Final exam",
			Weight:       "0.50",
			MaxScore:     "10.00",
		})
		require.NoError(t, err)
		assert.True(t, criterion.Active)
		assert.Equal(t, "0.50", criterion.Weight.StringFixed(2))
	})

	t.Run("weight above one is rejected", func(t *testing.T) {
		svc := newEvaluationServiceForTest(newFakeEvaluationStore(), newFakeCurriculumStore(1))

		_, err := svc.CreateCriterion(ctx, dto.CreateCriterionRequest{
			CurriculumID: 1,
			Name:         "Final exam",
			Weight:       "1.50",
			MaxScore:     "10.00",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("zero weight is rejected", func(t *testing.T) {
		svc := newEvaluationServiceForTest(newFakeEvaluationStore(), newFakeCurriculumStore(1))

		_, err := svc.CreateCriterion(ctx, dto.CreateCriterionRequest{
			CurriculumID: 1,
			Name:         "Final exam",
			Weight:       "0",
			MaxScore:     "10.00",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("unknown curriculum is reported", func(t *testing.T) {
		svc := newEvaluationServiceForTest(newFakeEvaluationStore(), newFakeCurriculumStore())

		_, err := svc.CreateCriterion(ctx, dto.CreateCriterionRequest{
			CurriculumID: 99,
			Name:         "Final exam",
			Weight:       "0.50",
			MaxScore:     "10.00",
		})
		assert.ErrorIs(t, err, apperrors.ErrCurriculumNotFound)
	})

	t.Run("sixth active criterion hits the limit", func(t *testing.T) {
		store := newFakeEvaluationStore()
		svc := newEvaluationServiceForTest(store, newFakeCurriculumStore(1))

		for i := 0; i < models.MaxCriteriaPerCurriculum; i++ {
			_, err := svc.CreateCriterion(ctx, dto.CreateCriterionRequest{
				CurriculumID: 1,
				Name:         "Criterion " + string(rune('A'+i)),
				Weight:       "0.10",
				MaxScore:     "10.00",
			})
			require.NoError(t, err)
		}

		_, err := svc.CreateCriterion(ctx, dto.CreateCriterionRequest{
			CurriculumID: 1,
			Name:         "One too many",
			Weight:       "0.10",
			MaxScore:     "10.00",
		})
		assert.ErrorIs(t, err, apperrors.ErrCriterionLimitReached)
	})
}

func TestCreateEvaluation(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (EvaluationService, *models.EvaluationCriterion) {
		t.Helper()
		store := newFakeEvaluationStore()
		svc := newEvaluationServiceForTest(store, newFakeCurriculumStore(1, 2))

		criterion, err := svc.CreateCriterion(ctx, dto.CreateCriterionRequest{
			CurriculumID: 1,
			Name:         "Final exam",
			Weight:       "0.50",
			MaxScore:     "10.00",
		})
		require.NoError(t, err)
		return svc, criterion
	}

	t.Run("score within range is recorded", func(t *testing.T) {
		svc, criterion := setup(t)

		evaluation, err := svc.CreateEvaluation(ctx, dto.CreateEvaluationRequest{
			CurriculumID: 1,
			CriterionID:  criterion.ID,
			Score:        "8.50",
		})
		require.NoError(t, err)
		assert.Equal(t, "8.50", evaluation.Score.StringFixed(2))
		require.NotNil(t, evaluation.Criterion)
		assert.Equal(t, criterion.ID, evaluation.Criterion.ID)
	})

	t.Run("criterion of another curriculum is rejected", func(t *testing.T) {
		svc, criterion := setup(t)

		_, err := svc.CreateEvaluation(ctx, dto.CreateEvaluationRequest{
			CurriculumID: 2,
			CriterionID:  criterion.ID,
			Score:        "5.00",
		})
		assert.ErrorIs(t, err, apperrors.ErrCriterionCurriculumMismatch)
	})

	t.Run("score above max is rejected", func(t *testing.T) {
		svc, criterion := setup(t)

		_, err := svc.CreateEvaluation(ctx, dto.CreateEvaluationRequest{
			CurriculumID: 1,
			CriterionID:  criterion.ID,
			Score:        "10.50",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("negative score is rejected", func(t *testing.T) {
		svc, criterion := setup(t)

		_, err := svc.CreateEvaluation(ctx, dto.CreateEvaluationRequest{
			CurriculumID: 1,
			CriterionID:  criterion.ID,
			Score:        "-1.00",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}
