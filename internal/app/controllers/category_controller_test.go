package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/pkg/apperrors"
)

// stubCategoryService implements services.CategoryService with an
// in-memory map, enough to exercise the HTTP layer.
type stubCategoryService struct {
	categories map[int64]*models.Category
	nextID     int64
}

func newStubCategoryService(categories ...*models.Category) *stubCategoryService {
	s := &stubCategoryService{categories: make(map[int64]*models.Category), nextID: 1}
	for _, c := range categories {
		if c.ID == 0 {
			c.ID = s.nextID
		}
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
		s.categories[c.ID] = c
	}
	return s
}

func (s *stubCategoryService) CreateCategory(_ context.Context, req dto.CreateCategoryRequest) (*models.Category, error) {
	for _, c := range s.categories {
		if c.Name == req.Name {
			return nil, apperrors.ErrCategoryAlreadyExists
		}
	}
	category := &models.Category{ID: s.nextID, Name: req.Name, Active: true}
	s.nextID++
	s.categories[category.ID] = category
	return category, nil
}

func (s *stubCategoryService) GetCategory(_ context.Context, id int64) (*models.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}
	return c, nil
}

func (s *stubCategoryService) ListCategories(_ context.Context, _, _ int) ([]*models.Category, int64, error) {
	var out []*models.Category
	for _, c := range s.categories {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (s *stubCategoryService) UpdateCategory(_ context.Context, id int64, req dto.CreateCategoryRequest) (*models.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}
	c.Name = req.Name
	return c, nil
}

func (s *stubCategoryService) DeleteCategory(_ context.Context, id int64) error {
	if _, ok := s.categories[id]; !ok {
		return apperrors.ErrCategoryNotFound
	}
	delete(s.categories, id)
	return nil
}

func newCategoryTestRouter(svc *stubCategoryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewCategoryController(svc)

	router := gin.New()
	router.GET("/categories", controller.ListCategories)
	router.GET("/categories/:id", controller.GetCategory)
	router.POST("/categories", controller.CreateCategory)
	router.PUT("/categories/:id", controller.UpdateCategory)
	router.DELETE("/categories/:id", controller.DeleteCategory)
	return router
}

func TestCategoryControllerCreate(t *testing.T) {
	t.Run("valid request returns 201 with the category", func(t *testing.T) {
		router := newCategoryTestRouter(newStubCategoryService())

		req := httptest.NewRequest(http.MethodPost, "/categories",
			strings.NewReader(`{"name":"Information Technology"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Data models.Category `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Information Technology", resp.Data.Name)
		assert.NotZero(t, resp.Data.ID)
	})

	t.Run("missing name returns 400", func(t *testing.T) {
		router := newCategoryTestRouter(newStubCategoryService())

		req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate name returns 409", func(t *testing.T) {
		router := newCategoryTestRouter(newStubCategoryService(
			&models.Category{Name: "Mathematics", Active: true}))

		req := httptest.NewRequest(http.MethodPost, "/categories",
			strings.NewReader(`{"name":"Mathematics"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestCategoryControllerGet(t *testing.T) {
	router := newCategoryTestRouter(newStubCategoryService(
		&models.Category{Name: "Mathematics", Active: true}))

	t.Run("existing category returns 200", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/categories/1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data models.Category `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Mathematics", resp.Data.Name)
	})

	t.Run("unknown category returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/categories/99", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/categories/abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCategoryControllerList(t *testing.T) {
	router := newCategoryTestRouter(newStubCategoryService(
		&models.Category{Name: "Mathematics", Active: true},
		&models.Category{Name: "Foreign Languages", Active: true}))

	req := httptest.NewRequest(http.MethodGet, "/categories?page=1&size=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Items      []models.Category  `json:"items"`
			Pagination dto.PaginationInfo `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Items, 2)
	assert.Equal(t, int64(2), resp.Data.Pagination.TotalItems)
	assert.Equal(t, 1, resp.Data.Pagination.CurrentPage)
}

func TestCategoryControllerDelete(t *testing.T) {
	router := newCategoryTestRouter(newStubCategoryService(
		&models.Category{Name: "Mathematics", Active: true}))

	req := httptest.NewRequest(http.MethodDelete, "/categories/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/categories/1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
