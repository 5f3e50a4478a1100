package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "achievo/internal/errors"
	"achievo/internal/middleware"
	"achievo/internal/models"
	"achievo/internal/pagination"
	"achievo/internal/repository"
	"achievo/internal/services"
	"achievo/internal/validator"
)

// mockGoalService records calls and returns canned results.
type mockGoalService struct {
	services.GoalServicer

	createdInput services.GoalInput
	bulkAction   string
	bulkIDs      []primitive.ObjectID
	getErr       error
	goal         *models.Goal
}

func (m *mockGoalService) Create(_ context.Context, userID primitive.ObjectID, input services.GoalInput) (*models.Goal, error) {
	m.createdInput = input
	return &models.Goal{
		ID:       primitive.NewObjectID(),
		Text:     input.Text,
		UserID:   userID,
		Priority: input.Priority,
		Category: input.Category,
		DueDate:  input.DueDate,
	}, nil
}

func (m *mockGoalService) Get(_ context.Context, _, _ primitive.ObjectID) (*models.Goal, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.goal, nil
}

func (m *mockGoalService) List(_ context.Context, _ primitive.ObjectID, _ repository.GoalFilter, page pagination.PageRequest) (pagination.PageResponse[models.Goal], error) {
	page.Defaults()
	return pagination.NewPageResponse([]models.Goal{}, page.Page, page.PageSize, 0), nil
}

func (m *mockGoalService) BulkAction(_ context.Context, _ primitive.ObjectID, action string, ids []primitive.ObjectID) (int, error) {
	m.bulkAction = action
	m.bulkIDs = ids
	return len(ids), nil
}

func newGoalRouter(mock *mockGoalService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.Register()

	h := NewGoalHandler(mock)
	userID := primitive.NewObjectID()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	})
	r.GET("/goals", h.List)
	r.POST("/goals", h.Create)
	r.POST("/goals/bulk", h.Bulk)
	r.GET("/goals/:id", h.Get)
	return r
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGoalHandlerCreate(t *testing.T) {
	mock := &mockGoalService{}
	router := newGoalRouter(mock)

	t.Run("valid request", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/goals", gin.H{
			"text":     "learn to juggle",
			"priority": "high",
			"due_date": "2026-09-15",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if mock.createdInput.Priority != models.PriorityHigh {
			t.Fatalf("expected high priority, got %q", mock.createdInput.Priority)
		}
		if mock.createdInput.DueDate == nil || !mock.createdInput.DueDate.Equal(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("due date not parsed: %v", mock.createdInput.DueDate)
		}
	})

	t.Run("missing text", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/goals", gin.H{"priority": "low"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("bad priority", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/goals", gin.H{"text": "x", "priority": "urgent"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("bad due date", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/goals", gin.H{"text": "x", "due_date": "15/09/2026"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestGoalHandlerGet(t *testing.T) {
	t.Run("not found maps to 404 envelope", func(t *testing.T) {
		mock := &mockGoalService{getErr: apperrors.ErrGoalNotFound}
		router := newGoalRouter(mock)

		w := doJSON(router, http.MethodGet, "/goals/"+primitive.NewObjectID().Hex(), nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}

		var resp struct {
			Success bool `json:"success"`
			Error   struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body: %v", err)
		}
		if resp.Success || resp.Error.Code != apperrors.ErrGoalNotFound.Code {
			t.Fatalf("unexpected envelope: %s", w.Body.String())
		}
	})

	t.Run("invalid id in path", func(t *testing.T) {
		mock := &mockGoalService{}
		router := newGoalRouter(mock)

		w := doJSON(router, http.MethodGet, "/goals/not-an-id", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestGoalHandlerBulk(t *testing.T) {
	mock := &mockGoalService{}
	router := newGoalRouter(mock)

	t.Run("invalid ids are dropped before the service sees them", func(t *testing.T) {
		valid := primitive.NewObjectID()
		w := doJSON(router, http.MethodPost, "/goals/bulk", gin.H{
			"action":   "complete",
			"goal_ids": []string{valid.Hex(), "garbage"},
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if len(mock.bulkIDs) != 1 || mock.bulkIDs[0] != valid {
			t.Fatalf("expected only the valid id, got %v", mock.bulkIDs)
		}
	})

	t.Run("unknown action rejected by binding", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/goals/bulk", gin.H{
			"action":   "archive",
			"goal_ids": []string{primitive.NewObjectID().Hex()},
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestGoalHandlerList(t *testing.T) {
	mock := &mockGoalService{}
	router := newGoalRouter(mock)

	t.Run("bad status filter", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/goals?status=finished", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("empty list still returns a page", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/goals", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}
