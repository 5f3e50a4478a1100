package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "achievo/internal/errors"
	"achievo/internal/models"
	"achievo/internal/services"
)

type mockUserService struct {
	services.UserServicer

	user          *models.User
	authErr       error
	storedRefresh string
}

func (m *mockUserService) Register(_ context.Context, username, email, _ string) (*models.User, error) {
	return &models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Email:     email,
		CreatedAt: time.Now(),
	}, nil
}

func (m *mockUserService) Authenticate(_ context.Context, _, _ string) (*models.User, error) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	return m.user, nil
}

func (m *mockUserService) SetRefreshTokenHash(_ context.Context, _ primitive.ObjectID, hash string) error {
	m.storedRefresh = hash
	return nil
}

func newAuthRouter(mock *mockUserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(mock, nil)

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/google/login", h.GoogleLogin)
	return r
}

func TestAuthHandlerRegister(t *testing.T) {
	mock := &mockUserService{}
	router := newAuthRouter(mock)

	t.Run("issues a token pair", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/auth/register", gin.H{
			"username": "newuser",
			"email":    "new@example.com",
			"password": "password123",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Data struct {
				AccessToken  string `json:"access_token"`
				RefreshToken string `json:"refresh_token"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body: %v", err)
		}
		if resp.Data.AccessToken == "" || resp.Data.RefreshToken == "" {
			t.Fatalf("expected both tokens: %s", w.Body.String())
		}
		if mock.storedRefresh == "" {
			t.Fatal("expected the refresh hash to be stored")
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/auth/register", gin.H{
			"username": "newuser",
			"email":    "new@example.com",
			"password": "short",
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("non-alphanumeric username rejected", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/auth/register", gin.H{
			"username": "bad name!",
			"email":    "new@example.com",
			"password": "password123",
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Run("locked account surfaces 423", func(t *testing.T) {
		mock := &mockUserService{authErr: apperrors.ErrAccountLocked}
		router := newAuthRouter(mock)

		w := doJSON(router, http.MethodPost, "/auth/login", gin.H{
			"username": "alice",
			"password": "password123",
		})
		if w.Code != http.StatusLocked {
			t.Fatalf("expected 423, got %d", w.Code)
		}
	})

	t.Run("bad credentials surface 401", func(t *testing.T) {
		mock := &mockUserService{authErr: apperrors.ErrInvalidCredentials}
		router := newAuthRouter(mock)

		w := doJSON(router, http.MethodPost, "/auth/login", gin.H{
			"username": "alice",
			"password": "wrong",
		})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}

func TestGoogleLoginDisabled(t *testing.T) {
	// Without a configured provider the endpoint reports the feature as
	// unavailable instead of redirecting.
	mock := &mockUserService{}
	router := newAuthRouter(mock)

	w := doJSON(router, http.MethodGet, "/auth/google/login", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
