package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/societyos/society-backend/internal/auth"
	"github.com/societyos/society-backend/internal/user"
)

// stubUserService returns canned results for the auth endpoints.
type stubUserService struct {
	registerUser *user.User
	registerErr  error
	loginUser    *user.User
	loginErr     error
}

func (s *stubUserService) Register(ctx context.Context, req user.RegisterRequest) (*user.User, error) {
	return s.registerUser, s.registerErr
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (*user.User, error) {
	return s.loginUser, s.loginErr
}

func (s *stubUserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (s *stubUserService) List(ctx context.Context, filter user.Filter) ([]*user.User, int, error) {
	return nil, 0, nil
}

func (s *stubUserService) UpdateProfile(ctx context.Context, id string, req user.UpdateProfileRequest) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (s *stubUserService) AdminUpdate(ctx context.Context, id string, req user.AdminUpdateRequest) (*user.User, error) {
	return nil, user.ErrNotFound
}

func authRequest(t *testing.T, svc user.Service, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	h := NewAuthHandler(svc, jwtManager)

	router := gin.New()
	router.POST("/auth/register", h.Register)
	router.POST("/auth/login", h.Login)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterErrorMapping(t *testing.T) {
	const body = `{"email":"alice@example.com","password":"supersecret"}`

	t.Run("Duplicate Email", func(t *testing.T) {
		svc := &stubUserService{registerErr: user.ErrEmailAlreadyUsed}
		rec := authRequest(t, svc, "/auth/register", body)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		svc := &stubUserService{registerErr: user.ErrPasswordTooShort}
		rec := authRequest(t, svc, "/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Repository Failure Is Generic 500", func(t *testing.T) {
		svc := &stubUserService{registerErr: errors.New("failed to create user: connection refused")}
		rec := authRequest(t, svc, "/auth/register", body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
		assert.Contains(t, rec.Body.String(), "internal server error")
	})
}

func TestLoginErrorMapping(t *testing.T) {
	const body = `{"email":"alice@example.com","password":"supersecret"}`

	t.Run("Bad Credentials", func(t *testing.T) {
		svc := &stubUserService{loginErr: user.ErrInvalidCredentials}
		rec := authRequest(t, svc, "/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Inactive Account", func(t *testing.T) {
		svc := &stubUserService{loginErr: user.ErrInactiveUser}
		rec := authRequest(t, svc, "/auth/login", body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Repository Failure Is Generic 500", func(t *testing.T) {
		svc := &stubUserService{loginErr: errors.New("failed to fetch user by email: connection refused")}
		rec := authRequest(t, svc, "/auth/login", body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("Success Issues Token", func(t *testing.T) {
		svc := &stubUserService{loginUser: &user.User{
			ID:       "u1",
			Email:    "alice@example.com",
			Role:     user.RoleResident,
			IsActive: true,
		}}
		rec := authRequest(t, svc, "/auth/login", body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "access_token")
	})
}
