package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkraev/lingobook/internal/domain"
	"github.com/dkraev/lingobook/internal/service/identity"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockIdentityUseCase is a mock implementation of identity.IdentityUseCase
type MockIdentityUseCase struct {
	mock.Mock
}

func (m *MockIdentityUseCase) Register(ctx context.Context, input identity.RegisterInput) (*domain.User, string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockIdentityUseCase) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockIdentityUseCase) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockIdentityUseCase) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestAuthHandler_register(t *testing.T) {
	mockService := &MockIdentityUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(registerRequest{
		Email:     "anna@example.com",
		Password:  "secret",
		FirstName: "Anna",
		LastName:  "Schmidt",
	})
	c.Request = httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	user := &domain.User{
		ID:       "user-1",
		Email:    "anna@example.com",
		Role:     domain.RoleClient,
		Verified: true,
	}
	mockService.On("Register", c.Request.Context(), mock.AnythingOfType("identity.RegisterInput")).Return(user, "token-1", nil)

	handler.register(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response sessionResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "token-1", response.Token)
	assert.Equal(t, "user-1", response.User.ID)
	assert.Equal(t, string(domain.RoleClient), response.User.Role)

	mockService.AssertExpectations(t)
}

func TestAuthHandler_register_duplicate(t *testing.T) {
	mockService := &MockIdentityUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(registerRequest{Email: "anna@example.com", Password: "secret"})
	c.Request = httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Register", c.Request.Context(), mock.AnythingOfType("identity.RegisterInput")).Return(nil, "", domain.ErrDuplicateEmail)

	handler.register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_register_invalidBody(t *testing.T) {
	handler := NewAuthHandler(&MockIdentityUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/auth/register", bytes.NewReader([]byte(`{"email":"not-an-email","password":"x"}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_login(t *testing.T) {
	mockService := &MockIdentityUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(loginRequest{Email: "anna@example.com", Password: "secret"})
	c.Request = httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	user := &domain.User{ID: "user-1", Email: "anna@example.com", Role: domain.RoleClient, Verified: true}
	mockService.On("Login", c.Request.Context(), "anna@example.com", "secret").Return(user, "token-1", nil)

	handler.login(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response sessionResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "token-1", response.Token)

	mockService.AssertExpectations(t)
}

func TestAuthHandler_login_invalidCredentials(t *testing.T) {
	mockService := &MockIdentityUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(loginRequest{Email: "anna@example.com", Password: "wrong"})
	c.Request = httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Login", c.Request.Context(), "anna@example.com", "wrong").Return(nil, "", domain.ErrInvalidCredentials)

	handler.login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_me(t *testing.T) {
	mockService := &MockIdentityUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/auth/me", nil)
	c.Request.Header.Set("Authorization", "Bearer token-1")

	user := &domain.User{ID: "user-1", Email: "anna@example.com"}
	mockService.On("CurrentUser", c.Request.Context(), "token-1").Return(user, nil)

	handler.me(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response userResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", response.ID)
}

func TestAuthHandler_me_missingToken(t *testing.T) {
	handler := NewAuthHandler(&MockIdentityUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/auth/me", nil)

	handler.me(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_logout(t *testing.T) {
	mockService := &MockIdentityUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/auth/logout", nil)
	c.Request.Header.Set("Authorization", "Bearer token-1")

	mockService.On("Logout", c.Request.Context(), "token-1").Return(nil)

	handler.logout(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}
