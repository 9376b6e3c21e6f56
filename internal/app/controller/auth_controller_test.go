package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/repository"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/service"
	"github.com/sofaspartan/sofaspartan-backend/internal/db"
	"github.com/sofaspartan/sofaspartan-backend/internal/feed"
	"github.com/sofaspartan/sofaspartan-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthControllerTest(t *testing.T) (*gin.Engine, service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	moderationRepo := repository.NewModerationRepository(testDB)
	passwordResetRepo := repository.NewPasswordResetRepository(testDB)
	store := repository.NewFeedStore(testDB)
	coordinator := feed.NewCoordinator(store)

	authService := service.NewAuthService(
		userRepo,
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
	accountService := service.NewAccountService(userRepo, moderationRepo, store, coordinator)
	passwordResetService := service.NewPasswordResetService(passwordResetRepo, userRepo)

	ctrl := NewAuthController(authService, accountService, passwordResetService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret", false)

	router := gin.New()
	router.POST("/register", ctrl.Register)
	router.POST("/login", ctrl.Login)
	router.GET("/me", authMiddleware.Authenticate(), ctrl.GetMe)
	router.PUT("/me", authMiddleware.Authenticate(), ctrl.UpdateMe)
	router.DELETE("/me", authMiddleware.Authenticate(), ctrl.DeleteMe)
	router.POST("/forgot-password", ctrl.ForgotPassword)

	return router, authService
}

func postJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthController_Register_Success(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := postJSON(t, router, "POST", "/register", model.RegisterRequest{
		Email:       "listener@example.com",
		Password:    "password123",
		DisplayName: "listener",
	}, "")

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "User registered successfully", response["message"])
	assert.NotNil(t, response["user"])
	assert.NotNil(t, response["tokens"])
}

func TestAuthController_Register_InvalidEmail(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := postJSON(t, router, "POST", "/register", model.RegisterRequest{
		Email:       "not-an-email",
		Password:    "password123",
		DisplayName: "listener",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, _, err := authService.Register("listener@example.com", "password123", "listener")
	require.NoError(t, err)

	w := postJSON(t, router, "POST", "/register", model.RegisterRequest{
		Email:       "listener@example.com",
		Password:    "password456",
		DisplayName: "impostor",
	}, "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_EMAIL_EXISTS")
}

func TestAuthController_Login(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, _, err := authService.Register("listener@example.com", "password123", "listener")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		w := postJSON(t, router, "POST", "/login", model.LoginRequest{
			Email:    "listener@example.com",
			Password: "password123",
		}, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Login successful")
	})

	t.Run("Wrong password", func(t *testing.T) {
		w := postJSON(t, router, "POST", "/login", model.LoginRequest{
			Email:    "listener@example.com",
			Password: "wrongpassword",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_INVALID_CREDENTIALS")
	})
}

func TestAuthController_GetMe(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, tokens, err := authService.Register("listener@example.com", "password123", "listener")
	require.NoError(t, err)

	w := postJSON(t, router, "GET", "/me", nil, tokens.AccessToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "listener@example.com")

	// Without a token the endpoint refuses.
	w = postJSON(t, router, "GET", "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_UpdateMe(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, tokens, err := authService.Register("listener@example.com", "password123", "listener")
	require.NoError(t, err)

	newName := "superfan"
	w := postJSON(t, router, "PUT", "/me", model.UpdateProfileRequest{
		DisplayName: &newName,
	}, tokens.AccessToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "superfan")
}

func TestAuthController_DeleteMe(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	user, tokens, err := authService.Register("listener@example.com", "password123", "listener")
	require.NoError(t, err)

	// Wrong confirmation phrase is rejected.
	w := postJSON(t, router, "DELETE", "/me", model.DeleteAccountRequest{
		Confirm: "delete",
	}, tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_NOT_CONFIRMED")

	w = postJSON(t, router, "DELETE", "/me", model.DeleteAccountRequest{
		Confirm: "DELETE",
	}, tokens.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)

	_, err = authService.GetUserByID(user.ID)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestAuthController_ForgotPassword_AlwaysSucceeds(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	// The response does not reveal whether the email is registered.
	w := postJSON(t, router, "POST", "/forgot-password", ForgotPasswordRequest{
		Email: "nobody@example.com",
	}, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "If the email exists")
}
