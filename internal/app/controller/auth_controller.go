package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/service"
	apperrors "github.com/sofaspartan/sofaspartan-backend/internal/errors"
	"github.com/sofaspartan/sofaspartan-backend/internal/middleware"
)

type AuthController struct {
	authService          service.AuthService
	accountService       service.AccountService
	passwordResetService service.PasswordResetService
}

func NewAuthController(
	authService service.AuthService,
	accountService service.AccountService,
	passwordResetService service.PasswordResetService,
) *AuthController {
	return &AuthController{
		authService:          authService,
		accountService:       accountService,
		passwordResetService: passwordResetService,
	}
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func userPayload(user *model.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"avatar_url":   user.AvatarURL,
		"role":         user.Role,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the fields and try again")
		return
	}

	log.Debug("Processing registration", map[string]interface{}{
		"email":        req.Email,
		"display_name": req.DisplayName,
	})

	user, tokens, err := ctrl.authService.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			log.Warn("Registration failed: email already exists", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "That email is already registered")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register user")
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    userPayload(user),
		"tokens":  tokens,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the fields and try again")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login failed: invalid credentials", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Incorrect email or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login")
		return
	}

	log.Info("Login successful", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    userPayload(user),
		"tokens":  tokens,
	})
}

// Logout revokes the presented access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, exists := middleware.GetToken(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token); err != nil {
		log.Error("Failed to revoke token during logout", err, nil)
		// Logout should always succeed from the user's perspective.
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetMe returns current user information
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			log.Warn("User not found", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Account not found")
			return
		}
		log.Error("Failed to get user information", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": userPayload(user),
	})
}

// UpdateMe updates current user's profile
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update profile request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the fields and try again")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.DisplayName, req.AvatarURL)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Account not found")
			return
		}
		log.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update profile")
		return
	}

	log.Info("User profile updated successfully", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    userPayload(user),
	})
}

// DeleteMe deletes the current user's account and all their content
// DELETE /api/v1/auth/me
func (ctrl *AuthController) DeleteMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req model.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid delete account request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the fields and try again")
		return
	}

	if err := ctrl.accountService.DeleteAccount(c.Request.Context(), userID, req.Confirm); err != nil {
		if errors.Is(err, service.ErrDeletionNotConfirmed) {
			log.Warn("Account deletion not confirmed", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.BadRequest(c, apperrors.ValidationNotConfirmed, "Type DELETE to confirm account deletion")
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Account not found")
			return
		}
		log.Error("Failed to delete account", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete account")
		return
	}

	// Revoke the session that just deleted itself.
	if token, ok := middleware.GetToken(c); ok {
		if err := ctrl.authService.Logout(c.Request.Context(), token); err != nil {
			log.Warn("Failed to revoke token after account deletion", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	log.Info("Account deleted", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Account deleted",
	})
}

// ForgotPassword handles password reset requests
// POST /api/v1/auth/forgot-password
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid forgot password request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the fields and try again")
		return
	}

	if err := ctrl.passwordResetService.RequestReset(req.Email); err != nil {
		log.Error("Failed to process password reset request", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.InternalError(c, "Could not process the password reset request")
		return
	}

	// Always return success to prevent user enumeration
	log.Info("Password reset request processed", map[string]interface{}{
		"email": req.Email,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "If the email exists, a password reset link has been sent",
	})
}

// ResetPassword handles password reset with token
// POST /api/v1/auth/reset-password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid reset password request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the fields and try again")
		return
	}

	if err := ctrl.passwordResetService.ResetPassword(req.Token, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) ||
			errors.Is(err, service.ErrResetTokenExpired) ||
			errors.Is(err, service.ErrResetTokenUsed) {
			log.Warn("Password reset failed: invalid or expired token", map[string]interface{}{
				"error": err.Error(),
			})
			apperrors.BadRequest(c, apperrors.AuthResetTokenInvalid, "Invalid or expired reset token")
			return
		}
		log.Error("Failed to reset password", err, nil)
		apperrors.InternalError(c, "Could not reset the password")
		return
	}

	log.Info("Password reset successful")

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset successful",
	})
}
