package service

import (
	"context"
	"errors"
	"time"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/repository"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
	"github.com/sofaspartan/sofaspartan-backend/pkg/redis"
	"github.com/sofaspartan/sofaspartan-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService interface {
	Register(email, password, displayName string) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, displayName, avatarURL *string) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Register(email, password, displayName string) (*model.User, *util.TokenPair, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email":        email,
		"display_name": displayName,
	})

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
		Role:         model.RoleRegular,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return user, tokens, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		// Expired or malformed tokens need no revocation.
		logger.Debug("Logout with invalid token, nothing to revoke", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	if err := redis.RevokeToken(ctx, token, remaining); err != nil {
		logger.Error("Failed to revoke token on logout", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, displayName, avatarURL *string) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user for profile update", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	updated := false
	if displayName != nil && *displayName != user.DisplayName {
		user.DisplayName = *displayName
		updated = true
	}
	if avatarURL != nil && *avatarURL != user.AvatarURL {
		user.AvatarURL = *avatarURL
		updated = true
	}

	if !updated {
		logger.Debug("No changes detected for user profile", map[string]interface{}{
			"user_id": userID,
		})
		return user, nil
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id":      user.ID,
		"display_name": user.DisplayName,
	})

	return user, nil
}
