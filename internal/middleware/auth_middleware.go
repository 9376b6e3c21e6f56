package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/internal/errors"
	"github.com/sofaspartan/sofaspartan-backend/internal/feed"
	"github.com/sofaspartan/sofaspartan-backend/pkg/redis"
	"github.com/sofaspartan/sofaspartan-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserNameKey  = "user_name"
	UserRoleKey  = "user_role"
	TokenKey     = "auth_token"
)

type AuthMiddleware struct {
	jwtSecret  string
	checkRedis bool
}

// NewAuthMiddleware builds the JWT middleware. checkRedis enables the
// revocation lookup; tests run with it off.
func NewAuthMiddleware(jwtSecret string, checkRedis bool) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:  jwtSecret,
		checkRedis: checkRedis,
	}
}

// Authenticate validates JWT token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Malformed authorization header")
			c.Abort()
			return
		}
		token := parts[1]

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Your session has expired")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		if m.checkRedis {
			revoked, err := redis.IsTokenRevoked(c.Request.Context(), token)
			if err != nil {
				// A dead Redis shouldn't lock everyone out; log and
				// accept the signature check alone.
				log.Warn("Token revocation check failed", map[string]interface{}{
					"error": err.Error(),
				})
			} else if revoked {
				log.Warn("Revoked token presented", map[string]interface{}{
					"user_id": claims.UserID,
					"path":    c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "This session has been signed out")
				c.Abort()
				return
			}
		}

		setUserContext(c, claims, token)

		log.Debug("User authenticated", map[string]interface{}{
			"user_id": claims.UserID,
			"role":    claims.Role,
		})

		c.Next()
	}
}

// OptionalAuthenticate validates JWT token if present (optional)
// - If token is present and valid: sets user info in context
// - If token is missing or invalid: continues without user info
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Debug("Invalid authorization header format - continuing as guest", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			c.Next()
			return
		}

		token := parts[1]
		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Debug("Token validation failed - continuing as guest", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		if m.checkRedis {
			if revoked, err := redis.IsTokenRevoked(c.Request.Context(), token); err == nil && revoked {
				log.Debug("Revoked token - continuing as guest", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				c.Next()
				return
			}
		}

		setUserContext(c, claims, token)

		log.Debug("User authenticated (optional)", map[string]interface{}{
			"user_id": claims.UserID,
			"role":    claims.Role,
		})

		c.Next()
	}
}

// RequireRole checks if user has required role
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		userRole, exists := c.Get(UserRoleKey)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Forbidden(c, "")
			c.Abort()
			return
		}

		role := userRole.(model.UserRole)
		userID, _ := GetUserID(c)

		for _, r := range roles {
			if role == model.UserRole(r) {
				c.Next()
				return
			}
		}

		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		errors.RespondWithError(c, http.StatusForbidden, errors.AuthzAdminOnly, "Only the artist can do that")
		c.Abort()
	}
}

func setUserContext(c *gin.Context, claims *util.Claims, token string) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(UserEmailKey, claims.Email)
	c.Set(UserRoleKey, model.UserRole(claims.Role))
	c.Set(TokenKey, token)
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	return role.(model.UserRole), true
}

// GetToken extracts the raw bearer token from context
func GetToken(c *gin.Context) (string, bool) {
	token, exists := c.Get(TokenKey)
	if !exists {
		return "", false
	}
	return token.(string), true
}

// GetPrincipal builds the feed principal for the authenticated user,
// or nil for guests.
func GetPrincipal(c *gin.Context) *feed.Principal {
	userID, ok := GetUserID(c)
	if !ok {
		return nil
	}
	role, _ := GetUserRole(c)
	name := c.GetString(UserNameKey)
	return &feed.Principal{
		ID:          userID,
		DisplayName: name,
		Role:        role,
	}
}
