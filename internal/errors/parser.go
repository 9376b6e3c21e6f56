package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a message safe to show users.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps database and infrastructure errors to user-facing
// codes without leaking internals. The context string hints at what
// was being done ("comment", "user", "reaction", ...).
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// Unique constraint violation (Postgres 23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower)
	}

	// Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// Connectivity
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalStoreOffline,
			Message: "The service is temporarily unreachable. Please try again shortly",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Something went wrong. Please try again shortly",
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "That email is already registered",
		}
	}
	if strings.Contains(errLower, "idx_reaction_user_comment") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "You already reacted to this comment",
		}
	}
	if strings.Contains(errLower, "idx_flag_user_comment") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "You already flagged this comment",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "That already exists",
	}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "parent_id") {
		return ErrorInfo{
			Code:    CommentParentGone,
			Message: "The comment you replied to no longer exists",
		}
	}
	if strings.Contains(errLower, "comment_id") {
		return ErrorInfo{
			Code:    CommentNotFound,
			Message: "That comment no longer exists",
		}
	}
	if strings.Contains(errLower, "user_id") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "That user no longer exists",
		}
	}
	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record could not be found",
	}
}

// ParseAndRespond parses the error and writes the standard body.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "comment"):
		return "Comment not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	case strings.Contains(contextLower, "track"):
		return "Track not found"
	case strings.Contains(contextLower, "reaction"):
		return "Reaction not found"
	case strings.Contains(contextLower, "flag"):
		return "Flag not found"
	}
	return "The requested record could not be found"
}
