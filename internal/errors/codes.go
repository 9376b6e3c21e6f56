package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The frontend maps these codes to its own copy.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthResetTokenInvalid  = "AUTH_RESET_TOKEN_INVALID"
	AuthResetTokenExpired  = "AUTH_RESET_TOKEN_EXPIRED"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationRequired      = "VALIDATION_REQUIRED"
	ValidationNotConfirmed  = "VALIDATION_NOT_CONFIRMED"
	ValidationInvalidSort   = "VALIDATION_INVALID_SORT"
	ValidationInvalidTarget = "VALIDATION_INVALID_TARGET"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Comments (COMMENT_) ====================
	CommentNotFound     = "COMMENT_NOT_FOUND"
	CommentEmptyBody    = "COMMENT_EMPTY_BODY"
	CommentParentGone   = "COMMENT_PARENT_GONE"
	CommentActionBusy   = "COMMENT_ACTION_BUSY"
	CommentDeleteFailed = "COMMENT_DELETE_FAILED"

	// ==================== Reactions (REACTION_) ====================
	ReactionInvalidType = "REACTION_INVALID_TYPE"

	// ==================== Flags (FLAG_) ====================
	FlagInvalidType = "FLAG_INVALID_TYPE"
	FlagNotFlagged  = "FLAG_NOT_FLAGGED"
	FlagPinnedOnly  = "FLAG_PINNED_ONLY"

	// ==================== Tracks (TRACK_) ====================
	TrackNotFound = "TRACK_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalStoreOffline  = "INTERNAL_STORE_OFFLINE"
)
