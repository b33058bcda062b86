package routes

import (
	"errors"
	"net/http"

	"door-command-control/internal/auth"
	"door-command-control/internal/engine"
)

// ErrorInfo contains error metadata for user-facing errors
type ErrorInfo struct {
	Message   string   // User-friendly message
	StopCodes []string // Optional stop codes for client-side handling
}

// Routes-specific errors (that don't conflict with other packages)
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrMissingParameter = errors.New("missing required parameter")
	ErrInternalServer   = errors.New("internal server error")
)

// errorStatusMap maps sentinel errors to HTTP status codes. The engine's
// typed errors are handled separately in GetErrorStatus.
var errorStatusMap = map[error]int{
	// 400 Bad Request
	ErrInvalidRequest:   http.StatusBadRequest,
	ErrMissingParameter: http.StatusBadRequest,

	// 401 Unauthorized
	ErrUnauthorized:            http.StatusUnauthorized,
	auth.ErrNonValidToken:      http.StatusUnauthorized,
	auth.ErrInvalidCredentials: http.StatusUnauthorized,

	// 403 Forbidden
	ErrForbidden: http.StatusForbidden,

	// 409 Conflict
	auth.ErrEmailTaken:     http.StatusConflict,
	engine.ErrDeviceExists: http.StatusConflict,

	// 500 Internal Server Error
	ErrInternalServer: http.StatusInternalServerError,
}

// errorInfoMap maps sentinel errors to user-friendly messages and stop codes
var errorInfoMap = map[error]ErrorInfo{
	ErrUnauthorized: {
		Message:   "Authentication required",
		StopCodes: []string{"AUTH_REQUIRED"},
	},
	auth.ErrNonValidToken: {
		Message:   "Invalid or expired authentication token",
		StopCodes: []string{"AUTH_INVALID_TOKEN"},
	},
	auth.ErrInvalidCredentials: {
		Message:   "Invalid credentials provided",
		StopCodes: []string{"AUTH_INVALID_CREDENTIALS"},
	},
	ErrForbidden: {
		Message:   "Access denied",
		StopCodes: []string{"FORBIDDEN"},
	},
	auth.ErrEmailTaken: {
		Message:   "Email is already registered",
		StopCodes: []string{"EMAIL_TAKEN"},
	},
	engine.ErrDeviceExists: {
		Message:   "Device already exists",
		StopCodes: []string{"DEVICE_EXISTS"},
	},
	ErrInvalidRequest: {
		Message:   "Invalid request format",
		StopCodes: []string{"INVALID_REQUEST"},
	},
	ErrMissingParameter: {
		Message:   "Required parameter is missing",
		StopCodes: []string{"MISSING_PARAMETER"},
	},
	ErrInternalServer: {
		Message: "An internal error occurred",
	},
}

// GetErrorStatus returns the HTTP status code for an error
func GetErrorStatus(err error) int {
	// Engine taxonomy first: these carry the interesting statuses.
	var validationErr *engine.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}
	var conflictErr *engine.ConflictError
	if errors.As(err, &conflictErr) {
		return http.StatusConflict
	}
	var notFoundErr *engine.NotFoundError
	if errors.As(err, &notFoundErr) {
		return http.StatusNotFound
	}
	var authzErr *engine.AuthorizationError
	if errors.As(err, &authzErr) {
		return http.StatusForbidden
	}

	// Check direct match
	if status, ok := errorStatusMap[err]; ok {
		return status
	}

	// Check if error wraps a known error
	for knownErr, status := range errorStatusMap {
		if errors.Is(err, knownErr) {
			return status
		}
	}

	// Default to 500 Internal Server Error
	return http.StatusInternalServerError
}

// GetErrorInfo returns error information including message and stop codes
func GetErrorInfo(err error) ErrorInfo {
	var validationErr *engine.ValidationError
	if errors.As(err, &validationErr) {
		return ErrorInfo{Message: validationErr.Error(), StopCodes: []string{"VALIDATION_ERROR"}}
	}
	var conflictErr *engine.ConflictError
	if errors.As(err, &conflictErr) {
		return ErrorInfo{Message: conflictErr.Error(), StopCodes: []string{"SCHEDULE_CONFLICT"}}
	}
	var notFoundErr *engine.NotFoundError
	if errors.As(err, &notFoundErr) {
		return ErrorInfo{Message: notFoundErr.Error(), StopCodes: []string{"NOT_FOUND"}}
	}
	var authzErr *engine.AuthorizationError
	if errors.As(err, &authzErr) {
		// No detail leaked beyond "unauthorized".
		return ErrorInfo{Message: "Access denied", StopCodes: []string{"FORBIDDEN"}}
	}

	// Check direct match
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	// Check if error wraps a known error
	for knownErr, info := range errorInfoMap {
		if errors.Is(err, knownErr) {
			return info
		}
	}

	// For unknown errors, return a generic message for 5xx, specific for others
	status := GetErrorStatus(err)
	if status >= 500 {
		return ErrorInfo{Message: "An internal error occurred"}
	}
	return ErrorInfo{Message: err.Error()}
}
