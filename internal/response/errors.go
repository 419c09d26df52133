package response

import (
	"net/http"

	"github.com/polas15-707-eng/teachassist-app/internal/apperr"
)

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"
	ErrAdminAccessOnly   ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrTransient ErrCode = "SERVICE_UNAVAILABLE"
	ErrInternal  ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."
	case ErrForbidden:
		return "You do not have permission to perform this action."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrTeacherAccessOnly:
		return "This resource is restricted to teachers."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "The request conflicts with the current state. Refresh and try again."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrTransient:
		return "The service is temporarily unavailable. Please retry."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}

// MapError translates an application error into an HTTP status and ErrCode.
func MapError(err error) (int, ErrCode) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest, ErrValidation
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized, ErrInvalidCredentials
	case apperr.KindForbidden:
		return http.StatusForbidden, ErrForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound, ErrNotFound
	case apperr.KindConflict:
		return http.StatusConflict, ErrConflict
	case apperr.KindTransient:
		return http.StatusServiceUnavailable, ErrTransient
	default:
		return http.StatusInternalServerError, ErrInternal
	}
}
