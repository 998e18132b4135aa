// Package errors defines application-level errors with HTTP mappings.
package errors

import (
	"net/http"

	"farmradar/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Position ingest errors
	ErrInvalidPosition = NewBaseError(
		http.StatusBadRequest,
		"INVALID_POSITION",
		"Position report has invalid coordinates",
		"",
	)

	ErrStalePosition = NewBaseError(
		http.StatusUnprocessableEntity,
		"STALE_POSITION",
		"Position report is older than the staleness window",
		"",
	)

	// Preference errors
	ErrMalformedPreferences = NewBaseError(
		http.StatusBadRequest,
		"MALFORMED_PREFERENCES",
		"Notification preferences are malformed",
		"",
	)

	ErrPreferencesNotFound = NewBaseError(
		http.StatusNotFound,
		"PREFERENCES_NOT_FOUND",
		"Notification preferences not found",
		"",
	)

	// Vendor errors
	ErrVendorNotFound = NewBaseError(
		http.StatusNotFound,
		"VENDOR_NOT_FOUND",
		"Vendor not found",
		"",
	)

	ErrVendorInactive = NewBaseError(
		http.StatusConflict,
		"VENDOR_INACTIVE",
		"Vendor account is inactive",
		"",
	)

	// Notification errors
	ErrNotificationNotFound = NewBaseError(
		http.StatusNotFound,
		"NOTIFICATION_NOT_FOUND",
		"Notification not found",
		"",
	)

	// User / auth errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"This email is already registered",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Incorrect email or password",
		"",
	)

	ErrTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_INVALID",
		"Invalid or expired token",
		"",
	)

	// Infrastructure errors
	ErrDatabaseExecute = NewBaseError(
		http.StatusInternalServerError,
		"DATABASE_ERROR",
		"Database operation failed",
		"",
	)

	ErrDeliveryFailure = NewBaseError(
		http.StatusServiceUnavailable,
		"DELIVERY_FAILURE",
		"Event delivery failed",
		"",
	)
)

// NewDatabaseExecuteError wraps a low-level database error with context while
// keeping the generic outward-facing message.
func NewDatabaseExecuteError(err error, context string) error {
	return errors.Wrap(ErrDatabaseExecute.WithDetails(err.Error()), context)
}
