package errors

import (
	"net/http"

	"market/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() []string // Detailed error messages (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   []string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message string, details ...string) *BaseError {
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

// Details returns the detailed error messages
func (e *BaseError) Details() []string {
	return e.details
}

// WithDetails returns a copy of the error carrying the given detail messages.
// Used for validation failures where every violated rule is reported together.
func (e *BaseError) WithDetails(details ...string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Validation errors. Details carry every violated rule, not just the first.
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
	)

	ErrWeakPassword = NewBaseError(
		http.StatusBadRequest,
		"WEAK_PASSWORD",
		"password does not meet the strength requirements",
	)

	ErrMissingEmail = NewBaseError(
		http.StatusBadRequest,
		"MISSING_EMAIL",
		"email is required",
	)

	ErrMissingToken = NewBaseError(
		http.StatusBadRequest,
		"MISSING_TOKEN",
		"token is required",
	)

	ErrMissingPassword = NewBaseError(
		http.StatusBadRequest,
		"MISSING_PASSWORD",
		"password is required",
	)

	// Conflict errors. Uniqueness is pre-checked so the caller gets a
	// field-specific message instead of a generic constraint failure.
	ErrEmailExists = NewBaseError(
		http.StatusConflict,
		"EMAIL_EXISTS",
		"an account with this email already exists",
	)

	ErrUsernameExists = NewBaseError(
		http.StatusConflict,
		"USERNAME_EXISTS",
		"this username is already taken",
	)

	// Authentication errors. The credentials message is identical for an
	// unknown email and a wrong password to resist account enumeration.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"invalid email or password",
	)

	ErrEmailNotVerified = NewBaseError(
		http.StatusUnauthorized,
		"EMAIL_NOT_VERIFIED",
		"please verify your email address before logging in",
	)

	// Token errors. The message does not distinguish "not found" from
	// "expired"; internal logs retain the precise cause.
	ErrInvalidOrExpiredToken = NewBaseError(
		http.StatusBadRequest,
		"INVALID_OR_EXPIRED_TOKEN",
		"this link is invalid or has expired",
	)

	ErrAlreadyVerified = NewBaseError(
		http.StatusBadRequest,
		"ALREADY_VERIFIED",
		"this account is already verified",
	)

	// ErrAccountNotFound marks the "no such account" outcome of the resend and
	// reset-request flows. The delivery layer never surfaces it: it maps the
	// error to the same generic success as the real case to prevent account
	// enumeration.
	ErrAccountNotFound = NewBaseError(
		http.StatusNotFound,
		"ACCOUNT_NOT_FOUND",
		"no account found with this email",
	)

	// Operator faults.
	ErrConfiguration = NewBaseError(
		http.StatusInternalServerError,
		"CONFIGURATION_ERROR",
		"service is misconfigured",
	)

	// General errors
	ErrUserCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"USER_CREATION_FAILED",
		"failed to create user",
	)

	ErrUserUpdateFailed = NewBaseError(
		http.StatusInternalServerError,
		"USER_UPDATE_FAILED",
		"failed to update user",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal server error",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details []string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details ...string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "database execution failed"
}

// Details returns the detailed error messages
func (e *DatabaseExecuteError) Details() []string {
	return e.details
}
