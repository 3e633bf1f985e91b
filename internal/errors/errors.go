package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a linkbot error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"     // 400
	ErrIncompleteCommand ErrorCode = "INCOMPLETE_COMMAND"  // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"           // 404
	ErrAlreadyExists     ErrorCode = "ALREADY_EXISTS"      // 409
	ErrInternal          ErrorCode = "INTERNAL"            // 500
	ErrDatabaseMissing   ErrorCode = "DATABASE_MISSING"    // 500
	ErrCollaborator      ErrorCode = "COLLABORATOR_FAILED" // 502
	ErrStoreUnavailable  ErrorCode = "STORE_UNAVAILABLE"   // 503
)

// LinkbotError represents a structured error with code, status, and details.
type LinkbotError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *LinkbotError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *LinkbotError {
	return &LinkbotError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewIncompleteCommand creates a 400 error for a chat command missing a
// required argument. The message is the usage text shown to the user.
func NewIncompleteCommand(verb, usage string) *LinkbotError {
	return &LinkbotError{
		Code:    ErrIncompleteCommand,
		Status:  400,
		Message: usage,
		Details: map[string]any{"verb": verb},
	}
}

// NewNotFound creates a 404 error for when no active bookmark exists for a handle.
func NewNotFound(handle string) *LinkbotError {
	return &LinkbotError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("bookmark not found: %s", handle),
		Details: map[string]any{"handle": handle},
	}
}

// NewAlreadyExists creates a 409 error when an active bookmark already holds the handle.
func NewAlreadyExists(handle string) *LinkbotError {
	return &LinkbotError{
		Code:    ErrAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("bookmark %q already exists", handle),
		Details: map[string]any{"handle": handle},
	}
}

// NewStoreUnavailable creates a 503 error for storage I/O failures.
// The driver error is kept in Details for logging, never shown to chat users.
func NewStoreUnavailable(err error) *LinkbotError {
	details := map[string]any{}
	if err != nil {
		details["store_error"] = err.Error()
	}
	return &LinkbotError{
		Code:    ErrStoreUnavailable,
		Status:  503,
		Message: "bookmark store unavailable",
		Details: details,
	}
}

// NewCollaborator creates a 502 error when an external lookup fails or times out.
func NewCollaborator(name string, err error) *LinkbotError {
	details := map[string]any{"collaborator": name}
	if err != nil {
		details["cause"] = err.Error()
	}
	return &LinkbotError{
		Code:    ErrCollaborator,
		Status:  502,
		Message: fmt.Sprintf("%s lookup failed", name),
		Details: details,
	}
}

// NewDatabaseMissing creates the fatal startup error for an absent database file.
func NewDatabaseMissing(path string) *LinkbotError {
	return &LinkbotError{
		Code:    ErrDatabaseMissing,
		Status:  500,
		Message: fmt.Sprintf("database path %q does not exist or is not readable (run `linkbot init`)", path),
		Details: map[string]any{"path": path},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *LinkbotError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &LinkbotError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if err (or anything it wraps) is a LinkbotError with the given code.
func Is(err error, code ErrorCode) bool {
	var lErr *LinkbotError
	if stderrors.As(err, &lErr) {
		return lErr.Code == code
	}
	return false
}

// As returns the LinkbotError wrapped by err, if any.
func As(err error) (*LinkbotError, bool) {
	var lErr *LinkbotError
	if stderrors.As(err, &lErr) {
		return lErr, true
	}
	return nil, false
}
