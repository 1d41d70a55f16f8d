package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents an EcoKitchen error code.
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"     // 400
	ErrSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"   // 404
	ErrRecipesLocked      ErrorCode = "RECIPES_LOCKED"      // 409
	ErrCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE" // 503
	ErrInternal           ErrorCode = "INTERNAL"            // 500
)

// EcoError represents a structured error with code, status, and details.
type EcoError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	cause error
}

// Error implements the error interface.
func (e *EcoError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *EcoError) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *EcoError {
	return &EcoError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewValidationFailed creates a 400 error carrying per-field validation details.
func NewValidationFailed(msg string, fields map[string]string) *EcoError {
	e := NewInvalidRequest(msg)
	if len(fields) > 0 {
		e.Details = map[string]any{"fields": fields}
	}
	return e
}

// NewSessionNotFound creates a 404 error for an unknown or expired session.
func NewSessionNotFound(id string) *EcoError {
	return &EcoError{
		Code:    ErrSessionNotFound,
		Status:  404,
		Message: fmt.Sprintf("session not found: %s", id),
		Details: map[string]any{"session_id": id},
	}
}

// NewRecipesLocked creates a 409 error when recipes are requested before an
// eligible risk assessment exists in the session.
func NewRecipesLocked(state string) *EcoError {
	return &EcoError{
		Code:    ErrRecipesLocked,
		Status:  409,
		Message: "recipes are only offered after an Expires Today or High Risk assessment",
		Details: map[string]any{"state": state},
	}
}

// NewCatalogUnavailable creates a 503 error when the recipe catalog cannot be loaded.
func NewCatalogUnavailable(source string, cause error) *EcoError {
	msg := fmt.Sprintf("recipe catalog %q is unavailable", source)
	if source == "" {
		msg = "recipe catalog source is not configured"
	}
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &EcoError{
		Code:    ErrCatalogUnavailable,
		Status:  503,
		Message: msg,
		Details: map[string]any{"source": source},
		cause:   cause,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *EcoError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &EcoError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error is (or wraps) an EcoError with the given code.
func Is(err error, code ErrorCode) bool {
	var eErr *EcoError
	if stderrors.As(err, &eErr) {
		return eErr.Code == code
	}
	return false
}

// As returns the EcoError inside err, if any.
func As(err error) (*EcoError, bool) {
	var eErr *EcoError
	ok := stderrors.As(err, &eErr)
	return eErr, ok
}
