package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeValidation indicates missing or malformed input
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeUnauthorized indicates a missing or invalid identity
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeForbidden indicates the resource is not owned by the caller
	ErrorTypeForbidden ErrorType = "FORBIDDEN"

	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeConflict indicates a duplicate or an invalid state transition
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeInternal indicates a persistence or collaborator failure
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Type: ErrorTypeUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Type: ErrorTypeForbidden, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message}
}

// NewInternalError creates a new internal error wrapping err
func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// TypeOf returns the ErrorType of the first AppError in err's chain,
// or ErrorTypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// Is reports whether err carries an AppError of type t.
func Is(err error, t ErrorType) bool {
	if err == nil {
		return false
	}
	return TypeOf(err) == t
}

// HTTPStatus maps err to the status code returned to clients.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show a client. Internal errors
// yield fallback so driver details never leak.
func PublicMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Type != ErrorTypeInternal {
		return appErr.Message
	}
	return fallback
}
