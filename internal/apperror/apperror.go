// Package apperror defines the application error taxonomy and its mapping to
// HTTP status codes. Services return *AppError values; the HTTP layer turns
// them into uniform JSON error responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorizes an application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors.
	UnknownError ErrorType = iota
	// BadRequestError represents malformed or missing input.
	BadRequestError
	// UnauthorizedError represents a missing/invalid/expired session or
	// wrong credentials.
	UnauthorizedError
	// NotFoundError represents a resource that does not exist.
	NotFoundError
	// ConflictError represents a duplicate identity (username or email).
	ConflictError
	// InternalError represents storage I/O failures and unexpected conditions.
	InternalError
)

// AppError carries a user-facing message, a type for status mapping, and an
// optional underlying error for debugging. The underlying error is never
// serialized to clients.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying error to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case BadRequestError:
		return http.StatusBadRequest
	case UnauthorizedError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func New(errType ErrorType, message string, underlying error) *AppError {
	return &AppError{Type: errType, Message: message, Err: underlying}
}

func NewBadRequestError(message string, underlying error) *AppError {
	return New(BadRequestError, message, underlying)
}

func NewUnauthorizedError(message string, underlying error) *AppError {
	return New(UnauthorizedError, message, underlying)
}

func NewNotFoundError(message string, underlying error) *AppError {
	return New(NotFoundError, message, underlying)
}

func NewConflictError(message string, underlying error) *AppError {
	return New(ConflictError, message, underlying)
}

func NewInternalError(message string, underlying error) *AppError {
	return New(InternalError, message, underlying)
}

// ErrorResponse is the JSON body sent to clients for any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToResponse converts an AppError to its client-visible payload. Only the
// message crosses the boundary; the wrapped error stays server-side.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// FromError converts err to an *AppError when it is one (possibly wrapped).
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Type == t
}
