// Package common defines shared constants and sentinel errors used across
// client and server layers of Chatter. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors raised at the endpoint boundary.
	ErrorBadRequest = errors.New("bad request")
)
