package api

import "errors"

var (
	// ErrUnavailable means the server could not be reached or answered with
	// an unexpected status. Distinct from ErrUnauthorized: the reconciler
	// never evicts local state on it.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized covers missing/invalid/expired sessions and rejected
	// credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means the session resolved but the account is gone.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the username or email is already registered.
	ErrConflict = errors.New("already exists")

	// ErrBadRequest means the server rejected the input.
	ErrBadRequest = errors.New("bad request")
)
