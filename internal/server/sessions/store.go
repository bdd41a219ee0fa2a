// Package sessions implements the session authority: opaque tokens bound to
// account ids, with a fixed time-to-live from creation.
package sessions

import (
	"context"
	"time"
)

// TTL is the absolute session lifetime from creation. It also drives the
// cookie max-age.
const TTL = 24 * time.Hour

// Session binds one opaque token to exactly one account id until ExpiresAt.
type Session struct {
	Token     string
	AccountID string
	ExpiresAt time.Time
}

// Store issues, resolves, and destroys sessions.
type Store interface {
	// Create allocates a new opaque token bound to accountID.
	Create(ctx context.Context, accountID string) (*Session, error)

	// Resolve returns the bound account id when the token is present and
	// unexpired; otherwise common.ErrorUnauthorized. An expired token behaves
	// exactly like an absent one.
	Resolve(ctx context.Context, token string) (string, error)

	// Destroy removes the binding. Destroying an absent token is not an error.
	Destroy(ctx context.Context, token string) error
}
