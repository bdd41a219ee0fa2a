// Package api implements the HTTP client for the Chatter server. The session
// token travels in a cookie, persisted on disk so a restarted client keeps
// its session, the way a browser would.
package api

import (
	"context"

	"github.com/okulov/chatter/internal/client/models"
)

// RegisterParams carries the registration form fields.
type RegisterParams struct {
	FirstName            string
	LastName             string
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
}

// Client is the server API surface the rest of the client programs against.
// All methods honor context cancellation. Errors wrap the package sentinels,
// so callers match with errors.Is.
type Client interface {
	Register(ctx context.Context, p RegisterParams) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)
	Users(ctx context.Context) ([]*models.User, error)
	Ping(ctx context.Context) error
	Close() error
}
