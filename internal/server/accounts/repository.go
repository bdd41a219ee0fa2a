// Package accounts implements the credential store: a durable mapping from
// user identity to account record.
package accounts

import (
	"context"
	"errors"

	"github.com/okulov/chatter/internal/server/models"
)

var (
	// ErrUsernameTaken is returned by Create when the username is already present.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken is returned by Create when the email is already present.
	ErrEmailTaken = errors.New("email already exists")
)

// Repository is the storage contract for account records. Implementations
// must keep usernames and emails unique across all records.
//
// The file-backed implementation performs whole-collection read-modify-write
// on every mutation; a future swap to an embedded or networked database must
// not change this interface.
type Repository interface {
	// Create persists a new record. Fails with ErrUsernameTaken or
	// ErrEmailTaken on duplicate identity.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// FindByUsernameOrEmail returns the record matching the identifier as
	// either username or email, or common.ErrorNotFound.
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.Account, error)

	// FindByID returns the record with the given id, or common.ErrorNotFound.
	FindByID(ctx context.Context, id string) (*models.Account, error)

	// Update replaces the stored record with the matching id.
	Update(ctx context.Context, account *models.Account) error

	// List returns all records.
	List(ctx context.Context) ([]*models.Account, error)
}
