// Package cache keeps the last known authenticated user on disk so the
// client can show an identity immediately on startup, before the server has
// confirmed the session. The cache is a hint, never an authority: only the
// server's answer decides whether a session is still valid.
package cache

import (
	"context"
	"time"

	"github.com/okulov/chatter/internal/client/models"
	"github.com/okulov/chatter/internal/client/storage"
	"github.com/okulov/chatter/internal/logging"
)

// MaxAge bounds how old a cached identity may look before it is treated as
// stale. Age is judged by the record's own account timestamps, not by when
// it was written here.
const MaxAge = 30 * 24 * time.Hour

type Cache struct {
	store  *storage.Store
	logger logging.Logger
	now    func() time.Time
}

func New(store *storage.Store, logger logging.Logger) *Cache {
	return &Cache{store: store, logger: logger, now: time.Now}
}

// Store snapshots the user. A nil user clears instead.
func (c *Cache) Store(ctx context.Context, u *models.User) error {
	if u == nil {
		return c.Clear(ctx)
	}
	rec := storage.CachedUser{
		Version:    storage.SchemaVersion,
		CapturedAt: c.now().UTC(),
		User:       u,
	}
	return c.store.Put(ctx, storage.KeyUser, rec)
}

// Read returns the cached user, or nil when nothing usable is cached. A
// record with a different schema version is cleared and reported absent.
func (c *Cache) Read(ctx context.Context) (*models.User, error) {
	var rec storage.CachedUser
	ok, err := c.store.Get(ctx, storage.KeyUser, &rec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if rec.Version != storage.SchemaVersion || rec.User == nil {
		c.logger.Warn(ctx, "discarding cached user", "version", rec.Version)
		if err := c.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return rec.User, nil
}

// Clear removes the cached identity. Clearing an empty cache is fine.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Delete(ctx, storage.KeyUser)
}

// IsStale reports whether the cached user is unusable as a fast-path
// identity: missing entirely, missing its id or username, or with account
// activity older than MaxAge. The newer of createdAt and lastLoginAt counts
// as the activity time, so a freshly registered account is never stale.
func (c *Cache) IsStale(u *models.User) bool {
	if u == nil || u.ID == "" || u.Username == "" {
		return true
	}
	newest := u.CreatedAt
	if u.LastLoginAt.After(newest) {
		newest = u.LastLoginAt
	}
	if newest.IsZero() {
		return true
	}
	return c.now().Sub(newest) > MaxAge
}
