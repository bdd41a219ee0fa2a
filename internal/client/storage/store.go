// Package storage is the client's local key-value state: one JSON file per
// key under a state directory. It stands in for what a browser keeps in
// localStorage, so writes are whole-value replacements and a corrupt file
// reads as absent.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/okulov/chatter/internal/filex"
	"github.com/okulov/chatter/internal/logging"
)

// Well-known keys. Each maps to <dir>/<key>.json.
const (
	KeyUser      = "user"
	KeyPosts     = "posts"
	KeyContacts  = "contacts"
	KeyFavorites = "favorites"
	KeyMessages  = "messages"
)

type Store struct {
	dir    string
	mu     sync.Mutex
	logger logging.Logger
}

// NewStore creates the state directory if needed.
func NewStore(dir string, logger logging.Logger) (*Store, error) {
	if _, err := filex.EnsureDir(dir); err != nil {
		return nil, err
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the state directory path.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get unmarshals the value for key into v. The second return is false when
// the key is absent. A file that no longer parses is removed and reported
// absent rather than failing forever.
func (s *Store) Get(ctx context.Context, key string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn(ctx, "removing corrupt state file", "key", key, "error", err)
		_ = os.Remove(s.path(key))
		return false, nil
	}
	return true, nil
}

// Put replaces the value for key atomically.
func (s *Store) Put(ctx context.Context, key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(s.path(key), data, 0o600)
}

// Delete removes the value for key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
