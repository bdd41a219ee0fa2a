package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okulov/chatter/internal/common"
	"github.com/okulov/chatter/internal/logging"
)

// MemoryStore keeps sessions in a process-local map. Expired entries are
// dropped lazily on Resolve and swept periodically by the janitor.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   logging.Logger
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration, logger logging.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger.With("module", "sessions"),
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, accountID string) (*Session, error) {
	session := &Session{
		Token:     uuid.NewString(),
		AccountID: accountID,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session, nil
}

func (s *MemoryStore) Resolve(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return "", common.ErrorUnauthorized
	}
	if !session.ExpiresAt.After(s.now()) {
		delete(s.sessions, token)
		return "", common.ErrorUnauthorized
	}
	return session.AccountID, nil
}

func (s *MemoryStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// StartJanitor sweeps expired sessions every interval until ctx is done.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.sweep(); n > 0 {
				s.logger.Debug(ctx, "swept expired sessions", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *MemoryStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, session := range s.sessions {
		if !session.ExpiresAt.After(now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}
