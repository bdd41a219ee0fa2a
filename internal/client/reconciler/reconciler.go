// Package reconciler keeps the client's idea of "who is signed in" in sync
// with the server. The cached identity gives an instant answer on startup;
// the server's profile endpoint is the ground truth that confirms, refreshes
// or revokes it. Local state is only evicted when the server explicitly says
// the session is invalid, never because the server was unreachable.
package reconciler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okulov/chatter/internal/client/api"
	"github.com/okulov/chatter/internal/client/cache"
	"github.com/okulov/chatter/internal/client/models"
	"github.com/okulov/chatter/internal/client/storage"
	"github.com/okulov/chatter/internal/logging"
)

type State int

const (
	// StateAnonymous means no valid session: nothing cached, or the server
	// rejected the session.
	StateAnonymous State = iota
	// StateAuthenticated means a user identity is current, either confirmed
	// by the server or carried by a fresh cache while the server is away.
	StateAuthenticated
	// StateUnavailable means the server cannot be reached and no usable
	// cached identity exists. Distinct from anonymous: signing in is not an
	// option yet.
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnavailable:
		return "unavailable"
	default:
		return "anonymous"
	}
}

// Snapshot is the reconciler's answer at a point in time. User is non-nil
// only in StateAuthenticated.
type Snapshot struct {
	State State
	User  *models.User
}

// DefaultInterval is how often an authenticated session is revalidated
// against the server.
const DefaultInterval = 5 * time.Minute

type Reconciler struct {
	api      api.Client
	cache    *cache.Cache
	notifier storage.Notifier
	interval time.Duration
	logger   logging.Logger

	// gen orders identity operations. Every operation claims a generation
	// up front and only commits its result if no newer operation has
	// started since, so a slow profile response can never overwrite the
	// outcome of a later login or logout.
	gen atomic.Uint64

	mu       sync.Mutex
	snap     Snapshot
	onChange func(Snapshot)
}

func New(apiClient api.Client, c *cache.Cache, notifier storage.Notifier, interval time.Duration, logger logging.Logger) *Reconciler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reconciler{
		api:      apiClient,
		cache:    c,
		notifier: notifier,
		interval: interval,
		logger:   logger,
	}
}

// OnChange registers a callback invoked (outside the lock) whenever the
// snapshot changes. Set it before Load or Run.
func (r *Reconciler) OnChange(fn func(Snapshot)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// Current returns the latest snapshot without touching the network.
func (r *Reconciler) Current() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// Load establishes the initial snapshot. A present, non-stale cached
// identity is adopted immediately with no network call — the whole point of
// the cache is to short-circuit that round trip; the periodic revalidation
// loop confirms or revokes it later. Only a missing or stale cache falls
// through to a profile fetch. Returns the snapshot that ended up current.
func (r *Reconciler) Load(ctx context.Context) (Snapshot, error) {
	gen := r.gen.Add(1)

	cached, err := r.cache.Read(ctx)
	if err != nil {
		r.logger.Warn(ctx, "reading cached identity", "error", err)
	}
	if cached != nil && !r.cache.IsStale(cached) {
		r.apply(gen, Snapshot{State: StateAuthenticated, User: cached})
		return r.Current(), nil
	}

	r.confirm(ctx, gen, false, nil)
	return r.Current(), nil
}

// Run revalidates on a timer and reacts to local state changes made by
// another process, until ctx is done.
func (r *Reconciler) Run(ctx context.Context) {
	var events <-chan storage.Event
	if r.notifier != nil {
		ch, cancel := r.notifier.Subscribe()
		defer cancel()
		events = ch
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Revalidate(ctx)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			r.handleEvent(ctx, ev)
		}
	}
}

// Revalidate asks the server whether the session still stands and applies
// the answer. Safe to call from any goroutine.
func (r *Reconciler) Revalidate(ctx context.Context) {
	gen := r.gen.Add(1)
	cur := r.Current()
	r.confirm(ctx, gen, cur.State == StateAuthenticated, cur.User)
}

// SetUser adopts a server-confirmed identity, for example right after login
// or registration.
func (r *Reconciler) SetUser(ctx context.Context, u *models.User) {
	gen := r.gen.Add(1)
	if err := r.cache.Store(ctx, u); err != nil {
		r.logger.Warn(ctx, "caching identity", "error", err)
	}
	r.apply(gen, Snapshot{State: StateAuthenticated, User: u})
}

// Drop discards the local identity, for example after logout. No server
// call is made.
func (r *Reconciler) Drop(ctx context.Context) {
	gen := r.gen.Add(1)
	if err := r.cache.Clear(ctx); err != nil {
		r.logger.Warn(ctx, "clearing cached identity", "error", err)
	}
	r.apply(gen, Snapshot{State: StateAnonymous})
}

// confirm fetches the profile and commits the outcome under gen. keepUser
// is the identity to fall back on when the server is unreachable. The cache
// writes are generation-guarded too: an answer from before a logout or a
// newer login must not touch the disk either.
func (r *Reconciler) confirm(ctx context.Context, gen uint64, haveUser bool, keepUser *models.User) {
	profile, err := r.api.Profile(ctx)
	if gen != r.gen.Load() {
		return
	}
	switch {
	case err == nil:
		if storeErr := r.cache.Store(ctx, profile); storeErr != nil {
			r.logger.Warn(ctx, "caching identity", "error", storeErr)
		}
		r.apply(gen, Snapshot{State: StateAuthenticated, User: profile})

	case errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrNotFound):
		// the server explicitly revoked the session; only now is the
		// cached identity evicted
		if clearErr := r.cache.Clear(ctx); clearErr != nil {
			r.logger.Warn(ctx, "clearing cached identity", "error", clearErr)
		}
		r.apply(gen, Snapshot{State: StateAnonymous})

	default:
		r.logger.Debug(ctx, "profile check failed, keeping local state", "error", err)
		if haveUser {
			r.apply(gen, Snapshot{State: StateAuthenticated, User: keepUser})
		} else {
			r.apply(gen, Snapshot{State: StateUnavailable})
		}
	}
}

// handleEvent reacts to a change of the cached identity made outside this
// process: a delete drops to anonymous without a network round trip, a put
// adopts the other process's identity.
func (r *Reconciler) handleEvent(ctx context.Context, ev storage.Event) {
	if ev.Key != storage.KeyUser {
		return
	}

	switch ev.Op {
	case storage.OpDelete:
		if r.Current().State == StateAnonymous {
			return
		}
		r.logger.Info(ctx, "identity cleared externally")
		r.apply(r.gen.Add(1), Snapshot{State: StateAnonymous})
	case storage.OpPut:
		cached, err := r.cache.Read(ctx)
		if err != nil || cached == nil {
			return
		}
		cur := r.Current()
		if cur.User != nil && cur.User.ID == cached.ID {
			return
		}
		r.logger.Info(ctx, "identity updated externally", "username", cached.Username)
		r.apply(r.gen.Add(1), Snapshot{State: StateAuthenticated, User: cached})
	}
}

// apply commits snap if gen is still the newest claimed generation.
func (r *Reconciler) apply(gen uint64, snap Snapshot) {
	r.mu.Lock()
	if gen != r.gen.Load() {
		r.mu.Unlock()
		return
	}
	changed := r.snap.State != snap.State || !sameUser(r.snap.User, snap.User)
	r.snap = snap
	fn := r.onChange
	r.mu.Unlock()

	if changed && fn != nil {
		fn(snap)
	}
}

func sameUser(a, b *models.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Username == b.Username && a.LastLoginAt.Equal(b.LastLoginAt)
}
