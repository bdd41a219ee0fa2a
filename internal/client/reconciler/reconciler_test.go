package reconciler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okulov/chatter/internal/client/api"
	"github.com/okulov/chatter/internal/client/cache"
	"github.com/okulov/chatter/internal/client/models"
	"github.com/okulov/chatter/internal/client/storage"
	"github.com/okulov/chatter/internal/logging"
)

// fakeAPI scripts Profile answers; other methods are unused here.
type fakeAPI struct {
	mu      sync.Mutex
	profile *models.User
	err     error
	calls   int
	blockOn chan struct{} // when set, Profile waits for it before answering
}

func (f *fakeAPI) Profile(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	f.calls++
	block := f.blockOn
	profile, err := f.profile, f.err
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", api.ErrUnavailable, ctx.Err())
		}
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (f *fakeAPI) set(u *models.User, err error) {
	f.mu.Lock()
	f.profile, f.err = u, err
	f.mu.Unlock()
}

func (f *fakeAPI) Register(ctx context.Context, p api.RegisterParams) (*models.User, error) {
	return nil, api.ErrUnavailable
}
func (f *fakeAPI) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	return nil, api.ErrUnavailable
}
func (f *fakeAPI) Logout(ctx context.Context) error { return nil }

func (f *fakeAPI) Users(ctx context.Context) ([]*models.User, error) {
	return nil, api.ErrUnavailable
}

func (f *fakeAPI) Ping(ctx context.Context) error { return nil }

func (f *fakeAPI) Close() error { return nil }

var _ api.Client = (*fakeAPI)(nil)

type testEnv struct {
	rec   *Reconciler
	api   *fakeAPI
	cache *cache.Cache
	bus   *storage.Bus
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := storage.NewStore(t.TempDir(), logging.NewNop())
	require.NoError(t, err)
	c := cache.New(store, logging.NewNop())
	f := &fakeAPI{}
	bus := storage.NewBus()
	return &testEnv{
		rec:   New(f, c, bus, time.Minute, logging.NewNop()),
		api:   f,
		cache: c,
		bus:   bus,
	}
}

func testUser(id, username string) *models.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.User{
		ID:          id,
		FirstName:   "Sam",
		LastName:    "Doe",
		Username:    username,
		Email:       username + "@example.com",
		CreatedAt:   now.Add(-time.Hour),
		LastLoginAt: now,
	}
}

func TestLoad_NoCacheNoSession(t *testing.T) {
	env := newTestEnv(t)
	env.api.set(nil, api.ErrUnauthorized)

	snap, err := env.rec.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateAnonymous, snap.State)
	assert.Nil(t, snap.User)
}

func TestLoad_FreshCacheSkipsNetwork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := testUser("1", "sam")
	require.NoError(t, env.cache.Store(ctx, u))
	env.api.set(nil, api.ErrUnauthorized) // must never be consulted

	snap, err := env.rec.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, snap.State)
	require.NotNil(t, snap.User)
	assert.Equal(t, "sam", snap.User.Username)

	env.api.mu.Lock()
	calls := env.api.calls
	env.api.mu.Unlock()
	assert.Zero(t, calls, "a fresh cached identity must be adopted without a round trip")
}

func TestLoad_StaleCacheConfirmedAndRefreshed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	old := testUser("1", "sam")
	old.CreatedAt = time.Now().Add(-90 * 24 * time.Hour)
	old.LastLoginAt = time.Now().Add(-60 * 24 * time.Hour)
	require.NoError(t, env.cache.Store(ctx, old))

	confirmed := testUser("1", "sam")
	env.api.set(confirmed, nil)

	snap, err := env.rec.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, snap.State)
	require.NotNil(t, snap.User)
	assert.Equal(t, confirmed.LastLoginAt, snap.User.LastLoginAt)

	cached, err := env.cache.Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, confirmed.LastLoginAt, cached.LastLoginAt)
}

func TestLoad_UnauthorizedEvictsCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	old := testUser("1", "sam")
	old.CreatedAt = time.Now().Add(-90 * 24 * time.Hour)
	old.LastLoginAt = time.Now().Add(-60 * 24 * time.Hour)
	require.NoError(t, env.cache.Store(ctx, old))
	env.api.set(nil, api.ErrUnauthorized)

	snap, err := env.rec.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateAnonymous, snap.State)

	cached, err := env.cache.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached, "cache must be evicted on explicit rejection")
}

func TestLoad_UnavailableKeepsFreshCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := testUser("1", "sam")
	require.NoError(t, env.cache.Store(ctx, u))
	env.api.set(nil, api.ErrUnavailable)

	snap, err := env.rec.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, snap.State, "outage must not sign the user out")
	require.NotNil(t, snap.User)
	assert.Equal(t, "sam", snap.User.Username)

	cached, err := env.cache.Read(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cached, "outage must not evict the cache")
}

func TestLoad_UnavailableWithoutCache(t *testing.T) {
	env := newTestEnv(t)
	env.api.set(nil, api.ErrUnavailable)

	snap, err := env.rec.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateUnavailable, snap.State)
	assert.Nil(t, snap.User)
}

func TestLoad_StaleCacheNotAdoptedBeforeConfirmation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	old := testUser("1", "sam")
	old.CreatedAt = time.Now().Add(-90 * 24 * time.Hour)
	old.LastLoginAt = time.Now().Add(-60 * 24 * time.Hour)
	require.NoError(t, env.cache.Store(ctx, old))
	env.api.set(nil, api.ErrUnavailable)

	snap, err := env.rec.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateUnavailable, snap.State, "a stale cache is no identity to fall back on")
}

func TestRevalidate_AccountDeletedDropsSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.rec.SetUser(ctx, testUser("1", "sam"))
	require.Equal(t, StateAuthenticated, env.rec.Current().State)

	env.api.set(nil, api.ErrNotFound)
	env.rec.Revalidate(ctx)

	assert.Equal(t, StateAnonymous, env.rec.Current().State)
	cached, err := env.cache.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRevalidate_TransientFailureKeepsUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.rec.SetUser(ctx, testUser("1", "sam"))
	env.api.set(nil, api.ErrUnavailable)
	env.rec.Revalidate(ctx)

	snap := env.rec.Current()
	assert.Equal(t, StateAuthenticated, snap.State)
	require.NotNil(t, snap.User)
	assert.Equal(t, "sam", snap.User.Username)
}

func TestStaleResponseDoesNotOverwriteLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	block := make(chan struct{})
	env.api.mu.Lock()
	env.api.blockOn = block
	env.api.profile = testUser("1", "sam")
	env.api.mu.Unlock()

	// a slow revalidation is in flight...
	done := make(chan struct{})
	go func() {
		env.rec.Revalidate(ctx)
		close(done)
	}()

	// ...while the user logs out
	time.Sleep(20 * time.Millisecond)
	env.rec.Drop(ctx)
	require.Equal(t, StateAnonymous, env.rec.Current().State)

	// the late answer arrives and must be discarded
	close(block)
	<-done
	assert.Equal(t, StateAnonymous, env.rec.Current().State,
		"a response from before logout must not resurrect the session")
}

func TestDropAndSetUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := testUser("1", "sam")
	env.rec.SetUser(ctx, u)
	snap := env.rec.Current()
	assert.Equal(t, StateAuthenticated, snap.State)

	cached, err := env.cache.Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "sam", cached.Username)

	env.rec.Drop(ctx)
	assert.Equal(t, StateAnonymous, env.rec.Current().State)
	cached, err = env.cache.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestExternalDeleteDropsWithoutNetwork(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env.rec.SetUser(ctx, testUser("1", "sam"))
	go env.rec.Run(ctx)

	before := func() int {
		env.api.mu.Lock()
		defer env.api.mu.Unlock()
		return env.api.calls
	}()

	env.bus.Publish(storage.Event{Key: storage.KeyUser, Op: storage.OpDelete})

	require.Eventually(t, func() bool {
		return env.rec.Current().State == StateAnonymous
	}, 2*time.Second, 10*time.Millisecond)

	env.api.mu.Lock()
	after := env.api.calls
	env.api.mu.Unlock()
	assert.Equal(t, before, after, "external clear must not trigger a server call")
}

func TestExternalPutAdoptsIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go env.rec.Run(ctx)

	// another process logs in and writes the cache
	other := testUser("2", "lee")
	require.NoError(t, env.cache.Store(ctx, other))
	env.bus.Publish(storage.Event{Key: storage.KeyUser, Op: storage.OpPut})

	require.Eventually(t, func() bool {
		snap := env.rec.Current()
		return snap.State == StateAuthenticated && snap.User != nil && snap.User.Username == "lee"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestOnChangeFiresOnTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var mu sync.Mutex
	var states []State
	env.rec.OnChange(func(s Snapshot) {
		mu.Lock()
		states = append(states, s.State)
		mu.Unlock()
	})

	env.rec.SetUser(ctx, testUser("1", "sam"))
	env.rec.Drop(ctx)
	env.rec.Drop(ctx) // no transition, no callback

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []State{StateAuthenticated, StateAnonymous}, states)
}
