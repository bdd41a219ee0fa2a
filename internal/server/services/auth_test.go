package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/okulov/chatter/internal/apperror"
	"github.com/okulov/chatter/internal/common"
	"github.com/okulov/chatter/internal/logging"
	"github.com/okulov/chatter/internal/server/accounts"
	"github.com/okulov/chatter/internal/server/models"
	"github.com/okulov/chatter/internal/server/sessions"
)

// ---- fakes ----

type fakeRepo struct {
	records map[string]*models.Account
	failAll error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]*models.Account)}
}

func (f *fakeRepo) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	for _, a := range f.records {
		if a.Username == account.Username {
			return nil, accounts.ErrUsernameTaken
		}
		if a.Email == account.Email {
			return nil, accounts.ErrEmailTaken
		}
	}
	f.records[account.ID] = account
	return account, nil
}

func (f *fakeRepo) FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.Account, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	for _, a := range f.records {
		if a.Username == identifier || a.Email == identifier {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	if a, ok := f.records[id]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRepo) Update(ctx context.Context, account *models.Account) error {
	if f.failAll != nil {
		return f.failAll
	}
	if _, ok := f.records[account.ID]; !ok {
		return common.ErrorNotFound
	}
	f.records[account.ID] = account
	return nil
}

func (f *fakeRepo) List(ctx context.Context) ([]*models.Account, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	out := make([]*models.Account, 0, len(f.records))
	for _, a := range f.records {
		out = append(out, a)
	}
	return out, nil
}

// fakeHasher keeps the plaintext recognizable so tests stay fast; the real
// bcrypt hasher is covered in its own package.
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "h:" + plaintext, nil }
func (fakeHasher) Verify(plaintext, digest string) bool  { return "h:"+plaintext == digest }

// ---- helpers ----

func newTestService(t *testing.T) (*AuthService, *fakeRepo, *sessions.MemoryStore) {
	t.Helper()
	repo := newFakeRepo()
	store := sessions.NewMemoryStore(time.Hour, logging.NewNop())
	svc := NewAuthService(repo, store, fakeHasher{}, logging.NewNop())
	return svc, repo, store
}

func register(t *testing.T, svc *AuthService, username, email, pass string) (*models.Account, *sessions.Session) {
	t.Helper()
	acc, session, err := svc.Register(context.Background(), RegisterParams{
		FirstName: "Alice",
		LastName:  "Smith",
		Username:  username,
		Email:     email,
		Password:  pass,
	})
	require.NoError(t, err)
	return acc, session
}

// ---- tests ----

func TestRegister_CreatesAccountAndSession(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	acc, session := register(t, svc, "alice", "A@X.com", "secret1")

	require.NotEmpty(t, acc.ID)
	require.Equal(t, "a@x.com", acc.Email, "email is stored lowercase")
	require.Equal(t, "h:secret1", acc.PasswordHash)
	require.False(t, acc.CreatedAt.IsZero())

	id, err := store.Resolve(ctx, session.Token)
	require.NoError(t, err)
	require.Equal(t, acc.ID, id)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _, _ := newTestService(t)

	register(t, svc, "alice", "a@x.com", "secret1")

	_, _, err := svc.Register(context.Background(), RegisterParams{
		FirstName: "Other", LastName: "User",
		Username: "alice", Email: "other@x.com", Password: "secret2",
	})
	require.True(t, apperror.IsType(err, apperror.ConflictError))
	require.ErrorIs(t, err, accounts.ErrUsernameTaken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	register(t, svc, "alice", "a@x.com", "secret1")

	_, _, err := svc.Register(context.Background(), RegisterParams{
		FirstName: "Other", LastName: "User",
		Username: "bob", Email: "a@x.com", Password: "secret2",
	})
	require.True(t, apperror.IsType(err, apperror.ConflictError))
	require.ErrorIs(t, err, accounts.ErrEmailTaken)
}

func TestRegister_StorageFailureIsInternal(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.failAll = errors.New("disk exploded")

	_, _, err := svc.Register(context.Background(), RegisterParams{
		FirstName: "Alice", LastName: "Smith",
		Username: "alice", Email: "a@x.com", Password: "secret1",
	})
	require.True(t, apperror.IsType(err, apperror.InternalError))

	ae, ok := apperror.FromError(err)
	require.True(t, ok)
	require.NotContains(t, ae.ToResponse().Error, "disk exploded", "storage detail must not leak")
}

func TestLogin_ByUsernameAndByEmail(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	acc, _ := register(t, svc, "alice", "a@x.com", "secret1")

	for _, identifier := range []string{"alice", "a@x.com"} {
		got, session, err := svc.Login(ctx, identifier, "secret1")
		require.NoError(t, err, "login with %q", identifier)
		require.Equal(t, acc.ID, got.ID)

		id, err := store.Resolve(ctx, session.Token)
		require.NoError(t, err)
		require.Equal(t, acc.ID, id)
	}
}

func TestLogin_BumpsLastLogin(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	acc, _ := register(t, svc, "alice", "a@x.com", "secret1")
	before := acc.LastLoginAt

	svc.now = func() time.Time { return before.Add(time.Hour) }

	_, _, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	stored, err := repo.FindByID(ctx, acc.ID)
	require.NoError(t, err)
	require.True(t, stored.LastLoginAt.After(before))
}

func TestLogin_UniformInvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "alice", "a@x.com", "secret1")

	_, _, wrongPass := svc.Login(ctx, "alice", "wrong")
	_, _, noUser := svc.Login(ctx, "ghost", "whatever")

	require.True(t, apperror.IsType(wrongPass, apperror.UnauthorizedError))
	require.True(t, apperror.IsType(noUser, apperror.UnauthorizedError))

	// wrong password and unknown user must be indistinguishable
	wp, _ := apperror.FromError(wrongPass)
	nu, _ := apperror.FromError(noUser)
	require.Equal(t, wp.ToResponse(), nu.ToResponse())
}

func TestLogin_WrongPasswordLeavesNoSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "alice", "a@x.com", "secret1")

	_, session, err := svc.Login(ctx, "alice", "wrong")
	require.Error(t, err)
	require.Nil(t, session)
}

func TestLogout_Idempotent(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	_, session := register(t, svc, "alice", "a@x.com", "secret1")

	require.NoError(t, svc.Logout(ctx, session.Token))
	require.NoError(t, svc.Logout(ctx, session.Token))
	require.NoError(t, svc.Logout(ctx, ""))

	_, err := store.Resolve(ctx, session.Token)
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestProfile_ReturnsAccount(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	acc, session := register(t, svc, "alice", "a@x.com", "secret1")

	got, err := svc.Profile(ctx, session.Token)
	require.NoError(t, err)
	require.Equal(t, acc.ID, got.ID)
	require.Equal(t, "alice", got.Username)
}

func TestProfile_DestroyedSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, session := register(t, svc, "alice", "a@x.com", "secret1")
	require.NoError(t, svc.Logout(ctx, session.Token))

	_, err := svc.Profile(ctx, session.Token)
	require.True(t, apperror.IsType(err, apperror.UnauthorizedError))
}

func TestProfile_MissingToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Profile(context.Background(), "")
	require.True(t, apperror.IsType(err, apperror.UnauthorizedError))
}

func TestProfile_DeletedAccount(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	acc, session := register(t, svc, "alice", "a@x.com", "secret1")
	delete(repo.records, acc.ID)

	_, err := svc.Profile(ctx, session.Token)
	require.True(t, apperror.IsType(err, apperror.NotFoundError))
}

func TestListUsers_RequiresSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ListUsers(context.Background(), "bogus")
	require.True(t, apperror.IsType(err, apperror.UnauthorizedError))
}

func TestListUsers_NewestFirst(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	base := time.Now().UTC()
	svc.now = func() time.Time { return base }
	register(t, svc, "alice", "a@x.com", "secret1")

	svc.now = func() time.Time { return base.Add(time.Minute) }
	register(t, svc, "bob", "b@x.com", "secret2")

	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, session := register(t, svc, "carol", "c@x.com", "secret3")

	list, err := svc.ListUsers(ctx, session.Token)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "carol", list[0].Username)
	require.Equal(t, "bob", list[1].Username)
	require.Equal(t, "alice", list[2].Username)
}
