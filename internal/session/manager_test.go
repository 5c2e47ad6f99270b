package session

import (
	"context"
	"testing"
	"time"

	"whisperwall/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// usersStub is a stub for repository.UserRepository covering only what the
// session manager calls.
type usersStub struct {
	getByIDFn func(context.Context, uint) (*models.User, error)
}

func (s *usersStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *usersStub) GetByEmail(context.Context, string) (*models.User, error) { return nil, nil }
func (s *usersStub) GetByGoogleID(context.Context, string) (*models.User, error) {
	return nil, nil
}
func (s *usersStub) Create(context.Context, *models.User) error             { return nil }
func (s *usersStub) Update(context.Context, *models.User) error             { return nil }
func (s *usersStub) ListWithSecrets(context.Context) ([]models.User, error) { return nil, nil }
func (s *usersStub) ListWithLegacySecrets(context.Context) ([]models.User, error) {
	return nil, nil
}

func knownUsers() *usersStub {
	return &usersStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
	}
}

func TestManager_IssueAndResolve(t *testing.T) {
	t.Parallel()

	m := NewManager(NewMemoryStore(), knownUsers(), time.Hour)
	ctx := context.Background()

	token, err := m.Issue(ctx, 42, "password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	user, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, uint(42), user.ID)

	// tokens are opaque and unique
	token2, err := m.Issue(ctx, 42, "password")
	require.NoError(t, err)
	assert.NotEqual(t, token, token2)
}

func TestManager_Resolve_UnknownToken(t *testing.T) {
	t.Parallel()

	m := NewManager(NewMemoryStore(), knownUsers(), time.Hour)

	user, err := m.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = m.Resolve(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestManager_Revoke(t *testing.T) {
	t.Parallel()

	m := NewManager(NewMemoryStore(), knownUsers(), time.Hour)
	ctx := context.Background()

	token, err := m.Issue(ctx, 1, "password")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, token))
	user, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, user)

	// revoking again, or revoking garbage, still succeeds
	assert.NoError(t, m.Revoke(ctx, token))
	assert.NoError(t, m.Revoke(ctx, ""))
}

func TestManager_Resolve_DeletedUserDiscardsSession(t *testing.T) {
	t.Parallel()

	users := &usersStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		},
	}
	store := NewMemoryStore()
	m := NewManager(store, users, time.Hour)
	ctx := context.Background()

	token, err := m.Issue(ctx, 1, "password")
	require.NoError(t, err)

	user, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, user)

	// the dangling token was discarded from the store
	_, ok, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_Expiry(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "tok", 1, 10*time.Millisecond))
	_, ok, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok, err = store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	store := NewRedisStore(rdb)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "tok", 42, time.Hour))

	userID, ok, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(42), userID)

	// keys are namespaced so other Redis users cannot collide
	assert.True(t, mr.Exists("session:tok"))

	t.Run("ttl expiry", func(t *testing.T) {
		mr.FastForward(2 * time.Hour)
		_, ok, err := store.Get(ctx, "tok")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "tok2", 7, time.Hour))
		require.NoError(t, store.Delete(ctx, "tok2"))
		_, ok, err := store.Get(ctx, "tok2")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestManager_DefaultTTL(t *testing.T) {
	t.Parallel()

	m := NewManager(NewMemoryStore(), knownUsers(), 0)
	assert.Equal(t, DefaultTTL, m.TTL())
}
