package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_Lifecycle(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, revoked, "unknown session is accepted")

	require.NoError(t, store.Issue(ctx, "s1", "u1", time.Now().Add(time.Hour)))
	assert.Empty(t, mr.Keys(), "issue writes nothing")

	require.NoError(t, store.Revoke(ctx, "s1", time.Now().Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, "s1", time.Now().Add(time.Hour)), "second revoke is a no-op")
	assert.Equal(t, []string{"revoked:session:s1"}, mr.Keys())

	ttl := mr.TTL("revoked:session:s1")
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	revoked, err = store.IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "s2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisStore_RevocationExpiresWithToken(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "s1", time.Now().Add(time.Minute)))
	mr.FastForward(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, mr.Keys())
}

func TestRedisStore_ExpiredTokenNotStored(t *testing.T) {
	store, mr := setupRedisStore(t)

	require.NoError(t, store.Revoke(context.Background(), "old", time.Now().Add(-time.Second)))
	assert.Empty(t, mr.Keys())
}

func TestRedisStore_Errors(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()
	mr.SetError("ERR injected failure")

	_, err := store.IsRevoked(ctx, "s1")
	assert.Error(t, err)
	assert.Error(t, store.Revoke(ctx, "s1", time.Now().Add(time.Hour)))
}

func TestDial(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Dial(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	require.NoError(t, client.Close())

	addr := mr.Addr()
	mr.Close()
	_, err = Dial(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
