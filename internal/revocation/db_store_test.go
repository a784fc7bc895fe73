package revocation

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/config"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/database"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"
)

func setupStore(t *testing.T) (*DBStore, models.User) {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))

	u := models.User{Email: "a@b.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&u).Error)
	return NewDBStore(db), u
}

func TestDBStore_Lifecycle(t *testing.T) {
	store, u := setupStore(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	revoked, err := store.IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, revoked, "unknown session must be rejected")

	require.NoError(t, store.Issue(ctx, "s1", u.ID, exp))
	revoked, err = store.IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "s1", exp))
	require.NoError(t, store.Revoke(ctx, "s1", exp), "second revoke is a no-op")
	revoked, err = store.IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestDBStore_ExpiredAndPurge(t *testing.T) {
	store, u := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Issue(ctx, "old", u.ID, time.Now().Add(-time.Minute)))
	require.NoError(t, store.Issue(ctx, "new", u.ID, time.Now().Add(time.Hour)))

	revoked, err := store.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.True(t, revoked)

	n, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	revoked, err = store.IsRevoked(ctx, "new")
	require.NoError(t, err)
	assert.False(t, revoked)
}
