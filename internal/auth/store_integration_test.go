//go:build integration

package auth

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupStore(t *testing.T) (*Store, context.Context) {
	t.Helper()

	url := os.Getenv("SHELFSTOCK_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SHELFSTOCK_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback(ctx) })

	store, err := NewStore(tx, bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(ctx))

	_, err = tx.Exec(ctx, `DELETE FROM users`)
	require.NoError(t, err)

	return store, ctx
}

func TestStore_SeedAndVerify(t *testing.T) {
	store, ctx := setupStore(t)

	seeded, err := store.SeedDefault(ctx, "admin", "admin")
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = store.SeedDefault(ctx, "other", "pw")
	require.NoError(t, err)
	assert.False(t, seeded, "seed only runs on an empty table")

	ok, err := store.Verify(ctx, "admin", "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Verify(ctx, "admin", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Verify(ctx, "other", "pw")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SeedRejectsEmpty(t *testing.T) {
	store, ctx := setupStore(t)

	_, err := store.SeedDefault(ctx, " ", "pw")
	assert.ErrorIs(t, err, ErrEmptyCredentials)
}

func TestStore_DeleteAllAllowsReseed(t *testing.T) {
	store, ctx := setupStore(t)

	_, err := store.SeedDefault(ctx, "admin", "admin")
	require.NoError(t, err)
	require.NoError(t, store.DeleteAll(ctx))

	ok, err := store.Verify(ctx, "admin", "admin")
	require.NoError(t, err)
	assert.False(t, ok)

	seeded, err := store.SeedDefault(ctx, "manager", "secret")
	require.NoError(t, err)
	assert.True(t, seeded)
}
