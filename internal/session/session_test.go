package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore spins up a miniredis instance and a Store pointed at it.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStore(rdb, time.Hour)
}

func TestNewToken(t *testing.T) {
	tok1, err := NewToken()
	require.NoError(t, err)
	tok2, err := NewToken()
	require.NoError(t, err)

	assert.Len(t, tok1, 64, "32 random bytes hex-encode to 64 chars")
	assert.NotEqual(t, tok1, tok2)
}

func TestLoad_FreshSessionIsUnauthenticated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	token, err := NewToken()
	require.NoError(t, err)

	sess, err := store.Load(ctx, token)
	require.NoError(t, err)

	_, ok := sess.UserID()
	assert.False(t, ok)
}

func TestSetUserID_PersistsAcrossLoads(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	token, err := NewToken()
	require.NoError(t, err)

	sess, err := store.Load(ctx, token)
	require.NoError(t, err)
	require.NoError(t, sess.SetUserID(ctx, "user-123"))

	// A second load with the same token sees the association.
	again, err := store.Load(ctx, token)
	require.NoError(t, err)
	id, ok := again.UserID()
	assert.True(t, ok)
	assert.Equal(t, "user-123", id)
}

func TestDestroy_RemovesRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	token, err := NewToken()
	require.NoError(t, err)

	sess, err := store.Load(ctx, token)
	require.NoError(t, err)
	require.NoError(t, sess.SetUserID(ctx, "user-123"))

	assert.True(t, sess.Destroy(ctx))

	// Local state is cleared and the record is gone.
	_, ok := sess.UserID()
	assert.False(t, ok)

	again, err := store.Load(ctx, token)
	require.NoError(t, err)
	_, ok = again.UserID()
	assert.False(t, ok)
}

func TestDestroy_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	token, err := NewToken()
	require.NoError(t, err)

	sess, err := store.Load(ctx, token)
	require.NoError(t, err)
	require.NoError(t, sess.SetUserID(ctx, "user-123"))

	assert.True(t, sess.Destroy(ctx), "first destroy removes the record")
	assert.False(t, sess.Destroy(ctx), "second destroy has nothing to remove")
}

func TestDestroy_NeverPersisted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	token, err := NewToken()
	require.NoError(t, err)

	sess, err := store.Load(ctx, token)
	require.NoError(t, err)

	assert.False(t, sess.Destroy(ctx))
}

func TestLoad_ExpiredSessionIsFresh(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	store := NewStore(rdb, time.Minute)
	ctx := context.Background()

	token, err := NewToken()
	require.NoError(t, err)

	sess, err := store.Load(ctx, token)
	require.NoError(t, err)
	require.NoError(t, sess.SetUserID(ctx, "user-123"))

	// Advance miniredis past the TTL; the record should be gone.
	mr.FastForward(2 * time.Minute)

	again, err := store.Load(ctx, token)
	require.NoError(t, err)
	_, ok := again.UserID()
	assert.False(t, ok)
}
