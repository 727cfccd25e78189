package dedup

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanMarqz/Cryptocat/pkg/config"
	"github.com/DanMarqz/Cryptocat/pkg/redis"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := redis.New(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRedisStore(client, log), mr
}

func TestRedisStore_FirstClaimWins(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	claimed, err := store.Claim(ctx, "cb:abc", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = store.Claim(ctx, "cb:abc", time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestRedisStore_NamespacesKeys(t *testing.T) {
	store, mr := newTestRedisStore(t)

	claimed, err := store.Claim(context.Background(), "msg:7:42", time.Minute)
	require.NoError(t, err)
	require.True(t, claimed)

	assert.True(t, mr.Exists("cryptocat:dedup:msg:7:42"))
}

func TestRedisStore_ClaimExpires(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	claimed, err := store.Claim(ctx, "cb:abc", time.Minute)
	require.NoError(t, err)
	require.True(t, claimed)

	mr.FastForward(2 * time.Minute)

	claimed, err = store.Claim(ctx, "cb:abc", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestRedisStore_ConnectionFailureSurfaces(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Close()

	_, err := store.Claim(context.Background(), "cb:abc", time.Minute)
	assert.Error(t, err)
}
