package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rajagrocer/storefront-backend/pkg/config"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := New(context.Background(), config.RedisConfig{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{})
	require.Error(t, err)
}

func TestIdempotencyKeyShape(t *testing.T) {
	client := newTestClient(t)
	key := client.IdempotencyKey("POST|/api/v1/checkout", "abc123")
	require.Equal(t, "rg:idempotency:POST|/api/v1/checkout:abc123", key)
}

func TestSetNXAndGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	ok, err := client.SetNX(ctx, "k1", "v1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = client.SetNX(ctx, "k1", "v2", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	value, err := client.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, "v1", value)

	require.NoError(t, client.Del(ctx, "k1"))
	_, err = client.Get(ctx, "k1")
	require.ErrorIs(t, err, goredis.Nil)
}
