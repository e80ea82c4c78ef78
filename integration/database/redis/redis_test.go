package redis_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bunnys/nexus/integration/database/redis"
)

// unusedPort reserves and releases a local port so connections to it fail.
func unusedPort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return port
}

func TestConnect_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty connection URL", func(t *testing.T) {
		t.Parallel()

		client, err := redis.Connect(ctx, redis.Config{})
		assert.Nil(t, client)
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("malformed connection URL", func(t *testing.T) {
		t.Parallel()

		client, err := redis.Connect(ctx, redis.Config{ConnectionURL: "://not-a-url"})
		assert.Nil(t, client)
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("rejects non-redis schemes", func(t *testing.T) {
		t.Parallel()

		client, err := redis.Connect(ctx, redis.Config{ConnectionURL: "http://localhost:6379/0"})
		assert.Nil(t, client)
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	cfg := redis.Config{
		ConnectionURL:  fmt.Sprintf("redis://127.0.0.1:%d/0", unusedPort(t)),
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: 3 * time.Second,
	}

	client, err := redis.Connect(context.Background(), cfg)
	assert.Nil(t, client)
	assert.ErrorIs(t, err, redis.ErrRedisNotReady)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	client := goredis.NewClient(&goredis.Options{
		Addr:        fmt.Sprintf("127.0.0.1:%d", unusedPort(t)),
		DialTimeout: 500 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := redis.Healthcheck(client)(ctx)
	assert.ErrorIs(t, err, redis.ErrHealthcheckFailed)
}
