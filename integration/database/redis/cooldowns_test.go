package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bunnys/nexus/core/cooldown"
	"github.com/bunnys/nexus/integration/database/redis"
)

func TestCooldownStore_Reserve(t *testing.T) {
	t.Parallel()

	t.Run("non-positive period succeeds without touching redis", func(t *testing.T) {
		t.Parallel()

		// A nil client proves the fast path never issues a command.
		store := redis.NewCooldownStore(nil)

		ok, remaining, err := store.Reserve(context.Background(), cooldown.Key("ping", "caller-1"), 0)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Zero(t, remaining)

		ok, _, err = store.Reserve(context.Background(), cooldown.Key("ping", "caller-1"), -time.Second)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("implements the store interface", func(t *testing.T) {
		t.Parallel()

		var store cooldown.Store = redis.NewCooldownStore(nil, redis.WithKeyPrefix("test:"))
		assert.NotNil(t, store)
	})
}
