package cooldown_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bunnys/nexus/core/cooldown"
)

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ping:user42", cooldown.Key("ping", "user42"))
}

func TestMemoryStoreReserve(t *testing.T) {
	t.Parallel()

	t.Run("first reservation wins, second waits", func(t *testing.T) {
		t.Parallel()

		store := cooldown.NewMemoryStore()
		ctx := context.Background()

		ok, remaining, err := store.Reserve(ctx, "ping:u1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Zero(t, remaining)

		ok, remaining, err = store.Reserve(ctx, "ping:u1", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Greater(t, remaining, time.Duration(0))
		assert.LessOrEqual(t, remaining, time.Minute)
	})

	t.Run("distinct keys do not interfere", func(t *testing.T) {
		t.Parallel()

		store := cooldown.NewMemoryStore()
		ctx := context.Background()

		ok, _, err := store.Reserve(ctx, "ping:u1", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		ok, _, err = store.Reserve(ctx, "ping:u2", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, _, err = store.Reserve(ctx, "help:u1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired reservation can be claimed again", func(t *testing.T) {
		t.Parallel()

		store := cooldown.NewMemoryStore()
		ctx := context.Background()

		ok, _, err := store.Reserve(ctx, "ping:u1", 20*time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)

		time.Sleep(30 * time.Millisecond)

		ok, remaining, err := store.Reserve(ctx, "ping:u1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Zero(t, remaining)
	})

	t.Run("non-positive period always succeeds", func(t *testing.T) {
		t.Parallel()

		store := cooldown.NewMemoryStore()
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			ok, remaining, err := store.Reserve(ctx, "ping:u1", 0)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Zero(t, remaining)
		}
		assert.Zero(t, store.Stats().Active)
	})

	t.Run("release re-opens the slot", func(t *testing.T) {
		t.Parallel()

		store := cooldown.NewMemoryStore()
		ctx := context.Background()

		ok, _, err := store.Reserve(ctx, "ping:u1", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, store.Release(ctx, "ping:u1"))

		ok, _, err = store.Reserve(ctx, "ping:u1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("concurrent reservations yield one winner", func(t *testing.T) {
		t.Parallel()

		store := cooldown.NewMemoryStore()
		ctx := context.Background()
		const n = 16

		var wg sync.WaitGroup
		wins := make([]bool, n)
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				wins[i], _, errs[i] = store.Reserve(ctx, "ping:u1", time.Minute)
			}()
		}
		wg.Wait()

		winners := 0
		for i := 0; i < n; i++ {
			require.NoError(t, errs[i])
			if wins[i] {
				winners++
			}
		}
		assert.Equal(t, 1, winners)
	})
}

func TestMemoryStoreJanitor(t *testing.T) {
	t.Parallel()

	t.Run("sweeps expired reservations", func(t *testing.T) {
		t.Parallel()

		store := cooldown.NewMemoryStore(
			cooldown.WithCleanupInterval(10 * time.Millisecond),
		)
		ctx := context.Background()

		ok, _, err := store.Reserve(ctx, "ping:u1", 5*time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)

		go func() { _ = store.Start(ctx) }()
		t.Cleanup(func() { _ = store.Stop() })

		require.Eventually(t, func() bool {
			return store.Stats().Active == 0
		}, time.Second, 5*time.Millisecond)
		assert.GreaterOrEqual(t, store.Stats().Swept, int64(1))
	})

	t.Run("start twice fails", func(t *testing.T) {
		t.Parallel()

		store := cooldown.NewMemoryStore(
			cooldown.WithCleanupInterval(10 * time.Millisecond),
		)
		ctx := context.Background()

		go func() { _ = store.Start(ctx) }()
		t.Cleanup(func() { _ = store.Stop() })

		require.Eventually(t, func() bool {
			return store.Stats().IsRunning
		}, time.Second, time.Millisecond)

		require.ErrorIs(t, store.Start(ctx), cooldown.ErrAlreadyStarted)
	})

	t.Run("stop before start fails", func(t *testing.T) {
		t.Parallel()

		store := cooldown.NewMemoryStore()
		require.ErrorIs(t, store.Stop(), cooldown.ErrNotStarted)
	})

	t.Run("zero interval cannot start", func(t *testing.T) {
		t.Parallel()

		store := cooldown.NewMemoryStore(cooldown.WithCleanupInterval(0))
		require.ErrorIs(t, store.Start(context.Background()), cooldown.ErrCleanupDisabled)
	})

	t.Run("run stops on context cancel", func(t *testing.T) {
		t.Parallel()

		store := cooldown.NewMemoryStore(
			cooldown.WithCleanupInterval(10 * time.Millisecond),
		)
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- store.Run(ctx)() }()

		require.Eventually(t, func() bool {
			return store.Stats().IsRunning
		}, time.Second, time.Millisecond)

		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("run did not stop after context cancellation")
		}
	})
}
