package nexus_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bunnys/nexus"
	"github.com/bunnys/nexus/core/command"
	"github.com/bunnys/nexus/core/cooldown"
	"github.com/bunnys/nexus/core/dispatch"
	"github.com/bunnys/nexus/core/lifecycle"
)

func testConfig() nexus.Config {
	return nexus.Config{
		Dispatch: dispatch.Config{
			CorePoolSize:       2,
			MaxPoolSize:        4,
			QueueCapacity:      8,
			MessageTimeout:     5 * time.Second,
			InteractionTimeout: 5 * time.Second,
			IdleTimeout:        time.Minute,
			ShutdownGrace:      2 * time.Second,
		},
		AppName:  "nexus-test",
		Env:      "development",
		LogLevel: "error",
		Prefix:   "!",
	}
}

func source(name string, items ...lifecycle.Item) lifecycle.Source {
	return lifecycle.Source{Name: name, Items: items}
}

func noopItem(desc command.Descriptor) lifecycle.Item {
	return lifecycle.StaticItem(desc, command.HandlerFunc(func(ctx context.Context, payload any) error {
		return nil
	}))
}

type captureSink struct {
	mu      sync.Mutex
	notices []string
}

func (s *captureSink) Reply(ctx context.Context, inv dispatch.Invocation, message string) error {
	return nil
}

func (s *captureSink) ReplyError(ctx context.Context, inv dispatch.Invocation, title, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, title+": "+message)
	return nil
}

func (s *captureSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.notices))
	copy(out, s.notices)
	return out
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("constructs with environment defaults", func(t *testing.T) {
		t.Parallel()

		runtime, err := nexus.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = runtime.Shutdown() })

		assert.NotNil(t, runtime.Logger())
		assert.NotNil(t, runtime.Registry())
		assert.NotNil(t, runtime.Dispatcher())
		assert.NotNil(t, runtime.Metrics())
		assert.NotNil(t, runtime.Engine())

		cfg := runtime.Config()
		assert.Equal(t, "nexus", cfg.AppName)
		assert.Equal(t, "!", cfg.Prefix)
		assert.Equal(t, 2, cfg.Dispatch.CorePoolSize)
	})

	t.Run("rejects nil components", func(t *testing.T) {
		t.Parallel()

		options := map[string]nexus.Option{
			"logger":          nexus.WithLogger(nil),
			"metrics":         nexus.WithMetrics(nil),
			"registry":        nexus.WithRegistry(nil),
			"cooldown store":  nexus.WithCooldownStore(nil),
			"verifier":        nexus.WithVerifier(nil),
			"sink":            nexus.WithSink(nil),
			"caller recorder": nexus.WithCallerRecorder(nil),
			"engine":          nexus.WithEngine(nil),
		}
		for name, opt := range options {
			runtime, err := nexus.New(opt)
			assert.Error(t, err, name)
			assert.Nil(t, runtime, name)
		}
	})

	t.Run("rejects invalid dispatch config", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.Dispatch.CorePoolSize = 0

		runtime, err := nexus.New(nexus.WithConfig(cfg))
		assert.Nil(t, runtime)
		assert.ErrorIs(t, err, dispatch.ErrInvalidConfig)
	})
}

func TestNexus_StartAndDispatch(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	ping := lifecycle.StaticItem(
		command.MustDescriptor(command.CategorySlash, "ping"),
		command.HandlerFunc(func(ctx context.Context, payload any) error {
			calls.Add(1)
			return nil
		}),
	)
	sink := &captureSink{}

	runtime, err := nexus.New(
		nexus.WithConfig(testConfig()),
		nexus.WithDefaultSources(source("builtin", ping)),
		nexus.WithSink(sink),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runtime.Shutdown() })

	ctx := context.Background()
	require.NoError(t, runtime.Start(ctx))

	t.Run("second start is rejected", func(t *testing.T) {
		assert.ErrorIs(t, runtime.Start(ctx), nexus.ErrAlreadyStarted)
	})

	t.Run("loaded commands resolve case-insensitively", func(t *testing.T) {
		entry, ok := runtime.Registry().Find(command.CategorySlash, "  PING ")
		require.True(t, ok)
		assert.Equal(t, "ping", entry.Descriptor.Name())
	})

	t.Run("dispatch executes and records metrics", func(t *testing.T) {
		outcome := <-runtime.Dispatch(ctx, dispatch.Request{
			Category: command.CategorySlash,
			Token:    "ping",
			CallerID: "user-1",
		})
		assert.Equal(t, dispatch.StatusSuccess, outcome.Status)
		assert.Len(t, outcome.TraceID, 8)
		assert.EqualValues(t, 1, calls.Load())

		stats := runtime.Metrics().Snapshot().Commands["ping"]
		assert.EqualValues(t, 1, stats.Attempts)
		assert.EqualValues(t, 1, stats.Successes)
	})

	t.Run("unknown tokens resolve silently", func(t *testing.T) {
		outcome := <-runtime.Dispatch(ctx, dispatch.Request{
			Category: command.CategorySlash,
			Token:    "missing",
			CallerID: "user-1",
		})
		assert.Equal(t, dispatch.StatusValidationFailed, outcome.Status)
		assert.Equal(t, dispatch.ReasonUnknownCommand, outcome.Reason)
		assert.Empty(t, sink.all(), "unknown commands never notify the user")
	})

	t.Run("shutdown is idempotent", func(t *testing.T) {
		require.NoError(t, runtime.Shutdown())
		assert.NoError(t, runtime.Shutdown())
	})
}

func TestNexus_DisabledDefaults(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.DisabledDefaults = []string{" EVAL "}

	runtime, err := nexus.New(
		nexus.WithConfig(cfg),
		nexus.WithMandatorySources(source("mandatory", noopItem(command.MustDescriptor(command.CategorySlash, "help")))),
		nexus.WithDefaultSources(source("defaults",
			noopItem(command.MustDescriptor(command.CategorySlash, "eval")),
			noopItem(command.MustDescriptor(command.CategorySlash, "ping")),
		)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runtime.Shutdown() })

	require.NoError(t, runtime.Start(context.Background()))

	_, ok := runtime.Registry().Find(command.CategorySlash, "eval")
	assert.False(t, ok, "disabled default must not load")
	_, ok = runtime.Registry().Find(command.CategorySlash, "ping")
	assert.True(t, ok)
	_, ok = runtime.Registry().Find(command.CategorySlash, "help")
	assert.True(t, ok, "mandatory commands cannot be disabled")
}

func TestNexus_VerifierFromConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Developers = []string{"dev-1"}
	sink := &captureSink{}

	runtime, err := nexus.New(
		nexus.WithConfig(cfg),
		nexus.WithDefaultSources(source("builtin",
			noopItem(command.MustDescriptor(command.CategorySlash, "deploy", command.WithDevOnly())),
		)),
		nexus.WithSink(sink),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runtime.Shutdown() })

	ctx := context.Background()
	require.NoError(t, runtime.Start(ctx))

	outcome := <-runtime.Dispatch(ctx, dispatch.Request{
		Category: command.CategorySlash,
		Token:    "deploy",
		CallerID: "user-9",
	})
	assert.Equal(t, dispatch.StatusValidationFailed, outcome.Status)
	assert.Equal(t, dispatch.ReasonDevOnly, outcome.Reason)
	require.Eventually(t, func() bool {
		return len(sink.all()) == 1
	}, time.Second, 10*time.Millisecond, "denied caller should be notified")

	outcome = <-runtime.Dispatch(ctx, dispatch.Request{
		Category: command.CategorySlash,
		Token:    "deploy",
		CallerID: "dev-1",
	})
	assert.Equal(t, dispatch.StatusSuccess, outcome.Status)
}

func TestNexus_CooldownStoreOption(t *testing.T) {
	t.Parallel()

	store := cooldown.NewMemoryStore()

	runtime, err := nexus.New(
		nexus.WithConfig(testConfig()),
		nexus.WithCooldownStore(store),
		nexus.WithDefaultSources(source("builtin",
			noopItem(command.MustDescriptor(command.CategoryMessage, "daily", command.WithCooldown(time.Minute))),
		)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runtime.Shutdown() })

	ctx := context.Background()
	require.NoError(t, runtime.Start(ctx))

	first := <-runtime.Dispatch(ctx, dispatch.Request{
		Category: command.CategoryMessage,
		Token:    "daily",
		CallerID: "user-1",
	})
	assert.Equal(t, dispatch.StatusSuccess, first.Status)

	second := <-runtime.Dispatch(ctx, dispatch.Request{
		Category: command.CategoryMessage,
		Token:    "daily",
		CallerID: "user-1",
	})
	assert.Equal(t, dispatch.StatusValidationFailed, second.Status)
	assert.Equal(t, dispatch.ReasonCooldownActive, second.Reason)
}
