package nexus

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/bunnys/nexus/core/config"
	"github.com/bunnys/nexus/core/cooldown"
	"github.com/bunnys/nexus/core/dispatch"
	"github.com/bunnys/nexus/core/lifecycle"
	"github.com/bunnys/nexus/core/logger"
	"github.com/bunnys/nexus/core/metrics"
	"github.com/bunnys/nexus/core/registry"
	"github.com/bunnys/nexus/core/verify"
)

// ErrAlreadyStarted is returned when Start is called more than once.
var ErrAlreadyStarted = errors.New("nexus runtime already started")

// Nexus wires the command runtime together: registry, dispatch engine,
// verifier, cooldowns, metrics, and the lifecycle coordinator. A host
// transport feeds it requests through Dispatch and delivers replies through
// the configured sink.
type Nexus struct {
	config      Config
	logger      *slog.Logger
	collector   *metrics.Collector
	registry    *registry.Registry
	cooldowns   cooldown.Store
	verifier    dispatch.Verifier
	sink        dispatch.Sink
	recorder    dispatch.CallerRecorder
	engine      *dispatch.Engine
	dispatcher  *dispatch.Dispatcher
	coordinator *lifecycle.Coordinator

	mandatory []lifecycle.Source
	defaults  []lifecycle.Source
	custom    []lifecycle.Source

	// janitor holds the memory store when the runtime owns it; supplied
	// stores manage their own sweeping.
	janitor *cooldown.MemoryStore
	started atomic.Bool
}

// Option configures a Nexus during construction.
type Option func(*Nexus) error

// New builds a runtime from the environment plus the given options.
// Components not supplied through options are constructed with defaults: a
// preset logger for the configured environment, an in-memory cooldown store,
// and the standard verifier fed from Config. The engine's worker pool is live
// once New returns; Start only loads commands.
func New(opts ...Option) (*Nexus, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	n := &Nexus{config: cfg}

	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}

	if n.logger == nil {
		n.logger = newLogger(n.config)
	}
	if n.collector == nil {
		n.collector = metrics.New()
	}
	if n.registry == nil {
		n.registry = registry.New(registry.WithLogger(n.logger))
	}
	if n.cooldowns == nil {
		store := cooldown.NewMemoryStore(cooldown.WithLogger(n.logger))
		n.cooldowns = store
		n.janitor = store
	}
	if n.verifier == nil {
		n.verifier = verify.New(
			verify.WithDevelopers(n.config.Developers...),
			verify.WithTestServers(n.config.TestServers...),
			verify.WithCooldowns(n.cooldowns),
			verify.WithLogger(n.logger),
		)
	}

	if n.engine == nil {
		engine, err := dispatch.NewEngine(n.config.Dispatch,
			dispatch.WithLogger(n.logger),
			dispatch.WithMetrics(n.collector),
		)
		if err != nil {
			return nil, err
		}
		n.engine = engine
	}

	dispatcher, err := dispatch.NewDispatcher(n.registry, n.engine,
		dispatch.WithVerifier(n.verifier),
		dispatch.WithSink(n.sink),
		dispatch.WithCallerRecorder(n.recorder),
	)
	if err != nil {
		return nil, err
	}
	n.dispatcher = dispatcher

	coordinator, err := lifecycle.New(n.registry,
		lifecycle.WithLogger(n.logger),
		lifecycle.WithMandatory(n.mandatory...),
		lifecycle.WithDefaults(n.defaults...),
		lifecycle.WithCustom(n.custom...),
		lifecycle.WithDisabledDefaults(n.config.DisabledDefaults...),
	)
	if err != nil {
		return nil, err
	}
	n.coordinator = coordinator

	return n, nil
}

// Start loads all configured command sources and begins background sweeping
// of the owned cooldown store. It runs at most once.
func (n *Nexus) Start(ctx context.Context) error {
	if !n.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	if n.janitor != nil {
		// The janitor outlives the startup context; Shutdown stops it.
		go func() { _ = n.janitor.Start(context.Background()) }()
	}

	report, err := n.coordinator.Load(ctx)
	if err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "nexus runtime started",
		logger.Component("nexus"),
		slog.String("commands", report.String()),
	)
	return nil
}

// Dispatch resolves and executes one command request, returning a channel
// that delivers its single outcome.
func (n *Nexus) Dispatch(ctx context.Context, req dispatch.Request) <-chan dispatch.Outcome {
	return n.dispatcher.Dispatch(ctx, req)
}

// Shutdown drains the engine and stops owned background work. It is safe to
// call more than once; repeated calls are no-ops.
func (n *Nexus) Shutdown() error {
	err := n.engine.Shutdown()

	if n.janitor != nil {
		if stopErr := n.janitor.Stop(); stopErr != nil && !errors.Is(stopErr, cooldown.ErrNotStarted) {
			err = errors.Join(err, stopErr)
		}
	}

	n.logger.Info("nexus runtime stopped", logger.Component("nexus"))
	return err
}

// Config returns the loaded runtime configuration.
func (n *Nexus) Config() Config {
	return n.config
}

// Logger returns the runtime logger for host transports to share.
func (n *Nexus) Logger() *slog.Logger {
	return n.logger
}

// Registry exposes the command registry for host-side lookups such as help
// listings.
func (n *Nexus) Registry() *registry.Registry {
	return n.registry
}

// Dispatcher exposes the dispatch pipeline.
func (n *Nexus) Dispatcher() *dispatch.Dispatcher {
	return n.dispatcher
}

// Metrics exposes the runtime metrics collector.
func (n *Nexus) Metrics() *metrics.Collector {
	return n.collector
}

// Engine exposes the dispatch engine, mainly for stats endpoints.
func (n *Nexus) Engine() *dispatch.Engine {
	return n.engine
}

// WithConfig supplies the configuration directly, overriding the one loaded
// from the environment.
func WithConfig(cfg Config) Option {
	return func(n *Nexus) error {
		n.config = cfg
		return nil
	}
}

// WithLogger sets the shared runtime logger.
func WithLogger(log *slog.Logger) Option {
	return func(n *Nexus) error {
		if log == nil {
			return errors.New("logger cannot be nil")
		}
		n.logger = log
		return nil
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(n *Nexus) error {
		if collector == nil {
			return errors.New("metrics collector cannot be nil")
		}
		n.collector = collector
		return nil
	}
}

// WithRegistry sets the command registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(n *Nexus) error {
		if reg == nil {
			return errors.New("registry cannot be nil")
		}
		n.registry = reg
		return nil
	}
}

// WithCooldownStore sets the cooldown backend, typically the Redis store for
// multi-instance deployments. The supplied store's lifecycle stays with the
// caller.
func WithCooldownStore(store cooldown.Store) Option {
	return func(n *Nexus) error {
		if store == nil {
			return errors.New("cooldown store cannot be nil")
		}
		n.cooldowns = store
		return nil
	}
}

// WithVerifier replaces the standard verifier.
func WithVerifier(v dispatch.Verifier) Option {
	return func(n *Nexus) error {
		if v == nil {
			return errors.New("verifier cannot be nil")
		}
		n.verifier = v
		return nil
	}
}

// WithSink sets the reply sink that delivers user-facing notices.
func WithSink(s dispatch.Sink) Option {
	return func(n *Nexus) error {
		if s == nil {
			return errors.New("sink cannot be nil")
		}
		n.sink = s
		return nil
	}
}

// WithCallerRecorder sets the hook that records command callers, typically
// the Mongo-backed user store recorder.
func WithCallerRecorder(r dispatch.CallerRecorder) Option {
	return func(n *Nexus) error {
		if r == nil {
			return errors.New("caller recorder cannot be nil")
		}
		n.recorder = r
		return nil
	}
}

// WithEngine sets a pre-built dispatch engine.
func WithEngine(engine *dispatch.Engine) Option {
	return func(n *Nexus) error {
		if engine == nil {
			return errors.New("engine cannot be nil")
		}
		n.engine = engine
		return nil
	}
}

// WithMandatorySources appends command sources loaded first. Commands here
// cannot be disabled through configuration.
func WithMandatorySources(sources ...lifecycle.Source) Option {
	return func(n *Nexus) error {
		n.mandatory = append(n.mandatory, sources...)
		return nil
	}
}

// WithDefaultSources appends command sources loaded second; individual
// commands can be switched off with NEXUS_DISABLED_DEFAULTS.
func WithDefaultSources(sources ...lifecycle.Source) Option {
	return func(n *Nexus) error {
		n.defaults = append(n.defaults, sources...)
		return nil
	}
}

// WithCustomSources appends command sources loaded last.
func WithCustomSources(sources ...lifecycle.Source) Option {
	return func(n *Nexus) error {
		n.custom = append(n.custom, sources...)
		return nil
	}
}

// newLogger builds the preset logger for the configured environment with
// trace ids extracted from dispatch contexts.
func newLogger(cfg Config) *slog.Logger {
	preset := logger.WithDevelopment(cfg.AppName)
	switch strings.ToLower(cfg.Env) {
	case "production":
		preset = logger.WithProduction(cfg.AppName)
	case "staging":
		preset = logger.WithStaging(cfg.AppName)
	}

	return logger.New(
		preset,
		logger.WithLevel(parseLogLevel(cfg.LogLevel)),
		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
			if id := dispatch.TraceID(ctx); id != "" {
				return logger.TraceID(id), true
			}
			return slog.Attr{}, false
		}),
	)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
