package dispatch

import (
	"fmt"
	"time"

	"github.com/bunnys/nexus/core/command"
)

// Config controls the sizing and timing of the dispatch engine.
type Config struct {
	// CorePoolSize is the number of workers kept alive for the lifetime
	// of the engine.
	CorePoolSize int `env:"DISPATCH_CORE_POOL_SIZE" envDefault:"2"`

	// MaxPoolSize caps the total number of workers, including burst
	// workers spawned when the queue is full.
	MaxPoolSize int `env:"DISPATCH_MAX_POOL_SIZE" envDefault:"20"`

	// QueueCapacity bounds the number of tasks waiting for a worker.
	// When the queue and the pool are both saturated, work runs on the
	// submitting goroutine instead of being dropped.
	QueueCapacity int `env:"DISPATCH_QUEUE_CAPACITY" envDefault:"100"`

	// MessageTimeout bounds the execution of prefix-triggered commands.
	MessageTimeout time.Duration `env:"DISPATCH_MESSAGE_TIMEOUT" envDefault:"30s"`

	// InteractionTimeout bounds the execution of slash and context
	// commands, which are allowed more time for deferred responses.
	InteractionTimeout time.Duration `env:"DISPATCH_INTERACTION_TIMEOUT" envDefault:"45s"`

	// IdleTimeout is how long a burst worker waits for more work before
	// exiting. Core workers never expire.
	IdleTimeout time.Duration `env:"DISPATCH_IDLE_TIMEOUT" envDefault:"60s"`

	// ShutdownGrace is how long Shutdown waits for in-flight work before
	// forcing cancellation.
	ShutdownGrace time.Duration `env:"DISPATCH_SHUTDOWN_GRACE" envDefault:"10s"`
}

// DefaultConfig returns the engine configuration used when no environment
// overrides are applied.
func DefaultConfig() Config {
	return Config{
		CorePoolSize:       2,
		MaxPoolSize:        20,
		QueueCapacity:      100,
		MessageTimeout:     30 * time.Second,
		InteractionTimeout: 45 * time.Second,
		IdleTimeout:        60 * time.Second,
		ShutdownGrace:      10 * time.Second,
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c Config) Validate() error {
	if c.CorePoolSize < 1 {
		return fmt.Errorf("%w: core pool size must be at least 1, got %d", ErrInvalidConfig, c.CorePoolSize)
	}
	if c.MaxPoolSize < c.CorePoolSize {
		return fmt.Errorf("%w: max pool size %d is below core pool size %d", ErrInvalidConfig, c.MaxPoolSize, c.CorePoolSize)
	}
	if c.QueueCapacity < 0 {
		return fmt.Errorf("%w: queue capacity must not be negative, got %d", ErrInvalidConfig, c.QueueCapacity)
	}
	if c.MessageTimeout <= 0 {
		return fmt.Errorf("%w: message timeout must be positive, got %s", ErrInvalidConfig, c.MessageTimeout)
	}
	if c.InteractionTimeout <= 0 {
		return fmt.Errorf("%w: interaction timeout must be positive, got %s", ErrInvalidConfig, c.InteractionTimeout)
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("%w: idle timeout must be positive, got %s", ErrInvalidConfig, c.IdleTimeout)
	}
	if c.ShutdownGrace <= 0 {
		return fmt.Errorf("%w: shutdown grace must be positive, got %s", ErrInvalidConfig, c.ShutdownGrace)
	}
	return nil
}

// TimeoutFor returns the execution deadline for a command category.
func (c Config) TimeoutFor(category command.Category) time.Duration {
	if category == command.CategoryMessage {
		return c.MessageTimeout
	}
	return c.InteractionTimeout
}
