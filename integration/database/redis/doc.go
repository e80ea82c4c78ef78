// Package redis provides Redis client initialization with retry logic plus a
// Redis-backed cooldown store for the command runtime.
//
// The package wraps the go-redis client with URL validation, exponential
// backoff, and a ping verification so a client returned by Connect is known to
// be usable. On top of the client it implements cooldown.Store, letting
// command cooldowns survive restarts and apply across multiple runtime
// instances that share one Redis server.
//
// # Configuration
//
// All configuration is handled through the Config struct with environment
// variable mapping:
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//	}
//
// Both redis:// and rediss:// (TLS) URL schemes are supported; other schemes
// are rejected during parsing.
//
// # Usage Example
//
//	package main
//
//	import (
//		"context"
//		"log"
//		"time"
//
//		"github.com/bunnys/nexus/core/config"
//		"github.com/bunnys/nexus/core/verify"
//		"github.com/bunnys/nexus/integration/database/redis"
//	)
//
//	func main() {
//		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//		defer cancel()
//
//		var cfg redis.Config
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal("Failed to load config:", err)
//		}
//
//		client, err := redis.Connect(ctx, cfg)
//		if err != nil {
//			log.Fatal("Failed to connect to Redis:", err)
//		}
//		defer client.Close()
//
//		// Share cooldowns across runtime instances.
//		cooldowns := redis.NewCooldownStore(client)
//		verifier := verify.New(verify.WithCooldowns(cooldowns))
//		_ = verifier
//	}
//
// # Cooldown Semantics
//
// Reserve claims a slot with SET NX and a millisecond expiry, so exactly one
// concurrent caller wins a free key and the reservation expires on its own.
// When the slot is taken, the remaining wait is read from the key's TTL and
// reported to the caller for the user-facing cooldown message. Keys are
// namespaced with a "cooldown:" prefix by default; override it with
// WithKeyPrefix when several deployments share a database.
//
// # Health Checking
//
// Healthcheck returns a probe function for readiness endpoints:
//
//	healthCheck := redis.Healthcheck(client)
//
//	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
//		if err := healthCheck(r.Context()); err != nil {
//			http.Error(w, "Redis unhealthy", http.StatusServiceUnavailable)
//			return
//		}
//		w.WriteHeader(http.StatusOK)
//	})
//
// # Error Handling
//
// The package defines domain-specific errors that can be checked using errors.Is():
//
//   - ErrFailedToParseRedisConnString: the connection URL is malformed
//   - ErrRedisNotReady: Redis did not become ready within the timeout period
//   - ErrEmptyConnectionURL: no connection URL provided
//   - ErrHealthcheckFailed: the health check ping failed
//
// Cooldown store failures wrap cooldown.ErrStoreUnavailable, which the
// standard verifier treats as a signal to fail open rather than block
// every command on an unreachable Redis.
//
// Connection retries respect context cancellation and abort early when the
// deadline is exceeded during the retry process.
package redis
