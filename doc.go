// Package nexus is a command-dispatch runtime for chat platforms: commands
// are registered once, resolved by name or alias, verified against
// caller-context rules, and executed on a bounded worker pool with cooperative
// timeouts, per-command metrics, and graceful shutdown.
//
// The root package wires the pieces together behind a small facade; each
// concern lives in its own package and can be used on its own.
//
// # Package Organization
//
// Core runtime packages:
//
//	github.com/bunnys/nexus/core/command   - Command descriptors, categories, and the handler contract
//	github.com/bunnys/nexus/core/registry  - Per-category and merged command lookup with atomic registration
//	github.com/bunnys/nexus/core/dispatch  - Bounded-pool execution engine, dispatcher pipeline, outcomes
//	github.com/bunnys/nexus/core/verify    - Standard pre-execution checks (developer, test-server, NSFW, permissions, cooldowns)
//	github.com/bunnys/nexus/core/cooldown  - Cooldown reservation store with an in-memory implementation
//	github.com/bunnys/nexus/core/lifecycle - Ordered, fault-tolerant command loading with reports
//	github.com/bunnys/nexus/core/metrics   - Per-command attempt/success/failure/duration counters
//	github.com/bunnys/nexus/core/logger    - Structured logging built on slog with context extraction
//	github.com/bunnys/nexus/core/config    - Type-safe environment variable loading
//
// Integration packages:
//
//	github.com/bunnys/nexus/integration/database/mongo - Mongo client init, caller profile store, dispatch recorder
//	github.com/bunnys/nexus/integration/database/redis - Redis client init and the shared cooldown store
//
// # Quick Start
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/bunnys/nexus"
//		"github.com/bunnys/nexus/core/command"
//		"github.com/bunnys/nexus/core/dispatch"
//		"github.com/bunnys/nexus/core/lifecycle"
//	)
//
//	func main() {
//		ping := lifecycle.StaticItem(
//			command.MustDescriptor(command.CategorySlash, "ping"),
//			command.HandlerFunc(func(ctx context.Context, payload any) error {
//				return nil // reply through your platform client
//			}),
//		)
//
//		runtime, err := nexus.New(
//			nexus.WithDefaultSources(lifecycle.Source{Name: "builtin", Items: []lifecycle.Item{ping}}),
//		)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer runtime.Shutdown()
//
//		ctx := context.Background()
//		if err := runtime.Start(ctx); err != nil {
//			log.Fatal(err)
//		}
//
//		// Feed requests from your platform transport.
//		outcome := <-runtime.Dispatch(ctx, dispatch.Request{
//			Category: command.CategorySlash,
//			Token:    "ping",
//			CallerID: "user-1",
//		})
//		log.Printf("ping: %s (%s)", outcome.Status, outcome.TraceID)
//	}
//
// # Execution Model
//
// Dispatch resolves the request token against the registry, records the
// attempt, runs the verifier, and submits the handler to the engine's worker
// pool. Every accepted invocation produces exactly one Outcome: success,
// timeout, validation failure, error, or shutdown rejection. Timeouts are
// cooperative; handler contexts are cancelled and the user is notified, but
// goroutines are never killed.
//
// # Configuration
//
// Configuration is loaded from environment variables with sensible defaults;
// see Config and the per-package Config types. A .env file in the working
// directory is loaded automatically on first use.
package nexus
