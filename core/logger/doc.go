// Package logger provides structured logging utilities built on Go's standard slog package.
// It offers context-aware attribute extraction, environment-specific configurations,
// and a set of pre-built attributes for the command runtime.
//
// # Features
//
//   - Built on Go's standard slog for compatibility and performance
//   - Context-aware attribute extraction for invocation-scoped data
//   - Environment-specific configurations (development, staging, production)
//   - Attribute helpers for common logging patterns, safe on nil and empty inputs
//   - Support for both JSON and text output formats
//   - Handler decoration for automatic context attribute injection
//
// # Basic Usage
//
// Create loggers using the factory function with configuration options:
//
//	import "github.com/bunnys/nexus/core/logger"
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("nexus"))
//
//	// Production: JSON format, info level, stdout
//	log := logger.New(
//		logger.WithProduction("nexus"),
//		logger.WithLevel(slog.LevelWarn),
//	)
//
//	log.Info("commands loaded",
//		logger.Component("lifecycle"),
//		logger.Count("loaded", 12),
//	)
//
// # Context-Aware Logging
//
// Attributes can be extracted from context values automatically on the
// Context logging variants:
//
//	log := logger.New(
//		logger.WithProduction("nexus"),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			if id := dispatch.TraceID(ctx); id != "" {
//				return logger.TraceID(id), true
//			}
//			return slog.Attr{}, false
//		}),
//	)
//
//	// Every InfoContext/ErrorContext call inside a command handler now
//	// carries the invocation's trace ID without passing it explicitly.
//	log.InfoContext(ctx, "wallet updated")
//
// # Attribute Helpers
//
// Helpers return an empty Attr for nil or empty inputs, so call sites
// never need nil checks:
//
//	log.Error("command failed",
//		logger.Command("daily"),
//		logger.CallerID(callerID),
//		logger.Error(err),
//	)
package logger
