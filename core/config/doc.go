// Package config provides type-safe environment variable loading with
// caching. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/bunnys/nexus/core/config"
//
//	type DispatchConfig struct {
//		CorePoolSize   int           `env:"DISPATCH_CORE_POOL_SIZE" envDefault:"2"`
//		MessageTimeout time.Duration `env:"DISPATCH_MESSAGE_TIMEOUT" envDefault:"30s"`
//		Developers     []string      `env:"NEXUS_DEVELOPERS" envSeparator:","`
//		Token          string        `env:"NEXUS_TOKEN,required"`
//	}
//
//	func main() {
//		var cfg DispatchConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 DispatchConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 DispatchConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently, so every component can load
// its own configuration struct without coordinating with the others.
package config
