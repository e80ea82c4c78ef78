package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalidTarget is returned when the load target is not a non-nil
// pointer to a struct.
var ErrInvalidTarget = errors.New("config target must be a non-nil struct pointer")

var (
	mu         sync.Mutex
	cache      = make(map[reflect.Type]any)
	dotenvOnce sync.Once
)

// Load parses environment variables into cfg, which must be a non-nil
// pointer to a struct. The first successful load of each struct type is
// cached for the application lifetime; later calls copy the cached value
// instead of re-reading the environment. A .env file in the working
// directory is applied once before the first parse and never overrides
// variables that are already set.
func Load(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", ErrInvalidTarget, cfg)
	}

	dotenvOnce.Do(func() {
		// A missing .env file is not an error; the environment rules.
		_ = godotenv.Load()
	})

	t := v.Elem().Type()
	mu.Lock()
	defer mu.Unlock()
	if cached, ok := cache[t]; ok {
		v.Elem().Set(reflect.ValueOf(cached))
		return nil
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse %s: %w", t.Name(), err)
	}
	cache[t] = v.Elem().Interface()
	return nil
}

// MustLoad is Load panicking on failure, for use during startup where a
// missing required variable should stop the process.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
