package cooldown

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryStore implements Store with an in-process map. Expired reservations
// are swept by a background janitor started with Start (or Run).
type MemoryStore struct {
	mu           sync.RWMutex
	reservations map[string]time.Time // key → expiry

	cleanupInterval time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	reserved atomic.Int64
	swept    atomic.Int64
}

// MemoryStoreStats provides observability counters for monitoring.
type MemoryStoreStats struct {
	Reserved  int64 // total reservations granted
	Swept     int64 // expired reservations removed by the janitor
	Active    int   // reservations currently held (including expired, unswept ones)
	IsRunning bool  // whether the janitor goroutine is running
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often the janitor sweeps expired reservations.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithShutdownTimeout sets the graceful shutdown timeout for Stop.
func WithShutdownTimeout(timeout time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if timeout > 0 {
			ms.shutdownTimeout = timeout
		}
	}
}

// WithLogger sets the logger for janitor lifecycle events.
func WithLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// NewMemoryStore creates an in-memory cooldown store.
// Call Start (or Run) to begin background sweeping; the store works without
// it, expired entries are then reclaimed lazily on Reserve.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		reservations:    make(map[string]time.Time),
		cleanupInterval: time.Minute,
		shutdownTimeout: 30 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ms)
		}
	}
	return ms
}

// Reserve implements Store.
func (ms *MemoryStore) Reserve(ctx context.Context, key string, period time.Duration) (bool, time.Duration, error) {
	if period <= 0 {
		return true, 0, nil
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	if expiry, exists := ms.reservations[key]; exists && now.Before(expiry) {
		return false, expiry.Sub(now), nil
	}

	ms.reservations[key] = now.Add(period)
	ms.reserved.Add(1)
	return true, 0, nil
}

// Release implements Store.
func (ms *MemoryStore) Release(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.reservations, key)
	return nil
}

// Start begins the background janitor. This blocks until the context is
// cancelled; use Run for the errgroup pattern or call Start in a goroutine.
func (ms *MemoryStore) Start(ctx context.Context) error {
	ms.mu.Lock()
	if ms.cancel != nil {
		ms.mu.Unlock()
		return ErrAlreadyStarted
	}
	if ms.cleanupInterval <= 0 {
		ms.mu.Unlock()
		return fmt.Errorf("%w: got %v", ErrCleanupDisabled, ms.cleanupInterval)
	}
	ms.ctx, ms.cancel = context.WithCancel(ctx)
	ms.mu.Unlock()

	ms.logger.InfoContext(ms.ctx, "cooldown janitor started",
		slog.Duration("cleanup_interval", ms.cleanupInterval))

	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ms.ctx.Done():
			ms.logger.InfoContext(context.Background(), "cooldown janitor stopping")
			return ms.ctx.Err()
		case <-ticker.C:
			ms.sweepWithWait()
		}
	}
}

// Stop gracefully shuts down the janitor with a timeout.
func (ms *MemoryStore) Stop() error {
	ms.mu.Lock()
	if ms.cancel == nil {
		ms.mu.Unlock()
		return ErrNotStarted
	}
	cancel := ms.cancel
	ms.cancel = nil
	ms.mu.Unlock()

	cancel()

	ctx, ctxCancel := context.WithTimeout(context.Background(), ms.shutdownTimeout)
	defer ctxCancel()

	done := make(chan struct{})
	go func() {
		ms.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		ms.logger.WarnContext(context.Background(), "cooldown store shutdown timeout exceeded",
			slog.Duration("timeout", ms.shutdownTimeout))
		return fmt.Errorf("%w after %s", ErrShutdownTimeout, ms.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
func (ms *MemoryStore) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- ms.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = ms.Stop()
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

func (ms *MemoryStore) sweepWithWait() {
	ms.mu.RLock()
	if ms.cancel == nil {
		ms.mu.RUnlock()
		return
	}
	ms.wg.Add(1)
	ms.mu.RUnlock()

	defer ms.wg.Done()
	ms.sweep()
}

func (ms *MemoryStore) sweep() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, expiry := range ms.reservations {
		if !now.Before(expiry) {
			delete(ms.reservations, key)
			removed++
		}
	}
	if removed > 0 {
		ms.swept.Add(int64(removed))
	}
}

// Stats returns current store statistics. Thread-safe.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.RLock()
	isRunning := ms.cancel != nil
	active := len(ms.reservations)
	ms.mu.RUnlock()

	return MemoryStoreStats{
		Reserved:  ms.reserved.Load(),
		Swept:     ms.swept.Load(),
		Active:    active,
		IsRunning: isRunning,
	}
}
