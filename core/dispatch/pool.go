package dispatch

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bunnys/nexus/core/logger"
)

type task func()

// workerPool runs tasks on a bounded set of goroutines. A fixed core of
// workers drains a buffered queue; when the queue fills, burst workers are
// spawned up to the configured maximum and retired after sitting idle.
// When both the queue and the worker budget are exhausted, submit falls
// back to running the task on the submitting goroutine so work is slowed
// down rather than dropped.
type workerPool struct {
	queue  chan task
	core   int
	max    int
	idle   time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	workers  int
	draining bool

	wg          sync.WaitGroup
	inlineRuns  atomic.Int64
	burstSpawns atomic.Int64
}

func newWorkerPool(cfg Config, log *slog.Logger) *workerPool {
	p := &workerPool{
		queue:  make(chan task, cfg.QueueCapacity),
		core:   cfg.CorePoolSize,
		max:    cfg.MaxPoolSize,
		idle:   cfg.IdleTimeout,
		logger: log,
	}
	p.mu.Lock()
	for i := 0; i < p.core; i++ {
		p.spawnLocked(nil)
	}
	p.mu.Unlock()
	return p
}

// submit hands a task to the pool. It returns false only when the pool is
// draining; otherwise the task is queued, given to a fresh burst worker,
// or executed inline before submit returns.
func (p *workerPool) submit(t task) bool {
	p.mu.Lock()
	if p.draining {
		p.mu.Unlock()
		return false
	}
	// Sending under the mutex is safe against close: drain sets draining
	// and closes the queue under the same lock.
	select {
	case p.queue <- t:
		p.mu.Unlock()
		return true
	default:
	}
	if p.workers < p.max {
		p.burstSpawns.Add(1)
		p.spawnLocked(t)
		p.mu.Unlock()
		return true
	}
	p.mu.Unlock()

	// Queue and worker budget are saturated. Run on the submitter so the
	// producer is throttled instead of the task being lost.
	p.inlineRuns.Add(1)
	p.logger.Debug("dispatch pool saturated, running task inline",
		logger.Component("dispatch"),
	)
	t()
	return true
}

// spawnLocked starts a worker. Callers must hold p.mu. A nil first task
// starts a permanent core worker; otherwise the worker runs the task and
// retires after idling.
func (p *workerPool) spawnLocked(first task) {
	p.workers++
	p.wg.Add(1)
	if first == nil {
		go p.coreWorker()
		return
	}
	go p.burstWorker(first)
}

func (p *workerPool) coreWorker() {
	defer p.wg.Done()
	defer p.release()
	for t := range p.queue {
		t()
	}
}

func (p *workerPool) burstWorker(first task) {
	defer p.wg.Done()
	defer p.release()
	first()
	timer := time.NewTimer(p.idle)
	defer timer.Stop()
	for {
		select {
		case t, ok := <-p.queue:
			if !ok {
				return
			}
			t()
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(p.idle)
		case <-timer.C:
			return
		}
	}
}

func (p *workerPool) release() {
	p.mu.Lock()
	p.workers--
	p.mu.Unlock()
}

// drain stops intake and closes the queue. Tasks already queued are still
// executed; workers exit once the queue is empty.
func (p *workerPool) drain() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.draining {
		return
	}
	p.draining = true
	close(p.queue)
}

// awaitIdle blocks until every worker has exited or the timeout elapses.
// It reports whether the pool went idle in time.
func (p *workerPool) awaitIdle(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

type poolStats struct {
	LiveWorkers int
	QueueDepth  int
	InlineRuns  int64
	BurstSpawns int64
}

func (p *workerPool) stats() poolStats {
	p.mu.Lock()
	workers := p.workers
	p.mu.Unlock()
	return poolStats{
		LiveWorkers: workers,
		QueueDepth:  len(p.queue),
		InlineRuns:  p.inlineRuns.Load(),
		BurstSpawns: p.burstSpawns.Load(),
	}
}
