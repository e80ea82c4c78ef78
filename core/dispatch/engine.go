package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bunnys/nexus/core/logger"
	"github.com/bunnys/nexus/core/metrics"
)

// Work is a unit of command execution. Implementations must honor ctx
// cancellation: the engine enforces deadlines cooperatively and a handler
// that ignores ctx keeps its worker busy past the timeout.
type Work func(ctx context.Context) error

// Engine executes command work on a bounded worker pool with per-category
// deadlines. Every submission resolves to exactly one Outcome, delivered on
// the channel returned by Submit after metrics and logging for the attempt
// have been applied.
type Engine struct {
	cfg       Config
	pool      *workerPool
	collector *metrics.Collector
	logger    *slog.Logger

	baseCtx context.Context
	cancel  context.CancelFunc

	draining  atomic.Bool
	submitted atomic.Int64
	finished  atomic.Int64
	rejected  atomic.Int64
}

// EngineOption configures an Engine during construction.
type EngineOption func(*Engine)

// WithLogger sets the logger for engine and pool events.
func WithLogger(log *slog.Logger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.logger = log
		}
	}
}

// WithMetrics sets the collector that receives per-command execution
// statistics. Without it the engine runs without recording.
func WithMetrics(collector *metrics.Collector) EngineOption {
	return func(e *Engine) {
		if collector != nil {
			e.collector = collector
		}
	}
}

// NewEngine creates an engine with its core workers already running.
func NewEngine(cfg Config, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.baseCtx, e.cancel = context.WithCancel(context.Background())
	e.pool = newWorkerPool(cfg, e.logger)
	return e, nil
}

// Submit schedules work for the given invocation and returns a channel that
// delivers its single Outcome. Work runs detached from ctx: cancellation
// comes from the per-category deadline or from engine shutdown, not from
// the submitting context. When the pool is saturated the work may run on
// the calling goroutine, in which case Submit blocks until it finishes.
func (e *Engine) Submit(ctx context.Context, inv Invocation, work Work) <-chan Outcome {
	out := make(chan Outcome, 1)
	if inv.TraceID == "" {
		inv.TraceID = NewTraceID()
	}
	e.submitted.Add(1)

	if e.draining.Load() {
		e.finalize(e.rejectedOutcome(inv), out)
		return out
	}

	workCtx, cancel := context.WithTimeout(e.baseCtx, e.cfg.TimeoutFor(inv.Category))
	workCtx = WithTraceID(workCtx, inv.TraceID)
	workCtx = WithCommandName(workCtx, inv.Command)

	started := time.Now()
	execCh := make(chan error, 1)

	// The watcher is armed before the pool sees the task so the deadline
	// is enforced even when submit falls back to running the task inline.
	go e.watch(workCtx, cancel, inv, started, execCh, out)

	run := func() {
		execCh <- e.invoke(workCtx, work)
	}
	if !e.pool.submit(run) {
		execCh <- errPoolClosed
	}
	return out
}

// invoke runs the work with panic containment. Work whose deadline already
// expired while queued is not started at all.
func (e *Engine) invoke(ctx context.Context, work Work) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return work(ctx)
}

// watch resolves the invocation to its single outcome: normal completion,
// deadline expiry, or forced cancellation during shutdown.
func (e *Engine) watch(ctx context.Context, cancel context.CancelFunc, inv Invocation, started time.Time, execCh <-chan error, out chan<- Outcome) {
	defer cancel()
	select {
	case err := <-execCh:
		e.finalize(e.classify(inv, started, err), out)
	case <-ctx.Done():
		// Completion and expiry can race; prefer the completion if it
		// already arrived.
		select {
		case err := <-execCh:
			e.finalize(e.classify(inv, started, err), out)
			return
		default:
		}
		go e.drainLate(inv, started, execCh)
		e.finalize(e.classify(inv, started, ctx.Err()), out)
	}
}

// drainLate consumes the handler result that arrives after the outcome has
// been decided, so the worker that ran it is never blocked on execCh.
func (e *Engine) drainLate(inv Invocation, started time.Time, execCh <-chan error) {
	err := <-execCh
	e.logger.Debug("late completion after outcome was decided",
		logger.Component("dispatch"),
		logger.Command(inv.Command),
		logger.TraceID(inv.TraceID),
		logger.Elapsed(started),
		logger.Error(err),
	)
}

func (e *Engine) classify(inv Invocation, started time.Time, err error) Outcome {
	oc := Outcome{
		TraceID:  inv.TraceID,
		Command:  inv.Command,
		Category: inv.Category,
		Duration: time.Since(started),
	}
	switch {
	case err == nil:
		oc.Status = StatusSuccess
	case errors.Is(err, errPoolClosed):
		oc.Status = StatusRejected
		oc.Reason = ReasonShutdown
	case errors.Is(err, context.DeadlineExceeded):
		oc.Status = StatusTimeout
		oc.Err = err
	default:
		oc.Status = StatusError
		oc.Err = err
	}
	return oc
}

func (e *Engine) rejectedOutcome(inv Invocation) Outcome {
	return Outcome{
		Status:   StatusRejected,
		TraceID:  inv.TraceID,
		Command:  inv.Command,
		Category: inv.Category,
		Reason:   ReasonShutdown,
	}
}

// finalize applies metrics and logging for the outcome, then delivers it.
// It is the only writer to the outcome channel.
func (e *Engine) finalize(oc Outcome, out chan<- Outcome) {
	e.finished.Add(1)
	if oc.Status == StatusRejected {
		e.rejected.Add(1)
	}
	e.record(oc)
	e.logOutcome(oc)
	out <- oc
	close(out)
}

func (e *Engine) record(oc Outcome) {
	if e.collector == nil {
		return
	}
	switch oc.Status {
	case StatusSuccess:
		e.collector.RecordSuccess(oc.Command)
		e.collector.RecordExecutionTime(oc.Command, oc.Duration)
	case StatusTimeout:
		e.collector.RecordError(oc.Command, "timeout")
	case StatusError:
		e.collector.RecordError(oc.Command, errorCause(oc.Err))
	case StatusRejected:
		e.collector.RecordFailure(oc.Command, string(ReasonShutdown))
	}
}

// errorCause buckets handler errors into stable metric keys.
func errorCause(err error) string {
	switch {
	case err == nil:
		return "unknown"
	case errors.Is(err, ErrHandlerPanic):
		return "panic"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "handler_error"
	}
}

func (e *Engine) logOutcome(oc Outcome) {
	attrs := []any{
		logger.Component("dispatch"),
		logger.Command(oc.Command),
		logger.Category(oc.Category.String()),
		logger.TraceID(oc.TraceID),
		logger.Duration(oc.Duration),
	}
	switch oc.Status {
	case StatusSuccess:
		e.logger.Debug("command completed", attrs...)
	case StatusTimeout:
		e.logger.Warn("command timed out", attrs...)
	case StatusError:
		e.logger.Error("command failed", append(attrs, logger.Error(oc.Err))...)
	case StatusRejected:
		e.logger.Warn("ignoring command, shutdown in progress", attrs...)
	}
}

// Shutdown stops intake, lets queued and in-flight work finish within the
// grace period, and forces cancellation of whatever remains after it.
// Shutdown is idempotent: concurrent and repeated calls after the first
// return nil immediately.
func (e *Engine) Shutdown() error {
	if !e.draining.CompareAndSwap(false, true) {
		e.logger.Debug("shutdown already initiated", logger.Component("dispatch"))
		return nil
	}
	e.logger.Info("initiating graceful shutdown", logger.Component("dispatch"))
	e.pool.drain()
	if e.pool.awaitIdle(e.cfg.ShutdownGrace) {
		e.cancel()
		e.logger.Info("dispatch shutdown complete", logger.Component("dispatch"))
		return nil
	}
	e.logger.Warn("graceful shutdown timed out, forcing cancellation", logger.Component("dispatch"))
	e.cancel()
	return fmt.Errorf("%w: grace period %s elapsed", ErrShutdownTimeout, e.cfg.ShutdownGrace)
}

// IsShutdown reports whether shutdown has been initiated.
func (e *Engine) IsShutdown() bool {
	return e.draining.Load()
}

// EngineStats is a point-in-time view of engine activity.
type EngineStats struct {
	Submitted    int64
	Finished     int64
	Rejected     int64
	LiveWorkers  int
	QueueDepth   int
	InlineRuns   int64
	BurstWorkers int64
	IsShutdown   bool
}

// Stats returns a snapshot of engine counters and pool occupancy.
func (e *Engine) Stats() EngineStats {
	ps := e.pool.stats()
	return EngineStats{
		Submitted:    e.submitted.Load(),
		Finished:     e.finished.Load(),
		Rejected:     e.rejected.Load(),
		LiveWorkers:  ps.LiveWorkers,
		QueueDepth:   ps.QueueDepth,
		InlineRuns:   ps.InlineRuns,
		BurstWorkers: ps.BurstSpawns,
		IsShutdown:   e.draining.Load(),
	}
}
