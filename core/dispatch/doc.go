// Package dispatch executes commands on a bounded worker pool with
// per-category deadlines, panic containment, and graceful shutdown.
//
// The package has two layers. Engine is the scheduling core: it owns the
// worker pool and turns every submission into exactly one Outcome.
// Dispatcher sits on top and runs the full pipeline for inbound requests:
// registry lookup, attempt accounting, pre-execution verification, handler
// execution, and user-facing failure notices.
//
// # Execution model
//
// Work is scheduled onto a fixed core of workers draining a bounded queue.
// When the queue fills, burst workers are spawned up to a maximum and
// retired after sitting idle. When the queue and the worker budget are
// both exhausted, the work runs on the submitting goroutine, throttling
// the producer instead of dropping the command.
//
// Deadlines are cooperative. Each invocation gets a context that expires
// after the category's timeout, and handlers are expected to return when
// it does. A handler that ignores its context keeps a worker busy past the
// deadline; the engine still resolves the invocation to a timeout outcome
// and logs the late completion when it eventually arrives.
//
// # Outcomes
//
// Every submission resolves to exactly one Outcome: success, timeout,
// validation failure, handler error, or rejection during shutdown. The
// outcome is delivered on a buffered channel after metrics and logging for
// the attempt have been applied, so receivers observe a fully accounted
// result. Timeouts and handler errors carry a short trace ID that is also
// included in the user-facing notice, letting a support conversation be
// matched to logs.
//
// # Usage
//
//	engine, err := dispatch.NewEngine(dispatch.DefaultConfig(),
//		dispatch.WithLogger(log),
//		dispatch.WithMetrics(collector),
//	)
//	if err != nil {
//		return err
//	}
//
//	d, err := dispatch.NewDispatcher(reg, engine,
//		dispatch.WithVerifier(verifier),
//		dispatch.WithSink(sink),
//	)
//	if err != nil {
//		return err
//	}
//
//	outcome := <-d.Dispatch(ctx, dispatch.Request{
//		Category: command.CategoryMessage,
//		Token:    "ping",
//		CallerID: "1096605997433847861",
//	})
//
// # Shutdown
//
// Shutdown stops intake, lets queued and in-flight work finish within the
// grace period, and forces cancellation of whatever remains. It is
// idempotent; repeated calls return nil immediately. Requests arriving
// during shutdown resolve to a rejected outcome and are logged without
// notifying the user.
package dispatch
