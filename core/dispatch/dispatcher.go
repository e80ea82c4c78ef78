package dispatch

import (
	"context"
	"log/slog"

	"github.com/bunnys/nexus/core/command"
	"github.com/bunnys/nexus/core/logger"
	"github.com/bunnys/nexus/core/metrics"
	"github.com/bunnys/nexus/core/registry"
)

// Request carries one inbound command trigger plus the facts pre-execution
// checks need to rule on it. Token is the raw command word as the user
// typed it; Payload is passed through to the handler untouched.
type Request struct {
	Category      command.Category
	Token         string
	CallerID      string
	GuildID       string
	ChannelNSFW   bool
	CallerPerms   []command.Permission
	ExecutorPerms []command.Permission
	Payload       any
}

// Verdict is the result of pre-execution verification. A disallowed
// verdict carries the reason used as a metric key and the message shown
// to the user.
type Verdict struct {
	Allowed bool
	Reason  FailureReason
	Message string
}

// Allow returns the verdict that lets the command run.
func Allow() Verdict {
	return Verdict{Allowed: true}
}

// Deny returns a verdict that blocks the command with a reason and a
// user-facing explanation.
func Deny(reason FailureReason, message string) Verdict {
	return Verdict{Reason: reason, Message: message}
}

// Verifier rules on whether a matched command may run for this request.
// Verification is fail-closed: the dispatcher treats any disallowed
// verdict as final and never executes the handler.
type Verifier interface {
	Verify(ctx context.Context, req Request, desc command.Descriptor) Verdict
}

// Sink delivers user-facing notices back to the platform the request came
// from. Reply is for plain notices, ReplyError for failure notices with a
// heading. Implementations decide presentation.
type Sink interface {
	Reply(ctx context.Context, inv Invocation, message string) error
	ReplyError(ctx context.Context, inv Invocation, title, message string) error
}

// CallerRecorder observes which callers use commands. It is invoked
// best-effort off the dispatch path, typically backed by a user store.
type CallerRecorder interface {
	RecordCaller(ctx context.Context, callerID string) error
}

// verifyFailedTitle heads notices for commands blocked before execution.
const verifyFailedTitle = "Command Check Failed"

// verifyFailedFallback is shown when a verifier denies a command without
// supplying its own message.
const verifyFailedFallback = "You can't use this command right now."

// Dispatcher runs the full pipeline for inbound command requests: registry
// lookup, attempt accounting, pre-execution verification, and execution on
// the engine. It shares the engine's logger and metrics collector.
type Dispatcher struct {
	registry  *registry.Registry
	engine    *Engine
	collector *metrics.Collector
	logger    *slog.Logger
	verifier  Verifier
	sink      Sink
	recorder  CallerRecorder
}

// DispatcherOption configures a Dispatcher during construction.
type DispatcherOption func(*Dispatcher)

// WithVerifier sets the pre-execution verifier. Without one, every matched
// command is allowed to run.
func WithVerifier(v Verifier) DispatcherOption {
	return func(d *Dispatcher) {
		if v != nil {
			d.verifier = v
		}
	}
}

// WithSink sets the destination for user-facing failure notices. Without
// one, failures are logged but the user is not notified.
func WithSink(s Sink) DispatcherOption {
	return func(d *Dispatcher) {
		if s != nil {
			d.sink = s
		}
	}
}

// WithCallerRecorder sets the hook that records command callers.
func WithCallerRecorder(r CallerRecorder) DispatcherOption {
	return func(d *Dispatcher) {
		if r != nil {
			d.recorder = r
		}
	}
}

// NewDispatcher creates a dispatcher on top of a registry and an engine.
func NewDispatcher(reg *registry.Registry, engine *Engine, opts ...DispatcherOption) (*Dispatcher, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if engine == nil {
		return nil, ErrNilEngine
	}
	d := &Dispatcher{
		registry:  reg,
		engine:    engine,
		collector: engine.collector,
		logger:    engine.logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dispatch resolves and executes one command request, returning a channel
// that delivers its single Outcome. Unknown tokens resolve immediately and
// silently; blocked and failed executions notify the user through the sink
// before the outcome is delivered.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) <-chan Outcome {
	out := make(chan Outcome, 1)

	entry, ok := d.registry.Find(req.Category, req.Token)
	name := registry.Canonical(req.Token)
	if ok {
		name = registry.Canonical(entry.Descriptor.Name())
	}
	inv := NewInvocation(req.Category, name, req.CallerID)

	if !ok {
		if d.collector != nil {
			d.collector.RecordFailure(inv.Command, string(ReasonUnknownCommand))
		}
		d.logger.DebugContext(ctx, "unknown command",
			logger.Component("dispatch"),
			logger.Command(inv.Command),
			logger.Category(inv.Category.String()),
			logger.TraceID(inv.TraceID),
		)
		d.deliver(out, Outcome{
			Status:   StatusValidationFailed,
			TraceID:  inv.TraceID,
			Command:  inv.Command,
			Category: inv.Category,
			Reason:   ReasonUnknownCommand,
		})
		return out
	}

	d.logger.DebugContext(ctx, "command received",
		logger.Component("dispatch"),
		logger.Command(inv.Command),
		logger.Category(inv.Category.String()),
		logger.CallerID(inv.CallerID),
		logger.TraceID(inv.TraceID),
	)
	if d.collector != nil {
		d.collector.RecordAttempt(inv.Command)
	}

	// Replies and the caller record outlive the inbound request context.
	hookCtx := context.WithoutCancel(ctx)
	if d.recorder != nil {
		go d.recordCaller(hookCtx, inv)
	}

	if d.verifier != nil {
		verdict := d.verifier.Verify(ctx, req, entry.Descriptor)
		if !verdict.Allowed {
			if d.collector != nil {
				d.collector.RecordFailure(inv.Command, string(verdict.Reason))
			}
			d.logger.DebugContext(ctx, "command verification failed",
				logger.Component("dispatch"),
				logger.Command(inv.Command),
				slog.String("reason", string(verdict.Reason)),
				logger.TraceID(inv.TraceID),
			)
			message := verdict.Message
			if message == "" {
				message = verifyFailedFallback
			}
			d.replyError(hookCtx, inv, verifyFailedTitle, message)
			d.deliver(out, Outcome{
				Status:   StatusValidationFailed,
				TraceID:  inv.TraceID,
				Command:  inv.Command,
				Category: inv.Category,
				Reason:   verdict.Reason,
			})
			return out
		}
	}

	handler := entry.Handler
	payload := req.Payload
	engineOut := d.engine.Submit(ctx, inv, func(ctx context.Context) error {
		return handler.Handle(ctx, payload)
	})
	go d.forward(hookCtx, inv, engineOut, out)
	return out
}

// forward relays the engine outcome, notifying the user first when the
// execution failed in a way that warrants a notice.
func (d *Dispatcher) forward(ctx context.Context, inv Invocation, in <-chan Outcome, out chan<- Outcome) {
	oc := <-in
	switch oc.Status {
	case StatusTimeout, StatusError:
		d.replyError(ctx, inv, oc.UserTitle(), oc.UserMessage())
	}
	d.deliver(out, oc)
}

func (d *Dispatcher) deliver(out chan<- Outcome, oc Outcome) {
	out <- oc
	close(out)
}

// replyError sends a failure notice and logs delivery problems instead of
// surfacing them; the outcome is already decided at this point.
func (d *Dispatcher) replyError(ctx context.Context, inv Invocation, title, message string) {
	if d.sink == nil || message == "" {
		return
	}
	if err := d.sink.ReplyError(ctx, inv, title, message); err != nil {
		d.logger.Warn("failed to deliver error notice",
			logger.Component("dispatch"),
			logger.Command(inv.Command),
			logger.TraceID(inv.TraceID),
			logger.Error(err),
		)
	}
}

func (d *Dispatcher) recordCaller(ctx context.Context, inv Invocation) {
	if err := d.recorder.RecordCaller(ctx, inv.CallerID); err != nil {
		d.logger.Debug("caller record failed",
			logger.Component("dispatch"),
			logger.CallerID(inv.CallerID),
			logger.Error(err),
		)
	}
}
