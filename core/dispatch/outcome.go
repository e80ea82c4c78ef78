package dispatch

import (
	"fmt"
	"time"

	"github.com/bunnys/nexus/core/command"
)

// Status classifies how a command execution attempt ended. Every submitted
// invocation resolves to exactly one status.
type Status uint8

const (
	// StatusSuccess means the handler returned without error before its deadline.
	StatusSuccess Status = iota

	// StatusTimeout means the handler exceeded its deadline and was cancelled.
	StatusTimeout

	// StatusValidationFailed means the command never ran because a
	// pre-execution check rejected it.
	StatusValidationFailed

	// StatusError means the handler returned an error or panicked.
	StatusError

	// StatusRejected means the command was refused because shutdown is
	// in progress.
	StatusRejected
)

// String returns the lowercase status name used in logs.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusTimeout:
		return "timeout"
	case StatusValidationFailed:
		return "validation_failed"
	case StatusError:
		return "error"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// FailureReason labels why an invocation was turned away before execution.
// Reasons double as metric keys, so they stay stable across releases.
type FailureReason string

const (
	ReasonUnknownCommand             FailureReason = "unknown_command"
	ReasonDevOnly                    FailureReason = "developer_only"
	ReasonTestOnly                   FailureReason = "test_server_only"
	ReasonNSFW                       FailureReason = "nsfw_channel_required"
	ReasonMissingCallerPermissions   FailureReason = "missing_caller_permissions"
	ReasonMissingExecutorPermissions FailureReason = "missing_executor_permissions"
	ReasonCooldownActive             FailureReason = "cooldown_active"
	ReasonShutdown                   FailureReason = "shutdown_in_progress"
)

// Outcome is the terminal result of a dispatched invocation. Exactly one
// outcome is delivered per invocation, after all side effects (metrics,
// logging) for it have been applied.
type Outcome struct {
	Status   Status
	TraceID  string
	Command  string
	Category command.Category
	Duration time.Duration
	Reason   FailureReason
	Err      error
}

const (
	timeoutTitle = "Command Timed Out"
	errorTitle   = "Something went wrong"
)

// UserTitle returns the heading for the user-facing notice, or empty when
// the outcome produces no notice.
func (o Outcome) UserTitle() string {
	switch o.Status {
	case StatusTimeout:
		return timeoutTitle
	case StatusError:
		return errorTitle
	default:
		return ""
	}
}

// UserMessage returns the user-facing notice for failed executions. The
// trace ID is included so users can quote it to support. Statuses that are
// silent towards the user return an empty string.
func (o Outcome) UserMessage() string {
	switch o.Status {
	case StatusTimeout:
		return fmt.Sprintf(
			"Your command `%s` took too long and was cancelled.\nPlease try again in a moment. (`%s`)",
			o.displayName(), o.TraceID,
		)
	case StatusError:
		return fmt.Sprintf(
			"We ran into an issue while running `%s`. This isn't your fault.\nPlease try again. If this keeps happening, share this code with support: `%s`",
			o.displayName(), o.TraceID,
		)
	default:
		return ""
	}
}

// displayName renders the command the way the user typed it: interaction
// commands carry the slash prefix, text commands stay bare.
func (o Outcome) displayName() string {
	if o.Category == command.CategoryMessage {
		return o.Command
	}
	return "/" + o.Command
}
