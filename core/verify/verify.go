package verify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/bunnys/nexus/core/command"
	"github.com/bunnys/nexus/core/cooldown"
	"github.com/bunnys/nexus/core/dispatch"
	"github.com/bunnys/nexus/core/logger"
)

// User-facing messages for each gate. Kept short; the dispatcher adds the
// heading.
const (
	devOnlyMessage  = "This command is restricted to the bot developers."
	testOnlyMessage = "This command is only available on test servers."
	nsfwMessage     = "This command only works in age-restricted channels."
)

// Verifier runs the pre-execution gates for matched commands. Gates are
// checked in a fixed order and the first failure wins: developer
// restriction, test-server restriction, channel age restriction, caller
// permissions, executor permissions, and last the cooldown. The cooldown
// comes last so a command blocked by an earlier gate never burns the
// caller's cooldown window.
type Verifier struct {
	developers  map[string]struct{}
	testServers map[string]struct{}
	cooldowns   cooldown.Store
	logger      *slog.Logger
}

// Option configures a Verifier during construction.
type Option func(*Verifier)

// WithDevelopers sets the caller IDs allowed to run developer-only commands.
func WithDevelopers(ids ...string) Option {
	return func(v *Verifier) {
		for _, id := range ids {
			if id = strings.TrimSpace(id); id != "" {
				v.developers[id] = struct{}{}
			}
		}
	}
}

// WithTestServers sets the guild IDs where test-only commands may run.
func WithTestServers(ids ...string) Option {
	return func(v *Verifier) {
		for _, id := range ids {
			if id = strings.TrimSpace(id); id != "" {
				v.testServers[id] = struct{}{}
			}
		}
	}
}

// WithCooldowns sets the store backing per-caller cooldowns. Without a
// store, cooldown windows declared on descriptors are not enforced.
func WithCooldowns(store cooldown.Store) Option {
	return func(v *Verifier) {
		if store != nil {
			v.cooldowns = store
		}
	}
}

// WithLogger sets the logger for verification events.
func WithLogger(log *slog.Logger) Option {
	return func(v *Verifier) {
		if log != nil {
			v.logger = log
		}
	}
}

// New creates a Verifier. With no options every gate that needs
// configuration (developers, test servers, cooldowns) denies or skips
// conservatively: developer-only and test-only commands are denied for
// everyone, cooldowns are not enforced.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		developers:  make(map[string]struct{}),
		testServers: make(map[string]struct{}),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify rules on a matched command. It never runs the handler; the
// returned verdict is final for this invocation.
func (v *Verifier) Verify(ctx context.Context, req dispatch.Request, desc command.Descriptor) dispatch.Verdict {
	if desc.DevOnly() {
		if _, ok := v.developers[req.CallerID]; !ok {
			return dispatch.Deny(dispatch.ReasonDevOnly, devOnlyMessage)
		}
	}
	if desc.TestOnly() {
		if _, ok := v.testServers[req.GuildID]; !ok {
			return dispatch.Deny(dispatch.ReasonTestOnly, testOnlyMessage)
		}
	}
	if desc.NSFW() && !req.ChannelNSFW {
		return dispatch.Deny(dispatch.ReasonNSFW, nsfwMessage)
	}
	if missing := missingPermissions(desc.CallerPermissions(), req.CallerPerms); len(missing) > 0 {
		return dispatch.Deny(dispatch.ReasonMissingCallerPermissions,
			fmt.Sprintf("You need the following permissions to use this command: %s.", joinPermissions(missing)))
	}
	if missing := missingPermissions(desc.ExecutorPermissions(), req.ExecutorPerms); len(missing) > 0 {
		return dispatch.Deny(dispatch.ReasonMissingExecutorPermissions,
			fmt.Sprintf("I'm missing the permissions I need to run this command: %s.", joinPermissions(missing)))
	}
	return v.checkCooldown(ctx, req, desc)
}

// checkCooldown reserves the caller's cooldown window. Store errors fail
// open with a warning: an unreachable store should slow abuse handling,
// not take every command down with it.
func (v *Verifier) checkCooldown(ctx context.Context, req dispatch.Request, desc command.Descriptor) dispatch.Verdict {
	period := desc.Cooldown()
	if period <= 0 || v.cooldowns == nil {
		return dispatch.Allow()
	}
	ok, remaining, err := v.cooldowns.Reserve(ctx, cooldown.Key(desc.Name(), req.CallerID), period)
	if err != nil {
		v.logger.WarnContext(ctx, "cooldown store unavailable, allowing command",
			logger.Component("verify"),
			logger.Command(desc.Name()),
			logger.Error(err),
		)
		return dispatch.Allow()
	}
	if !ok {
		return dispatch.Deny(dispatch.ReasonCooldownActive,
			fmt.Sprintf("You're still on cooldown for `%s`. Try again in %s.", desc.Name(), waitHint(remaining)))
	}
	return dispatch.Allow()
}

// missingPermissions returns the required permissions absent from held,
// preserving declaration order.
func missingPermissions(required, held []command.Permission) []command.Permission {
	if len(required) == 0 {
		return nil
	}
	have := make(map[command.Permission]struct{}, len(held))
	for _, p := range held {
		have[p] = struct{}{}
	}
	var missing []command.Permission
	for _, p := range required {
		if _, ok := have[p]; !ok {
			missing = append(missing, p)
		}
	}
	return missing
}

func joinPermissions(perms []command.Permission) string {
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// waitHint renders the remaining cooldown in a user-friendly precision.
func waitHint(remaining time.Duration) string {
	if remaining <= 0 {
		return "a moment"
	}
	if remaining < time.Second {
		return remaining.Round(100 * time.Millisecond).String()
	}
	return remaining.Round(time.Second).String()
}
