package lifecycle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/bunnys/nexus/core/command"
	"github.com/bunnys/nexus/core/logger"
	"github.com/bunnys/nexus/core/registry"
)

// Item is one loadable command. Build produces the descriptor and handler
// when the item's turn comes; a failing or panicking builder fails only
// this item, never the batch.
type Item struct {
	Name  string
	Build func(ctx context.Context) (command.Descriptor, command.Handler, error)
}

// StaticItem wraps an already built descriptor and handler as an Item.
func StaticItem(desc command.Descriptor, handler command.Handler) Item {
	return Item{
		Name: desc.Name(),
		Build: func(context.Context) (command.Descriptor, command.Handler, error) {
			return desc, handler, nil
		},
	}
}

// Source is a named batch of items loaded together, typically one feature
// area or plugin.
type Source struct {
	Name  string
	Items []Item
}

// SourceReport summarizes one source after loading.
type SourceReport struct {
	Name    string
	Loaded  int
	Failed  int
	Skipped int
}

// ItemFailure records one item that could not be loaded.
type ItemFailure struct {
	Source string
	Item   string
	Err    error
}

// Report summarizes a completed load across all sources.
type Report struct {
	Loaded     int
	Failed     int
	Skipped    int
	ByCategory map[command.Category]int
	Sources    []SourceReport
	Failures   []ItemFailure
}

// Coordinator registers commands from configured sources in a fixed order:
// mandatory sources first, then default sources with disabled items
// skipped, then custom sources. Later sources lose name conflicts against
// earlier ones, so built-ins cannot be shadowed by custom commands.
type Coordinator struct {
	registry  *registry.Registry
	logger    *slog.Logger
	mandatory []Source
	defaults  []Source
	custom    []Source
	disabled  map[string]struct{}
	loaded    atomic.Bool
}

// Option configures a Coordinator during construction.
type Option func(*Coordinator)

// WithMandatory appends sources loaded first. Items here cannot be
// disabled.
func WithMandatory(sources ...Source) Option {
	return func(c *Coordinator) {
		c.mandatory = append(c.mandatory, sources...)
	}
}

// WithDefaults appends sources loaded after the mandatory ones. Items in
// these sources can be switched off with WithDisabledDefaults.
func WithDefaults(sources ...Source) Option {
	return func(c *Coordinator) {
		c.defaults = append(c.defaults, sources...)
	}
}

// WithCustom appends sources loaded last.
func WithCustom(sources ...Source) Option {
	return func(c *Coordinator) {
		c.custom = append(c.custom, sources...)
	}
}

// WithDisabledDefaults names default items to skip. Names are matched
// case-insensitively after trimming.
func WithDisabledDefaults(names ...string) Option {
	return func(c *Coordinator) {
		for _, name := range names {
			if canonical := registry.Canonical(name); canonical != "" {
				c.disabled[canonical] = struct{}{}
			}
		}
	}
}

// WithLogger sets the logger for load progress and failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.logger = log
		}
	}
}

// New creates a coordinator that loads into the given registry.
func New(reg *registry.Registry, opts ...Option) (*Coordinator, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	c := &Coordinator{
		registry: reg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		disabled: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Load registers all configured sources and returns a report of what was
// loaded, skipped, and failed. Individual item failures are tolerated and
// reported; they never abort the load. Load runs at most once per
// coordinator; repeated calls return ErrAlreadyLoaded.
func (c *Coordinator) Load(ctx context.Context) (Report, error) {
	if !c.loaded.CompareAndSwap(false, true) {
		return Report{}, ErrAlreadyLoaded
	}

	report := Report{ByCategory: make(map[command.Category]int)}
	for _, src := range c.mandatory {
		c.loadSource(ctx, src, false, &report)
	}
	for _, src := range c.defaults {
		c.loadSource(ctx, src, true, &report)
	}
	for _, src := range c.custom {
		c.loadSource(ctx, src, false, &report)
	}

	c.logger.InfoContext(ctx, "command loading complete",
		logger.Component("lifecycle"),
		logger.Count("loaded", report.Loaded),
		logger.Count("failed", report.Failed),
		logger.Count("skipped", report.Skipped),
	)
	return report, nil
}

func (c *Coordinator) loadSource(ctx context.Context, src Source, honorDisabled bool, report *Report) {
	sr := SourceReport{Name: src.Name}
	for _, item := range src.Items {
		if honorDisabled {
			if _, off := c.disabled[registry.Canonical(item.Name)]; off {
				sr.Skipped++
				c.logger.DebugContext(ctx, "skipping disabled default command",
					logger.Component("lifecycle"),
					slog.String("source", src.Name),
					logger.Command(item.Name),
				)
				continue
			}
		}

		desc, handler, err := c.buildItem(ctx, item)
		if err == nil {
			err = c.registry.Register(desc, handler)
		}
		if err != nil {
			sr.Failed++
			report.Failures = append(report.Failures, ItemFailure{Source: src.Name, Item: item.Name, Err: err})
			c.logger.ErrorContext(ctx, "failed to load command",
				logger.Component("lifecycle"),
				slog.String("source", src.Name),
				logger.Command(item.Name),
				logger.Error(err),
			)
			continue
		}

		sr.Loaded++
		report.ByCategory[desc.Category()]++
	}

	report.Loaded += sr.Loaded
	report.Failed += sr.Failed
	report.Skipped += sr.Skipped
	report.Sources = append(report.Sources, sr)

	c.logger.InfoContext(ctx, "source loaded",
		logger.Component("lifecycle"),
		slog.String("source", src.Name),
		logger.Count("loaded", sr.Loaded),
		logger.Count("failed", sr.Failed),
		logger.Count("skipped", sr.Skipped),
	)
}

// buildItem runs the item builder with panic containment.
func (c *Coordinator) buildItem(ctx context.Context, item Item) (desc command.Descriptor, handler command.Handler, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrBuildPanic, r)
		}
	}()
	if item.Build == nil {
		return command.Descriptor{}, nil, ErrNilBuilder
	}
	return item.Build(ctx)
}

// Loaded reports whether Load has been called.
func (c *Coordinator) Loaded() bool {
	return c.loaded.Load()
}

// String renders a short human-readable load summary, mirroring the order
// categories are declared in.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "loaded %d command(s), %d failed, %d skipped", r.Loaded, r.Failed, r.Skipped)
	for _, cat := range command.Categories() {
		if n := r.ByCategory[cat]; n > 0 {
			fmt.Fprintf(&b, ", %d %s", n, cat)
		}
	}
	return b.String()
}
