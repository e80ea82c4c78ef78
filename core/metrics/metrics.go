package metrics

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Collector accumulates per-command execution counters and timing samples,
// keyed by canonical command name. All record methods are safe to call from
// any goroutine; reads never block writers. Counters accumulate for the
// process lifetime and reset only on restart.
type Collector struct {
	stats sync.Map // command name → *commandStats
}

type commandStats struct {
	attempts    atomic.Int64
	successes   atomic.Int64
	failures    sync.Map // reason → *atomic.Int64
	errorCauses sync.Map // cause → *atomic.Int64

	mu        sync.Mutex
	durations []time.Duration
}

// New creates an empty collector.
func New() *Collector {
	return &Collector{}
}

// RecordAttempt counts one invocation attempt for the command.
func (c *Collector) RecordAttempt(cmd string) {
	c.stat(cmd).attempts.Add(1)
}

// RecordSuccess counts one successful execution.
func (c *Collector) RecordSuccess(cmd string) {
	c.stat(cmd).successes.Add(1)
}

// RecordFailure counts one pre-execution failure under its reason code
// (cooldown, missing permission, unknown command, ...).
func (c *Collector) RecordFailure(cmd, reason string) {
	bump(&c.stat(cmd).failures, reason)
}

// RecordError counts one execution error under its cause category
// (timeout, panic, handler, ...).
func (c *Collector) RecordError(cmd, cause string) {
	bump(&c.stat(cmd).errorCauses, cause)
}

// RecordExecutionTime appends one execution duration sample.
func (c *Collector) RecordExecutionTime(cmd string, d time.Duration) {
	s := c.stat(cmd)
	s.mu.Lock()
	s.durations = append(s.durations, d)
	s.mu.Unlock()
}

func (c *Collector) stat(cmd string) *commandStats {
	if v, ok := c.stats.Load(cmd); ok {
		return v.(*commandStats)
	}
	v, _ := c.stats.LoadOrStore(cmd, &commandStats{})
	return v.(*commandStats)
}

func bump(m *sync.Map, key string) {
	if v, ok := m.Load(key); ok {
		v.(*atomic.Int64).Add(1)
		return
	}
	counter := &atomic.Int64{}
	if v, loaded := m.LoadOrStore(key, counter); loaded {
		v.(*atomic.Int64).Add(1)
		return
	}
	counter.Add(1)
}

// Snapshot is a point-in-time copy of every command's counters. Mutating a
// snapshot has no effect on the collector.
type Snapshot struct {
	TakenAt  time.Time
	Commands map[string]CommandStats
}

// CommandStats holds one command's counters and duration samples.
type CommandStats struct {
	Attempts  int64
	Successes int64
	Failures  map[string]int64 // by reason code
	Errors    map[string]int64 // by cause category
	Durations []time.Duration
}

// TotalFailures sums the per-reason failure counters.
func (s CommandStats) TotalFailures() int64 {
	var n int64
	for _, v := range s.Failures {
		n += v
	}
	return n
}

// TotalErrors sums the per-cause error counters.
func (s CommandStats) TotalErrors() int64 {
	var n int64
	for _, v := range s.Errors {
		n += v
	}
	return n
}

// MinDuration returns the smallest recorded sample, or zero when none exist.
func (s CommandStats) MinDuration() time.Duration {
	if len(s.Durations) == 0 {
		return 0
	}
	return slices.Min(s.Durations)
}

// MaxDuration returns the largest recorded sample, or zero when none exist.
func (s CommandStats) MaxDuration() time.Duration {
	if len(s.Durations) == 0 {
		return 0
	}
	return slices.Max(s.Durations)
}

// AvgDuration returns the mean of the recorded samples, or zero when none exist.
func (s CommandStats) AvgDuration() time.Duration {
	if len(s.Durations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range s.Durations {
		total += d
	}
	return total / time.Duration(len(s.Durations))
}

// Snapshot returns a point-in-time copy of all recorded stats.
func (c *Collector) Snapshot() Snapshot {
	snap := Snapshot{
		TakenAt:  time.Now(),
		Commands: make(map[string]CommandStats),
	}
	c.stats.Range(func(k, v any) bool {
		s := v.(*commandStats)
		cs := CommandStats{
			Attempts:  s.attempts.Load(),
			Successes: s.successes.Load(),
			Failures:  copyCounters(&s.failures),
			Errors:    copyCounters(&s.errorCauses),
		}
		s.mu.Lock()
		cs.Durations = slices.Clone(s.durations)
		s.mu.Unlock()
		snap.Commands[k.(string)] = cs
		return true
	})
	return snap
}

func copyCounters(m *sync.Map) map[string]int64 {
	out := make(map[string]int64)
	m.Range(func(k, v any) bool {
		out[k.(string)] = v.(*atomic.Int64).Load()
		return true
	})
	return out
}
