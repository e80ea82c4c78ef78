// Package metrics provides the in-memory execution counters the dispatch
// engine records against: attempts, successes, failures by reason, errors by
// cause, and duration samples, all keyed by canonical command name.
//
// Counters are atomic and contention-free on the hot path; Snapshot returns
// a point-in-time copy suitable for status commands or periodic logging:
//
//	collector := metrics.New()
//	collector.RecordAttempt("ping")
//	collector.RecordSuccess("ping")
//	collector.RecordExecutionTime("ping", 12*time.Millisecond)
//
//	snap := collector.Snapshot()
//	stats := snap.Commands["ping"]
//	log.Info("command stats",
//		slog.Int64("attempts", stats.Attempts),
//		slog.Duration("avg", stats.AvgDuration()),
//	)
package metrics
