package query

import (
	"context"
	"log/slog"
	"time"
)

// Performance is the timing metadata attached to every read response.
type Performance struct {
	QueryName       string `json:"query_name"`
	ExecutionTimeMs int64  `json:"execution_time_ms"`
}

// Measure runs fn and records its wall-clock execution time. Errors from
// fn propagate unchanged; timing is reported either way. Runs slower than
// threshold are logged as slow queries (a threshold of 0 disables the
// warning). Slow reads are flagged, never aborted.
func Measure[T any](ctx context.Context, name string, threshold time.Duration, fn func(context.Context) (T, error)) (T, Performance, error) {
	start := time.Now()
	result, err := fn(ctx)
	elapsed := time.Since(start)

	perf := Performance{
		QueryName:       name,
		ExecutionTimeMs: elapsed.Milliseconds(),
	}

	if threshold > 0 && elapsed > threshold {
		slog.Warn("slow query",
			"query", name,
			"duration", elapsed.String(),
			"threshold", threshold.String(),
		)
	}

	return result, perf, err
}
