package query

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMeasureReturnsResultAndTiming(t *testing.T) {
	ctx := context.Background()

	got, perf, err := Measure(ctx, "listBlogs", time.Second, func(ctx context.Context) ([]string, error) {
		time.Sleep(5 * time.Millisecond)
		return []string{"a", "b"}, nil
	})
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("result: got %v", got)
	}
	if perf.QueryName != "listBlogs" {
		t.Errorf("QueryName: got %q", perf.QueryName)
	}
	if perf.ExecutionTimeMs < 5 {
		t.Errorf("ExecutionTimeMs: got %d, want >= 5", perf.ExecutionTimeMs)
	}
}

func TestMeasurePropagatesErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("store exploded")

	_, perf, err := Measure(ctx, "related", 0, func(ctx context.Context) (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("error: got %v, want %v", err, boom)
	}
	if perf.QueryName != "related" {
		t.Errorf("timing must be reported even on error, got %+v", perf)
	}
}
