// counters.go derives the denormalized-counter updates a blog mutation
// implies. blog_count tracks *published* blogs only: it moves on every
// transition in or out of the published state, never on draft-only edits.
package content

import (
	"context"
	"log/slog"
)

// counterDelta is a single category counter adjustment.
type counterDelta struct {
	category string
	delta    int
}

// counterTransitions computes the counter adjustments for a blog moving
// from (prevCategory, prevPublished) to (newCategory, newPublished).
// Creation passes an empty previous state, deletion an empty new state.
func counterTransitions(prevCategory string, prevPublished bool, newCategory string, newPublished bool) []counterDelta {
	prevCounts := prevPublished && prevCategory != ""
	newCounts := newPublished && newCategory != ""

	switch {
	case prevCounts && newCounts:
		if prevCategory == newCategory {
			return nil
		}
		return []counterDelta{
			{category: prevCategory, delta: -1},
			{category: newCategory, delta: +1},
		}
	case prevCounts:
		return []counterDelta{{category: prevCategory, delta: -1}}
	case newCounts:
		return []counterDelta{{category: newCategory, delta: +1}}
	}
	return nil
}

// applyCounterDeltas applies adjustments via the store's atomic per-row
// update. The blog write has already happened by the time this runs; a
// failure here leaves drift, which is logged and left for reconciliation
// rather than propagated to the caller.
func (s *Service) applyCounterDeltas(ctx context.Context, deltas []counterDelta) {
	for _, d := range deltas {
		if err := s.categories.AdjustBlogCount(ctx, d.category, d.delta); err != nil {
			slog.Warn("category counter update failed; drift until reconcile",
				"category", d.category,
				"delta", d.delta,
				"error", err,
			)
		}
	}
}
