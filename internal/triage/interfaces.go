// Package triage reconciles GitHub search results into the new and stale
// buckets of the maintainer dashboard.
package triage

import (
	"context"
	"time"

	"github.com/spiffcs/maintainer-dashboard/internal/model"
)

// Searcher executes GitHub issue searches. Implementations must be safe to
// call from two goroutines at once.
type Searcher interface {
	// SearchNew runs a single search and returns its first page.
	SearchNew(ctx context.Context, query string) (model.SearchResult, model.RateLimit, error)

	// SearchStale runs the definitely-stale and maybe-stale searches as one
	// request. Maybe-stale items carry their timeline comments since since.
	SearchStale(ctx context.Context, defQuery, maybeQuery string, since time.Time) (model.StaleSearch, model.RateLimit, error)
}

// Runner produces a report. It enables mocking the engine in command tests.
type Runner interface {
	Run(ctx context.Context) (*model.Report, error)
}

// Ensure Engine implements Runner interface.
var _ Runner = (*Engine)(nil)
