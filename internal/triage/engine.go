package triage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spiffcs/maintainer-dashboard/internal/constants"
	"github.com/spiffcs/maintainer-dashboard/internal/log"
	"github.com/spiffcs/maintainer-dashboard/internal/model"
	"github.com/spiffcs/maintainer-dashboard/internal/query"
	"github.com/spiffcs/maintainer-dashboard/internal/registry"
)

// Engine orchestrates one dashboard run: build queries, search, classify.
type Engine struct {
	searcher   Searcher
	builder    *query.Builder
	classifier *Classifier
	window     time.Duration
	clock      func() time.Time
	progress   ProgressFunc
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithStaleWindow overrides the default 14 day staleness window.
func WithStaleWindow(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.window = d
		}
	}
}

// WithClock overrides the time source used to compute the cutoff.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// NewEngine creates an engine for the registry's repositories and insiders.
func NewEngine(searcher Searcher, reg *registry.Registry, opts ...EngineOption) (*Engine, error) {
	if searcher == nil {
		return nil, errors.New("searcher is required")
	}
	builder, err := query.NewBuilder(reg)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		searcher:   searcher,
		builder:    builder,
		classifier: NewClassifier(reg),
		window:     constants.DefaultStaleWindow,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Cutoff returns the instant before which inactivity counts as stale.
func (e *Engine) Cutoff() time.Time {
	return e.clock().Add(-e.window)
}

// Queries returns the three search strings for cutoff.
func (e *Engine) Queries(cutoff time.Time) (newQ, defQ, maybeQ string) {
	return e.builder.NewItems(), e.builder.DefinitelyStale(cutoff), e.builder.MaybeStale(cutoff)
}

// Run performs both searches concurrently and reduces them to a report.
// A failure of either search fails the whole run.
func (e *Engine) Run(ctx context.Context) (*model.Report, error) {
	cutoff := e.Cutoff()
	newQ, defQ, maybeQ := e.Queries(cutoff)

	if log.IsDebug() {
		log.Debug("built queries", "cutoff", query.FormatTimestamp(cutoff))
		log.Debug("new query", "q", newQ)
		log.Debug("definitely stale query", "q", defQ)
		log.Debug("maybe stale query", "q", maybeQ)
	}

	var (
		newRes    model.SearchResult
		newRate   model.RateLimit
		staleRes  model.StaleSearch
		staleRate model.RateLimit
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer log.Timed("new search finished", time.Now())
		e.report(Progress{Stage: StageSearchNew})
		var err error
		newRes, newRate, err = e.searcher.SearchNew(gctx, newQ)
		e.report(Progress{Stage: StageSearchNew, Done: true, Count: newRes.IssueCount, Err: err})
		if err != nil {
			return fmt.Errorf("new items search: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer log.Timed("stale search finished", time.Now())
		e.report(Progress{Stage: StageSearchStale})
		var err error
		staleRes, staleRate, err = e.searcher.SearchStale(gctx, defQ, maybeQ, cutoff)
		e.report(Progress{
			Stage: StageSearchStale,
			Done:  true,
			Count: staleRes.DefinitelyStale.IssueCount + len(staleRes.MaybeStale.Items),
			Err:   err,
		})
		if err != nil {
			return fmt.Errorf("stale items search: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.report(Progress{Stage: StageClassify})
	confirmed := e.classifier.Confirm(staleRes.MaybeStale.Items, cutoff)
	e.report(Progress{Stage: StageClassify, Done: true, Count: len(confirmed)})
	newBucket, staleBucket := Aggregate(newRes, staleRes.DefinitelyStale, confirmed)

	log.Info("triage complete",
		"new", newBucket.Count,
		"stale", staleBucket.Count,
		"maybe_stale_candidates", len(staleRes.MaybeStale.Items),
		"confirmed", len(confirmed))

	rates := []model.RateLimit{newRate, staleRate}
	for _, r := range rates {
		log.Debug("rate limit", "cost", r.Cost, "remaining", r.Remaining, "limit", r.Limit, "reset", r.ResetAt)
		if r.Limit > 0 && r.Remaining < constants.RateLimitLowWatermark {
			log.Warn("GraphQL rate limit running low", "remaining", r.Remaining, "reset", r.ResetAt)
		}
	}

	return &model.Report{
		Cutoff:     cutoff,
		New:        newBucket,
		Stale:      staleBucket,
		RateLimits: rates,
	}, nil
}
