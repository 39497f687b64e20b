package triage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spiffcs/maintainer-dashboard/internal/model"
	"github.com/spiffcs/maintainer-dashboard/internal/query"
	"github.com/spiffcs/maintainer-dashboard/internal/registry"
)

var testCutoff = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeSearcher records the queries it receives and returns canned results.
type fakeSearcher struct {
	mu sync.Mutex

	newResult   model.SearchResult
	staleResult model.StaleSearch
	rate        model.RateLimit
	newErr      error
	staleErr    error

	newQueries   []string
	defQueries   []string
	maybeQueries []string
	since        []time.Time
}

func (f *fakeSearcher) SearchNew(_ context.Context, q string) (model.SearchResult, model.RateLimit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.newQueries = append(f.newQueries, q)
	if f.newErr != nil {
		return model.SearchResult{}, model.RateLimit{}, f.newErr
	}
	return f.newResult, f.rate, nil
}

func (f *fakeSearcher) SearchStale(_ context.Context, defQ, maybeQ string, since time.Time) (model.StaleSearch, model.RateLimit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defQueries = append(f.defQueries, defQ)
	f.maybeQueries = append(f.maybeQueries, maybeQ)
	f.since = append(f.since, since)
	if f.staleErr != nil {
		return model.StaleSearch{}, model.RateLimit{}, f.staleErr
	}
	return f.staleResult, f.rate, nil
}

func makeItem(number int) model.Item {
	return model.Item{
		Kind:       model.KindIssue,
		Number:     number,
		Title:      "item",
		Author:     &model.Actor{Login: "carol"},
		Repository: model.Repository{Name: "a", NameWithOwner: "org/a"},
	}
}

func withComments(item model.Item, comments ...model.Comment) model.Item {
	item.TimelineComments = comments
	return item
}

func comment(login string, at time.Time) model.Comment {
	if login == "" {
		return model.Comment{UpdatedAt: at}
	}
	return model.Comment{Author: &model.Actor{Login: login}, UpdatedAt: at}
}

func itemNumbers(items []model.Item) []int {
	nums := make([]int, 0, len(items))
	for _, it := range items {
		nums = append(nums, it.Number)
	}
	return nums
}

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New([]string{"org/a"}, []string{"alice"})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func fixedClock() time.Time {
	return testCutoff.Add(14 * 24 * time.Hour)
}

func TestEngineRun(t *testing.T) {
	reg := newTestRegistry(t)
	searcher := &fakeSearcher{
		newResult: model.SearchResult{IssueCount: 1, Items: []model.Item{makeItem(10)}},
		staleResult: model.StaleSearch{
			DefinitelyStale: model.SearchResult{IssueCount: 2, Items: []model.Item{makeItem(1), makeItem(2)}},
			MaybeStale: model.SearchResult{IssueCount: 1, Items: []model.Item{
				withComments(makeItem(3), comment("alice", time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC))),
			}},
		},
		rate: model.RateLimit{Limit: 5000, Cost: 1, Remaining: 4999},
	}

	engine, err := NewEngine(searcher, reg, WithClock(fixedClock))
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !report.Cutoff.Equal(testCutoff) {
		t.Errorf("Cutoff = %v, want %v", report.Cutoff, testCutoff)
	}
	if report.New.Count != 1 {
		t.Errorf("New.Count = %d, want 1", report.New.Count)
	}
	if report.Stale.Count != 3 {
		t.Errorf("Stale.Count = %d, want 3", report.Stale.Count)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, itemNumbers(report.Stale.Items)); diff != "" {
		t.Errorf("Stale.Items mismatch (-want +got):\n%s", diff)
	}
	if len(report.RateLimits) != 2 {
		t.Errorf("RateLimits len = %d, want 2", len(report.RateLimits))
	}
}

func TestEngineRunSharesCutoff(t *testing.T) {
	reg := newTestRegistry(t)
	searcher := &fakeSearcher{}

	engine, err := NewEngine(searcher, reg, WithClock(fixedClock))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(searcher.newQueries) != 1 || len(searcher.defQueries) != 1 {
		t.Fatalf("expected exactly one call of each search, got new=%d stale=%d",
			len(searcher.newQueries), len(searcher.defQueries))
	}

	ts := query.FormatTimestamp(testCutoff)
	if !strings.Contains(searcher.defQueries[0], "updated:<="+ts) {
		t.Errorf("definitely-stale query %q does not use cutoff %s", searcher.defQueries[0], ts)
	}
	if !strings.Contains(searcher.maybeQueries[0], "updated:>"+ts) || !strings.Contains(searcher.maybeQueries[0], "created:<="+ts) {
		t.Errorf("maybe-stale query %q does not use cutoff %s", searcher.maybeQueries[0], ts)
	}
	if !searcher.since[0].Equal(testCutoff) {
		t.Errorf("timeline since = %v, want %v", searcher.since[0], testCutoff)
	}
	if want := query.BuildNewItems([]string{"alice"}, []string{"org/a"}); searcher.newQueries[0] != want {
		t.Errorf("new query = %q, want %q", searcher.newQueries[0], want)
	}
}

func TestEngineRunStaleWindow(t *testing.T) {
	reg := newTestRegistry(t)
	searcher := &fakeSearcher{}

	engine, err := NewEngine(searcher, reg, WithClock(fixedClock), WithStaleWindow(7*24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	want := fixedClock().Add(-7 * 24 * time.Hour)
	if got := engine.Cutoff(); !got.Equal(want) {
		t.Errorf("Cutoff() = %v, want %v", got, want)
	}

	// Non-positive windows are ignored.
	engine, err = NewEngine(searcher, reg, WithClock(fixedClock), WithStaleWindow(0))
	if err != nil {
		t.Fatal(err)
	}
	if got := engine.Cutoff(); !got.Equal(testCutoff) {
		t.Errorf("Cutoff() = %v, want %v", got, testCutoff)
	}
}

func TestEngineRunFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name     string
		searcher *fakeSearcher
	}{
		{"new search fails", &fakeSearcher{newErr: boom}},
		{"stale search fails", &fakeSearcher{staleErr: boom}},
		{"both fail", &fakeSearcher{newErr: boom, staleErr: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewEngine(tt.searcher, newTestRegistry(t), WithClock(fixedClock))
			if err != nil {
				t.Fatal(err)
			}
			report, err := engine.Run(context.Background())
			if !errors.Is(err, boom) {
				t.Errorf("Run() error = %v, want %v", err, boom)
			}
			if report != nil {
				t.Errorf("Run() returned partial report: %+v", report)
			}
		})
	}
}

func TestNewEngineErrors(t *testing.T) {
	reg := newTestRegistry(t)
	if _, err := NewEngine(nil, reg); err == nil {
		t.Error("expected error for nil searcher")
	}

	empty, err := registry.New(nil, []string{"alice"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewEngine(&fakeSearcher{}, empty); !errors.Is(err, query.ErrNoRepositories) {
		t.Errorf("NewEngine() error = %v, want %v", err, query.ErrNoRepositories)
	}
}

func TestEngineRunProgress(t *testing.T) {
	reg := newTestRegistry(t)
	searcher := &fakeSearcher{
		newResult: model.SearchResult{IssueCount: 4, Items: []model.Item{makeItem(10)}},
		staleResult: model.StaleSearch{
			DefinitelyStale: model.SearchResult{IssueCount: 2},
			MaybeStale:      model.SearchResult{IssueCount: 1, Items: []model.Item{makeItem(3)}},
		},
	}

	var (
		mu     sync.Mutex
		events = map[Stage][]Progress{}
	)
	record := func(p Progress) {
		mu.Lock()
		defer mu.Unlock()
		events[p.Stage] = append(events[p.Stage], p)
	}

	engine, err := NewEngine(searcher, reg, WithClock(fixedClock), WithProgress(record))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := map[Stage][]Progress{
		StageSearchNew: {
			{Stage: StageSearchNew},
			{Stage: StageSearchNew, Done: true, Count: 4},
		},
		StageSearchStale: {
			{Stage: StageSearchStale},
			{Stage: StageSearchStale, Done: true, Count: 3},
		},
		// item 3 has no timeline comments, so it is confirmed stale
		StageClassify: {
			{Stage: StageClassify},
			{Stage: StageClassify, Done: true, Count: 1},
		},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineRunProgressOnFailure(t *testing.T) {
	boom := errors.New("boom")
	var (
		mu       sync.Mutex
		failed   []Stage
		classify bool
	)
	record := func(p Progress) {
		mu.Lock()
		defer mu.Unlock()
		if p.Err != nil {
			failed = append(failed, p.Stage)
		}
		if p.Stage == StageClassify {
			classify = true
		}
	}

	engine, err := NewEngine(&fakeSearcher{staleErr: boom}, newTestRegistry(t), WithClock(fixedClock), WithProgress(record))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if diff := cmp.Diff([]Stage{StageSearchStale}, failed); diff != "" {
		t.Errorf("failed stages mismatch (-want +got):\n%s", diff)
	}
	if classify {
		t.Error("classify stage should not run after a failed search")
	}
}
