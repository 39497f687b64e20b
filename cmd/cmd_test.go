package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spiffcs/maintainer-dashboard/config"
	"github.com/spiffcs/maintainer-dashboard/internal/model"
	"github.com/spiffcs/maintainer-dashboard/internal/triage"
)

type stubSearcher struct {
	newRes model.SearchResult
	stale  model.StaleSearch
	err    error
}

func (s *stubSearcher) SearchNew(context.Context, string) (model.SearchResult, model.RateLimit, error) {
	return s.newRes, model.RateLimit{Limit: 5000, Remaining: 4999}, s.err
}

func (s *stubSearcher) SearchStale(context.Context, string, string, time.Time) (model.StaleSearch, model.RateLimit, error) {
	return s.stale, model.RateLimit{Limit: 5000, Remaining: 4998}, nil
}

// setupWorkspace isolates config lookup in a temp dir with a local config file.
func setupWorkspace(t *testing.T, localConfig string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	// keeps the progress display off even when tests run in a terminal
	t.Setenv("CI", "true")
	t.Chdir(dir)
	if localConfig != "" {
		if err := os.WriteFile(config.LocalConfigPath(), []byte(localConfig), 0600); err != nil {
			t.Fatal(err)
		}
	}
}

func useSearcher(t *testing.T, s triage.Searcher) {
	t.Helper()
	orig := newSearcher
	newSearcher = func(context.Context, *config.Config) (triage.Searcher, error) {
		return s, nil
	}
	t.Cleanup(func() { newSearcher = orig })
}

func item(number int) model.Item {
	return model.Item{
		Kind:       model.KindIssue,
		Number:     number,
		URL:        fmt.Sprintf("https://github.com/org/a/issues/%d", number),
		Title:      "issue",
		Author:     &model.Actor{Login: "someone"},
		Repository: model.Repository{Name: "a", NameWithOwner: "org/a"},
		CreatedAt:  time.Now().Add(-time.Duration(number) * time.Hour),
	}
}

const testConfig = `repositories:
  - org/a
  - org/b
insiders:
  - alice
`

func TestNew(t *testing.T) {
	cmd := New()
	if cmd.Use != "maintainer-dashboard" {
		t.Errorf("Use = %q, want %q", cmd.Use, "maintainer-dashboard")
	}

	var got []string
	for _, sub := range cmd.Commands() {
		got = append(got, sub.Name())
	}
	want := []string{"config", "queries", "ratelimit", "report", "version"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subcommands mismatch (-want +got):\n%s", diff)
	}

	for _, flag := range []string{"output", "stale-window", "sort", "bucket", "verbose"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("root command missing --%s", flag)
		}
	}
}

func TestNewOptions(t *testing.T) {
	got := NewOptions(
		WithFormat("json"),
		WithStaleWindow("3w"),
		WithSort("-repo"),
		WithBucket("stale"),
		WithVerbosity(2),
		WithCPUProfile("cpu.out"),
		WithMemProfile("mem.out"),
		WithTrace("trace.out"),
	)
	want := &Options{
		Format:      "json",
		StaleWindow: "3w",
		Sort:        "-repo",
		Bucket:      "stale",
		Verbosity:   2,
		CPUProfile:  "cpu.out",
		MemProfile:  "mem.out",
		Trace:       "trace.out",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewOptions() mismatch (-want +got):\n%s", diff)
	}

	defaults := NewOptions()
	if defaults.Sort != "created" || defaults.Bucket != "all" {
		t.Errorf("NewOptions() defaults = %+v", defaults)
	}
}

func TestSetVersionInfo(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	t.Cleanup(func() { version, commit, date = origVersion, origCommit, origDate })

	SetVersionInfo("1.0.0", "abc123", "")

	var out bytes.Buffer
	cmd := NewCmdVersion()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"maintainer-dashboard 1.0.0", "commit: abc123", "built:  " + origDate} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("version output missing %q:\n%s", want, out.String())
		}
	}
}

func TestReportJSON(t *testing.T) {
	setupWorkspace(t, testConfig)

	now := time.Now()
	recent := withComment(item(2), "alice", now.Add(-time.Hour))
	old := withComment(item(3), "alice", now.Add(-30*24*time.Hour))
	useSearcher(t, &stubSearcher{
		newRes: model.SearchResult{IssueCount: 1, Items: []model.Item{item(1)}},
		stale: model.StaleSearch{
			DefinitelyStale: model.SearchResult{IssueCount: 4, Items: []model.Item{item(4), item(5)}},
			MaybeStale:      model.SearchResult{IssueCount: 2, Items: []model.Item{recent, old}},
		},
	})

	var out, errOut bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"-o", "json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	var doc struct {
		New   model.Bucket `json:"new"`
		Stale model.Bucket `json:"stale"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}

	if doc.New.Count != 1 {
		t.Errorf("new count = %d, want 1", doc.New.Count)
	}
	// 4 reported definitely stale plus item 3 confirmed from the timeline
	if doc.Stale.Count != 5 {
		t.Errorf("stale count = %d, want 5", doc.Stale.Count)
	}
	var numbers []int
	for _, it := range doc.Stale.Items {
		numbers = append(numbers, it.Number)
	}
	if diff := cmp.Diff([]int{5, 4, 3}, numbers); diff != "" {
		t.Errorf("stale items mismatch (-want +got):\n%s", diff)
	}
}

func withComment(it model.Item, login string, at time.Time) model.Item {
	it.TimelineComments = append(it.TimelineComments, model.Comment{Author: &model.Actor{Login: login}, UpdatedAt: at})
	return it
}

func TestReportBucketFilter(t *testing.T) {
	setupWorkspace(t, testConfig)
	useSearcher(t, &stubSearcher{
		newRes: model.SearchResult{IssueCount: 1, Items: []model.Item{item(1)}},
	})

	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"report", "-o", "json", "--bucket", "new"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["new"]; !ok {
		t.Error("expected new bucket in output")
	}
	if _, ok := doc["stale"]; ok {
		t.Error("stale bucket should be omitted with --bucket new")
	}
}

func TestReportSearchFailure(t *testing.T) {
	setupWorkspace(t, testConfig)
	boom := errors.New("connection refused")
	useSearcher(t, &stubSearcher{err: boom})

	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-o", "json"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "no data available") {
		t.Errorf("error = %v, want wrapped %v with 'no data available'", err, boom)
	}
	if out.Len() != 0 {
		t.Errorf("expected no report output, got:\n%s", out.String())
	}
}

func TestReportInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad format", []string{"-o", "xml"}, "xml"},
		{"bad sort", []string{"--sort", "stars"}, "stars"},
		{"bad bucket", []string{"--bucket", "old"}, "old"},
		{"bad window", []string{"--stale-window", "soon"}, "--stale-window"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupWorkspace(t, testConfig)
			useSearcher(t, &stubSearcher{})

			cmd := New()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			err := cmd.Execute()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Execute() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestStaleWindow(t *testing.T) {
	cfg := &config.Config{StaleDays: 7}

	tests := []struct {
		name    string
		flag    string
		want    time.Duration
		wantErr bool
	}{
		{"config fallback", "", 7 * 24 * time.Hour, false},
		{"days", "3d", 3 * 24 * time.Hour, false},
		{"weeks", "2w", 14 * 24 * time.Hour, false},
		{"go duration", "36h", 36 * time.Hour, false},
		{"garbage", "later", 0, true},
		{"zero", "0d", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := staleWindow(&Options{StaleWindow: tt.flag}, cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("staleWindow() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("staleWindow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueriesCommand(t *testing.T) {
	setupWorkspace(t, testConfig)

	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"queries", "--stale-window", "7d"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"repo:org/a repo:org/b -author:alice -commenter:alice is:open",
		"commenter:alice",
		"updated:<=",
		"updated:>",
		"created:<=",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("queries output missing %q:\n%s", want, got)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	setupWorkspace(t, "")

	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init", "--local"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if _, err := os.Stat(config.LocalConfigPath()); err != nil {
		t.Fatalf("local config not created: %v", err)
	}

	cmd = New()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--local"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error when config already exists")
	}

	out.Reset()
	cmd = New()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "defaults", "-o", "json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config defaults error: %v", err)
	}
	var cfg config.Config
	if err := json.Unmarshal(out.Bytes(), &cfg); err != nil {
		t.Fatalf("config defaults produced invalid JSON: %v", err)
	}
	if cfg.StaleDays != 14 {
		t.Errorf("default stale_days = %d, want 14", cfg.StaleDays)
	}

	out.Reset()
	cmd = New()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "path"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config path error: %v", err)
	}
	if !strings.Contains(out.String(), ".maintainer-dashboard.yaml (exists)") {
		t.Errorf("config path output:\n%s", out.String())
	}
}

func TestConfigInitPrompt(t *testing.T) {
	setupWorkspace(t, "")

	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("3\n"))
	cmd.SetArgs([]string{"config", "init"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "invalid choice") {
		t.Errorf("expected invalid choice error, got %v", err)
	}

	cmd = New()
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("2\n"))
	cmd.SetArgs([]string{"config", "init"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if _, err := os.Stat(config.LocalConfigPath()); err != nil {
		t.Errorf("local config not created: %v", err)
	}
}

func TestProgressFlag(t *testing.T) {
	tests := []struct {
		value   string
		want    *bool
		str     string
		wantErr bool
	}{
		{value: "true", want: ptr(true), str: "true"},
		{value: "no", want: ptr(false), str: "false"},
		{value: "auto", want: nil, str: "auto"},
		{value: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			opts := NewOptions()
			f := newProgressFlag(opts)
			err := f.Set(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, opts.Progress); diff != "" {
				t.Errorf("Progress mismatch (-want +got):\n%s", diff)
			}
			if got := f.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}
}

func TestShouldShowProgress(t *testing.T) {
	if shouldShowProgress(NewOptions(WithProgress(true), WithVerbosity(1))) {
		t.Error("progress should be hidden when logging is verbose")
	}
	if !shouldShowProgress(NewOptions(WithProgress(true))) {
		t.Error("explicit --progress should be honored")
	}
	if shouldShowProgress(NewOptions(WithProgress(false))) {
		t.Error("explicit --progress=false should be honored")
	}
}

func ptr[T any](v T) *T { return &v }
