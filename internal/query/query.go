// Package query builds the GitHub issue-search strings used to find new and
// stale issues and pull requests.
package query

import (
	"errors"
	"strings"
	"time"

	"github.com/spiffcs/maintainer-dashboard/internal/registry"
)

// TimestampLayout matches the millisecond-precision UTC ISO-8601 form GitHub
// search accepts for updated: and created: qualifiers.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ErrNoRepositories is returned when a builder would produce a query that
// is not scoped to any repository.
var ErrNoRepositories = errors.New("no repositories configured")

// FormatTimestamp renders t in TimestampLayout after converting to UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Builder produces the three search strings for a registry.
type Builder struct {
	repos    []string
	insiders []string
}

// NewBuilder captures the registry's repos and insiders.
func NewBuilder(reg *registry.Registry) (*Builder, error) {
	repos := reg.Repos()
	if len(repos) == 0 {
		return nil, ErrNoRepositories
	}
	return &Builder{repos: repos, insiders: reg.Insiders()}, nil
}

// NewItems matches open items no insider has authored or commented on.
func (b *Builder) NewItems() string {
	return BuildNewItems(b.insiders, b.repos)
}

// DefinitelyStale matches open items an insider has commented on that have
// not been updated since cutoff.
func (b *Builder) DefinitelyStale(cutoff time.Time) string {
	return BuildDefinitelyStale(b.insiders, b.repos, cutoff)
}

// MaybeStale matches open items an insider has commented on, created before
// cutoff and updated since. Their timelines decide whether they are stale.
func (b *Builder) MaybeStale(cutoff time.Time) string {
	return BuildMaybeStale(b.insiders, b.repos, cutoff)
}

// BuildNewItems returns
// "repo:A repo:B -author:u -commenter:u is:open".
func BuildNewItems(insiders, repos []string) string {
	var q queryBuilder
	q.repos(repos)
	for _, u := range insiders {
		q.qualifier("-author:", u)
		q.qualifier("-commenter:", u)
	}
	q.add("is:open")
	return q.String()
}

// BuildDefinitelyStale returns
// "repo:A -author:u commenter:u is:open updated:<=T".
func BuildDefinitelyStale(insiders, repos []string, cutoff time.Time) string {
	q := staleBase(insiders, repos)
	q.add("updated:<=" + FormatTimestamp(cutoff))
	return q.String()
}

// BuildMaybeStale returns
// "repo:A -author:u commenter:u is:open updated:>T created:<=T".
func BuildMaybeStale(insiders, repos []string, cutoff time.Time) string {
	ts := FormatTimestamp(cutoff)
	q := staleBase(insiders, repos)
	q.add("updated:>" + ts)
	q.add("created:<=" + ts)
	return q.String()
}

func staleBase(insiders, repos []string) *queryBuilder {
	q := &queryBuilder{}
	q.repos(repos)
	for _, u := range insiders {
		q.qualifier("-author:", u)
		q.qualifier("commenter:", u)
	}
	q.add("is:open")
	return q
}

type queryBuilder struct {
	parts []string
}

func (q *queryBuilder) repos(repos []string) {
	for _, r := range repos {
		q.qualifier("repo:", r)
	}
}

// qualifier adds key+value unless value is blank.
func (q *queryBuilder) qualifier(key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	q.add(key + value)
}

func (q *queryBuilder) add(s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	q.parts = append(q.parts, s)
}

func (q *queryBuilder) String() string {
	return strings.Join(q.parts, " ")
}
