package ghclient

import (
	"context"
	"fmt"
	"time"

	"github.com/shurcooL/githubv4"

	"github.com/spiffcs/maintainer-dashboard/internal/model"
)

type actor struct {
	Login githubv4.String
	URL   githubv4.String
}

type repository struct {
	Name          githubv4.String
	NameWithOwner githubv4.String
	URL           githubv4.String
}

// itemFields is the selection shared by issues and pull requests.
type itemFields struct {
	Title      githubv4.String
	Author     *actor
	Repository repository
	Number     githubv4.Int
	URL        githubv4.String
	CreatedAt  githubv4.DateTime
}

type searchNode struct {
	Typename    githubv4.String `graphql:"__typename"`
	Issue       itemFields      `graphql:"... on Issue"`
	PullRequest itemFields      `graphql:"... on PullRequest"`
}

// timelineNode only selects comments; any other event type decodes as an
// empty node with a zero UpdatedAt.
type timelineNode struct {
	Comment struct {
		Author    *actor
		UpdatedAt githubv4.DateTime
	} `graphql:"... on Comment"`
}

type timeline struct {
	Nodes []timelineNode
}

type candidateFields struct {
	Title         githubv4.String
	Author        *actor
	Repository    repository
	Number        githubv4.Int
	URL           githubv4.String
	CreatedAt     githubv4.DateTime
	TimelineItems timeline `graphql:"timelineItems(since: $timeSince, last: 100)"`
}

type candidateNode struct {
	Typename    githubv4.String `graphql:"__typename"`
	Issue       candidateFields `graphql:"... on Issue"`
	PullRequest candidateFields `graphql:"... on PullRequest"`
}

type rateLimit struct {
	Limit     githubv4.Int
	Cost      githubv4.Int
	Remaining githubv4.Int
	ResetAt   githubv4.DateTime
}

type newItemsQuery struct {
	Search struct {
		IssueCount githubv4.Int
		Nodes      []searchNode
	} `graphql:"search(query: $query, type: ISSUE, first: 100)"`
	RateLimit rateLimit
}

type staleItemsQuery struct {
	DefinitelyStale struct {
		IssueCount githubv4.Int
		Nodes      []searchNode
	} `graphql:"definitelyStale: search(query: $queryDefStale, type: ISSUE, first: 100)"`
	MaybeStale struct {
		IssueCount githubv4.Int
		Nodes      []candidateNode
	} `graphql:"maybeStale: search(query: $queryMaybeStale, type: ISSUE, first: 100)"`
	RateLimit rateLimit
}

// SearchNew runs one issue search and returns its first page.
func (c *Client) SearchNew(ctx context.Context, query string) (model.SearchResult, model.RateLimit, error) {
	var q newItemsQuery
	vars := map[string]any{
		"query": githubv4.String(query),
	}
	if err := c.gql.Query(ctx, &q, vars); err != nil {
		return model.SearchResult{}, model.RateLimit{}, fmt.Errorf("search query failed: %w", err)
	}

	items := make([]model.Item, 0, len(q.Search.Nodes))
	for _, n := range q.Search.Nodes {
		if item, ok := n.toItem(); ok {
			items = append(items, item)
		}
	}

	return model.SearchResult{IssueCount: int(q.Search.IssueCount), Items: items}, q.RateLimit.toModel(), nil
}

// SearchStale runs both stale searches in a single request. Maybe-stale
// items carry the comments from their last 100 timeline entries since since.
func (c *Client) SearchStale(ctx context.Context, defQuery, maybeQuery string, since time.Time) (model.StaleSearch, model.RateLimit, error) {
	var q staleItemsQuery
	vars := map[string]any{
		"queryDefStale":   githubv4.String(defQuery),
		"queryMaybeStale": githubv4.String(maybeQuery),
		"timeSince":       githubv4.DateTime{Time: since},
	}
	if err := c.gql.Query(ctx, &q, vars); err != nil {
		return model.StaleSearch{}, model.RateLimit{}, fmt.Errorf("stale search query failed: %w", err)
	}

	var res model.StaleSearch

	res.DefinitelyStale.IssueCount = int(q.DefinitelyStale.IssueCount)
	res.DefinitelyStale.Items = make([]model.Item, 0, len(q.DefinitelyStale.Nodes))
	for _, n := range q.DefinitelyStale.Nodes {
		if item, ok := n.toItem(); ok {
			res.DefinitelyStale.Items = append(res.DefinitelyStale.Items, item)
		}
	}

	res.MaybeStale.IssueCount = int(q.MaybeStale.IssueCount)
	res.MaybeStale.Items = make([]model.Item, 0, len(q.MaybeStale.Nodes))
	for _, n := range q.MaybeStale.Nodes {
		if item, ok := n.toItem(); ok {
			res.MaybeStale.Items = append(res.MaybeStale.Items, item)
		}
	}

	return res, q.RateLimit.toModel(), nil
}

func (n searchNode) toItem() (model.Item, bool) {
	switch model.Kind(n.Typename) {
	case model.KindIssue:
		return n.Issue.toItem(model.KindIssue), true
	case model.KindPullRequest:
		return n.PullRequest.toItem(model.KindPullRequest), true
	default:
		return model.Item{}, false
	}
}

func (n candidateNode) toItem() (model.Item, bool) {
	var f candidateFields
	kind := model.Kind(n.Typename)
	switch kind {
	case model.KindIssue:
		f = n.Issue
	case model.KindPullRequest:
		f = n.PullRequest
	default:
		return model.Item{}, false
	}

	item := itemFields{
		Title:      f.Title,
		Author:     f.Author,
		Repository: f.Repository,
		Number:     f.Number,
		URL:        f.URL,
		CreatedAt:  f.CreatedAt,
	}.toItem(kind)

	for _, t := range f.TimelineItems.Nodes {
		if t.Comment.UpdatedAt.IsZero() {
			continue
		}
		item.TimelineComments = append(item.TimelineComments, model.Comment{
			Author:    t.Comment.Author.toModel(),
			UpdatedAt: t.Comment.UpdatedAt.Time,
		})
	}
	return item, true
}

func (f itemFields) toItem(kind model.Kind) model.Item {
	return model.Item{
		Kind:   kind,
		Number: int(f.Number),
		URL:    string(f.URL),
		Title:  string(f.Title),
		Author: f.Author.toModel(),
		Repository: model.Repository{
			Name:          string(f.Repository.Name),
			NameWithOwner: string(f.Repository.NameWithOwner),
			URL:           string(f.Repository.URL),
		},
		CreatedAt: f.CreatedAt.Time,
	}
}

func (a *actor) toModel() *model.Actor {
	if a == nil {
		return nil
	}
	return &model.Actor{Login: string(a.Login), URL: string(a.URL)}
}

func (r rateLimit) toModel() model.RateLimit {
	return model.RateLimit{
		Limit:     int(r.Limit),
		Cost:      int(r.Cost),
		Remaining: int(r.Remaining),
		ResetAt:   r.ResetAt.Time,
	}
}
