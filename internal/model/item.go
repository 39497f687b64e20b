// Package model contains domain types for the maintainer dashboard.
// These types are independent of any external GitHub library.
package model

import "time"

// Kind discriminates between the two searchable item variants. The values
// match the GraphQL __typename of the node.
type Kind string

const (
	KindIssue       Kind = "Issue"
	KindPullRequest Kind = "PullRequest"
)

// Display returns a short label for tables.
func (k Kind) Display() string {
	switch k {
	case KindIssue:
		return "ISS"
	case KindPullRequest:
		return "PR"
	default:
		return string(k)
	}
}

// Actor is a GitHub account. A nil *Actor means the account no longer exists.
type Actor struct {
	Login string `json:"login"`
	URL   string `json:"url,omitempty"`
}

// Repository is one of the tracked repositories.
type Repository struct {
	Name          string `json:"name"`
	NameWithOwner string `json:"nameWithOwner,omitempty"`
	URL           string `json:"url"`
}

// FullName returns owner/name when known, otherwise the bare name.
func (r Repository) FullName() string {
	if r.NameWithOwner != "" {
		return r.NameWithOwner
	}
	return r.Name
}

// Comment is a single comment from an item's timeline.
type Comment struct {
	Author    *Actor    `json:"author,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Item is an open issue or pull request returned by a search.
type Item struct {
	Kind       Kind       `json:"kind"`
	Number     int        `json:"number"`
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	Author     *Actor     `json:"author,omitempty"`
	Repository Repository `json:"repository"`
	CreatedAt  time.Time  `json:"createdAt"`

	// TimelineComments is only populated for maybe-stale candidates.
	TimelineComments []Comment `json:"timelineComments,omitempty"`
}

// AuthorLogin returns the author's login or "ghost" when the account is gone.
func (i Item) AuthorLogin() string {
	if i.Author == nil || i.Author.Login == "" {
		return "ghost"
	}
	return i.Author.Login
}

// IsPR reports whether the item is a pull request.
func (i Item) IsPR() bool {
	return i.Kind == KindPullRequest
}
