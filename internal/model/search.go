package model

import "time"

// SearchResult is a single page of search results. IssueCount is the total
// reported by the API and may disagree with len(Items).
type SearchResult struct {
	IssueCount int
	Items      []Item
}

// StaleSearch holds both halves of the combined stale query.
type StaleSearch struct {
	DefinitelyStale SearchResult
	MaybeStale      SearchResult
}

// RateLimit is the GraphQL rate limit block returned alongside a query.
// It is reported, never acted upon.
type RateLimit struct {
	Limit     int       `json:"limit"`
	Cost      int       `json:"cost"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"resetAt"`
}

// Bucket is a final (count, items) pair handed to the presentation layer.
type Bucket struct {
	Count int    `json:"count"`
	Items []Item `json:"items"`
}

// Report is the result of one classification run.
type Report struct {
	Cutoff     time.Time   `json:"cutoff"`
	New        Bucket      `json:"new"`
	Stale      Bucket      `json:"stale"`
	RateLimits []RateLimit `json:"rateLimits,omitempty"`
}
