package triage

import (
	"time"

	"github.com/spiffcs/maintainer-dashboard/internal/log"
	"github.com/spiffcs/maintainer-dashboard/internal/model"
	"github.com/spiffcs/maintainer-dashboard/internal/registry"
)

// Classifier decides whether a maybe-stale candidate is actually stale by
// looking at who commented after the cutoff.
type Classifier struct {
	reg *registry.Registry
}

// NewClassifier creates a classifier backed by the registry's insider set.
func NewClassifier(reg *registry.Registry) *Classifier {
	return &Classifier{reg: reg}
}

// IsStale reports whether no insider comment in the item's timeline was
// updated after cutoff. Comments by deleted accounts never count. An empty
// timeline is stale; only the most recent entries are fetched, so older
// insider activity is invisible here.
func (c *Classifier) IsStale(item model.Item, cutoff time.Time) bool {
	for _, comment := range item.TimelineComments {
		if comment.UpdatedAt.After(cutoff) && c.reg.IsInsider(comment.Author) {
			return false
		}
	}
	return true
}

// Confirm returns the stale subset of candidates in their original order.
func (c *Classifier) Confirm(candidates []model.Item, cutoff time.Time) []model.Item {
	confirmed := make([]model.Item, 0, len(candidates))
	for _, item := range candidates {
		stale := c.IsStale(item, cutoff)
		if log.IsTrace() {
			log.Trace("classified candidate", "repo", item.Repository.FullName(), "number", item.Number, "stale", stale)
		}
		if stale {
			confirmed = append(confirmed, item)
		}
	}
	return confirmed
}
