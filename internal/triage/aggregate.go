package triage

import "github.com/spiffcs/maintainer-dashboard/internal/model"

// EffectiveCount reconciles a reported total with the nodes actually
// returned. The search index can lag either way, so the larger wins.
func EffectiveCount(reported, returned int) int {
	return max(reported, returned)
}

// Aggregate builds the final buckets. The stale bucket is the definitely
// stale page followed by the confirmed maybe-stale items, in that order.
// The two queries are disjoint on updated:, so nothing is de-duplicated.
func Aggregate(newRes, defStale model.SearchResult, confirmed []model.Item) (model.Bucket, model.Bucket) {
	newBucket := model.Bucket{
		Count: EffectiveCount(newRes.IssueCount, len(newRes.Items)),
		Items: append([]model.Item(nil), newRes.Items...),
	}

	staleItems := make([]model.Item, 0, len(defStale.Items)+len(confirmed))
	staleItems = append(staleItems, defStale.Items...)
	staleItems = append(staleItems, confirmed...)

	staleBucket := model.Bucket{
		Count: EffectiveCount(defStale.IssueCount, len(defStale.Items)) + len(confirmed),
		Items: staleItems,
	}

	return newBucket, staleBucket
}
