package output

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/spiffcs/maintainer-dashboard/internal/model"
)

// SortKey names an item ordering. A leading "-" reverses it.
type SortKey string

// DefaultSort lists the oldest items first.
const DefaultSort SortKey = "created"

var sortFields = map[string]func(a, b model.Item) int{
	"created": func(a, b model.Item) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"repo": func(a, b model.Item) int {
		return cmp.Or(
			strings.Compare(strings.ToLower(a.Repository.FullName()), strings.ToLower(b.Repository.FullName())),
			cmp.Compare(a.Number, b.Number),
		)
	},
	"author": func(a, b model.Item) int {
		return strings.Compare(strings.ToLower(a.AuthorLogin()), strings.ToLower(b.AuthorLogin()))
	},
	"type": func(a, b model.Item) int { return strings.Compare(string(a.Kind), string(b.Kind)) },
}

// ParseSortKey validates a --sort value.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return DefaultSort, nil
	}
	if _, ok := sortFields[strings.TrimPrefix(s, "-")]; !ok {
		return "", fmt.Errorf("unknown sort key %q (use created, repo, author or type, optionally prefixed with -)", s)
	}
	return SortKey(s), nil
}

// SortItems returns a sorted copy of items. Ties keep their input order.
// Unknown keys leave the order unchanged.
func SortItems(items []model.Item, key SortKey) []model.Item {
	sorted := slices.Clone(items)

	name, desc := strings.CutPrefix(string(key), "-")
	compare, ok := sortFields[name]
	if !ok {
		return sorted
	}

	slices.SortStableFunc(sorted, func(a, b model.Item) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return sorted
}
