// Package output renders a triage report for the terminal or for other tools.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/spiffcs/maintainer-dashboard/internal/constants"
	"github.com/spiffcs/maintainer-dashboard/internal/model"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = constants.FormatTable
	FormatJSON     Format = constants.FormatJSON
	FormatMarkdown Format = constants.FormatMarkdown
)

// Formats lists the supported output formats.
var Formats = []Format{FormatTable, FormatJSON, FormatMarkdown}

// Bucket selects which lists of a report are rendered.
type Bucket string

const (
	BucketAll   Bucket = "all"
	BucketNew   Bucket = "new"
	BucketStale Bucket = "stale"
)

// ParseBucket validates a --bucket value. Empty selects BucketAll.
func ParseBucket(s string) (Bucket, error) {
	switch Bucket(s) {
	case "", BucketAll:
		return BucketAll, nil
	case BucketNew, BucketStale:
		return Bucket(s), nil
	default:
		return "", fmt.Errorf("unknown bucket %q (use new, stale or all)", s)
	}
}

// Formatter defines the interface for output formatters
type Formatter interface {
	Format(report *model.Report, w io.Writer) error
}

type options struct {
	bucket     Bucket
	sortKey    SortKey
	now        func() time.Time
	hyperlinks *bool
}

// Option configures a formatter.
type Option func(*options)

// WithBucket limits output to one bucket.
func WithBucket(b Bucket) Option {
	return func(o *options) { o.bucket = b }
}

// WithSort orders the items of every bucket.
func WithSort(k SortKey) Option {
	return func(o *options) { o.sortKey = k }
}

// WithNow sets the clock used to compute item ages.
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithHyperlinks forces terminal hyperlinks on or off. By default they are
// used only when writing to a terminal.
func WithHyperlinks(enabled bool) Option {
	return func(o *options) { o.hyperlinks = &enabled }
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format, opts ...Option) (Formatter, error) {
	o := options{
		bucket:  BucketAll,
		sortKey: DefaultSort,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case FormatTable, "":
		return &TableFormatter{opts: o}, nil
	case FormatJSON:
		return &JSONFormatter{opts: o, Pretty: true}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{opts: o}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use table, json or markdown)", format)
	}
}

// section is one rendered bucket.
type section struct {
	Name   string
	Bucket model.Bucket
}

// sections returns the selected buckets with their items sorted. The
// report itself is left untouched.
func (o options) sections(r *model.Report) []section {
	var out []section
	if o.bucket == BucketAll || o.bucket == BucketNew {
		out = append(out, section{Name: "New", Bucket: model.Bucket{Count: r.New.Count, Items: SortItems(r.New.Items, o.sortKey)}})
	}
	if o.bucket == BucketAll || o.bucket == BucketStale {
		out = append(out, section{Name: "Stale", Bucket: model.Bucket{Count: r.Stale.Count, Items: SortItems(r.Stale.Items, o.sortKey)}})
	}
	return out
}

func (o options) useHyperlinks(w io.Writer) bool {
	if o.hyperlinks != nil {
		return *o.hyperlinks
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
