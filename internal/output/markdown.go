package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spiffcs/maintainer-dashboard/internal/format"
	"github.com/spiffcs/maintainer-dashboard/internal/model"
	"github.com/spiffcs/maintainer-dashboard/internal/query"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	opts options
}

// Format outputs the report as Markdown, one table per bucket.
func (f *MarkdownFormatter) Format(report *model.Report, w io.Writer) error {
	_, _ = fmt.Fprintln(w, "# Maintainer Dashboard")
	_, _ = fmt.Fprintf(w, "\n*Stale cutoff: %s*\n", query.FormatTimestamp(report.Cutoff))

	now := f.opts.now()
	for _, s := range f.opts.sections(report) {
		_, _ = fmt.Fprintf(w, "\n## %s (%d)\n\n", s.Name, s.Bucket.Count)

		if len(s.Bucket.Items) == 0 {
			_, _ = fmt.Fprintln(w, "Nothing here.")
			continue
		}

		_, _ = fmt.Fprintln(w, "| Type | Link | Repository | Open | User | Title |")
		_, _ = fmt.Fprintln(w, "|------|------|------------|------|------|-------|")
		for _, item := range s.Bucket.Items {
			f.formatItem(item, now, w)
		}
	}
	return nil
}

func (f *MarkdownFormatter) formatItem(item model.Item, now time.Time, w io.Writer) {
	_, _ = fmt.Fprintf(w, "| %s | [#%d](%s) | [%s](%s) | %s | %s | %s |\n",
		item.Kind.Display(),
		item.Number, item.URL,
		item.Repository.Name, item.Repository.URL,
		format.Humanize(now.Sub(item.CreatedAt)),
		item.AuthorLogin(),
		escapeCell(item.Title))
}

// escapeCell keeps a value from breaking out of its table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
