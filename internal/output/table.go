package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/spiffcs/maintainer-dashboard/internal/constants"
	"github.com/spiffcs/maintainer-dashboard/internal/format"
	"github.com/spiffcs/maintainer-dashboard/internal/model"
	"github.com/spiffcs/maintainer-dashboard/internal/query"
)

// TableFormatter formats output as a terminal table
type TableFormatter struct {
	opts options
}

// Column widths
const (
	colType  = 4
	colLink  = 7
	colRepo  = 28
	colOpen  = 10
	colUser  = 18
	colTitle = constants.MaxTitleWidth
)

// Format writes a summary table followed by one item table per bucket.
func (f *TableFormatter) Format(report *model.Report, w io.Writer) error {
	sections := f.opts.sections(report)

	if err := f.formatSummary(report, sections, w); err != nil {
		return err
	}

	links := f.opts.useHyperlinks(w)
	for _, s := range sections {
		_, _ = fmt.Fprintln(w)
		f.formatSection(s, links, w)
	}
	return nil
}

func (f *TableFormatter) formatSummary(report *model.Report, sections []section, w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Bucket", "Count", "Shown"})
	table.SetAutoFormatHeaders(false)
	for _, s := range sections {
		table.Append([]string{s.Name, strconv.Itoa(s.Bucket.Count), strconv.Itoa(len(s.Bucket.Items))})
	}
	table.SetFooter([]string{"Cutoff", query.FormatTimestamp(report.Cutoff), ""})
	table.Render()
	return nil
}

func (f *TableFormatter) formatSection(s section, links bool, w io.Writer) {
	header := color.New(color.Bold)
	_, _ = header.Fprintf(w, "%s (%d)\n", s.Name, s.Bucket.Count)

	if len(s.Bucket.Items) == 0 {
		_, _ = fmt.Fprintln(w, "  Nothing here.")
		return
	}

	_, _ = fmt.Fprintf(w, "%-*s  %-*s  %-*s  %-*s  %-*s  %s\n",
		colType, "Type",
		colLink, "Link",
		colRepo, "Repository",
		colOpen, "Open",
		colUser, "User",
		"Title")
	_, _ = fmt.Fprintln(w, strings.Repeat("-", colType+colLink+colRepo+colOpen+colUser+colTitle+10))

	now := f.opts.now()
	for _, item := range s.Bucket.Items {
		kind := item.Kind.Display()
		if item.IsPR() {
			kind = color.CyanString(kind)
		} else {
			kind = color.YellowString(kind)
		}

		link := fmt.Sprintf("#%d", item.Number)
		if links {
			link = format.Hyperlink(item.URL, link)
		}

		repo := format.Truncate(item.Repository.Name, colRepo)
		if links {
			repo = format.Hyperlink(item.Repository.URL, repo)
		}

		open := format.Humanize(now.Sub(item.CreatedAt))
		user := format.Truncate(item.AuthorLogin(), colUser)
		title := format.Truncate(item.Title, colTitle)

		_, _ = fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s\n",
			format.PadRight(kind, colType),
			format.PadRight(link, colLink),
			format.PadRight(repo, colRepo),
			format.PadRight(open, colOpen),
			format.PadRight(user, colUser),
			title)
	}
}
