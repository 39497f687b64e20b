package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/spiffcs/maintainer-dashboard/internal/model"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	opts   options
	Pretty bool
}

// JSONOutput is the document written by JSONFormatter. Buckets that were
// not selected are omitted.
type JSONOutput struct {
	Cutoff     time.Time         `json:"cutoff"`
	New        *model.Bucket     `json:"new,omitempty"`
	Stale      *model.Bucket     `json:"stale,omitempty"`
	RateLimits []model.RateLimit `json:"rateLimits,omitempty"`
}

// Format outputs the report as JSON
func (f *JSONFormatter) Format(report *model.Report, w io.Writer) error {
	out := JSONOutput{
		Cutoff:     report.Cutoff,
		RateLimits: report.RateLimits,
	}
	for _, s := range f.opts.sections(report) {
		b := s.Bucket
		if b.Items == nil {
			b.Items = []model.Item{}
		}
		switch s.Name {
		case "New":
			out.New = &b
		case "Stale":
			out.Stale = &b
		}
	}

	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(out)
}
