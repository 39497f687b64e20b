// Package constants provides a centralized location for the fixed values
// used by the maintainer dashboard.
package constants

import "time"

// Classification constants
const (
	// DefaultStaleWindow is how long an item may go without insider
	// activity before it counts as stale.
	DefaultStaleWindow = 14 * 24 * time.Hour
)

// Rate limiting constants
const (
	// RateLimitLowWatermark is the threshold below which rate limit
	// warnings are logged.
	RateLimitLowWatermark = 100
)

// Display constants
const (
	// TruncationSuffixWidth is the width of the "..." suffix when truncating strings.
	TruncationSuffixWidth = 3

	// MaxTitleWidth caps the title column in table output.
	MaxTitleWidth = 60
)

// Output format names
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)
