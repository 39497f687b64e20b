// Package duration provides parsing for human-readable duration strings.
package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// Parse parses human-readable durations like "14d", "2w", "6mo".
// Plain Go durations such as "336h" are accepted too. The result must be
// positive.
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration (use e.g., 14d, 2w, 1mo)")
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("invalid duration format: %s (use e.g., 14d, 2w, 1mo)", s)
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s: %w", s, err)
	}

	var unit time.Duration
	switch s[i:] {
	case "d", "day", "days":
		unit = day
	case "w", "wk", "wks", "week", "weeks":
		unit = 7 * day
	case "mo", "month", "months":
		unit = 30 * day
	case "y", "yr", "yrs", "year", "years":
		unit = 365 * day
	default:
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("unknown duration unit in %s (use e.g., 14d, 2w, 1mo)", s)
		}
		if d <= 0 {
			return 0, fmt.Errorf("duration must be positive: %s", s)
		}
		return d, nil
	}

	if n <= 0 {
		return 0, fmt.Errorf("duration must be positive: %s", s)
	}
	return time.Duration(n) * unit, nil
}

// Days renders d as a whole number of days, e.g. "14d".
func Days(d time.Duration) string {
	return fmt.Sprintf("%dd", int(d/day))
}
