package format

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

type unit struct {
	name string
	size time.Duration
}

// Calendar units use average lengths, so a 31 day month is still "1 month".
var humanUnits = []unit{
	{"year", time.Duration(365.25 * float64(day))},
	{"month", time.Duration(30.4375 * float64(day))},
	{"week", 7 * day},
	{"day", day},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

// Humanize renders d in its largest whole unit, e.g. "3 weeks" or
// "1 month". Anything under a second is "0 seconds".
func Humanize(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	for _, u := range humanUnits {
		if n := int64(d / u.size); n >= 1 {
			return plural(n, u.name)
		}
	}
	return plural(0, "second")
}

func plural(n int64, name string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", name)
	}
	return fmt.Sprintf("%d %ss", n, name)
}
