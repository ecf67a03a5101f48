package numbering

import (
	"fmt"
	"strings"
	"time"
)

// FormatFallback renders {prefix}-{year}-{MM}-{DD}-{rand} for the date of at.
func FormatFallback(prefix string, at time.Time, random int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, at.Format("2006-01-02"), random)
}

// Render expands a format pattern. Supported tokens are {PREFIX}, {YEAR},
// {SEQ} (four digit minimum), {MONTH} and {DAY}. An empty pattern renders
// DefaultPattern, {prefix}-{year}-{seq}.
func Render(pattern, prefix string, year int, at time.Time, seq int64) string {
	if pattern == "" {
		pattern = DefaultPattern
	}

	r := strings.NewReplacer(
		"{PREFIX}", prefix,
		"{YEAR}", fmt.Sprintf("%d", year),
		"{SEQ}", fmt.Sprintf("%04d", seq),
		"{MONTH}", at.Format("01"),
		"{DAY}", at.Format("02"),
	)
	return r.Replace(pattern)
}
