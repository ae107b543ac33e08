// Package calendar maps dates to season weeks.
package calendar

import "time"

const (
	// DefaultMaxWeek is the last week of the regular season.
	DefaultMaxWeek = 18
	week           = 7 * 24 * time.Hour
)

// CurrentWeek returns the season week containing now. It is 0 before the
// season starts and never exceeds maxWeek.
func CurrentWeek(now, seasonStart time.Time, maxWeek int) int {
	if maxWeek <= 0 {
		maxWeek = DefaultMaxWeek
	}
	if now.Before(seasonStart) {
		return 0
	}
	w := int(now.Sub(seasonStart)/week) + 1
	if w > maxWeek {
		return maxWeek
	}
	return w
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}
