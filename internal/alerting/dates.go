// Package alerting derives urgency tiers, reproduction risk and milk rankings
// from farm records. Every function is pure: callers pass the records and the
// reference time explicitly.
package alerting

import (
	"math"
	"strings"
	"time"
)

const day = 24 * time.Hour

// dateLayouts are tried in order. Layouts without a zone are read as UTC.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDate reads an operator-entered date. It never fails loudly: empty or
// unparseable text yields false.
func ParseDate(text string) (time.Time, bool) {
	value := strings.TrimSpace(text)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysUntil returns floor((date - now) / 24h). Negative when date is in the past.
// Day boundaries are elapsed time, not calendar days.
func DaysUntil(date, now time.Time) int {
	return floorDays(date.Sub(now))
}

// DaysSince returns floor((now - date) / 24h).
func DaysSince(date, now time.Time) int {
	return floorDays(now.Sub(date))
}

func floorDays(d time.Duration) int {
	return int(math.Floor(float64(d) / float64(day)))
}

func startOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
