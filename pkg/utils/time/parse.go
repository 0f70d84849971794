// ABOUTME: Time parsing utilities for backend publish timestamps
// ABOUTME: Handles absolute formats, unix epochs and relative "3 days ago" strings

package time

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Absolute formats seen in backend publish fields
var timeFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006, 3:04:05 PM",
	"Jan 2, 2006",
}

var relativePattern = regexp.MustCompile(`(?i)(\d+)\s*(second|sec|minute|min|hour|hr|day|week|month|year)s?\s+ago`)

var unitDurations = map[string]time.Duration{
	"second": time.Second,
	"sec":    time.Second,
	"minute": time.Minute,
	"min":    time.Minute,
	"hour":   time.Hour,
	"hr":     time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   365 * 24 * time.Hour,
}

// ParseFlexibleTime attempts to parse a time string using various formats.
// Returns the zero time when nothing matches.
func ParseFlexibleTime(timeStr string) time.Time {
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		return time.Time{}
	}

	for _, format := range timeFormats {
		if t, err := time.ParseInLocation(format, timeStr, time.Local); err == nil {
			return t
		}
	}

	return time.Time{}
}

// ParseRelative resolves strings like "3 days ago" or "Streamed 2 hours ago"
// against now. Months count as 30 days and years as 365.
func ParseRelative(text string, now time.Time) (time.Time, bool) {
	match := relativePattern.FindStringSubmatch(text)
	if match == nil {
		return time.Time{}, false
	}

	amount, err := strconv.Atoi(match[1])
	if err != nil {
		return time.Time{}, false
	}

	unit := unitDurations[strings.ToLower(match[2])]
	return now.Add(-time.Duration(amount) * unit), true
}

// ParsePublished derives an absolute instant from a backend publish string,
// trying the relative form first. Falls back to now when nothing parses.
func ParsePublished(text string, now time.Time) time.Time {
	if t, ok := ParseRelative(text, now); ok {
		return t
	}
	if t := ParseFlexibleTime(text); !t.IsZero() {
		return t
	}
	return now
}

// FromUnix converts unix seconds, returning the zero time for non-positive input
func FromUnix(seconds int64) time.Time {
	if seconds <= 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0)
}
