// ABOUTME: Utility functions for parsing scalar values from strings
// ABOUTME: Provides safe parsing with default values for env vars and query strings

package parse

import (
	"strconv"
	"strings"
	"time"
)

// IntOrZero safely parses an integer from a string, returning 0 if parsing fails
func IntOrZero(s string) int {
	return IntOrDefault(s, 0)
}

// IntOrDefault parses an integer, returning def if s is empty or invalid
func IntOrDefault(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

// BoolOrDefault parses a boolean ("1", "true", "yes", "on" and their
// negatives), returning def if s is empty or unrecognised
func BoolOrDefault(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "y", "on":
		return true
	case "0", "f", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// FloatOrDefault parses a float, returning def if s is empty or invalid
func FloatOrDefault(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

// DurationOrDefault parses a Go duration ("30s") or a bare number of
// seconds, returning def if s is empty or invalid
func DurationOrDefault(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
