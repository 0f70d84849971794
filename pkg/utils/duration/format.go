// ABOUTME: Duration utilities for converting backend video lengths
// ABOUTME: Handles ISO 8601 durations from the Data API and seconds-to-clock formatting

package duration

import (
	"fmt"
	"regexp"
	"strconv"
)

var isoPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ISO8601ToSeconds converts a duration such as "PT1H2M3S" to a seconds string.
// Returns "" when the input is empty or not a recognised duration.
func ISO8601ToSeconds(iso string) string {
	if iso == "" {
		return ""
	}

	match := isoPattern.FindStringSubmatch(iso)
	if match == nil {
		return ""
	}

	days, _ := strconv.Atoi(match[1])
	hours, _ := strconv.Atoi(match[2])
	minutes, _ := strconv.Atoi(match[3])
	seconds, _ := strconv.Atoi(match[4])

	return strconv.Itoa(days*86400 + hours*3600 + minutes*60 + seconds)
}

// FormatSeconds converts seconds to H:MM:SS or M:SS
func FormatSeconds(secondsStr string) string {
	if secondsStr == "" {
		return ""
	}

	seconds, err := strconv.Atoi(secondsStr)
	if err != nil {
		// Already formatted, e.g. the syndication placeholder
		return secondsStr
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
