// ABOUTME: Display limit utilities for processed feeds
// ABOUTME: The limit starts at one page and grows by a page per "load more"

package feed

import "subfeed-api/core/domain"

// DefaultDataLimit is the initial number of entries shown and the step
// added by each "load more"
const DefaultDataLimit = 100

// LimitEntries returns at most limit entries from the front of the list.
// A non-positive limit falls back to DefaultDataLimit.
func LimitEntries(entries []domain.FeedEntry, limit int) []domain.FeedEntry {
	if limit < 1 {
		limit = DefaultDataLimit
	}

	if len(entries) <= limit {
		return entries
	}

	return entries[:limit]
}

// NextDataLimit returns the limit after one more "load more"
func NextDataLimit(current int) int {
	if current < 1 {
		current = DefaultDataLimit
	}
	return current + DefaultDataLimit
}
