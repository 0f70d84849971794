// ABOUTME: Publish timestamp normalization applied to every fetched entry
// ABOUTME: Live entries sort as now, upcoming ones at their premiere instant

package feed

import (
	"time"

	"subfeed-api/core/domain"
	timeutil "subfeed-api/pkg/utils/time"
)

// normalizeEntries returns a copy of entries with PublishedDate derived:
// live now → now; upcoming → premiere instant; otherwise the backend's
// epoch, an already parsed date, or the published text.
func normalizeEntries(entries []domain.FeedEntry, now time.Time) []domain.FeedEntry {
	out := make([]domain.FeedEntry, len(entries))
	for i, entry := range entries {
		entry.PublishedDate = publishedDate(entry, now)
		out[i] = entry
	}
	return out
}

func publishedDate(entry domain.FeedEntry, now time.Time) time.Time {
	switch {
	case entry.LiveNow:
		return now
	case entry.IsUpcoming:
		if entry.PremiereDate != nil {
			return *entry.PremiereDate
		}
		if t := timeutil.FromUnix(entry.PremiereTimestamp); !t.IsZero() {
			return t
		}
	}

	if t := timeutil.FromUnix(entry.PublishedEpoch); !t.IsZero() {
		return t
	}
	if !entry.PublishedDate.IsZero() {
		return entry.PublishedDate
	}
	return timeutil.ParsePublished(entry.PublishedText, now)
}
