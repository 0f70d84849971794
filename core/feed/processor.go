// ABOUTME: Feed processor sorts and filters a merged entry list for display
// ABOUTME: Pure pipeline: sort by publish date, then live, premiere and watched filters

package feed

import (
	"sort"

	"github.com/samber/lo"
	"subfeed-api/core/domain"
)

// RSSPremiereViewCount is the view count that marks an upcoming premiere in
// syndication entries
const RSSPremiereViewCount = "0"

// Options selects the filters applied by Process
type Options struct {
	HideLiveStreams       bool `json:"hideLiveStreams" yaml:"hide_live_streams"`
	HideUpcomingPremieres bool `json:"hideUpcomingPremieres" yaml:"hide_upcoming_premieres"`
	HideWatchedSubs       bool `json:"hideWatchedSubs" yaml:"hide_watched_subs"`
}

// Process returns a new slice sorted by descending publish date with the
// selected filters applied in order. The input is never modified.
func Process(entries []domain.FeedEntry, opts Options, history []domain.HistoryEntry) []domain.FeedEntry {
	out := make([]domain.FeedEntry, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedDate.After(out[j].PublishedDate)
	})

	if opts.HideLiveStreams {
		out = lo.Filter(out, func(e domain.FeedEntry, _ int) bool {
			return !e.LiveNow && !e.IsUpcoming
		})
	}

	if opts.HideUpcomingPremieres {
		out = lo.Filter(out, func(e domain.FeedEntry, _ int) bool {
			if e.IsRSS {
				return !e.HasViewCount(RSSPremiereViewCount)
			}
			return e.PremiereDate == nil
		})
	}

	if opts.HideWatchedSubs && len(history) > 0 {
		watched := lo.SliceToMap(history, func(h domain.HistoryEntry) (string, struct{}) {
			return h.VideoID, struct{}{}
		})
		out = lo.Filter(out, func(e domain.FeedEntry, _ int) bool {
			_, seen := watched[e.VideoID]
			return !seen
		})
	}

	return out
}
