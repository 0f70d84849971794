// ABOUTME: Per-channel cache entry with three independently nullable feed kinds
// ABOUTME: Partial updates overwrite only the kinds they carry

package domain

// ChannelCacheEntry holds the cached result sets for one channel.
// A nil slice means the kind has never been fetched; a non-nil empty
// slice means it was fetched and came back empty.
type ChannelCacheEntry struct {
	Videos         []FeedEntry `json:"videos"`
	LiveStreams    []FeedEntry `json:"liveStreams"`
	RSSFeedEntries []FeedEntry `json:"rssFeedEntries"`
}

// CacheUpdate is a partial update for one channel. Nil fields are omitted
// from the update; non-nil fields (including empty ones) overwrite.
type CacheUpdate struct {
	Videos         []FeedEntry
	LiveStreams    []FeedEntry
	RSSFeedEntries []FeedEntry
}

// UpdateForKind builds a CacheUpdate that carries only the given kind
func UpdateForKind(kind FeedKind, entries []FeedEntry) CacheUpdate {
	if entries == nil {
		entries = []FeedEntry{}
	}

	var u CacheUpdate
	switch kind {
	case KindVideos:
		u.Videos = entries
	case KindLiveStreams:
		u.LiveStreams = entries
	case KindRSSFeedEntries:
		u.RSSFeedEntries = entries
	}
	return u
}

// Apply merges the update into the entry and returns the result
func (e ChannelCacheEntry) Apply(u CacheUpdate) ChannelCacheEntry {
	if u.Videos != nil {
		e.Videos = u.Videos
	}
	if u.LiveStreams != nil {
		e.LiveStreams = u.LiveStreams
	}
	if u.RSSFeedEntries != nil {
		e.RSSFeedEntries = u.RSSFeedEntries
	}
	return e
}

// ForKind returns the cached entries for kind and whether they are present
func (e ChannelCacheEntry) ForKind(kind FeedKind) ([]FeedEntry, bool) {
	var entries []FeedEntry
	switch kind {
	case KindVideos:
		entries = e.Videos
	case KindLiveStreams:
		entries = e.LiveStreams
	case KindRSSFeedEntries:
		entries = e.RSSFeedEntries
	}
	return entries, entries != nil
}

// Clone returns a copy whose slices do not alias the receiver's
func (e ChannelCacheEntry) Clone() ChannelCacheEntry {
	return ChannelCacheEntry{
		Videos:         cloneEntries(e.Videos),
		LiveStreams:    cloneEntries(e.LiveStreams),
		RSSFeedEntries: cloneEntries(e.RSSFeedEntries),
	}
}

func cloneEntries(entries []FeedEntry) []FeedEntry {
	if entries == nil {
		return nil
	}
	out := make([]FeedEntry, len(entries))
	copy(out, entries)
	return out
}
