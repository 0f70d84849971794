// ABOUTME: Request DTOs for subscription feed and history endpoints
// ABOUTME: Optional fields are pointers so omitted values fall back to server configuration

package requests

import "time"

// ChannelRequest identifies one subscribed channel
type ChannelRequest struct {
	ID   string `json:"id" minLength:"1" doc:"Backend channel identifier, e.g. UCxxxx"`
	Name string `json:"name,omitempty" doc:"Display name"`
}

// FeedRequest selects the feed to load for a set of channels
type FeedRequest struct {
	// Channels defaults to the configured subscription list
	Channels []ChannelRequest `json:"channels,omitempty" maxItems:"5000" doc:"Active channels; defaults to the configured list"`

	Kind    string `json:"kind,omitempty" enum:"videos,liveStreams,rssFeedEntries" doc:"Feed kind (default videos)"`
	Backend string `json:"backend,omitempty" enum:"local,invidious" doc:"Preferred backend"`

	Fallback           *bool `json:"fallback,omitempty" doc:"Retry once against the other backend"`
	UseRSSFeeds        *bool `json:"useRssFeeds,omitempty" doc:"Always read syndication documents"`
	FetchAutomatically *bool `json:"fetchAutomatically,omitempty" doc:"Fetch from backends when the cache is incomplete"`

	HideLiveStreams       *bool `json:"hideLiveStreams,omitempty"`
	HideUpcomingPremieres *bool `json:"hideUpcomingPremieres,omitempty"`
	HideWatchedSubs       *bool `json:"hideWatchedSubs,omitempty"`

	DataLimit int `json:"dataLimit,omitempty" minimum:"0" doc:"Number of entries to return (default 100)"`

	// Refresh bypasses the channel cache
	Refresh bool `json:"refresh,omitempty" doc:"Bypass the channel cache"`
}

// HistoryEntryRequest records one watched video
type HistoryEntryRequest struct {
	VideoID       string  `json:"videoId" minLength:"1" doc:"Watched video identifier"`
	Title         string  `json:"title,omitempty"`
	Author        string  `json:"author,omitempty"`
	AuthorID      string  `json:"authorId,omitempty"`
	LengthSeconds string  `json:"lengthSeconds,omitempty"`
	WatchProgress float64 `json:"watchProgress,omitempty" minimum:"0" doc:"Seconds watched"`

	// TimeWatched defaults to now
	TimeWatched *time.Time `json:"timeWatched,omitempty" doc:"When the video was watched; defaults to now"`
}
