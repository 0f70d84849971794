// ABOUTME: Response DTOs for subscription feed, playlist and history endpoints
// ABOUTME: Provides structured responses with JSON serialization

package responses

import "time"

// FeedEntryResponse represents one video in API responses
type FeedEntryResponse struct {
	VideoID       string     `json:"videoId" doc:"Video identifier"`
	Title         string     `json:"title" doc:"Video title"`
	Author        string     `json:"author" doc:"Channel display name"`
	AuthorID      string     `json:"authorId" doc:"Channel identifier"`
	Type          string     `json:"type" doc:"Entry type, always video"`
	PublishedDate time.Time  `json:"publishedDate" doc:"Derived publish instant used for sorting"`
	PublishedText string     `json:"publishedText,omitempty" doc:"Backend publish string"`
	ViewCount     *string    `json:"viewCount" doc:"View count, null when unknown"`
	LengthSeconds string     `json:"lengthSeconds,omitempty" doc:"Duration in seconds"`
	Duration      string     `json:"duration,omitempty" doc:"Duration as H:MM:SS or M:SS"`
	LiveNow       bool       `json:"liveNow"`
	IsUpcoming    bool       `json:"isUpcoming"`
	PremiereDate  *time.Time `json:"premiereDate,omitempty"`
	IsRSS         bool       `json:"isRSS" doc:"Parsed from a syndication document"`
}

// ChannelResponse identifies a channel
type ChannelResponse struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ChannelErrorResponse describes a channel whose fetch failed
type ChannelErrorResponse struct {
	ChannelID string `json:"channelId"`
	Name      string `json:"name,omitempty"`
	Backend   string `json:"backend" doc:"Backend of the last attempt"`
	NoFeed    bool   `json:"noFeed" doc:"The backend reported the channel has no feed"`
	Error     string `json:"error"`
}

// FeedResponse is a processed subscription feed
type FeedResponse struct {
	Kind    string              `json:"kind" doc:"Feed kind actually served"`
	Entries []FeedEntryResponse `json:"entries"`

	Total         int  `json:"total" doc:"Entry count after filtering"`
	DataLimit     int  `json:"dataLimit"`
	NextDataLimit int  `json:"nextDataLimit,omitempty" doc:"Limit to request for the next batch"`
	HasMore       bool `json:"hasMore"`

	ForcedSyndication bool `json:"forcedSyndication" doc:"A large channel list switched the run to syndication documents"`
	AttemptedFetch    bool `json:"attemptedFetch"`
	FromCache         bool `json:"fromCache"`

	ErrorChannels []ChannelResponse      `json:"errorChannels" doc:"Channels without a feed"`
	Errors        []ChannelErrorResponse `json:"errors,omitempty" doc:"Every per-channel failure"`
}

// ContinuationResponse is the cursor for the next playlist page
type ContinuationResponse struct {
	CollectionID string `json:"collectionId"`
	Token        string `json:"token"`
	Source       string `json:"source" doc:"Backend that issued the token"`
}

// PageResponse is one page of a playlist
type PageResponse struct {
	Entries      []FeedEntryResponse   `json:"entries"`
	Continuation *ContinuationResponse `json:"continuation" doc:"Null when the playlist is exhausted"`
}

// HistoryEntryResponse is one watched video
type HistoryEntryResponse struct {
	VideoID       string    `json:"videoId"`
	Title         string    `json:"title,omitempty"`
	Author        string    `json:"author,omitempty"`
	AuthorID      string    `json:"authorId,omitempty"`
	LengthSeconds string    `json:"lengthSeconds,omitempty"`
	TimeWatched   time.Time `json:"timeWatched"`
	WatchProgress float64   `json:"watchProgress"`
}

// HistoryListResponse is a filtered view of the watch history
type HistoryListResponse struct {
	Entries []HistoryEntryResponse `json:"entries"`
	Total   int                    `json:"total"`
	HasMore bool                   `json:"hasMore"`
}
