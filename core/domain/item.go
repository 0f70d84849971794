// ABOUTME: FeedEntry domain model represents one video, stream or syndication entry
// ABOUTME: Entries are value objects identified only by their video ID

package domain

import "time"

// EntryTypeVideo is the only entry type produced by the aggregation pipeline
const EntryTypeVideo = "video"

// FeedEntry represents one piece of channel content
type FeedEntry struct {
	// VideoID is unique within a channel and feed kind
	VideoID string `json:"videoId"`

	// Title is the entry headline
	Title string `json:"title"`

	// AuthorID is the owning channel identifier
	AuthorID string `json:"authorId"`

	// Author is the owning channel display name
	Author string `json:"author"`

	// PublishedDate is the derived absolute publish instant
	PublishedDate time.Time `json:"publishedDate"`

	// PublishedText is the backend-specific human readable publish string
	PublishedText string `json:"publishedText"`

	// ViewCount is nil when the source does not supply a count
	ViewCount *string `json:"viewCount"`

	Type          string `json:"type"`
	LengthSeconds string `json:"lengthSeconds"`

	LiveNow    bool `json:"liveNow"`
	IsUpcoming bool `json:"isUpcoming"`

	// PremiereDate is only set for upcoming premieres reported by the local backend
	PremiereDate *time.Time `json:"premiereDate,omitempty"`

	// IsRSS marks entries parsed from syndication documents
	IsRSS bool `json:"isRSS"`

	// Raw timing inputs reported by the proxy backend, in unix seconds
	PublishedEpoch    int64 `json:"published,omitempty"`
	PremiereTimestamp int64 `json:"premiereTimestamp,omitempty"`
}

// IsValid checks if the entry has the fields required for display
func (e *FeedEntry) IsValid() bool {
	if e.VideoID == "" {
		return false
	}

	if e.Title == "" {
		return false
	}

	return true
}

// HasViewCount reports whether the entry carries the given literal view count
func (e *FeedEntry) HasViewCount(count string) bool {
	return e.ViewCount != nil && *e.ViewCount == count
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
