// ABOUTME: Channel and feed kind domain models for subscription aggregation
// ABOUTME: Provides validation for channel reference data and kind parsing

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Channel is a content source the user follows.
// Channels are reference data supplied by the caller and never mutated.
type Channel struct {
	// ID is the backend channel identifier (e.g. "UCxxxx")
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`
}

// Validate checks if the channel has valid required fields
func (c Channel) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("channel ID cannot be empty")
	}
	return nil
}

// FeedKind selects one of the three independently cached result sets per channel
type FeedKind string

const (
	// KindVideos is the regular uploads list
	KindVideos FeedKind = "videos"

	// KindLiveStreams is the live stream list
	KindLiveStreams FeedKind = "liveStreams"

	// KindRSSFeedEntries is the syndication document entry list
	KindRSSFeedEntries FeedKind = "rssFeedEntries"
)

// ParseFeedKind converts a string into a FeedKind
func ParseFeedKind(s string) (FeedKind, error) {
	switch FeedKind(s) {
	case KindVideos, KindLiveStreams, KindRSSFeedEntries:
		return FeedKind(s), nil
	case "":
		return KindVideos, nil
	default:
		return "", fmt.Errorf("unknown feed kind %q", s)
	}
}

// IsSyndication reports whether the kind is served from syndication documents
func (k FeedKind) IsSyndication() bool {
	return k == KindRSSFeedEntries
}

// BackendKind names one of the two interchangeable content backends
type BackendKind string

const (
	// BackendLocal talks to the upstream platform directly
	BackendLocal BackendKind = "local"

	// BackendInvidious goes through a remote proxy instance
	BackendInvidious BackendKind = "invidious"
)

// ParseBackendKind converts a preference string into a BackendKind
func ParseBackendKind(s string) (BackendKind, error) {
	switch BackendKind(strings.ToLower(s)) {
	case BackendLocal:
		return BackendLocal, nil
	case BackendInvidious:
		return BackendInvidious, nil
	default:
		return "", fmt.Errorf("unknown backend %q", s)
	}
}

// Other returns the alternate backend used for fallback
func (b BackendKind) Other() BackendKind {
	if b == BackendLocal {
		return BackendInvidious
	}
	return BackendLocal
}
