// ABOUTME: Backend capability interfaces for the two interchangeable content sources
// ABOUTME: The aggregator dispatches on these; transports stay behind the interface

package interfaces

import (
	"context"

	"subfeed-api/core/domain"
)

// Backend is one content source able to list a channel's videos and live
// streams and to name the URL of its syndication document.
type Backend interface {
	// Kind identifies the backend variant
	Kind() domain.BackendKind

	// FetchVideos lists the channel's recent uploads
	FetchVideos(ctx context.Context, channelID string) ([]domain.FeedEntry, error)

	// FetchLiveStreams lists the channel's live and upcoming streams
	FetchLiveStreams(ctx context.Context, channelID string) ([]domain.FeedEntry, error)

	// FeedURL returns the syndication document URL for the channel
	FeedURL(channelID string) string

	// IsNoFeedStatus reports whether an HTTP status from the syndication
	// endpoint means "this channel has no feed"
	IsNoFeedStatus(statusCode int) bool
}

// PageFetcher retrieves one page of a paginated collection.
// An empty nextToken means the collection is exhausted.
type PageFetcher interface {
	FetchPage(ctx context.Context, collectionID, token string) (entries []domain.FeedEntry, nextToken string, err error)
}
