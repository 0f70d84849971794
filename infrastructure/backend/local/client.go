// ABOUTME: Local backend talks to the YouTube Data API directly
// ABOUTME: Lists uploads playlists, enriches them with video details and pages playlists

package local

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
	"subfeed-api/core/domain"
	coreerrors "subfeed-api/core/errors"
	"subfeed-api/core/interfaces"
	"subfeed-api/pkg/utils/duration"
	timeutil "subfeed-api/pkg/utils/time"
)

const (
	defaultFeedBase = "https://www.youtube.com/feeds/videos.xml?channel_id="
	pageSize        = 50
)

var (
	errAPIKeyMissing = errors.New("YouTube API key not configured")
	errNotAChannel   = errors.New("channel ID must start with UC")
)

// Options configures the client
type Options struct {
	APIKey string

	// Endpoint overrides the Data API base URL
	Endpoint string

	// HTTPClient carries the shared timeout and throttle
	HTTPClient *http.Client

	// FeedBase is prefixed to the channel ID to form the syndication URL
	FeedBase string

	Logger interfaces.Logger
}

// Client implements interfaces.Backend and interfaces.PageFetcher
type Client struct {
	service  *youtube.Service
	apiKey   string
	feedBase string
	logger   interfaces.Logger
}

// NewClient creates a Data API client
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	var clientOpts []option.ClientOption
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	} else if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	feedBase := opts.FeedBase
	if feedBase == "" {
		feedBase = defaultFeedBase
	}
	logger := opts.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}

	return &Client{
		service:  service,
		apiKey:   opts.APIKey,
		feedBase: feedBase,
		logger:   logger,
	}, nil
}

// Kind identifies the backend variant
func (c *Client) Kind() domain.BackendKind {
	return domain.BackendLocal
}

// FeedURL returns the channel's syndication document URL
func (c *Client) FeedURL(channelID string) string {
	return c.feedBase + channelID
}

// IsNoFeedStatus reports whether status means the channel has no feed
func (c *Client) IsNoFeedStatus(status int) bool {
	return status == http.StatusNotFound
}

// FetchVideos lists the channel's most recent uploads. Upcoming premieres
// stay in the list; live and finished broadcasts belong to FetchLiveStreams.
func (c *Client) FetchVideos(ctx context.Context, channelID string) ([]domain.FeedEntry, error) {
	videos, err := c.uploads(ctx, channelID)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.FeedEntry, 0, len(videos))
	for _, v := range videos {
		if isLive(v) || wasStreamed(v) {
			continue
		}
		entries = append(entries, toEntry(v))
	}
	return entries, nil
}

// FetchLiveStreams lists the uploads that were, are, or will be broadcast live
func (c *Client) FetchLiveStreams(ctx context.Context, channelID string) ([]domain.FeedEntry, error) {
	videos, err := c.uploads(ctx, channelID)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.FeedEntry, 0)
	for _, v := range videos {
		if v.LiveStreamingDetails != nil {
			entries = append(entries, toEntry(v))
		}
	}
	return entries, nil
}

// FetchPage lists one page of a playlist. The token is the Data API page token.
func (c *Client) FetchPage(ctx context.Context, playlistID, token string) ([]domain.FeedEntry, string, error) {
	if c.apiKey == "" {
		return nil, "", &coreerrors.BackendCallError{Backend: string(domain.BackendLocal), ChannelID: playlistID, Err: errAPIKeyMissing}
	}

	call := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(pageSize).
		Context(ctx)
	if token != "" {
		call = call.PageToken(token)
	}

	resp, err := call.Do(c.keyParam())
	if err != nil {
		return nil, "", c.classify(playlistID, err)
	}

	videos, err := c.videos(ctx, playlistID, videoIDs(resp.Items))
	if err != nil {
		return nil, "", err
	}

	entries := make([]domain.FeedEntry, 0, len(videos))
	for _, v := range videos {
		entries = append(entries, toEntry(v))
	}
	return entries, resp.NextPageToken, nil
}

// uploads returns the first page of the channel's uploads playlist with
// full video details
func (c *Client) uploads(ctx context.Context, channelID string) ([]*youtube.Video, error) {
	if c.apiKey == "" {
		return nil, &coreerrors.BackendCallError{Backend: string(domain.BackendLocal), ChannelID: channelID, Err: errAPIKeyMissing}
	}

	playlistID, err := UploadsPlaylistID(channelID)
	if err != nil {
		return nil, &coreerrors.BackendCallError{Backend: string(domain.BackendLocal), ChannelID: channelID, Err: err}
	}

	resp, err := c.service.PlaylistItems.List([]string{"contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(pageSize).
		Context(ctx).
		Do(c.keyParam())
	if err != nil {
		return nil, c.classify(channelID, err)
	}

	return c.videos(ctx, channelID, videoIDs(resp.Items))
}

func (c *Client) videos(ctx context.Context, channelID string, ids []string) ([]*youtube.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	resp, err := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics", "liveStreamingDetails"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do(c.keyParam())
	if err != nil {
		return nil, c.classify(channelID, err)
	}

	c.logger.Debug("Fetched video details", map[string]interface{}{
		"channel_id": channelID,
		"requested":  len(ids),
		"returned":   len(resp.Items),
	})
	return resp.Items, nil
}

// keyParam attaches the API key explicitly since a custom HTTP client
// bypasses option.WithAPIKey
func (c *Client) keyParam() googleapi.CallOption {
	return googleapi.QueryParameter("key", c.apiKey)
}

// classify maps a Data API failure onto the fallback taxonomy: a missing
// playlist means the channel has no feed, anything else may be retried
func (c *Client) classify(channelID string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusNotFound {
			return &coreerrors.NoFeedError{Backend: string(domain.BackendLocal), ChannelID: channelID, StatusCode: apiErr.Code}
		}
		return &coreerrors.BackendCallError{Backend: string(domain.BackendLocal), ChannelID: channelID, StatusCode: apiErr.Code, Err: err}
	}
	return &coreerrors.BackendCallError{Backend: string(domain.BackendLocal), ChannelID: channelID, Err: err}
}

// UploadsPlaylistID derives the uploads playlist ("UU...") of a channel ("UC...")
func UploadsPlaylistID(channelID string) (string, error) {
	if !strings.HasPrefix(channelID, "UC") || len(channelID) < 3 {
		return "", errNotAChannel
	}
	return "UU" + channelID[2:], nil
}

func videoIDs(items []*youtube.PlaylistItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		switch {
		case item.ContentDetails != nil && item.ContentDetails.VideoId != "":
			ids = append(ids, item.ContentDetails.VideoId)
		case item.Snippet != nil && item.Snippet.ResourceId != nil && item.Snippet.ResourceId.VideoId != "":
			ids = append(ids, item.Snippet.ResourceId.VideoId)
		}
	}
	return ids
}

func isLive(v *youtube.Video) bool {
	return v.Snippet != nil && v.Snippet.LiveBroadcastContent == "live"
}

func wasStreamed(v *youtube.Video) bool {
	return v.LiveStreamingDetails != nil && v.LiveStreamingDetails.ActualStartTime != ""
}

func toEntry(v *youtube.Video) domain.FeedEntry {
	entry := domain.FeedEntry{
		VideoID: v.Id,
		Type:    domain.EntryTypeVideo,
	}

	if v.Snippet != nil {
		entry.Title = v.Snippet.Title
		entry.AuthorID = v.Snippet.ChannelId
		entry.Author = v.Snippet.ChannelTitle
		entry.PublishedText = v.Snippet.PublishedAt
		entry.PublishedDate = timeutil.ParseFlexibleTime(v.Snippet.PublishedAt)
		entry.LiveNow = v.Snippet.LiveBroadcastContent == "live"
		entry.IsUpcoming = v.Snippet.LiveBroadcastContent == "upcoming"
	}

	if v.ContentDetails != nil {
		entry.LengthSeconds = duration.ISO8601ToSeconds(v.ContentDetails.Duration)
	}

	if v.Statistics != nil && !entry.IsUpcoming {
		entry.ViewCount = domain.StringPtr(strconv.FormatUint(v.Statistics.ViewCount, 10))
	}

	if entry.IsUpcoming && v.LiveStreamingDetails != nil {
		if t := timeutil.ParseFlexibleTime(v.LiveStreamingDetails.ScheduledStartTime); !t.IsZero() {
			entry.PremiereDate = &t
		}
	}

	return entry
}
