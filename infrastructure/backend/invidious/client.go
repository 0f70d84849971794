// ABOUTME: Invidious backend reads channel and playlist listings from a proxy instance
// ABOUTME: Uses the shared HTTP client so proxy calls obey the outbound rate limit

package invidious

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"subfeed-api/core/domain"
	coreerrors "subfeed-api/core/errors"
	"subfeed-api/core/interfaces"
)

const (
	// playlistPageSize is the number of videos an instance returns per playlist page
	playlistPageSize = 100

	// maxResponseSize caps the bytes read from one instance response
	maxResponseSize = 8 << 20
)

// Client implements interfaces.Backend and interfaces.PageFetcher
type Client struct {
	instance   string
	httpClient interfaces.HTTPClient
	logger     interfaces.Logger
}

// NewClient creates a client for the instance base URL (e.g. https://invidious.fdn.fr)
func NewClient(instance string, deps interfaces.Dependencies) *Client {
	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Client{
		instance:   strings.TrimRight(instance, "/"),
		httpClient: deps.HTTPClient,
		logger:     logger,
	}
}

// Instance returns the configured base URL
func (c *Client) Instance() string {
	return c.instance
}

// Kind identifies the backend variant
func (c *Client) Kind() domain.BackendKind {
	return domain.BackendInvidious
}

// FeedURL returns the channel's syndication document URL on the instance
func (c *Client) FeedURL(channelID string) string {
	return fmt.Sprintf("%s/feed/channel/%s", c.instance, channelID)
}

// IsNoFeedStatus reports whether status means the channel has no feed.
// Instances answer 500 for channels they cannot render.
func (c *Client) IsNoFeedStatus(status int) bool {
	return status == http.StatusInternalServerError
}

// FetchVideos lists the channel's recent uploads
func (c *Client) FetchVideos(ctx context.Context, channelID string) ([]domain.FeedEntry, error) {
	return c.channelTab(ctx, channelID, "videos")
}

// FetchLiveStreams lists the channel's streams tab
func (c *Client) FetchLiveStreams(ctx context.Context, channelID string) ([]domain.FeedEntry, error) {
	return c.channelTab(ctx, channelID, "streams")
}

// FetchPage lists one page of a playlist. Tokens are 1-based page numbers;
// the empty token is page 1.
func (c *Client) FetchPage(ctx context.Context, playlistID, token string) ([]domain.FeedEntry, string, error) {
	page := 1
	if token != "" {
		n, err := strconv.Atoi(token)
		if err != nil || n < 1 {
			return nil, "", &coreerrors.ValidationError{Field: "token", Message: fmt.Sprintf("invalid page token %q", token)}
		}
		page = n
	}

	endpoint := fmt.Sprintf("%s/api/v1/playlists/%s?page=%d", c.instance, url.PathEscape(playlistID), page)
	body, err := c.get(ctx, playlistID, endpoint)
	if err != nil {
		return nil, "", err
	}

	var playlist playlistResponse
	if err := json.Unmarshal(body, &playlist); err != nil {
		return nil, "", &coreerrors.BackendCallError{Backend: string(domain.BackendInvidious), ChannelID: playlistID, Err: fmt.Errorf("decode playlist: %w", err)}
	}

	entries := toEntries(playlist.Videos)
	next := ""
	if len(playlist.Videos) > 0 && page*playlistPageSize < playlist.VideoCount {
		next = strconv.Itoa(page + 1)
	}
	return entries, next, nil
}

func (c *Client) channelTab(ctx context.Context, channelID, tab string) ([]domain.FeedEntry, error) {
	endpoint := fmt.Sprintf("%s/api/v1/channels/%s/%s", c.instance, url.PathEscape(channelID), tab)
	body, err := c.get(ctx, channelID, endpoint)
	if err != nil {
		return nil, err
	}

	videos, err := decodeVideos(body)
	if err != nil {
		return nil, &coreerrors.BackendCallError{Backend: string(domain.BackendInvidious), ChannelID: channelID, Err: fmt.Errorf("decode %s: %w", tab, err)}
	}

	c.logger.Debug("Fetched channel tab", map[string]interface{}{
		"channel_id": channelID,
		"tab":        tab,
		"count":      len(videos),
	})
	return toEntries(videos), nil
}

func (c *Client) get(ctx context.Context, id, endpoint string) ([]byte, error) {
	if c.httpClient == nil {
		return nil, &coreerrors.BackendCallError{Backend: string(domain.BackendInvidious), ChannelID: id, Err: fmt.Errorf("HTTP client not configured")}
	}

	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, &coreerrors.BackendCallError{Backend: string(domain.BackendInvidious), ChannelID: id, Err: err}
	}
	body := resp.Body()
	defer body.Close()

	if status := resp.StatusCode(); status < 200 || status > 299 {
		return nil, &coreerrors.BackendCallError{Backend: string(domain.BackendInvidious), ChannelID: id, StatusCode: status}
	}

	data, err := io.ReadAll(io.LimitReader(body, maxResponseSize+1))
	if err != nil {
		return nil, &coreerrors.BackendCallError{Backend: string(domain.BackendInvidious), ChannelID: id, Err: err}
	}
	if len(data) > maxResponseSize {
		return nil, &coreerrors.BackendCallError{Backend: string(domain.BackendInvidious), ChannelID: id, Err: fmt.Errorf("response exceeds %d bytes", maxResponseSize)}
	}
	return data, nil
}

// decodeVideos accepts both the bare array older instances return and the
// {"videos": [...]} envelope newer ones use
func decodeVideos(body []byte) ([]video, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var videos []video
		if err := json.Unmarshal(trimmed, &videos); err != nil {
			return nil, err
		}
		return videos, nil
	}

	var envelope struct {
		Videos []video `json:"videos"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	return envelope.Videos, nil
}

func toEntries(videos []video) []domain.FeedEntry {
	entries := make([]domain.FeedEntry, 0, len(videos))
	for _, v := range videos {
		if v.VideoID == "" {
			continue
		}
		entries = append(entries, v.toEntry())
	}
	return entries
}
