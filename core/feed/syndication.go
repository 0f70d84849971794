// ABOUTME: Syndication fetch downloads a channel's Atom document through the HTTP client
// ABOUTME: Status codes are classified as no-feed or backend failures before parsing

package feed

import (
	"context"
	"fmt"
	"io"

	"subfeed-api/core/domain"
	"subfeed-api/core/errors"
	"subfeed-api/core/interfaces"
	"subfeed-api/core/syndication"
)

// MaxDocumentSize caps the bytes read from one syndication document
const MaxDocumentSize = 5 << 20

var errDocumentTooLarge = fmt.Errorf("syndication document exceeds %d bytes", MaxDocumentSize)

// fetchSyndication downloads and parses a channel's syndication document
// from the backend's feed URL
func (a *Aggregator) fetchSyndication(ctx context.Context, backend interfaces.Backend, channelID string) ([]domain.FeedEntry, error) {
	if a.httpClient == nil {
		return nil, &errors.BackendCallError{
			Backend:   string(backend.Kind()),
			ChannelID: channelID,
			Err:       errHTTPClientMissing,
		}
	}

	resp, err := a.httpClient.Get(ctx, backend.FeedURL(channelID))
	if err != nil {
		return nil, &errors.BackendCallError{Backend: string(backend.Kind()), ChannelID: channelID, Err: err}
	}
	body := resp.Body()
	defer body.Close()

	status := resp.StatusCode()
	if backend.IsNoFeedStatus(status) {
		return nil, &errors.NoFeedError{Backend: string(backend.Kind()), ChannelID: channelID, StatusCode: status}
	}
	if status < 200 || status > 299 {
		return nil, &errors.BackendCallError{Backend: string(backend.Kind()), ChannelID: channelID, StatusCode: status}
	}

	document, err := io.ReadAll(io.LimitReader(body, MaxDocumentSize+1))
	if err != nil {
		return nil, &errors.BackendCallError{Backend: string(backend.Kind()), ChannelID: channelID, Err: err}
	}
	if len(document) > MaxDocumentSize {
		return nil, &errors.BackendCallError{Backend: string(backend.Kind()), ChannelID: channelID, Err: errDocumentTooLarge}
	}

	return syndication.Parse(ctx, document, channelID)
}
