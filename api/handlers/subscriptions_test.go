package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"subfeed-api/api/dto/responses"
	"subfeed-api/core/domain"
	coreerrors "subfeed-api/core/errors"
	"subfeed-api/core/subscriptions"
)

func subscriptionDefaults() subscriptions.LoadRequest {
	return subscriptions.LoadRequest{
		Channels:           []domain.Channel{{ID: "UC1", Name: "One"}, {ID: "UC2", Name: "Two"}},
		Kind:               domain.KindVideos,
		Backend:            domain.BackendLocal,
		Fallback:           true,
		FetchAutomatically: true,
		DataLimit:          100,
	}
}

func newSubscriptionAPI(t *testing.T, service *mockSubscriptionService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewSubscriptionHandler(service, subscriptionDefaults()).RegisterRoutes(api)
	return api
}

func decodeFeed(t *testing.T, body []byte) responses.FeedResponse {
	t.Helper()
	var out responses.FeedResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestSubscriptionHandler_RegisterRoutes(t *testing.T) {
	api := newSubscriptionAPI(t, &mockSubscriptionService{})

	paths := api.OpenAPI().Paths
	require.NotNil(t, paths["/subscriptions/feed"])
	assert.NotNil(t, paths["/subscriptions/feed"].Get)
	assert.NotNil(t, paths["/subscriptions/feed"].Post)
	require.NotNil(t, paths["/subscriptions/cache"])
	assert.NotNil(t, paths["/subscriptions/cache"].Delete)
}

func TestGetFeed_UsesConfiguredDefaults(t *testing.T) {
	service := &mockSubscriptionService{
		loadFunc: func(ctx context.Context, req subscriptions.LoadRequest) (*subscriptions.FeedView, error) {
			return &subscriptions.FeedView{
				Kind:           req.Kind,
				Entries:        []domain.FeedEntry{{VideoID: "a", Title: "A", LengthSeconds: "90"}},
				Total:          1,
				DataLimit:      req.DataLimit,
				AttemptedFetch: true,
				FromCache:      true,
			}, nil
		},
	}
	api := newSubscriptionAPI(t, service)

	resp := api.Get("/subscriptions/feed")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	feed := decodeFeed(t, resp.Body.Bytes())
	assert.Equal(t, "videos", feed.Kind)
	assert.True(t, feed.FromCache)
	require.Len(t, feed.Entries, 1)
	assert.Equal(t, "1:30", feed.Entries[0].Duration)

	assert.Equal(t, subscriptionDefaults().Channels, service.lastRequest.Channels)
	assert.Equal(t, domain.BackendLocal, service.lastRequest.Backend)
}

func TestGetFeed_QueryOverrides(t *testing.T) {
	service := &mockSubscriptionService{}
	api := newSubscriptionAPI(t, service)

	resp := api.Get("/subscriptions/feed?kind=liveStreams&channels=UC2,%20UC9&backend=invidious&limit=50")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	req := service.lastRequest
	assert.Equal(t, domain.KindLiveStreams, req.Kind)
	assert.Equal(t, domain.BackendInvidious, req.Backend)
	assert.Equal(t, 50, req.DataLimit)
	assert.Equal(t, []domain.Channel{{ID: "UC2", Name: "Two"}, {ID: "UC9"}}, req.Channels)
}

func TestGetFeed_RefreshBypassesCache(t *testing.T) {
	refreshed := false
	service := &mockSubscriptionService{
		refreshFunc: func(ctx context.Context, req subscriptions.LoadRequest) (*subscriptions.FeedView, error) {
			refreshed = true
			return &subscriptions.FeedView{Kind: req.Kind}, nil
		},
	}
	api := newSubscriptionAPI(t, service)

	resp := api.Get("/subscriptions/feed?refresh=true")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, refreshed)
}

func TestGetFeed_InvalidKindRejected(t *testing.T) {
	api := newSubscriptionAPI(t, &mockSubscriptionService{})

	resp := api.Get("/subscriptions/feed?kind=shorts")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestLoadFeed_BodyOverrides(t *testing.T) {
	service := &mockSubscriptionService{}
	api := newSubscriptionAPI(t, service)

	resp := api.Post("/subscriptions/feed", map[string]any{
		"channels":        []map[string]any{{"id": "UCa", "name": "A"}},
		"kind":            "rssFeedEntries",
		"fallback":        false,
		"useRssFeeds":     true,
		"hideLiveStreams": true,
		"dataLimit":       300,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	req := service.lastRequest
	assert.Equal(t, []domain.Channel{{ID: "UCa", Name: "A"}}, req.Channels)
	assert.Equal(t, domain.KindRSSFeedEntries, req.Kind)
	assert.False(t, req.Fallback)
	assert.True(t, req.UseRSSFeeds)
	assert.True(t, req.Options.HideLiveStreams)
	assert.Equal(t, 300, req.DataLimit)
}

func TestLoadFeed_ForcedSyndicationAndErrorChannels(t *testing.T) {
	service := &mockSubscriptionService{
		loadFunc: func(ctx context.Context, req subscriptions.LoadRequest) (*subscriptions.FeedView, error) {
			return &subscriptions.FeedView{
				Kind:              domain.KindRSSFeedEntries,
				Entries:           []domain.FeedEntry{},
				Total:             250,
				DataLimit:         100,
				HasMore:           true,
				ForcedSyndication: true,
				AttemptedFetch:    true,
				ErrorChannels:     []domain.Channel{{ID: "UCgone"}},
			}, nil
		},
	}
	api := newSubscriptionAPI(t, service)

	resp := api.Post("/subscriptions/feed", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	feed := decodeFeed(t, resp.Body.Bytes())
	assert.Equal(t, "rssFeedEntries", feed.Kind)
	assert.True(t, feed.ForcedSyndication)
	assert.Equal(t, 200, feed.NextDataLimit)
	require.Len(t, feed.ErrorChannels, 1)
	assert.Equal(t, "UCgone", feed.ErrorChannels[0].ID)
}

func TestLoadFeed_ServiceValidationError(t *testing.T) {
	service := &mockSubscriptionService{
		loadFunc: func(ctx context.Context, req subscriptions.LoadRequest) (*subscriptions.FeedView, error) {
			return nil, &coreerrors.ValidationError{Field: "backend", Message: "backend \"invidious\" is not configured"}
		},
	}
	api := newSubscriptionAPI(t, service)

	resp := api.Post("/subscriptions/feed", map[string]any{"backend": "invidious"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestClearCache(t *testing.T) {
	service := &mockSubscriptionService{}
	api := newSubscriptionAPI(t, service)

	resp := api.Delete("/subscriptions/cache")
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, 1, service.cleared)
}
