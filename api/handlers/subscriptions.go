// ABOUTME: Subscription feed handlers for the Huma API
// ABOUTME: Serves cached or freshly aggregated feeds and clears the channel cache

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"subfeed-api/api/dto/mappers"
	"subfeed-api/api/dto/requests"
	"subfeed-api/api/dto/responses"
	"subfeed-api/core/subscriptions"
)

// SubscriptionService interface defines the methods needed from the subscriptions service
type SubscriptionService interface {
	LoadFeed(ctx context.Context, req subscriptions.LoadRequest) (*subscriptions.FeedView, error)
	Refresh(ctx context.Context, req subscriptions.LoadRequest) (*subscriptions.FeedView, error)
	ClearCache()
}

// SubscriptionHandler handles subscription feed requests
type SubscriptionHandler struct {
	service  SubscriptionService
	defaults subscriptions.LoadRequest
}

// NewSubscriptionHandler creates a handler. defaults supplies every field a
// request leaves out, including the configured channel list.
func NewSubscriptionHandler(service SubscriptionService, defaults subscriptions.LoadRequest) *SubscriptionHandler {
	return &SubscriptionHandler{
		service:  service,
		defaults: defaults,
	}
}

// RegisterRoutes registers all subscription routes
func (h *SubscriptionHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getSubscriptionFeed",
		Method:      http.MethodGet,
		Path:        "/subscriptions/feed",
		Summary:     "Get the subscription feed",
		Description: "Serves the feed from the channel cache when every channel is cached, otherwise aggregates it from the backends",
		Tags:        []string{"Subscriptions"},
	}, h.GetFeed)

	huma.Register(api, huma.Operation{
		OperationID: "loadSubscriptionFeed",
		Method:      http.MethodPost,
		Path:        "/subscriptions/feed",
		Summary:     "Load the subscription feed for explicit channels",
		Description: "Like GET but with a channel list and per-request overrides in the body",
		Tags:        []string{"Subscriptions"},
	}, h.LoadFeed)

	huma.Register(api, huma.Operation{
		OperationID:   "clearSubscriptionCache",
		Method:        http.MethodDelete,
		Path:          "/subscriptions/cache",
		Summary:       "Clear the channel cache",
		Tags:          []string{"Subscriptions"},
		DefaultStatus: http.StatusNoContent,
	}, h.ClearCache)
}

// GetFeedInput defines the query parameters of the GET feed operation
type GetFeedInput struct {
	Kind     string `query:"kind" enum:"videos,liveStreams,rssFeedEntries" doc:"Feed kind (default videos)"`
	Channels string `query:"channels" doc:"Comma separated channel IDs; defaults to the configured list"`
	Backend  string `query:"backend" enum:"local,invidious" doc:"Preferred backend"`
	Limit    int    `query:"limit" minimum:"0" doc:"Number of entries to return"`
	Refresh  bool   `query:"refresh" doc:"Bypass the channel cache"`
}

// LoadFeedInput defines the input for the POST feed operation
type LoadFeedInput struct {
	Body requests.FeedRequest
}

// FeedOutput defines the output of both feed operations
type FeedOutput struct {
	Body responses.FeedResponse
}

// GetFeed handles GET /subscriptions/feed
func (h *SubscriptionHandler) GetFeed(ctx context.Context, input *GetFeedInput) (*FeedOutput, error) {
	req := requests.FeedRequest{
		Kind:      input.Kind,
		Backend:   input.Backend,
		DataLimit: input.Limit,
		Refresh:   input.Refresh,
	}
	for _, id := range strings.Split(input.Channels, ",") {
		if id = strings.TrimSpace(id); id != "" {
			req.Channels = append(req.Channels, requests.ChannelRequest{ID: id, Name: h.channelName(id)})
		}
	}
	return h.load(ctx, req)
}

// LoadFeed handles POST /subscriptions/feed
func (h *SubscriptionHandler) LoadFeed(ctx context.Context, input *LoadFeedInput) (*FeedOutput, error) {
	return h.load(ctx, input.Body)
}

func (h *SubscriptionHandler) load(ctx context.Context, body requests.FeedRequest) (*FeedOutput, error) {
	req, err := mappers.ToLoadRequest(body, h.defaults)
	if err != nil {
		return nil, toHumaError(err)
	}

	var view *subscriptions.FeedView
	if body.Refresh {
		view, err = h.service.Refresh(ctx, req)
	} else {
		view, err = h.service.LoadFeed(ctx, req)
	}
	if err != nil {
		return nil, toHumaError(err)
	}

	return &FeedOutput{Body: *mappers.ToFeedResponse(view)}, nil
}

// channelName looks up a display name in the configured channel list
func (h *SubscriptionHandler) channelName(id string) string {
	for _, c := range h.defaults.Channels {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

// ClearCache handles DELETE /subscriptions/cache
func (h *SubscriptionHandler) ClearCache(ctx context.Context, input *struct{}) (*struct{}, error) {
	h.service.ClearCache()
	return nil, nil
}
