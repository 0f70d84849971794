// ABOUTME: Mappers for converting between domain models and API DTOs
// ABOUTME: Provides clean separation between business logic and API layer

package mappers

import (
	"subfeed-api/api/dto/requests"
	"subfeed-api/api/dto/responses"
	"subfeed-api/core/domain"
	"subfeed-api/core/errors"
	"subfeed-api/core/feed"
	"subfeed-api/core/history"
	"subfeed-api/core/subscriptions"
	"subfeed-api/pkg/utils/duration"
)

// ToLoadRequest overlays the fields set in req onto defaults
func ToLoadRequest(req requests.FeedRequest, defaults subscriptions.LoadRequest) (subscriptions.LoadRequest, error) {
	out := defaults

	if len(req.Channels) > 0 {
		out.Channels = make([]domain.Channel, 0, len(req.Channels))
		for _, c := range req.Channels {
			out.Channels = append(out.Channels, domain.Channel{ID: c.ID, Name: c.Name})
		}
	}

	if req.Kind != "" {
		kind, err := domain.ParseFeedKind(req.Kind)
		if err != nil {
			return out, &errors.ValidationError{Field: "kind", Message: err.Error()}
		}
		out.Kind = kind
	}

	if req.Backend != "" {
		backend, err := domain.ParseBackendKind(req.Backend)
		if err != nil {
			return out, &errors.ValidationError{Field: "backend", Message: err.Error()}
		}
		out.Backend = backend
	}

	overlay(&out.Fallback, req.Fallback)
	overlay(&out.UseRSSFeeds, req.UseRSSFeeds)
	overlay(&out.FetchAutomatically, req.FetchAutomatically)
	overlay(&out.Options.HideLiveStreams, req.HideLiveStreams)
	overlay(&out.Options.HideUpcomingPremieres, req.HideUpcomingPremieres)
	overlay(&out.Options.HideWatchedSubs, req.HideWatchedSubs)

	if req.DataLimit > 0 {
		out.DataLimit = req.DataLimit
	}

	return out, nil
}

func overlay(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// ToFeedEntryResponse converts a domain FeedEntry to its DTO
func ToFeedEntryResponse(entry domain.FeedEntry) responses.FeedEntryResponse {
	return responses.FeedEntryResponse{
		VideoID:       entry.VideoID,
		Title:         entry.Title,
		Author:        entry.Author,
		AuthorID:      entry.AuthorID,
		Type:          entry.Type,
		PublishedDate: entry.PublishedDate,
		PublishedText: entry.PublishedText,
		ViewCount:     entry.ViewCount,
		LengthSeconds: entry.LengthSeconds,
		Duration:      duration.FormatSeconds(entry.LengthSeconds),
		LiveNow:       entry.LiveNow,
		IsUpcoming:    entry.IsUpcoming,
		PremiereDate:  entry.PremiereDate,
		IsRSS:         entry.IsRSS,
	}
}

// ToFeedEntryResponses converts entries, never returning nil
func ToFeedEntryResponses(entries []domain.FeedEntry) []responses.FeedEntryResponse {
	out := make([]responses.FeedEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, ToFeedEntryResponse(entry))
	}
	return out
}

// ToFeedResponse converts a subscriptions FeedView to a FeedResponse DTO
func ToFeedResponse(view *subscriptions.FeedView) *responses.FeedResponse {
	if view == nil {
		return nil
	}

	response := &responses.FeedResponse{
		Kind:              string(view.Kind),
		Entries:           ToFeedEntryResponses(view.Entries),
		Total:             view.Total,
		DataLimit:         view.DataLimit,
		HasMore:           view.HasMore,
		ForcedSyndication: view.ForcedSyndication,
		AttemptedFetch:    view.AttemptedFetch,
		FromCache:         view.FromCache,
		ErrorChannels:     make([]responses.ChannelResponse, 0, len(view.ErrorChannels)),
	}
	if view.HasMore {
		response.NextDataLimit = feed.NextDataLimit(view.DataLimit)
	}

	for _, c := range view.ErrorChannels {
		response.ErrorChannels = append(response.ErrorChannels, responses.ChannelResponse{ID: c.ID, Name: c.Name})
	}
	for _, e := range view.Errors {
		response.Errors = append(response.Errors, ToChannelErrorResponse(e))
	}

	return response
}

// ToChannelErrorResponse converts an aggregation failure to its DTO
func ToChannelErrorResponse(e feed.ChannelError) responses.ChannelErrorResponse {
	message := ""
	if e.Err != nil {
		message = e.Err.Error()
	}
	return responses.ChannelErrorResponse{
		ChannelID: e.Channel.ID,
		Name:      e.Channel.Name,
		Backend:   string(e.Backend),
		NoFeed:    errors.IsNoFeed(e.Err),
		Error:     message,
	}
}

// ToPageResponse converts a playlist page to its DTO
func ToPageResponse(page *domain.Page) *responses.PageResponse {
	if page == nil {
		return nil
	}

	response := &responses.PageResponse{Entries: ToFeedEntryResponses(page.Entries)}
	if c := page.Continuation; c != nil && c.HasMore {
		response.Continuation = &responses.ContinuationResponse{
			CollectionID: c.CollectionID,
			Token:        c.Token,
			Source:       string(c.Source),
		}
	}
	return response
}

// ToHistoryEntry converts a record request to a domain HistoryEntry
func ToHistoryEntry(req requests.HistoryEntryRequest) domain.HistoryEntry {
	entry := domain.HistoryEntry{
		VideoID:       req.VideoID,
		Title:         req.Title,
		Author:        req.Author,
		AuthorID:      req.AuthorID,
		LengthSeconds: req.LengthSeconds,
		WatchProgress: req.WatchProgress,
	}
	if req.TimeWatched != nil {
		entry.TimeWatched = *req.TimeWatched
	}
	return entry
}

// ToHistoryEntryResponse converts a domain HistoryEntry to its DTO
func ToHistoryEntryResponse(entry domain.HistoryEntry) responses.HistoryEntryResponse {
	return responses.HistoryEntryResponse{
		VideoID:       entry.VideoID,
		Title:         entry.Title,
		Author:        entry.Author,
		AuthorID:      entry.AuthorID,
		LengthSeconds: entry.LengthSeconds,
		TimeWatched:   entry.TimeWatched,
		WatchProgress: entry.WatchProgress,
	}
}

// ToHistoryListResponse converts a history listing to its DTO
func ToHistoryListResponse(listing *history.Listing) *responses.HistoryListResponse {
	if listing == nil {
		return nil
	}

	response := &responses.HistoryListResponse{
		Entries: make([]responses.HistoryEntryResponse, 0, len(listing.Entries)),
		Total:   listing.Total,
		HasMore: listing.HasMore,
	}
	for _, entry := range listing.Entries {
		response.Entries = append(response.Entries, ToHistoryEntryResponse(entry))
	}
	return response
}
