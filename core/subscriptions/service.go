// ABOUTME: Subscriptions service picks between the channel cache and a remote aggregation run
// ABOUTME: Handles forced syndication, the fetch-automatically toggle and the data limit

package subscriptions

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"subfeed-api/core/channelcache"
	"subfeed-api/core/domain"
	"subfeed-api/core/errors"
	"subfeed-api/core/feed"
	"subfeed-api/core/interfaces"
)

// LoadRequest describes which feed to show for a set of active channels
type LoadRequest struct {
	Channels []domain.Channel

	// Kind is the requested tab. UseRSSFeeds replaces it with rssFeedEntries.
	Kind domain.FeedKind

	Backend  domain.BackendKind
	Fallback bool

	UseRSSFeeds        bool
	FetchAutomatically bool

	Options   feed.Options
	DataLimit int

	// Progress is optional
	Progress interfaces.ProgressSink
}

// FeedView is the processed feed handed to a presentation layer
type FeedView struct {
	Kind    domain.FeedKind
	Entries []domain.FeedEntry

	// Total is the entry count after filtering, before the data limit
	Total     int
	DataLimit int
	HasMore   bool

	// ForcedSyndication is set when a large channel list switched the run
	// to syndication documents
	ForcedSyndication bool

	// AttemptedFetch is false when nothing was cached and automatic
	// fetching is off
	AttemptedFetch bool
	FromCache      bool

	// ErrorChannels lists channels the backend reported as having no feed
	ErrorChannels []domain.Channel

	// Errors holds every per-channel failure of the run
	Errors []feed.ChannelError
}

// Service serves subscription feeds
type Service struct {
	aggregator *feed.Aggregator
	cache      *channelcache.ChannelCache
	history    interfaces.HistoryProvider
	logger     interfaces.Logger
}

// NewService creates a subscriptions service. history may be nil, in which
// case the watched filter has nothing to hide.
func NewService(deps interfaces.Dependencies, aggregator *feed.Aggregator, cache *channelcache.ChannelCache, history interfaces.HistoryProvider) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Service{
		aggregator: aggregator,
		cache:      cache,
		history:    history,
		logger:     logger,
	}
}

// LoadFeed serves the feed from cache when every channel has the kind
// cached, otherwise fetches it if automatic fetching is on. A channel list
// large enough to force syndication reads and fills the RSS cache instead.
func (s *Service) LoadFeed(ctx context.Context, req LoadRequest) (*FeedView, error) {
	kind, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	kind, forced := s.forceSyndication(kind, req)

	if s.cache.AllPresent(req.Channels, kind) {
		s.logger.Debug("Serving feed from channel cache", map[string]interface{}{
			"kind":     string(kind),
			"channels": len(req.Channels),
		})
		view := s.buildView(ctx, kind, s.cache.Collect(req.Channels, kind), req)
		view.FromCache = true
		view.AttemptedFetch = true
		view.ForcedSyndication = forced
		return view, nil
	}

	if !req.FetchAutomatically {
		return &FeedView{
			Kind:              kind,
			Entries:           []domain.FeedEntry{},
			DataLimit:         dataLimit(req.DataLimit),
			ForcedSyndication: forced,
			ErrorChannels:     []domain.Channel{},
		}, nil
	}

	view, err := s.refresh(ctx, kind, req)
	if err != nil {
		return nil, err
	}
	view.ForcedSyndication = view.ForcedSyndication || forced
	return view, nil
}

// Refresh always fetches the feed from the backends
func (s *Service) Refresh(ctx context.Context, req LoadRequest) (*FeedView, error) {
	kind, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	kind, forced := s.forceSyndication(kind, req)

	view, err := s.refresh(ctx, kind, req)
	if err != nil {
		return nil, err
	}
	view.ForcedSyndication = view.ForcedSyndication || forced
	return view, nil
}

// forceSyndication switches video and live stream requests over large
// channel lists to the RSS kind so fetches and cache reads agree on it
func (s *Service) forceSyndication(kind domain.FeedKind, req LoadRequest) (domain.FeedKind, bool) {
	if !feed.ShouldForceSyndication(kind, len(req.Channels), req.UseRSSFeeds) {
		return kind, false
	}
	s.logger.Warn("This profile has a large number of subscriptions, forcing RSS to avoid rate limiting", map[string]interface{}{
		"channels":       len(req.Channels),
		"requested_kind": string(kind),
	})
	return domain.KindRSSFeedEntries, true
}

// ClearCache drops every cached channel entry
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.logger.Info("Cleared subscription cache", nil)
}

// Warm restores cached channel entries from the snapshot store
func (s *Service) Warm(ctx context.Context, channels []domain.Channel) int {
	ids := lo.Map(channels, func(c domain.Channel, _ int) string { return c.ID })
	return s.cache.Warm(ctx, ids)
}

func (s *Service) refresh(ctx context.Context, kind domain.FeedKind, req LoadRequest) (*FeedView, error) {
	if len(req.Channels) == 0 {
		view := s.buildView(ctx, kind, nil, req)
		view.AttemptedFetch = true
		return view, nil
	}

	aggReq := feed.Request{
		Channels:        req.Channels,
		Kind:            kind,
		Primary:         req.Backend,
		Fallback:        req.Fallback,
		Progress:        req.Progress,
		SyndicationOnly: req.UseRSSFeeds,
	}

	result, err := s.aggregator.Aggregate(ctx, aggReq)
	if err != nil {
		return nil, err
	}

	forced := result.ForceSyndication
	if forced {
		kind = domain.KindRSSFeedEntries
		aggReq.Kind = kind
		result, err = s.aggregator.Aggregate(ctx, aggReq)
		if err != nil {
			return nil, err
		}
	}

	view := s.buildView(ctx, kind, result.Entries, req)
	view.AttemptedFetch = true
	view.ForcedSyndication = forced
	view.Errors = result.Errors
	view.ErrorChannels = lo.FilterMap(result.Errors, func(e feed.ChannelError, _ int) (domain.Channel, bool) {
		return e.Channel, errors.IsNoFeed(e.Err)
	})
	return view, nil
}

func (s *Service) buildView(ctx context.Context, kind domain.FeedKind, entries []domain.FeedEntry, req LoadRequest) *FeedView {
	var history []domain.HistoryEntry
	if req.Options.HideWatchedSubs && s.history != nil {
		h, err := s.history.History(ctx)
		if err != nil {
			s.logger.Warn("Failed to load watch history, watched filter skipped", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			history = h
		}
	}

	processed := feed.Process(entries, req.Options, history)
	limit := dataLimit(req.DataLimit)

	return &FeedView{
		Kind:          kind,
		Entries:       feed.LimitEntries(processed, limit),
		Total:         len(processed),
		DataLimit:     limit,
		HasMore:       len(processed) > limit,
		ErrorChannels: []domain.Channel{},
	}
}

func (s *Service) validate(req LoadRequest) (domain.FeedKind, error) {
	kind, err := domain.ParseFeedKind(string(req.Kind))
	if err != nil {
		return "", &errors.ValidationError{Field: "kind", Message: err.Error()}
	}
	if req.UseRSSFeeds {
		kind = domain.KindRSSFeedEntries
	}

	if !s.aggregator.HasBackend(req.Backend) {
		return "", &errors.ValidationError{Field: "backend", Message: fmt.Sprintf("backend %q is not configured", req.Backend)}
	}

	for i, c := range req.Channels {
		if err := c.Validate(); err != nil {
			return "", &errors.ValidationError{Field: fmt.Sprintf("channels[%d]", i), Message: err.Error()}
		}
	}

	if req.DataLimit < 0 {
		return "", &errors.ValidationError{Field: "dataLimit", Message: "must not be negative"}
	}
	return kind, nil
}

func dataLimit(limit int) int {
	if limit <= 0 {
		return feed.DefaultDataLimit
	}
	return limit
}
