// Package core contains the business logic for the Subfeed API.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Channels, feed entries, cache entries, continuations and watch history
// - channelcache: Per-channel cache of the three feed kinds
// - feed: Aggregator, retry policy, timestamp normalization, processor and continuation walker
// - syndication: Atom document parser with namespaced extension lookup
// - subscriptions: Cache-or-fetch selection, forced syndication and display limits
// - history: Watch history backed by the snapshot store
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (backends, cache, HTTP, logger)
//
// # Design Principles
//
// - No web framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    Cache:      store,      // implements interfaces.Cache
//	    HTTPClient: httpClient, // implements interfaces.HTTPClient
//	    Logger:     logger,     // implements interfaces.Logger
//	}
//
//	cache := channelcache.New(deps)
//	aggregator := feed.NewAggregator(deps, cache, []interfaces.Backend{localBackend, invidiousBackend})
//	service := subscriptions.NewService(deps, aggregator, cache, history.NewService(deps))
//
//	view, err := service.LoadFeed(ctx, subscriptions.LoadRequest{
//	    Channels:           channels,
//	    Kind:               domain.KindVideos,
//	    Backend:            domain.BackendLocal,
//	    Fallback:           true,
//	    FetchAutomatically: true,
//	})
package core
