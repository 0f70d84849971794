// Package api provides the HTTP API layer for the Subfeed service.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request/response validation, and a clean handler interface.
//
// # Architecture
//
// - server.go: Huma API configuration and setup
// - handlers/: HTTP request handlers (subscriptions, playlists, history, health)
// - dto/: Data Transfer Objects for requests and responses
// - middleware/: request logging, rate limiting and feature flag injection
//
// # Endpoints
//
//	GET    /subscriptions/feed     aggregated feed with configured defaults
//	POST   /subscriptions/feed     aggregated feed with per-request overrides
//	DELETE /subscriptions/cache    forget every cached channel result
//	GET    /playlists/{id}         one page of a playlist, with continuation
//	GET    /history                watch history, optionally filtered
//	POST   /history                record a watched video
//	DELETE /history/{videoId}      remove one entry
//	DELETE /history                clear the history
//	GET    /health                 liveness and cache size
//	GET    /metrics                Prometheus metrics (MetricsEnabled flag)
//
// The OpenAPI document is served at /openapi.json and the interactive
// docs at /docs.
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:     logger,
//	    RateLimit:  100,
//	    RateWindow: time.Minute,
//	    Flags:      featureflags.NewEnvManager("SUBFEED", nil),
//	})
//	handlers.NewSubscriptionHandler(service, defaults).RegisterRoutes(humaAPI)
//	http.ListenAndServe(":8080", router)
//
// # Error Handling
//
// Errors use the RFC 7807 problem format. Domain errors are mapped to
// status codes in handlers/errors.go.
package api
