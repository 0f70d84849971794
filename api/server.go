// ABOUTME: Huma API server configuration and setup
// ABOUTME: Provides OpenAPI documentation, CORS, middleware and the optional metrics endpoint

package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"subfeed-api/api/middleware"
	"subfeed-api/core/interfaces"
	"subfeed-api/pkg/featureflags"
)

const (
	apiTitle   = "Subfeed API"
	apiVersion = "1.0.0"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger     interfaces.Logger
	RateLimit  int           // requests per window
	RateWindow time.Duration // rate limit window

	// CORSOrigins defaults to every origin
	CORSOrigins []string

	// Flags is attached to every request context; nil disables all flags
	Flags featureflags.Manager
}

// NewAPI creates a Huma API with CORS only
func NewAPI() (huma.API, chi.Router) {
	return NewAPIWithMiddleware(APIConfig{})
}

// NewAPIWithMiddleware creates a new API with middleware configured.
// Rate limiting and /metrics are gated by their feature flags.
func NewAPIWithMiddleware(cfg APIConfig) (huma.API, chi.Router) {
	router := chi.NewRouter()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	flags := cfg.Flags
	if flags == nil {
		flags = featureflags.NewStaticManager(nil)
	}
	router.Use(middleware.FeatureFlags(flags))

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}

	if cfg.RateLimit > 0 && cfg.RateWindow > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		router.Use(middleware.RateLimitMiddleware(limiter))
	}

	router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		if !featureflags.IsEnabled(r.Context(), featureflags.MetricsEnabled) {
			http.NotFound(w, r)
			return
		}
		promhttp.Handler().ServeHTTP(w, r)
	})

	config := huma.DefaultConfig(apiTitle, apiVersion)
	config.Info.Description = "Aggregates the latest uploads, live streams and syndication entries of subscribed channels"

	api := humachi.New(router, config)

	return api, router
}
