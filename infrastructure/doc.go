// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as content backends, caching, HTTP communication, and logging.
//
// The infrastructure package is organized by technical concern:
//
// - backend/local: YouTube Data API v3 client and youtube.com syndication URLs
// - backend/invidious: Invidious JSON API client
// - cache/memory: In-memory snapshot store using go-cache
// - cache/redis: Redis snapshot store with connect retry
// - cache/sqlite: SQLite snapshot store with periodic expiry cleanup
// - http/standard: Rate-limited HTTP client
// - logger/structured: logrus-backed structured logger
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "key", []byte("value"), 1*time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// Redis Cache Example:
//
//	cache, err := redis.NewRedisCache(ctx, config.RedisConfig{
//	    Address:        "localhost:6379",
//	    ConnectTimeout: 30 * time.Second,
//	}, logger)
//
// # HTTP Client
//
// Outbound requests share one token bucket. Failures are not retried here;
// the feed aggregator owns retry and backend fallback:
//
//	client := standard.NewStandardHTTPClientWithOptions(standard.Options{
//	    Timeout:           30 * time.Second,
//	    RequestsPerSecond: 20,
//	    Burst:             10,
//	})
//	resp, err := client.Get(ctx, "https://example.com")
//
// # Logger
//
//	logger, err := structured.New(structured.Options{Level: "debug", Format: "text"})
//	logger.Info("Processing request", map[string]interface{}{
//	    "channel_id": "UC123",
//	})
package infrastructure
