// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defaults, an optional YAML file and environment overrides are applied in that order

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"subfeed-api/pkg/utils/parse"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `yaml:"server"`

	// Cache contains snapshot store configuration
	Cache CacheConfig `yaml:"cache"`

	// Backend contains content backend configuration
	Backend BackendConfig `yaml:"backend"`

	// Feed contains subscription feed preferences
	Feed FeedConfig `yaml:"feed"`

	// Log contains logger configuration
	Log LogConfig `yaml:"log"`

	// Channels is the default subscription list used by the CLI
	Channels []ChannelConfig `yaml:"channels"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `yaml:"port"`

	// RateLimit is the per-client request budget per RateWindow; 0 disables it
	RateLimit  int           `yaml:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window"`

	// CORSOrigins lists allowed origins
	CORSOrigins []string `yaml:"cors_origins"`
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite)
	Type string `yaml:"type"`

	// Redis contains Redis-specific configuration
	Redis RedisConfig `yaml:"redis"`

	// Memory contains in-memory cache configuration
	Memory MemoryConfig `yaml:"memory"`

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string `yaml:"address"`

	// Password is the Redis authentication password
	Password string `yaml:"password"`

	// DB is the Redis database number
	DB int `yaml:"db"`

	// ConnectTimeout bounds the connection retry loop
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds; 0 never expires
	DefaultExpiration int `yaml:"default_expiration"`

	// CleanupInterval is how often expired entries are purged, in seconds
	CleanupInterval int `yaml:"cleanup_interval"`
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string `yaml:"path"`
}

// BackendConfig holds content backend configuration
type BackendConfig struct {
	// Preference is the primary backend (local/invidious)
	Preference string `yaml:"preference"`

	// Fallback allows a single retry against the other backend
	Fallback bool `yaml:"fallback"`

	// InvidiousInstance is the base URL of the proxy instance
	InvidiousInstance string `yaml:"invidious_instance"`

	// YouTubeAPIKey authenticates the local backend's Data API calls
	YouTubeAPIKey string `yaml:"youtube_api_key"`

	// YouTubeEndpoint overrides the Data API base URL
	YouTubeEndpoint string `yaml:"youtube_endpoint"`

	// HTTPTimeout bounds every outbound request
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// RequestsPerSecond throttles outbound requests; 0 disables throttling
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`

	// UserAgent is sent with every outbound request
	UserAgent string `yaml:"user_agent"`
}

// FeedConfig holds subscription feed preferences
type FeedConfig struct {
	HideLiveStreams       bool `yaml:"hide_live_streams"`
	HideUpcomingPremieres bool `yaml:"hide_upcoming_premieres"`
	HideWatchedSubs       bool `yaml:"hide_watched_subs"`
	UseRSSFeeds           bool `yaml:"use_rss_feeds"`
	FetchAutomatically    bool `yaml:"fetch_automatically"`

	// DataLimit is the initial number of entries shown
	DataLimit int `yaml:"data_limit"`

	// MaxConcurrency caps in-flight channel fetches; 0 is unbounded
	MaxConcurrency int `yaml:"max_concurrency"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	// Level is one of debug/info/warn/error
	Level string `yaml:"level"`

	// Format is json or text
	Format string `yaml:"format"`
}

// ChannelConfig is one subscribed channel
type ChannelConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			RateLimit:   100,
			RateWindow:  time.Minute,
			CORSOrigins: []string{"*"},
		},
		Cache: CacheConfig{
			Type: "memory",
			Redis: RedisConfig{
				Address:        "localhost:6379",
				ConnectTimeout: 30 * time.Second,
			},
			Memory: MemoryConfig{
				DefaultExpiration: 0,
				CleanupInterval:   600,
			},
			SQLite: SQLiteConfig{
				Path: "subfeed.db",
			},
		},
		Backend: BackendConfig{
			Preference:        "local",
			Fallback:          true,
			InvidiousInstance: "https://invidious.fdn.fr",
			HTTPTimeout:       30 * time.Second,
			RequestsPerSecond: 20,
			Burst:             10,
			UserAgent:         "SubfeedAPI/1.0",
		},
		Feed: FeedConfig{
			FetchAutomatically: true,
			DataLimit:          100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadFromEnv loads configuration from environment variables on top of the defaults
func LoadFromEnv() (*Config, error) {
	return Load("")
}

// Load applies the YAML file at path (if any) and then environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	c.Server.RateLimit = getEnvAsIntOrDefault("API_RATE_LIMIT", c.Server.RateLimit)
	c.Server.RateWindow = getEnvAsDurationOrDefault("API_RATE_WINDOW", c.Server.RateWindow)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}

	c.Cache.Type = getEnvOrDefault("CACHE_TYPE", c.Cache.Type)
	c.Cache.Redis.Address = getEnvOrDefault("REDIS_ADDRESS", c.Cache.Redis.Address)
	c.Cache.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", c.Cache.Redis.Password)
	c.Cache.Redis.DB = getEnvAsIntOrDefault("REDIS_DB", c.Cache.Redis.DB)
	c.Cache.Memory.DefaultExpiration = getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", c.Cache.Memory.DefaultExpiration)
	c.Cache.SQLite.Path = getEnvOrDefault("SQLITE_PATH", c.Cache.SQLite.Path)

	c.Backend.Preference = getEnvOrDefault("BACKEND_PREFERENCE", c.Backend.Preference)
	c.Backend.Fallback = getEnvAsBoolOrDefault("BACKEND_FALLBACK", c.Backend.Fallback)
	c.Backend.InvidiousInstance = getEnvOrDefault("INVIDIOUS_INSTANCE", c.Backend.InvidiousInstance)
	c.Backend.YouTubeAPIKey = getEnvOrDefault("YOUTUBE_API_KEY", c.Backend.YouTubeAPIKey)
	c.Backend.HTTPTimeout = getEnvAsDurationOrDefault("HTTP_TIMEOUT", c.Backend.HTTPTimeout)
	c.Backend.RequestsPerSecond = getEnvAsFloatOrDefault("BACKEND_REQUESTS_PER_SECOND", c.Backend.RequestsPerSecond)

	c.Feed.HideLiveStreams = getEnvAsBoolOrDefault("HIDE_LIVE_STREAMS", c.Feed.HideLiveStreams)
	c.Feed.HideUpcomingPremieres = getEnvAsBoolOrDefault("HIDE_UPCOMING_PREMIERES", c.Feed.HideUpcomingPremieres)
	c.Feed.HideWatchedSubs = getEnvAsBoolOrDefault("HIDE_WATCHED_SUBS", c.Feed.HideWatchedSubs)
	c.Feed.UseRSSFeeds = getEnvAsBoolOrDefault("USE_RSS_FEEDS", c.Feed.UseRSSFeeds)
	c.Feed.FetchAutomatically = getEnvAsBoolOrDefault("FETCH_SUBSCRIPTIONS_AUTOMATICALLY", c.Feed.FetchAutomatically)
	c.Feed.DataLimit = getEnvAsIntOrDefault("DATA_LIMIT", c.Feed.DataLimit)
	c.Feed.MaxConcurrency = getEnvAsIntOrDefault("MAX_CONCURRENCY", c.Feed.MaxConcurrency)

	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	return parse.IntOrDefault(os.Getenv(key), defaultValue)
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	return parse.BoolOrDefault(os.Getenv(key), defaultValue)
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	return parse.FloatOrDefault(os.Getenv(key), defaultValue)
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	return parse.DurationOrDefault(os.Getenv(key), defaultValue)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RateLimit < 0 {
		return errors.New("rate limit cannot be negative")
	}

	if c.Server.RateLimit > 0 && c.Server.RateWindow <= 0 {
		return errors.New("rate window must be positive when rate limiting is enabled")
	}

	switch c.Cache.Type {
	case "memory":
	case "redis":
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	case "sqlite":
		if c.Cache.SQLite.Path == "" {
			return errors.New("sqlite path cannot be empty when using sqlite cache")
		}
	default:
		return errors.New("cache type must be 'memory', 'redis' or 'sqlite'")
	}

	switch strings.ToLower(c.Backend.Preference) {
	case "local":
	case "invidious":
		if c.Backend.InvidiousInstance == "" {
			return errors.New("invidious instance cannot be empty when invidious is preferred")
		}
	default:
		return errors.New("backend preference must be 'local' or 'invidious'")
	}

	if c.Backend.HTTPTimeout <= 0 {
		return errors.New("http timeout must be positive")
	}

	if c.Backend.RequestsPerSecond < 0 {
		return errors.New("requests per second cannot be negative")
	}

	if c.Feed.DataLimit < 1 {
		return errors.New("data limit must be at least 1")
	}

	if c.Feed.MaxConcurrency < 0 {
		return errors.New("max concurrency cannot be negative")
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return errors.New("log format must be 'json' or 'text'")
	}

	for i, ch := range c.Channels {
		if strings.TrimSpace(ch.ID) == "" {
			return fmt.Errorf("channels[%d]: id cannot be empty", i)
		}
	}

	return nil
}
