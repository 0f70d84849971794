// ABOUTME: Builds the service graph shared by every command from configuration
// ABOUTME: Chooses the snapshot store, backends and feature flags

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"subfeed-api/core/channelcache"
	"subfeed-api/core/domain"
	"subfeed-api/core/feed"
	"subfeed-api/core/history"
	"subfeed-api/core/interfaces"
	"subfeed-api/core/subscriptions"
	"subfeed-api/infrastructure/backend/invidious"
	"subfeed-api/infrastructure/backend/local"
	"subfeed-api/infrastructure/cache/memory"
	"subfeed-api/infrastructure/cache/redis"
	"subfeed-api/infrastructure/cache/sqlite"
	"subfeed-api/infrastructure/http/standard"
	"subfeed-api/infrastructure/logger/structured"
	"subfeed-api/pkg/config"
	"subfeed-api/pkg/featureflags"
)

// runtime holds the wired components of one process
type runtime struct {
	cfg    *config.Config
	logger interfaces.Logger
	flags  featureflags.Manager

	store        interfaces.Cache
	channels     *channelcache.ChannelCache
	history      *history.Service
	subscription *subscriptions.Service
	fetchers     map[domain.BackendKind]interfaces.PageFetcher

	closers []io.Closer
}

func newRuntime(ctx context.Context, c *cli.Context) (*runtime, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := structured.New(structured.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return nil, err
	}

	flags := featureflags.NewEnvManager("SUBFEED_", nil)
	for _, name := range c.StringSlice("feature") {
		flag, err := featureflags.Parse(name)
		if err != nil {
			return nil, err
		}
		flags.SetEnabled(flag, true)
	}

	rt := &runtime{
		cfg:    cfg,
		logger: logger,
		flags:  flags,
	}

	if err := rt.openStore(ctx); err != nil {
		return nil, err
	}

	httpClient := standard.NewStandardHTTPClientWithOptions(standard.Options{
		Timeout:           cfg.Backend.HTTPTimeout,
		UserAgent:         cfg.Backend.UserAgent,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		Burst:             cfg.Backend.Burst,
	})
	deps := interfaces.Dependencies{
		Cache:      rt.store,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	var backends []interfaces.Backend
	rt.fetchers = make(map[domain.BackendKind]interfaces.PageFetcher)

	if cfg.Backend.YouTubeAPIKey != "" {
		localClient, err := local.NewClient(ctx, local.Options{
			APIKey:     cfg.Backend.YouTubeAPIKey,
			Endpoint:   cfg.Backend.YouTubeEndpoint,
			HTTPClient: httpClient.HTTPClient(),
			Logger:     logger,
		})
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("create local backend: %w", err)
		}
		backends = append(backends, localClient)
		rt.fetchers[domain.BackendLocal] = localClient
	} else {
		logger.Warn("No YouTube API key configured, local backend disabled", nil)
	}

	if cfg.Backend.InvidiousInstance != "" {
		invidiousClient := invidious.NewClient(cfg.Backend.InvidiousInstance, deps)
		backends = append(backends, invidiousClient)
		rt.fetchers[domain.BackendInvidious] = invidiousClient
	}

	if len(backends) == 0 {
		rt.Close()
		return nil, fmt.Errorf("no backend configured: set YOUTUBE_API_KEY or INVIDIOUS_INSTANCE")
	}

	cacheDeps := interfaces.Dependencies{Logger: logger}
	if rt.flags.IsEnabled(ctx, featureflags.CacheMirrorEnabled) {
		cacheDeps.Cache = rt.store
	}
	rt.channels = channelcache.New(cacheDeps)

	aggregator := feed.NewAggregator(deps, rt.channels, backends, feed.WithMaxConcurrency(cfg.Feed.MaxConcurrency))
	rt.history = history.NewService(deps)
	rt.subscription = subscriptions.NewService(deps, aggregator, rt.channels, rt.history)

	return rt, nil
}

func (rt *runtime) openStore(ctx context.Context) error {
	cacheCfg := rt.cfg.Cache
	switch strings.ToLower(cacheCfg.Type) {
	case "redis":
		store, err := redis.NewRedisCache(ctx, cacheCfg.Redis, rt.logger)
		if err != nil {
			rt.logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"address": cacheCfg.Redis.Address,
				"error":   err.Error(),
			})
			rt.store = memory.NewMemoryCacheFromConfig(cacheCfg.Memory)
			return nil
		}
		rt.store = store
		rt.closers = append(rt.closers, store)
		rt.logger.Info("Using Redis cache", map[string]interface{}{
			"address": cacheCfg.Redis.Address,
		})
	case "sqlite":
		store, err := sqlite.NewSQLiteCache(cacheCfg.SQLite.Path, rt.logger)
		if err != nil {
			return fmt.Errorf("open sqlite cache: %w", err)
		}
		rt.store = store
		rt.closers = append(rt.closers, store)
		rt.logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cacheCfg.SQLite.Path,
		})
	default:
		rt.store = memory.NewMemoryCacheFromConfig(cacheCfg.Memory)
		rt.logger.Info("Using memory cache", nil)
	}
	return nil
}

// withFlags attaches the feature flag manager to ctx
func (rt *runtime) withFlags(ctx context.Context) context.Context {
	return featureflags.WithManager(ctx, rt.flags)
}

// defaults is the load request built from configuration alone
func (rt *runtime) defaults() (subscriptions.LoadRequest, error) {
	backend, err := domain.ParseBackendKind(rt.cfg.Backend.Preference)
	if err != nil {
		return subscriptions.LoadRequest{}, fmt.Errorf("backend preference: %w", err)
	}

	channels := lo.Map(rt.cfg.Channels, func(c config.ChannelConfig, _ int) domain.Channel {
		return domain.Channel{ID: c.ID, Name: c.Name}
	})

	return subscriptions.LoadRequest{
		Channels:           channels,
		Kind:               domain.KindVideos,
		Backend:            backend,
		Fallback:           rt.cfg.Backend.Fallback,
		UseRSSFeeds:        rt.cfg.Feed.UseRSSFeeds,
		FetchAutomatically: rt.cfg.Feed.FetchAutomatically,
		Options: feed.Options{
			HideLiveStreams:       rt.cfg.Feed.HideLiveStreams,
			HideUpcomingPremieres: rt.cfg.Feed.HideUpcomingPremieres,
			HideWatchedSubs:       rt.cfg.Feed.HideWatchedSubs,
		},
		DataLimit: rt.cfg.Feed.DataLimit,
	}, nil
}

// Close releases the snapshot store
func (rt *runtime) Close() {
	for _, c := range rt.closers {
		if err := c.Close(); err != nil {
			rt.logger.Warn("Failed to close resource", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	rt.closers = nil
}
