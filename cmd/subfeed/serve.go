// ABOUTME: Serve command runs the HTTP API until interrupted
// ABOUTME: Warms the channel cache from snapshots and shuts down gracefully

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"subfeed-api/api"
	"subfeed-api/api/handlers"
	"subfeed-api/pkg/featureflags"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the subscription feed HTTP API",
		Description: `Start the HTTP API. The OpenAPI document is served at /openapi.json
		and interactive docs at /docs.

		Optional behaviour is toggled with feature flags, e.g.:

		SUBFEED_RATE_LIMIT_ENABLED=true
		SUBFEED_METRICS_ENABLED=true
		SUBFEED_CACHE_MIRROR_ENABLED=true`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on, overrides the configuration",
				EnvVars: []string{"SUBFEED_PORT"},
			},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := newRuntime(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			defaults, err := rt.defaults()
			if err != nil {
				return err
			}

			if rt.flags.IsEnabled(ctx, featureflags.CacheMirrorEnabled) && len(defaults.Channels) > 0 {
				loaded := rt.subscription.Warm(ctx, defaults.Channels)
				rt.logger.Info("Restored cached channels", map[string]interface{}{
					"channels": len(defaults.Channels),
					"loaded":   loaded,
				})
			}

			humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
				Logger:      rt.logger,
				RateLimit:   rt.cfg.Server.RateLimit,
				RateWindow:  rt.cfg.Server.RateWindow,
				CORSOrigins: rt.cfg.Server.CORSOrigins,
				Flags:       rt.flags,
			})

			handlers.NewSubscriptionHandler(rt.subscription, defaults).RegisterRoutes(humaAPI)
			handlers.NewPlaylistHandler(rt.fetchers, defaults.Backend, defaults.Fallback, rt.logger).RegisterRoutes(humaAPI)
			handlers.NewHistoryHandler(rt.history).RegisterRoutes(humaAPI)
			handlers.NewHealthHandler(rt.channels).RegisterRoutes(humaAPI)

			port := rt.cfg.Server.Port
			if p := c.String("port"); p != "" {
				port = p
			}

			srv := &http.Server{
				Addr:         ":" + port,
				Handler:      router,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 2 * rt.cfg.Backend.HTTPTimeout,
				IdleTimeout:  60 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				rt.logger.Info("HTTP server starting", map[string]interface{}{
					"address": srv.Addr,
					"backend": string(defaults.Backend),
					"flags":   rt.flags.GetAllFlags(),
				})
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case err := <-serveErr:
				if err != nil {
					return err
				}
			case <-ctx.Done():
			}

			rt.logger.Info("Shutting down server...", nil)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				rt.logger.Error("Server forced to shutdown", map[string]interface{}{
					"error": err.Error(),
				})
				return err
			}

			rt.logger.Info("Server stopped", nil)
			return nil
		},
	}
}
