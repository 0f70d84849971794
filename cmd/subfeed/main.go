// ABOUTME: Main entry point for the Subfeed command line
// ABOUTME: Dispatches to the serve, feed and playlist commands

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := rootApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "subfeed:", err)
		os.Exit(1)
	}
}

func rootApp() *cli.App {
	return &cli.App{
		Name:  "subfeed",
		Usage: "Aggregate subscription feeds from YouTube or an Invidious instance",
		Description: `Subfeed fetches the latest videos, live streams and RSS entries of
		subscribed channels, merges them into one sorted feed and caches the
		per-channel results.

		Configuration is read from an optional YAML file and environment
		variables, e.g.:

		--config => SUBFEED_CONFIG=subfeed.yaml
		YOUTUBE_API_KEY, INVIDIOUS_INSTANCE, CACHE_TYPE, PORT
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"SUBFEED_CONFIG"},
			},
			&cli.StringSliceFlag{
				Name:    "feature",
				Aliases: []string{"f"},
				Usage:   "Enable a feature flag for this run (stale_run_fencing, metrics_enabled, rate_limit_enabled, cache_mirror_enabled)",
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			feedCmd(),
			playlistCmd(),
		},
		Action: func(ctx *cli.Context) error {
			return cli.ShowAppHelp(ctx)
		},
	}
}
