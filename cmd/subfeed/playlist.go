// ABOUTME: Playlist command pages through a playlist with continuation tokens
// ABOUTME: Prints each page and the token needed to resume

package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"
	"subfeed-api/api/dto/mappers"
	"subfeed-api/core/domain"
	"subfeed-api/core/feed"
)

func playlistCmd() *cli.Command {
	return &cli.Command{
		Name:      "playlist",
		Usage:     "Page through a playlist",
		ArgsUsage: "<playlist-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "Backend to page through: local or invidious, defaults to the configured preference",
			},
			&cli.StringFlag{
				Name:  "token",
				Usage: "Continuation token to resume from",
			},
			&cli.IntFlag{
				Name:  "pages",
				Value: 1,
				Usage: "Number of pages to fetch; 0 fetches until the playlist is exhausted",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print each page as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			playlistID := c.Args().First()
			if playlistID == "" {
				return cli.Exit("playlist ID is required", 2)
			}

			ctx := c.Context
			rt, err := newRuntime(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			source, err := domain.ParseBackendKind(rt.cfg.Backend.Preference)
			if err != nil {
				return err
			}
			if s := c.String("source"); s != "" {
				if source, err = domain.ParseBackendKind(s); err != nil {
					return err
				}
			}
			fetcher, ok := rt.fetchers[source]
			if !ok {
				return fmt.Errorf("backend %q is not configured", source)
			}

			var page *domain.Page
			if token := c.String("token"); token != "" {
				walker := feed.NewWalker(fetcher, &domain.Continuation{
					CollectionID: playlistID,
					Token:        token,
					HasMore:      true,
					Source:       source,
				})
				page, err = walker.Next(ctx)
			} else {
				page, err = feed.Start(ctx, fetcher, source, playlistID)
			}
			if err != nil {
				return err
			}

			limit := c.Int("pages")
			for n := 1; ; n++ {
				if c.Bool("json") {
					if err := json.NewEncoder(c.App.Writer).Encode(mappers.ToPageResponse(page)); err != nil {
						return err
					}
				} else {
					for _, e := range page.Entries {
						fmt.Fprintf(c.App.Writer, "%s  %s  %s\n", e.VideoID, e.Author, e.Title)
					}
				}

				walker := feed.NewWalker(fetcher, page.Continuation)
				if !walker.HasMore() {
					return nil
				}
				if limit > 0 && n >= limit {
					if !c.Bool("json") {
						fmt.Fprintf(c.App.Writer, "\nnext: --source %s --token %s\n", page.Continuation.Source, page.Continuation.Token)
					}
					return nil
				}
				if page, err = walker.Next(ctx); err != nil {
					return err
				}
			}
		},
	}
}
