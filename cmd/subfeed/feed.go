// ABOUTME: Feed command fetches subscriptions once and prints the merged feed
// ABOUTME: Channels and filters come from configuration, overridable by flags

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
	"subfeed-api/api/dto/mappers"
	"subfeed-api/core/domain"
	"subfeed-api/core/interfaces"
	"subfeed-api/core/subscriptions"
	"subfeed-api/pkg/utils/duration"
)

func feedCmd() *cli.Command {
	return &cli.Command{
		Name:  "feed",
		Usage: "Fetch and print the subscription feed once",
		Description: `Fetch the configured channels (or the ones given with --channel)
		and print the merged feed, newest first.

		Channels are given as ID or ID=Name:

		subfeed feed --channel UCxyz=Gophers --kind liveStreams`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "channel",
				Aliases: []string{"ch"},
				Usage:   "Channel to include as ID or ID=Name, replaces the configured list",
			},
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Value:   string(domain.KindVideos),
				Usage:   "Feed kind: videos, liveStreams or rssFeedEntries",
			},
			&cli.StringFlag{
				Name:    "backend",
				Aliases: []string{"b"},
				Usage:   "Primary backend: local or invidious, overrides the configuration",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of entries to print, overrides the configuration",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the feed as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := c.Context

			rt, err := newRuntime(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			req, err := rt.defaults()
			if err != nil {
				return err
			}
			if err := applyFeedFlags(c, &req); err != nil {
				return err
			}
			req.Progress = &logProgress{logger: rt.logger}

			view, err := rt.subscription.Refresh(rt.withFlags(ctx), req)
			if err != nil {
				return err
			}

			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(mappers.ToFeedResponse(view))
			}
			printFeed(c.App.Writer, view)
			return nil
		},
	}
}

func applyFeedFlags(c *cli.Context, req *subscriptions.LoadRequest) error {
	kind, err := domain.ParseFeedKind(c.String("kind"))
	if err != nil {
		return err
	}
	req.Kind = kind

	if b := c.String("backend"); b != "" {
		backend, err := domain.ParseBackendKind(b)
		if err != nil {
			return err
		}
		req.Backend = backend
	}

	if limit := c.Int("limit"); limit > 0 {
		req.DataLimit = limit
	}

	if specs := c.StringSlice("channel"); len(specs) > 0 {
		channels, err := parseChannels(specs)
		if err != nil {
			return err
		}
		req.Channels = channels
	}

	if len(req.Channels) == 0 {
		return fmt.Errorf("no channels configured: pass --channel or set channels in the config file")
	}
	return nil
}

// parseChannels reads ID or ID=Name specs
func parseChannels(specs []string) ([]domain.Channel, error) {
	channels := make([]domain.Channel, 0, len(specs))
	for _, spec := range specs {
		id, name, _ := strings.Cut(spec, "=")
		ch := domain.Channel{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)}
		if err := ch.Validate(); err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

func printFeed(w io.Writer, view *subscriptions.FeedView) {
	if view.ForcedSyndication {
		fmt.Fprintln(w, "Large subscription list, showing RSS entries instead.")
	}

	for _, e := range view.Entries {
		line := fmt.Sprintf("%s  %-24s  %s", e.PublishedDate.Format("2006-01-02 15:04"), e.Author, e.Title)
		if d := duration.FormatSeconds(e.LengthSeconds); d != "" {
			line += "  [" + d + "]"
		}
		switch {
		case e.LiveNow:
			line += "  LIVE"
		case e.IsUpcoming:
			line += "  UPCOMING"
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "\n%d of %d entries", len(view.Entries), view.Total)
	if view.HasMore {
		fmt.Fprint(w, " (raise --limit for more)")
	}
	fmt.Fprintln(w)

	for _, ce := range view.Errors {
		fmt.Fprintf(w, "error: %v\n", ce)
	}
}

// logProgress reports aggregation progress at debug level
type logProgress struct {
	logger interfaces.Logger
}

func (p *logProgress) Active(active bool) {
	p.logger.Debug("Aggregation active", map[string]interface{}{"active": active})
}

func (p *logProgress) Report(percent float64) {
	p.logger.Debug("Aggregation progress", map[string]interface{}{"percent": percent})
}
