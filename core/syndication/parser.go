// ABOUTME: Syndication parser turns a channel's Atom document into feed entries
// ABOUTME: Video IDs and view counts are resolved through gofeed extensions by tag name

package syndication

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"subfeed-api/core/domain"
	"subfeed-api/core/errors"
)

const (
	// PlaceholderLength is used because syndication documents carry no duration
	PlaceholderLength = "0:00"

	// PublishedTextLayout renders the publish instant for display
	PublishedTextLayout = "1/2/2006, 3:04:05 PM"
)

// Parse converts a raw syndication document into feed entries, one per
// entry element. Entries are parsed concurrently and the output order is
// not guaranteed to follow document order.
func Parse(ctx context.Context, document []byte, channelID string) ([]domain.FeedEntry, error) {
	if len(bytes.TrimSpace(document)) == 0 {
		return nil, &errors.DocumentParseError{Reason: "empty document"}
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(document))
	if err != nil {
		return nil, &errors.DocumentParseError{Reason: "unreadable document", Err: err}
	}

	author := authorName(feed)
	if author == "" {
		return nil, &errors.DocumentParseError{Reason: "missing author name"}
	}

	entries := make([]domain.FeedEntry, len(feed.Items))
	g, gctx := errgroup.WithContext(ctx)

	for i, item := range feed.Items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, err := parseItem(item, author, channelID)
			if err != nil {
				return err
			}
			entries[i] = entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return entries, nil
}

func parseItem(item *gofeed.Item, author, channelID string) (domain.FeedEntry, error) {
	videoID := extensionValue(item.Extensions, "yt", "videoId")
	if videoID == "" {
		return domain.FeedEntry{}, &errors.DocumentParseError{Reason: "entry missing yt:videoId"}
	}

	if item.PublishedParsed == nil {
		return domain.FeedEntry{}, &errors.DocumentParseError{
			Reason: fmt.Sprintf("entry %s missing published timestamp", videoID),
		}
	}
	published := *item.PublishedParsed

	return domain.FeedEntry{
		VideoID:       videoID,
		Title:         strings.TrimSpace(item.Title),
		AuthorID:      channelID,
		Author:        author,
		PublishedDate: published,
		PublishedText: published.Local().Format(PublishedTextLayout),
		ViewCount:     viewCount(item.Extensions),
		Type:          domain.EntryTypeVideo,
		LengthSeconds: PlaceholderLength,
		IsRSS:         true,
	}, nil
}

// authorName reads the channel display name from the feed-level author
func authorName(feed *gofeed.Feed) string {
	for _, person := range feed.Authors {
		if person != nil && strings.TrimSpace(person.Name) != "" {
			return strings.TrimSpace(person.Name)
		}
	}
	return ""
}

// extensionValue looks up a namespaced element such as yt:videoId
func extensionValue(extensions ext.Extensions, prefix, name string) string {
	elements := extensions[prefix][name]
	if len(elements) == 0 {
		return ""
	}
	return strings.TrimSpace(elements[0].Value)
}

// viewCount returns the views attribute of the first media:statistics element
// anywhere under the entry's media extensions. A missing or empty attribute
// yields nil.
func viewCount(extensions ext.Extensions) *string {
	statistics, ok := findExtension(extensions["media"], "statistics")
	if !ok {
		return nil
	}

	views := strings.TrimSpace(statistics.Attrs["views"])
	if views == "" {
		return nil
	}
	return domain.StringPtr(views)
}

// findExtension searches elements depth-first, visiting siblings in name order
func findExtension(elements map[string][]ext.Extension, name string) (ext.Extension, bool) {
	if found := elements[name]; len(found) > 0 {
		return found[0], true
	}
	keys := lo.Keys(elements)
	slices.Sort(keys)
	for _, key := range keys {
		for _, el := range elements[key] {
			if found, ok := findExtension(el.Children, name); ok {
				return found, true
			}
		}
	}
	return ext.Extension{}, false
}
