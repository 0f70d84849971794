// ABOUTME: Wire types for the Invidious channel and playlist endpoints
// ABOUTME: Converts instance video objects into feed entries

package invidious

import (
	"strconv"

	"subfeed-api/core/domain"
)

// video is the subset of an instance's video object the feed needs
type video struct {
	Type              string `json:"type"`
	Title             string `json:"title"`
	VideoID           string `json:"videoId"`
	Author            string `json:"author"`
	AuthorID          string `json:"authorId"`
	LengthSeconds     int64  `json:"lengthSeconds"`
	ViewCount         *int64 `json:"viewCount"`
	Published         int64  `json:"published"`
	PublishedText     string `json:"publishedText"`
	PremiereTimestamp int64  `json:"premiereTimestamp"`
	LiveNow           bool   `json:"liveNow"`
	IsUpcoming        bool   `json:"isUpcoming"`
}

type playlistResponse struct {
	PlaylistID string  `json:"playlistId"`
	Title      string  `json:"title"`
	VideoCount int     `json:"videoCount"`
	Videos     []video `json:"videos"`
}

func (v video) toEntry() domain.FeedEntry {
	entry := domain.FeedEntry{
		VideoID:           v.VideoID,
		Title:             v.Title,
		Author:            v.Author,
		AuthorID:          v.AuthorID,
		PublishedText:     v.PublishedText,
		Type:              domain.EntryTypeVideo,
		LiveNow:           v.LiveNow,
		IsUpcoming:        v.IsUpcoming,
		PublishedEpoch:    v.Published,
		PremiereTimestamp: v.PremiereTimestamp,
	}
	if v.LengthSeconds > 0 {
		entry.LengthSeconds = strconv.FormatInt(v.LengthSeconds, 10)
	}
	if v.ViewCount != nil {
		entry.ViewCount = domain.StringPtr(strconv.FormatInt(*v.ViewCount, 10))
	}
	return entry
}
