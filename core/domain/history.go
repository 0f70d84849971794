// ABOUTME: HistoryEntry domain model represents one watched video
// ABOUTME: Provides validation and search matching for watch history records

package domain

import (
	"errors"
	"strings"
	"time"
)

// HistoryEntry is one watched video from the watch-history provider
type HistoryEntry struct {
	// VideoID is the only field the watched filter looks at
	VideoID string `json:"videoId"`

	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	AuthorID string `json:"authorId,omitempty"`

	// LengthSeconds is the video duration as reported by the backend
	LengthSeconds string `json:"lengthSeconds,omitempty"`

	// TimeWatched is when the video was last watched
	TimeWatched time.Time `json:"timeWatched"`

	// WatchProgress is the last playback position in seconds
	WatchProgress float64 `json:"watchProgress,omitempty"`
}

// NewHistoryEntry creates a history record for a video watched at the given time
func NewHistoryEntry(videoID, title, author string, watchedAt time.Time) (*HistoryEntry, error) {
	entry := &HistoryEntry{
		VideoID:     strings.TrimSpace(videoID),
		Title:       title,
		Author:      author,
		TimeWatched: watchedAt,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

// Validate checks if the entry has valid required fields
func (h *HistoryEntry) Validate() error {
	if strings.TrimSpace(h.VideoID) == "" {
		return errors.New("video ID cannot be empty")
	}
	if h.WatchProgress < 0 {
		return errors.New("watch progress cannot be negative")
	}
	return nil
}

// Matches reports whether the title or author contains query, ignoring case.
// An empty query matches everything.
func (h *HistoryEntry) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(h.Title), q) ||
		strings.Contains(strings.ToLower(h.Author), q)
}
