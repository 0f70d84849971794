package domain

import (
	"testing"
	"time"
)

func TestNewHistoryEntry(t *testing.T) {
	tests := []struct {
		name    string
		videoID string
		wantErr bool
	}{
		{
			name:    "valid entry",
			videoID: "dQw4w9WgXcQ",
			wantErr: false,
		},
		{
			name:    "trims whitespace",
			videoID: "  abc  ",
			wantErr: false,
		},
		{
			name:    "empty video ID",
			videoID: "",
			wantErr: true,
		},
		{
			name:    "blank video ID",
			videoID: "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := NewHistoryEntry(tt.videoID, "title", "author", time.Now())
			if (err != nil) != tt.wantErr {
				t.Errorf("NewHistoryEntry() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && entry.VideoID != "dQw4w9WgXcQ" && entry.VideoID != "abc" {
				t.Errorf("NewHistoryEntry() VideoID = %q", entry.VideoID)
			}
		})
	}
}

func TestHistoryEntry_Validate_NegativeProgress(t *testing.T) {
	entry := HistoryEntry{VideoID: "abc", WatchProgress: -1}

	if err := entry.Validate(); err == nil {
		t.Error("Validate should reject negative watch progress")
	}
}

func TestHistoryEntry_Matches(t *testing.T) {
	entry := HistoryEntry{VideoID: "abc", Title: "Building a Go Service", Author: "Gopher Academy"}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"go service", true},
		{"GOPHER", true},
		{"  academy ", true},
		{"rust", false},
	}

	for _, tt := range tests {
		if got := entry.Matches(tt.query); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}
