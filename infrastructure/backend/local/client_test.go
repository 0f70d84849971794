package local

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"subfeed-api/core/domain"
	coreerrors "subfeed-api/core/errors"
)

const playlistItemsBody = `{
  "nextPageToken": "CDIQAA",
  "items": [
    {"contentDetails": {"videoId": "vid1"}},
    {"contentDetails": {"videoId": "live1"}},
    {"contentDetails": {"videoId": "soon1"}},
    {"contentDetails": {"videoId": "past1"}}
  ]
}`

const videosBody = `{
  "items": [
    {
      "id": "vid1",
      "snippet": {"title": "Regular Upload", "channelId": "UC123", "channelTitle": "Gopher Talks",
                  "publishedAt": "2024-05-01T10:00:00Z", "liveBroadcastContent": "none"},
      "contentDetails": {"duration": "PT4M13S"},
      "statistics": {"viewCount": "1500"}
    },
    {
      "id": "live1",
      "snippet": {"title": "Live Now", "channelId": "UC123", "channelTitle": "Gopher Talks",
                  "publishedAt": "2024-05-02T10:00:00Z", "liveBroadcastContent": "live"},
      "contentDetails": {"duration": "P0D"},
      "statistics": {"viewCount": "20"},
      "liveStreamingDetails": {"actualStartTime": "2024-05-02T10:00:00Z"}
    },
    {
      "id": "soon1",
      "snippet": {"title": "Premiere", "channelId": "UC123", "channelTitle": "Gopher Talks",
                  "publishedAt": "2024-05-03T10:00:00Z", "liveBroadcastContent": "upcoming"},
      "contentDetails": {"duration": "PT10M"},
      "statistics": {"viewCount": "0"},
      "liveStreamingDetails": {"scheduledStartTime": "2024-06-01T18:00:00Z"}
    },
    {
      "id": "past1",
      "snippet": {"title": "Yesterday's Stream", "channelId": "UC123", "channelTitle": "Gopher Talks",
                  "publishedAt": "2024-04-30T10:00:00Z", "liveBroadcastContent": "none"},
      "contentDetails": {"duration": "PT1H2M3S"},
      "statistics": {"viewCount": "999"},
      "liveStreamingDetails": {"actualStartTime": "2024-04-30T10:00:00Z", "actualEndTime": "2024-04-30T11:02:03Z"}
    }
  ]
}`

type fakeAPI struct {
	server        *httptest.Server
	playlistCalls atomic.Int32
	videoCalls    atomic.Int32
	lastPlaylist  atomic.Value
	lastToken     atomic.Value
	lastKey       atomic.Value
	playlistCode  int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{playlistCode: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		f.playlistCalls.Add(1)
		f.lastPlaylist.Store(r.URL.Query().Get("playlistId"))
		f.lastToken.Store(r.URL.Query().Get("pageToken"))
		f.lastKey.Store(r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		if f.playlistCode != http.StatusOK {
			w.WriteHeader(f.playlistCode)
			fmt.Fprintf(w, `{"error": {"code": %d, "message": "playlist unavailable"}}`, f.playlistCode)
			return
		}
		_, _ = w.Write([]byte(playlistItemsBody))
	})
	mux.HandleFunc("/youtube/v3/videos", func(w http.ResponseWriter, r *http.Request) {
		f.videoCalls.Add(1)
		if got := r.URL.Query().Get("id"); got != "vid1,live1,soon1,past1" {
			t.Errorf("videos id = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(videosBody))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) client(t *testing.T, apiKey string) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), Options{
		APIKey:     apiKey,
		Endpoint:   f.server.URL + "/",
		HTTPClient: f.server.Client(),
	})
	require.NoError(t, err)
	return c
}

func TestUploadsPlaylistID(t *testing.T) {
	id, err := UploadsPlaylistID("UCabc123")
	require.NoError(t, err)
	assert.Equal(t, "UUabc123", id)

	for _, bad := range []string{"", "UC", "PLabc", "uc123"} {
		_, err := UploadsPlaylistID(bad)
		assert.Error(t, err, bad)
	}
}

func TestClient_BackendContract(t *testing.T) {
	c := newFakeAPI(t).client(t, "key")

	assert.Equal(t, domain.BackendLocal, c.Kind())
	assert.Equal(t, "https://www.youtube.com/feeds/videos.xml?channel_id=UC123", c.FeedURL("UC123"))
	assert.True(t, c.IsNoFeedStatus(http.StatusNotFound))
	assert.False(t, c.IsNoFeedStatus(http.StatusInternalServerError))
}

func TestFetchVideos(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t, "secret")

	entries, err := c.FetchVideos(context.Background(), "UC123")
	require.NoError(t, err)

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.VideoID)
	}
	assert.Equal(t, []string{"vid1", "soon1"}, ids)

	upload := entries[0]
	assert.Equal(t, "Regular Upload", upload.Title)
	assert.Equal(t, "UC123", upload.AuthorID)
	assert.Equal(t, "Gopher Talks", upload.Author)
	assert.Equal(t, "253", upload.LengthSeconds)
	assert.True(t, upload.HasViewCount("1500"))
	assert.Equal(t, domain.EntryTypeVideo, upload.Type)
	assert.True(t, upload.PublishedDate.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))

	premiere := entries[1]
	assert.True(t, premiere.IsUpcoming)
	assert.Nil(t, premiere.ViewCount)
	require.NotNil(t, premiere.PremiereDate)
	assert.True(t, premiere.PremiereDate.Equal(time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)))

	assert.Equal(t, "UU123", api.lastPlaylist.Load())
	assert.Equal(t, "secret", api.lastKey.Load())
}

func TestFetchLiveStreams(t *testing.T) {
	c := newFakeAPI(t).client(t, "key")

	entries, err := c.FetchLiveStreams(context.Background(), "UC123")
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, "live1", entries[0].VideoID)
	assert.True(t, entries[0].LiveNow)
	assert.Equal(t, "soon1", entries[1].VideoID)
	assert.Equal(t, "past1", entries[2].VideoID)
	assert.Equal(t, "3723", entries[2].LengthSeconds)
}

func TestFetchVideos_ErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantNoFeed bool
	}{
		{"missing playlist means no feed", http.StatusNotFound, true},
		{"quota exhaustion may fall back", http.StatusForbidden, false},
		{"server error may fall back", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			api.playlistCode = tt.status
			c := api.client(t, "key")

			_, err := c.FetchVideos(context.Background(), "UC123")
			require.Error(t, err)
			assert.Equal(t, tt.wantNoFeed, coreerrors.IsNoFeed(err))
			assert.Equal(t, !tt.wantNoFeed, coreerrors.IsBackendCall(err))
			assert.Equal(t, !tt.wantNoFeed, coreerrors.IsRetryable(err))
			assert.Zero(t, api.videoCalls.Load())
		})
	}
}

func TestFetchVideos_WithoutKeyOrValidChannel(t *testing.T) {
	api := newFakeAPI(t)

	_, err := api.client(t, "").FetchVideos(context.Background(), "UC123")
	assert.True(t, coreerrors.IsBackendCall(err))

	_, err = api.client(t, "key").FetchVideos(context.Background(), "not-a-channel")
	assert.True(t, coreerrors.IsBackendCall(err))

	assert.Zero(t, api.playlistCalls.Load())
}

func TestFetchPage(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t, "key")

	entries, next, err := c.FetchPage(context.Background(), "PLxyz", "")
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	assert.Equal(t, "CDIQAA", next)
	assert.Equal(t, "PLxyz", api.lastPlaylist.Load())
	assert.Equal(t, "", api.lastToken.Load())

	_, _, err = c.FetchPage(context.Background(), "PLxyz", next)
	require.NoError(t, err)
	assert.Equal(t, "CDIQAA", api.lastToken.Load())
}

func TestFetchVideos_CancelledContext(t *testing.T) {
	c := newFakeAPI(t).client(t, "key")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchVideos(ctx, "UC123")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "context canceled"))
}
