package subscriptions

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"subfeed-api/core/domain"
	"subfeed-api/core/interfaces"
)

// mockBackend is a mock implementation of the Backend interface
type mockBackend struct {
	kind            domain.BackendKind
	videosFunc      func(ctx context.Context, channelID string) ([]domain.FeedEntry, error)
	liveStreamsFunc func(ctx context.Context, channelID string) ([]domain.FeedEntry, error)
	calls           atomic.Int32
}

func (m *mockBackend) Kind() domain.BackendKind {
	return m.kind
}

func (m *mockBackend) FetchVideos(ctx context.Context, channelID string) ([]domain.FeedEntry, error) {
	m.calls.Add(1)
	if m.videosFunc != nil {
		return m.videosFunc(ctx, channelID)
	}
	return []domain.FeedEntry{}, nil
}

func (m *mockBackend) FetchLiveStreams(ctx context.Context, channelID string) ([]domain.FeedEntry, error) {
	m.calls.Add(1)
	if m.liveStreamsFunc != nil {
		return m.liveStreamsFunc(ctx, channelID)
	}
	return []domain.FeedEntry{}, nil
}

func (m *mockBackend) FeedURL(channelID string) string {
	return "https://feeds.test/" + channelID
}

func (m *mockBackend) IsNoFeedStatus(statusCode int) bool {
	return statusCode == 404
}

// mockHTTPClient is a mock implementation of the HTTPClient interface
type mockHTTPClient struct {
	getFunc func(ctx context.Context, url string) (interfaces.Response, error)
	calls   atomic.Int32
}

func (m *mockHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	m.calls.Add(1)
	if m.getFunc != nil {
		return m.getFunc(ctx, url)
	}
	return &mockResponse{statusCode: 404}, nil
}

// mockResponse is a mock implementation of the Response interface
type mockResponse struct {
	statusCode int
	body       string
}

func (m *mockResponse) StatusCode() int {
	return m.statusCode
}

func (m *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(strings.NewReader(m.body))
}

func (m *mockResponse) Header(key string) string {
	return ""
}

// mockHistory is a mock implementation of the HistoryProvider interface
type mockHistory struct {
	historyFunc func(ctx context.Context) ([]domain.HistoryEntry, error)
}

func (m *mockHistory) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	if m.historyFunc != nil {
		return m.historyFunc(ctx)
	}
	return nil, nil
}

// mockLogger captures warnings
type mockLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}

func (m *mockLogger) Info(msg string, fields map[string]interface{}) {}

func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, msg)
}

func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

func (m *mockLogger) messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.warnings...)
}

func channels(n int) []domain.Channel {
	out := make([]domain.Channel, n)
	for i := range out {
		id := fmt.Sprintf("UC%03d", i)
		out[i] = domain.Channel{ID: id, Name: "Channel " + id}
	}
	return out
}

func atomFeed(channelID string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
 <author><name>` + channelID + `</name></author>
 <entry>
  <id>yt:video:rss-` + channelID + `</id>
  <yt:videoId>rss-` + channelID + `</yt:videoId>
  <title>entry</title>
  <published>2024-05-01T10:00:00+00:00</published>
 </entry>
</feed>`
}
