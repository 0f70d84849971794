package feed

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
	noFeedStatus    int
	feedURLPrefix   string
	videosFunc      func(ctx context.Context, channelID string) ([]domain.FeedEntry, error)
	liveStreamsFunc func(ctx context.Context, channelID string) ([]domain.FeedEntry, error)
	videoCalls      atomic.Int32
	liveStreamCalls atomic.Int32
}

func (m *mockBackend) Kind() domain.BackendKind {
	return m.kind
}

func (m *mockBackend) FetchVideos(ctx context.Context, channelID string) ([]domain.FeedEntry, error) {
	m.videoCalls.Add(1)
	if m.videosFunc != nil {
		return m.videosFunc(ctx, channelID)
	}
	return []domain.FeedEntry{}, nil
}

func (m *mockBackend) FetchLiveStreams(ctx context.Context, channelID string) ([]domain.FeedEntry, error) {
	m.liveStreamCalls.Add(1)
	if m.liveStreamsFunc != nil {
		return m.liveStreamsFunc(ctx, channelID)
	}
	return []domain.FeedEntry{}, nil
}

func (m *mockBackend) FeedURL(channelID string) string {
	return m.feedURLPrefix + channelID
}

func (m *mockBackend) IsNoFeedStatus(statusCode int) bool {
	return statusCode == m.noFeedStatus
}

func (m *mockBackend) calls() int {
	return int(m.videoCalls.Load() + m.liveStreamCalls.Load())
}

// mockHTTPClient is a mock implementation of the HTTPClient interface
type mockHTTPClient struct {
	getFunc func(ctx context.Context, url string) (interfaces.Response, error)
}

func (m *mockHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, url)
	}
	return &mockResponse{statusCode: 404}, nil
}

// mockResponse is a mock implementation of the Response interface
type mockResponse struct {
	statusCode int
	body       string
	headers    map[string]string
}

func (m *mockResponse) StatusCode() int {
	return m.statusCode
}

func (m *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(strings.NewReader(m.body))
}

func (m *mockResponse) Header(key string) string {
	if m.headers != nil {
		return m.headers[key]
	}
	return ""
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct {
	debugFunc func(msg string, fields map[string]interface{})
	infoFunc  func(msg string, fields map[string]interface{})
	warnFunc  func(msg string, fields map[string]interface{})
	errorFunc func(msg string, fields map[string]interface{})
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {
	if m.debugFunc != nil {
		m.debugFunc(msg, fields)
	}
}

func (m *mockLogger) Info(msg string, fields map[string]interface{}) {
	if m.infoFunc != nil {
		m.infoFunc(msg, fields)
	}
}

func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	if m.warnFunc != nil {
		m.warnFunc(msg, fields)
	}
}

func (m *mockLogger) Error(msg string, fields map[string]interface{}) {
	if m.errorFunc != nil {
		m.errorFunc(msg, fields)
	}
}

// recordingProgress records every progress callback
type recordingProgress struct {
	mu      sync.Mutex
	active  []bool
	reports []float64
}

func (r *recordingProgress) Active(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = append(r.active, active)
}

func (r *recordingProgress) Report(percent float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, percent)
}

// mockPageFetcher serves pages from a token-keyed map
type mockPageFetcher struct {
	pages map[string]fakePage
	err   error
	calls []string
}

type fakePage struct {
	entries   []domain.FeedEntry
	nextToken string
}

func (m *mockPageFetcher) FetchPage(ctx context.Context, collectionID, token string) ([]domain.FeedEntry, string, error) {
	m.calls = append(m.calls, token)
	if m.err != nil {
		return nil, "", m.err
	}
	page := m.pages[token]
	return page.entries, page.nextToken, nil
}

func channels(n int) []domain.Channel {
	out := make([]domain.Channel, n)
	for i := range out {
		id := fmt.Sprintf("UC%03d", i)
		out[i] = domain.Channel{ID: id, Name: "Channel " + id}
	}
	return out
}
