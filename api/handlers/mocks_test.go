package handlers

import (
	"context"

	"subfeed-api/core/domain"
	"subfeed-api/core/history"
	"subfeed-api/core/subscriptions"
)

// mockSubscriptionService is a mock implementation of SubscriptionService
type mockSubscriptionService struct {
	loadFunc    func(ctx context.Context, req subscriptions.LoadRequest) (*subscriptions.FeedView, error)
	refreshFunc func(ctx context.Context, req subscriptions.LoadRequest) (*subscriptions.FeedView, error)
	cleared     int
	lastRequest subscriptions.LoadRequest
}

func (m *mockSubscriptionService) LoadFeed(ctx context.Context, req subscriptions.LoadRequest) (*subscriptions.FeedView, error) {
	m.lastRequest = req
	if m.loadFunc != nil {
		return m.loadFunc(ctx, req)
	}
	return &subscriptions.FeedView{Kind: req.Kind, DataLimit: req.DataLimit}, nil
}

func (m *mockSubscriptionService) Refresh(ctx context.Context, req subscriptions.LoadRequest) (*subscriptions.FeedView, error) {
	m.lastRequest = req
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, req)
	}
	return &subscriptions.FeedView{Kind: req.Kind, DataLimit: req.DataLimit, AttemptedFetch: true}, nil
}

func (m *mockSubscriptionService) ClearCache() {
	m.cleared++
}

// mockHistoryService is a mock implementation of HistoryService
type mockHistoryService struct {
	recordFunc func(ctx context.Context, entry domain.HistoryEntry) (*domain.HistoryEntry, error)
	removeFunc func(ctx context.Context, videoID string) error
	listFunc   func(ctx context.Context, q history.Query) (*history.Listing, error)
	cleared    bool
}

func (m *mockHistoryService) Record(ctx context.Context, entry domain.HistoryEntry) (*domain.HistoryEntry, error) {
	if m.recordFunc != nil {
		return m.recordFunc(ctx, entry)
	}
	return &entry, nil
}

func (m *mockHistoryService) Remove(ctx context.Context, videoID string) error {
	if m.removeFunc != nil {
		return m.removeFunc(ctx, videoID)
	}
	return nil
}

func (m *mockHistoryService) Clear(ctx context.Context) error {
	m.cleared = true
	return nil
}

func (m *mockHistoryService) List(ctx context.Context, q history.Query) (*history.Listing, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, q)
	}
	return &history.Listing{Entries: []domain.HistoryEntry{}}, nil
}

// mockPageFetcher is a mock implementation of interfaces.PageFetcher
type mockPageFetcher struct {
	fetchFunc func(ctx context.Context, collectionID, token string) ([]domain.FeedEntry, string, error)
	calls     int
}

func (m *mockPageFetcher) FetchPage(ctx context.Context, collectionID, token string) ([]domain.FeedEntry, string, error) {
	m.calls++
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, collectionID, token)
	}
	return []domain.FeedEntry{}, "", nil
}
