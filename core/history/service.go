// ABOUTME: History service records watched videos and answers watch-history queries
// ABOUTME: Persists the history as one JSON document in the configured cache store

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"subfeed-api/core/domain"
	coreerrors "subfeed-api/core/errors"
	"subfeed-api/core/interfaces"
)

const storageKey = "history:entries"

// Query filters and limits a history listing
type Query struct {
	// Search matches title or author, case-insensitively
	Search string

	// Limit caps the result; zero means no cap
	Limit int
}

// Listing is one page of history plus the size of the unlimited match set
type Listing struct {
	Entries []domain.HistoryEntry
	Total   int
	HasMore bool
}

// Service handles watch history operations. It implements
// interfaces.HistoryProvider for the watched filter.
type Service struct {
	mu     sync.Mutex
	store  interfaces.Cache
	logger interfaces.Logger
	now    func() time.Time

	loaded  bool
	entries map[string]domain.HistoryEntry
}

// NewService creates a history service over deps.Cache. Without a cache the
// history lives only in memory.
func NewService(deps interfaces.Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Service{
		store:   deps.Cache,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]domain.HistoryEntry),
	}
}

// Record adds or replaces the entry for a video. A zero TimeWatched is set
// to the current time.
func (s *Service) Record(ctx context.Context, entry domain.HistoryEntry) (*domain.HistoryEntry, error) {
	if err := entry.Validate(); err != nil {
		return nil, &coreerrors.ValidationError{Field: "videoId", Message: err.Error()}
	}
	if entry.TimeWatched.IsZero() {
		entry.TimeWatched = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	s.entries[entry.VideoID] = entry
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Remove deletes the entry for a video
func (s *Service) Remove(ctx context.Context, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}
	if _, ok := s.entries[videoID]; !ok {
		return &coreerrors.NotFoundError{Resource: "history entry", ID: videoID}
	}
	delete(s.entries, videoID)
	return s.persist(ctx)
}

// Clear drops the whole history
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]domain.HistoryEntry)
	s.loaded = true
	if s.store == nil {
		return nil
	}
	return s.store.Delete(ctx, storageKey)
}

// List returns matching entries, most recently watched first
func (s *Service) List(ctx context.Context, q Query) (*Listing, error) {
	if q.Limit < 0 {
		return nil, &coreerrors.ValidationError{Field: "limit", Message: "must not be negative"}
	}

	all, err := s.History(ctx)
	if err != nil {
		return nil, err
	}

	matches := lo.Filter(all, func(h domain.HistoryEntry, _ int) bool {
		return h.Matches(q.Search)
	})

	listing := &Listing{Entries: matches, Total: len(matches)}
	if q.Limit > 0 && len(matches) > q.Limit {
		listing.Entries = matches[:q.Limit]
		listing.HasMore = true
	}
	return listing, nil
}

// History returns every entry, most recently watched first
func (s *Service) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	out := lo.Values(s.entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TimeWatched.Equal(out[j].TimeWatched) {
			return out[i].VideoID < out[j].VideoID
		}
		return out[i].TimeWatched.After(out[j].TimeWatched)
	})
	return out, nil
}

// load reads the persisted history once. Callers hold s.mu.
func (s *Service) load(ctx context.Context) error {
	if s.loaded || s.store == nil {
		s.loaded = true
		return nil
	}

	data, err := s.store.Get(ctx, storageKey)
	if err != nil || data == nil {
		// Missing key is an empty history
		s.loaded = true
		return nil
	}

	var stored []domain.HistoryEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Error("Discarding unreadable watch history", map[string]interface{}{
			"error": err.Error(),
		})
		s.loaded = true
		return nil
	}

	for _, h := range stored {
		s.entries[h.VideoID] = h
	}
	s.loaded = true
	return nil
}

// persist writes the history back. Callers hold s.mu.
func (s *Service) persist(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	data, err := json.Marshal(lo.Values(s.entries))
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, storageKey, data, 0); err != nil {
		s.logger.Error("Failed to persist watch history", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("persist watch history: %w", err)
	}
	return nil
}
