// ABOUTME: Continuation walker fetches one incremental page of a collection at a time
// ABOUTME: Holds no accumulated state; callers concatenate pages themselves

package feed

import (
	"context"
	"errors"

	"subfeed-api/core/domain"
	"subfeed-api/core/interfaces"
)

// ErrExhausted is returned by Next when the cursor has no further page
var ErrExhausted = errors.New("continuation exhausted")

// Walker wraps one continuation cursor and the fetcher that produced it
type Walker struct {
	fetcher      interfaces.PageFetcher
	continuation *domain.Continuation
}

// NewWalker wraps c. A nil cursor yields a walker with no further pages.
func NewWalker(fetcher interfaces.PageFetcher, c *domain.Continuation) *Walker {
	return &Walker{fetcher: fetcher, continuation: c}
}

// HasMore reports whether a further page exists
func (w *Walker) HasMore() bool {
	return w.continuation != nil && w.continuation.HasMore
}

// Continuation returns the wrapped cursor
func (w *Walker) Continuation() *domain.Continuation {
	return w.continuation
}

// Next fetches the page the cursor points at. The returned page carries
// the cursor for the following page, or nil when the collection is done.
func (w *Walker) Next(ctx context.Context) (*domain.Page, error) {
	if !w.HasMore() {
		return nil, ErrExhausted
	}
	if w.fetcher == nil {
		return nil, errors.New("page fetcher not configured")
	}

	return fetchPage(ctx, w.fetcher, w.continuation.Source, w.continuation.CollectionID, w.continuation.Token)
}

// Start fetches the first page of a collection
func Start(ctx context.Context, fetcher interfaces.PageFetcher, source domain.BackendKind, collectionID string) (*domain.Page, error) {
	if collectionID == "" {
		return nil, errors.New("collection ID cannot be empty")
	}
	return fetchPage(ctx, fetcher, source, collectionID, "")
}

func fetchPage(ctx context.Context, fetcher interfaces.PageFetcher, source domain.BackendKind, collectionID, token string) (*domain.Page, error) {
	entries, nextToken, err := fetcher.FetchPage(ctx, collectionID, token)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.FeedEntry{}
	}

	page := &domain.Page{Entries: entries}
	if nextToken != "" {
		page.Continuation = &domain.Continuation{
			CollectionID: collectionID,
			Token:        nextToken,
			HasMore:      true,
			Source:       source,
		}
	}
	return page, nil
}
