// ABOUTME: Continuation cursor for paginated collection browsing
// ABOUTME: Opaque to callers; only the producing backend interprets the token

package domain

// Continuation is an opaque cursor bound to one collection fetch
type Continuation struct {
	// CollectionID identifies the paginated collection (e.g. a playlist)
	CollectionID string `json:"collectionId"`

	// Token is the backend-specific next page token
	Token string `json:"token"`

	// HasMore reports whether a further page exists
	HasMore bool `json:"hasMore"`

	// Source is the backend that produced the cursor
	Source BackendKind `json:"source"`
}

// Page is one incremental page of a paginated collection
type Page struct {
	Entries []FeedEntry `json:"entries"`

	// Continuation is nil when the collection is exhausted
	Continuation *Continuation `json:"continuation"`
}
