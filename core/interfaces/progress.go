package interfaces

import (
	"context"

	"subfeed-api/core/domain"
)

// ProgressSink receives aggregation progress.
// Active brackets each run; Report receives a percentage in [0,100].
type ProgressSink interface {
	Active(active bool)
	Report(percent float64)
}

// HistoryProvider exposes the watch history used by the watched filter
type HistoryProvider interface {
	History(ctx context.Context) ([]domain.HistoryEntry, error)
}
