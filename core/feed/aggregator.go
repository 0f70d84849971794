// ABOUTME: Feed aggregator fans out per-channel fetches with a single backend fallback
// ABOUTME: Reports monotonic progress and writes each channel's result into the channel cache

package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"subfeed-api/core/channelcache"
	"subfeed-api/core/domain"
	coreerrors "subfeed-api/core/errors"
	"subfeed-api/core/interfaces"
	"subfeed-api/pkg/featureflags"
)

// ForceSyndicationThreshold is the channel count at which video and live
// stream fetches are replaced by syndication documents
const ForceSyndicationThreshold = 125

var errHTTPClientMissing = errors.New("HTTP client not configured")

// Request describes one aggregation run
type Request struct {
	Channels []domain.Channel
	Kind     domain.FeedKind

	// Primary is the backend tried first for every channel
	Primary domain.BackendKind

	// Fallback allows one retry against the other backend
	Fallback bool

	// Progress is optional
	Progress interfaces.ProgressSink

	// SyndicationOnly means the caller already prefers syndication
	// documents, so the channel-count threshold does not apply
	SyndicationOnly bool
}

// ChannelError records a channel whose fetch failed after the retry policy
type ChannelError struct {
	Channel domain.Channel
	Kind    domain.FeedKind
	Backend domain.BackendKind
	Err     error
}

// Error implements the error interface
func (e ChannelError) Error() string {
	return fmt.Sprintf("channel %s (%s) via %s: %v", e.Channel.ID, e.Kind, e.Backend, e.Err)
}

// Unwrap returns the underlying cause
func (e ChannelError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one aggregation run
type Result struct {
	// Entries is the concatenation of per-channel lists in channel order
	Entries []domain.FeedEntry

	// ForceSyndication is set when the run was short-circuited; the caller
	// should re-run with the rssFeedEntries kind
	ForceSyndication bool

	// Errors lists channels that produced no result
	Errors []ChannelError

	// RunID identifies the run in logs
	RunID string

	// Superseded is set when run fencing discarded this run's cache writes
	Superseded bool
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithMaxConcurrency caps in-flight channel fetches. Zero means unbounded.
func WithMaxConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxConcurrency = n
		}
	}
}

// WithClock overrides the time source used for normalization
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// Aggregator fetches feed kinds for a set of channels
type Aggregator struct {
	backends   map[domain.BackendKind]interfaces.Backend
	cache      *channelcache.ChannelCache
	httpClient interfaces.HTTPClient
	logger     interfaces.Logger

	maxConcurrency int
	now            func() time.Time

	mu        sync.Mutex
	latestRun map[domain.FeedKind]string
}

// NewAggregator creates an aggregator over the given backends. The cache
// receives every settled channel's result.
func NewAggregator(deps interfaces.Dependencies, cache *channelcache.ChannelCache, backends []interfaces.Backend, opts ...Option) *Aggregator {
	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}

	a := &Aggregator{
		backends:   make(map[domain.BackendKind]interfaces.Backend, len(backends)),
		cache:      cache,
		httpClient: deps.HTTPClient,
		logger:     logger,
		now:        time.Now,
		latestRun:  make(map[domain.FeedKind]string),
	}
	for _, b := range backends {
		if b != nil {
			a.backends[b.Kind()] = b
		}
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HasBackend reports whether a backend of the given kind is registered
func (a *Aggregator) HasBackend(kind domain.BackendKind) bool {
	_, ok := a.backends[kind]
	return ok
}

// ShouldForceSyndication reports whether a run for kind over channelCount
// channels would be short-circuited into syndication mode
func ShouldForceSyndication(kind domain.FeedKind, channelCount int, syndicationOnly bool) bool {
	if kind.IsSyndication() || syndicationOnly {
		return false
	}
	return channelCount >= ForceSyndicationThreshold
}

// Aggregate runs one aggregation. Per-channel failures never fail the run;
// they are returned in Result.Errors. A cancelled context is returned
// alongside whatever settled before cancellation.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) (*Result, error) {
	if _, err := domain.ParseFeedKind(string(req.Kind)); err != nil || req.Kind == "" {
		return nil, &coreerrors.ValidationError{Field: "kind", Message: fmt.Sprintf("unsupported feed kind %q", req.Kind)}
	}
	if !a.HasBackend(req.Primary) {
		return nil, &coreerrors.ValidationError{Field: "primary", Message: fmt.Sprintf("backend %q is not configured", req.Primary)}
	}

	runID := uuid.NewString()
	result := &Result{Entries: []domain.FeedEntry{}, RunID: runID}

	if len(req.Channels) == 0 {
		return result, nil
	}

	if ShouldForceSyndication(req.Kind, len(req.Channels), req.SyndicationOnly) {
		forcedSyndication.Inc()
		a.logger.Warn("Large subscription list, forcing syndication feeds to avoid rate limiting", map[string]interface{}{
			"channels": len(req.Channels),
			"kind":     string(req.Kind),
		})
		result.ForceSyndication = true
		return result, nil
	}

	fenced := featureflags.IsEnabled(ctx, featureflags.StaleRunFencing)
	if fenced {
		a.mu.Lock()
		a.latestRun[req.Kind] = runID
		a.mu.Unlock()
	}

	start := time.Now()
	defer func() {
		runDuration.WithLabelValues(string(req.Kind)).Observe(time.Since(start).Seconds())
	}()

	progress := req.Progress
	if progress != nil {
		progress.Active(true)
		progress.Report(0)
		defer progress.Active(false)
	}

	a.logger.Info("Starting aggregation", map[string]interface{}{
		"run_id":   runID,
		"kind":     string(req.Kind),
		"channels": len(req.Channels),
		"primary":  string(req.Primary),
		"fallback": req.Fallback,
	})

	policy := NewRetryPolicy(req.Primary, req.Fallback)

	type channelResult struct {
		index   int
		entries []domain.FeedEntry
		backend domain.BackendKind
		err     error
	}

	resultsChan := make(chan channelResult, len(req.Channels))

	var semaphore chan struct{}
	if a.maxConcurrency > 0 {
		semaphore = make(chan struct{}, a.maxConcurrency)
	}

	var wg sync.WaitGroup
	for i, channel := range req.Channels {
		wg.Add(1)
		go func(index int, channel domain.Channel) {
			defer wg.Done()

			if semaphore != nil {
				select {
				case semaphore <- struct{}{}:
					defer func() { <-semaphore }()
				case <-ctx.Done():
					resultsChan <- channelResult{index: index, backend: req.Primary, err: ctx.Err()}
					return
				}
			}

			entries, backend, err := a.execute(ctx, policy, channel, req.Kind, func(ctx context.Context, b interfaces.Backend) ([]domain.FeedEntry, error) {
				return a.fetch(ctx, b, channel.ID, req.Kind)
			})
			resultsChan <- channelResult{index: index, entries: entries, backend: backend, err: err}
		}(i, channel)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	perChannel := make([][]domain.FeedEntry, len(req.Channels))
	failures := make([]*ChannelError, len(req.Channels))
	settled := make([]bool, len(req.Channels))
	total := float64(len(req.Channels))
	count := 0

	for r := range resultsChan {
		count++
		if progress != nil {
			progress.Report(float64(count) / total * 100)
		}

		if r.err != nil {
			perChannel[r.index] = []domain.FeedEntry{}
			if isContextError(r.err) {
				continue
			}
			settled[r.index] = true
			channelErrors.WithLabelValues(string(req.Kind)).Inc()
			failures[r.index] = &ChannelError{
				Channel: req.Channels[r.index],
				Kind:    req.Kind,
				Backend: r.backend,
				Err:     r.err,
			}
			continue
		}

		settled[r.index] = true
		if r.entries == nil {
			r.entries = []domain.FeedEntry{}
		}
		perChannel[r.index] = r.entries
	}

	for i, entries := range perChannel {
		result.Entries = append(result.Entries, entries...)
		if failures[i] != nil {
			result.Errors = append(result.Errors, *failures[i])
		}
	}

	if fenced && a.isSuperseded(req.Kind, runID) {
		result.Superseded = true
		a.logger.Info("Discarding cache writes from superseded run", map[string]interface{}{
			"run_id": runID,
			"kind":   string(req.Kind),
		})
	} else if a.cache != nil {
		for i, channel := range req.Channels {
			if settled[i] {
				a.cache.Update(channel.ID, domain.UpdateForKind(req.Kind, perChannel[i]))
			}
		}
	}

	a.logger.Info("Aggregation finished", map[string]interface{}{
		"run_id":         runID,
		"kind":           string(req.Kind),
		"entries":        len(result.Entries),
		"error_channels": len(result.Errors),
		"duration_ms":    time.Since(start).Milliseconds(),
	})

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (a *Aggregator) fetch(ctx context.Context, backend interfaces.Backend, channelID string, kind domain.FeedKind) ([]domain.FeedEntry, error) {
	var (
		entries []domain.FeedEntry
		err     error
	)

	switch kind {
	case domain.KindVideos:
		entries, err = backend.FetchVideos(ctx, channelID)
	case domain.KindLiveStreams:
		entries, err = backend.FetchLiveStreams(ctx, channelID)
	case domain.KindRSSFeedEntries:
		entries, err = a.fetchSyndication(ctx, backend, channelID)
	}
	if err != nil {
		return nil, err
	}

	return normalizeEntries(entries, a.now()), nil
}

func (a *Aggregator) isSuperseded(kind domain.FeedKind, runID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latestRun[kind] != runID
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
