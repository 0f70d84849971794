// ABOUTME: Bounded retry policy for per-channel fetches
// ABOUTME: One attempt against the primary backend, at most one against the other

package feed

import (
	"context"

	"subfeed-api/core/domain"
	"subfeed-api/core/errors"
	"subfeed-api/core/interfaces"
)

// DefaultMaxAttempts is the primary attempt plus a single fallback
const DefaultMaxAttempts = 2

// RetryPolicy lists the backend variants tried for one channel, in order
type RetryPolicy struct {
	MaxAttempts int
	Variants    []domain.BackendKind
}

// NewRetryPolicy builds the policy for a primary backend. Without fallback
// only the primary is tried.
func NewRetryPolicy(primary domain.BackendKind, fallback bool) RetryPolicy {
	if !fallback {
		return RetryPolicy{MaxAttempts: 1, Variants: []domain.BackendKind{primary}}
	}
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Variants:    []domain.BackendKind{primary, primary.Other()},
	}
}

// attempts returns the variants to try, capped at MaxAttempts
func (p RetryPolicy) attempts() []domain.BackendKind {
	if p.MaxAttempts <= 0 || p.MaxAttempts >= len(p.Variants) {
		return p.Variants
	}
	return p.Variants[:p.MaxAttempts]
}

type fetchFunc func(ctx context.Context, backend interfaces.Backend) ([]domain.FeedEntry, error)

// execute runs fetch against each variant until one succeeds, the error is
// terminal, or the variants run out. Variants with no registered backend
// end the loop. Returns the backend of the last attempt made.
func (a *Aggregator) execute(ctx context.Context, policy RetryPolicy, channel domain.Channel, kind domain.FeedKind, fetch fetchFunc) ([]domain.FeedEntry, domain.BackendKind, error) {
	var (
		lastErr     error
		lastBackend domain.BackendKind
	)

	for i, variant := range policy.attempts() {
		backend, ok := a.backends[variant]
		if !ok {
			if i > 0 {
				a.logger.Debug("Fallback backend not available", map[string]interface{}{
					"channel_id": channel.ID,
					"backend":    string(variant),
				})
			}
			break
		}

		if i > 0 {
			backendFallbacks.WithLabelValues(string(lastBackend), string(variant)).Inc()
			a.logger.Warn("Falling back to alternate backend", map[string]interface{}{
				"channel_id": channel.ID,
				"kind":       string(kind),
				"from":       string(lastBackend),
				"to":         string(variant),
			})
		}

		entries, err := fetch(ctx, backend)
		backendCalls.WithLabelValues(string(variant), string(kind), outcomeLabel(err)).Inc()
		lastBackend = variant

		if err == nil {
			return entries, variant, nil
		}

		lastErr = err
		a.logger.Warn("Backend fetch failed", map[string]interface{}{
			"channel_id": channel.ID,
			"kind":       string(kind),
			"backend":    string(variant),
			"attempt":    i + 1,
			"error":      err.Error(),
		})

		if !errors.IsRetryable(err) || ctx.Err() != nil {
			break
		}
	}

	return nil, lastBackend, lastErr
}
