// ABOUTME: Prometheus collectors for aggregation runs
// ABOUTME: Counts backend calls by outcome, fallbacks and channel errors, and times runs

package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subfeed_backend_calls_total",
		Help: "Backend fetches per backend, feed kind and outcome",
	}, []string{"backend", "kind", "outcome"})

	backendFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subfeed_backend_fallbacks_total",
		Help: "Fallback attempts against the alternate backend",
	}, []string{"from", "to"})

	channelErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subfeed_channel_errors_total",
		Help: "Channels that ended an aggregation run in the error list",
	}, []string{"kind"})

	forcedSyndication = promauto.NewCounter(prometheus.CounterOpts{
		Name: "subfeed_forced_syndication_total",
		Help: "Aggregation runs short-circuited into syndication mode",
	})

	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "subfeed_aggregation_duration_seconds",
		Help:    "Wall time of an aggregation run",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"kind"})
)

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	return "failure"
}
