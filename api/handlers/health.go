// ABOUTME: Health handler reports liveness and channel cache size
// ABOUTME: Cache statistics are optional; without them the count reads zero

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// CacheStats reports the number of cached channels
type CacheStats interface {
	Len() int
}

// HealthHandler reports liveness
type HealthHandler struct {
	cache CacheStats
}

// NewHealthHandler creates a health handler; cache may be nil
func NewHealthHandler(cache CacheStats) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Liveness check",
		Tags:        []string{"System"},
	}, h.Health)
}

// HealthOutput defines the output for the Health operation
type HealthOutput struct {
	Body struct {
		Status         string `json:"status"`
		CachedChannels int    `json:"cachedChannels"`
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(ctx context.Context, input *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "ok"
	if h.cache != nil {
		out.Body.CachedChannels = h.cache.Len()
	}
	return out, nil
}
