// ABOUTME: Watch history handlers for the Huma API
// ABOUTME: Records, lists and removes watched videos used by the watched filter

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"subfeed-api/api/dto/mappers"
	"subfeed-api/api/dto/requests"
	"subfeed-api/api/dto/responses"
	"subfeed-api/core/domain"
	"subfeed-api/core/history"
)

// HistoryService interface defines the methods needed from the history service
type HistoryService interface {
	Record(ctx context.Context, entry domain.HistoryEntry) (*domain.HistoryEntry, error)
	Remove(ctx context.Context, videoID string) error
	Clear(ctx context.Context) error
	List(ctx context.Context, q history.Query) (*history.Listing, error)
}

// HistoryHandler handles watch history requests
type HistoryHandler struct {
	service HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// RegisterRoutes registers all history routes
func (h *HistoryHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listHistory",
		Method:      http.MethodGet,
		Path:        "/history",
		Summary:     "List watched videos",
		Tags:        []string{"History"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID:   "recordHistory",
		Method:        http.MethodPost,
		Path:          "/history",
		Summary:       "Record a watched video",
		Description:   "Replaces any existing record for the same video",
		Tags:          []string{"History"},
		DefaultStatus: http.StatusCreated,
	}, h.Record)

	huma.Register(api, huma.Operation{
		OperationID:   "removeHistoryEntry",
		Method:        http.MethodDelete,
		Path:          "/history/{videoId}",
		Summary:       "Remove a watched video",
		Tags:          []string{"History"},
		DefaultStatus: http.StatusNoContent,
	}, h.Remove)

	huma.Register(api, huma.Operation{
		OperationID:   "clearHistory",
		Method:        http.MethodDelete,
		Path:          "/history",
		Summary:       "Clear the watch history",
		Tags:          []string{"History"},
		DefaultStatus: http.StatusNoContent,
	}, h.Clear)
}

// ListHistoryInput defines the input for the List operation
type ListHistoryInput struct {
	Search string `query:"search" doc:"Case-insensitive match on title or author"`
	Limit  int    `query:"limit" minimum:"0" maximum:"1000" doc:"Maximum entries; 0 returns all"`
}

// ListHistoryOutput defines the output for the List operation
type ListHistoryOutput struct {
	Body responses.HistoryListResponse
}

// List handles GET /history
func (h *HistoryHandler) List(ctx context.Context, input *ListHistoryInput) (*ListHistoryOutput, error) {
	listing, err := h.service.List(ctx, history.Query{Search: input.Search, Limit: input.Limit})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ListHistoryOutput{Body: *mappers.ToHistoryListResponse(listing)}, nil
}

// RecordHistoryInput defines the input for the Record operation
type RecordHistoryInput struct {
	Body requests.HistoryEntryRequest
}

// RecordHistoryOutput defines the output for the Record operation
type RecordHistoryOutput struct {
	Body responses.HistoryEntryResponse
}

// Record handles POST /history
func (h *HistoryHandler) Record(ctx context.Context, input *RecordHistoryInput) (*RecordHistoryOutput, error) {
	entry, err := h.service.Record(ctx, mappers.ToHistoryEntry(input.Body))
	if err != nil {
		return nil, toHumaError(err)
	}
	return &RecordHistoryOutput{Body: mappers.ToHistoryEntryResponse(*entry)}, nil
}

// RemoveHistoryInput defines the input for the Remove operation
type RemoveHistoryInput struct {
	VideoID string `path:"videoId" minLength:"1"`
}

// Remove handles DELETE /history/{videoId}
func (h *HistoryHandler) Remove(ctx context.Context, input *RemoveHistoryInput) (*struct{}, error) {
	if err := h.service.Remove(ctx, input.VideoID); err != nil {
		return nil, toHumaError(err)
	}
	return nil, nil
}

// Clear handles DELETE /history
func (h *HistoryHandler) Clear(ctx context.Context, input *struct{}) (*struct{}, error) {
	if err := h.service.Clear(ctx); err != nil {
		return nil, toHumaError(err)
	}
	return nil, nil
}
