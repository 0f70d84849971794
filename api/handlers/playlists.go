// ABOUTME: Playlist handlers expose continuation-based paging over backend playlists
// ABOUTME: First pages may fall back to the other backend; later pages stay with the token's issuer

package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"subfeed-api/api/dto/mappers"
	"subfeed-api/api/dto/responses"
	"subfeed-api/core/domain"
	"subfeed-api/core/errors"
	"subfeed-api/core/feed"
	"subfeed-api/core/interfaces"
)

// PlaylistHandler handles playlist paging requests
type PlaylistHandler struct {
	fetchers map[domain.BackendKind]interfaces.PageFetcher
	primary  domain.BackendKind
	fallback bool
	logger   interfaces.Logger
}

// NewPlaylistHandler creates a handler over the page fetchers of each backend
func NewPlaylistHandler(fetchers map[domain.BackendKind]interfaces.PageFetcher, primary domain.BackendKind, fallback bool, logger interfaces.Logger) *PlaylistHandler {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &PlaylistHandler{
		fetchers: fetchers,
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// RegisterRoutes registers all playlist routes
func (h *PlaylistHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getPlaylistPage",
		Method:      http.MethodGet,
		Path:        "/playlists/{id}",
		Summary:     "Get one page of a playlist",
		Description: "Without a token returns the first page. Pass the returned continuation token and source to fetch the next page.",
		Tags:        []string{"Playlists"},
	}, h.GetPage)
}

// GetPageInput defines the input for the GetPage operation
type GetPageInput struct {
	ID     string `path:"id" minLength:"1" doc:"Playlist identifier"`
	Token  string `query:"token" doc:"Continuation token from the previous page"`
	Source string `query:"source" enum:"local,invidious" doc:"Backend that issued the token"`
}

// GetPageOutput defines the output for the GetPage operation
type GetPageOutput struct {
	Body responses.PageResponse
}

// GetPage handles GET /playlists/{id}
func (h *PlaylistHandler) GetPage(ctx context.Context, input *GetPageInput) (*GetPageOutput, error) {
	source := h.primary
	if input.Source != "" {
		parsed, err := domain.ParseBackendKind(input.Source)
		if err != nil {
			return nil, toHumaError(&errors.ValidationError{Field: "source", Message: err.Error()})
		}
		source = parsed
	}

	var (
		page *domain.Page
		err  error
	)
	if input.Token == "" {
		page, err = h.firstPage(ctx, source, input.ID)
	} else {
		page, err = h.nextPage(ctx, source, input.ID, input.Token)
	}
	if err != nil {
		return nil, toHumaError(err)
	}

	return &GetPageOutput{Body: *mappers.ToPageResponse(page)}, nil
}

func (h *PlaylistHandler) firstPage(ctx context.Context, source domain.BackendKind, playlistID string) (*domain.Page, error) {
	fetcher, err := h.fetcher(source)
	if err == nil {
		var page *domain.Page
		page, err = feed.Start(ctx, fetcher, source, playlistID)
		if err == nil {
			return page, nil
		}
	}

	alternate := source.Other()
	if !h.fallback || !errors.IsRetryable(err) || h.fetchers[alternate] == nil {
		return nil, err
	}

	h.logger.Warn("Falling back to alternate backend for playlist", map[string]interface{}{
		"playlist_id": playlistID,
		"from":        string(source),
		"to":          string(alternate),
		"error":       err.Error(),
	})
	return feed.Start(ctx, h.fetchers[alternate], alternate, playlistID)
}

func (h *PlaylistHandler) nextPage(ctx context.Context, source domain.BackendKind, playlistID, token string) (*domain.Page, error) {
	fetcher, err := h.fetcher(source)
	if err != nil {
		return nil, err
	}

	walker := feed.NewWalker(fetcher, &domain.Continuation{
		CollectionID: playlistID,
		Token:        token,
		HasMore:      true,
		Source:       source,
	})
	return walker.Next(ctx)
}

func (h *PlaylistHandler) fetcher(source domain.BackendKind) (interfaces.PageFetcher, error) {
	fetcher, ok := h.fetchers[source]
	if !ok || fetcher == nil {
		return nil, &errors.ValidationError{Field: "source", Message: fmt.Sprintf("backend %q is not configured", source)}
	}
	return fetcher, nil
}
