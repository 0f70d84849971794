// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to appropriate HTTP responses

package handlers

import (
	"context"
	stderrors "errors"

	"github.com/danielgtaylor/huma/v2"
	"subfeed-api/core/errors"
)

// toHumaError converts domain errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	if errors.IsNotFound(err) {
		return huma.Error404NotFound(err.Error())
	}

	if errors.IsValidation(err) {
		return huma.Error400BadRequest(err.Error())
	}

	if errors.IsNoFeed(err) {
		return huma.Error404NotFound("The backend has no feed for this collection", err)
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return huma.Error504GatewayTimeout("Upstream request timed out", err)
	}

	var backendErr *errors.BackendCallError
	if stderrors.As(err, &backendErr) {
		if backendErr.StatusCode == 429 {
			return huma.Error429TooManyRequests("Rate limited by the backend")
		}
		return huma.Error502BadGateway("Backend request failed", err)
	}

	var apiErr *errors.ExternalAPIError
	if stderrors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode >= 500:
			return huma.Error503ServiceUnavailable("External service error", err)
		case apiErr.StatusCode == 429:
			return huma.Error429TooManyRequests("Rate limited by external service")
		case apiErr.StatusCode >= 400:
			return huma.Error400BadRequest("External service request error", err)
		default:
			return huma.Error500InternalServerError("Unexpected external service response", err)
		}
	}

	if errors.IsDocumentParse(err) {
		return huma.Error502BadGateway("Backend returned a malformed document", err)
	}

	return huma.Error500InternalServerError("Internal server error", err)
}
