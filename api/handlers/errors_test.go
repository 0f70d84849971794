package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"subfeed-api/core/errors"
)

func TestToHumaError(t *testing.T) {
	tests := []struct {
		name           string
		input          error
		expectedStatus int
		expectedDetail string
	}{
		{
			name:           "NotFoundError returns 404",
			input:          &errors.NotFoundError{Resource: "history entry", ID: "abc"},
			expectedStatus: 404,
			expectedDetail: "history entry not found: abc",
		},
		{
			name:           "ValidationError returns 400",
			input:          &errors.ValidationError{Field: "kind", Message: "unsupported"},
			expectedStatus: 400,
			expectedDetail: "'kind': unsupported",
		},
		{
			name:           "NoFeedError returns 404",
			input:          &errors.NoFeedError{Backend: "local", ChannelID: "PLx", StatusCode: 404},
			expectedStatus: 404,
			expectedDetail: "no feed",
		},
		{
			name:           "BackendCallError returns 502",
			input:          &errors.BackendCallError{Backend: "invidious", ChannelID: "PLx", StatusCode: 500},
			expectedStatus: 502,
			expectedDetail: "Backend request failed",
		},
		{
			name:           "BackendCallError with 429 returns 429",
			input:          &errors.BackendCallError{Backend: "local", ChannelID: "PLx", StatusCode: 429},
			expectedStatus: 429,
			expectedDetail: "Rate limited",
		},
		{
			name:           "deadline returns 504",
			input:          fmt.Errorf("fetch page: %w", context.DeadlineExceeded),
			expectedStatus: 504,
			expectedDetail: "timed out",
		},
		{
			name:           "DocumentParseError returns 502",
			input:          &errors.DocumentParseError{Reason: "no feed element"},
			expectedStatus: 502,
			expectedDetail: "malformed document",
		},
		{
			name:           "ExternalAPIError with 503 returns 503",
			input:          &errors.ExternalAPIError{StatusCode: 503, Message: "service unavailable"},
			expectedStatus: 503,
			expectedDetail: "External service error",
		},
		{
			name:           "ExternalAPIError with 429 returns 429",
			input:          &errors.ExternalAPIError{StatusCode: 429, Message: "rate limited"},
			expectedStatus: 429,
			expectedDetail: "Rate limited by external service",
		},
		{
			name:           "ExternalAPIError with 404 returns 400",
			input:          &errors.ExternalAPIError{StatusCode: 404, Message: "not found"},
			expectedStatus: 400,
			expectedDetail: "External service request error",
		},
		{
			name:           "wrapped NotFoundError returns 404",
			input:          fmt.Errorf("wrapped: %w", &errors.NotFoundError{Resource: "history entry", ID: "x"}),
			expectedStatus: 404,
			expectedDetail: "history entry not found",
		},
		{
			name:           "unknown error returns 500",
			input:          fmt.Errorf("some unknown error"),
			expectedStatus: 500,
			expectedDetail: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			humaErr, ok := toHumaError(tt.input).(*huma.ErrorModel)
			require.True(t, ok, "Expected huma.ErrorModel")
			assert.Equal(t, tt.expectedStatus, humaErr.Status)
			assert.Contains(t, humaErr.Detail, tt.expectedDetail)
		})
	}
}

func TestToHumaError_Nil(t *testing.T) {
	assert.Nil(t, toHumaError(nil))
}
