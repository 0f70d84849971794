// ABOUTME: Custom error types for the core business logic
// ABOUTME: Classifies backend, no-feed and document failures for the fallback policy

package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents an error from an external API
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// BackendCallError is a transport failure or an unexpected non-2xx status
// from a content backend. It is eligible for a single fallback attempt.
type BackendCallError struct {
	Backend    string
	ChannelID  string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *BackendCallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s backend call failed for channel %s: status %d", e.Backend, e.ChannelID, e.StatusCode)
	}
	return fmt.Sprintf("%s backend call failed for channel %s: %v", e.Backend, e.ChannelID, e.Err)
}

// Unwrap returns the underlying cause
func (e *BackendCallError) Unwrap() error {
	return e.Err
}

// NoFeedError means the backend reported that the channel has no feed.
// It is terminal for the channel; no fallback is attempted.
type NoFeedError struct {
	Backend    string
	ChannelID  string
	StatusCode int
}

// Error implements the error interface
func (e *NoFeedError) Error() string {
	return fmt.Sprintf("%s backend has no feed for channel %s (status %d)", e.Backend, e.ChannelID, e.StatusCode)
}

// DocumentParseError represents a malformed syndication document
type DocumentParseError struct {
	Reason string
	Err    error
}

// Error implements the error interface
func (e *DocumentParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed syndication document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed syndication document: %s", e.Reason)
}

// Unwrap returns the underlying cause
func (e *DocumentParseError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsBackendCall checks if an error is a BackendCallError
func IsBackendCall(err error) bool {
	var backendErr *BackendCallError
	return errors.As(err, &backendErr)
}

// IsNoFeed checks if an error is a NoFeedError
func IsNoFeed(err error) bool {
	var noFeedErr *NoFeedError
	return errors.As(err, &noFeedErr)
}

// IsDocumentParse checks if an error is a DocumentParseError
func IsDocumentParse(err error) bool {
	var parseErr *DocumentParseError
	return errors.As(err, &parseErr)
}

// IsRetryable reports whether the error may be retried against the
// alternate backend. NoFeedError is terminal; everything else is not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !IsNoFeed(err)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
