// ABOUTME: Standard HTTP client implementation with timeout and outbound rate limiting
// ABOUTME: Shares one throttled transport between syndication fetches and backend API calls

package standard

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"subfeed-api/core/interfaces"
)

const defaultUserAgent = "SubfeedAPI/1.0"

// Options configures the client
type Options struct {
	Timeout time.Duration

	// UserAgent defaults to SubfeedAPI/1.0
	UserAgent string

	// RequestsPerSecond throttles outbound requests; 0 disables throttling
	RequestsPerSecond float64
	Burst             int
}

// StandardHTTPClient implements the HTTPClient interface using the standard library.
// Failed requests are not retried here; retry and fallback belong to the aggregator.
type StandardHTTPClient struct {
	client    *http.Client
	userAgent string
}

// NewStandardHTTPClient creates a new HTTP client with the specified timeout
func NewStandardHTTPClient(timeout time.Duration) *StandardHTTPClient {
	return NewStandardHTTPClientWithOptions(Options{Timeout: timeout})
}

// NewStandardHTTPClientWithOptions creates a client from opts
func NewStandardHTTPClientWithOptions(opts Options) *StandardHTTPClient {
	var transport http.RoundTripper = http.DefaultTransport
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		transport = &rateLimitedTransport{
			base:    transport,
			limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst),
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &StandardHTTPClient{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &userAgentTransport{base: transport, userAgent: userAgent},
		},
		userAgent: userAgent,
	}
}

// HTTPClient exposes the underlying client so API SDKs share the same
// timeout, throttle and User-Agent
func (c *StandardHTTPClient) HTTPClient() *http.Client {
	return c.client
}

// Get performs an HTTP GET request
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

// rateLimitedTransport waits on a token bucket before each request
type rateLimitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// userAgentTransport sets the User-Agent unless the caller already did
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
