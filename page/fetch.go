package page

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultUserAgent identifies the crawler to the site.
const DefaultUserAgent = "punchscrape/1.0 (news section crawler)"

// Fetcher loads and parses a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Document, error)
}

// TransportError reports a fetch that did not produce a page: a network
// failure, a timeout, or a non-success response. StatusCode is zero when no
// response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FetcherOptions configures an HTTPFetcher.
type FetcherOptions struct {
	UserAgent string
	// Timeout per request. Zero disables the client timeout.
	Timeout time.Duration
	// RequestsPerSecond paces consecutive fetches. Zero or less means no
	// pacing.
	RequestsPerSecond float64
	// Client overrides the HTTP client. Timeout is ignored when set.
	Client *http.Client
}

// HTTPFetcher fetches pages over HTTP and parses them with goquery.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// NewHTTPFetcher creates a fetcher from opts.
func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &HTTPFetcher{
		client:    client,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Fetch performs a GET request for url and parses the body as HTML.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (Document, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	// Redirects change the base for relative links
	base := url
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL.String()
	}

	doc, err := Parse(base, resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	return doc, nil
}
