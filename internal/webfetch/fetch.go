// Package webfetch retrieves a URL and extracts its visible text. Failures
// are carried in the Result instead of a propagated error so the caller
// decides whether to include each source.
package webfetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

const DefaultTimeout = 10 * time.Second

// Result holds the outcome of one fetch. Exactly one of Text or Err is
// meaningful; Err nil means Text is usable (possibly empty).
type Result struct {
	URL  string
	Text string
	Err  error
}

// Failed reports whether the fetch or extraction failed.
func (r Result) Failed() bool { return r.Err != nil }

// String renders the result for logs. Failures keep the historical
// "[ERROR] Failed to load content from <url>" shape.
func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("[ERROR] Failed to load content from %s: %v", r.URL, r.Err)
	}
	return r.Text
}

// Fetcher extracts visible text from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) Result
}

// HTTPFetcher fetches over plain HTTP with a bounded timeout and strips
// markup with readability.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with the given timeout; zero or negative
// means DefaultTimeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch implements Fetcher. Non-2xx responses are still parsed; only
// transport and extraction failures mark the result as failed.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{URL: rawURL, Err: err}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Result{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	article, err := readability.FromReader(resp.Body, parseURL(rawURL))
	if err != nil {
		return Result{URL: rawURL, Err: fmt.Errorf("extract text: %w", err)}
	}
	return Result{URL: rawURL, Text: strings.TrimSpace(article.TextContent)}
}

func parseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
