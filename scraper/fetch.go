package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// FetchError reports a failed page retrieval.
type FetchError struct {
	URL string

	// Status is the HTTP status line for non-success responses, empty for
	// transport-level failures.
	Status string

	Err error
}

func (e *FetchError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("failed to fetch %s: %s", e.URL, e.Status)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves raw markup for one URL over HTTP.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher. A nil client falls back to http.DefaultClient,
// inheriting its redirect and timeout behavior.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

// Fetch performs a single GET and returns the raw response body as text.
// The URL must parse as an absolute URL; invalid input fails before any
// network call. There is no retry and no caching.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	if !u.IsAbs() || u.Host == "" {
		return "", &FetchError{URL: rawURL, Err: fmt.Errorf("not an absolute URL")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: rawURL, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}

	return string(body), nil
}
