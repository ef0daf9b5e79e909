package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><h1>hello</h1></body></html>"))
	}))
	defer server.Close()

	f := NewFetcher(nil)
	body, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, body, "<h1>hello</h1>")
}

func TestFetcher_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(nil)
	_, err := f.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Error(), "404")
}

func TestFetcher_InvalidURLFailsBeforeNetwork(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	f := NewFetcher(server.Client())
	for _, raw := range []string{"not a url", "/relative/path", "example.com/missing-scheme", "://nope"} {
		_, err := f.Fetch(context.Background(), raw)
		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr, "input %q", raw)
	}
	assert.Equal(t, int32(0), calls.Load(), "invalid URLs must not reach the network")
}

func TestFetcher_TransportError(t *testing.T) {
	t.Parallel()

	f := NewFetcher(nil)
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/unreachable")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Empty(t, fetchErr.Status)
	assert.Error(t, fetchErr.Err)
}

func TestScraper_Scrape(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Acme</title></head><body>
			<h1>Acme Rockets</h1>
			<p>Fast delivery.</p>
			<img src="x.png" alt="">
		</body></html>`))
	}))
	defer server.Close()

	s := New(nil)
	content, err := s.Scrape(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, server.URL, content.URL)
	assert.Equal(t, "Acme", content.Title)
	assert.Equal(t, 3, content.Metadata.ElementCount)

	for _, el := range content.SemanticElements {
		if el.Type != ElementImage {
			assert.NotEmpty(t, el.Content)
		}
	}
}

func TestScraper_ScrapeFetchFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := New(nil)
	_, err := s.Scrape(context.Background(), server.URL)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
}
