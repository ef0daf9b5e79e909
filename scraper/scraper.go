package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/smallnest/personaforge/log"
)

// Scraper combines the page fetcher and the markup extractor.
type Scraper struct {
	fetcher *Fetcher
}

// New creates a Scraper. A nil client uses http.DefaultClient.
func New(client *http.Client) *Scraper {
	return &Scraper{fetcher: NewFetcher(client)}
}

// Scrape fetches the page at url and extracts a structured snapshot.
// One outbound request per call; no caching.
func (s *Scraper) Scrape(ctx context.Context, url string) (*ScrapedContent, error) {
	markup, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	content := Extract(url, markup)
	log.Debug("scraped %s: %d elements, %d chars of text",
		url, content.Metadata.ElementCount, len(content.TextContent))
	return content, nil
}

// Extract derives the full snapshot from already-fetched markup. It is a pure
// function of its inputs (apart from the capture timestamp): no network, no
// I/O, no hidden randomness. Malformed markup degrades to empty collections.
func Extract(url, markup string) *ScrapedContent {
	elements := SemanticElements(markup)

	return &ScrapedContent{
		URL:              url,
		Title:            extractTitle(markup),
		TextContent:      truncate(TextContent(markup), MaxTextContent),
		SemanticElements: elements,
		VisualInfo:       VisualInfo(markup),
		Metadata: Metadata{
			ScrapedAt:    time.Now().UTC(),
			ElementCount: len(elements),
		},
	}
}

// PromptText serializes the snapshot for embedding into a generation prompt.
func (c *ScrapedContent) PromptText() string {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		// The snapshot contains only marshalable types; this is unreachable
		// in practice, but fall back to the raw text rather than panic.
		return c.TextContent
	}
	return string(data)
}

func extractTitle(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return DefaultTitle
	}
	title := doc.Find("title").First().Text()
	if title == "" {
		return DefaultTitle
	}
	return title
}
