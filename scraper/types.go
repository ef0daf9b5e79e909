// Package scraper fetches a single web page and extracts a bounded snapshot
// of its content: semantic elements, a page-wide visual summary, and the
// visible plain text.
package scraper

import "time"

// Extraction bounds. They keep the snapshot (and the prompts built from it)
// at a predictable size.
const (
	// MaxTextContent is the maximum length of the extracted plain text, in runes.
	MaxTextContent = 10000

	// DefaultTitle is used when the page has no <title>.
	DefaultTitle = "Untitled"

	maxColors       = 20
	maxFonts        = 10
	maxSpacing      = 15
	maxBorderStyles = 10
)

// ElementType classifies an extracted markup element. The set is closed.
type ElementType string

const (
	ElementHeading   ElementType = "heading"
	ElementParagraph ElementType = "paragraph"
	ElementList      ElementType = "list"
	ElementLink      ElementType = "link"
	ElementButton    ElementType = "button"
	ElementImage     ElementType = "image"
)

// SemanticElement is one extracted markup element.
type SemanticElement struct {
	Type ElementType `json:"type"`

	// Content is the trimmed visible text, the alt text for images, or the
	// value attribute for submit-type inputs.
	Content string `json:"content"`

	// Level is set for headings only (1-6).
	Level int `json:"level,omitempty"`

	// Classes holds the CSS class tokens in attribute order.
	Classes []string `json:"classes"`

	// Styles maps CSS property to value, parsed from the inline style
	// attribute. Nil when the attribute is absent or parses to nothing.
	Styles map[string]string `json:"styles,omitempty"`
}

// CSSInfo is the page-wide visual summary. Each list is deduplicated,
// discovery-ordered (inline styles first, then <style> blocks) and capped.
type CSSInfo struct {
	Colors       []string `json:"colors"`
	Fonts        []string `json:"fonts"`
	Spacing      []string `json:"spacing"`
	BorderStyles []string `json:"borderStyles"`
}

// Metadata records when and how much was captured.
type Metadata struct {
	ScrapedAt    time.Time `json:"scrapedAt"`
	ElementCount int       `json:"elementCount"`
}

// ScrapedContent is an immutable snapshot of one page fetch.
type ScrapedContent struct {
	URL              string            `json:"url"`
	Title            string            `json:"title"`
	TextContent      string            `json:"textContent"`
	SemanticElements []SemanticElement `json:"semanticElements"`
	VisualInfo       CSSInfo           `json:"visualInfo"`
	Metadata         Metadata          `json:"metadata"`
}
