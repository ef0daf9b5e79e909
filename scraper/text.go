package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TextContent extracts the visible text of the document body. Script, style
// and noscript subtrees are removed entirely; the remaining text is split on
// newlines, each line trimmed, empty lines dropped, and the rest rejoined
// with a newline.
func TextContent(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript").Remove()

	text := doc.Find("body").Text()

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}

// truncate limits s to max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
