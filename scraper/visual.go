package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Property-name pattern matching over raw <style> text. Deliberately not a
// full CSS parser; the summary only needs candidate values.
var (
	cssColorRe   = regexp.MustCompile(`(?i)(?:color|background-color|border-color)\s*:\s*([^;}]+)`)
	cssFontRe    = regexp.MustCompile(`(?i)font-family\s*:\s*([^;}]+)`)
	cssSpacingRe = regexp.MustCompile(`(?i)(?:margin|padding)\s*:\s*[^;}]+`)
	cssBorderRe  = regexp.MustCompile(`(?i)(?:border|border-radius)\s*:\s*[^;}]+`)
)

// orderedSet collects unique strings in insertion order up to a cap.
type orderedSet struct {
	seen   map[string]bool
	values []string
	limit  int
}

func newOrderedSet(limit int) *orderedSet {
	return &orderedSet{seen: make(map[string]bool), limit: limit}
}

func (s *orderedSet) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.values = append(s.values, v)
}

func (s *orderedSet) list() []string {
	if len(s.values) > s.limit {
		return s.values[:s.limit]
	}
	if s.values == nil {
		return []string{}
	}
	return s.values
}

// VisualInfo derives the page-wide visual summary from raw markup. It scans
// inline style attributes first, then raw text inside <style> blocks, and
// unions the results into four deduplicated, order-preserving, capped lists.
func VisualInfo(markup string) CSSInfo {
	colors := newOrderedSet(maxColors)
	fonts := newOrderedSet(maxFonts)
	spacing := newOrderedSet(maxSpacing)
	borders := newOrderedSet(maxBorderStyles)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return CSSInfo{Colors: []string{}, Fonts: []string{}, Spacing: []string{}, BorderStyles: []string{}}
	}

	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		styles := parseInlineStyles(s.AttrOr("style", ""))
		if styles == nil {
			return
		}

		for _, prop := range []string{"color", "background-color", "border-color"} {
			if v, ok := styles[prop]; ok {
				colors.add(v)
			}
		}
		if v, ok := styles["font-family"]; ok {
			fonts.add(v)
		}
		if v, ok := styles["margin"]; ok {
			spacing.add("margin: " + v)
		}
		if v, ok := styles["padding"]; ok {
			spacing.add("padding: " + v)
		}
		if v, ok := styles["border"]; ok {
			borders.add(v)
		}
		if v, ok := styles["border-radius"]; ok {
			borders.add("border-radius: " + v)
		}
	})

	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		cssText := s.Text()
		for _, m := range cssColorRe.FindAllStringSubmatch(cssText, -1) {
			colors.add(m[1])
		}
		for _, m := range cssFontRe.FindAllStringSubmatch(cssText, -1) {
			fonts.add(m[1])
		}
		for _, m := range cssSpacingRe.FindAllString(cssText, -1) {
			spacing.add(m)
		}
		for _, m := range cssBorderRe.FindAllString(cssText, -1) {
			borders.add(m)
		}
	})

	return CSSInfo{
		Colors:       colors.list(),
		Fonts:        fonts.list(),
		Spacing:      spacing.list(),
		BorderStyles: borders.list(),
	}
}
