package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SemanticElements extracts the classified elements from raw markup.
//
// Extraction runs one pass per element type, in the fixed order headings,
// paragraphs, lists, links, buttons, images. The result is the concatenation
// of each pass's matches in document order - elements are NOT in a single
// global document order across types. Downstream consumers depend on this
// ordering, so it is part of the contract.
func SemanticElements(markup string) []SemanticElement {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		// The parser is lenient; malformed input degrades to no matches.
		return nil
	}

	var elements []SemanticElement

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		level := int(tag[1] - '0')
		elements = append(elements, SemanticElement{
			Type:    ElementHeading,
			Content: strings.TrimSpace(s.Text()),
			Level:   level,
			Classes: classTokens(s),
			Styles:  parseInlineStyles(s.AttrOr("style", "")),
		})
	})

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.Text())
		if content == "" {
			return
		}
		elements = append(elements, SemanticElement{
			Type:    ElementParagraph,
			Content: content,
			Classes: classTokens(s),
			Styles:  parseInlineStyles(s.AttrOr("style", "")),
		})
	})

	doc.Find("ul, ol").Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.Text())
		if content == "" {
			return
		}
		elements = append(elements, SemanticElement{
			Type:    ElementList,
			Content: content,
			Classes: classTokens(s),
			Styles:  parseInlineStyles(s.AttrOr("style", "")),
		})
	})

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.Text())
		if content == "" {
			return
		}
		elements = append(elements, SemanticElement{
			Type:    ElementLink,
			Content: content,
			Classes: classTokens(s),
			Styles:  parseInlineStyles(s.AttrOr("style", "")),
		})
	})

	doc.Find(`button, input[type="button"], input[type="submit"]`).Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.Text())
		if content == "" {
			content = s.AttrOr("value", "")
		}
		if content == "" {
			return
		}
		elements = append(elements, SemanticElement{
			Type:    ElementButton,
			Content: content,
			Classes: classTokens(s),
			Styles:  parseInlineStyles(s.AttrOr("style", "")),
		})
	})

	// Images are always kept; the alt text may be empty.
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, SemanticElement{
			Type:    ElementImage,
			Content: s.AttrOr("alt", ""),
			Classes: classTokens(s),
			Styles:  parseInlineStyles(s.AttrOr("style", "")),
		})
	})

	return elements
}

func classTokens(s *goquery.Selection) []string {
	return strings.Fields(s.AttrOr("class", ""))
}

// parseInlineStyles parses a style attribute into a property-value map.
// Declarations are split on ";", each on the first ":"; declarations missing
// a non-empty property or value are dropped. Returns nil when nothing valid
// remains, so the field is absent rather than an empty map.
func parseInlineStyles(styleAttr string) map[string]string {
	if styleAttr == "" {
		return nil
	}

	styles := make(map[string]string)
	for _, decl := range strings.Split(styleAttr, ";") {
		property, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		property = strings.TrimSpace(property)
		value = strings.TrimSpace(value)
		if property != "" && value != "" {
			styles[property] = value
		}
	}

	if len(styles) == 0 {
		return nil
	}
	return styles
}
