package scraper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticElements_Headings(t *testing.T) {
	t.Parallel()

	elements := SemanticElements(`<html><body><h3 class="title big">Foo</h3></body></html>`)
	require.Len(t, elements, 1)

	el := elements[0]
	assert.Equal(t, ElementHeading, el.Type)
	assert.Equal(t, "Foo", el.Content)
	assert.Equal(t, 3, el.Level)
	assert.Equal(t, []string{"title", "big"}, el.Classes)
	assert.Nil(t, el.Styles)
}

func TestSemanticElements_PassOrderNotDocumentOrder(t *testing.T) {
	t.Parallel()

	// The paragraph precedes the heading in the document, but heading
	// extraction runs first, so headings come first in the output.
	markup := `<body><p>intro</p><h1>Title</h1><a href="/x">more</a></body>`
	elements := SemanticElements(markup)
	require.Len(t, elements, 3)
	assert.Equal(t, ElementHeading, elements[0].Type)
	assert.Equal(t, ElementParagraph, elements[1].Type)
	assert.Equal(t, ElementLink, elements[2].Type)
}

func TestSemanticElements_EmptyContentDropped(t *testing.T) {
	t.Parallel()

	markup := `<body>
		<p>   </p>
		<p>kept</p>
		<a href="/x"> </a>
		<ul></ul>
		<button></button>
		<img src="a.png">
	</body>`
	elements := SemanticElements(markup)
	require.Len(t, elements, 2)
	assert.Equal(t, ElementParagraph, elements[0].Type)
	assert.Equal(t, "kept", elements[0].Content)

	// Images are always kept, even with an empty alt.
	assert.Equal(t, ElementImage, elements[1].Type)
	assert.Equal(t, "", elements[1].Content)

	for _, el := range elements {
		if el.Type != ElementImage {
			assert.NotEmpty(t, el.Content)
		}
	}
}

func TestSemanticElements_ButtonValueFallback(t *testing.T) {
	t.Parallel()

	markup := `<body>
		<button class="cta">Sign up</button>
		<input type="submit" value="Send">
		<input type="button" value="">
	</body>`
	elements := SemanticElements(markup)
	require.Len(t, elements, 2)
	assert.Equal(t, "Sign up", elements[0].Content)
	assert.Equal(t, []string{"cta"}, elements[0].Classes)
	assert.Equal(t, "Send", elements[1].Content)
}

func TestSemanticElements_ImageAltText(t *testing.T) {
	t.Parallel()

	elements := SemanticElements(`<body><img src="hero.png" alt="Hero shot" class="hero"></body>`)
	require.Len(t, elements, 1)
	assert.Equal(t, ElementImage, elements[0].Type)
	assert.Equal(t, "Hero shot", elements[0].Content)
}

func TestParseInlineStyles(t *testing.T) {
	t.Parallel()

	styles := parseInlineStyles("color: red; margin:0 auto ; broken; :nope; empty:")
	assert.Equal(t, map[string]string{
		"color":  "red",
		"margin": "0 auto",
	}, styles)

	// Nothing valid left: the map must be absent, not empty.
	assert.Nil(t, parseInlineStyles(""))
	assert.Nil(t, parseInlineStyles(";;;"))
	assert.Nil(t, parseInlineStyles("broken"))
}

func TestSemanticElements_InlineStyles(t *testing.T) {
	t.Parallel()

	elements := SemanticElements(`<body><p style="color: blue; font-weight: bold">hi</p></body>`)
	require.Len(t, elements, 1)
	assert.Equal(t, map[string]string{
		"color":       "blue",
		"font-weight": "bold",
	}, elements[0].Styles)
}

func TestSemanticElements_StylesOmittedFromJSONWhenAbsent(t *testing.T) {
	t.Parallel()

	elements := SemanticElements(`<body><p>plain</p></body>`)
	require.Len(t, elements, 1)

	data, err := json.Marshal(elements[0])
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"styles"`)
}

func TestSemanticElements_MalformedMarkup(t *testing.T) {
	t.Parallel()

	// The parser is lenient; garbage degrades, it does not error.
	elements := SemanticElements(`<h2>ok</h2><p>unclosed<div><<<`)
	require.NotEmpty(t, elements)
	assert.Equal(t, "ok", elements[0].Content)
	assert.Equal(t, 2, elements[0].Level)
}

func TestTextContent(t *testing.T) {
	t.Parallel()

	markup := `<html><head>
		<title>Test Page</title>
		<script>console.log('test');</script>
		<style>body { color: blue; }</style>
	</head><body>
		<h1>Test Content</h1>
		<p>This is a test paragraph.</p>
		<noscript>enable javascript</noscript>
		<script>alert('test');</script>
	</body></html>`

	text := TextContent(markup)
	assert.Contains(t, text, "Test Content")
	assert.Contains(t, text, "This is a test paragraph.")
	assert.NotContains(t, text, "console.log")
	assert.NotContains(t, text, "color: blue")
	assert.NotContains(t, text, "enable javascript")

	// Lines are trimmed and blank lines dropped.
	for _, line := range []string{"", " "} {
		assert.NotContains(t, splitLines(text), line)
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

func TestExtract_Idempotent(t *testing.T) {
	t.Parallel()

	markup := `<html><head><title>Idem</title><style>h1 { color: #333; }</style></head>
	<body><h1 style="color:red">A</h1><p>B</p><img alt="C"></body></html>`

	first := Extract("https://example.com", markup)
	second := Extract("https://example.com", markup)

	assert.Equal(t, first.SemanticElements, second.SemanticElements)
	assert.Equal(t, first.VisualInfo, second.VisualInfo)
	assert.Equal(t, first.TextContent, second.TextContent)
	assert.Equal(t, first.Title, second.Title)
}

func TestExtract_TitleFallback(t *testing.T) {
	t.Parallel()

	content := Extract("https://example.com", `<body><p>no title here</p></body>`)
	assert.Equal(t, DefaultTitle, content.Title)

	content = Extract("https://example.com", `<head><title>Real Title</title></head><body></body>`)
	assert.Equal(t, "Real Title", content.Title)
}

func TestExtract_TextContentCapped(t *testing.T) {
	t.Parallel()

	long := make([]byte, 0, 40000)
	for i := 0; i < 4000; i++ {
		long = append(long, []byte("tenchars!x")...)
	}
	content := Extract("https://example.com", "<body><p>"+string(long)+"</p></body>")
	assert.LessOrEqual(t, len([]rune(content.TextContent)), MaxTextContent)
	assert.Equal(t, MaxTextContent, len([]rune(content.TextContent)))
}

func TestExtract_Metadata(t *testing.T) {
	t.Parallel()

	content := Extract("https://example.com", `<body><h1>A</h1><p>B</p></body>`)
	assert.Equal(t, 2, content.Metadata.ElementCount)
	assert.False(t, content.Metadata.ScrapedAt.IsZero())
}
