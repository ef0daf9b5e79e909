package scraper

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisualInfo_InlineStyles(t *testing.T) {
	t.Parallel()

	markup := `<body>
		<div style="color: red; background-color: #fff; font-family: Inter, sans-serif">a</div>
		<div style="margin: 8px; padding: 4px 8px; border: 1px solid red; border-radius: 6px">b</div>
	</body>`

	info := VisualInfo(markup)
	assert.Equal(t, []string{"red", "#fff"}, info.Colors)
	assert.Equal(t, []string{"Inter, sans-serif"}, info.Fonts)
	assert.Equal(t, []string{"margin: 8px", "padding: 4px 8px"}, info.Spacing)
	assert.Equal(t, []string{"1px solid red", "border-radius: 6px"}, info.BorderStyles)
}

func TestVisualInfo_StyleBlocks(t *testing.T) {
	t.Parallel()

	markup := `<head><style>
		h1 { color: #111; font-family: Georgia; }
		.card { margin: 12px; border: 2px dashed blue; }
	</style></head><body></body>`

	info := VisualInfo(markup)
	assert.Contains(t, info.Colors, "#111")
	assert.Contains(t, info.Fonts, "Georgia")
	assert.Contains(t, info.Spacing, "margin: 12px")
	assert.Contains(t, info.BorderStyles, "border: 2px dashed blue")
}

func TestVisualInfo_InlineScannedBeforeStyleBlocks(t *testing.T) {
	t.Parallel()

	markup := `<head><style>p { color: green; }</style></head>
	<body><p style="color: red">x</p></body>`

	info := VisualInfo(markup)
	assert.Equal(t, []string{"red", "green"}, info.Colors)
}

func TestVisualInfo_DeduplicatedAndCapped(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("<body>")
	for i := 0; i < 30; i++ {
		// Duplicates of the same color must collapse to one entry.
		fmt.Fprintf(&sb, `<span style="color: red">x</span>`)
		fmt.Fprintf(&sb, `<span style="color: rgb(%d, 0, 0)">y</span>`, i)
		fmt.Fprintf(&sb, `<span style="font-family: font%d">z</span>`, i)
		fmt.Fprintf(&sb, `<span style="margin: %dpx">m</span>`, i)
		fmt.Fprintf(&sb, `<span style="border: %dpx solid">b</span>`, i)
	}
	sb.WriteString("</body>")

	info := VisualInfo(sb.String())
	assert.LessOrEqual(t, len(info.Colors), 20)
	assert.LessOrEqual(t, len(info.Fonts), 10)
	assert.LessOrEqual(t, len(info.Spacing), 15)
	assert.LessOrEqual(t, len(info.BorderStyles), 10)

	for _, list := range [][]string{info.Colors, info.Fonts, info.Spacing, info.BorderStyles} {
		seen := make(map[string]bool)
		for _, v := range list {
			assert.False(t, seen[v], "duplicate entry %q", v)
			seen[v] = true
		}
	}
}

func TestVisualInfo_EmptyMarkup(t *testing.T) {
	t.Parallel()

	info := VisualInfo("")
	assert.Empty(t, info.Colors)
	assert.Empty(t, info.Fonts)
	assert.Empty(t, info.Spacing)
	assert.Empty(t, info.BorderStyles)
	assert.NotNil(t, info.Colors)
}
