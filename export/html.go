package export

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"github.com/smallnest/personaforge/persona"
	"github.com/smallnest/personaforge/store"
)

// HTML converts Markdown into sanitized HTML.
func HTML(md string) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	opts := html.RendererOptions{Flags: htmlFlags}
	renderer := html.NewRenderer(opts)
	htmlBytes := markdown.Render(doc, renderer)

	sanitizer := bluemonday.UGCPolicy()
	return sanitizer.SanitizeBytes(htmlBytes)
}

// PersonaHTML renders a single persona as sanitized HTML.
func PersonaHTML(p persona.UserPersona) []byte {
	return HTML(PersonaMarkdown(p))
}

// ReportHTML renders a full report entry as sanitized HTML.
func ReportHTML(entry *store.ReportEntry) []byte {
	return HTML(ReportMarkdown(entry))
}
