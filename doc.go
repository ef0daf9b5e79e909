// PersonaForge - Turn a URL into Marketable User Personas
//
// PersonaForge scrapes a target website, derives a product profile from the
// scraped content, builds an ideal customer profile on top of it, and finally
// generates a set of synthetic user personas - all through schema-validated
// LLM calls. Results can be persisted in a capped report history, exported as
// markdown or sanitized HTML, and explored through a chat-with-persona mode.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/personaforge
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"os"
//
//		"github.com/smallnest/personaforge/llm"
//		"github.com/smallnest/personaforge/persona"
//		"github.com/smallnest/personaforge/scraper"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		// Scrape the target page
//		sc := scraper.New(nil)
//		content, err := sc.Scrape(ctx, "https://example.com")
//		if err != nil {
//			panic(err)
//		}
//
//		// Build the generation client
//		model, err := llm.NewGoogleAI(ctx, os.Getenv("GEMINI_API_KEY"), "gemini-2.5-flash")
//		if err != nil {
//			panic(err)
//		}
//		client := llm.NewClient(model, llm.Config{})
//
//		// Run the three-stage pipeline
//		pipeline := persona.NewPipeline(client)
//		result, err := pipeline.Run(ctx, content.PromptText(), 3)
//		if err != nil {
//			panic(err)
//		}
//
//		for _, p := range result.Personas {
//			fmt.Println(p.Name, "-", p.Demographic)
//		}
//	}
//
// # Packages
//
//   - scraper: single-page fetcher and markup extractor (semantic elements,
//     visual summary, plain text)
//   - llm: structured generation client over hosted models with JSON-schema
//     validated output
//   - graph: minimal sequential state graph with listeners, driving the pipeline
//   - persona: data model, prompts, the profile pipeline, and persona chat
//   - store: capped report history with memory, SQLite, Redis and Postgres
//     backends
//   - export: markdown and sanitized HTML report export
//   - server: HTTP API with SSE progress streaming
//   - config: YAML + environment configuration
//   - log: leveled logging with an optional golog backend
package personaforge
