// Package llm wraps hosted language models behind a structured generation
// contract: "generate a value conforming to schema S from prompt P".
//
// The Client is explicitly constructed and passed around - there is no
// package-level model singleton - so callers can inject a stub model in
// tests. Schema-validated generation is provided by GenerateStructured,
// which guarantees the returned value round-trips through JSON-schema
// validation before the caller sees it.
package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// Defaults favor consistent-but-varied output on marketing-style prompts.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 8192
)

// Config holds the generation parameters applied to every call.
type Config struct {
	// Model identifier; empty uses the provider's default.
	Model string

	// Temperature for sampling; nil uses DefaultTemperature. An explicit
	// zero requests deterministic sampling and is honored.
	Temperature *float64

	// MaxTokens bounds the output; nil uses DefaultMaxTokens.
	MaxTokens *int
}

func (c Config) withDefaults() Config {
	if c.Temperature == nil {
		t := DefaultTemperature
		c.Temperature = &t
	}
	if c.MaxTokens == nil {
		n := DefaultMaxTokens
		c.MaxTokens = &n
	}
	return c
}

// Client issues generation calls against a model. The configuration is
// read-only after construction, so a Client is safe for concurrent use.
type Client struct {
	model llms.Model
	cfg   Config
}

// NewClient creates a Client around any langchaingo-compatible model.
func NewClient(model llms.Model, cfg Config) *Client {
	return &Client{model: model, cfg: cfg.withDefaults()}
}

// Model exposes the underlying model, mainly for adapters and tests.
func (c *Client) Model() llms.Model { return c.model }

func (c *Client) callOptions(extra ...llms.CallOption) []llms.CallOption {
	opts := []llms.CallOption{
		llms.WithTemperature(*c.cfg.Temperature),
		llms.WithMaxTokens(*c.cfg.MaxTokens),
	}
	if c.cfg.Model != "" {
		opts = append(opts, llms.WithModel(c.cfg.Model))
	}
	return append(opts, extra...)
}

// Generate issues one free-text generation call for the given messages.
// Exactly one outbound call per invocation; failures are returned as
// *GenerationError with no retry.
func (c *Client) Generate(ctx context.Context, messages []llms.MessageContent) (string, error) {
	return c.generate(ctx, c.model, messages)
}

func (c *Client) generate(ctx context.Context, model llms.Model, messages []llms.MessageContent, extra ...llms.CallOption) (string, error) {
	resp, err := model.GenerateContent(ctx, messages, c.callOptions(extra...)...)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Err: fmt.Errorf("empty response")}
	}
	return resp.Choices[0].Content, nil
}

// GeneratePrompt is a single-prompt convenience over Generate.
func (c *Client) GeneratePrompt(ctx context.Context, prompt string) (string, error) {
	return c.Generate(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	})
}
