package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/llms"
)

// DefaultOpenAIModel is the model used when none is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIModel is an OpenAI chat-completion adapter with native structured
// output: when a schema is attached the request is sent with a strict
// json_schema response format, so the provider itself enforces the shape.
type OpenAIModel struct {
	client *goopenai.Client
	model  string

	schemaName string
	schema     *jsonschema.Schema
}

var _ llms.Model = (*OpenAIModel)(nil)
var _ SchemaModel = (*OpenAIModel)(nil)

// NewOpenAI creates an OpenAI-backed model. The API key is taken from
// OPENAI_API_KEY when apiKey is empty; a missing key is an error before any
// request is attempted.
func NewOpenAI(apiKey, model string) (*OpenAIModel, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIModel{
		client: goopenai.NewClient(apiKey),
		model:  model,
	}, nil
}

// WithSchema returns a copy of the model that requests responses conforming
// to the given JSON schema.
func (m *OpenAIModel) WithSchema(name string, schema *jsonschema.Schema) llms.Model {
	clone := *m
	clone.schemaName = name
	clone.schema = schema
	return &clone
}

// Call generates a response for a single prompt.
func (m *OpenAIModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// GenerateContent implements the llms.Model interface.
func (m *OpenAIModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := &llms.CallOptions{}
	for _, opt := range options {
		opt(opts)
	}

	model := m.model
	if opts.Model != "" {
		model = opts.Model
	}

	req := goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    toOpenAIMessages(messages),
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
	}

	switch {
	case m.schema != nil:
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
				Name:   m.schemaName,
				Schema: schemaMarshaler{strictSchema(m.schema)},
				Strict: true,
			},
		}
	case opts.JSONMode:
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	result, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content:    result.Choices[0].Message.Content,
				StopReason: string(result.Choices[0].FinishReason),
			},
		},
	}
	if result.Usage.TotalTokens > 0 {
		resp.Choices[0].GenerationInfo = map[string]any{
			"prompt_tokens":     result.Usage.PromptTokens,
			"completion_tokens": result.Usage.CompletionTokens,
			"total_tokens":      result.Usage.TotalTokens,
		}
	}
	return resp, nil
}

func toOpenAIMessages(messages []llms.MessageContent) []goopenai.ChatCompletionMessage {
	converted := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		role := goopenai.ChatMessageRoleUser
		switch msg.Role {
		case llms.ChatMessageTypeSystem:
			role = goopenai.ChatMessageRoleSystem
		case llms.ChatMessageTypeAI:
			role = goopenai.ChatMessageRoleAssistant
		case llms.ChatMessageTypeHuman, llms.ChatMessageTypeGeneric:
			role = goopenai.ChatMessageRoleUser
		}

		var content strings.Builder
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				content.WriteString(text.Text)
			}
		}

		converted = append(converted, goopenai.ChatCompletionMessage{
			Role:    role,
			Content: content.String(),
		})
	}
	return converted
}

// strictSchema rewrites a schema to satisfy the strict structured-output
// rules: every declared object property must appear in "required", so
// properties that were optional are kept required but accept null instead.
// The input schema is not modified.
func strictSchema(s *jsonschema.Schema) *jsonschema.Schema {
	if s == nil {
		return nil
	}
	clone := *s

	if s.Items != nil {
		clone.Items = strictSchema(s.Items)
	}
	if len(s.Properties) == 0 {
		return &clone
	}

	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	names := make([]string, 0, len(s.Properties))
	props := make(map[string]*jsonschema.Schema, len(s.Properties))
	for name, prop := range s.Properties {
		names = append(names, name)
		prop = strictSchema(prop)
		if !required[name] {
			prop = nullable(prop)
		}
		props[name] = prop
	}
	sort.Strings(names)

	clone.Properties = props
	clone.Required = names
	return &clone
}

// nullable returns a copy of s that also admits JSON null.
func nullable(s *jsonschema.Schema) *jsonschema.Schema {
	clone := *s
	switch {
	case clone.Type != "":
		clone.Types = []string{clone.Type, "null"}
		clone.Type = ""
	case len(clone.Types) > 0:
		for _, t := range clone.Types {
			if t == "null" {
				return &clone
			}
		}
		clone.Types = append(append([]string(nil), clone.Types...), "null")
	}
	return &clone
}

// schemaMarshaler adapts a jsonschema.Schema to the json.Marshaler the
// OpenAI response format expects.
type schemaMarshaler struct {
	schema *jsonschema.Schema
}

func (s schemaMarshaler) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.schema)
}
