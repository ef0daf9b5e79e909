package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/tmc/langchaingo/llms"
)

// SchemaModel is implemented by models that natively enforce a JSON schema
// on the response (e.g. the strict OpenAI adapter). Models without native
// support fall back to JSON mode plus post-hoc validation.
type SchemaModel interface {
	WithSchema(name string, schema *jsonschema.Schema) llms.Model
}

// GenerateStructured issues one generation call and decodes the response
// into T, validating it against the JSON schema derived from T. A response
// that cannot be coerced into the schema yields a *ValidationError; a failed
// call yields a *GenerationError. The value handed back is guaranteed to
// have passed schema validation.
func GenerateStructured[T any](ctx context.Context, c *Client, prompt string) (T, error) {
	var zero T

	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return zero, &ValidationError{Err: err}
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return zero, &ValidationError{Err: err}
	}

	model := c.model
	var extra []llms.CallOption
	if sm, ok := model.(SchemaModel); ok {
		model = sm.WithSchema(schemaName(schema), schema)
	} else {
		extra = append(extra, llms.WithJSONMode())
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	raw, err := c.generate(ctx, model, messages, extra...)
	if err != nil {
		return zero, err
	}

	cleaned := stripCodeFences(raw)

	// Validate the untyped decode against the schema, then decode into T.
	var instance any
	if err := json.Unmarshal([]byte(cleaned), &instance); err != nil {
		return zero, &ValidationError{Raw: cleaned, Err: err}
	}
	if err := resolved.Validate(instance); err != nil {
		return zero, &ValidationError{Raw: cleaned, Err: err}
	}

	var value T
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		return zero, &ValidationError{Raw: cleaned, Err: err}
	}
	return value, nil
}

func schemaName(s *jsonschema.Schema) string {
	if s.Title != "" {
		return s.Title
	}
	return "response"
}

// stripCodeFences removes a surrounding markdown code fence, which models
// emit around JSON even when asked not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
