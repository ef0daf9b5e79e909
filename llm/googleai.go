package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// NewGoogleAI creates a Gemini-backed model. The API key is taken from
// GEMINI_API_KEY when apiKey is empty; a missing key is an error before any
// request is attempted.
func NewGoogleAI(ctx context.Context, apiKey, model string) (llms.Model, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	return googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
}
