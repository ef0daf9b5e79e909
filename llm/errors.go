package llm

import "fmt"

// GenerationError reports a failed model call (transport or provider error).
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ValidationError reports a model response that could not be coerced into
// the requested schema. It is deliberately distinct from GenerationError so
// callers can tell a broken call from a malformed answer.
type ValidationError struct {
	// Raw is the model's response text, after code-fence stripping.
	Raw string

	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("response failed schema validation: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
