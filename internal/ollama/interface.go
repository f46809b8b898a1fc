package ollama

import "context"

// Client defines the model-facing interface. Generate returns the model's
// full completion text for a prompt; transport problems come back as errors
// and the caller decides how to degrade.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Verify(ctx context.Context) error
	ModelInfo(ctx context.Context) (map[string]any, error)
}
