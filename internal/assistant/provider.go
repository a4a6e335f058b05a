package assistant

import "context"

// Provider turns a system prompt plus user input into generated text.
// Implementations do exactly one outbound HTTP call with a bounded
// timeout; no streaming, no retries.
type Provider interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, input string) (string, error)
}

// ImageGenerator turns a text prompt into a hosted image URL plus the
// revised prompt the model actually rendered.
type ImageGenerator interface {
	Name() string
	GenerateImage(ctx context.Context, prompt string) (url, revisedPrompt string, err error)
}
