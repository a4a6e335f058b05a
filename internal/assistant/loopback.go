package assistant

import (
	"context"
	"fmt"
)

// LoopbackProvider echoes the rendered prompt back without calling any
// external API. It stands in when no provider key is configured, so the
// debit path stays exercisable in development.
type LoopbackProvider struct{}

// NewLoopback creates a loopback provider.
func NewLoopback() *LoopbackProvider { return &LoopbackProvider{} }

// Name returns the provider name.
func (p *LoopbackProvider) Name() string { return "loopback" }

// Complete returns the input annotated with the system prompt.
func (p *LoopbackProvider) Complete(_ context.Context, systemPrompt, input string) (string, error) {
	return fmt.Sprintf("[loopback] %s | %s", systemPrompt, input), nil
}

// GenerateImage returns a placeholder URL echoing the prompt.
func (p *LoopbackProvider) GenerateImage(_ context.Context, prompt string) (string, string, error) {
	return fmt.Sprintf("https://loopback.invalid/images/%d.png", len(prompt)), prompt, nil
}
