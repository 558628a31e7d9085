// Package ai exposes the text-generation providers used for best-effort
// query extraction. One interface, three backends.
package ai

import "context"

// Provider is a minimal completion contract: one system prompt, one user
// prompt, one text answer.
type Provider interface {
	// ID returns the provider identifier ("openai", "anthropic", "ollama").
	ID() string
	// Complete returns the model's text response.
	Complete(ctx context.Context, system, prompt string) (string, error)
}
