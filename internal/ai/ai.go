package ai

import "context"

// Generator is the text-generation oracle contract. Every call is blocking
// and single-shot; callers own their fallback behavior when a call fails.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
