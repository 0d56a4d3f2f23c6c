package providers

import (
	"context"
)

// CompletionProvider generates an answer from a system prompt and user
// content. An empty string return is legal; callers decide the fallback.
type CompletionProvider interface {
	Complete(ctx context.Context, systemPrompt, userContent string) (string, error)
}
