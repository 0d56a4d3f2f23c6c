package providers

import (
	"context"
)

// EmbeddingProvider turns text into a fixed-dimension vector
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
