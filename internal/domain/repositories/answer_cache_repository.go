package repositories

import (
	"context"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
)

// AnswerCacheRepository defines the semantic answer cache store. Entries are
// append-only; only hit metadata is ever updated.
type AnswerCacheRepository interface {
	// FindNearest returns the single closest entry whose cosine similarity to
	// the embedding is at least threshold, with the similarity score, or
	// (nil, 0) when nothing qualifies.
	FindNearest(ctx context.Context, embedding []float32, threshold float64) (*entities.AnswerCacheEntry, float64, error)

	// Insert persists a new cache entry
	Insert(ctx context.Context, entry *entities.AnswerCacheEntry) error

	// Touch increments hit_count by one and stamps last_used_at
	Touch(ctx context.Context, id string) error
}
