package entities

import (
	"time"
)

// EmbeddingDim is the fixed dimensionality of question embeddings
const EmbeddingDim = 1536

// Classification tags a cached answer by topic
type Classification string

const (
	ClassificationHappyHour Classification = "happy_hour"
	ClassificationEvent     Classification = "event"
	ClassificationBrunch    Classification = "brunch"
	ClassificationDinner    Classification = "dinner"
	ClassificationNightlife Classification = "nightlife"
	ClassificationOutdoor   Classification = "outdoor"
	ClassificationGeneral   Classification = "general"
)

// AnswerCacheEntry is a stored question/answer pair keyed by embedding
// similarity. Only HitCount and LastUsedAt change after creation.
type AnswerCacheEntry struct {
	ID                 string         `json:"id" db:"id"`
	Question           string         `json:"question" db:"question"`
	Embedding          []float32      `json:"-" db:"-"`
	Answer             string         `json:"answer" db:"answer"`
	Classification     Classification `json:"classification" db:"classification"`
	ReferencedVenueIDs []string       `json:"referenced_venue_ids,omitempty" db:"-"`
	HitCount           int            `json:"hit_count" db:"hit_count"`
	LastUsedAt         time.Time      `json:"last_used_at" db:"last_used_at"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
}
