package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
	"github.com/zatekoja/citypulse-concierge/internal/domain/repositories"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/observability"
)

// classificationRule tags an answer by keyword; first matching rule wins
type classificationRule struct {
	keywords []string
	tag      entities.Classification
}

var classificationRules = []classificationRule{
	{[]string{"happy hour"}, entities.ClassificationHappyHour},
	{[]string{"event", "live music", "show", "trivia", "karaoke"}, entities.ClassificationEvent},
	{[]string{"brunch", "mimosa"}, entities.ClassificationBrunch},
	{[]string{"dinner"}, entities.ClassificationDinner},
	{[]string{"bar", "cocktail", "nightlife", "club"}, entities.ClassificationNightlife},
	{[]string{"patio", "outdoor", "rooftop"}, entities.ClassificationOutdoor},
}

// CachePolicyService decides whether a question may be served from the
// semantic cache and owns hit accounting and new-entry writes.
type CachePolicyService struct {
	repo      repositories.AnswerCacheRepository
	intents   *IntentService
	threshold float64
	metrics   *observability.Metrics
}

// NewCachePolicyService creates a new cache policy service. The similarity
// threshold is deployment configuration, not a constant.
func NewCachePolicyService(repo repositories.AnswerCacheRepository, intents *IntentService, threshold float64, metrics *observability.Metrics) *CachePolicyService {
	return &CachePolicyService{
		repo:      repo,
		intents:   intents,
		threshold: threshold,
		metrics:   metrics,
	}
}

// Decide returns true when the question must bypass the cache. A stale
// answer to "what's happening tonight?" is worse than a recomputed one.
func (s *CachePolicyService) Decide(ctx context.Context, question string) bool {
	if !s.intents.IsTimeSensitive(question) {
		return false
	}
	if s.metrics != nil {
		s.metrics.CacheBypassCount.Add(ctx, 1)
	}
	return true
}

// Lookup returns the stored entry nearest the embedding when its similarity
// clears the threshold, updating hit metadata. A touch failure is logged but
// does not void the hit; the counter is telemetry.
func (s *CachePolicyService) Lookup(ctx context.Context, embedding []float32) *entities.AnswerCacheEntry {
	logger := observability.LoggerFromContext(ctx)

	entry, similarity, err := s.repo.FindNearest(ctx, embedding, s.threshold)
	if err != nil {
		logger.Error().Err(err).Msg("semantic cache lookup failed")
		return nil
	}
	if entry == nil {
		if s.metrics != nil {
			s.metrics.CacheMissCount.Add(ctx, 1)
		}
		return nil
	}

	if err := s.repo.Touch(ctx, entry.ID); err != nil {
		logger.Warn().Err(err).Str("entry_id", entry.ID).Msg("failed to update cache hit metadata")
	}
	if s.metrics != nil {
		s.metrics.CacheHitCount.Add(ctx, 1)
	}
	logger.Debug().
		Str("entry_id", entry.ID).
		Float64("similarity", similarity).
		Msg("semantic cache hit")
	return entry
}

// Store persists a freshly computed answer for future reuse. Time-sensitive
// questions are stored too; the bypass check guards reads, not writes.
func (s *CachePolicyService) Store(ctx context.Context, question string, embedding []float32, answer string) error {
	now := time.Now().UTC()
	entry := &entities.AnswerCacheEntry{
		ID:                 uuid.New().String(),
		Question:           question,
		Embedding:          embedding,
		Answer:             answer,
		Classification:     Classify(answer),
		ReferencedVenueIDs: ExtractReferencedVenues(answer),
		HitCount:           1,
		LastUsedAt:         now,
		CreatedAt:          now,
	}
	return s.repo.Insert(ctx, entry)
}

// Classify tags an answer by rule-based keyword matching
func Classify(answer string) entities.Classification {
	text := strings.ToLower(answer)
	for _, rule := range classificationRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return rule.tag
			}
		}
	}
	return entities.ClassificationGeneral
}

// ExtractReferencedVenues is the extension point for reference-based cache
// invalidation. It deliberately returns no references today; nothing
// downstream may assume answers are linked to venue rows yet.
func ExtractReferencedVenues(answer string) []string {
	return []string{}
}
