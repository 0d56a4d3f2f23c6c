package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
)

func testEmbedding() []float32 {
	vec := make([]float32, entities.EmbeddingDim)
	vec[0] = 1
	return vec
}

func TestCachePolicyService_Decide(t *testing.T) {
	svc := NewCachePolicyService(&mockAnswerCacheRepo{}, testIntentService(t), 0.90, nil)

	assert.True(t, svc.Decide(context.Background(), "what's happening tonight?"))
	assert.True(t, svc.Decide(context.Background(), "any happy hour near me"))
	assert.False(t, svc.Decide(context.Background(), "what's the best pizza place?"))
}

func TestCachePolicyService_Lookup(t *testing.T) {
	t.Run("hit above threshold touches the entry", func(t *testing.T) {
		repo := &mockAnswerCacheRepo{
			nearest: &entities.AnswerCacheEntry{
				ID:       "entry-1",
				Question: "best pizza place?",
				Answer:   "Try Via 313 on the east side.",
				HitCount: 3,
			},
			nearSim: 0.94,
		}
		svc := NewCachePolicyService(repo, testIntentService(t), 0.90, nil)

		entry := svc.Lookup(context.Background(), testEmbedding())
		require.NotNil(t, entry)
		assert.Equal(t, "Try Via 313 on the east side.", entry.Answer)
		assert.Equal(t, []string{"entry-1"}, repo.touched)
		assert.Equal(t, 4, repo.nearest.HitCount, "a hit increments hit_count by exactly one")
	})

	t.Run("nearest below threshold is a miss", func(t *testing.T) {
		repo := &mockAnswerCacheRepo{
			nearest: &entities.AnswerCacheEntry{ID: "entry-1", Answer: "stale"},
			nearSim: 0.85,
		}
		svc := NewCachePolicyService(repo, testIntentService(t), 0.90, nil)

		assert.Nil(t, svc.Lookup(context.Background(), testEmbedding()))
		assert.Empty(t, repo.touched)
	})

	t.Run("threshold is configuration, not a constant", func(t *testing.T) {
		repo := &mockAnswerCacheRepo{
			nearest: &entities.AnswerCacheEntry{ID: "entry-1", Answer: "cached"},
			nearSim: 0.90,
		}

		lenient := NewCachePolicyService(repo, testIntentService(t), 0.88, nil)
		assert.NotNil(t, lenient.Lookup(context.Background(), testEmbedding()))

		strict := NewCachePolicyService(repo, testIntentService(t), 0.92, nil)
		assert.Nil(t, strict.Lookup(context.Background(), testEmbedding()))
	})

	t.Run("lookup error degrades to a miss", func(t *testing.T) {
		repo := &mockAnswerCacheRepo{findErr: errBranchDown}
		svc := NewCachePolicyService(repo, testIntentService(t), 0.90, nil)

		assert.Nil(t, svc.Lookup(context.Background(), testEmbedding()))
	})
}

func TestCachePolicyService_Store(t *testing.T) {
	repo := &mockAnswerCacheRepo{}
	svc := NewCachePolicyService(repo, testIntentService(t), 0.90, nil)

	before := time.Now().UTC()
	err := svc.Store(context.Background(), "where's happy hour?", testEmbedding(), "Happy hour at Whisler's runs 4-7pm.")
	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)

	entry := repo.inserted[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "where's happy hour?", entry.Question)
	assert.Equal(t, entities.ClassificationHappyHour, entry.Classification)
	assert.Equal(t, 1, entry.HitCount)
	assert.Empty(t, entry.ReferencedVenueIDs)
	assert.False(t, entry.CreatedAt.Before(before))
	assert.Equal(t, entry.CreatedAt, entry.LastUsedAt)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		answer string
		want   entities.Classification
	}{
		{"Happy hour at Whisler's runs 4-7pm.", entities.ClassificationHappyHour},
		{"There's live music at the Continental Club tonight.", entities.ClassificationEvent},
		{"Launderette does a great brunch on weekends.", entities.ClassificationBrunch},
		{"Uchi is a solid dinner pick.", entities.ClassificationDinner},
		{"Midnight Cowboy is a reservation-only cocktail spot.", entities.ClassificationNightlife},
		{"The rooftop at The Contemporary has great views.", entities.ClassificationOutdoor},
		{"Via 313 serves Detroit-style pizza.", entities.ClassificationGeneral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.answer), "answer: %s", tt.answer)
	}
}

func TestExtractReferencedVenues_ReturnsEmpty(t *testing.T) {
	refs := ExtractReferencedVenues("Happy hour at Whisler's runs 4-7pm.")
	assert.NotNil(t, refs)
	assert.Empty(t, refs)
}
