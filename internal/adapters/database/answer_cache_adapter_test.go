package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/clients/postgres"
)

func newCacheAdapter(t *testing.T) (*AnswerCacheAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	adapter := NewAnswerCacheAdapter(postgres.NewClientWithDB(db)).(*AnswerCacheAdapter)
	return adapter, mock
}

func testEmbedding() []float32 {
	vec := make([]float32, entities.EmbeddingDim)
	vec[0] = 1
	return vec
}

func TestFindNearest_ReturnsBestMatch(t *testing.T) {
	adapter, mock := newCacheAdapter(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "question", "answer", "classification", "referenced_venue_ids",
		"hit_count", "last_used_at", "created_at", "similarity",
	}).AddRow(
		"entry-1", "best pizza place", "Try Via 313.", "dinner",
		"{}", 3, now, now, 0.94,
	)

	mock.ExpectQuery("FROM answer_cache").WillReturnRows(rows)

	entry, similarity, err := adapter.FindNearest(context.Background(), testEmbedding(), 0.90)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "entry-1", entry.ID)
	assert.Equal(t, "Try Via 313.", entry.Answer)
	assert.Equal(t, entities.ClassificationDinner, entry.Classification)
	assert.Equal(t, 3, entry.HitCount)
	assert.InDelta(t, 0.94, similarity, 1e-9)
}

func TestFindNearest_NoMatchBelowThreshold(t *testing.T) {
	adapter, mock := newCacheAdapter(t)

	mock.ExpectQuery("FROM answer_cache").WillReturnRows(sqlmock.NewRows([]string{
		"id", "question", "answer", "classification", "referenced_venue_ids",
		"hit_count", "last_used_at", "created_at", "similarity",
	}))

	entry, similarity, err := adapter.FindNearest(context.Background(), testEmbedding(), 0.92)
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Zero(t, similarity)
}

func TestTouch_IncrementsHitMetadata(t *testing.T) {
	adapter, mock := newCacheAdapter(t)

	mock.ExpectExec("UPDATE answer_cache").
		WithArgs("entry-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.Touch(context.Background(), "entry-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTouch_MissingEntryIsNotFound(t *testing.T) {
	adapter, mock := newCacheAdapter(t)

	mock.ExpectExec("UPDATE answer_cache").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.Touch(context.Background(), "missing")
	assert.Error(t, err)
}

func TestInsert_PersistsEntry(t *testing.T) {
	adapter, mock := newCacheAdapter(t)
	now := time.Now()

	mock.ExpectExec("INSERT INTO \"answer_cache\"").
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &entities.AnswerCacheEntry{
		ID:             "entry-2",
		Question:       "where can i get great pizza",
		Embedding:      testEmbedding(),
		Answer:         "Try Via 313.",
		Classification: entities.ClassificationDinner,
		HitCount:       1,
		LastUsedAt:     now,
		CreatedAt:      now,
	}
	err := adapter.Insert(context.Background(), entry)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
