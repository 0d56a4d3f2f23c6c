package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
	"github.com/zatekoja/citypulse-concierge/internal/domain/repositories"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/citypulse-concierge/pkg/errors"
)

// AnswerCacheAdapter implements AnswerCacheRepository on a pgvector-backed
// table. Entries are never deleted here; eviction would be a separate policy.
type AnswerCacheAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAnswerCacheAdapter creates a new answer cache adapter
func NewAnswerCacheAdapter(client *postgres.Client) repositories.AnswerCacheRepository {
	return &AnswerCacheAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// FindNearest returns the closest entry at or above the cosine similarity
// threshold, or nil when nothing qualifies.
func (a *AnswerCacheAdapter) FindNearest(ctx context.Context, embedding []float32, threshold float64) (*entities.AnswerCacheEntry, float64, error) {
	query := `
		SELECT
			id, question, answer, classification, referenced_venue_ids,
			hit_count, last_used_at, created_at,
			1 - (embedding <=> $1) AS similarity
		FROM answer_cache
		WHERE 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1
		LIMIT 1
	`

	entry := &entities.AnswerCacheEntry{}
	var similarity float64
	err := a.client.DB().QueryRowContext(ctx, query, pgvector.NewVector(embedding), threshold).Scan(
		&entry.ID,
		&entry.Question,
		&entry.Answer,
		&entry.Classification,
		pq.Array(&entry.ReferencedVenueIDs),
		&entry.HitCount,
		&entry.LastUsedAt,
		&entry.CreatedAt,
		&similarity,
	)
	if err == sql.ErrNoRows {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to query answer cache", err)
	}

	return entry, similarity, nil
}

// Insert persists a new cache entry
func (a *AnswerCacheAdapter) Insert(ctx context.Context, entry *entities.AnswerCacheEntry) error {
	record := goqu.Record{
		"id":                   entry.ID,
		"question":             entry.Question,
		"embedding":            pgvector.NewVector(entry.Embedding),
		"answer":               entry.Answer,
		"classification":       string(entry.Classification),
		"referenced_venue_ids": pq.Array(entry.ReferencedVenueIDs),
		"hit_count":            entry.HitCount,
		"last_used_at":         entry.LastUsedAt,
		"created_at":           entry.CreatedAt,
	}

	query, args, err := a.db.Insert("answer_cache").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build cache insert query", err)
	}

	if _, err = a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to insert cache entry", err)
	}
	return nil
}

// Touch increments hit_count and stamps last_used_at. Last-writer-wins on
// the timestamp is acceptable; the counter is telemetry.
func (a *AnswerCacheAdapter) Touch(ctx context.Context, id string) error {
	query := `
		UPDATE answer_cache
		SET hit_count = hit_count + 1, last_used_at = NOW()
		WHERE id = $1
	`
	result, err := a.client.DB().ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.NewInternalError("failed to touch cache entry", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError("cache entry not found: " + id)
	}
	return nil
}
