package repositories

import (
	"context"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
)

// VoteRepository defines read access to monthly community vote tallies
type VoteRepository interface {
	// TopForMonth returns the most-voted venues for a month key like "2026-08"
	TopForMonth(ctx context.Context, market, month string, limit int) ([]*entities.VoteTally, error)
}
