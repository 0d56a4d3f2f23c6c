package repositories

import (
	"context"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
)

// VenueRepository defines read access to the venue directory
type VenueRepository interface {
	// List returns active venues for a market, bounded by limit
	List(ctx context.Context, market string, limit int) ([]*entities.Venue, error)

	// SearchByName returns venues whose name contains the phrase (case-insensitive)
	SearchByName(ctx context.Context, market, phrase string, limit int) ([]*entities.Venue, error)

	// ListByTag returns venues carrying a categorical tag, e.g. "brunch"
	ListByTag(ctx context.Context, market, tag string, limit int) ([]*entities.Venue, error)

	// GetByIDs returns the venues for a set of ids; unknown ids are skipped
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Venue, error)
}
