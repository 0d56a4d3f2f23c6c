package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
	"github.com/zatekoja/citypulse-concierge/internal/domain/providers"
	"github.com/zatekoja/citypulse-concierge/internal/domain/repositories"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/observability"
)

// CachedVenueAdapter wraps a VenueRepository with Redis read-through caching.
// Directory and tag listings are stable enough for short TTLs; name search is
// cached with the shortest window since it is driven by free-text input.
type CachedVenueAdapter struct {
	adapter repositories.VenueRepository
	cache   providers.CacheProvider
}

// NewCachedVenueAdapter creates a new cached venue adapter
func NewCachedVenueAdapter(adapter repositories.VenueRepository, cache providers.CacheProvider) repositories.VenueRepository {
	return &CachedVenueAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	venueListTTL   = 300
	venueTagTTL    = 300
	venueSearchTTL = 120
)

func venueListCacheKey(market string, limit int) string {
	return fmt.Sprintf("venues:list:%s:%d", market, limit)
}

func venueSearchCacheKey(market, phrase string, limit int) string {
	return fmt.Sprintf("venues:search:%s:%s:%d", market, phrase, limit)
}

func venueTagCacheKey(market, tag string, limit int) string {
	return fmt.Sprintf("venues:tag:%s:%s:%d", market, tag, limit)
}

// List returns active venues for a market with caching
func (a *CachedVenueAdapter) List(ctx context.Context, market string, limit int) ([]*entities.Venue, error) {
	return a.through(ctx, venueListCacheKey(market, limit), venueListTTL, func() ([]*entities.Venue, error) {
		return a.adapter.List(ctx, market, limit)
	})
}

// SearchByName returns name matches with caching
func (a *CachedVenueAdapter) SearchByName(ctx context.Context, market, phrase string, limit int) ([]*entities.Venue, error) {
	return a.through(ctx, venueSearchCacheKey(market, phrase, limit), venueSearchTTL, func() ([]*entities.Venue, error) {
		return a.adapter.SearchByName(ctx, market, phrase, limit)
	})
}

// ListByTag returns tag matches with caching
func (a *CachedVenueAdapter) ListByTag(ctx context.Context, market, tag string, limit int) ([]*entities.Venue, error) {
	return a.through(ctx, venueTagCacheKey(market, tag, limit), venueTagTTL, func() ([]*entities.Venue, error) {
		return a.adapter.ListByTag(ctx, market, tag, limit)
	})
}

// GetByIDs passes through uncached; id lookups back cache invalidation and
// must see the primary store.
func (a *CachedVenueAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Venue, error) {
	return a.adapter.GetByIDs(ctx, ids)
}

func (a *CachedVenueAdapter) through(ctx context.Context, key string, ttl int, fetch func() ([]*entities.Venue, error)) ([]*entities.Venue, error) {
	logger := observability.LoggerFromContext(ctx)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var venues []*entities.Venue
		if err := json.Unmarshal(cached, &venues); err == nil {
			return venues, nil
		}
		logger.Warn().Str("key", key).Msg("failed to unmarshal cached venues")
	}

	venues, err := fetch()
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously so the response is never blocked on Redis
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(venues); err == nil {
			if err := a.cache.Set(bgCtx, key, data, ttl); err != nil {
				logger.Warn().Err(err).Str("key", key).Msg("failed to cache venues")
			}
		}
	}()

	return venues, nil
}
