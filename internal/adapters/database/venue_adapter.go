package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
	"github.com/zatekoja/citypulse-concierge/internal/domain/repositories"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/citypulse-concierge/pkg/errors"
)

var venueColumns = []interface{}{
	"id", "market", "name", "neighborhood", "address", "phone_number", "website",
	"cuisine", "price_range", "rating", "tags", "vibe_tags", "signature_items",
	"hours", "is_active", "created_at", "updated_at",
}

// VenueAdapter implements VenueRepository against Postgres
type VenueAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewVenueAdapter creates a new venue adapter
func NewVenueAdapter(client *postgres.Client) repositories.VenueRepository {
	return &VenueAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// List returns active venues for a market ordered by rating
func (a *VenueAdapter) List(ctx context.Context, market string, limit int) ([]*entities.Venue, error) {
	query, args, err := a.db.Select(venueColumns...).
		From("venues").
		Where(goqu.Ex{"market": market, "is_active": true}).
		Order(goqu.C("rating").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build venue list query", err)
	}
	return a.queryVenues(ctx, query, args)
}

// SearchByName returns venues whose name contains the phrase
func (a *VenueAdapter) SearchByName(ctx context.Context, market, phrase string, limit int) ([]*entities.Venue, error) {
	if phrase == "" {
		return []*entities.Venue{}, nil
	}

	query, args, err := a.db.Select(venueColumns...).
		From("venues").
		Where(
			goqu.Ex{"market": market, "is_active": true},
			goqu.C("name").ILike("%"+phrase+"%"),
		).
		Order(goqu.C("rating").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build venue search query", err)
	}
	return a.queryVenues(ctx, query, args)
}

// ListByTag returns venues carrying a categorical tag
func (a *VenueAdapter) ListByTag(ctx context.Context, market, tag string, limit int) ([]*entities.Venue, error) {
	query, args, err := a.db.Select(venueColumns...).
		From("venues").
		Where(
			goqu.Ex{"market": market, "is_active": true},
			goqu.L("? = ANY(tags)", tag),
		).
		Order(goqu.C("rating").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build venue tag query", err)
	}
	return a.queryVenues(ctx, query, args)
}

// GetByIDs returns the venues for a set of ids. Unknown ids are skipped, so
// the result may be shorter than the input.
func (a *VenueAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Venue, error) {
	if len(ids) == 0 {
		return []*entities.Venue{}, nil
	}

	query, args, err := a.db.Select(venueColumns...).
		From("venues").
		Where(goqu.C("id").In(ids)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build venue id query", err)
	}
	return a.queryVenues(ctx, query, args)
}

func (a *VenueAdapter) queryVenues(ctx context.Context, query string, args []interface{}) ([]*entities.Venue, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query venues", err)
	}
	defer rows.Close()

	var venues []*entities.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, venue)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate venues", err)
	}
	if venues == nil {
		venues = []*entities.Venue{}
	}
	return venues, nil
}

func scanVenue(rows *sql.Rows) (*entities.Venue, error) {
	venue := &entities.Venue{}
	var neighborhood, phone, website, cuisine, priceRange sql.NullString
	var hoursRaw []byte

	err := rows.Scan(
		&venue.ID,
		&venue.Market,
		&venue.Name,
		&neighborhood,
		&venue.Address,
		&phone,
		&website,
		&cuisine,
		&priceRange,
		&venue.Rating,
		pq.Array(&venue.Tags),
		pq.Array(&venue.VibeTags),
		pq.Array(&venue.SignatureItems),
		&hoursRaw,
		&venue.IsActive,
		&venue.CreatedAt,
		&venue.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan venue", err)
	}

	venue.Neighborhood = neighborhood.String
	venue.PhoneNumber = phone.String
	venue.Website = website.String
	venue.Cuisine = cuisine.String
	venue.PriceRange = priceRange.String

	if len(hoursRaw) > 0 {
		if err := json.Unmarshal(hoursRaw, &venue.Hours); err != nil {
			return nil, apperrors.NewInternalError("failed to decode venue hours", err)
		}
	}
	return venue, nil
}
