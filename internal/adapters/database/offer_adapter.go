package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
	"github.com/zatekoja/citypulse-concierge/internal/domain/repositories"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/citypulse-concierge/pkg/errors"
)

var offerColumns = []interface{}{
	goqu.I("o.id"), goqu.I("o.venue_id"), goqu.I("v.name"), goqu.I("o.market"),
	goqu.I("o.kind"), goqu.I("o.title"), goqu.I("o.description"),
	goqu.I("o.weekdays"), goqu.I("o.start_date"), goqu.I("o.end_date"),
	goqu.I("o.start_time"), goqu.I("o.end_time"), goqu.I("o.deal_text"),
}

// OfferAdapter implements OfferRepository against Postgres
type OfferAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewOfferAdapter creates a new offer adapter
func NewOfferAdapter(client *postgres.Client) repositories.OfferRepository {
	return &OfferAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListRecurringByWeekday returns recurring offers active on a weekday
func (a *OfferAdapter) ListRecurringByWeekday(ctx context.Context, market string, kind entities.OfferKind, weekday string) ([]*entities.TimeWindowRecord, error) {
	query, args, err := a.offerSelect().
		Where(
			goqu.Ex{"o.market": market, "o.kind": string(kind)},
			goqu.L("? = ANY(o.weekdays)", weekday),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build recurring offer query", err)
	}
	return a.queryOffers(ctx, query, args)
}

// ListByDate returns date-specific offers whose range covers the date
func (a *OfferAdapter) ListByDate(ctx context.Context, market string, kind entities.OfferKind, date time.Time) ([]*entities.TimeWindowRecord, error) {
	day := date.Format("2006-01-02")
	query, args, err := a.offerSelect().
		Where(
			goqu.Ex{"o.market": market, "o.kind": string(kind)},
			goqu.L("cardinality(o.weekdays) = 0"),
			goqu.L("o.start_date <= ?::date", day),
			goqu.L("(o.end_date IS NULL OR o.end_date >= ?::date)", day),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build dated offer query", err)
	}
	return a.queryOffers(ctx, query, args)
}

func (a *OfferAdapter) offerSelect() *goqu.SelectDataset {
	return a.db.Select(offerColumns...).
		From(goqu.T("offers").As("o")).
		Join(goqu.T("venues").As("v"), goqu.On(goqu.I("o.venue_id").Eq(goqu.I("v.id")))).
		Order(goqu.I("o.start_time").Asc())
}

func (a *OfferAdapter) queryOffers(ctx context.Context, query string, args []interface{}) ([]*entities.TimeWindowRecord, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query offers", err)
	}
	defer rows.Close()

	var offers []*entities.TimeWindowRecord
	for rows.Next() {
		offer := &entities.TimeWindowRecord{}
		var description, startTime, endTime, dealText sql.NullString
		var startDate, endDate sql.NullTime
		var kind string

		err := rows.Scan(
			&offer.ID,
			&offer.VenueID,
			&offer.VenueName,
			&offer.Market,
			&kind,
			&offer.Title,
			&description,
			pq.Array(&offer.Weekdays),
			&startDate,
			&endDate,
			&startTime,
			&endTime,
			&dealText,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan offer", err)
		}

		offer.Kind = entities.OfferKind(kind)
		offer.Description = description.String
		offer.StartTime = startTime.String
		offer.EndTime = endTime.String
		offer.DealText = dealText.String
		if startDate.Valid {
			d := startDate.Time
			offer.StartDate = &d
		}
		if endDate.Valid {
			d := endDate.Time
			offer.EndDate = &d
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate offers", err)
	}
	if offers == nil {
		offers = []*entities.TimeWindowRecord{}
	}
	return offers, nil
}
