package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
	"github.com/zatekoja/citypulse-concierge/internal/domain/repositories"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/citypulse-concierge/pkg/errors"
)

// MenuAdapter implements MenuRepository against Postgres
type MenuAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewMenuAdapter creates a new menu adapter
func NewMenuAdapter(client *postgres.Client) repositories.MenuRepository {
	return &MenuAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListByMarket returns menu items for a market, signature items first
func (a *MenuAdapter) ListByMarket(ctx context.Context, market string, limit int) ([]*entities.MenuItem, error) {
	query, args, err := a.db.Select(
		goqu.I("m.id"), goqu.I("m.venue_id"), goqu.I("v.name"),
		goqu.I("m.name"), goqu.I("m.category"), goqu.I("m.price"), goqu.I("m.is_signature"),
	).
		From(goqu.T("menu_items").As("m")).
		Join(goqu.T("venues").As("v"), goqu.On(goqu.I("m.venue_id").Eq(goqu.I("v.id")))).
		Where(goqu.Ex{"v.market": market, "v.is_active": true}).
		Order(goqu.I("m.is_signature").Desc(), goqu.I("m.price").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build menu query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query menu items", err)
	}
	defer rows.Close()

	var items []*entities.MenuItem
	for rows.Next() {
		item := &entities.MenuItem{}
		var category sql.NullString
		if err := rows.Scan(&item.ID, &item.VenueID, &item.VenueName, &item.Name, &category, &item.Price, &item.IsSignature); err != nil {
			return nil, apperrors.NewInternalError("failed to scan menu item", err)
		}
		item.Category = category.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate menu items", err)
	}
	if items == nil {
		items = []*entities.MenuItem{}
	}
	return items, nil
}
