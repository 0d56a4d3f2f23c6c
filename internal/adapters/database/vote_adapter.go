package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
	"github.com/zatekoja/citypulse-concierge/internal/domain/repositories"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/citypulse-concierge/pkg/errors"
)

// VoteAdapter implements VoteRepository against Postgres
type VoteAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewVoteAdapter creates a new vote adapter
func NewVoteAdapter(client *postgres.Client) repositories.VoteRepository {
	return &VoteAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// TopForMonth returns the most-voted venues for a month key like "2026-08"
func (a *VoteAdapter) TopForMonth(ctx context.Context, market, month string, limit int) ([]*entities.VoteTally, error) {
	query, args, err := a.db.Select(
		goqu.I("t.venue_id"), goqu.I("v.name"), goqu.I("t.month"), goqu.I("t.votes"),
	).
		From(goqu.T("vote_tallies").As("t")).
		Join(goqu.T("venues").As("v"), goqu.On(goqu.I("t.venue_id").Eq(goqu.I("v.id")))).
		Where(goqu.Ex{"v.market": market, "t.month": month}).
		Order(goqu.I("t.votes").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build vote query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query vote tallies", err)
	}
	defer rows.Close()

	var tallies []*entities.VoteTally
	for rows.Next() {
		tally := &entities.VoteTally{}
		if err := rows.Scan(&tally.VenueID, &tally.VenueName, &tally.Month, &tally.Votes); err != nil {
			return nil, apperrors.NewInternalError("failed to scan vote tally", err)
		}
		tallies = append(tallies, tally)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate vote tallies", err)
	}
	if tallies == nil {
		tallies = []*entities.VoteTally{}
	}
	return tallies, nil
}
