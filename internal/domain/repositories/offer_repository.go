package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
)

// OfferRepository defines read access to time-windowed venue offers
type OfferRepository interface {
	// ListRecurringByWeekday returns recurring offers of one kind active on
	// the given lowercase weekday name
	ListRecurringByWeekday(ctx context.Context, market string, kind entities.OfferKind, weekday string) ([]*entities.TimeWindowRecord, error)

	// ListByDate returns date-specific offers of one kind whose date range
	// covers the given calendar date
	ListByDate(ctx context.Context, market string, kind entities.OfferKind, date time.Time) ([]*entities.TimeWindowRecord, error)
}
