package repositories

import (
	"context"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
)

// MenuRepository defines read access to venue menu items
type MenuRepository interface {
	ListByMarket(ctx context.Context, market string, limit int) ([]*entities.MenuItem, error)
}
