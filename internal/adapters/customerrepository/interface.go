package customerrepository

import (
	"context"

	"github.com/JamesMReilly/shopgraph/internal/domain"
)

type CustomerRepository interface {
	// GetByIDs returns the customers that exist among ids, keyed by id.
	// Absent ids are simply missing from the map.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
}
