package productrepository

import (
	"context"

	"github.com/JamesMReilly/shopgraph/internal/domain"
)

type ProductRepository interface {
	// GetByIDs returns the products that exist among ids, keyed by id.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
}
