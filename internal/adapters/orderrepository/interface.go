package orderrepository

import (
	"context"

	"github.com/JamesMReilly/shopgraph/internal/domain"
)

type OrderRepository interface {
	// GetByIDs returns the orders that exist among ids, keyed by id.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Order, error)
	// GetByCustomerIDs returns each customer's orders, oldest first.
	// Customers without orders are simply missing from the map.
	GetByCustomerIDs(ctx context.Context, customerIDs []int64) (map[int64][]domain.Order, error)
	// GetLineItemsByOrderIDs returns each order's line items.
	GetLineItemsByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]domain.LineItem, error)
}
