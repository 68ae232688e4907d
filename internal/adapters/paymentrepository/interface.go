package paymentrepository

import (
	"context"

	"github.com/JamesMReilly/shopgraph/internal/domain"
)

type PaymentRepository interface {
	// GetByOrderIDs returns each order's payments, oldest first.
	// Orders without payments are simply missing from the map.
	GetByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]domain.Payment, error)
}
