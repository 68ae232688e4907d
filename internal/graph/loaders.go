// Package graph ties the GraphQL schema to the backing repositories through
// request-scoped loaders. Every inbound request gets a fresh Loaders bundle;
// resolvers reach it through the request context, never through package state.
package graph

import (
	"context"
	"time"

	"github.com/JamesMReilly/shopgraph/internal/adapters/customerrepository"
	"github.com/JamesMReilly/shopgraph/internal/adapters/orderrepository"
	"github.com/JamesMReilly/shopgraph/internal/adapters/paymentrepository"
	"github.com/JamesMReilly/shopgraph/internal/adapters/productrepository"
	"github.com/JamesMReilly/shopgraph/internal/domain"
	"github.com/JamesMReilly/shopgraph/internal/loader"
)

// Join window for each batch. Resolvers running in other goroutines get this
// long to add their keys after the first thunk is forced.
const batchWait = 2 * time.Millisecond

// Keep batches below common IN-list planning thresholds
const maxBatchSize = 1000

type Repositories struct {
	Customers customerrepository.CustomerRepository
	Orders    orderrepository.OrderRepository
	Products  productrepository.ProductRepository
	Payments  paymentrepository.PaymentRepository
}

// Loaders is the per-request bundle, one loader per key-space. Two requests
// never share a bundle, so nothing cached here can leak between requests.
type Loaders struct {
	CustomerByID     *loader.Loader[int64, domain.Customer]
	OrderByID        *loader.Loader[int64, domain.Order]
	OrdersByCustomer *loader.Loader[int64, []domain.Order]
	LineItemsByOrder *loader.Loader[int64, []domain.LineItem]
	ProductByID      *loader.Loader[int64, domain.Product]
	PaymentsByOrder  *loader.Loader[int64, []domain.Payment]
}

func NewLoaders(repos Repositories) *Loaders {
	return &Loaders{
		CustomerByID:     newByIDLoader(repos.Customers.GetByIDs, domain.ErrCustomerNotFound),
		OrderByID:        newByIDLoader(repos.Orders.GetByIDs, domain.ErrOrderNotFound),
		OrdersByCustomer: newGroupedLoader(repos.Orders.GetByCustomerIDs),
		LineItemsByOrder: newGroupedLoader(repos.Orders.GetLineItemsByOrderIDs),
		ProductByID:      newByIDLoader(repos.Products.GetByIDs, domain.ErrProductNotFound),
		PaymentsByOrder:  newGroupedLoader(repos.Payments.GetByOrderIDs),
	}
}

// newByIDLoader adapts a map-shaped repository batch lookup into a positional
// batch function. An id the repository did not return resolves to notFound.
func newByIDLoader[V any](
	getByIDs func(ctx context.Context, ids []int64) (map[int64]V, error),
	notFound error,
) *loader.Loader[int64, V] {
	fetch := func(ctx context.Context, ids []int64) ([]loader.Result[V], error) {
		byID, err := getByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}

		results := make([]loader.Result[V], len(ids))
		for i, id := range ids {
			value, ok := byID[id]
			if !ok {
				results[i] = loader.Result[V]{Err: notFound}
				continue
			}
			results[i] = loader.Result[V]{Value: value}
		}
		return results, nil
	}

	return loader.New(fetch, loader.Wait(batchWait), loader.MaxBatch(maxBatchSize))
}

// newGroupedLoader adapts a one-to-many repository batch lookup. A parent id
// with no children resolves to an empty slice, not an error.
func newGroupedLoader[V any](
	getByParentIDs func(ctx context.Context, parentIDs []int64) (map[int64][]V, error),
) *loader.Loader[int64, []V] {
	fetch := func(ctx context.Context, parentIDs []int64) ([]loader.Result[[]V], error) {
		byParent, err := getByParentIDs(ctx, parentIDs)
		if err != nil {
			return nil, err
		}

		results := make([]loader.Result[[]V], len(parentIDs))
		for i, parentID := range parentIDs {
			results[i] = loader.Result[[]V]{Value: byParent[parentID]}
		}
		return results, nil
	}

	return loader.New(fetch, loader.Wait(batchWait), loader.MaxBatch(maxBatchSize))
}
