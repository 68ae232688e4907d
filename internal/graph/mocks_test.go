package graph_test

import (
	"context"
	"sync"

	"github.com/JamesMReilly/shopgraph/internal/domain"
	"github.com/JamesMReilly/shopgraph/internal/domaintest"
	"github.com/JamesMReilly/shopgraph/internal/graph"
)

type mockCustomerRepository struct {
	mu        sync.Mutex
	customers map[int64]domain.Customer
	batches   [][]int64
	listCalls int
}

func (m *mockCustomerRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, append([]int64{}, ids...))

	result := make(map[int64]domain.Customer)
	for _, id := range ids {
		if customer, ok := m.customers[id]; ok {
			result[id] = customer
		}
	}
	return result, nil
}

func (m *mockCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++

	customers := make([]domain.Customer, 0, len(m.customers))
	for id := int64(0); id < 100; id++ {
		if customer, ok := m.customers[id]; ok {
			customers = append(customers, customer)
		}
	}
	return customers, nil
}

type mockOrderRepository struct {
	mu               sync.Mutex
	orders           map[int64]domain.Order
	ordersByCustomer map[int64][]domain.Order
	lineItemsByOrder map[int64][]domain.LineItem

	orderBatches    [][]int64
	customerBatches [][]int64
	lineItemBatches [][]int64
}

func (m *mockOrderRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orderBatches = append(m.orderBatches, append([]int64{}, ids...))

	result := make(map[int64]domain.Order)
	for _, id := range ids {
		if order, ok := m.orders[id]; ok {
			result[id] = order
		}
	}
	return result, nil
}

func (m *mockOrderRepository) GetByCustomerIDs(ctx context.Context, customerIDs []int64) (map[int64][]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customerBatches = append(m.customerBatches, append([]int64{}, customerIDs...))

	result := make(map[int64][]domain.Order)
	for _, customerID := range customerIDs {
		if orders, ok := m.ordersByCustomer[customerID]; ok {
			result[customerID] = orders
		}
	}
	return result, nil
}

func (m *mockOrderRepository) GetLineItemsByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]domain.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lineItemBatches = append(m.lineItemBatches, append([]int64{}, orderIDs...))

	result := make(map[int64][]domain.LineItem)
	for _, orderID := range orderIDs {
		if lineItems, ok := m.lineItemsByOrder[orderID]; ok {
			result[orderID] = lineItems
		}
	}
	return result, nil
}

type mockProductRepository struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	batches  [][]int64
}

func (m *mockProductRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, append([]int64{}, ids...))

	result := make(map[int64]domain.Product)
	for _, id := range ids {
		if product, ok := m.products[id]; ok {
			result[id] = product
		}
	}
	return result, nil
}

type mockPaymentRepository struct {
	mu              sync.Mutex
	paymentsByOrder map[int64][]domain.Payment
	batches         [][]int64
}

func (m *mockPaymentRepository) GetByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, append([]int64{}, orderIDs...))

	result := make(map[int64][]domain.Payment)
	for _, orderID := range orderIDs {
		if payments, ok := m.paymentsByOrder[orderID]; ok {
			result[orderID] = payments
		}
	}
	return result, nil
}

type mockRepos struct {
	customers *mockCustomerRepository
	orders    *mockOrderRepository
	products  *mockProductRepository
	payments  *mockPaymentRepository
}

func (m *mockRepos) repositories() graph.Repositories {
	return graph.Repositories{
		Customers: m.customers,
		Orders:    m.orders,
		Products:  m.products,
		Payments:  m.payments,
	}
}

// newMockRepos builds a small fixed world:
//
//	customer 1: orders 10 (items 100, 101), 11 (item 102)
//	customer 2: order 12 (item 103)
//	customer 3: no orders
//
// Order 10 is paid by credit card, order 11 by a legacy store credit row with
// no kind column, order 12 is unpaid.
func newMockRepos() *mockRepos {
	alice := domaintest.NewCustomerBuilder(1).WithName("Alice").Build()
	bob := domaintest.NewCustomerBuilder(2).WithName("Bob").Build()
	carol := domaintest.NewCustomerBuilder(3).WithName("Carol").Build()

	order10 := domaintest.NewOrderBuilder(10, 1).Build()
	order11 := domaintest.NewOrderBuilder(11, 1).WithStatus("pending").Build()
	order12 := domaintest.NewOrderBuilder(12, 2).Build()

	hat := domaintest.NewProductBuilder(1000).WithName("Hat").Build()
	mug := domaintest.NewProductBuilder(1001).WithName("Mug").Build()
	pen := domaintest.NewProductBuilder(1002).WithName("Pen").Build()

	item100 := domaintest.NewLineItemBuilder(100, 10, 1000).WithQuantity(2).Build()
	item101 := domaintest.NewLineItemBuilder(101, 10, 1001).Build()
	item102 := domaintest.NewLineItemBuilder(102, 11, 1000).Build()
	item103 := domaintest.NewLineItemBuilder(103, 12, 1002).Build()

	cardPayment := domaintest.NewPaymentBuilder(500, 10).
		WithKind(domain.PaymentKindCreditCard).
		WithAuthorizationCode("AUTH-500").
		WithCardLastFour("4242").
		Build()
	legacyStoreCredit := domaintest.NewPaymentBuilder(501, 11).
		WithCreditAccountID("acct-501").
		Build()

	return &mockRepos{
		customers: &mockCustomerRepository{
			customers: map[int64]domain.Customer{1: alice, 2: bob, 3: carol},
		},
		orders: &mockOrderRepository{
			orders: map[int64]domain.Order{10: order10, 11: order11, 12: order12},
			ordersByCustomer: map[int64][]domain.Order{
				1: {order10, order11},
				2: {order12},
			},
			lineItemsByOrder: map[int64][]domain.LineItem{
				10: {item100, item101},
				11: {item102},
				12: {item103},
			},
		},
		products: &mockProductRepository{
			products: map[int64]domain.Product{1000: hat, 1001: mug, 1002: pen},
		},
		payments: &mockPaymentRepository{
			paymentsByOrder: map[int64][]domain.Payment{
				10: {cardPayment},
				11: {legacyStoreCredit},
			},
		},
	}
}
