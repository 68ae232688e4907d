package orderrepository

import (
	"context"
	"fmt"
	"time"

	"github.com/JamesMReilly/shopgraph/internal/domain"
	"github.com/JamesMReilly/shopgraph/internal/reporting"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Postgres struct {
	db     *sqlx.DB
	schema string
	tracer trace.Tracer
}

func NewPostgres(db *sqlx.DB, schema string) *Postgres {
	tracer := otel.Tracer("shopgraph/orderrepository/postgres")
	return &Postgres{
		db:     db,
		schema: schema,
		tracer: tracer,
	}
}

type dbOrder struct {
	OrderID    int64     `db:"order_id"`
	CustomerID int64     `db:"customer_id"`
	PlacedAt   time.Time `db:"placed_at"`
	Status     string    `db:"status"`
}

func (o dbOrder) toDomain() domain.Order {
	return domain.Order{
		ID:         o.OrderID,
		CustomerID: o.CustomerID,
		PlacedAt:   o.PlacedAt,
		Status:     o.Status,
	}
}

type dbLineItem struct {
	LineItemID     int64 `db:"line_item_id"`
	OrderID        int64 `db:"order_id"`
	ProductID      int64 `db:"product_id"`
	Quantity       int64 `db:"quantity"`
	UnitPriceCents int64 `db:"unit_price_cents"`
}

func (li dbLineItem) toDomain() domain.LineItem {
	return domain.LineItem{
		ID:             li.LineItemID,
		OrderID:        li.OrderID,
		ProductID:      li.ProductID,
		Quantity:       li.Quantity,
		UnitPriceCents: li.UnitPriceCents,
	}
}

func (p *Postgres) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Order, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetOrdersByIDs")
	defer span.End()

	orders := make(map[int64]domain.Order, len(ids))
	if len(ids) == 0 {
		return orders, nil
	}

	var rows []dbOrder
	err := p.db.SelectContext(
		ctx,
		&rows,
		fmt.Sprintf(`SELECT order_id, customer_id, placed_at, status
		FROM %s.orders
		WHERE order_id = ANY($1)`,
			pq.QuoteIdentifier(p.schema)),
		pq.Array(ids),
	)
	if err != nil {
		err := fmt.Errorf("failed to select orders: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	for _, row := range rows {
		orders[row.OrderID] = row.toDomain()
	}

	return orders, nil
}

func (p *Postgres) GetByCustomerIDs(ctx context.Context, customerIDs []int64) (map[int64][]domain.Order, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetOrdersByCustomerIDs")
	defer span.End()

	ordersByCustomer := make(map[int64][]domain.Order, len(customerIDs))
	if len(customerIDs) == 0 {
		return ordersByCustomer, nil
	}

	var rows []dbOrder
	err := p.db.SelectContext(
		ctx,
		&rows,
		fmt.Sprintf(`SELECT order_id, customer_id, placed_at, status
		FROM %s.orders
		WHERE customer_id = ANY($1)
		ORDER BY placed_at, order_id`,
			pq.QuoteIdentifier(p.schema)),
		pq.Array(customerIDs),
	)
	if err != nil {
		err := fmt.Errorf("failed to select orders by customer: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	for _, row := range rows {
		ordersByCustomer[row.CustomerID] = append(ordersByCustomer[row.CustomerID], row.toDomain())
	}

	return ordersByCustomer, nil
}

func (p *Postgres) GetLineItemsByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]domain.LineItem, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetLineItemsByOrderIDs")
	defer span.End()

	lineItemsByOrder := make(map[int64][]domain.LineItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return lineItemsByOrder, nil
	}

	var rows []dbLineItem
	err := p.db.SelectContext(
		ctx,
		&rows,
		fmt.Sprintf(`SELECT line_item_id, order_id, product_id, quantity, unit_price_cents
		FROM %s.line_items
		WHERE order_id = ANY($1)
		ORDER BY line_item_id`,
			pq.QuoteIdentifier(p.schema)),
		pq.Array(orderIDs),
	)
	if err != nil {
		err := fmt.Errorf("failed to select line items: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	for _, row := range rows {
		lineItemsByOrder[row.OrderID] = append(lineItemsByOrder[row.OrderID], row.toDomain())
	}

	return lineItemsByOrder, nil
}
