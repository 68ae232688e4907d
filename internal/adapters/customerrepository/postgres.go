package customerrepository

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
	tracer := otel.Tracer("shopgraph/customerrepository/postgres")
	return &Postgres{
		db:     db,
		schema: schema,
		tracer: tracer,
	}
}

type dbCustomer struct {
	CustomerID int64     `db:"customer_id"`
	Name       string    `db:"name"`
	Email      string    `db:"email"`
	CreatedAt  time.Time `db:"created_at"`
}

func (c dbCustomer) toDomain() domain.Customer {
	return domain.Customer{
		ID:        c.CustomerID,
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
	}
}

func (p *Postgres) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Customer, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetCustomersByIDs")
	defer span.End()

	customers := make(map[int64]domain.Customer, len(ids))
	if len(ids) == 0 {
		return customers, nil
	}

	var rows []dbCustomer
	err := p.db.SelectContext(
		ctx,
		&rows,
		fmt.Sprintf(`SELECT customer_id, name, email, created_at
		FROM %s.customers
		WHERE customer_id = ANY($1)`,
			pq.QuoteIdentifier(p.schema)),
		pq.Array(ids),
	)
	if err != nil {
		err := fmt.Errorf("failed to select customers: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	for _, row := range rows {
		customers[row.CustomerID] = row.toDomain()
	}

	return customers, nil
}

func (p *Postgres) List(ctx context.Context) ([]domain.Customer, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListCustomers")
	defer span.End()

	var rows []dbCustomer
	err := p.db.SelectContext(
		ctx,
		&rows,
		fmt.Sprintf(`SELECT customer_id, name, email, created_at
		FROM %s.customers
		ORDER BY customer_id`,
			pq.QuoteIdentifier(p.schema)),
	)
	if err != nil {
		err := fmt.Errorf("failed to list customers: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	customers := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, row.toDomain())
	}

	return customers, nil
}
