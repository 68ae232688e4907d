package productrepository

import (
	"context"
	"fmt"

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
	tracer := otel.Tracer("shopgraph/productrepository/postgres")
	return &Postgres{
		db:     db,
		schema: schema,
		tracer: tracer,
	}
}

type dbProduct struct {
	ProductID   int64  `db:"product_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	PriceCents  int64  `db:"price_cents"`
}

func (p dbProduct) toDomain() domain.Product {
	return domain.Product{
		ID:          p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
	}
}

func (p *Postgres) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetProductsByIDs")
	defer span.End()

	products := make(map[int64]domain.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	var rows []dbProduct
	err := p.db.SelectContext(
		ctx,
		&rows,
		fmt.Sprintf(`SELECT product_id, name, description, price_cents
		FROM %s.products
		WHERE product_id = ANY($1)`,
			pq.QuoteIdentifier(p.schema)),
		pq.Array(ids),
	)
	if err != nil {
		err := fmt.Errorf("failed to select products: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	for _, row := range rows {
		products[row.ProductID] = row.toDomain()
	}

	return products, nil
}
