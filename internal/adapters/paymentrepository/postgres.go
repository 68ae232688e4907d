package paymentrepository

import (
	"context"
	"database/sql"
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
	tracer := otel.Tracer("shopgraph/paymentrepository/postgres")
	return &Postgres{
		db:     db,
		schema: schema,
		tracer: tracer,
	}
}

type dbPayment struct {
	PaymentID         int64          `db:"payment_id"`
	OrderID           int64          `db:"order_id"`
	AmountCents       int64          `db:"amount_cents"`
	ReceivedAt        time.Time      `db:"received_at"`
	Kind              sql.NullString `db:"kind"`
	AuthorizationCode sql.NullString `db:"authorization_code"`
	CardLastFour      sql.NullString `db:"card_last_four"`
	CreditAccountID   sql.NullString `db:"credit_account_id"`
}

func (p dbPayment) toDomain() domain.Payment {
	kind := domain.PaymentKindUnknown
	switch p.Kind.String {
	case "credit_card":
		kind = domain.PaymentKindCreditCard
	case "store_credit":
		kind = domain.PaymentKindStoreCredit
	}

	return domain.Payment{
		ID:                p.PaymentID,
		OrderID:           p.OrderID,
		AmountCents:       p.AmountCents,
		ReceivedAt:        p.ReceivedAt,
		Kind:              kind,
		AuthorizationCode: p.AuthorizationCode.String,
		CardLastFour:      p.CardLastFour.String,
		CreditAccountID:   p.CreditAccountID.String,
	}
}

func (p *Postgres) GetByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]domain.Payment, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetPaymentsByOrderIDs")
	defer span.End()

	paymentsByOrder := make(map[int64][]domain.Payment, len(orderIDs))
	if len(orderIDs) == 0 {
		return paymentsByOrder, nil
	}

	var rows []dbPayment
	err := p.db.SelectContext(
		ctx,
		&rows,
		fmt.Sprintf(`SELECT payment_id, order_id, amount_cents, received_at, kind, authorization_code, card_last_four, credit_account_id
		FROM %s.payments
		WHERE order_id = ANY($1)
		ORDER BY received_at, payment_id`,
			pq.QuoteIdentifier(p.schema)),
		pq.Array(orderIDs),
	)
	if err != nil {
		err := fmt.Errorf("failed to select payments: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	for _, row := range rows {
		paymentsByOrder[row.OrderID] = append(paymentsByOrder[row.OrderID], row.toDomain())
	}

	return paymentsByOrder, nil
}
