// Seeds the local database with a small demo dataset for manual testing.
//
// Usage: go run ./cmd/seed-demo-data
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/JamesMReilly/shopgraph/internal/adapters/database"
)

func mustExec(db *sqlx.DB, query string, args ...interface{}) {
	_, err := db.Exec(query, args...)
	if err != nil {
		log.Fatalf("Failed to exec %q: %v", query, err)
	}
}

func main() {
	ctx := context.Background()

	db, err := database.NewPostgresDatabase(database.LOCAL_CONNECTION_STRING)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	schema := database.MAIN_SCHEMA

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	err = database.NewDatabaseMigrator(db, logger).Migrate(ctx, schema)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	quotedSchema := pq.QuoteIdentifier(schema)

	now := time.Now().UTC().Truncate(time.Second)

	customers := []struct {
		id    int64
		name  string
		email string
	}{
		{1, "Alice Johnson", "alice@example.com"},
		{2, "Bob Martinez", "bob@example.com"},
		{3, "Carol Nguyen", "carol@example.com"},
	}
	for _, c := range customers {
		mustExec(db,
			fmt.Sprintf(`INSERT INTO %s.customers (customer_id, name, email, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (customer_id) DO NOTHING`, quotedSchema),
			c.id, c.name, c.email, now.Add(-90*24*time.Hour),
		)
	}

	products := []struct {
		id          int64
		name        string
		description string
		priceCents  int64
	}{
		{1000, "Wool Beanie", "A warm wool beanie", 1299},
		{1001, "Enamel Mug", "A 350ml enamel camping mug", 899},
		{1002, "Gel Pen", "A 0.5mm black gel pen", 249},
	}
	for _, p := range products {
		mustExec(db,
			fmt.Sprintf(`INSERT INTO %s.products (product_id, name, description, price_cents)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (product_id) DO NOTHING`, quotedSchema),
			p.id, p.name, p.description, p.priceCents,
		)
	}

	orders := []struct {
		id         int64
		customerID int64
		placedAt   time.Time
		status     string
	}{
		{10, 1, now.Add(-14 * 24 * time.Hour), "shipped"},
		{11, 1, now.Add(-2 * 24 * time.Hour), "pending"},
		{12, 2, now.Add(-7 * 24 * time.Hour), "shipped"},
	}
	for _, o := range orders {
		mustExec(db,
			fmt.Sprintf(`INSERT INTO %s.orders (order_id, customer_id, placed_at, status)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (order_id) DO NOTHING`, quotedSchema),
			o.id, o.customerID, o.placedAt, o.status,
		)
	}

	lineItems := []struct {
		id             int64
		orderID        int64
		productID      int64
		quantity       int64
		unitPriceCents int64
	}{
		{100, 10, 1000, 2, 1299},
		{101, 10, 1001, 1, 899},
		{102, 11, 1000, 1, 1299},
		{103, 12, 1002, 10, 249},
	}
	for _, li := range lineItems {
		mustExec(db,
			fmt.Sprintf(`INSERT INTO %s.line_items (line_item_id, order_id, product_id, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (line_item_id) DO NOTHING`, quotedSchema),
			li.id, li.orderID, li.productID, li.quantity, li.unitPriceCents,
		)
	}

	// Payment 501 is deliberately a legacy row with no kind, to exercise
	// attribute sniffing on read
	mustExec(db,
		fmt.Sprintf(`INSERT INTO %s.payments (payment_id, order_id, amount_cents, received_at, kind, authorization_code, card_last_four)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (payment_id) DO NOTHING`, quotedSchema),
		500, 10, 3497, now.Add(-14*24*time.Hour), "credit_card", "AUTH-500", "4242",
	)
	mustExec(db,
		fmt.Sprintf(`INSERT INTO %s.payments (payment_id, order_id, amount_cents, received_at, credit_account_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (payment_id) DO NOTHING`, quotedSchema),
		501, 12, 2490, now.Add(-7*24*time.Hour), "acct-501",
	)

	log.Println("Seeded demo data")
}
