package orderrepository

import (
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/JamesMReilly/shopgraph/internal/adapters/database"
)

func newPostgresOrderRepository(t *testing.T, db *sqlx.DB, schema string) *Postgres {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db.MustExec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", pq.QuoteIdentifier(schema)))

	migrator := database.NewDatabaseMigrator(db, logger)

	err := migrator.Migrate(t.Context(), schema)
	require.NoError(t, err)

	return NewPostgres(db, schema)
}

func TestPostgresOrderRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping db tests in short mode.")
	}
	t.Parallel()

	ctx := t.Context()
	db, err := database.NewPostgresDatabase(database.LOCAL_CONNECTION_STRING)
	require.NoError(t, err)

	SCHEMA_NAME := "order_repository_test"
	p := newPostgresOrderRepository(t, db, SCHEMA_NAME)

	quotedSchema := pq.QuoteIdentifier(SCHEMA_NAME)

	baseTime := time.Date(2024, time.April, 1, 10, 0, 0, 0, time.UTC)

	db.MustExec(
		fmt.Sprintf(`INSERT INTO %s.customers (customer_id, name, email) VALUES ($1, $2, $3), ($4, $5, $6)`, quotedSchema),
		1, "Alice", "alice@example.com",
		2, "Bob", "bob@example.com",
	)
	db.MustExec(
		fmt.Sprintf(`INSERT INTO %s.products (product_id, name, price_cents) VALUES ($1, $2, $3), ($4, $5, $6)`, quotedSchema),
		1000, "Hat", 1299,
		1001, "Mug", 899,
	)

	insertOrder := func(t *testing.T, id int64, customerID int64, placedAt time.Time, status string) {
		t.Helper()
		db.MustExec(
			fmt.Sprintf(`INSERT INTO %s.orders (order_id, customer_id, placed_at, status) VALUES ($1, $2, $3, $4)`, quotedSchema),
			id, customerID, placedAt, status,
		)
	}
	insertLineItem := func(t *testing.T, id int64, orderID int64, productID int64, quantity int64, unitPriceCents int64) {
		t.Helper()
		db.MustExec(
			fmt.Sprintf(`INSERT INTO %s.line_items (line_item_id, order_id, product_id, quantity, unit_price_cents) VALUES ($1, $2, $3, $4, $5)`, quotedSchema),
			id, orderID, productID, quantity, unitPriceCents,
		)
	}

	// Insertion order deliberately disagrees with placement order
	insertOrder(t, 10, 1, baseTime.Add(2*time.Hour), "shipped")
	insertOrder(t, 11, 1, baseTime, "pending")
	insertOrder(t, 12, 2, baseTime.Add(time.Hour), "shipped")

	insertLineItem(t, 101, 10, 1001, 1, 899)
	insertLineItem(t, 100, 10, 1000, 2, 1299)
	insertLineItem(t, 102, 12, 1000, 1, 1299)

	t.Run("GetByIDs", func(t *testing.T) {
		t.Parallel()

		orders, err := p.GetByIDs(ctx, []int64{10, 12, 999})
		require.NoError(t, err)
		require.Len(t, orders, 2)

		require.Equal(t, int64(1), orders[10].CustomerID)
		require.Equal(t, "shipped", orders[10].Status)
		require.True(t, orders[10].PlacedAt.Equal(baseTime.Add(2*time.Hour)))
		require.Equal(t, int64(2), orders[12].CustomerID)
	})

	t.Run("GetByCustomerIDs", func(t *testing.T) {
		t.Parallel()

		t.Run("orders come back oldest first", func(t *testing.T) {
			t.Parallel()

			ordersByCustomer, err := p.GetByCustomerIDs(ctx, []int64{1, 2})
			require.NoError(t, err)
			require.Len(t, ordersByCustomer, 2)

			require.Len(t, ordersByCustomer[1], 2)
			require.Equal(t, int64(11), ordersByCustomer[1][0].ID)
			require.Equal(t, int64(10), ordersByCustomer[1][1].ID)

			require.Len(t, ordersByCustomer[2], 1)
			require.Equal(t, int64(12), ordersByCustomer[2][0].ID)
		})

		t.Run("customers without orders are missing from the map", func(t *testing.T) {
			t.Parallel()

			ordersByCustomer, err := p.GetByCustomerIDs(ctx, []int64{999})
			require.NoError(t, err)
			require.Empty(t, ordersByCustomer)
		})

		t.Run("no ids", func(t *testing.T) {
			t.Parallel()

			ordersByCustomer, err := p.GetByCustomerIDs(ctx, []int64{})
			require.NoError(t, err)
			require.Empty(t, ordersByCustomer)
		})
	})

	t.Run("GetLineItemsByOrderIDs", func(t *testing.T) {
		t.Parallel()

		lineItemsByOrder, err := p.GetLineItemsByOrderIDs(ctx, []int64{10, 11, 12})
		require.NoError(t, err)

		require.Len(t, lineItemsByOrder[10], 2)
		require.Equal(t, int64(100), lineItemsByOrder[10][0].ID)
		require.Equal(t, int64(1000), lineItemsByOrder[10][0].ProductID)
		require.Equal(t, int64(2), lineItemsByOrder[10][0].Quantity)
		require.Equal(t, int64(101), lineItemsByOrder[10][1].ID)

		require.Len(t, lineItemsByOrder[12], 1)

		// Order 11 has no line items
		_, ok := lineItemsByOrder[11]
		require.False(t, ok)
	})
}
