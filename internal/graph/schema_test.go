package graph_test

import (
	"context"
	"testing"

	"github.com/JamesMReilly/shopgraph/internal/graph"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, repos *mockRepos, query string) *graphql.Result {
	t.Helper()

	schema, err := graph.NewSchema(repos.repositories())
	require.NoError(t, err)

	ctx := graph.AddToContext(context.Background(), graph.NewLoaders(repos.repositories()))

	return graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: query,
		Context:       ctx,
	})
}

func object(t *testing.T, value interface{}) map[string]interface{} {
	t.Helper()
	obj, ok := value.(map[string]interface{})
	require.True(t, ok, "expected object, got %T", value)
	return obj
}

func list(t *testing.T, value interface{}) []interface{} {
	t.Helper()
	items, ok := value.([]interface{})
	require.True(t, ok, "expected list, got %T", value)
	return items
}

func TestSchemaNestedTraversal(t *testing.T) {
	t.Parallel()
	repos := newMockRepos()

	result := execute(t, repos, `{
		customers {
			id
			name
			orders {
				id
				lineItems {
					id
					quantity
					product {
						id
						name
					}
				}
			}
		}
	}`)
	require.Empty(t, result.Errors)

	customers := list(t, object(t, result.Data)["customers"])
	require.Len(t, customers, 3)

	alice := object(t, customers[0])
	assert.Equal(t, "Alice", alice["name"])
	aliceOrders := list(t, alice["orders"])
	require.Len(t, aliceOrders, 2)

	order10 := object(t, aliceOrders[0])
	assert.Equal(t, 10, order10["id"])
	order10Items := list(t, order10["lineItems"])
	require.Len(t, order10Items, 2)
	assert.Equal(t, 2, object(t, order10Items[0])["quantity"])
	assert.Equal(t, "Hat", object(t, object(t, order10Items[0])["product"])["name"])
	assert.Equal(t, "Mug", object(t, object(t, order10Items[1])["product"])["name"])

	carol := object(t, customers[2])
	assert.Equal(t, "Carol", carol["name"])
	assert.Empty(t, list(t, carol["orders"]))

	// The whole traversal costs one round trip per key-space
	assert.Equal(t, 1, repos.customers.listCalls)
	assert.Empty(t, repos.customers.batches, "listing should prime the by-id loader")

	require.Len(t, repos.orders.customerBatches, 1)
	assert.ElementsMatch(t, []int64{1, 2, 3}, repos.orders.customerBatches[0])

	require.Len(t, repos.orders.lineItemBatches, 1)
	assert.ElementsMatch(t, []int64{10, 11, 12}, repos.orders.lineItemBatches[0])

	// Product 1000 appears on two orders but is fetched once
	require.Len(t, repos.products.batches, 1)
	assert.ElementsMatch(t, []int64{1000, 1001, 1002}, repos.products.batches[0])
}

func TestSchemaDuplicateLookups(t *testing.T) {
	t.Parallel()
	repos := newMockRepos()

	result := execute(t, repos, `{
		a: customer(id: 1) { name }
		b: customer(id: 2) { name }
		c: customer(id: 1) { name }
		d: customer(id: 3) { name }
	}`)
	require.Empty(t, result.Errors)

	data := object(t, result.Data)
	assert.Equal(t, "Alice", object(t, data["a"])["name"])
	assert.Equal(t, "Bob", object(t, data["b"])["name"])
	assert.Equal(t, "Alice", object(t, data["c"])["name"])
	assert.Equal(t, "Carol", object(t, data["d"])["name"])

	require.Len(t, repos.customers.batches, 1)
	assert.ElementsMatch(t, []int64{1, 2, 3}, repos.customers.batches[0])
}

func TestSchemaOrderToCustomerEdge(t *testing.T) {
	t.Parallel()
	repos := newMockRepos()

	result := execute(t, repos, `{
		order(id: 12) {
			id
			status
			customer {
				id
				name
			}
		}
	}`)
	require.Empty(t, result.Errors)

	order := object(t, object(t, result.Data)["order"])
	assert.Equal(t, 12, order["id"])
	assert.Equal(t, "Bob", object(t, order["customer"])["name"])
}

func TestSchemaPaymentUnion(t *testing.T) {
	t.Parallel()
	repos := newMockRepos()

	result := execute(t, repos, `{
		paid: order(id: 10) {
			payments {
				... on CreditCardPayment {
					id
					authorizationCode
					cardLastFour
				}
				... on StoreCreditPayment {
					id
					creditAccountId
				}
			}
		}
		legacy: order(id: 11) {
			payments {
				... on CreditCardPayment {
					id
					authorizationCode
				}
				... on StoreCreditPayment {
					id
					creditAccountId
				}
			}
		}
		unpaid: order(id: 12) {
			payments {
				... on CreditCardPayment {
					id
				}
				... on StoreCreditPayment {
					id
				}
			}
		}
	}`)
	require.Empty(t, result.Errors)
	data := object(t, result.Data)

	paidPayments := list(t, object(t, data["paid"])["payments"])
	require.Len(t, paidPayments, 1)
	cardPayment := object(t, paidPayments[0])
	assert.Equal(t, 500, cardPayment["id"])
	assert.Equal(t, "AUTH-500", cardPayment["authorizationCode"])
	assert.Equal(t, "4242", cardPayment["cardLastFour"])

	// The legacy row has no kind column but is classified by its attributes
	legacyPayments := list(t, object(t, data["legacy"])["payments"])
	require.Len(t, legacyPayments, 1)
	storeCreditPayment := object(t, legacyPayments[0])
	assert.Equal(t, 501, storeCreditPayment["id"])
	assert.Equal(t, "acct-501", storeCreditPayment["creditAccountId"])

	assert.Empty(t, list(t, object(t, data["unpaid"])["payments"]))

	require.Len(t, repos.payments.batches, 1)
	assert.ElementsMatch(t, []int64{10, 11, 12}, repos.payments.batches[0])
}

func TestSchemaNotFound(t *testing.T) {
	t.Parallel()
	repos := newMockRepos()

	result := execute(t, repos, `{
		customer(id: 999) {
			id
			name
		}
	}`)

	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "customer not found")
}

func TestSchemaMissingLoaders(t *testing.T) {
	t.Parallel()
	repos := newMockRepos()

	schema, err := graph.NewSchema(repos.repositories())
	require.NoError(t, err)

	// No loader bundle in the context: resolving must fail loudly rather
	// than fall back to unbatched fetching
	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ customer(id: 1) { id } }`,
		Context:       context.Background(),
	})

	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "no loaders in context")
}
