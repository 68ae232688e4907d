package graph

import (
	"fmt"

	"github.com/JamesMReilly/shopgraph/internal/domain"
	"github.com/JamesMReilly/shopgraph/internal/loader"
	"github.com/JamesMReilly/shopgraph/internal/reporting"
	"github.com/graphql-go/graphql"
)

// deferred wraps a loader thunk in the shape graphql-go recognizes as a
// deferred resolver. The engine collects these for a whole selection set
// before forcing any of them, which is what lets sibling fields share one
// batch.
func deferred[V any](thunk loader.Thunk[V]) func() (interface{}, error) {
	return func() (interface{}, error) {
		value, err := thunk()
		if err != nil {
			return nil, err
		}
		return value, nil
	}
}

func idArg(p graphql.ResolveParams) (int64, error) {
	id, ok := p.Args["id"].(int)
	if !ok {
		return 0, fmt.Errorf("missing id argument")
	}
	return int64(id), nil
}

// NewSchema builds the read schema. Single-key lookups go through the
// request's loaders; only the top-level customers listing talks to a
// repository directly, and it primes the customer loader with every row it
// returns.
func NewSchema(repos Repositories) (graphql.Schema, error) {
	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, err := sourceProduct(p)
					if err != nil {
						return nil, err
					}
					return product.ID, nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, err := sourceProduct(p)
					if err != nil {
						return nil, err
					}
					return product.Name, nil
				},
			},
			"description": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, err := sourceProduct(p)
					if err != nil {
						return nil, err
					}
					return product.Description, nil
				},
			},
			"priceCents": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, err := sourceProduct(p)
					if err != nil {
						return nil, err
					}
					return product.PriceCents, nil
				},
			},
		},
	})

	lineItemType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LineItem",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lineItem, err := sourceLineItem(p)
					if err != nil {
						return nil, err
					}
					return lineItem.ID, nil
				},
			},
			"quantity": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lineItem, err := sourceLineItem(p)
					if err != nil {
						return nil, err
					}
					return lineItem.Quantity, nil
				},
			},
			"unitPriceCents": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lineItem, err := sourceLineItem(p)
					if err != nil {
						return nil, err
					}
					return lineItem.UnitPriceCents, nil
				},
			},
			"product": &graphql.Field{
				Type: graphql.NewNonNull(productType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lineItem, err := sourceLineItem(p)
					if err != nil {
						return nil, err
					}
					loaders, err := FromContext(p.Context)
					if err != nil {
						return nil, err
					}
					return deferred(loaders.ProductByID.LoadThunk(p.Context, lineItem.ProductID)), nil
				},
			},
		},
	})

	creditCardPaymentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreditCardPayment",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					payment, err := sourcePayment(p)
					if err != nil {
						return nil, err
					}
					return payment.ID, nil
				},
			},
			"amountCents": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					payment, err := sourcePayment(p)
					if err != nil {
						return nil, err
					}
					return payment.AmountCents, nil
				},
			},
			"receivedAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					payment, err := sourcePayment(p)
					if err != nil {
						return nil, err
					}
					return payment.ReceivedAt, nil
				},
			},
			"authorizationCode": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					payment, err := sourcePayment(p)
					if err != nil {
						return nil, err
					}
					return payment.AuthorizationCode, nil
				},
			},
			"cardLastFour": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					payment, err := sourcePayment(p)
					if err != nil {
						return nil, err
					}
					return payment.CardLastFour, nil
				},
			},
		},
	})

	storeCreditPaymentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "StoreCreditPayment",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					payment, err := sourcePayment(p)
					if err != nil {
						return nil, err
					}
					return payment.ID, nil
				},
			},
			"amountCents": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					payment, err := sourcePayment(p)
					if err != nil {
						return nil, err
					}
					return payment.AmountCents, nil
				},
			},
			"receivedAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					payment, err := sourcePayment(p)
					if err != nil {
						return nil, err
					}
					return payment.ReceivedAt, nil
				},
			},
			"creditAccountId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					payment, err := sourcePayment(p)
					if err != nil {
						return nil, err
					}
					return payment.CreditAccountID, nil
				},
			},
		},
	})

	paymentType := graphql.NewUnion(graphql.UnionConfig{
		Name:  "Payment",
		Types: []*graphql.Object{creditCardPaymentType, storeCreditPaymentType},
		ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
			payment, ok := p.Value.(domain.Payment)
			if !ok {
				return nil
			}

			kind, err := domain.DiscriminateKind(payment)
			if err != nil {
				// Ambiguous or unclassifiable rows become field errors
				// rather than being forced into one variant
				reporting.Report(p.Context, err)
				return nil
			}

			switch kind {
			case domain.PaymentKindCreditCard:
				return creditCardPaymentType
			case domain.PaymentKindStoreCredit:
				return storeCreditPaymentType
			default:
				return nil
			}
		},
	})

	customerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Customer",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					customer, err := sourceCustomer(p)
					if err != nil {
						return nil, err
					}
					return customer.ID, nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					customer, err := sourceCustomer(p)
					if err != nil {
						return nil, err
					}
					return customer.Name, nil
				},
			},
			"email": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					customer, err := sourceCustomer(p)
					if err != nil {
						return nil, err
					}
					return customer.Email, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					customer, err := sourceCustomer(p)
					if err != nil {
						return nil, err
					}
					return customer.CreatedAt, nil
				},
			},
		},
	})

	orderType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order, err := sourceOrder(p)
					if err != nil {
						return nil, err
					}
					return order.ID, nil
				},
			},
			"placedAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order, err := sourceOrder(p)
					if err != nil {
						return nil, err
					}
					return order.PlacedAt, nil
				},
			},
			"status": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order, err := sourceOrder(p)
					if err != nil {
						return nil, err
					}
					return order.Status, nil
				},
			},
			"lineItems": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(lineItemType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order, err := sourceOrder(p)
					if err != nil {
						return nil, err
					}
					loaders, err := FromContext(p.Context)
					if err != nil {
						return nil, err
					}
					return deferred(loaders.LineItemsByOrder.LoadThunk(p.Context, order.ID)), nil
				},
			},
			"payments": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(paymentType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order, err := sourceOrder(p)
					if err != nil {
						return nil, err
					}
					loaders, err := FromContext(p.Context)
					if err != nil {
						return nil, err
					}
					return deferred(loaders.PaymentsByOrder.LoadThunk(p.Context, order.ID)), nil
				},
			},
		},
	})

	// Customer <-> Order is cyclic, so these edges are attached after both
	// object types exist
	customerType.AddFieldConfig("orders", &graphql.Field{
		Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(orderType))),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			customer, err := sourceCustomer(p)
			if err != nil {
				return nil, err
			}
			loaders, err := FromContext(p.Context)
			if err != nil {
				return nil, err
			}
			return deferred(loaders.OrdersByCustomer.LoadThunk(p.Context, customer.ID)), nil
		},
	})
	orderType.AddFieldConfig("customer", &graphql.Field{
		Type: graphql.NewNonNull(customerType),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			order, err := sourceOrder(p)
			if err != nil {
				return nil, err
			}
			loaders, err := FromContext(p.Context)
			if err != nil {
				return nil, err
			}
			return deferred(loaders.CustomerByID.LoadThunk(p.Context, order.CustomerID)), nil
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"customers": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(customerType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					customers, err := repos.Customers.List(p.Context)
					if err != nil {
						return nil, fmt.Errorf("failed to list customers: %w", err)
					}

					// Seed the by-id loader so nested customer edges
					// resolve without another round trip
					loaders, err := FromContext(p.Context)
					if err != nil {
						return nil, err
					}
					for _, customer := range customers {
						loaders.CustomerByID.Prime(customer.ID, customer)
					}

					return customers, nil
				},
			},
			"customer": &graphql.Field{
				Type: customerType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p)
					if err != nil {
						return nil, err
					}
					loaders, err := FromContext(p.Context)
					if err != nil {
						return nil, err
					}
					return deferred(loaders.CustomerByID.LoadThunk(p.Context, id)), nil
				},
			},
			"order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p)
					if err != nil {
						return nil, err
					}
					loaders, err := FromContext(p.Context)
					if err != nil {
						return nil, err
					}
					return deferred(loaders.OrderByID.LoadThunk(p.Context, id)), nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p)
					if err != nil {
						return nil, err
					}
					loaders, err := FromContext(p.Context)
					if err != nil {
						return nil, err
					}
					return deferred(loaders.ProductByID.LoadThunk(p.Context, id)), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func sourceCustomer(p graphql.ResolveParams) (domain.Customer, error) {
	customer, ok := p.Source.(domain.Customer)
	if !ok {
		return domain.Customer{}, fmt.Errorf("expected customer source, got %T", p.Source)
	}
	return customer, nil
}

func sourceOrder(p graphql.ResolveParams) (domain.Order, error) {
	order, ok := p.Source.(domain.Order)
	if !ok {
		return domain.Order{}, fmt.Errorf("expected order source, got %T", p.Source)
	}
	return order, nil
}

func sourceLineItem(p graphql.ResolveParams) (domain.LineItem, error) {
	lineItem, ok := p.Source.(domain.LineItem)
	if !ok {
		return domain.LineItem{}, fmt.Errorf("expected line item source, got %T", p.Source)
	}
	return lineItem, nil
}

func sourceProduct(p graphql.ResolveParams) (domain.Product, error) {
	product, ok := p.Source.(domain.Product)
	if !ok {
		return domain.Product{}, fmt.Errorf("expected product source, got %T", p.Source)
	}
	return product, nil
}

func sourcePayment(p graphql.ResolveParams) (domain.Payment, error) {
	payment, ok := p.Source.(domain.Payment)
	if !ok {
		return domain.Payment{}, fmt.Errorf("expected payment source, got %T", p.Source)
	}
	return payment, nil
}
