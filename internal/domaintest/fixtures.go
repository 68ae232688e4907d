// Package domaintest provides fixture builders for domain values in tests.
package domaintest

import (
	"fmt"
	"time"

	"github.com/JamesMReilly/shopgraph/internal/domain"
)

type customerBuilder struct {
	customer *domain.Customer
}

func (cb *customerBuilder) WithName(name string) *customerBuilder {
	cb.customer.Name = name
	return cb
}

func (cb *customerBuilder) WithEmail(email string) *customerBuilder {
	cb.customer.Email = email
	return cb
}

func (cb *customerBuilder) WithCreatedAt(createdAt time.Time) *customerBuilder {
	cb.customer.CreatedAt = createdAt
	return cb
}

func (cb *customerBuilder) Build() domain.Customer {
	return *cb.customer
}

func NewCustomerBuilder(id int64) *customerBuilder {
	return &customerBuilder{
		customer: &domain.Customer{
			ID:        id,
			Name:      fmt.Sprintf("Customer %d", id),
			Email:     fmt.Sprintf("customer-%d@example.com", id),
			CreatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

type orderBuilder struct {
	order *domain.Order
}

func (ob *orderBuilder) WithPlacedAt(placedAt time.Time) *orderBuilder {
	ob.order.PlacedAt = placedAt
	return ob
}

func (ob *orderBuilder) WithStatus(status string) *orderBuilder {
	ob.order.Status = status
	return ob
}

func (ob *orderBuilder) Build() domain.Order {
	return *ob.order
}

func NewOrderBuilder(id int64, customerID int64) *orderBuilder {
	return &orderBuilder{
		order: &domain.Order{
			ID:         id,
			CustomerID: customerID,
			PlacedAt:   time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
			Status:     "shipped",
		},
	}
}

type lineItemBuilder struct {
	lineItem *domain.LineItem
}

func (lb *lineItemBuilder) WithQuantity(quantity int64) *lineItemBuilder {
	lb.lineItem.Quantity = quantity
	return lb
}

func (lb *lineItemBuilder) WithUnitPriceCents(unitPriceCents int64) *lineItemBuilder {
	lb.lineItem.UnitPriceCents = unitPriceCents
	return lb
}

func (lb *lineItemBuilder) Build() domain.LineItem {
	return *lb.lineItem
}

func NewLineItemBuilder(id int64, orderID int64, productID int64) *lineItemBuilder {
	return &lineItemBuilder{
		lineItem: &domain.LineItem{
			ID:             id,
			OrderID:        orderID,
			ProductID:      productID,
			Quantity:       1,
			UnitPriceCents: 999,
		},
	}
}

type productBuilder struct {
	product *domain.Product
}

func (pb *productBuilder) WithName(name string) *productBuilder {
	pb.product.Name = name
	return pb
}

func (pb *productBuilder) WithPriceCents(priceCents int64) *productBuilder {
	pb.product.PriceCents = priceCents
	return pb
}

func (pb *productBuilder) Build() domain.Product {
	return *pb.product
}

func NewProductBuilder(id int64) *productBuilder {
	return &productBuilder{
		product: &domain.Product{
			ID:          id,
			Name:        fmt.Sprintf("Product %d", id),
			Description: fmt.Sprintf("Description of product %d", id),
			PriceCents:  999,
		},
	}
}

type paymentBuilder struct {
	payment *domain.Payment
}

func (pb *paymentBuilder) WithAmountCents(amountCents int64) *paymentBuilder {
	pb.payment.AmountCents = amountCents
	return pb
}

func (pb *paymentBuilder) WithKind(kind domain.PaymentKind) *paymentBuilder {
	pb.payment.Kind = kind
	return pb
}

func (pb *paymentBuilder) WithAuthorizationCode(code string) *paymentBuilder {
	pb.payment.AuthorizationCode = code
	return pb
}

func (pb *paymentBuilder) WithCardLastFour(lastFour string) *paymentBuilder {
	pb.payment.CardLastFour = lastFour
	return pb
}

func (pb *paymentBuilder) WithCreditAccountID(creditAccountID string) *paymentBuilder {
	pb.payment.CreditAccountID = creditAccountID
	return pb
}

func (pb *paymentBuilder) Build() domain.Payment {
	return *pb.payment
}

func NewPaymentBuilder(id int64, orderID int64) *paymentBuilder {
	return &paymentBuilder{
		payment: &domain.Payment{
			ID:          id,
			OrderID:     orderID,
			AmountCents: 1999,
			ReceivedAt:  time.Date(2024, time.March, 15, 12, 5, 0, 0, time.UTC),
		},
	}
}
