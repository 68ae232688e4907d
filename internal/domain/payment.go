package domain

import (
	"fmt"
	"time"
)

type PaymentKind int

const (
	PaymentKindUnknown PaymentKind = iota
	PaymentKindCreditCard
	PaymentKindStoreCredit
)

func (pk PaymentKind) String() string {
	switch pk {
	case PaymentKindUnknown:
		return "unknown"
	case PaymentKindCreditCard:
		return "credit_card"
	case PaymentKindStoreCredit:
		return "store_credit"
	default:
		return fmt.Sprintf("<invalid payment kind>(%d)", int(pk))
	}
}

// Payment is a tagged union: Kind is the discriminant, and the variant-specific
// fields are only meaningful for the variant Kind names.
type Payment struct {
	ID          int64
	OrderID     int64
	AmountCents int64
	ReceivedAt  time.Time

	Kind PaymentKind

	// Credit card variant
	AuthorizationCode string
	CardLastFour      string

	// Store credit variant
	CreditAccountID string
}

// DiscriminateKind resolves the concrete variant of a payment. An explicit
// Kind is authoritative. Rows written before the kind column existed are
// classified by attribute sniffing, checked in fixed order: an authorization
// code implies a credit card payment, a credit account id implies store
// credit. A legacy row satisfying both sniff conditions is undefined in the
// original data model, so it is rejected rather than resolved one way.
func DiscriminateKind(payment Payment) (PaymentKind, error) {
	if payment.Kind != PaymentKindUnknown {
		return payment.Kind, nil
	}

	hasAuthorization := payment.AuthorizationCode != ""
	hasCreditAccount := payment.CreditAccountID != ""

	if hasAuthorization && hasCreditAccount {
		return PaymentKindUnknown, fmt.Errorf("%w: payment %d has both an authorization code and a credit account", ErrAmbiguousPayment, payment.ID)
	}
	if hasAuthorization {
		return PaymentKindCreditCard, nil
	}
	if hasCreditAccount {
		return PaymentKindStoreCredit, nil
	}

	return PaymentKindUnknown, fmt.Errorf("%w: payment %d", ErrUnknownPaymentKind, payment.ID)
}
