package domain

import "errors"

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrAmbiguousPayment   = errors.New("payment matches multiple kinds")
	ErrUnknownPaymentKind = errors.New("payment matches no known kind")
)
