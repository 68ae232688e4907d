package domain

import "time"

type Order struct {
	ID         int64
	CustomerID int64
	PlacedAt   time.Time
	Status     string
}

type LineItem struct {
	ID             int64
	OrderID        int64
	ProductID      int64
	Quantity       int64
	UnitPriceCents int64
}
