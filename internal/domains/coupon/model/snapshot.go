package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SnapshotItem is one cart line as seen by the validator: product identity,
// its category, the quantity, and the line total at current prices.
type SnapshotItem struct {
	ProductID uuid.UUID
	Category  string
	Quantity  int
	LineTotal decimal.Decimal
}

// CartSnapshot is the read-only view of a cart the validator operates on.
// Building it up front keeps the validator pure and free of repository
// calls.
type CartSnapshot struct {
	CartID uuid.UUID
	Items  []SnapshotItem
}

func (s *CartSnapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// TotalItems is the sum of quantities across all lines.
func (s *CartSnapshot) TotalItems() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

func (s *CartSnapshot) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	return subtotal
}
