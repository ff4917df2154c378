package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the aggregate root. A customer has exactly one active cart;
// the coupon slot holds at most one coupon, with IsCouponAutoApplied
// telling a system-selected coupon apart from one the customer entered.
type Cart struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	CustomerID          string     `db:"customer_id" json:"customerId"`
	AppliedCouponID     *uuid.UUID `db:"applied_coupon_id" json:"appliedCouponId,omitempty"`
	IsCouponAutoApplied bool       `db:"is_coupon_auto_applied" json:"isCouponAutoApplied"`
	IsActive            bool       `db:"is_active" json:"isActive"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
}

// HasCoupon reports whether the coupon slot is occupied.
func (c *Cart) HasCoupon() bool {
	return c.AppliedCouponID != nil
}

// HasManualCoupon reports whether the slot holds a customer-entered
// coupon. Manual intent is sticky across reconciliation.
func (c *Cart) HasManualCoupon() bool {
	return c.AppliedCouponID != nil && !c.IsCouponAutoApplied
}

// ClearCoupon empties the coupon slot.
func (c *Cart) ClearCoupon() {
	c.AppliedCouponID = nil
	c.IsCouponAutoApplied = false
}

// SetCoupon fills the coupon slot.
func (c *Cart) SetCoupon(couponID uuid.UUID, auto bool) {
	id := couponID
	c.AppliedCouponID = &id
	c.IsCouponAutoApplied = auto
}

// CartItem is one line in a cart. Unique per (cartId, productId);
// re-adding a product increments the quantity instead of creating a
// second row.
type CartItem struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CartID    uuid.UUID `db:"cart_id" json:"cartId"`
	ProductID uuid.UUID `db:"product_id" json:"productId"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ItemDetail is a cart line joined with its product for the read path.
// The line total is computed at read time from the current price, never
// snapshotted.
type ItemDetail struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	ProductID uuid.UUID       `db:"product_id" json:"productId"`
	Name      string          `db:"name" json:"name"`
	Category  string          `db:"category" json:"category"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unitPrice"`
	Quantity  int             `db:"quantity" json:"quantity"`
	LineTotal decimal.Decimal `db:"line_total" json:"lineTotal"`
}
