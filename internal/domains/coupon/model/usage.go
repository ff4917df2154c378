package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponUsage is an append-only ledger entry recording one redemption.
// Rows are never updated or deleted; per-user limits are counted from
// this table.
type CouponUsage struct {
	ID                     uuid.UUID       `db:"id" json:"id"`
	CouponID               uuid.UUID       `db:"coupon_id" json:"couponId"`
	CustomerID             string          `db:"customer_id" json:"customerId"`
	CartID                 uuid.UUID       `db:"cart_id" json:"cartId"`
	DiscountApplied        decimal.Decimal `db:"discount_applied" json:"discountApplied"`
	CartTotalAtApplication decimal.Decimal `db:"cart_total_at_application" json:"cartTotalAtApplication"`
	AppliedAt              time.Time       `db:"applied_at" json:"appliedAt"`
}
