package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponType distinguishes how a coupon reaches a cart.
type CouponType string

const (
	// CouponTypeGeneral requires the customer to enter the code manually.
	CouponTypeGeneral CouponType = "GENERAL"
	// CouponTypeAutoApplied is selected by the system whenever the cart
	// meets the coupon's conditions.
	CouponTypeAutoApplied CouponType = "AUTO_APPLIED"
)

func (t CouponType) IsValid() bool {
	return t == CouponTypeGeneral || t == CouponTypeAutoApplied
}

type DiscountType string

const (
	DiscountTypeFixed      DiscountType = "FIXED"
	DiscountTypePercentage DiscountType = "PERCENTAGE"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountTypeFixed || t == DiscountTypePercentage
}

// Coupon is a promotional rule set. currentTotalUses is a cached counter
// maintained by the usage recorder; the usage ledger is authoritative for
// limit checks.
type Coupon struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`

	CouponType   CouponType   `db:"coupon_type" json:"couponType"`
	DiscountType DiscountType `db:"discount_type" json:"discountType"`

	DiscountValue     decimal.Decimal  `db:"discount_value" json:"discountValue"`
	MaxDiscountAmount *decimal.Decimal `db:"max_discount_amount" json:"maxDiscountAmount,omitempty"`

	StartTime  time.Time `db:"start_time" json:"startTime"`
	ExpiryTime time.Time `db:"expiry_time" json:"expiryTime"`

	MinCartItems int             `db:"min_cart_items" json:"minCartItems"`
	MinCartValue decimal.Decimal `db:"min_cart_value" json:"minCartValue"`

	// Allow-lists; nil or empty means the coupon applies to all products.
	ApplicableProductIDs []uuid.UUID `db:"applicable_product_ids" json:"applicableProductIds,omitempty"`
	ApplicableCategories []string    `db:"applicable_categories" json:"applicableCategories,omitempty"`

	MaxTotalUses     *int `db:"max_total_uses" json:"maxTotalUses,omitempty"`
	CurrentTotalUses int  `db:"current_total_uses" json:"currentTotalUses"`
	MaxUsesPerUser   *int `db:"max_uses_per_user" json:"maxUsesPerUser,omitempty"`

	Priority int  `db:"priority" json:"priority"`
	IsActive bool `db:"is_active" json:"isActive"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NormalizeCode canonicalizes a coupon code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c *Coupon) IsAutoApplied() bool {
	return c.CouponType == CouponTypeAutoApplied
}

// HasRestrictions reports whether a product or category allow-list is set.
func (c *Coupon) HasRestrictions() bool {
	return len(c.ApplicableProductIDs) > 0 || len(c.ApplicableCategories) > 0
}

func (c *Coupon) IsWithinWindow(now time.Time) bool {
	return !now.Before(c.StartTime) && !now.After(c.ExpiryTime)
}
