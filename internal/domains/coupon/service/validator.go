package service

import (
	"fmt"
	"time"

	"shopcart-backend/internal/domains/coupon/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidateCoupon runs the eligibility checks for one coupon against one
// cart, short-circuiting on the first failure. It is a pure function: the
// caller supplies the clock and the customer's usage count, so identical
// inputs always produce identical results and no locks are needed on the
// read path.
//
// The total-use check here reads the cached counter on the coupon row; the
// usage recorder repeats it against the ledger before committing.
func ValidateCoupon(coupon *model.Coupon, cart *model.CartSnapshot, now time.Time, userUsageCount int) *model.ValidationResult {
	if coupon == nil {
		return newInvalid(model.CodeCouponNotFound, "coupon not found")
	}
	if !coupon.IsActive {
		return newInvalid(model.CodeCouponInactive, "coupon is not active")
	}
	if now.Before(coupon.StartTime) {
		return newInvalid(model.CodeCouponNotStarted, "coupon is not valid yet")
	}
	if now.After(coupon.ExpiryTime) {
		return newInvalid(model.CodeCouponExpired, "coupon has expired")
	}
	if cart == nil || cart.IsEmpty() {
		return newInvalid(model.CodeCartEmpty, "cart is empty")
	}
	if cart.TotalItems() < coupon.MinCartItems {
		return newInvalid(model.CodeMinCartItemsNotMet,
			fmt.Sprintf("cart must contain at least %d items", coupon.MinCartItems))
	}

	subtotal, matchedIDs := applicableSubtotal(coupon, cart)

	if subtotal.LessThan(coupon.MinCartValue) {
		return newInvalid(model.CodeMinCartValueNotMet,
			fmt.Sprintf("cart value must be at least %s", coupon.MinCartValue.StringFixed(2)))
	}
	if coupon.HasRestrictions() && len(matchedIDs) == 0 {
		return newInvalid(model.CodeNoApplicableItems, "no items in the cart qualify for this coupon")
	}
	if coupon.MaxTotalUses != nil && coupon.CurrentTotalUses >= *coupon.MaxTotalUses {
		return newInvalid(model.CodeMaxTotalUsesReached, "coupon has reached its maximum number of uses")
	}
	if coupon.MaxUsesPerUser != nil && userUsageCount >= *coupon.MaxUsesPerUser {
		return newInvalid(model.CodeMaxUserUsesReached, "you have already used this coupon the maximum number of times")
	}

	return &model.ValidationResult{
		Valid:                true,
		Discount:             CalculateDiscount(coupon, subtotal),
		ApplicableSubtotal:   subtotal,
		ApplicableProductIDs: matchedIDs,
		Coupon:               coupon,
	}
}

// applicableSubtotal returns the portion of the cart the coupon discounts.
// With no allow-list the whole cart qualifies and the matched id list is
// nil. Otherwise an item qualifies when its product id or category is
// allow-listed, and the matched product ids are returned.
func applicableSubtotal(coupon *model.Coupon, cart *model.CartSnapshot) (decimal.Decimal, []uuid.UUID) {
	if !coupon.HasRestrictions() {
		return cart.Subtotal(), nil
	}

	allowedProducts := make(map[uuid.UUID]struct{}, len(coupon.ApplicableProductIDs))
	for _, id := range coupon.ApplicableProductIDs {
		allowedProducts[id] = struct{}{}
	}
	allowedCategories := make(map[string]struct{}, len(coupon.ApplicableCategories))
	for _, cat := range coupon.ApplicableCategories {
		allowedCategories[cat] = struct{}{}
	}

	subtotal := decimal.Zero
	var matched []uuid.UUID
	for _, item := range cart.Items {
		_, productOK := allowedProducts[item.ProductID]
		_, categoryOK := allowedCategories[item.Category]
		if !productOK && !categoryOK {
			continue
		}
		subtotal = subtotal.Add(item.LineTotal)
		matched = append(matched, item.ProductID)
	}
	return subtotal, matched
}

func newInvalid(code model.ValidationCode, message string) *model.ValidationResult {
	return &model.ValidationResult{
		Valid:              false,
		Code:               code,
		Message:            message,
		Discount:           decimal.Zero,
		ApplicableSubtotal: decimal.Zero,
	}
}
