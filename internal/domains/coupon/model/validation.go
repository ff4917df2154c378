package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidationCode identifies why a coupon was rejected for a cart.
type ValidationCode string

const (
	CodeCouponNotFound      ValidationCode = "COUPON_NOT_FOUND"
	CodeCouponInactive      ValidationCode = "COUPON_INACTIVE"
	CodeCouponNotStarted    ValidationCode = "COUPON_NOT_STARTED"
	CodeCouponExpired       ValidationCode = "COUPON_EXPIRED"
	CodeCartEmpty           ValidationCode = "CART_EMPTY"
	CodeMinCartItemsNotMet  ValidationCode = "MIN_CART_ITEMS_NOT_MET"
	CodeMinCartValueNotMet  ValidationCode = "MIN_CART_VALUE_NOT_MET"
	CodeNoApplicableItems   ValidationCode = "NO_APPLICABLE_PRODUCTS"
	CodeMaxTotalUsesReached ValidationCode = "MAX_TOTAL_USES_REACHED"
	CodeMaxUserUsesReached  ValidationCode = "MAX_USER_USES_REACHED"
)

// ValidationResult is the outcome of checking one coupon against one cart.
// When Valid is false, Code and Message explain the first failed check.
// When Valid is true, Discount holds the computed discount and
// ApplicableSubtotal the portion of the cart it was computed from.
type ValidationResult struct {
	Valid              bool            `json:"valid"`
	Code               ValidationCode  `json:"code,omitempty"`
	Message            string          `json:"message,omitempty"`
	Discount           decimal.Decimal `json:"discount"`
	ApplicableSubtotal decimal.Decimal `json:"applicableSubtotal"`
	// ApplicableProductIDs lists the cart products the discount covers;
	// nil means the whole cart.
	ApplicableProductIDs []uuid.UUID `json:"applicableProductIds,omitempty"`
	Coupon               *Coupon     `json:"coupon,omitempty"`
}

// Err converts a failed result into a ValidationError. Returns nil for a
// valid result.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Code: r.Code, Message: r.Message}
}

// ValidationError carries a ValidationCode across layer boundaries, so
// handlers can surface the exact rejection reason. The usage recorder also
// returns it when a limit check fails inside the lock.
type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
