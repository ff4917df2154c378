package model

import "errors"

var (
	ErrCouponNotFound = errors.New("coupon not found")
	ErrDuplicateCode  = errors.New("coupon code already exists")
	ErrInvalidWindow  = errors.New("expiryTime must be after startTime")

	// ErrCouponBusy means the usage lock could not be acquired after
	// retries. The operation may be retried; the caller must surface it,
	// never swallow it.
	ErrCouponBusy = errors.New("coupon is being applied by another request, try again")
)
