package model

import "errors"

var (
	ErrCartNotFound       = errors.New("cart not found")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrNoCouponApplied    = errors.New("no coupon is applied to this cart")
	ErrInsufficientStock  = errors.New("requested quantity exceeds available stock")
	ErrProductUnavailable = errors.New("product is not available")
)
