package service

import (
	"shopcart-backend/internal/domains/coupon/model"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// CalculateDiscount computes the discount a coupon grants on the given
// applicable subtotal. The result never exceeds the subtotal and is
// rounded to two decimal places, half up.
func CalculateDiscount(coupon *model.Coupon, applicableSubtotal decimal.Decimal) decimal.Decimal {
	if applicableSubtotal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case model.DiscountTypeFixed:
		discount = coupon.DiscountValue
	case model.DiscountTypePercentage:
		discount = applicableSubtotal.Mul(coupon.DiscountValue).Div(oneHundred)
		if coupon.MaxDiscountAmount != nil && discount.GreaterThan(*coupon.MaxDiscountAmount) {
			discount = *coupon.MaxDiscountAmount
		}
	default:
		return decimal.Zero
	}

	if discount.GreaterThan(applicableSubtotal) {
		discount = applicableSubtotal
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount.Round(2)
}
