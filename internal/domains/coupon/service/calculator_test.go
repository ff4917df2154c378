package service

import (
	"testing"
	"time"

	"shopcart-backend/internal/domains/coupon/model"

	"github.com/stretchr/testify/assert"
)

func percentageCoupon(value string, cap *string) *model.Coupon {
	c := &model.Coupon{
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: dec(value),
	}
	if cap != nil {
		c.MaxDiscountAmount = decPtr(*cap)
	}
	return c
}

func fixedCoupon(value string) *model.Coupon {
	return &model.Coupon{
		DiscountType:  model.DiscountTypeFixed,
		DiscountValue: dec(value),
	}
}

func strPtr(s string) *string { return &s }

func TestCalculateDiscount(t *testing.T) {
	tests := []struct {
		name     string
		coupon   *model.Coupon
		subtotal string
		want     string
	}{
		{
			name:     "percentage capped by max discount amount",
			coupon:   percentageCoupon("50", strPtr("30")),
			subtotal: "199.98",
			want:     "30",
		},
		{
			name:     "percentage rounds half up to two places",
			coupon:   percentageCoupon("15", nil),
			subtotal: "99.99",
			want:     "15",
		},
		{
			name:     "percentage below cap is untouched",
			coupon:   percentageCoupon("10", strPtr("50")),
			subtotal: "200",
			want:     "20",
		},
		{
			name:     "full percentage equals subtotal",
			coupon:   percentageCoupon("100", nil),
			subtotal: "55.55",
			want:     "55.55",
		},
		{
			name:     "fixed amount within subtotal",
			coupon:   fixedCoupon("10"),
			subtotal: "100",
			want:     "10",
		},
		{
			name:     "fixed amount clamped to subtotal",
			coupon:   fixedCoupon("50"),
			subtotal: "30",
			want:     "30",
		},
		{
			name:     "zero subtotal yields zero",
			coupon:   fixedCoupon("10"),
			subtotal: "0",
			want:     "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDiscount(tt.coupon, dec(tt.subtotal))
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestCalculateDiscountNeverExceedsSubtotal(t *testing.T) {
	subtotals := []string{"0.01", "9.99", "49.99", "100", "12345.67"}
	coupons := []*model.Coupon{
		percentageCoupon("100", nil),
		percentageCoupon("99.9", nil),
		fixedCoupon("999999"),
	}

	for _, s := range subtotals {
		for _, c := range coupons {
			got := CalculateDiscount(c, dec(s))
			assert.True(t, got.LessThanOrEqual(dec(s)), "discount %s exceeds subtotal %s", got, s)
			assert.False(t, got.IsNegative())
		}
	}
}

func TestCalculateDiscountTwoDecimalPlaces(t *testing.T) {
	coupon := percentageCoupon("33", nil)
	got := CalculateDiscount(coupon, dec("10.01"))
	// 33% of 10.01 = 3.3033 -> 3.30
	assert.True(t, got.Equal(dec("3.30")), "got %s", got)
	assert.LessOrEqual(t, int(got.Exponent())*-1, 2)
}

// Sanity check that calculator behavior is stable over time inputs it
// never reads.
func TestCalculateDiscountIgnoresClock(t *testing.T) {
	coupon := fixedCoupon("5")
	coupon.StartTime = time.Now().Add(time.Hour)
	coupon.ExpiryTime = time.Now().Add(2 * time.Hour)

	got := CalculateDiscount(coupon, dec("20"))
	assert.True(t, got.Equal(dec("5")))
}
