package service

import (
	"testing"
	"time"

	"shopcart-backend/internal/domains/coupon/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resolverNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func autoCoupon(code string, priority int, mutate ...func(*model.Coupon)) *model.Coupon {
	c := &model.Coupon{
		ID:            uuid.New(),
		Code:          code,
		CouponType:    model.CouponTypeAutoApplied,
		DiscountType:  model.DiscountTypeFixed,
		DiscountValue: dec("10"),
		StartTime:     resolverNow.Add(-time.Hour),
		ExpiryTime:    resolverNow.Add(time.Hour),
		MinCartValue:  dec("0"),
		Priority:      priority,
		IsActive:      true,
	}
	for _, m := range mutate {
		m(c)
	}
	return c
}

func TestResolveBestCouponHighestDiscountWins(t *testing.T) {
	cart := cartWith(line(uuid.New(), "books", 2, "100.00"))

	// Higher priority on the smaller discount must not matter.
	small := autoCoupon("SMALL", 100, func(c *model.Coupon) { c.DiscountValue = dec("10") })
	big := autoCoupon("BIG", 1, func(c *model.Coupon) { c.DiscountValue = dec("20") })

	best := ResolveBestCoupon([]*model.Coupon{small, big}, cart, resolverNow, nil)
	require.NotNil(t, best)
	assert.Equal(t, "BIG", best.Coupon.Code)
	assert.True(t, best.Discount.Equal(dec("20")))
}

func TestResolveBestCouponPriorityBreaksTies(t *testing.T) {
	cart := cartWith(line(uuid.New(), "books", 1, "100.00"))

	low := autoCoupon("LOW", 5)
	high := autoCoupon("HIGH", 10)

	best := ResolveBestCoupon([]*model.Coupon{low, high}, cart, resolverNow, nil)
	require.NotNil(t, best)
	assert.Equal(t, "HIGH", best.Coupon.Code)
}

func TestResolveBestCouponCodeBreaksFullTies(t *testing.T) {
	cart := cartWith(line(uuid.New(), "books", 1, "100.00"))

	first := autoCoupon("ALPHA", 5)
	second := autoCoupon("BRAVO", 5)

	// Same discount, same priority: the lexicographically smaller code
	// wins so all replicas resolve identically.
	best := ResolveBestCoupon([]*model.Coupon{second, first}, cart, resolverNow, nil)
	require.NotNil(t, best)
	assert.Equal(t, "ALPHA", best.Coupon.Code)
}

func TestResolveBestCouponSkipsInvalidCandidates(t *testing.T) {
	cart := cartWith(line(uuid.New(), "books", 1, "50.00"))

	inactive := autoCoupon("OFF", 100, func(c *model.Coupon) { c.IsActive = false })
	tooBig := autoCoupon("RICH", 100, func(c *model.Coupon) { c.MinCartValue = dec("500") })
	eligible := autoCoupon("OK", 1, func(c *model.Coupon) { c.DiscountValue = dec("5") })

	best := ResolveBestCoupon([]*model.Coupon{inactive, tooBig, eligible}, cart, resolverNow, nil)
	require.NotNil(t, best)
	assert.Equal(t, "OK", best.Coupon.Code)
}

func TestResolveBestCouponSkipsZeroDiscount(t *testing.T) {
	cart := cartWith(line(uuid.New(), "books", 1, "50.00"))

	zero := autoCoupon("ZERO", 10, func(c *model.Coupon) { c.DiscountValue = dec("0") })

	best := ResolveBestCoupon([]*model.Coupon{zero}, cart, resolverNow, nil)
	assert.Nil(t, best, "a coupon granting nothing must not be auto-applied")
}

func TestResolveBestCouponRespectsUserUsage(t *testing.T) {
	cart := cartWith(line(uuid.New(), "books", 1, "50.00"))

	exhausted := autoCoupon("USED", 10, func(c *model.Coupon) {
		c.MaxUsesPerUser = intPtr(1)
		c.DiscountValue = dec("20")
	})
	fresh := autoCoupon("FRESH", 1, func(c *model.Coupon) { c.DiscountValue = dec("5") })

	usage := map[uuid.UUID]int{exhausted.ID: 1}
	best := ResolveBestCoupon([]*model.Coupon{exhausted, fresh}, cart, resolverNow, usage)
	require.NotNil(t, best)
	assert.Equal(t, "FRESH", best.Coupon.Code)
}

func TestResolveBestCouponNoCandidates(t *testing.T) {
	cart := cartWith(line(uuid.New(), "books", 1, "50.00"))
	assert.Nil(t, ResolveBestCoupon(nil, cart, resolverNow, nil))
}
