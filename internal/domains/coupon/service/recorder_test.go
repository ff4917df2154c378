package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shopcart-backend/internal/domains/coupon/model"
	"shopcart-backend/pkg/lock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(coupons *fakeCouponRepo, usages *fakeUsageRepo, locks lock.Manager) *UsageRecorder {
	return NewUsageRecorder(coupons, usages, locks, time.Second)
}

func TestRecorderRecordsUsage(t *testing.T) {
	coupon := activeCoupon()
	coupons := newFakeCouponRepo(coupon)
	usages := newFakeUsageRepo()
	recorder := newTestRecorder(coupons, usages, lock.NewMemoryManager(3, time.Millisecond))

	cartID := uuid.New()
	usage, err := recorder.Record(context.Background(), coupon.ID, "customer-1", cartID, dec("10"), dec("100"))
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.Equal(t, coupon.ID, usage.CouponID)
	assert.Equal(t, "customer-1", usage.CustomerID)
	assert.Equal(t, cartID, usage.CartID)
	assert.Equal(t, 1, usages.len())

	// Cached counter moves with the ledger.
	updated, err := coupons.FindByID(context.Background(), coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CurrentTotalUses)
}

func TestRecorderMissingCoupon(t *testing.T) {
	recorder := newTestRecorder(newFakeCouponRepo(), newFakeUsageRepo(), lock.NewMemoryManager(3, time.Millisecond))

	_, err := recorder.Record(context.Background(), uuid.New(), "customer-1", uuid.New(), dec("10"), dec("100"))
	assert.ErrorIs(t, err, model.ErrCouponNotFound)
}

func TestRecorderTotalLimitCheckedAgainstLedger(t *testing.T) {
	coupon := activeCoupon(func(c *model.Coupon) {
		c.MaxTotalUses = intPtr(2)
		// Stale cached counter must not matter; the ledger decides.
		c.CurrentTotalUses = 0
	})
	usages := newFakeUsageRepo(
		&model.CouponUsage{ID: uuid.New(), CouponID: coupon.ID, CustomerID: "a"},
		&model.CouponUsage{ID: uuid.New(), CouponID: coupon.ID, CustomerID: "b"},
	)
	recorder := newTestRecorder(newFakeCouponRepo(coupon), usages, lock.NewMemoryManager(3, time.Millisecond))

	_, err := recorder.Record(context.Background(), coupon.ID, "customer-1", uuid.New(), dec("10"), dec("100"))

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.CodeMaxTotalUsesReached, verr.Code)
	assert.Equal(t, 2, usages.len(), "no row appended past the limit")
}

func TestRecorderPerUserLimit(t *testing.T) {
	coupon := activeCoupon(func(c *model.Coupon) { c.MaxUsesPerUser = intPtr(1) })
	usages := newFakeUsageRepo(
		&model.CouponUsage{ID: uuid.New(), CouponID: coupon.ID, CustomerID: "customer-1"},
	)
	recorder := newTestRecorder(newFakeCouponRepo(coupon), usages, lock.NewMemoryManager(3, time.Millisecond))

	_, err := recorder.Record(context.Background(), coupon.ID, "customer-1", uuid.New(), dec("10"), dec("100"))

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.CodeMaxUserUsesReached, verr.Code)

	// A different customer is unaffected.
	_, err = recorder.Record(context.Background(), coupon.ID, "customer-2", uuid.New(), dec("10"), dec("100"))
	assert.NoError(t, err)
}

func TestRecorderLockContention(t *testing.T) {
	coupon := activeCoupon()
	locks := lock.NewMemoryManager(0, time.Millisecond)
	recorder := newTestRecorder(newFakeCouponRepo(coupon), newFakeUsageRepo(), locks)

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = locks.WithLock(context.Background(), []string{"coupon:" + coupon.ID.String()}, time.Second, func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	_, err := recorder.Record(context.Background(), coupon.ID, "customer-1", uuid.New(), dec("10"), dec("100"))
	assert.ErrorIs(t, err, model.ErrCouponBusy, "contention must surface, never a silent no-op")

	close(release)
}

func TestRecorderConcurrentPerUserLimit(t *testing.T) {
	coupon := activeCoupon(func(c *model.Coupon) { c.MaxUsesPerUser = intPtr(1) })
	coupons := newFakeCouponRepo(coupon)
	usages := newFakeUsageRepo()
	recorder := newTestRecorder(coupons, usages, lock.NewMemoryManager(50, time.Millisecond))

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := recorder.Record(context.Background(), coupon.ID, "customer-1", uuid.New(), dec("10"), dec("100"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			default:
				var verr *model.ValidationError
				if errors.As(err, &verr) || errors.Is(err, model.ErrCouponBusy) {
					rejected++
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes, "exactly one redemption may pass the limit")
	assert.Equal(t, workers-1, rejected, "every other attempt must be rejected loudly")
	assert.Equal(t, 1, usages.len())
}
