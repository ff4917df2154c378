package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"shopcart-backend/internal/domains/cart/model"
	couponModel "shopcart-backend/internal/domains/coupon/model"
	couponService "shopcart-backend/internal/domains/coupon/service"
	productModel "shopcart-backend/internal/domains/product/model"
	"shopcart-backend/pkg/lock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeCartRepo struct {
	mu       sync.Mutex
	carts    map[uuid.UUID]*model.Cart
	items    []*model.CartItem
	products map[uuid.UUID]*productModel.Product
}

func newFakeCartRepo(products map[uuid.UUID]*productModel.Product) *fakeCartRepo {
	return &fakeCartRepo{
		carts:    make(map[uuid.UUID]*model.Cart),
		products: products,
	}
}

func (r *fakeCartRepo) FindActiveByCustomer(_ context.Context, customerID string) (*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.carts {
		if c.CustomerID == customerID && c.IsActive {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeCartRepo) Create(_ context.Context, cart *model.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *cart
	r.carts[cart.ID] = &clone
	return nil
}

func (r *fakeCartRepo) Save(_ context.Context, cart *model.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[cart.ID]; !ok {
		return model.ErrCartNotFound
	}
	clone := *cart
	clone.UpdatedAt = time.Now()
	r.carts[cart.ID] = &clone
	return nil
}

func (r *fakeCartRepo) FindItem(_ context.Context, cartID, productID uuid.UUID) (*model.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.items {
		if i.CartID == cartID && i.ProductID == productID {
			clone := *i
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeCartRepo) FindItemByID(_ context.Context, itemID uuid.UUID) (*model.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.items {
		if i.ID == itemID {
			clone := *i
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeCartRepo) UpsertItem(_ context.Context, item *model.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.items {
		if i.CartID == item.CartID && i.ProductID == item.ProductID {
			i.Quantity += item.Quantity
			i.UpdatedAt = time.Now()
			return nil
		}
	}
	clone := *item
	r.items = append(r.items, &clone)
	return nil
}

func (r *fakeCartRepo) UpdateItemQuantity(_ context.Context, itemID uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.items {
		if i.ID == itemID {
			i.Quantity = quantity
			i.UpdatedAt = time.Now()
			return nil
		}
	}
	return model.ErrCartItemNotFound
}

func (r *fakeCartRepo) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx, i := range r.items {
		if i.ID == itemID {
			r.items = append(r.items[:idx], r.items[idx+1:]...)
			return nil
		}
	}
	return model.ErrCartItemNotFound
}

func (r *fakeCartRepo) DeleteAllItems(_ context.Context, cartID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	for _, i := range r.items {
		if i.CartID != cartID {
			kept = append(kept, i)
		}
	}
	r.items = kept
	return nil
}

func (r *fakeCartRepo) ListItemDetails(_ context.Context, cartID uuid.UUID) ([]*model.ItemDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var details []*model.ItemDetail
	for _, i := range r.items {
		if i.CartID != cartID {
			continue
		}
		p := r.products[i.ProductID]
		if p == nil {
			continue
		}
		details = append(details, &model.ItemDetail{
			ID:        i.ID,
			ProductID: i.ProductID,
			Name:      p.Name,
			Category:  p.Category,
			UnitPrice: p.Price,
			Quantity:  i.Quantity,
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(i.Quantity))),
		})
	}
	return details, nil
}

func (r *fakeCartRepo) PurgeStaleCarts(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	for id, c := range r.carts {
		if !c.IsActive && c.UpdatedAt.Before(cutoff) {
			delete(r.carts, id)
			purged++
		}
	}
	return purged, nil
}

type fakeProducts struct {
	products map[uuid.UUID]*productModel.Product
}

func (f *fakeProducts) GetProduct(_ context.Context, id uuid.UUID) (*productModel.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, productModel.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProducts) ListProducts(context.Context, int, int) ([]*productModel.Product, int, error) {
	return nil, 0, nil
}

func (f *fakeProducts) CreateProduct(context.Context, productModel.CreateProductRequest) (*productModel.Product, error) {
	return nil, nil
}

func (f *fakeProducts) UpdateProduct(context.Context, uuid.UUID, productModel.UpdateProductRequest) (*productModel.Product, error) {
	return nil, nil
}

func (f *fakeProducts) DeleteProduct(context.Context, uuid.UUID) error {
	return nil
}

type memCouponRepo struct {
	mu      sync.Mutex
	coupons map[uuid.UUID]*couponModel.Coupon
}

func newMemCouponRepo() *memCouponRepo {
	return &memCouponRepo{coupons: make(map[uuid.UUID]*couponModel.Coupon)}
}

func (r *memCouponRepo) FindByID(_ context.Context, id uuid.UUID) (*couponModel.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (r *memCouponRepo) FindByCode(_ context.Context, code string) (*couponModel.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.coupons {
		if c.Code == couponModel.NormalizeCode(code) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memCouponRepo) FindActiveAutoApplied(_ context.Context, now time.Time) ([]*couponModel.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*couponModel.Coupon
	for _, c := range r.coupons {
		if c.CouponType == couponModel.CouponTypeAutoApplied && c.IsActive && c.IsWithinWindow(now) {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (r *memCouponRepo) List(context.Context, int, int) ([]*couponModel.Coupon, int, error) {
	return nil, 0, nil
}

func (r *memCouponRepo) Create(_ context.Context, coupon *couponModel.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *coupon
	r.coupons[coupon.ID] = &clone
	return nil
}

func (r *memCouponRepo) Update(_ context.Context, coupon *couponModel.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.coupons[coupon.ID]; !ok {
		return couponModel.ErrCouponNotFound
	}
	clone := *coupon
	r.coupons[coupon.ID] = &clone
	return nil
}

func (r *memCouponRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.coupons, id)
	return nil
}

func (r *memCouponRepo) IncrementTotalUses(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok {
		return couponModel.ErrCouponNotFound
	}
	c.CurrentTotalUses++
	return nil
}

func (r *memCouponRepo) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.coupons {
		if c.IsActive && c.ExpiryTime.Before(now) {
			c.IsActive = false
			count++
		}
	}
	return count, nil
}

type memUsageRepo struct {
	mu     sync.Mutex
	usages []*couponModel.CouponUsage
}

func (r *memUsageRepo) Append(_ context.Context, usage *couponModel.CouponUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *usage
	r.usages = append(r.usages, &clone)
	return nil
}

func (r *memUsageRepo) CountByCoupon(_ context.Context, couponID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, u := range r.usages {
		if u.CouponID == couponID {
			count++
		}
	}
	return count, nil
}

func (r *memUsageRepo) CountByCouponAndCustomer(_ context.Context, couponID uuid.UUID, customerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, u := range r.usages {
		if u.CouponID == couponID && u.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

func (r *memUsageRepo) ListByCoupon(_ context.Context, couponID uuid.UUID, _, _ int) ([]*couponModel.CouponUsage, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*couponModel.CouponUsage
	for _, u := range r.usages {
		if u.CouponID == couponID {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, len(out), nil
}

func (r *memUsageRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.usages)
}

// cartTestEnv wires the cart service to in-memory stores and the real
// coupon engine so reconciliation is exercised end to end.
type cartTestEnv struct {
	svc      ServiceInterface
	carts    *fakeCartRepo
	products map[uuid.UUID]*productModel.Product
	coupons  *memCouponRepo
	usages   *memUsageRepo
}

func newCartTestEnv() *cartTestEnv {
	products := make(map[uuid.UUID]*productModel.Product)
	carts := newFakeCartRepo(products)
	coupons := newMemCouponRepo()
	usages := &memUsageRepo{}

	couponSvc := couponService.NewCouponService(coupons, usages, lock.NewMemoryManager(3, time.Millisecond), time.Second)

	return &cartTestEnv{
		svc:      NewCartService(carts, &fakeProducts{products: products}, couponSvc),
		carts:    carts,
		products: products,
		coupons:  coupons,
		usages:   usages,
	}
}

func (e *cartTestEnv) seedProduct(price string, stock int, category string) *productModel.Product {
	p := &productModel.Product{
		ID:       uuid.New(),
		Name:     "product-" + category,
		Price:    decimal.RequireFromString(price),
		Category: category,
		Stock:    stock,
		IsActive: true,
	}
	e.products[p.ID] = p
	return p
}

func (e *cartTestEnv) seedCoupon(c *couponModel.Coupon) *couponModel.Coupon {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_ = e.coupons.Create(context.Background(), c)
	return c
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(v int) *int {
	return &v
}
