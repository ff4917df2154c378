package model

import (
	"time"

	couponModel "shopcart-backend/internal/domains/coupon/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

func (r AddItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required, validation.By(checkUUID)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1), validation.Max(999)),
	)
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (r UpdateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Quantity, validation.Required, validation.Min(1), validation.Max(999)),
	)
}

type ApplyCouponRequest struct {
	CouponCode string `json:"couponCode"`
}

func (r ApplyCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CouponCode, validation.Required, validation.Length(3, 50)),
	)
}

func checkUUID(value interface{}) error {
	if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
		return validation.ErrRequired
	}
	return nil
}

// AppliedCouponInfo describes the coupon currently occupying the cart's
// coupon slot.
type AppliedCouponInfo struct {
	ID           uuid.UUID                `json:"id"`
	Code         string                   `json:"code"`
	Name         string                   `json:"name"`
	DiscountType couponModel.DiscountType `json:"discountType"`
	AutoApplied  bool                     `json:"autoApplied"`
}

// Summary carries the money math for a cart response.
type Summary struct {
	TotalBeforeDiscount decimal.Decimal `json:"totalBeforeDiscount"`
	DiscountAmount      decimal.Decimal `json:"discountAmount"`
	FinalPayable        decimal.Decimal `json:"finalPayable"`
	TotalItemCount      int             `json:"totalItemCount"`
	// DiscountPercentage is a display-only "you saved X%" figure,
	// present only when a discount applies.
	DiscountPercentage *decimal.Decimal `json:"discountPercentage,omitempty"`
}

// CartResponse is the transport-facing cart payload.
type CartResponse struct {
	ID            uuid.UUID          `json:"id"`
	CustomerID    string             `json:"customerId"`
	Items         []*ItemDetail      `json:"items"`
	AppliedCoupon *AppliedCouponInfo `json:"appliedCoupon"`
	Summary       Summary            `json:"summary"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}
