package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type CreateCouponRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`

	CouponType   CouponType   `json:"couponType"`
	DiscountType DiscountType `json:"discountType"`

	DiscountValue     float64  `json:"discountValue"`
	MaxDiscountAmount *float64 `json:"maxDiscountAmount"`

	StartTime  time.Time `json:"startTime"`
	ExpiryTime time.Time `json:"expiryTime"`

	MinCartItems int     `json:"minCartItems"`
	MinCartValue float64 `json:"minCartValue"`

	ApplicableProductIDs []uuid.UUID `json:"applicableProductIds"`
	ApplicableCategories []string    `json:"applicableCategories"`

	MaxTotalUses   *int `json:"maxTotalUses"`
	MaxUsesPerUser *int `json:"maxUsesPerUser"`

	Priority int   `json:"priority"`
	IsActive *bool `json:"isActive"`
}

func (r CreateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.CouponType, validation.Required, validation.In(CouponTypeGeneral, CouponTypeAutoApplied)),
		validation.Field(&r.DiscountType, validation.Required, validation.In(DiscountTypeFixed, DiscountTypePercentage)),
		validation.Field(&r.DiscountValue, validation.Required, validation.Min(0.01), validation.By(r.checkPercentageRange)),
		validation.Field(&r.MaxDiscountAmount, validation.Min(0.01)),
		validation.Field(&r.StartTime, validation.Required),
		validation.Field(&r.ExpiryTime, validation.Required, validation.By(r.checkWindow)),
		validation.Field(&r.MinCartItems, validation.Min(0)),
		validation.Field(&r.MinCartValue, validation.Min(0.0)),
		validation.Field(&r.MaxTotalUses, validation.Min(1)),
		validation.Field(&r.MaxUsesPerUser, validation.Min(1)),
		validation.Field(&r.Priority, validation.Min(0)),
	)
}

func (r CreateCouponRequest) checkPercentageRange(interface{}) error {
	if r.DiscountType == DiscountTypePercentage && r.DiscountValue > 100 {
		return errors.New("percentage discount cannot exceed 100")
	}
	return nil
}

func (r CreateCouponRequest) checkWindow(interface{}) error {
	if !r.ExpiryTime.After(r.StartTime) {
		return errors.New("expiryTime must be after startTime")
	}
	return nil
}

// UpdateCouponRequest carries partial updates; nil fields are left
// unchanged. Code, couponType and discountType are immutable after
// creation.
type UpdateCouponRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`

	DiscountValue     *float64 `json:"discountValue"`
	MaxDiscountAmount *float64 `json:"maxDiscountAmount"`

	StartTime  *time.Time `json:"startTime"`
	ExpiryTime *time.Time `json:"expiryTime"`

	MinCartItems *int     `json:"minCartItems"`
	MinCartValue *float64 `json:"minCartValue"`

	ApplicableProductIDs []uuid.UUID `json:"applicableProductIds"`
	ApplicableCategories []string    `json:"applicableCategories"`

	MaxTotalUses   *int `json:"maxTotalUses"`
	MaxUsesPerUser *int `json:"maxUsesPerUser"`

	Priority *int  `json:"priority"`
	IsActive *bool `json:"isActive"`
}

func (r UpdateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 255)),
		validation.Field(&r.DiscountValue, validation.Min(0.01)),
		validation.Field(&r.MaxDiscountAmount, validation.Min(0.01)),
		validation.Field(&r.MinCartItems, validation.Min(0)),
		validation.Field(&r.MinCartValue, validation.Min(0.0)),
		validation.Field(&r.MaxTotalUses, validation.Min(1)),
		validation.Field(&r.MaxUsesPerUser, validation.Min(1)),
		validation.Field(&r.Priority, validation.Min(0)),
	)
}

// ValidateCouponRequest asks for a dry-run check of a code against the
// customer's current cart. Nothing is applied and no usage is recorded.
type ValidateCouponRequest struct {
	CouponCode string `json:"couponCode"`
	CustomerID string `json:"customerId"`
}

func (r ValidateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CouponCode, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.CustomerID, validation.Required, validation.Length(1, 255)),
	)
}
