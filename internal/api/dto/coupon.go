package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
	"github.com/zaviagodev/ai-commerce-sub002/internal/validator"
)

// CreateCouponRequest represents the request to create a new coupon.
// A code is generated when none is given.
type CreateCouponRequest struct {
	Code              string               `json:"code,omitempty" validate:"omitempty,max=64,coupon_code"`
	Name              string               `json:"name" validate:"required,max=255"`
	Description       string               `json:"description,omitempty"`
	Type              types.CouponType     `json:"type" validate:"required"`
	Value             decimal.Decimal      `json:"value"`
	MinPurchaseAmount *decimal.Decimal     `json:"minPurchaseAmount,omitempty"`
	MaxDiscountAmount *decimal.Decimal     `json:"maxDiscountAmount,omitempty"`
	UsageLimit        *int                 `json:"usageLimit,omitempty" validate:"omitempty,min=0"`
	StartDate         time.Time            `json:"startDate" validate:"required"`
	EndDate           time.Time            `json:"endDate" validate:"required"`
	Status            types.CouponStatus   `json:"status,omitempty"`
	Conditions        *coupon.ConditionSet `json:"conditions,omitempty"`
}

func (r *CreateCouponRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if r.Status != "" {
		if err := r.Status.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToCoupon builds the coupon record. The caller validates the result.
func (r *CreateCouponRequest) ToCoupon(ctx context.Context) *coupon.Coupon {
	code := types.NormalizeCouponCode(r.Code)
	if code == "" {
		code = types.GenerateCouponCode(types.COUPON_CODE_PREFIX)
	}
	status := r.Status
	if status == "" {
		status = types.CouponStatusDraft
	}

	return &coupon.Coupon{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUPON),
		StoreName:         types.GetStoreContext(ctx).StoreName,
		Code:              code,
		Name:              r.Name,
		Description:       r.Description,
		Type:              r.Type,
		Value:             r.Value,
		MinPurchaseAmount: r.MinPurchaseAmount,
		MaxDiscountAmount: r.MaxDiscountAmount,
		UsageLimit:        r.UsageLimit,
		StartDate:         r.StartDate.UTC(),
		EndDate:           r.EndDate.UTC(),
		Status:            status,
		Conditions:        r.Conditions,
		BaseModel:         domain.NewBaseModel(ctx),
	}
}

// UpdateCouponRequest represents a partial update. Nil fields are left as is.
type UpdateCouponRequest struct {
	Code              *string              `json:"code,omitempty" validate:"omitempty,min=1,max=64,coupon_code"`
	Name              *string              `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description       *string              `json:"description,omitempty"`
	Type              *types.CouponType    `json:"type,omitempty"`
	Value             *decimal.Decimal     `json:"value,omitempty"`
	MinPurchaseAmount *decimal.Decimal     `json:"minPurchaseAmount,omitempty"`
	MaxDiscountAmount *decimal.Decimal     `json:"maxDiscountAmount,omitempty"`
	UsageLimit        *int                 `json:"usageLimit,omitempty" validate:"omitempty,min=0"`
	StartDate         *time.Time           `json:"startDate,omitempty"`
	EndDate           *time.Time           `json:"endDate,omitempty"`
	Status            *types.CouponStatus  `json:"status,omitempty"`
	Conditions        *coupon.ConditionSet `json:"conditions,omitempty"`
	ClearLimits       bool                 `json:"clearLimits,omitempty"`
}

func (r *UpdateCouponRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Type != nil {
		if err := r.Type.Validate(); err != nil {
			return err
		}
	}
	if r.Status != nil {
		if err := r.Status.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Apply copies the set fields onto c. ClearLimits drops the minimum purchase,
// maximum discount and usage limit before the new values are applied.
func (r *UpdateCouponRequest) Apply(ctx context.Context, c *coupon.Coupon) {
	if r.ClearLimits {
		c.MinPurchaseAmount = nil
		c.MaxDiscountAmount = nil
		c.UsageLimit = nil
	}
	if r.Code != nil {
		c.Code = types.NormalizeCouponCode(*r.Code)
	}
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
	if r.Type != nil {
		c.Type = *r.Type
	}
	if r.Value != nil {
		c.Value = *r.Value
	}
	if r.MinPurchaseAmount != nil {
		c.MinPurchaseAmount = r.MinPurchaseAmount
	}
	if r.MaxDiscountAmount != nil {
		c.MaxDiscountAmount = r.MaxDiscountAmount
	}
	if r.UsageLimit != nil {
		c.UsageLimit = r.UsageLimit
	}
	if r.StartDate != nil {
		c.StartDate = r.StartDate.UTC()
	}
	if r.EndDate != nil {
		c.EndDate = r.EndDate.UTC()
	}
	if r.Status != nil {
		c.Status = *r.Status
	}
	if r.Conditions != nil {
		c.Conditions = r.Conditions
		if r.Conditions.IsEmpty() {
			c.Conditions = nil
		}
	}
	c.Touch(ctx)
}

// CouponResponse represents the response for coupon data
type CouponResponse struct {
	*coupon.Coupon
	RemainingUses *int `json:"remainingUses,omitempty"`
}

func NewCouponResponse(c *coupon.Coupon) *CouponResponse {
	return &CouponResponse{
		Coupon:        c,
		RemainingUses: c.RemainingUses(),
	}
}

// ListCouponsResponse represents the response for listing coupons
type ListCouponsResponse = types.ListResponse[*CouponResponse]

// GetCouponByCodeRequest looks a coupon up by redemption code
type GetCouponByCodeRequest struct {
	Code string `uri:"code" validate:"required"`
}

func (r *GetCouponByCodeRequest) Validate() error {
	if types.NormalizeCouponCode(r.Code) == "" {
		return ierr.NewError("code is required").
			WithHint("Please provide a coupon code").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SyncCouponStatusesResponse reports how many coupons changed status
type SyncCouponStatusesResponse struct {
	Updated int `json:"updated"`
}
