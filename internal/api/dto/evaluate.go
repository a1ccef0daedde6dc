package dto

import (
	"github.com/shopspring/decimal"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/validator"
)

// EvaluateCouponsRequest previews a set of codes against a cart without
// storing anything. Codes are applied in order.
type EvaluateCouponsRequest struct {
	Codes         []string          `json:"codes" validate:"required,min=1,dive,required"`
	Items         []LineItemRequest `json:"items,omitempty" validate:"dive"`
	Subtotal      *decimal.Decimal  `json:"subtotal,omitempty"`
	Shipping      decimal.Decimal   `json:"shipping"`
	CustomerGroup string            `json:"customerGroup,omitempty"`
	FirstPurchase bool              `json:"firstPurchase,omitempty"`
}

func (r *EvaluateCouponsRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := validateLineItems(r.Items); err != nil {
		return err
	}
	if r.Subtotal == nil && len(r.Items) == 0 {
		return ierr.NewError("subtotal or items required").
			WithHint("Send line items or a subtotal to evaluate against").
			Mark(ierr.ErrValidation)
	}
	if r.Subtotal != nil && r.Subtotal.IsNegative() {
		return ierr.NewError("subtotal cannot be negative").
			WithHint("Subtotal must be zero or more").
			Mark(ierr.ErrValidation)
	}
	if r.Shipping.IsNegative() {
		return ierr.NewError("shipping cannot be negative").
			WithHint("Shipping must be zero or more").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToCreateOrderRequest reuses the draft order shape for the preview
func (r *EvaluateCouponsRequest) ToCreateOrderRequest() *CreateOrderRequest {
	req := &CreateOrderRequest{
		CustomerGroup: r.CustomerGroup,
		FirstPurchase: r.FirstPurchase,
		Items:         r.Items,
		Shipping:      r.Shipping,
	}
	if len(r.Items) == 0 {
		req.Subtotal = r.Subtotal
	}
	return req
}

// CouponEvaluation is the outcome for one code
type CouponEvaluation struct {
	Code       string                 `json:"code"`
	Applicable bool                   `json:"applicable"`
	Reason     string                 `json:"reason,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Discount   decimal.Decimal        `json:"discount"`
	Effect     *coupon.Effect         `json:"effect,omitempty"`
}

type EvaluateCouponsResponse struct {
	Results  []CouponEvaluation `json:"results"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	Shipping decimal.Decimal    `json:"shipping"`
	Discount decimal.Decimal    `json:"discount"`
	Total    decimal.Decimal    `json:"total"`
}
