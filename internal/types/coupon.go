package types

import (
	"github.com/samber/lo"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
)

// CouponType controls how a coupon's value is interpreted
type CouponType string

const (
	// CouponTypePercentage takes value percent off the subtotal
	CouponTypePercentage CouponType = "percentage"
	// CouponTypeFixed takes a fixed currency amount off the order
	CouponTypeFixed CouponType = "fixed"
	// CouponTypeShipping waives the order's shipping charge
	CouponTypeShipping CouponType = "shipping"
	// CouponTypePoints multiplies loyalty points earned on the order
	CouponTypePoints CouponType = "points"
)

func (t CouponType) String() string {
	return string(t)
}

func (t CouponType) Validate() error {
	allowed := []CouponType{
		CouponTypePercentage,
		CouponTypeFixed,
		CouponTypeShipping,
		CouponTypePoints,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid coupon type").
			WithHint("Coupon type must be one of percentage, fixed, shipping or points").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"type":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CouponStatus is the merchant-controlled lifecycle of a coupon
type CouponStatus string

const (
	CouponStatusDraft     CouponStatus = "draft"
	CouponStatusScheduled CouponStatus = "scheduled"
	CouponStatusActive    CouponStatus = "active"
	CouponStatusEnded     CouponStatus = "ended"
)

func (s CouponStatus) String() string {
	return string(s)
}

func (s CouponStatus) Validate() error {
	allowed := []CouponStatus{
		CouponStatusDraft,
		CouponStatusScheduled,
		CouponStatusActive,
		CouponStatusEnded,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid coupon status").
			WithHint("Coupon status must be one of draft, scheduled, active or ended").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"status":  s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// EffectKind tags what applying a coupon does to an order
type EffectKind string

const (
	// EffectKindCurrency reduces the order by an amount
	EffectKindCurrency EffectKind = "currency"
	// EffectKindFreeShipping zeroes the order's shipping
	EffectKindFreeShipping EffectKind = "free_shipping"
	// EffectKindPointsMultiplier is consumed by the loyalty subsystem on completion
	EffectKindPointsMultiplier EffectKind = "points_multiplier"
)

// ConditionMatch decides how the rules of a condition set are combined
type ConditionMatch string

const (
	ConditionMatchAll ConditionMatch = "all"
	ConditionMatchAny ConditionMatch = "any"
)

// ConditionType is the fact an advanced coupon condition inspects
type ConditionType string

const (
	ConditionTypeCartTotal       ConditionType = "cart_total"
	ConditionTypeProductQuantity ConditionType = "product_quantity"
	ConditionTypeCustomerGroup   ConditionType = "customer_group"
	ConditionTypeFirstPurchase   ConditionType = "first_purchase"
)

// ConditionOperator compares the inspected fact with the condition value
type ConditionOperator string

const (
	ConditionOperatorGTE ConditionOperator = "gte"
	ConditionOperatorLTE ConditionOperator = "lte"
	ConditionOperatorEQ  ConditionOperator = "eq"
)

func (t ConditionType) Validate() error {
	allowed := []ConditionType{
		ConditionTypeCartTotal,
		ConditionTypeProductQuantity,
		ConditionTypeCustomerGroup,
		ConditionTypeFirstPurchase,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid condition type").
			WithHint("Condition type must be one of cart_total, product_quantity, customer_group or first_purchase").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"type":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (o ConditionOperator) Validate() error {
	allowed := []ConditionOperator{ConditionOperatorGTE, ConditionOperatorLTE, ConditionOperatorEQ}
	if !lo.Contains(allowed, o) {
		return ierr.NewError("invalid condition operator").
			WithHint("Condition operator must be one of gte, lte or eq").
			WithReportableDetails(map[string]any{
				"allowed":  allowed,
				"operator": o,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
