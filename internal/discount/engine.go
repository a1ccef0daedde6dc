package discount

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/order"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

var hundred = decimal.NewFromInt(100)

// Engine decides coupon eligibility and folds applied coupons into order
// totals. It holds no state besides its policy and never mutates its inputs,
// so a single Engine is safe for concurrent use.
type Engine struct {
	policy Policy
}

// NewEngine creates an engine for the given policy
func NewEngine(policy Policy) *Engine {
	if policy.CurrencyPrecision < 0 {
		policy.CurrencyPrecision = DefaultCurrencyPrecision
	}
	return &Engine{policy: policy}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// Check returns the first reason the coupon cannot be applied, or nil.
// Reasons are checked in this order: store, already applied, status, date
// window, usage limit, minimum purchase, advanced conditions. A nil ec
// evaluates advanced conditions against the subtotal alone.
func (e *Engine) Check(
	sc types.StoreContext,
	c *coupon.Coupon,
	subtotal decimal.Decimal,
	now time.Time,
	appliedCodes []string,
	ec *EvaluationContext,
) *types.CouponValidationError {
	if c == nil {
		return &types.CouponValidationError{
			Code:    types.CouponValidationErrorCodeNotFound,
			Message: "Coupon not found",
		}
	}

	if !sc.Owns(c.StoreName) {
		return &types.CouponValidationError{
			Code:    types.CouponValidationErrorCodeStoreMismatch,
			Message: "Coupon does not belong to this store",
			Details: map[string]interface{}{
				"coupon_code": c.Code,
				"store_name":  sc.StoreName,
			},
		}
	}

	if lo.ContainsBy(appliedCodes, c.MatchesCode) {
		return &types.CouponValidationError{
			Code:    types.CouponValidationErrorCodeAlreadyApplied,
			Message: fmt.Sprintf("Coupon %s has already been applied to this order", c.Code),
			Details: map[string]interface{}{
				"coupon_code": c.Code,
			},
		}
	}

	if c.Status != types.CouponStatusActive {
		return &types.CouponValidationError{
			Code:    types.CouponValidationErrorCodeNotActive,
			Message: fmt.Sprintf("Coupon %s is not active", c.Code),
			Details: map[string]interface{}{
				"coupon_code": c.Code,
				"status":      c.Status,
			},
		}
	}

	if !c.HasStarted(now) {
		return &types.CouponValidationError{
			Code:    types.CouponValidationErrorCodeNotStarted,
			Message: fmt.Sprintf("Coupon %s is not valid yet", c.Code),
			Details: map[string]interface{}{
				"coupon_code": c.Code,
				"start_date":  c.StartDate,
				"now":         now,
			},
		}
	}

	if c.HasEnded(now, e.policy.InclusiveEndDate) {
		return &types.CouponValidationError{
			Code:    types.CouponValidationErrorCodeExpired,
			Message: fmt.Sprintf("Coupon %s has expired", c.Code),
			Details: map[string]interface{}{
				"coupon_code": c.Code,
				"end_date":    c.EndDate,
				"now":         now,
			},
		}
	}

	if c.IsExhausted() {
		return &types.CouponValidationError{
			Code:    types.CouponValidationErrorCodeUsageLimitReached,
			Message: fmt.Sprintf("Coupon %s has reached its usage limit", c.Code),
			Details: map[string]interface{}{
				"coupon_code": c.Code,
				"usage_limit": *c.UsageLimit,
				"usage_count": c.UsageCount,
			},
		}
	}

	if !c.MeetsMinimum(subtotal) {
		return &types.CouponValidationError{
			Code: types.CouponValidationErrorCodeBelowMinPurchase,
			Message: fmt.Sprintf("Order subtotal must be at least %s to use coupon %s",
				c.MinPurchaseAmount.StringFixed(e.policy.CurrencyPrecision), c.Code),
			Details: map[string]interface{}{
				"coupon_code":         c.Code,
				"min_purchase_amount": *c.MinPurchaseAmount,
				"subtotal":            subtotal,
			},
		}
	}

	if ec == nil {
		ec = subtotalOnly(subtotal)
	}
	if ok, failed := ec.Evaluate(c.Conditions); !ok {
		return &types.CouponValidationError{
			Code:    types.CouponValidationErrorCodeConditionsNotMet,
			Message: fmt.Sprintf("Order does not meet the conditions of coupon %s", c.Code),
			Details: map[string]interface{}{
				"coupon_code":  c.Code,
				"match":        c.Conditions.Match,
				"failed_rules": failed,
			},
		}
	}

	return nil
}

// IsApplicable reports whether the coupon can be applied to an order with
// the given subtotal at now, given the codes already on the order
func (e *Engine) IsApplicable(
	sc types.StoreContext,
	c *coupon.Coupon,
	subtotal decimal.Decimal,
	now time.Time,
	appliedCodes []string,
) bool {
	return e.Check(sc, c, subtotal, now, appliedCodes, nil) == nil
}

// ComputeDiscount returns the currency amount the coupon takes off subtotal.
// Percentage discounts are capped by MaxDiscountAmount. Fixed discounts are
// not reduced to the subtotal unless the policy clamps them. Shipping and
// points coupons contribute nothing to the currency discount.
func (e *Engine) ComputeDiscount(c *coupon.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	return e.computeAmount(c.Type, c.Value, c.MaxDiscountAmount, subtotal)
}

func (e *Engine) computeAmount(
	couponType types.CouponType,
	value decimal.Decimal,
	maxDiscount *decimal.Decimal,
	subtotal decimal.Decimal,
) decimal.Decimal {
	var amount decimal.Decimal

	switch couponType {
	case types.CouponTypePercentage:
		amount = subtotal.Mul(value).Div(hundred)
		if maxDiscount != nil && amount.GreaterThan(*maxDiscount) {
			amount = *maxDiscount
		}
		amount = amount.Round(e.policy.CurrencyPrecision)
	case types.CouponTypeFixed:
		amount = value.Round(e.policy.CurrencyPrecision)
		if e.policy.ClampFixedToSubtotal {
			amount = decimal.Min(amount, decimal.Max(subtotal, decimal.Zero))
		}
	default:
		amount = decimal.Zero
	}

	return amount
}

// Effect describes what applying the coupon to subtotal does to an order
func (e *Engine) Effect(c *coupon.Coupon, subtotal decimal.Decimal) coupon.Effect {
	return e.effectOf(c.Type, c.Value, c.MaxDiscountAmount, subtotal)
}

func (e *Engine) effectOf(
	couponType types.CouponType,
	value decimal.Decimal,
	maxDiscount *decimal.Decimal,
	subtotal decimal.Decimal,
) coupon.Effect {
	switch couponType {
	case types.CouponTypeShipping:
		return coupon.FreeShippingEffect()
	case types.CouponTypePoints:
		return coupon.PointsMultiplierEffect(value)
	default:
		return coupon.CurrencyEffect(e.computeAmount(couponType, value, maxDiscount, subtotal))
	}
}

// ApplyCoupon returns a copy of o with the coupon applied. The order's
// discount is recomputed over every applied coupon and a free-shipping
// effect zeroes the shipping charge. On failure o is left untouched and the
// error is marked ErrCouponNotApplicable with the reason attached.
func (e *Engine) ApplyCoupon(sc types.StoreContext, o *order.Order, c *coupon.Coupon, now time.Time) (*order.Order, error) {
	if err := e.checkOrder(sc, o); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ierr.NewError("coupon is required").
			WithHint("Please select a coupon to apply").
			Mark(ierr.ErrValidation)
	}

	if verr := e.Check(sc, c, o.Subtotal, now, o.AppliedCodes(), NewEvaluationContext(o)); verr != nil {
		return nil, verr.NotApplicable()
	}

	next := o.Copy()
	effect := e.Effect(c, o.Subtotal)
	applied := order.OrderCoupon{
		CouponID:          c.ID,
		Code:              types.NormalizeCouponCode(c.Code),
		Type:              c.Type,
		Value:             c.Value,
		MaxDiscountAmount: copyDecimal(c.MaxDiscountAmount),
		Discount:          effect.CurrencyAmount(),
		Effect:            effect,
		AppliedAt:         now,
	}

	if effect.WaivesShipping() {
		waived := next.Shipping
		applied.ShippingWaived = &waived
		next.Shipping = decimal.Zero
	}

	next.AppliedCoupons = append(next.AppliedCoupons, applied)
	next.Discount = sumDiscounts(next.AppliedCoupons)
	return next, nil
}

// RemoveCoupon returns a copy of o without the coupon matching code. Removing
// a code that is not applied succeeds without changes. The shipping charge is
// only restored when the policy asks for it and no other free-shipping coupon
// remains.
func (e *Engine) RemoveCoupon(sc types.StoreContext, o *order.Order, code string) (*order.Order, error) {
	if err := e.checkOrder(sc, o); err != nil {
		return nil, err
	}

	next := o.Copy()
	_, idx, found := lo.FindIndexOf(next.AppliedCoupons, func(c order.OrderCoupon) bool {
		return strings.EqualFold(strings.TrimSpace(c.Code), strings.TrimSpace(code))
	})
	if !found {
		return next, nil
	}

	removed := next.AppliedCoupons[idx]
	next.AppliedCoupons = slices.Delete(next.AppliedCoupons, idx, idx+1)
	next.Discount = sumDiscounts(next.AppliedCoupons)

	if removed.Effect.WaivesShipping() && removed.ShippingWaived != nil {
		_, other, stillWaived := lo.FindIndexOf(next.AppliedCoupons, func(c order.OrderCoupon) bool {
			return c.Effect.WaivesShipping()
		})
		switch {
		case stillWaived:
			// the remaining waiver inherits the charge it would restore
			if waived := next.AppliedCoupons[other].ShippingWaived; waived == nil || waived.LessThan(*removed.ShippingWaived) {
				next.AppliedCoupons[other].ShippingWaived = copyDecimal(removed.ShippingWaived)
			}
		case e.policy.RestoreShippingOnRemove:
			next.Shipping = *removed.ShippingWaived
		}
	}

	return next, nil
}

// SetShipping returns a copy of o with a new shipping charge. While a
// free-shipping coupon is applied the charge stays zero and the amount is
// recorded as the one the waiver restores.
func (e *Engine) SetShipping(sc types.StoreContext, o *order.Order, amount decimal.Decimal) (*order.Order, error) {
	if err := e.checkOrder(sc, o); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, ierr.NewError("shipping cannot be negative").
			WithHint("Shipping must be zero or more").
			Mark(ierr.ErrValidation)
	}

	next := o.Copy()
	_, idx, waived := lo.FindIndexOf(next.AppliedCoupons, func(c order.OrderCoupon) bool {
		return c.Effect.WaivesShipping()
	})
	if waived {
		next.AppliedCoupons[idx].ShippingWaived = &amount
		next.Shipping = decimal.Zero
		return next, nil
	}

	next.Shipping = amount
	return next, nil
}

// ListAvailableCoupons returns the coupons that could be applied to o at now,
// sorted by code then ID
func (e *Engine) ListAvailableCoupons(sc types.StoreContext, all []*coupon.Coupon, o *order.Order, now time.Time) []*coupon.Coupon {
	if o == nil {
		return []*coupon.Coupon{}
	}

	ec := NewEvaluationContext(o)
	applied := o.AppliedCodes()
	available := lo.Filter(all, func(c *coupon.Coupon, _ int) bool {
		return c != nil && e.Check(sc, c, o.Subtotal, now, applied, ec) == nil
	})

	slices.SortStableFunc(available, func(a, b *coupon.Coupon) int {
		return cmp.Or(
			strings.Compare(types.NormalizeCouponCode(a.Code), types.NormalizeCouponCode(b.Code)),
			strings.Compare(a.ID, b.ID),
		)
	})
	return available
}

// Recalculate recomputes every snapshot's discount against the order's
// current subtotal using the snapshot's own type, value and cap, then the
// order discount. Finalized orders are returned unchanged.
func (e *Engine) Recalculate(o *order.Order) *order.Order {
	next := o.Copy()
	if next == nil || next.IsFinalized() {
		return next
	}

	for i, applied := range next.AppliedCoupons {
		effect := e.effectOf(applied.Type, applied.Value, applied.MaxDiscountAmount, next.Subtotal)
		next.AppliedCoupons[i].Effect = effect
		next.AppliedCoupons[i].Discount = effect.CurrencyAmount()
	}
	next.Discount = sumDiscounts(next.AppliedCoupons)
	return next
}

func (e *Engine) checkOrder(sc types.StoreContext, o *order.Order) error {
	if o == nil {
		return ierr.NewError("order is required").
			WithHint("Please select an order").
			Mark(ierr.ErrValidation)
	}
	if !sc.Owns(o.StoreName) {
		return ierr.NewError("order belongs to another store").
			WithHint("You do not have access to this order").
			WithReportableDetails(map[string]any{
				"order_id":   o.ID,
				"store_name": sc.StoreName,
			}).
			Mark(ierr.ErrPermissionDenied)
	}
	if o.IsFinalized() {
		return ierr.NewError("order is finalized").
			WithHint("Coupons cannot be changed on a finalized order").
			WithReportableDetails(map[string]any{
				"order_id": o.ID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}

func sumDiscounts(applied []order.OrderCoupon) decimal.Decimal {
	return lo.Reduce(applied, func(acc decimal.Decimal, c order.OrderCoupon, _ int) decimal.Decimal {
		return acc.Add(c.Discount)
	}, decimal.Zero)
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
