package coupon

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// Coupon is a merchant-defined discount rule identified by a redemption code
type Coupon struct {
	ID                string             `json:"id"`
	StoreName         string             `json:"storeName"`
	Code              string             `json:"code"`
	Name              string             `json:"name"`
	Description       string             `json:"description,omitempty"`
	Type              types.CouponType   `json:"type"`
	Value             decimal.Decimal    `json:"value"`
	MinPurchaseAmount *decimal.Decimal   `json:"minPurchaseAmount,omitempty"`
	MaxDiscountAmount *decimal.Decimal   `json:"maxDiscountAmount,omitempty"`
	UsageLimit        *int               `json:"usageLimit,omitempty"`
	UsageCount        int                `json:"usageCount"`
	StartDate         time.Time          `json:"startDate"`
	EndDate           time.Time          `json:"endDate"`
	Status            types.CouponStatus `json:"status"`
	Conditions        *ConditionSet      `json:"conditions,omitempty"`

	domain.BaseModel
}

// IsExhausted reports whether the usage limit has been reached
func (c *Coupon) IsExhausted() bool {
	return c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit
}

// RemainingUses returns nil when the coupon has no usage limit
func (c *Coupon) RemainingUses() *int {
	if c.UsageLimit == nil {
		return nil
	}
	remaining := *c.UsageLimit - c.UsageCount
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// HasStarted reports whether now is at or after the start date
func (c *Coupon) HasStarted(now time.Time) bool {
	return !now.Before(c.StartDate)
}

// HasEnded reports whether the eligibility window is over. The window is
// [start, end) unless inclusiveEnd is set, in which case it is [start, end].
func (c *Coupon) HasEnded(now time.Time, inclusiveEnd bool) bool {
	if inclusiveEnd {
		return now.After(c.EndDate)
	}
	return !now.Before(c.EndDate)
}

// MeetsMinimum reports whether subtotal reaches the minimum purchase amount
func (c *Coupon) MeetsMinimum(subtotal decimal.Decimal) bool {
	return c.MinPurchaseAmount == nil || subtotal.GreaterThanOrEqual(*c.MinPurchaseAmount)
}

// MatchesCode compares codes the way customers type them
func (c *Coupon) MatchesCode(code string) bool {
	return strings.EqualFold(strings.TrimSpace(c.Code), strings.TrimSpace(code))
}

// Validate checks the record is internally consistent before it is stored
func (c *Coupon) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return ierr.NewError("code is required").
			WithHint("Please provide a coupon code").
			Mark(ierr.ErrValidation)
	}
	if strings.TrimSpace(c.Name) == "" {
		return ierr.NewError("name is required").
			WithHint("Please provide a coupon name").
			Mark(ierr.ErrValidation)
	}
	if err := c.Type.Validate(); err != nil {
		return err
	}
	if err := c.Status.Validate(); err != nil {
		return err
	}
	if c.Value.IsNegative() {
		return ierr.NewError("value must not be negative").
			WithHint("Please provide a coupon value of zero or more").
			WithReportableDetails(map[string]any{"value": c.Value}).
			Mark(ierr.ErrValidation)
	}
	if c.Type == types.CouponTypePercentage && c.Value.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("percentage value must be at most 100").
			WithHint("Please provide a valid percentage between 0 and 100").
			WithReportableDetails(map[string]any{"value": c.Value}).
			Mark(ierr.ErrValidation)
	}
	if c.MinPurchaseAmount != nil && c.MinPurchaseAmount.IsNegative() {
		return ierr.NewError("minimum purchase amount must not be negative").
			WithHint("Please provide a valid minimum purchase amount").
			Mark(ierr.ErrValidation)
	}
	if c.MaxDiscountAmount != nil && c.MaxDiscountAmount.IsNegative() {
		return ierr.NewError("maximum discount amount must not be negative").
			WithHint("Please provide a valid maximum discount amount").
			Mark(ierr.ErrValidation)
	}
	if c.UsageLimit != nil && *c.UsageLimit < 0 {
		return ierr.NewError("usage limit must not be negative").
			WithHint("Please provide a valid usage limit").
			Mark(ierr.ErrValidation)
	}
	if !c.EndDate.After(c.StartDate) {
		return ierr.NewError("end date must be after start date").
			WithHint("Please provide a valid date range").
			WithReportableDetails(map[string]any{
				"start_date": c.StartDate,
				"end_date":   c.EndDate,
			}).
			Mark(ierr.ErrValidation)
	}
	if c.Conditions != nil {
		if err := c.Conditions.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// StatusAt returns the status a scheduled or active coupon should have at now.
// Draft and ended coupons are left to the merchant.
func (c *Coupon) StatusAt(now time.Time, inclusiveEnd bool) types.CouponStatus {
	switch c.Status {
	case types.CouponStatusScheduled:
		if c.HasEnded(now, inclusiveEnd) {
			return types.CouponStatusEnded
		}
		if c.HasStarted(now) {
			return types.CouponStatusActive
		}
	case types.CouponStatusActive:
		if c.HasEnded(now, inclusiveEnd) {
			return types.CouponStatusEnded
		}
	}
	return c.Status
}
