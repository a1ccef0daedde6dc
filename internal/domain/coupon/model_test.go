package coupon

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

func TestCoupon_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Coupon)
		wantErr bool
	}{
		{name: "valid"},
		{name: "missing_code", mutate: func(c *Coupon) { c.Code = "  " }, wantErr: true},
		{name: "missing_name", mutate: func(c *Coupon) { c.Name = "" }, wantErr: true},
		{name: "unknown_type", mutate: func(c *Coupon) { c.Type = "bogo" }, wantErr: true},
		{name: "unknown_status", mutate: func(c *Coupon) { c.Status = "paused" }, wantErr: true},
		{name: "negative_value", mutate: func(c *Coupon) { c.Value = decimal.NewFromInt(-1) }, wantErr: true},
		{name: "percentage_over_100", mutate: func(c *Coupon) { c.Value = decimal.NewFromInt(101) }, wantErr: true},
		{name: "fixed_over_100", mutate: func(c *Coupon) {
			c.Type = types.CouponTypeFixed
			c.Value = decimal.NewFromInt(250)
		}},
		{name: "negative_usage_limit", mutate: func(c *Coupon) { c.UsageLimit = lo.ToPtr(-1) }, wantErr: true},
		{name: "end_before_start", mutate: func(c *Coupon) { c.EndDate = c.StartDate }, wantErr: true},
		{name: "invalid_condition", mutate: func(c *Coupon) {
			c.Conditions = &ConditionSet{
				Match: types.ConditionMatchAll,
				Rules: []Condition{{Type: types.ConditionTypeProductQuantity, Operator: types.ConditionOperatorGTE}},
			}
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sampleCoupon()
			if tt.mutate != nil {
				tt.mutate(c)
			}
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCoupon_StatusAt(t *testing.T) {
	c := sampleCoupon()
	before := c.StartDate.Add(-time.Hour)
	during := c.StartDate.Add(time.Hour)

	c.Status = types.CouponStatusScheduled
	assert.Equal(t, types.CouponStatusScheduled, c.StatusAt(before, false))
	assert.Equal(t, types.CouponStatusActive, c.StatusAt(during, false))
	assert.Equal(t, types.CouponStatusEnded, c.StatusAt(c.EndDate, false))

	c.Status = types.CouponStatusActive
	assert.Equal(t, types.CouponStatusActive, c.StatusAt(c.EndDate, true))
	assert.Equal(t, types.CouponStatusEnded, c.StatusAt(c.EndDate, false))

	c.Status = types.CouponStatusDraft
	assert.Equal(t, types.CouponStatusDraft, c.StatusAt(during, false))
}

func TestCoupon_RemainingUses(t *testing.T) {
	c := sampleCoupon()
	assert.Equal(t, 97, *c.RemainingUses())

	c.UsageCount = 150
	assert.Equal(t, 0, *c.RemainingUses())
	assert.True(t, c.IsExhausted())

	c.UsageLimit = nil
	assert.Nil(t, c.RemainingUses())
	assert.False(t, c.IsExhausted())
}
