package coupon

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

func TestMatchesFilter(t *testing.T) {
	c := &Coupon{
		ID:     "cpn_1",
		Code:   "SUMMER10",
		Name:   "Summer sale",
		Type:   types.CouponTypePercentage,
		Status: types.CouponStatusActive,
	}

	tests := []struct {
		name   string
		filter *types.CouponFilter
		want   bool
	}{
		{name: "nil filter", filter: nil, want: true},
		{name: "search on code", filter: &types.CouponFilter{Search: "summer"}, want: true},
		{name: "search on name", filter: &types.CouponFilter{Search: "SALE"}, want: true},
		{name: "search miss", filter: &types.CouponFilter{Search: "winter"}, want: false},
		{name: "status hit", filter: &types.CouponFilter{Statuses: []types.CouponStatus{types.CouponStatusActive}}, want: true},
		{name: "status miss", filter: &types.CouponFilter{Statuses: []types.CouponStatus{types.CouponStatusDraft}}, want: false},
		{name: "type miss", filter: &types.CouponFilter{Types: []types.CouponType{types.CouponTypeFixed}}, want: false},
		{name: "code case insensitive", filter: &types.CouponFilter{Codes: []string{" summer10 "}}, want: true},
		{name: "code miss", filter: &types.CouponFilter{Codes: []string{"OTHER"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesFilter(c, tt.filter))
		})
	}

	assert.False(t, MatchesFilter(nil, nil))
}

func TestSortAndPaginate(t *testing.T) {
	coupons := []*Coupon{
		{ID: "cpn_3", Code: "beta"},
		{ID: "cpn_2", Code: "ALPHA"},
		{ID: "cpn_1", Code: "alpha"},
		{ID: "cpn_4", Code: "GAMMA"},
	}

	SortByCode(coupons)
	ids := lo.Map(coupons, func(c *Coupon, _ int) string { return c.ID })
	assert.Equal(t, []string{"cpn_1", "cpn_2", "cpn_3", "cpn_4"}, ids)

	filter := types.NewCouponFilter()
	filter.Limit = lo.ToPtr(2)
	filter.Offset = lo.ToPtr(1)
	page := Paginate(coupons, filter)
	assert.Equal(t, []string{"cpn_2", "cpn_3"}, lo.Map(page, func(c *Coupon, _ int) string { return c.ID }))

	filter.Offset = lo.ToPtr(10)
	assert.Empty(t, Paginate(coupons, filter))

	assert.Len(t, Paginate(coupons, types.NewNoLimitCouponFilter()), 4)
}
