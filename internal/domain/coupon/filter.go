package coupon

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// MatchesFilter applies the search, status, type and code criteria of a
// CouponFilter. Pagination is not considered.
func MatchesFilter(c *Coupon, filter *types.CouponFilter) bool {
	if c == nil {
		return false
	}
	if filter == nil {
		return true
	}

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		if !strings.Contains(strings.ToLower(c.Code), search) &&
			!strings.Contains(strings.ToLower(c.Name), search) {
			return false
		}
	}
	if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, c.Status) {
		return false
	}
	if len(filter.Types) > 0 && !lo.Contains(filter.Types, c.Type) {
		return false
	}
	if len(filter.Codes) > 0 && !lo.ContainsBy(filter.Codes, c.MatchesCode) {
		return false
	}
	return true
}

// SortByCode orders coupons by normalized code, then ID
func SortByCode(coupons []*Coupon) {
	slices.SortStableFunc(coupons, func(a, b *Coupon) int {
		return cmp.Or(
			cmp.Compare(types.NormalizeCouponCode(a.Code), types.NormalizeCouponCode(b.Code)),
			cmp.Compare(a.ID, b.ID),
		)
	})
}

// Paginate applies the filter's limit and offset to an already sorted slice
func Paginate(coupons []*Coupon, filter *types.CouponFilter) []*Coupon {
	if filter == nil || filter.IsUnlimited() {
		return coupons
	}
	offset := filter.GetOffset()
	if offset >= len(coupons) {
		return []*Coupon{}
	}
	end := min(offset+filter.GetLimit(), len(coupons))
	return coupons[offset:end]
}
