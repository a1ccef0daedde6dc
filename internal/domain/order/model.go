package order

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// Order is a draft or finalized merchant order with its applied coupons
type Order struct {
	ID            string            `json:"id"`
	StoreName     string            `json:"storeName"`
	CustomerID    string            `json:"customerId,omitempty"`
	CustomerGroup string            `json:"customerGroup,omitempty"`
	FirstPurchase bool              `json:"firstPurchase"`
	Status        types.OrderStatus `json:"status"`
	Items         []LineItem        `json:"items"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Shipping      decimal.Decimal   `json:"shipping"`
	// Discount always equals the sum of AppliedCoupons[i].Discount
	Discount       decimal.Decimal `json:"discount"`
	AppliedCoupons []OrderCoupon   `json:"appliedCoupons"`
	FinalizedAt    *time.Time      `json:"finalizedAt,omitempty"`

	domain.BaseModel
}

// LineItem is a single product line on the order
type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// OrderCoupon is the snapshot of a coupon taken when it was applied. It stays
// valid if the coupon record changes later.
type OrderCoupon struct {
	CouponID          string           `json:"couponId"`
	Code              string           `json:"code"`
	Type              types.CouponType `json:"type"`
	Value             decimal.Decimal  `json:"value"`
	MaxDiscountAmount *decimal.Decimal `json:"maxDiscountAmount,omitempty"`
	Discount          decimal.Decimal  `json:"discount"`
	Effect            coupon.Effect    `json:"effect"`
	// ShippingWaived is the shipping charge that was zeroed when this coupon
	// was applied
	ShippingWaived *decimal.Decimal `json:"shippingWaived,omitempty"`
	AppliedAt      time.Time        `json:"appliedAt"`
}

// Total is subtotal minus discount plus shipping. It may go negative when a
// fixed coupon exceeds the subtotal.
func (o *Order) Total() decimal.Decimal {
	return o.Subtotal.Sub(o.Discount).Add(o.Shipping)
}

func (o *Order) IsFinalized() bool {
	return o.Status == types.OrderStatusFinalized
}

// AppliedCodes lists the applied coupon codes in application order
func (o *Order) AppliedCodes() []string {
	return lo.Map(o.AppliedCoupons, func(c OrderCoupon, _ int) string {
		return c.Code
	})
}

// ItemsSubtotal sums the line items
func (o *Order) ItemsSubtotal() decimal.Decimal {
	return lo.Reduce(o.Items, func(acc decimal.Decimal, li LineItem, _ int) decimal.Decimal {
		return acc.Add(li.Total())
	}, decimal.Zero)
}

// QuantityOf returns the total quantity of productID across all lines
func (o *Order) QuantityOf(productID string) int {
	return lo.SumBy(o.Items, func(li LineItem) int {
		if li.ProductID != productID {
			return 0
		}
		return li.Quantity
	})
}

// PointsMultipliers returns the loyalty factors of the applied coupons for
// the points subsystem to use when the order is completed
func (o *Order) PointsMultipliers() []decimal.Decimal {
	return lo.FilterMap(o.AppliedCoupons, func(c OrderCoupon, _ int) (decimal.Decimal, bool) {
		return c.Effect.PointsMultiplier()
	})
}

// Copy returns a deep copy so transforms never share slices with their input
func (o *Order) Copy() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Items = append([]LineItem(nil), o.Items...)
	cp.AppliedCoupons = append([]OrderCoupon(nil), o.AppliedCoupons...)
	if o.FinalizedAt != nil {
		t := *o.FinalizedAt
		cp.FinalizedAt = &t
	}
	return &cp
}
