package dto

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/order"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
	"github.com/zaviagodev/ai-commerce-sub002/internal/validator"
)

type LineItemRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func toLineItems(items []LineItemRequest) []order.LineItem {
	return lo.Map(items, func(li LineItemRequest, _ int) order.LineItem {
		return order.LineItem{
			ProductID: li.ProductID,
			Name:      li.Name,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
		}
	})
}

func validateLineItems(items []LineItemRequest) error {
	for i, li := range items {
		if li.UnitPrice.IsNegative() {
			return ierr.NewError("unit price cannot be negative").
				WithHint("Line item prices must be zero or more").
				WithReportableDetails(map[string]interface{}{
					"index":      i,
					"product_id": li.ProductID,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// CreateOrderRequest opens a draft order. The subtotal is derived from the
// items unless Subtotal is given for an order without items.
type CreateOrderRequest struct {
	CustomerID    string            `json:"customerId,omitempty"`
	CustomerGroup string            `json:"customerGroup,omitempty"`
	FirstPurchase bool              `json:"firstPurchase,omitempty"`
	Items         []LineItemRequest `json:"items,omitempty" validate:"dive"`
	Subtotal      *decimal.Decimal  `json:"subtotal,omitempty"`
	Shipping      decimal.Decimal   `json:"shipping"`
}

func (r *CreateOrderRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := validateLineItems(r.Items); err != nil {
		return err
	}
	if r.Subtotal == nil && len(r.Items) == 0 {
		return ierr.NewError("subtotal or items required").
			WithHint("Send line items or a subtotal for the draft order").
			Mark(ierr.ErrValidation)
	}
	if r.Shipping.IsNegative() {
		return ierr.NewError("shipping cannot be negative").
			WithHint("Shipping must be zero or more").
			Mark(ierr.ErrValidation)
	}
	if r.Subtotal != nil && r.Subtotal.IsNegative() {
		return ierr.NewError("subtotal cannot be negative").
			WithHint("Subtotal must be zero or more").
			Mark(ierr.ErrValidation)
	}
	if r.Subtotal != nil && len(r.Items) > 0 {
		return ierr.NewError("subtotal and items are mutually exclusive").
			WithHint("Send either line items or a subtotal").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *CreateOrderRequest) ToOrder(ctx context.Context) *order.Order {
	o := &order.Order{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER),
		StoreName:      types.GetStoreContext(ctx).StoreName,
		CustomerID:     r.CustomerID,
		CustomerGroup:  r.CustomerGroup,
		FirstPurchase:  r.FirstPurchase,
		Status:         types.OrderStatusDraft,
		Items:          toLineItems(r.Items),
		Shipping:       r.Shipping,
		Discount:       decimal.Zero,
		AppliedCoupons: []order.OrderCoupon{},
		BaseModel:      domain.NewBaseModel(ctx),
	}
	o.Subtotal = o.ItemsSubtotal()
	if r.Subtotal != nil {
		o.Subtotal = *r.Subtotal
	}
	return o
}

type UpdateOrderItemsRequest struct {
	Items []LineItemRequest `json:"items" validate:"dive"`
}

func (r *UpdateOrderItemsRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return validateLineItems(r.Items)
}

func (r *UpdateOrderItemsRequest) LineItems() []order.LineItem {
	return toLineItems(r.Items)
}

type SetShippingRequest struct {
	Shipping decimal.Decimal `json:"shipping"`
}

func (r *SetShippingRequest) Validate() error {
	if r.Shipping.IsNegative() {
		return ierr.NewError("shipping cannot be negative").
			WithHint("Shipping must be zero or more").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type ApplyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

func (r *ApplyCouponRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if types.NormalizeCouponCode(r.Code) == "" {
		return ierr.NewError("code is required").
			WithHint("Please provide a coupon code").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// OrderResponse adds the derived total and loyalty factors to the order
type OrderResponse struct {
	*order.Order
	Total             decimal.Decimal   `json:"total"`
	PointsMultipliers []decimal.Decimal `json:"pointsMultipliers,omitempty"`
}

func NewOrderResponse(o *order.Order) *OrderResponse {
	return &OrderResponse{
		Order:             o,
		Total:             o.Total(),
		PointsMultipliers: o.PointsMultipliers(),
	}
}

// AvailableCouponsResponse lists the coupons that could be applied next
type AvailableCouponsResponse struct {
	Items []*CouponResponse `json:"items"`
}

func NewAvailableCouponsResponse(coupons []*CouponResponse) *AvailableCouponsResponse {
	if coupons == nil {
		coupons = []*CouponResponse{}
	}
	return &AvailableCouponsResponse{Items: coupons}
}
