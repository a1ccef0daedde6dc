package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
	"github.com/zaviagodev/ai-commerce-sub002/internal/api/dto"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/order"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// maxUsageWorkers bounds the parallel usage increments on finalization
const maxUsageWorkers = 4

// OrderService manages draft orders and the coupons applied to them
type OrderService interface {
	CreateDraftOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error)
	UpdateOrderItems(ctx context.Context, id string, req dto.UpdateOrderItemsRequest) (*dto.OrderResponse, error)
	SetShipping(ctx context.Context, id string, req dto.SetShippingRequest) (*dto.OrderResponse, error)
	ApplyCoupon(ctx context.Context, id string, req dto.ApplyCouponRequest) (*dto.OrderResponse, error)
	RemoveCoupon(ctx context.Context, id string, code string) (*dto.OrderResponse, error)
	ListAvailableCoupons(ctx context.Context, id string, search string) (*dto.AvailableCouponsResponse, error)
	FinalizeOrder(ctx context.Context, id string) (*dto.OrderResponse, error)
}

type orderService struct {
	ServiceParams
}

func NewOrderService(params ServiceParams) OrderService {
	return &orderService{
		ServiceParams: params,
	}
}

func (s *orderService) CreateDraftOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sc := types.GetStoreContext(ctx)
	o := req.ToOrder(ctx)
	if err := s.OrderRepo.Create(ctx, sc, o); err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("created draft order",
		"order_id", o.ID,
		"subtotal", o.Subtotal,
	)

	return dto.NewOrderResponse(o), nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := s.getOrder(ctx, types.GetStoreContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return dto.NewOrderResponse(o), nil
}

func (s *orderService) getOrder(ctx context.Context, sc types.StoreContext, id string) (*order.Order, error) {
	if id == "" {
		return nil, ierr.NewError("order_id is required").
			WithHint("Please provide an order ID").
			Mark(ierr.ErrValidation)
	}
	return s.OrderRepo.Get(ctx, sc, id)
}

// UpdateOrderItems replaces the line items, derives the subtotal from them and
// recomputes the applied coupon amounts
func (s *orderService) UpdateOrderItems(ctx context.Context, id string, req dto.UpdateOrderItemsRequest) (*dto.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sc := types.GetStoreContext(ctx)
	o, err := s.getOrder(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	if o.IsFinalized() {
		return nil, finalizedError(o)
	}

	o.Items = req.LineItems()
	o.Subtotal = o.ItemsSubtotal()
	next := s.Engine.Recalculate(o)

	return s.save(ctx, sc, next)
}

func (s *orderService) SetShipping(ctx context.Context, id string, req dto.SetShippingRequest) (*dto.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sc := types.GetStoreContext(ctx)
	o, err := s.getOrder(ctx, sc, id)
	if err != nil {
		return nil, err
	}

	next, err := s.Engine.SetShipping(sc, o, req.Shipping)
	if err != nil {
		return nil, err
	}

	return s.save(ctx, sc, next)
}

func (s *orderService) ApplyCoupon(ctx context.Context, id string, req dto.ApplyCouponRequest) (*dto.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sc := types.GetStoreContext(ctx)
	o, err := s.getOrder(ctx, sc, id)
	if err != nil {
		return nil, err
	}

	c, err := lookupCouponByCode(ctx, s.CouponRepo, sc, req.Code)
	if err != nil {
		return nil, err
	}

	next, err := s.Engine.ApplyCoupon(sc, o, c, s.now())
	if err != nil {
		s.Logger.WithContext(ctx).Infow("coupon rejected",
			"order_id", o.ID,
			"code", c.Code,
			"reason", types.ValidationReason(err),
		)
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("applied coupon",
		"order_id", o.ID,
		"code", c.Code,
		"discount", next.Discount,
	)
	s.Sentry.AddBreadcrumb("order", "coupon applied", map[string]interface{}{
		"order_id": o.ID,
		"code":     c.Code,
	})

	return s.save(ctx, sc, next)
}

func (s *orderService) RemoveCoupon(ctx context.Context, id string, code string) (*dto.OrderResponse, error) {
	sc := types.GetStoreContext(ctx)
	o, err := s.getOrder(ctx, sc, id)
	if err != nil {
		return nil, err
	}

	next, err := s.Engine.RemoveCoupon(sc, o, code)
	if err != nil {
		return nil, err
	}
	if len(next.AppliedCoupons) == len(o.AppliedCoupons) {
		return dto.NewOrderResponse(next), nil
	}

	s.Logger.WithContext(ctx).Infow("removed coupon",
		"order_id", o.ID,
		"code", types.NormalizeCouponCode(code),
	)

	return s.save(ctx, sc, next)
}

// ListAvailableCoupons returns the active coupons that could be applied to
// the order next, optionally narrowed by a search on code or name
func (s *orderService) ListAvailableCoupons(ctx context.Context, id string, search string) (*dto.AvailableCouponsResponse, error) {
	sc := types.GetStoreContext(ctx)
	o, err := s.getOrder(ctx, sc, id)
	if err != nil {
		return nil, err
	}

	filter := types.NewNoLimitCouponFilter()
	filter.Search = search
	filter.Statuses = []types.CouponStatus{types.CouponStatusActive}

	coupons, err := s.CouponRepo.List(ctx, sc, filter)
	if err != nil {
		return nil, err
	}

	available := s.Engine.ListAvailableCoupons(sc, coupons, o, s.now())
	return dto.NewAvailableCouponsResponse(lo.Map(available, func(c *coupon.Coupon, _ int) *dto.CouponResponse {
		return dto.NewCouponResponse(c)
	})), nil
}

// FinalizeOrder locks the order and counts one use of every applied coupon.
// Usage increments run in parallel; failures are logged and reported but do
// not undo the finalization.
func (s *orderService) FinalizeOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	sc := types.GetStoreContext(ctx)
	o, err := s.getOrder(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	if !sc.Owns(o.StoreName) {
		return nil, ierr.NewError("order belongs to another store").
			WithHint("You do not have access to this order").
			Mark(ierr.ErrPermissionDenied)
	}
	if o.IsFinalized() {
		return nil, finalizedError(o)
	}

	now := s.now()
	o.Status = types.OrderStatusFinalized
	o.FinalizedAt = &now

	resp, err := s.save(ctx, sc, o)
	if err != nil {
		return nil, err
	}

	s.incrementUsage(ctx, sc, o)

	s.Logger.WithContext(ctx).Infow("finalized order",
		"order_id", o.ID,
		"coupons", o.AppliedCodes(),
		"total", o.Total(),
	)

	return resp, nil
}

func (s *orderService) incrementUsage(ctx context.Context, sc types.StoreContext, o *order.Order) {
	if len(o.AppliedCoupons) == 0 {
		return
	}

	p := pool.New().WithContext(ctx).WithMaxGoroutines(maxUsageWorkers)
	for _, applied := range o.AppliedCoupons {
		p.Go(func(ctx context.Context) error {
			if err := s.CouponRepo.IncrementUsage(ctx, sc, applied.CouponID); err != nil {
				s.Logger.WithContext(ctx).Errorw("failed to increment coupon usage",
					"order_id", o.ID,
					"coupon_id", applied.CouponID,
					"code", applied.Code,
					"error", err,
				)
				return err
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		s.Sentry.CaptureException(ierr.WithError(err).
			WithHint("Failed to record coupon usage").
			WithReportableDetails(map[string]interface{}{
				"order_id": o.ID,
			}).
			Mark(ierr.ErrDatabase))
	}
}

func (s *orderService) save(ctx context.Context, sc types.StoreContext, o *order.Order) (*dto.OrderResponse, error) {
	o.Touch(ctx)
	if err := s.OrderRepo.Update(ctx, sc, o); err != nil {
		return nil, err
	}
	return dto.NewOrderResponse(o), nil
}

func finalizedError(o *order.Order) error {
	return ierr.NewError("order is finalized").
		WithHint("Finalized orders cannot be changed").
		WithReportableDetails(map[string]interface{}{
			"order_id": o.ID,
		}).
		Mark(ierr.ErrInvalidOperation)
}
