package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/zaviagodev/ai-commerce-sub002/internal/api/dto"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/order"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// CouponService defines the interface for coupon operations
type CouponService interface {
	CreateCoupon(ctx context.Context, req dto.CreateCouponRequest) (*dto.CouponResponse, error)
	GetCoupon(ctx context.Context, id string) (*dto.CouponResponse, error)
	GetCouponByCode(ctx context.Context, code string) (*dto.CouponResponse, error)
	UpdateCoupon(ctx context.Context, id string, req dto.UpdateCouponRequest) (*dto.CouponResponse, error)
	DeleteCoupon(ctx context.Context, id string) error
	ListCoupons(ctx context.Context, filter *types.CouponFilter) (*dto.ListCouponsResponse, error)

	// EvaluateCoupons previews codes against a cart without storing anything
	EvaluateCoupons(ctx context.Context, req dto.EvaluateCouponsRequest) (*dto.EvaluateCouponsResponse, error)

	// SyncStatuses moves scheduled coupons to active and active coupons to
	// ended according to their date window. It returns the number changed.
	SyncStatuses(ctx context.Context, now time.Time) (int, error)
}

type couponService struct {
	ServiceParams
}

// NewCouponService creates a new coupon service
func NewCouponService(
	params ServiceParams,
) CouponService {
	return &couponService{
		ServiceParams: params,
	}
}

// CreateCoupon creates a new coupon
func (s *couponService) CreateCoupon(ctx context.Context, req dto.CreateCouponRequest) (*dto.CouponResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sc := types.GetStoreContext(ctx)
	c := req.ToCoupon(ctx)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.CouponRepo.Create(ctx, sc, c); err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("created coupon",
		"coupon_id", c.ID,
		"code", c.Code,
		"type", c.Type,
	)

	return dto.NewCouponResponse(c), nil
}

// GetCoupon retrieves a coupon by ID
func (s *couponService) GetCoupon(ctx context.Context, id string) (*dto.CouponResponse, error) {
	if id == "" {
		return nil, ierr.NewError("coupon_id is required").
			WithHint("Please provide a coupon ID").
			Mark(ierr.ErrValidation)
	}

	c, err := s.CouponRepo.Get(ctx, types.GetStoreContext(ctx), id)
	if err != nil {
		return nil, err
	}

	return dto.NewCouponResponse(c), nil
}

// GetCouponByCode retrieves a coupon by its redemption code
func (s *couponService) GetCouponByCode(ctx context.Context, code string) (*dto.CouponResponse, error) {
	c, err := s.lookupCode(ctx, types.GetStoreContext(ctx), code)
	if err != nil {
		return nil, err
	}
	return dto.NewCouponResponse(c), nil
}

// lookupCode turns a missing code into COUPON_NOT_FOUND
func (s *couponService) lookupCode(ctx context.Context, sc types.StoreContext, code string) (*coupon.Coupon, error) {
	return lookupCouponByCode(ctx, s.CouponRepo, sc, code)
}

func lookupCouponByCode(ctx context.Context, repo coupon.Repository, sc types.StoreContext, code string) (*coupon.Coupon, error) {
	normalized := types.NormalizeCouponCode(code)
	if normalized == "" {
		return nil, ierr.NewError("code is required").
			WithHint("Please provide a coupon code").
			Mark(ierr.ErrValidation)
	}

	c, err := repo.GetByCode(ctx, sc, normalized)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		verr := &types.CouponValidationError{
			Code:    types.CouponValidationErrorCodeNotFound,
			Message: "Coupon not found",
			Details: map[string]interface{}{"coupon_code": normalized},
		}
		return nil, ierr.WithError(verr).
			WithHintf("Coupon %s not found", normalized).
			WithReportableDetails(map[string]interface{}{
				"reason":      verr.Code,
				"coupon_code": normalized,
			}).
			Mark(ierr.ErrNotFound)
	}
	return c, nil
}

// UpdateCoupon updates an existing coupon
func (s *couponService) UpdateCoupon(ctx context.Context, id string, req dto.UpdateCouponRequest) (*dto.CouponResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sc := types.GetStoreContext(ctx)
	c, err := s.CouponRepo.Get(ctx, sc, id)
	if err != nil {
		return nil, err
	}

	req.Apply(ctx, c)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.CouponRepo.Update(ctx, sc, c); err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("updated coupon",
		"coupon_id", c.ID,
		"code", c.Code,
		"status", c.Status,
	)

	return dto.NewCouponResponse(c), nil
}

// DeleteCoupon deletes a coupon. Orders keep their snapshot of it.
func (s *couponService) DeleteCoupon(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("coupon_id is required").
			WithHint("Please provide a coupon ID").
			Mark(ierr.ErrValidation)
	}

	if err := s.CouponRepo.Delete(ctx, types.GetStoreContext(ctx), id); err != nil {
		return err
	}

	s.Logger.WithContext(ctx).Infow("deleted coupon", "coupon_id", id)
	return nil
}

// ListCoupons lists coupons with optional filtering
func (s *couponService) ListCoupons(ctx context.Context, filter *types.CouponFilter) (*dto.ListCouponsResponse, error) {
	if filter == nil {
		filter = types.NewCouponFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	sc := types.GetStoreContext(ctx)
	coupons, err := s.CouponRepo.List(ctx, sc, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.CouponRepo.Count(ctx, sc, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(coupons, func(c *coupon.Coupon, _ int) *dto.CouponResponse {
		return dto.NewCouponResponse(c)
	})

	response := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}

func (s *couponService) EvaluateCoupons(ctx context.Context, req dto.EvaluateCouponsRequest) (*dto.EvaluateCouponsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sc := types.GetStoreContext(ctx)
	now := s.now()
	o := req.ToCreateOrderRequest().ToOrder(ctx)

	results := make([]dto.CouponEvaluation, 0, len(req.Codes))
	for _, code := range req.Codes {
		normalized := types.NormalizeCouponCode(code)
		result := dto.CouponEvaluation{Code: normalized, Discount: decimal.Zero}

		next, err := s.previewApply(ctx, sc, o, normalized, now)
		switch reason := types.ValidationReason(err); {
		case err == nil:
			applied := next.AppliedCoupons[len(next.AppliedCoupons)-1]
			result.Applicable = true
			result.Discount = applied.Discount
			result.Effect = &applied.Effect
			o = next
		case reason != "":
			var verr *types.CouponValidationError
			ierr.As(err, &verr)
			result.Reason = reason.String()
			result.Message = verr.Message
			result.Details = verr.Details
		default:
			return nil, err
		}

		results = append(results, result)
	}

	return &dto.EvaluateCouponsResponse{
		Results:  results,
		Subtotal: o.Subtotal,
		Shipping: o.Shipping,
		Discount: o.Discount,
		Total:    o.Total(),
	}, nil
}

func (s *couponService) previewApply(ctx context.Context, sc types.StoreContext, o *order.Order, code string, now time.Time) (*order.Order, error) {
	c, err := s.lookupCode(ctx, sc, code)
	if err != nil {
		return nil, err
	}
	return s.Engine.ApplyCoupon(sc, o, c, now)
}

func (s *couponService) SyncStatuses(ctx context.Context, now time.Time) (int, error) {
	sc := types.GetStoreContext(ctx)
	filter := types.NewNoLimitCouponFilter()
	filter.Statuses = []types.CouponStatus{types.CouponStatusScheduled, types.CouponStatusActive}

	coupons, err := s.CouponRepo.List(ctx, sc, filter)
	if err != nil {
		return 0, err
	}

	inclusiveEnd := s.Engine.Policy().InclusiveEndDate
	updated := 0
	err = s.withTx(ctx, func(ctx context.Context) error {
		for _, c := range coupons {
			next := c.StatusAt(now, inclusiveEnd)
			if next == c.Status {
				continue
			}

			s.Logger.WithContext(ctx).Infow("coupon status changed",
				"coupon_id", c.ID,
				"code", c.Code,
				"from", c.Status,
				"to", next,
			)

			c.Status = next
			c.Touch(ctx)
			if err := s.CouponRepo.Update(ctx, sc, c); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return updated, nil
}
