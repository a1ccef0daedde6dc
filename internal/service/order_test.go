package service

import (
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/zaviagodev/ai-commerce-sub002/internal/api/dto"
	"github.com/zaviagodev/ai-commerce-sub002/internal/discount"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/testutil"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

type OrderServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  OrderService
	testData struct {
		coupons map[string]*coupon.Coupon
	}
}

func TestOrderService(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}

func (s *OrderServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *OrderServiceSuite) setupService() {
	s.service = NewOrderService(ServiceParams{
		Logger:     s.GetLogger(),
		Config:     s.GetConfig(),
		Engine:     s.GetEngine(),
		CouponRepo: s.GetStores().CouponRepo,
		OrderRepo:  s.GetStores().OrderRepo,
		Now:        s.GetNow,
	})
}

func (s *OrderServiceSuite) setupTestData() {
	s.testData.coupons = map[string]*coupon.Coupon{}
	s.addCoupon("SAVE10", types.CouponTypePercentage, "10", nil)
	s.addCoupon("FIXED20", types.CouponTypeFixed, "20", nil)
	s.addCoupon("FREESHIP", types.CouponTypeShipping, "0", nil)
	s.addCoupon("BIGSPEND", types.CouponTypePercentage, "5", func(c *coupon.Coupon) {
		c.MinPurchaseAmount = lo.ToPtr(decimal.NewFromInt(500))
	})
	s.addCoupon("ONCE", types.CouponTypeFixed, "5", func(c *coupon.Coupon) {
		c.UsageLimit = lo.ToPtr(1)
	})
	s.addCoupon("HIDDEN", types.CouponTypeFixed, "5", func(c *coupon.Coupon) {
		c.Status = types.CouponStatusDraft
	})
}

func (s *OrderServiceSuite) addCoupon(code string, couponType types.CouponType, value string, mutate func(*coupon.Coupon)) {
	now := s.GetNow()
	c := &coupon.Coupon{
		ID:        types.UUID_PREFIX_COUPON + "_" + strings.ToLower(code),
		Code:      code,
		Name:      code,
		Type:      couponType,
		Value:     decimal.RequireFromString(value),
		Status:    types.CouponStatusActive,
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(24 * time.Hour),
		BaseModel: domain.NewBaseModel(s.GetContext()),
	}
	if mutate != nil {
		mutate(c)
	}
	s.Require().NoError(s.GetStores().CouponRepo.Create(s.GetContext(), s.GetStoreContext(), c))
	s.testData.coupons[code] = c
}

// createOrder opens a draft with two units at 50 and shipping of 10
func (s *OrderServiceSuite) createOrder() *dto.OrderResponse {
	resp, err := s.service.CreateDraftOrder(s.GetContext(), dto.CreateOrderRequest{
		Items: []dto.LineItemRequest{
			{ProductID: "prod_1", Name: "Mug", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		},
		Shipping: decimal.NewFromInt(10),
	})
	s.Require().NoError(err)
	return resp
}

func (s *OrderServiceSuite) apply(orderID, code string) (*dto.OrderResponse, error) {
	return s.service.ApplyCoupon(s.GetContext(), orderID, dto.ApplyCouponRequest{Code: code})
}

func (s *OrderServiceSuite) assertDecimal(expected string, actual decimal.Decimal) {
	s.Truef(decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func (s *OrderServiceSuite) TestCreateDraftOrder() {
	o := s.createOrder()
	s.Equal(types.OrderStatusDraft, o.Status)
	s.Equal(testutil.TestStoreName, o.StoreName)
	s.assertDecimal("100", o.Subtotal)
	s.assertDecimal("110", o.Total)
	s.Empty(o.AppliedCoupons)

	got, err := s.service.GetOrder(s.GetContext(), o.ID)
	s.NoError(err)
	s.Equal(o.ID, got.ID)

	_, err = s.service.GetOrder(s.GetContextForStore("other"), o.ID)
	s.True(ierr.IsNotFound(err))
}

func (s *OrderServiceSuite) TestCreateDraftOrder_ZeroSubtotal() {
	resp, err := s.service.CreateDraftOrder(s.GetContext(), dto.CreateOrderRequest{
		Subtotal: lo.ToPtr(decimal.Zero),
	})
	s.Require().NoError(err)
	s.assertDecimal("0", resp.Subtotal)
}

func (s *OrderServiceSuite) TestCreateDraftOrder_Validation() {
	tests := []struct {
		name string
		req  dto.CreateOrderRequest
	}{
		{name: "no items or subtotal", req: dto.CreateOrderRequest{}},
		{name: "shipping only", req: dto.CreateOrderRequest{Shipping: decimal.NewFromInt(10)}},
		{name: "negative shipping", req: dto.CreateOrderRequest{
			Subtotal: lo.ToPtr(decimal.NewFromInt(10)),
			Shipping: decimal.NewFromInt(-1),
		}},
		{name: "zero quantity", req: dto.CreateOrderRequest{
			Items: []dto.LineItemRequest{{ProductID: "prod_1", UnitPrice: decimal.NewFromInt(5)}},
		}},
		{name: "negative unit price", req: dto.CreateOrderRequest{
			Items: []dto.LineItemRequest{{ProductID: "prod_1", Quantity: 1, UnitPrice: decimal.NewFromInt(-5)}},
		}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.CreateDraftOrder(s.GetContext(), tt.req)
			s.True(ierr.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func (s *OrderServiceSuite) TestApplyCoupon() {
	o := s.createOrder()

	resp, err := s.apply(o.ID, " save10 ")
	s.Require().NoError(err)
	s.Require().Len(resp.AppliedCoupons, 1)
	s.Equal("SAVE10", resp.AppliedCoupons[0].Code)
	s.Equal(s.testData.coupons["SAVE10"].ID, resp.AppliedCoupons[0].CouponID)
	s.assertDecimal("10", resp.Discount)
	s.assertDecimal("100", resp.Total)

	stored, err := s.service.GetOrder(s.GetContext(), o.ID)
	s.NoError(err)
	s.Equal([]string{"SAVE10"}, stored.AppliedCodes())

	resp, err = s.apply(o.ID, "FIXED20")
	s.Require().NoError(err)
	s.assertDecimal("30", resp.Discount)
	s.assertDecimal("80", resp.Total)
}

func (s *OrderServiceSuite) TestApplyCoupon_Rejected() {
	o := s.createOrder()
	_, err := s.apply(o.ID, "SAVE10")
	s.Require().NoError(err)

	tests := []struct {
		code   string
		reason types.CouponValidationErrorCode
	}{
		{code: "SAVE10", reason: types.CouponValidationErrorCodeAlreadyApplied},
		{code: "BIGSPEND", reason: types.CouponValidationErrorCodeBelowMinPurchase},
		{code: "HIDDEN", reason: types.CouponValidationErrorCodeNotActive},
		{code: "MISSING", reason: types.CouponValidationErrorCodeNotFound},
	}

	for _, tt := range tests {
		s.Run(tt.code, func() {
			_, err := s.apply(o.ID, tt.code)
			s.Error(err)
			s.Equal(tt.reason, types.ValidationReason(err))
		})
	}

	stored, err := s.service.GetOrder(s.GetContext(), o.ID)
	s.NoError(err)
	s.Equal([]string{"SAVE10"}, stored.AppliedCodes())
	s.assertDecimal("10", stored.Discount)
}

func (s *OrderServiceSuite) TestUpdateOrderItems_Recalculates() {
	o := s.createOrder()
	_, err := s.apply(o.ID, "SAVE10")
	s.Require().NoError(err)

	resp, err := s.service.UpdateOrderItems(s.GetContext(), o.ID, dto.UpdateOrderItemsRequest{
		Items: []dto.LineItemRequest{
			{ProductID: "prod_1", Quantity: 4, UnitPrice: decimal.NewFromInt(50)},
		},
	})
	s.Require().NoError(err)
	s.assertDecimal("200", resp.Subtotal)
	s.assertDecimal("20", resp.Discount)
	s.assertDecimal("20", resp.AppliedCoupons[0].Discount)
	s.assertDecimal("190", resp.Total)
}

func (s *OrderServiceSuite) TestShippingWaiver() {
	o := s.createOrder()

	resp, err := s.apply(o.ID, "FREESHIP")
	s.Require().NoError(err)
	s.True(resp.Shipping.IsZero())
	s.assertDecimal("100", resp.Total)

	resp, err = s.service.SetShipping(s.GetContext(), o.ID, dto.SetShippingRequest{Shipping: decimal.NewFromInt(15)})
	s.Require().NoError(err)
	s.True(resp.Shipping.IsZero())

	_, err = s.service.SetShipping(s.GetContext(), o.ID, dto.SetShippingRequest{Shipping: decimal.NewFromInt(-1)})
	s.True(ierr.IsValidation(err))

	// the default policy leaves shipping waived after removal
	resp, err = s.service.RemoveCoupon(s.GetContext(), o.ID, "freeship")
	s.Require().NoError(err)
	s.Empty(resp.AppliedCoupons)
	s.True(resp.Shipping.IsZero())
}

func (s *OrderServiceSuite) TestShippingWaiver_RestoreOnRemove() {
	policy := discount.DefaultPolicy()
	policy.RestoreShippingOnRemove = true
	s.SetEngine(discount.NewEngine(policy))
	s.setupService()

	o := s.createOrder()
	_, err := s.apply(o.ID, "FREESHIP")
	s.Require().NoError(err)

	resp, err := s.service.RemoveCoupon(s.GetContext(), o.ID, "FREESHIP")
	s.Require().NoError(err)
	s.assertDecimal("10", resp.Shipping)
	s.assertDecimal("110", resp.Total)
}

func (s *OrderServiceSuite) TestRemoveCoupon() {
	o := s.createOrder()
	_, err := s.apply(o.ID, "SAVE10")
	s.Require().NoError(err)
	_, err = s.apply(o.ID, "FIXED20")
	s.Require().NoError(err)

	resp, err := s.service.RemoveCoupon(s.GetContext(), o.ID, "save10")
	s.Require().NoError(err)
	s.Equal([]string{"FIXED20"}, resp.AppliedCodes())
	s.assertDecimal("20", resp.Discount)

	unchanged, err := s.service.RemoveCoupon(s.GetContext(), o.ID, "NOT-APPLIED")
	s.NoError(err)
	s.Equal([]string{"FIXED20"}, unchanged.AppliedCodes())
	s.True(resp.UpdatedAt.Equal(unchanged.UpdatedAt))
}

func (s *OrderServiceSuite) TestListAvailableCoupons() {
	o := s.createOrder()
	_, err := s.apply(o.ID, "SAVE10")
	s.Require().NoError(err)

	resp, err := s.service.ListAvailableCoupons(s.GetContext(), o.ID, "")
	s.Require().NoError(err)
	s.Equal([]string{"FIXED20", "FREESHIP", "ONCE"}, lo.Map(resp.Items, func(c *dto.CouponResponse, _ int) string { return c.Code }))

	resp, err = s.service.ListAvailableCoupons(s.GetContext(), o.ID, "fre")
	s.Require().NoError(err)
	s.Len(resp.Items, 1)
	s.Equal("FREESHIP", resp.Items[0].Code)

	resp, err = s.service.ListAvailableCoupons(s.GetContext(), o.ID, "nothing-matches")
	s.Require().NoError(err)
	s.NotNil(resp.Items)
	s.Empty(resp.Items)
}

func (s *OrderServiceSuite) TestFinalizeOrder() {
	o := s.createOrder()
	_, err := s.apply(o.ID, "SAVE10")
	s.Require().NoError(err)
	_, err = s.apply(o.ID, "ONCE")
	s.Require().NoError(err)

	resp, err := s.service.FinalizeOrder(s.GetContext(), o.ID)
	s.Require().NoError(err)
	s.Equal(types.OrderStatusFinalized, resp.Status)
	s.Require().NotNil(resp.FinalizedAt)
	s.True(resp.FinalizedAt.Equal(s.GetNow()))

	for _, code := range []string{"SAVE10", "ONCE"} {
		c, err := s.GetStores().CouponRepo.GetByCode(s.GetContext(), s.GetStoreContext(), code)
		s.Require().NoError(err)
		s.Equal(1, c.UsageCount, code)
	}
	untouched, err := s.GetStores().CouponRepo.GetByCode(s.GetContext(), s.GetStoreContext(), "FIXED20")
	s.Require().NoError(err)
	s.Zero(untouched.UsageCount)

	// a second order cannot use the exhausted coupon
	next := s.createOrder()
	_, err = s.apply(next.ID, "ONCE")
	s.Equal(types.CouponValidationErrorCodeUsageLimitReached, types.ValidationReason(err))
}

func (s *OrderServiceSuite) TestFinalizedOrderIsLocked() {
	o := s.createOrder()
	_, err := s.apply(o.ID, "SAVE10")
	s.Require().NoError(err)
	_, err = s.service.FinalizeOrder(s.GetContext(), o.ID)
	s.Require().NoError(err)

	_, err = s.service.FinalizeOrder(s.GetContext(), o.ID)
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.apply(o.ID, "FIXED20")
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.RemoveCoupon(s.GetContext(), o.ID, "SAVE10")
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.UpdateOrderItems(s.GetContext(), o.ID, dto.UpdateOrderItemsRequest{
		Items: []dto.LineItemRequest{{ProductID: "prod_1", Quantity: 1, UnitPrice: decimal.NewFromInt(5)}},
	})
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.SetShipping(s.GetContext(), o.ID, dto.SetShippingRequest{Shipping: decimal.NewFromInt(3)})
	s.True(ierr.IsInvalidOperation(err))

	c, err := s.GetStores().CouponRepo.GetByCode(s.GetContext(), s.GetStoreContext(), "SAVE10")
	s.Require().NoError(err)
	s.Equal(1, c.UsageCount)
}
