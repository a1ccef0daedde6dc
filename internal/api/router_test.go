package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/zaviagodev/ai-commerce-sub002/internal/api/dto"
	v1 "github.com/zaviagodev/ai-commerce-sub002/internal/api/v1"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/service"
	"github.com/zaviagodev/ai-commerce-sub002/internal/testutil"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

type RouterSuite struct {
	testutil.BaseServiceTestSuite
	router *gin.Engine
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	params := service.ServiceParams{
		Logger:     s.GetLogger(),
		Config:     s.GetConfig(),
		Engine:     s.GetEngine(),
		CouponRepo: s.GetStores().CouponRepo,
		OrderRepo:  s.GetStores().OrderRepo,
		Now:        s.GetNow,
	}
	s.router = NewRouter(Handlers{
		Health: v1.NewHealthHandler(s.GetConfig(), s.GetLogger()),
		Coupon: v1.NewCouponHandler(service.NewCouponService(params), s.GetLogger()),
		Order:  v1.NewOrderHandler(service.NewOrderService(params), s.GetLogger()),
	}, s.GetConfig(), s.GetLogger())
}

func (s *RouterSuite) request(method, path string, body interface{}, out interface{}) int {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(types.HeaderStoreName, testutil.TestStoreName)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if out != nil && w.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func (s *RouterSuite) createCoupon(code string, couponType types.CouponType, value int64) dto.CouponResponse {
	now := s.GetNow()
	var created dto.CouponResponse
	status := s.request(http.MethodPost, "/v1/coupons", dto.CreateCouponRequest{
		Code:      code,
		Name:      code,
		Type:      couponType,
		Value:     decimal.NewFromInt(value),
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(24 * time.Hour),
		Status:    types.CouponStatusActive,
	}, &created)
	s.Require().Equal(http.StatusCreated, status)
	return created
}

func (s *RouterSuite) TestHealth() {
	var body map[string]string
	s.Equal(http.StatusOK, s.request(http.MethodGet, "/health", nil, &body))
	s.Equal("ok", body["status"])
	s.Equal(http.StatusOK, s.request(http.MethodGet, "/v1/health", nil, nil))
}

func (s *RouterSuite) TestCouponRoutes() {
	created := s.createCoupon("save10", types.CouponTypePercentage, 10)
	s.Equal("SAVE10", created.Code)

	var byCode dto.CouponResponse
	s.Equal(http.StatusOK, s.request(http.MethodGet, "/v1/coupons/code/save10", nil, &byCode))
	s.Equal(created.ID, byCode.ID)

	var byID dto.CouponResponse
	s.Equal(http.StatusOK, s.request(http.MethodGet, "/v1/coupons/"+created.ID, nil, &byID))
	s.Equal("SAVE10", byID.Code)

	var list dto.ListCouponsResponse
	s.Equal(http.StatusOK, s.request(http.MethodGet, "/v1/coupons?limit=10&statuses=active", nil, &list))
	s.Equal(1, list.Pagination.Total)

	var updated dto.CouponResponse
	name := "Ten off"
	s.Equal(http.StatusOK, s.request(http.MethodPut, "/v1/coupons/"+created.ID, dto.UpdateCouponRequest{Name: &name}, &updated))
	s.Equal("Ten off", updated.Name)

	var duplicate ierr.ErrorResponse
	now := s.GetNow()
	s.Equal(http.StatusConflict, s.request(http.MethodPost, "/v1/coupons", dto.CreateCouponRequest{
		Code:      "SAVE10",
		Name:      "again",
		Type:      types.CouponTypeFixed,
		Value:     decimal.NewFromInt(1),
		StartDate: now,
		EndDate:   now.Add(time.Hour),
	}, &duplicate))
	s.False(duplicate.Success)

	s.Equal(http.StatusNoContent, s.request(http.MethodDelete, "/v1/coupons/"+created.ID, nil, nil))

	var missing ierr.ErrorResponse
	s.Equal(http.StatusNotFound, s.request(http.MethodGet, "/v1/coupons/code/SAVE10", nil, &missing))
	s.Equal(string(types.CouponValidationErrorCodeNotFound), missing.Error.Details["reason"])
}

func (s *RouterSuite) TestEvaluate() {
	s.createCoupon("SAVE10", types.CouponTypePercentage, 10)

	subtotal := decimal.NewFromInt(200)
	var resp dto.EvaluateCouponsResponse
	s.Equal(http.StatusOK, s.request(http.MethodPost, "/v1/coupons/evaluate", dto.EvaluateCouponsRequest{
		Codes:    []string{"SAVE10", "NOPE"},
		Subtotal: &subtotal,
	}, &resp))
	s.Require().Len(resp.Results, 2)
	s.True(resp.Results[0].Applicable)
	s.False(resp.Results[1].Applicable)
	s.True(decimal.NewFromInt(180).Equal(resp.Total))

	s.Equal(http.StatusBadRequest, s.request(http.MethodPost, "/v1/coupons/evaluate", map[string]any{"codes": []string{}}, nil))
}

func (s *RouterSuite) TestOrderFlow() {
	s.createCoupon("SAVE10", types.CouponTypePercentage, 10)
	s.createCoupon("FREESHIP", types.CouponTypeShipping, 0)

	var o dto.OrderResponse
	s.Require().Equal(http.StatusCreated, s.request(http.MethodPost, "/v1/orders", dto.CreateOrderRequest{
		Items: []dto.LineItemRequest{
			{ProductID: "prod_1", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		},
		Shipping: decimal.NewFromInt(10),
	}, &o))
	base := "/v1/orders/" + o.ID

	s.Equal(http.StatusOK, s.request(http.MethodPost, base+"/coupons", dto.ApplyCouponRequest{Code: "save10"}, &o))
	s.True(decimal.NewFromInt(100).Equal(o.Total))

	var rejected ierr.ErrorResponse
	s.Equal(http.StatusUnprocessableEntity, s.request(http.MethodPost, base+"/coupons", dto.ApplyCouponRequest{Code: "SAVE10"}, &rejected))
	s.Equal(string(types.CouponValidationErrorCodeAlreadyApplied), rejected.Error.Details["reason"])

	var available dto.AvailableCouponsResponse
	s.Equal(http.StatusOK, s.request(http.MethodGet, base+"/available-coupons?search=ship", nil, &available))
	s.Require().Len(available.Items, 1)
	s.Equal("FREESHIP", available.Items[0].Code)

	s.Equal(http.StatusOK, s.request(http.MethodPost, base+"/coupons", dto.ApplyCouponRequest{Code: "FREESHIP"}, &o))
	s.True(o.Shipping.IsZero())

	s.Equal(http.StatusOK, s.request(http.MethodPut, base+"/items", dto.UpdateOrderItemsRequest{
		Items: []dto.LineItemRequest{{ProductID: "prod_1", Quantity: 3, UnitPrice: decimal.NewFromInt(50)}},
	}, &o))
	s.True(decimal.NewFromInt(15).Equal(o.Discount))

	s.Equal(http.StatusOK, s.request(http.MethodPut, base+"/shipping", dto.SetShippingRequest{Shipping: decimal.NewFromInt(12)}, &o))
	s.True(o.Shipping.IsZero())

	s.Equal(http.StatusOK, s.request(http.MethodDelete, base+"/coupons/save10", nil, &o))
	s.Equal([]string{"FREESHIP"}, o.AppliedCodes())

	s.Equal(http.StatusOK, s.request(http.MethodPost, base+"/finalize", nil, &o))
	s.Equal(types.OrderStatusFinalized, o.Status)

	s.Equal(http.StatusBadRequest, s.request(http.MethodPost, base+"/finalize", nil, nil))

	var fetched dto.OrderResponse
	s.Equal(http.StatusOK, s.request(http.MethodGet, base, nil, &fetched))
	s.Equal(types.OrderStatusFinalized, fetched.Status)

	s.Equal(http.StatusNotFound, s.request(http.MethodGet, "/v1/orders/ord_missing", nil, nil))
}
