package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/zaviagodev/ai-commerce-sub002/internal/api/dto"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/testutil"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

type CouponServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CouponService
}

func TestCouponService(t *testing.T) {
	suite.Run(t, new(CouponServiceSuite))
}

func (s *CouponServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCouponService(s.params())
}

func (s *CouponServiceSuite) params() ServiceParams {
	return ServiceParams{
		Logger:     s.GetLogger(),
		Config:     s.GetConfig(),
		Engine:     s.GetEngine(),
		CouponRepo: s.GetStores().CouponRepo,
		OrderRepo:  s.GetStores().OrderRepo,
		Now:        s.GetNow,
	}
}

func (s *CouponServiceSuite) createRequest(code string, couponType types.CouponType, value string) dto.CreateCouponRequest {
	now := s.GetNow()
	return dto.CreateCouponRequest{
		Code:      code,
		Name:      code + " coupon",
		Type:      couponType,
		Value:     decimal.RequireFromString(value),
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(24 * time.Hour),
		Status:    types.CouponStatusActive,
	}
}

func (s *CouponServiceSuite) mustCreate(req dto.CreateCouponRequest) *dto.CouponResponse {
	resp, err := s.service.CreateCoupon(s.GetContext(), req)
	s.Require().NoError(err)
	return resp
}

func (s *CouponServiceSuite) assertDecimal(expected string, actual decimal.Decimal) {
	s.Truef(decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func (s *CouponServiceSuite) TestCreateCoupon() {
	resp := s.mustCreate(s.createRequest("save10", types.CouponTypePercentage, "10"))
	s.Equal("SAVE10", resp.Code)
	s.Equal(testutil.TestStoreName, resp.StoreName)
	s.Equal(types.CouponStatusActive, resp.Status)
	s.True(strings.HasPrefix(resp.ID, types.UUID_PREFIX_COUPON+"_"))
	s.Nil(resp.RemainingUses)

	req := s.createRequest("DRAFTED", types.CouponTypeFixed, "5")
	req.Status = ""
	req.UsageLimit = lo.ToPtr(3)
	drafted := s.mustCreate(req)
	s.Equal(types.CouponStatusDraft, drafted.Status)
	s.Equal(3, *drafted.RemainingUses)
}

func (s *CouponServiceSuite) TestCreateCoupon_GeneratesCode() {
	resp := s.mustCreate(s.createRequest("", types.CouponTypeShipping, "0"))
	s.NotEmpty(resp.Code)
	s.True(strings.HasPrefix(resp.Code, types.COUPON_CODE_PREFIX))
	s.Equal(strings.ToUpper(resp.Code), resp.Code)
}

func (s *CouponServiceSuite) TestCreateCoupon_DuplicateCode() {
	s.mustCreate(s.createRequest("SAVE10", types.CouponTypePercentage, "10"))

	_, err := s.service.CreateCoupon(s.GetContext(), s.createRequest(" save10 ", types.CouponTypeFixed, "5"))
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))

	// the same code is free in another store
	_, err = s.service.CreateCoupon(s.GetContextForStore("other"), s.createRequest("SAVE10", types.CouponTypeFixed, "5"))
	s.NoError(err)
}

func (s *CouponServiceSuite) TestCreateCoupon_Validation() {
	tests := []struct {
		name   string
		mutate func(*dto.CreateCouponRequest)
	}{
		{name: "missing name", mutate: func(r *dto.CreateCouponRequest) { r.Name = "" }},
		{name: "unknown type", mutate: func(r *dto.CreateCouponRequest) { r.Type = "bogo" }},
		{name: "percentage over 100", mutate: func(r *dto.CreateCouponRequest) { r.Value = decimal.NewFromInt(150) }},
		{name: "negative value", mutate: func(r *dto.CreateCouponRequest) { r.Value = decimal.NewFromInt(-1) }},
		{name: "end before start", mutate: func(r *dto.CreateCouponRequest) { r.EndDate = r.StartDate.Add(-time.Hour) }},
		{name: "code with spaces", mutate: func(r *dto.CreateCouponRequest) { r.Code = "SAVE 10" }},
		{name: "negative usage limit", mutate: func(r *dto.CreateCouponRequest) { r.UsageLimit = lo.ToPtr(-1) }},
		{name: "unknown status", mutate: func(r *dto.CreateCouponRequest) { r.Status = "paused" }},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := s.createRequest("VALID", types.CouponTypePercentage, "10")
			tt.mutate(&req)
			_, err := s.service.CreateCoupon(s.GetContext(), req)
			s.Error(err)
			s.True(ierr.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func (s *CouponServiceSuite) TestGetCouponByCode() {
	created := s.mustCreate(s.createRequest("SAVE10", types.CouponTypePercentage, "10"))

	found, err := s.service.GetCouponByCode(s.GetContext(), " save10 ")
	s.NoError(err)
	s.Equal(created.ID, found.ID)

	_, err = s.service.GetCouponByCode(s.GetContext(), "MISSING")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
	s.Equal(types.CouponValidationErrorCodeNotFound, types.ValidationReason(err))

	_, err = s.service.GetCouponByCode(s.GetContext(), "  ")
	s.True(ierr.IsValidation(err))
}

func (s *CouponServiceSuite) TestGetCoupon_StoreIsolation() {
	created := s.mustCreate(s.createRequest("SAVE10", types.CouponTypePercentage, "10"))

	got, err := s.service.GetCoupon(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal("SAVE10", got.Code)

	_, err = s.service.GetCoupon(s.GetContextForStore("other"), created.ID)
	s.True(ierr.IsNotFound(err))
}

func (s *CouponServiceSuite) TestUpdateCoupon() {
	req := s.createRequest("SAVE10", types.CouponTypePercentage, "10")
	req.MaxDiscountAmount = lo.ToPtr(decimal.NewFromInt(20))
	created := s.mustCreate(req)
	s.mustCreate(s.createRequest("TAKEN", types.CouponTypeFixed, "5"))

	updated, err := s.service.UpdateCoupon(s.GetContext(), created.ID, dto.UpdateCouponRequest{
		Name:  lo.ToPtr("Ten percent"),
		Value: lo.ToPtr(decimal.NewFromInt(15)),
	})
	s.NoError(err)
	s.Equal("Ten percent", updated.Name)
	s.assertDecimal("15", updated.Value)
	s.NotNil(updated.MaxDiscountAmount)

	cleared, err := s.service.UpdateCoupon(s.GetContext(), created.ID, dto.UpdateCouponRequest{ClearLimits: true})
	s.NoError(err)
	s.Nil(cleared.MaxDiscountAmount)

	_, err = s.service.UpdateCoupon(s.GetContext(), created.ID, dto.UpdateCouponRequest{Code: lo.ToPtr("taken")})
	s.True(ierr.IsAlreadyExists(err))

	_, err = s.service.UpdateCoupon(s.GetContext(), created.ID, dto.UpdateCouponRequest{Value: lo.ToPtr(decimal.NewFromInt(101))})
	s.True(ierr.IsValidation(err))

	_, err = s.service.UpdateCoupon(s.GetContext(), "cpn_missing", dto.UpdateCouponRequest{Name: lo.ToPtr("x")})
	s.True(ierr.IsNotFound(err))
}

func (s *CouponServiceSuite) TestDeleteCoupon() {
	created := s.mustCreate(s.createRequest("SAVE10", types.CouponTypePercentage, "10"))

	s.NoError(s.service.DeleteCoupon(s.GetContext(), created.ID))

	_, err := s.service.GetCoupon(s.GetContext(), created.ID)
	s.True(ierr.IsNotFound(err))

	err = s.service.DeleteCoupon(s.GetContext(), created.ID)
	s.True(ierr.IsNotFound(err))
}

func (s *CouponServiceSuite) TestListCoupons() {
	s.mustCreate(s.createRequest("CHARLIE", types.CouponTypePercentage, "10"))
	s.mustCreate(s.createRequest("ALPHA", types.CouponTypeFixed, "5"))
	drafted := s.createRequest("BRAVO", types.CouponTypeFixed, "5")
	drafted.Status = types.CouponStatusDraft
	s.mustCreate(drafted)
	s.mustCreate(s.createRequest("ELSEWHERE", types.CouponTypeFixed, "5"))

	all, err := s.service.ListCoupons(s.GetContext(), types.NewCouponFilter())
	s.NoError(err)
	s.Equal(4, all.Pagination.Total)
	s.Equal([]string{"ALPHA", "BRAVO", "CHARLIE", "ELSEWHERE"}, lo.Map(all.Items, func(c *dto.CouponResponse, _ int) string { return c.Code }))

	filter := types.NewCouponFilter()
	filter.Statuses = []types.CouponStatus{types.CouponStatusActive}
	filter.Limit = lo.ToPtr(2)
	page, err := s.service.ListCoupons(s.GetContext(), filter)
	s.NoError(err)
	s.Equal(3, page.Pagination.Total)
	s.Equal(2, page.Pagination.Limit)
	s.Equal([]string{"ALPHA", "CHARLIE"}, lo.Map(page.Items, func(c *dto.CouponResponse, _ int) string { return c.Code }))

	search := types.NewCouponFilter()
	search.Search = "char"
	found, err := s.service.ListCoupons(s.GetContext(), search)
	s.NoError(err)
	s.Len(found.Items, 1)

	bad := types.NewCouponFilter()
	bad.Limit = lo.ToPtr(0)
	_, err = s.service.ListCoupons(s.GetContext(), bad)
	s.True(ierr.IsValidation(err))
}

func (s *CouponServiceSuite) TestEvaluateCoupons() {
	s.mustCreate(s.createRequest("SAVE10", types.CouponTypePercentage, "10"))
	s.mustCreate(s.createRequest("FREESHIP", types.CouponTypeShipping, "0"))
	minimum := s.createRequest("BIGSPEND", types.CouponTypeFixed, "50")
	minimum.MinPurchaseAmount = lo.ToPtr(decimal.NewFromInt(500))
	s.mustCreate(minimum)

	resp, err := s.service.EvaluateCoupons(s.GetContext(), dto.EvaluateCouponsRequest{
		Codes:    []string{"save10", "NOPE", "FREESHIP", "BIGSPEND", "SAVE10"},
		Subtotal: lo.ToPtr(decimal.NewFromInt(100)),
		Shipping: decimal.NewFromInt(10),
	})
	s.Require().NoError(err)
	s.Require().Len(resp.Results, 5)

	s.True(resp.Results[0].Applicable)
	s.assertDecimal("10", resp.Results[0].Discount)

	s.False(resp.Results[1].Applicable)
	s.Equal(string(types.CouponValidationErrorCodeNotFound), resp.Results[1].Reason)

	s.True(resp.Results[2].Applicable)
	s.Require().NotNil(resp.Results[2].Effect)
	s.True(resp.Results[2].Effect.WaivesShipping())

	s.Equal(string(types.CouponValidationErrorCodeBelowMinPurchase), resp.Results[3].Reason)
	s.Equal(string(types.CouponValidationErrorCodeAlreadyApplied), resp.Results[4].Reason)

	s.assertDecimal("100", resp.Subtotal)
	s.assertDecimal("0", resp.Shipping)
	s.assertDecimal("10", resp.Discount)
	s.assertDecimal("90", resp.Total)
}

func (s *CouponServiceSuite) TestEvaluateCoupons_Validation() {
	_, err := s.service.EvaluateCoupons(s.GetContext(), dto.EvaluateCouponsRequest{
		Codes: []string{"SAVE10"},
	})
	s.True(ierr.IsValidation(err))

	_, err = s.service.EvaluateCoupons(s.GetContext(), dto.EvaluateCouponsRequest{
		Subtotal: lo.ToPtr(decimal.NewFromInt(10)),
	})
	s.True(ierr.IsValidation(err))
}

func (s *CouponServiceSuite) TestSyncStatuses() {
	now := s.GetNow()

	due := s.createRequest("DUE", types.CouponTypeFixed, "5")
	due.Status = types.CouponStatusScheduled
	dueResp := s.mustCreate(due)

	future := s.createRequest("FUTURE", types.CouponTypeFixed, "5")
	future.Status = types.CouponStatusScheduled
	future.StartDate = now.Add(time.Hour)
	future.EndDate = now.Add(48 * time.Hour)
	futureResp := s.mustCreate(future)

	over := s.createRequest("OVER", types.CouponTypeFixed, "5")
	over.StartDate = now.Add(-48 * time.Hour)
	over.EndDate = now.Add(-time.Hour)
	overResp := s.mustCreate(over)

	drafted := s.createRequest("DRAFTED", types.CouponTypeFixed, "5")
	drafted.Status = types.CouponStatusDraft
	drafted.EndDate = now.Add(-time.Hour)
	drafted.StartDate = now.Add(-48 * time.Hour)
	draftResp := s.mustCreate(drafted)

	updated, err := s.service.SyncStatuses(s.GetContext(), now)
	s.NoError(err)
	s.Equal(2, updated)

	expect := map[string]types.CouponStatus{
		dueResp.ID:    types.CouponStatusActive,
		futureResp.ID: types.CouponStatusScheduled,
		overResp.ID:   types.CouponStatusEnded,
		draftResp.ID:  types.CouponStatusDraft,
	}
	for id, status := range expect {
		got, err := s.service.GetCoupon(s.GetContext(), id)
		s.Require().NoError(err)
		s.Equal(status, got.Status, got.Code)
	}

	again, err := s.service.SyncStatuses(s.GetContext(), now)
	s.NoError(err)
	s.Zero(again)
}

type countingTransactor struct {
	calls int
}

func (t *countingTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

func (s *CouponServiceSuite) TestSyncStatuses_RunsInTransaction() {
	due := s.createRequest("DUE", types.CouponTypeFixed, "5")
	due.Status = types.CouponStatusScheduled
	s.mustCreate(due)

	tx := &countingTransactor{}
	params := s.params()
	params.DB = tx
	updated, err := NewCouponService(params).SyncStatuses(s.GetContext(), s.GetNow())
	s.NoError(err)
	s.Equal(1, updated)
	s.Equal(1, tx.calls)
}
