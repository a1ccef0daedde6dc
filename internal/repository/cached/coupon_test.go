package cached

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/zaviagodev/ai-commerce-sub002/internal/cache"
	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/testutil"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

type countingStore struct {
	*testutil.InMemoryCouponStore
	gets int
	// beforeWrite runs inside a write, before the backing store changes
	beforeWrite func()
}

func (s *countingStore) IncrementUsage(ctx context.Context, sc types.StoreContext, id string) error {
	if s.beforeWrite != nil {
		s.beforeWrite()
	}
	return s.InMemoryCouponStore.IncrementUsage(ctx, sc, id)
}

func (s *countingStore) Get(ctx context.Context, sc types.StoreContext, id string) (*coupon.Coupon, error) {
	s.gets++
	return s.InMemoryCouponStore.Get(ctx, sc, id)
}

func (s *countingStore) GetByCode(ctx context.Context, sc types.StoreContext, code string) (*coupon.Coupon, error) {
	s.gets++
	return s.InMemoryCouponStore.GetByCode(ctx, sc, code)
}

type CachedCouponRepositorySuite struct {
	suite.Suite
	ctx     context.Context
	sc      types.StoreContext
	backing *countingStore
	repo    coupon.Repository
}

func TestCachedCouponRepository(t *testing.T) {
	suite.Run(t, new(CachedCouponRepositorySuite))
}

func (s *CachedCouponRepositorySuite) SetupTest() {
	s.ctx = testutil.SetupContext()
	s.sc = types.GetStoreContext(s.ctx)
	s.backing = &countingStore{InMemoryCouponStore: testutil.NewInMemoryCouponStore()}

	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = true
	s.repo = NewCouponRepository(s.backing, cache.NewInMemoryCache(cfg), logger.NewNoopLogger())

	now := time.Now().UTC()
	s.Require().NoError(s.repo.Create(s.ctx, s.sc, &coupon.Coupon{
		ID:        "cpn_1",
		Code:      "SAVE10",
		Name:      "Save 10",
		Type:      types.CouponTypePercentage,
		Value:     decimal.NewFromInt(10),
		Status:    types.CouponStatusActive,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
	}))
}

func (s *CachedCouponRepositorySuite) TestReadsAreCached() {
	first, err := s.repo.Get(s.ctx, s.sc, "cpn_1")
	s.Require().NoError(err)
	second, err := s.repo.Get(s.ctx, s.sc, "cpn_1")
	s.Require().NoError(err)
	s.Equal(first.Code, second.Code)
	s.Equal(1, s.backing.gets)

	byCode, err := s.repo.GetByCode(s.ctx, s.sc, "save10")
	s.Require().NoError(err)
	s.Equal("cpn_1", byCode.ID)
	s.Equal(1, s.backing.gets)
}

func (s *CachedCouponRepositorySuite) TestReturnedValuesAreCopies() {
	c, err := s.repo.Get(s.ctx, s.sc, "cpn_1")
	s.Require().NoError(err)
	c.Name = "mutated"

	again, err := s.repo.Get(s.ctx, s.sc, "cpn_1")
	s.Require().NoError(err)
	s.Equal("Save 10", again.Name)
}

func (s *CachedCouponRepositorySuite) TestUpdateInvalidates() {
	c, err := s.repo.Get(s.ctx, s.sc, "cpn_1")
	s.Require().NoError(err)

	c.Code = "SAVE20"
	s.Require().NoError(s.repo.Update(s.ctx, s.sc, c))

	_, err = s.repo.GetByCode(s.ctx, s.sc, "SAVE10")
	s.True(ierr.IsNotFound(err))

	updated, err := s.repo.GetByCode(s.ctx, s.sc, "SAVE20")
	s.Require().NoError(err)
	s.Equal("cpn_1", updated.ID)
}

func (s *CachedCouponRepositorySuite) TestIncrementUsageInvalidates() {
	_, err := s.repo.Get(s.ctx, s.sc, "cpn_1")
	s.Require().NoError(err)

	s.Require().NoError(s.repo.IncrementUsage(s.ctx, s.sc, "cpn_1"))

	c, err := s.repo.Get(s.ctx, s.sc, "cpn_1")
	s.Require().NoError(err)
	s.Equal(1, c.UsageCount)
	s.Equal(2, s.backing.gets)
}

func (s *CachedCouponRepositorySuite) TestReadDuringWriteDoesNotLeaveStaleEntry() {
	s.backing.beforeWrite = func() {
		_, err := s.repo.GetByCode(s.ctx, s.sc, "SAVE10")
		s.Require().NoError(err)
	}

	s.Require().NoError(s.repo.IncrementUsage(s.ctx, s.sc, "cpn_1"))

	byCode, err := s.repo.GetByCode(s.ctx, s.sc, "SAVE10")
	s.Require().NoError(err)
	s.Equal(1, byCode.UsageCount)

	byID, err := s.repo.Get(s.ctx, s.sc, "cpn_1")
	s.Require().NoError(err)
	s.Equal(1, byID.UsageCount)
}

func (s *CachedCouponRepositorySuite) TestDeleteInvalidates() {
	_, err := s.repo.GetByCode(s.ctx, s.sc, "SAVE10")
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Delete(s.ctx, s.sc, "cpn_1"))

	_, err = s.repo.Get(s.ctx, s.sc, "cpn_1")
	s.True(ierr.IsNotFound(err))
	_, err = s.repo.GetByCode(s.ctx, s.sc, "SAVE10")
	s.True(ierr.IsNotFound(err))
}

func TestStoresAreIsolated(t *testing.T) {
	ctx := context.Background()
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = true
	repo := NewCouponRepository(testutil.NewInMemoryCouponStore(), cache.NewInMemoryCache(cfg), logger.NewNoopLogger())

	acme := types.NewStoreContext("acme", "u1")
	other := types.NewStoreContext("other", "u2")

	require.NoError(t, repo.Create(ctx, acme, &coupon.Coupon{ID: "cpn_1", Code: "SAME", Type: types.CouponTypeFixed}))
	_, err := repo.Get(ctx, acme, "cpn_1")
	require.NoError(t, err)

	_, err = repo.Get(ctx, other, "cpn_1")
	require.True(t, ierr.IsNotFound(err))
}
