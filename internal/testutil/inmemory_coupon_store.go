package testutil

import (
	"context"

	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// InMemoryCouponStore implements coupon.Repository
type InMemoryCouponStore struct {
	*InMemoryStore[*coupon.Coupon]
}

// NewInMemoryCouponStore creates a new in-memory coupon store
func NewInMemoryCouponStore() *InMemoryCouponStore {
	return &InMemoryCouponStore{
		InMemoryStore: NewInMemoryStore[*coupon.Coupon](),
	}
}

// copyCoupon round-trips through the storage row so stored values look
// exactly like what a database backend would return
func copyCoupon(c *coupon.Coupon) *coupon.Coupon {
	if c == nil {
		return nil
	}
	return coupon.FromStorageRow(coupon.ToStorageRow(c))
}

func (s *InMemoryCouponStore) Create(ctx context.Context, sc types.StoreContext, c *coupon.Coupon) error {
	if c == nil {
		return ierr.NewError("coupon cannot be nil").
			WithHint("Coupon cannot be nil").
			Mark(ierr.ErrValidation)
	}

	c.StoreName = sc.StoreName
	code := types.NormalizeCouponCode(c.Code)
	if _, exists := s.Find(ctx, func(existing *coupon.Coupon) bool {
		return existing.StoreName == sc.StoreName && existing.Code == code
	}); exists {
		return ierr.NewError("duplicate coupon code").
			WithHint("A coupon with this code already exists").
			WithReportableDetails(map[string]interface{}{
				"code": code,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	if err := s.InMemoryStore.Create(ctx, storeKey(sc, c.ID), copyCoupon(c)); err != nil {
		return err
	}
	*c = *copyCoupon(c)
	return nil
}

func (s *InMemoryCouponStore) Get(ctx context.Context, sc types.StoreContext, id string) (*coupon.Coupon, error) {
	c, err := s.InMemoryStore.Get(ctx, storeKey(sc, id))
	if err != nil {
		return nil, ierr.NewError("coupon not found").
			WithHint("Coupon not found").
			WithReportableDetails(map[string]interface{}{
				"coupon_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyCoupon(c), nil
}

func (s *InMemoryCouponStore) GetByCode(ctx context.Context, sc types.StoreContext, code string) (*coupon.Coupon, error) {
	normalized := types.NormalizeCouponCode(code)
	c, ok := s.Find(ctx, func(existing *coupon.Coupon) bool {
		return existing.StoreName == sc.StoreName && existing.Code == normalized
	})
	if !ok {
		return nil, ierr.NewError("coupon not found").
			WithHintf("No coupon matches code %s", normalized).
			WithReportableDetails(map[string]interface{}{
				"code": code,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyCoupon(c), nil
}

func (s *InMemoryCouponStore) List(ctx context.Context, sc types.StoreContext, filter *types.CouponFilter) ([]*coupon.Coupon, error) {
	if filter == nil {
		filter = types.NewNoLimitCouponFilter()
	}

	items, err := s.InMemoryStore.List(ctx, filter, couponFilterFn(sc), couponSortFn)
	if err != nil {
		return nil, err
	}

	result := make([]*coupon.Coupon, 0, len(items))
	for _, c := range items {
		result = append(result, copyCoupon(c))
	}
	return result, nil
}

func (s *InMemoryCouponStore) Count(ctx context.Context, sc types.StoreContext, filter *types.CouponFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, couponFilterFn(sc))
}

func (s *InMemoryCouponStore) Update(ctx context.Context, sc types.StoreContext, c *coupon.Coupon) error {
	if c == nil {
		return ierr.NewError("coupon cannot be nil").
			WithHint("Coupon cannot be nil").
			Mark(ierr.ErrValidation)
	}

	code := types.NormalizeCouponCode(c.Code)
	if _, exists := s.Find(ctx, func(existing *coupon.Coupon) bool {
		return existing.StoreName == sc.StoreName && existing.Code == code && existing.ID != c.ID
	}); exists {
		return ierr.NewError("duplicate coupon code").
			WithHint("A coupon with this code already exists").
			Mark(ierr.ErrAlreadyExists)
	}

	// usage_count is owned by IncrementUsage
	return s.InMemoryStore.Mutate(ctx, storeKey(sc, c.ID), func(existing *coupon.Coupon) *coupon.Coupon {
		updated := copyCoupon(c)
		updated.StoreName = sc.StoreName
		updated.UsageCount = existing.UsageCount
		return updated
	})
}

func (s *InMemoryCouponStore) Delete(ctx context.Context, sc types.StoreContext, id string) error {
	if err := s.InMemoryStore.Delete(ctx, storeKey(sc, id)); err != nil {
		return ierr.WithError(err).
			WithHint("Coupon not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryCouponStore) IncrementUsage(ctx context.Context, sc types.StoreContext, id string) error {
	return s.InMemoryStore.Mutate(ctx, storeKey(sc, id), func(existing *coupon.Coupon) *coupon.Coupon {
		updated := copyCoupon(existing)
		updated.UsageCount++
		return updated
	})
}

func couponFilterFn(sc types.StoreContext) FilterFunc[*coupon.Coupon] {
	return func(ctx context.Context, c *coupon.Coupon, filter interface{}) bool {
		if c == nil || c.StoreName != sc.StoreName {
			return false
		}
		f, ok := filter.(*types.CouponFilter)
		if !ok {
			return true
		}
		return coupon.MatchesFilter(c, f)
	}
}

func couponSortFn(i, j *coupon.Coupon) bool {
	a, b := types.NormalizeCouponCode(i.Code), types.NormalizeCouponCode(j.Code)
	if a != b {
		return a < b
	}
	return i.ID < j.ID
}
