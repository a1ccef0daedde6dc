package cached

import (
	"context"

	"github.com/zaviagodev/ai-commerce-sub002/internal/cache"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/sentry"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// couponRepository serves coupon reads from cache and invalidates on every
// write. Lists always go to the backing store.
type couponRepository struct {
	coupon.Repository
	cache  cache.Cache
	logger *logger.Logger
}

func NewCouponRepository(repo coupon.Repository, c cache.Cache, logger *logger.Logger) coupon.Repository {
	return &couponRepository{Repository: repo, cache: c, logger: logger}
}

func (r *couponRepository) Get(ctx context.Context, sc types.StoreContext, id string) (*coupon.Coupon, error) {
	if cached := r.GetCache(ctx, sc, cache.PrefixCoupon, id); cached != nil {
		return cached, nil
	}

	c, err := r.Repository.Get(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	r.SetCache(ctx, sc, c)
	return clone(c), nil
}

func (r *couponRepository) GetByCode(ctx context.Context, sc types.StoreContext, code string) (*coupon.Coupon, error) {
	normalized := types.NormalizeCouponCode(code)
	if cached := r.GetCache(ctx, sc, cache.PrefixCouponByCode, normalized); cached != nil {
		return cached, nil
	}

	c, err := r.Repository.GetByCode(ctx, sc, code)
	if err != nil {
		return nil, err
	}
	r.SetCache(ctx, sc, c)
	return clone(c), nil
}

func (r *couponRepository) Update(ctx context.Context, sc types.StoreContext, c *coupon.Coupon) error {
	// the code may change, so drop the entry under the stored code too
	existing := r.stored(ctx, sc, c.ID)
	err := r.Repository.Update(ctx, sc, c)
	r.invalidate(ctx, sc, c.ID, existing, c)
	return err
}

func (r *couponRepository) Delete(ctx context.Context, sc types.StoreContext, id string) error {
	existing := r.stored(ctx, sc, id)
	err := r.Repository.Delete(ctx, sc, id)
	r.invalidate(ctx, sc, id, existing)
	return err
}

func (r *couponRepository) IncrementUsage(ctx context.Context, sc types.StoreContext, id string) error {
	existing := r.stored(ctx, sc, id)
	err := r.Repository.IncrementUsage(ctx, sc, id)
	r.invalidate(ctx, sc, id, existing)
	return err
}

// stored returns the coupon as it is before a write, used to find the
// code-keyed entry. A missing coupon is left to the write to report.
func (r *couponRepository) stored(ctx context.Context, sc types.StoreContext, id string) *coupon.Coupon {
	if existing := r.GetCache(ctx, sc, cache.PrefixCoupon, id); existing != nil {
		return existing
	}
	existing, err := r.Repository.Get(ctx, sc, id)
	if err != nil {
		return nil
	}
	return existing
}

// invalidate runs after the backing write so a read racing the write cannot
// put the old value back
func (r *couponRepository) invalidate(ctx context.Context, sc types.StoreContext, id string, known ...*coupon.Coupon) {
	r.DeleteCache(ctx, sc, &coupon.Coupon{ID: id})
	for _, c := range known {
		if c != nil {
			r.DeleteCache(ctx, sc, c)
		}
	}
}

func (r *couponRepository) SetCache(ctx context.Context, sc types.StoreContext, c *coupon.Coupon) {
	span := sentry.StartRepositorySpan(ctx, sentry.OpCache, "coupon", "set", map[string]interface{}{
		"coupon_id": c.ID,
	})
	defer sentry.FinishSpan(span)

	entry := clone(c)
	r.cache.Set(ctx, cache.GenerateKey(cache.PrefixCoupon, sc.StoreName, c.ID), entry, 0)
	r.cache.Set(ctx, cache.GenerateKey(cache.PrefixCouponByCode, sc.StoreName, types.NormalizeCouponCode(c.Code)), entry, 0)
}

// GetCache returns a copy so callers cannot mutate the cached entry
func (r *couponRepository) GetCache(ctx context.Context, sc types.StoreContext, prefix, key string) *coupon.Coupon {
	span := sentry.StartRepositorySpan(ctx, sentry.OpCache, "coupon", "get", map[string]interface{}{
		"key": key,
	})
	defer sentry.FinishSpan(span)

	if value, found := r.cache.Get(ctx, cache.GenerateKey(prefix, sc.StoreName, key)); found {
		if c, ok := value.(*coupon.Coupon); ok {
			r.logger.Debugw("coupon cache hit", "key", key, "store_name", sc.StoreName)
			return clone(c)
		}
	}
	return nil
}

func (r *couponRepository) DeleteCache(ctx context.Context, sc types.StoreContext, c *coupon.Coupon) {
	span := sentry.StartRepositorySpan(ctx, sentry.OpCache, "coupon", "delete", map[string]interface{}{
		"coupon_id": c.ID,
	})
	defer sentry.FinishSpan(span)

	r.cache.Delete(ctx, cache.GenerateKey(cache.PrefixCoupon, sc.StoreName, c.ID))
	if c.Code != "" {
		r.cache.Delete(ctx, cache.GenerateKey(cache.PrefixCouponByCode, sc.StoreName, types.NormalizeCouponCode(c.Code)))
	}
}

func clone(c *coupon.Coupon) *coupon.Coupon {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
