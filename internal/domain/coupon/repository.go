package coupon

import (
	"context"

	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// Repository is the coupon directory. Every call is scoped to the store in sc.
type Repository interface {
	Create(ctx context.Context, sc types.StoreContext, coupon *Coupon) error
	Get(ctx context.Context, sc types.StoreContext, id string) (*Coupon, error)
	GetByCode(ctx context.Context, sc types.StoreContext, code string) (*Coupon, error)
	List(ctx context.Context, sc types.StoreContext, filter *types.CouponFilter) ([]*Coupon, error)
	Count(ctx context.Context, sc types.StoreContext, filter *types.CouponFilter) (int, error)
	Update(ctx context.Context, sc types.StoreContext, coupon *Coupon) error
	Delete(ctx context.Context, sc types.StoreContext, id string) error
	// IncrementUsage bumps usage_count by one on order finalization
	IncrementUsage(ctx context.Context, sc types.StoreContext, id string) error
}
