package order

import (
	"context"

	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// Repository is the order draft store. Every call is scoped to the store in sc.
type Repository interface {
	Create(ctx context.Context, sc types.StoreContext, order *Order) error
	Get(ctx context.Context, sc types.StoreContext, id string) (*Order, error)
	Update(ctx context.Context, sc types.StoreContext, order *Order) error
}
