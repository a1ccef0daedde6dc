package testutil

import (
	"context"

	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/order"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// InMemoryOrderStore implements order.Repository
type InMemoryOrderStore struct {
	*InMemoryStore[*order.Order]
}

func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{
		InMemoryStore: NewInMemoryStore[*order.Order](),
	}
}

func (s *InMemoryOrderStore) Create(ctx context.Context, sc types.StoreContext, o *order.Order) error {
	if o == nil {
		return ierr.NewError("order cannot be nil").
			WithHint("Order cannot be nil").
			Mark(ierr.ErrValidation)
	}
	o.StoreName = sc.StoreName
	return s.InMemoryStore.Create(ctx, storeKey(sc, o.ID), o.Copy())
}

func (s *InMemoryOrderStore) Get(ctx context.Context, sc types.StoreContext, id string) (*order.Order, error) {
	o, err := s.InMemoryStore.Get(ctx, storeKey(sc, id))
	if err != nil {
		return nil, ierr.NewError("order not found").
			WithHint("Order not found").
			WithReportableDetails(map[string]interface{}{
				"order_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return o.Copy(), nil
}

func (s *InMemoryOrderStore) Update(ctx context.Context, sc types.StoreContext, o *order.Order) error {
	if o == nil {
		return ierr.NewError("order cannot be nil").
			WithHint("Order cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, storeKey(sc, o.ID), o.Copy()); err != nil {
		return ierr.WithError(err).
			WithHint("Order not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
