package supabase

import (
	"context"

	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/order"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/sentry"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

type orderRepository struct {
	client *Client
	logger *logger.Logger
}

func NewOrderRepository(client *Client, logger *logger.Logger) order.Repository {
	return &orderRepository{client: client, logger: logger}
}

func (r *orderRepository) Create(ctx context.Context, sc types.StoreContext, o *order.Order) error {
	span := sentry.StartRepositorySpan(ctx, sentry.OpSupabase, "order", "create", map[string]interface{}{
		"order_id":   o.ID,
		"store_name": sc.StoreName,
	})
	defer sentry.FinishSpan(span)

	row := order.ToStorageRow(o)
	row.StoreName = sc.StoreName

	r.logger.Debugw("creating order",
		"order_id", o.ID,
		"store_name", sc.StoreName,
	)

	var created []order.Row
	err := r.client.withRetry(ctx, "order.create", func() error {
		created = nil
		return r.client.DB.From(tableOrders).Insert(row).Execute(&created)
	})
	if err != nil {
		err = databaseError(err, "Failed to create order", map[string]interface{}{
			"order_id": o.ID,
		})
		sentry.SetSpanError(span, err)
		return err
	}

	sentry.SetSpanSuccess(span)
	return nil
}

func (r *orderRepository) Get(ctx context.Context, sc types.StoreContext, id string) (*order.Order, error) {
	span := sentry.StartRepositorySpan(ctx, sentry.OpSupabase, "order", "get", map[string]interface{}{
		"order_id": id,
	})
	defer sentry.FinishSpan(span)

	var rows []order.Row
	err := r.client.withRetry(ctx, "order.get", func() error {
		rows = nil
		return r.client.DB.From(tableOrders).
			Select("*").
			Eq("store_name", sc.StoreName).
			Eq("id", id).
			Execute(&rows)
	})
	if err != nil {
		err = databaseError(err, "Failed to get order", map[string]interface{}{
			"order_id": id,
		})
		sentry.SetSpanError(span, err)
		return nil, err
	}
	if len(rows) == 0 {
		err := notFound("order", id)
		sentry.SetSpanError(span, err)
		return nil, err
	}

	sentry.SetSpanSuccess(span)
	return order.FromStorageRow(&rows[0]), nil
}

func (r *orderRepository) Update(ctx context.Context, sc types.StoreContext, o *order.Order) error {
	span := sentry.StartRepositorySpan(ctx, sentry.OpSupabase, "order", "update", map[string]interface{}{
		"order_id": o.ID,
	})
	defer sentry.FinishSpan(span)

	row := order.ToStorageRow(o)
	payload := map[string]interface{}{
		"customer_id":     row.CustomerID,
		"customer_group":  row.CustomerGroup,
		"first_purchase":  row.FirstPurchase,
		"status":          row.Status,
		"items":           row.Items,
		"subtotal":        row.Subtotal,
		"shipping":        row.Shipping,
		"discount":        row.Discount,
		"applied_coupons": row.AppliedCoupons,
		"finalized_at":    row.FinalizedAt,
		"updated_at":      row.UpdatedAt,
		"updated_by":      row.UpdatedBy,
	}

	var updated []order.Row
	err := r.client.withRetry(ctx, "order.update", func() error {
		updated = nil
		return r.client.DB.From(tableOrders).
			Update(payload).
			Eq("store_name", sc.StoreName).
			Eq("id", o.ID).
			Execute(&updated)
	})
	if err != nil {
		err = databaseError(err, "Failed to update order", map[string]interface{}{
			"order_id": o.ID,
		})
		sentry.SetSpanError(span, err)
		return err
	}
	if len(updated) == 0 {
		err := notFound("order", o.ID)
		sentry.SetSpanError(span, err)
		return err
	}

	sentry.SetSpanSuccess(span)
	return nil
}
