package postgres

import (
	"context"

	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/order"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/postgres"
	"github.com/zaviagodev/ai-commerce-sub002/internal/sentry"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

const orderColumns = `id, store_name, customer_id, customer_group, first_purchase, status,
	items, subtotal, shipping, discount, applied_coupons, finalized_at,
	created_at, updated_at, created_by, updated_by`

type orderRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewOrderRepository(db *postgres.DB, logger *logger.Logger) order.Repository {
	return &orderRepository{db: db, logger: logger}
}

func (r *orderRepository) Create(ctx context.Context, sc types.StoreContext, o *order.Order) error {
	span := sentry.StartRepositorySpan(ctx, sentry.OpPostgres, "order", "create", map[string]interface{}{
		"order_id":   o.ID,
		"store_name": sc.StoreName,
	})
	defer sentry.FinishSpan(span)

	query := `
		INSERT INTO orders (` + orderColumns + `) VALUES (
			:id, :store_name, :customer_id, :customer_group, :first_purchase, :status,
			:items, :subtotal, :shipping, :discount, :applied_coupons, :finalized_at,
			:created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating order",
		"order_id", o.ID,
		"store_name", sc.StoreName,
	)

	row := order.ToStorageRow(o)
	row.StoreName = sc.StoreName

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if postgres.IsUniqueViolation(err) {
			err = ierr.WithError(err).
				WithHint("An order with this ID already exists").
				Mark(ierr.ErrAlreadyExists)
		} else {
			err = ierr.WithError(err).
				WithHint("Failed to create order").
				WithReportableDetails(map[string]interface{}{
					"order_id": o.ID,
				}).
				Mark(ierr.ErrDatabase)
		}
		sentry.SetSpanError(span, err)
		return err
	}

	sentry.SetSpanSuccess(span)
	return nil
}

func (r *orderRepository) Get(ctx context.Context, sc types.StoreContext, id string) (*order.Order, error) {
	span := sentry.StartRepositorySpan(ctx, sentry.OpPostgres, "order", "get", map[string]interface{}{
		"order_id": id,
	})
	defer sentry.FinishSpan(span)

	query := "SELECT " + orderColumns + " FROM orders WHERE id = :id AND store_name = :store_name LIMIT 1"
	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"id":         id,
		"store_name": sc.StoreName,
	})
	if err != nil {
		err = ierr.WithError(err).
			WithHint("Failed to get order").
			WithReportableDetails(map[string]interface{}{
				"order_id": id,
			}).
			Mark(ierr.ErrDatabase)
		sentry.SetSpanError(span, err)
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		err := ierr.NewError("order not found").
			WithHint("Order not found").
			WithReportableDetails(map[string]interface{}{
				"order_id": id,
			}).
			Mark(ierr.ErrNotFound)
		sentry.SetSpanError(span, err)
		return nil, err
	}

	var row order.Row
	if err := rows.StructScan(&row); err != nil {
		err = ierr.WithError(err).
			WithHint("Failed to read order").
			Mark(ierr.ErrDatabase)
		sentry.SetSpanError(span, err)
		return nil, err
	}

	sentry.SetSpanSuccess(span)
	return order.FromStorageRow(&row), nil
}

func (r *orderRepository) Update(ctx context.Context, sc types.StoreContext, o *order.Order) error {
	span := sentry.StartRepositorySpan(ctx, sentry.OpPostgres, "order", "update", map[string]interface{}{
		"order_id": o.ID,
	})
	defer sentry.FinishSpan(span)

	query := `
		UPDATE orders SET
			customer_id = :customer_id,
			customer_group = :customer_group,
			first_purchase = :first_purchase,
			status = :status,
			items = :items,
			subtotal = :subtotal,
			shipping = :shipping,
			discount = :discount,
			applied_coupons = :applied_coupons,
			finalized_at = :finalized_at,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND store_name = :store_name`

	row := order.ToStorageRow(o)
	row.StoreName = sc.StoreName

	result, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		err = ierr.WithError(err).
			WithHint("Failed to update order").
			WithReportableDetails(map[string]interface{}{
				"order_id": o.ID,
			}).
			Mark(ierr.ErrDatabase)
		sentry.SetSpanError(span, err)
		return err
	}

	if err := requireAffected(result, "order", o.ID); err != nil {
		sentry.SetSpanError(span, err)
		return err
	}

	sentry.SetSpanSuccess(span)
	return nil
}
