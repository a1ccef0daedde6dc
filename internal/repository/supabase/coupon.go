package supabase

import (
	"context"
	"strconv"
	"time"

	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/sentry"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

type couponRepository struct {
	client *Client
	logger *logger.Logger
}

func NewCouponRepository(client *Client, logger *logger.Logger) coupon.Repository {
	return &couponRepository{client: client, logger: logger}
}

func (r *couponRepository) Create(ctx context.Context, sc types.StoreContext, c *coupon.Coupon) error {
	span := sentry.StartRepositorySpan(ctx, sentry.OpSupabase, "coupon", "create", map[string]interface{}{
		"coupon_id":  c.ID,
		"store_name": sc.StoreName,
	})
	defer sentry.FinishSpan(span)

	row := coupon.ToStorageRow(c)
	row.StoreName = sc.StoreName

	r.logger.Debugw("creating coupon",
		"coupon_id", c.ID,
		"code", row.Code,
		"store_name", sc.StoreName,
	)

	var created []coupon.Row
	err := r.client.withRetry(ctx, "coupon.create", func() error {
		created = nil
		return r.client.DB.From(tableCoupons).Insert(row).Execute(&created)
	})
	if err != nil {
		err = databaseError(err, "Failed to create coupon", map[string]interface{}{
			"coupon_id": c.ID,
			"code":      row.Code,
		})
		sentry.SetSpanError(span, err)
		return err
	}

	if len(created) > 0 {
		*c = *coupon.FromStorageRow(&created[0])
	}
	sentry.SetSpanSuccess(span)
	return nil
}

func (r *couponRepository) Get(ctx context.Context, sc types.StoreContext, id string) (*coupon.Coupon, error) {
	span := sentry.StartRepositorySpan(ctx, sentry.OpSupabase, "coupon", "get", map[string]interface{}{
		"coupon_id": id,
	})
	defer sentry.FinishSpan(span)

	rows, err := r.selectBy(ctx, sc, "id", id)
	if err != nil {
		sentry.SetSpanError(span, err)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ierr.NewError("coupon not found").
			WithHint("Coupon not found").
			WithReportableDetails(map[string]interface{}{
				"coupon_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	sentry.SetSpanSuccess(span)
	return coupon.FromStorageRow(&rows[0]), nil
}

func (r *couponRepository) GetByCode(ctx context.Context, sc types.StoreContext, code string) (*coupon.Coupon, error) {
	span := sentry.StartRepositorySpan(ctx, sentry.OpSupabase, "coupon", "get_by_code", map[string]interface{}{
		"code": code,
	})
	defer sentry.FinishSpan(span)

	normalized := types.NormalizeCouponCode(code)
	rows, err := r.selectBy(ctx, sc, "code", normalized)
	if err != nil {
		sentry.SetSpanError(span, err)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ierr.NewError("coupon not found").
			WithHintf("No coupon matches code %s", normalized).
			WithReportableDetails(map[string]interface{}{
				"code": code,
			}).
			Mark(ierr.ErrNotFound)
	}

	sentry.SetSpanSuccess(span)
	return coupon.FromStorageRow(&rows[0]), nil
}

func (r *couponRepository) selectBy(ctx context.Context, sc types.StoreContext, column, value string) ([]coupon.Row, error) {
	var rows []coupon.Row
	err := r.client.withRetry(ctx, "coupon.select", func() error {
		rows = nil
		return r.client.DB.From(tableCoupons).
			Select("*").
			Eq("store_name", sc.StoreName).
			Eq(column, value).
			Execute(&rows)
	})
	if err != nil {
		return nil, databaseError(err, "Failed to get coupon", map[string]interface{}{
			column: value,
		})
	}
	return rows, nil
}

// listAll fetches the store's coupons. Filtering, ordering and pagination are
// applied in process.
func (r *couponRepository) listAll(ctx context.Context, sc types.StoreContext, filter *types.CouponFilter) ([]*coupon.Coupon, error) {
	var rows []*coupon.Row
	err := r.client.withRetry(ctx, "coupon.list", func() error {
		rows = nil
		return r.client.DB.From(tableCoupons).
			Select("*").
			Eq("store_name", sc.StoreName).
			Execute(&rows)
	})
	if err != nil {
		return nil, databaseError(err, "Failed to list coupons", nil)
	}

	coupons := make([]*coupon.Coupon, 0, len(rows))
	for _, c := range coupon.FromStorageRows(rows) {
		if coupon.MatchesFilter(c, filter) {
			coupons = append(coupons, c)
		}
	}
	coupon.SortByCode(coupons)
	return coupons, nil
}

func (r *couponRepository) List(ctx context.Context, sc types.StoreContext, filter *types.CouponFilter) ([]*coupon.Coupon, error) {
	span := sentry.StartRepositorySpan(ctx, sentry.OpSupabase, "coupon", "list", map[string]interface{}{
		"store_name": sc.StoreName,
	})
	defer sentry.FinishSpan(span)

	coupons, err := r.listAll(ctx, sc, filter)
	if err != nil {
		sentry.SetSpanError(span, err)
		return nil, err
	}

	sentry.SetSpanSuccess(span)
	return coupon.Paginate(coupons, filter), nil
}

func (r *couponRepository) Count(ctx context.Context, sc types.StoreContext, filter *types.CouponFilter) (int, error) {
	coupons, err := r.listAll(ctx, sc, filter)
	if err != nil {
		return 0, err
	}
	return len(coupons), nil
}

func (r *couponRepository) Update(ctx context.Context, sc types.StoreContext, c *coupon.Coupon) error {
	span := sentry.StartRepositorySpan(ctx, sentry.OpSupabase, "coupon", "update", map[string]interface{}{
		"coupon_id": c.ID,
	})
	defer sentry.FinishSpan(span)

	row := coupon.ToStorageRow(c)
	// usage_count is only ever changed through IncrementUsage
	payload := map[string]interface{}{
		"code":                row.Code,
		"name":                row.Name,
		"description":         row.Description,
		"type":                row.Type,
		"value":               row.Value,
		"min_purchase_amount": row.MinPurchaseAmount,
		"max_discount_amount": row.MaxDiscountAmount,
		"usage_limit":         row.UsageLimit,
		"start_date":          row.StartDate,
		"end_date":            row.EndDate,
		"status":              row.Status,
		"conditions":          row.Conditions,
		"updated_at":          row.UpdatedAt,
		"updated_by":          row.UpdatedBy,
	}

	var updated []coupon.Row
	err := r.client.withRetry(ctx, "coupon.update", func() error {
		updated = nil
		return r.client.DB.From(tableCoupons).
			Update(payload).
			Eq("store_name", sc.StoreName).
			Eq("id", c.ID).
			Execute(&updated)
	})
	if err != nil {
		err = databaseError(err, "Failed to update coupon", map[string]interface{}{
			"coupon_id": c.ID,
		})
		sentry.SetSpanError(span, err)
		return err
	}
	if len(updated) == 0 {
		err := notFound("coupon", c.ID)
		sentry.SetSpanError(span, err)
		return err
	}

	sentry.SetSpanSuccess(span)
	return nil
}

func (r *couponRepository) Delete(ctx context.Context, sc types.StoreContext, id string) error {
	span := sentry.StartRepositorySpan(ctx, sentry.OpSupabase, "coupon", "delete", map[string]interface{}{
		"coupon_id": id,
	})
	defer sentry.FinishSpan(span)

	var deleted []coupon.Row
	err := r.client.withRetry(ctx, "coupon.delete", func() error {
		deleted = nil
		return r.client.DB.From(tableCoupons).
			Delete().
			Eq("store_name", sc.StoreName).
			Eq("id", id).
			Execute(&deleted)
	})
	if err != nil {
		err = databaseError(err, "Failed to delete coupon", map[string]interface{}{
			"coupon_id": id,
		})
		sentry.SetSpanError(span, err)
		return err
	}
	if len(deleted) == 0 {
		err := notFound("coupon", id)
		sentry.SetSpanError(span, err)
		return err
	}

	sentry.SetSpanSuccess(span)
	return nil
}

// IncrementUsage performs a compare-and-set on usage_count. A lost race
// returns a retryable error so the read is repeated.
func (r *couponRepository) IncrementUsage(ctx context.Context, sc types.StoreContext, id string) error {
	span := sentry.StartRepositorySpan(ctx, sentry.OpSupabase, "coupon", "increment_usage", map[string]interface{}{
		"coupon_id": id,
	})
	defer sentry.FinishSpan(span)

	err := r.client.withRetry(ctx, "coupon.increment_usage", func() error {
		var current []coupon.Row
		if err := r.client.DB.From(tableCoupons).
			Select("*").
			Eq("store_name", sc.StoreName).
			Eq("id", id).
			Execute(&current); err != nil {
			return err
		}
		if len(current) == 0 {
			return notFound("coupon", id)
		}

		count := current[0].UsageCount
		var updated []coupon.Row
		if err := r.client.DB.From(tableCoupons).
			Update(map[string]interface{}{
				"usage_count": count + 1,
				"updated_at":  time.Now().UTC(),
				"updated_by":  sc.UserID,
			}).
			Eq("store_name", sc.StoreName).
			Eq("id", id).
			Eq("usage_count", strconv.Itoa(count)).
			Execute(&updated); err != nil {
			return err
		}
		if len(updated) == 0 {
			return ierr.NewError("usage count changed concurrently").
				Mark(ierr.ErrDatabase)
		}
		return nil
	})
	if err != nil {
		err = databaseError(err, "Failed to increment coupon usage", map[string]interface{}{
			"coupon_id": id,
		})
		sentry.SetSpanError(span, err)
		return err
	}

	sentry.SetSpanSuccess(span)
	return nil
}

func notFound(entity, id string) error {
	return ierr.NewErrorf("%s not found", entity).
		WithHintf("No %s with id %s", entity, id).
		WithReportableDetails(map[string]interface{}{
			entity + "_id": id,
		}).
		Mark(ierr.ErrNotFound)
}
