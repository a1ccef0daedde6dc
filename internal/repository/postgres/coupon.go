package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/postgres"
	"github.com/zaviagodev/ai-commerce-sub002/internal/sentry"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

const couponColumns = `id, store_name, code, name, description, type, value,
	min_purchase_amount, max_discount_amount, usage_limit, usage_count,
	start_date, end_date, status, conditions,
	created_at, updated_at, created_by, updated_by`

type couponRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCouponRepository(db *postgres.DB, logger *logger.Logger) coupon.Repository {
	return &couponRepository{db: db, logger: logger}
}

func (r *couponRepository) Create(ctx context.Context, sc types.StoreContext, c *coupon.Coupon) error {
	span := sentry.StartRepositorySpan(ctx, sentry.OpPostgres, "coupon", "create", map[string]interface{}{
		"coupon_id":  c.ID,
		"store_name": sc.StoreName,
	})
	defer sentry.FinishSpan(span)

	query := `
		INSERT INTO coupons (` + couponColumns + `) VALUES (
			:id, :store_name, :code, :name, :description, :type, :value,
			:min_purchase_amount, :max_discount_amount, :usage_limit, :usage_count,
			:start_date, :end_date, :status, :conditions,
			:created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating coupon",
		"coupon_id", c.ID,
		"code", c.Code,
		"store_name", sc.StoreName,
	)

	row := coupon.ToStorageRow(c)
	row.StoreName = sc.StoreName

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if postgres.IsUniqueViolation(err) {
			err = ierr.WithError(err).
				WithHint("A coupon with this code already exists").
				WithReportableDetails(map[string]interface{}{
					"code": row.Code,
				}).
				Mark(ierr.ErrAlreadyExists)
		} else {
			err = ierr.WithError(err).
				WithHint("Failed to create coupon").
				WithReportableDetails(map[string]interface{}{
					"coupon_id": c.ID,
				}).
				Mark(ierr.ErrDatabase)
		}
		sentry.SetSpanError(span, err)
		return err
	}

	*c = *coupon.FromStorageRow(row)
	sentry.SetSpanSuccess(span)
	return nil
}

func (r *couponRepository) Get(ctx context.Context, sc types.StoreContext, id string) (*coupon.Coupon, error) {
	span := sentry.StartRepositorySpan(ctx, sentry.OpPostgres, "coupon", "get", map[string]interface{}{
		"coupon_id": id,
	})
	defer sentry.FinishSpan(span)

	c, err := r.getOne(ctx, "id = :id", map[string]interface{}{
		"id":         id,
		"store_name": sc.StoreName,
	})
	if err != nil {
		sentry.SetSpanError(span, err)
		return nil, err
	}
	if c == nil {
		return nil, ierr.NewError("coupon not found").
			WithHint("Coupon not found").
			WithReportableDetails(map[string]interface{}{
				"coupon_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	sentry.SetSpanSuccess(span)
	return c, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, sc types.StoreContext, code string) (*coupon.Coupon, error) {
	span := sentry.StartRepositorySpan(ctx, sentry.OpPostgres, "coupon", "get_by_code", map[string]interface{}{
		"code": code,
	})
	defer sentry.FinishSpan(span)

	c, err := r.getOne(ctx, "code = :code", map[string]interface{}{
		"code":       types.NormalizeCouponCode(code),
		"store_name": sc.StoreName,
	})
	if err != nil {
		sentry.SetSpanError(span, err)
		return nil, err
	}
	if c == nil {
		return nil, ierr.NewError("coupon not found").
			WithHintf("No coupon matches code %s", types.NormalizeCouponCode(code)).
			WithReportableDetails(map[string]interface{}{
				"code": code,
			}).
			Mark(ierr.ErrNotFound)
	}

	sentry.SetSpanSuccess(span)
	return c, nil
}

// getOne returns nil without error when no row matches
func (r *couponRepository) getOne(ctx context.Context, where string, params map[string]interface{}) (*coupon.Coupon, error) {
	query := "SELECT " + couponColumns + " FROM coupons WHERE store_name = :store_name AND " + where + " LIMIT 1"

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get coupon").
			WithReportableDetails(params).
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var row coupon.Row
	if err := rows.StructScan(&row); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read coupon").
			Mark(ierr.ErrDatabase)
	}
	return coupon.FromStorageRow(&row), nil
}

func (r *couponRepository) List(ctx context.Context, sc types.StoreContext, filter *types.CouponFilter) ([]*coupon.Coupon, error) {
	if filter == nil {
		filter = types.NewNoLimitCouponFilter()
	}

	where, params := buildCouponFilter(sc, filter)
	query := "SELECT " + couponColumns + " FROM coupons WHERE " + where + " ORDER BY code ASC, id ASC"
	if !filter.IsUnlimited() {
		query += " LIMIT :limit OFFSET :offset"
		params["limit"] = filter.GetLimit()
		params["offset"] = filter.GetOffset()
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list coupons").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	coupons := make([]*coupon.Coupon, 0)
	for rows.Next() {
		var row coupon.Row
		if err := rows.StructScan(&row); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to read coupon").
				Mark(ierr.ErrDatabase)
		}
		coupons = append(coupons, coupon.FromStorageRow(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list coupons").
			Mark(ierr.ErrDatabase)
	}

	return coupons, nil
}

func (r *couponRepository) Count(ctx context.Context, sc types.StoreContext, filter *types.CouponFilter) (int, error) {
	if filter == nil {
		filter = types.NewNoLimitCouponFilter()
	}

	where, params := buildCouponFilter(sc, filter)
	rows, err := r.db.NamedQueryContext(ctx, "SELECT COUNT(*) FROM coupons WHERE "+where, params)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count coupons").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to count coupons").
				Mark(ierr.ErrDatabase)
		}
	}
	return count, nil
}

func buildCouponFilter(sc types.StoreContext, filter *types.CouponFilter) (string, map[string]interface{}) {
	clauses := []string{"store_name = :store_name"}
	params := map[string]interface{}{"store_name": sc.StoreName}

	if search := strings.TrimSpace(filter.Search); search != "" {
		clauses = append(clauses, "(code ILIKE :search OR name ILIKE :search)")
		params["search"] = "%" + search + "%"
	}
	if len(filter.Statuses) > 0 {
		clauses = append(clauses, "status = ANY(:statuses)")
		params["statuses"] = pq.Array(lo.Map(filter.Statuses, func(s types.CouponStatus, _ int) string { return string(s) }))
	}
	if len(filter.Types) > 0 {
		clauses = append(clauses, "type = ANY(:types)")
		params["types"] = pq.Array(lo.Map(filter.Types, func(t types.CouponType, _ int) string { return string(t) }))
	}
	if len(filter.Codes) > 0 {
		clauses = append(clauses, "code = ANY(:codes)")
		params["codes"] = pq.Array(lo.Map(filter.Codes, func(c string, _ int) string { return types.NormalizeCouponCode(c) }))
	}

	return strings.Join(clauses, " AND "), params
}

func (r *couponRepository) Update(ctx context.Context, sc types.StoreContext, c *coupon.Coupon) error {
	span := sentry.StartRepositorySpan(ctx, sentry.OpPostgres, "coupon", "update", map[string]interface{}{
		"coupon_id": c.ID,
	})
	defer sentry.FinishSpan(span)

	query := `
		UPDATE coupons SET
			code = :code,
			name = :name,
			description = :description,
			type = :type,
			value = :value,
			min_purchase_amount = :min_purchase_amount,
			max_discount_amount = :max_discount_amount,
			usage_limit = :usage_limit,
			start_date = :start_date,
			end_date = :end_date,
			status = :status,
			conditions = :conditions,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND store_name = :store_name`

	r.logger.Debugw("updating coupon",
		"coupon_id", c.ID,
		"store_name", sc.StoreName,
	)

	row := coupon.ToStorageRow(c)
	row.StoreName = sc.StoreName

	result, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			err = ierr.WithError(err).
				WithHint("A coupon with this code already exists").
				WithReportableDetails(map[string]interface{}{
					"code": row.Code,
				}).
				Mark(ierr.ErrAlreadyExists)
		} else {
			err = ierr.WithError(err).
				WithHint("Failed to update coupon").
				WithReportableDetails(map[string]interface{}{
					"coupon_id": c.ID,
				}).
				Mark(ierr.ErrDatabase)
		}
		sentry.SetSpanError(span, err)
		return err
	}

	if err := requireAffected(result, "coupon", c.ID); err != nil {
		sentry.SetSpanError(span, err)
		return err
	}

	sentry.SetSpanSuccess(span)
	return nil
}

func (r *couponRepository) Delete(ctx context.Context, sc types.StoreContext, id string) error {
	span := sentry.StartRepositorySpan(ctx, sentry.OpPostgres, "coupon", "delete", map[string]interface{}{
		"coupon_id": id,
	})
	defer sentry.FinishSpan(span)

	r.logger.Debugw("deleting coupon",
		"coupon_id", id,
		"store_name", sc.StoreName,
	)

	result, err := r.db.NamedExecContext(ctx, "DELETE FROM coupons WHERE id = :id AND store_name = :store_name", map[string]interface{}{
		"id":         id,
		"store_name": sc.StoreName,
	})
	if err != nil {
		err = ierr.WithError(err).
			WithHint("Failed to delete coupon").
			WithReportableDetails(map[string]interface{}{
				"coupon_id": id,
			}).
			Mark(ierr.ErrDatabase)
		sentry.SetSpanError(span, err)
		return err
	}

	if err := requireAffected(result, "coupon", id); err != nil {
		sentry.SetSpanError(span, err)
		return err
	}

	sentry.SetSpanSuccess(span)
	return nil
}

func (r *couponRepository) IncrementUsage(ctx context.Context, sc types.StoreContext, id string) error {
	span := sentry.StartRepositorySpan(ctx, sentry.OpPostgres, "coupon", "increment_usage", map[string]interface{}{
		"coupon_id": id,
	})
	defer sentry.FinishSpan(span)

	query := `
		UPDATE coupons SET
			usage_count = usage_count + 1,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND store_name = :store_name`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":         id,
		"store_name": sc.StoreName,
		"updated_at": time.Now().UTC(),
		"updated_by": sc.UserID,
	})
	if err != nil {
		err = ierr.WithError(err).
			WithHint("Failed to increment coupon usage").
			WithReportableDetails(map[string]interface{}{
				"coupon_id": id,
			}).
			Mark(ierr.ErrDatabase)
		sentry.SetSpanError(span, err)
		return err
	}

	if err := requireAffected(result, "coupon", id); err != nil {
		sentry.SetSpanError(span, err)
		return err
	}

	sentry.SetSpanSuccess(span)
	return nil
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func requireAffected(result rowsAffecter, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			Mark(ierr.ErrDatabase)
	}
	if n == 0 {
		return ierr.NewErrorf("%s not found", entity).
			WithHint(fmt.Sprintf("%s not found", strings.ToUpper(entity[:1])+entity[1:])).
			WithReportableDetails(map[string]interface{}{
				entity + "_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
