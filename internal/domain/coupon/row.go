package coupon

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// Row is the snake_case shape of a coupon as stored in the coupons table.
// The json tags match the column names so the same struct serves the REST
// backend and direct sqlx access.
type Row struct {
	ID                string           `db:"id" json:"id"`
	StoreName         string           `db:"store_name" json:"store_name"`
	Code              string           `db:"code" json:"code"`
	Name              string           `db:"name" json:"name"`
	Description       string           `db:"description" json:"description"`
	Type              string           `db:"type" json:"type"`
	Value             decimal.Decimal  `db:"value" json:"value"`
	MinPurchaseAmount *decimal.Decimal `db:"min_purchase_amount" json:"min_purchase_amount"`
	MaxDiscountAmount *decimal.Decimal `db:"max_discount_amount" json:"max_discount_amount"`
	UsageLimit        *int             `db:"usage_limit" json:"usage_limit"`
	UsageCount        int              `db:"usage_count" json:"usage_count"`
	StartDate         time.Time        `db:"start_date" json:"start_date"`
	EndDate           time.Time        `db:"end_date" json:"end_date"`
	Status            string           `db:"status" json:"status"`
	Conditions        *ConditionSet    `db:"conditions" json:"conditions"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updated_at"`
	CreatedBy         string           `db:"created_by" json:"created_by"`
	UpdatedBy         string           `db:"updated_by" json:"updated_by"`
}

// ToStorageRow maps the view model onto its storage row
func ToStorageRow(c *Coupon) *Row {
	if c == nil {
		return nil
	}
	row := &Row{
		ID:                c.ID,
		StoreName:         strings.ToLower(c.StoreName),
		Code:              types.NormalizeCouponCode(c.Code),
		Name:              c.Name,
		Description:       c.Description,
		Type:              string(c.Type),
		Value:             c.Value,
		MinPurchaseAmount: c.MinPurchaseAmount,
		MaxDiscountAmount: c.MaxDiscountAmount,
		UsageLimit:        c.UsageLimit,
		UsageCount:        c.UsageCount,
		StartDate:         c.StartDate.UTC(),
		EndDate:           c.EndDate.UTC(),
		Status:            string(c.Status),
		CreatedAt:         c.CreatedAt.UTC(),
		UpdatedAt:         c.UpdatedAt.UTC(),
		CreatedBy:         c.CreatedBy,
		UpdatedBy:         c.UpdatedBy,
	}
	if !c.Conditions.IsEmpty() {
		row.Conditions = c.Conditions
	}
	return row
}

// FromStorageRow maps a storage row back onto the view model
func FromStorageRow(r *Row) *Coupon {
	if r == nil {
		return nil
	}
	c := &Coupon{
		ID:                r.ID,
		StoreName:         r.StoreName,
		Code:              r.Code,
		Name:              r.Name,
		Description:       r.Description,
		Type:              types.CouponType(r.Type),
		Value:             r.Value,
		MinPurchaseAmount: r.MinPurchaseAmount,
		MaxDiscountAmount: r.MaxDiscountAmount,
		UsageLimit:        r.UsageLimit,
		UsageCount:        r.UsageCount,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		Status:            types.CouponStatus(r.Status),
		BaseModel: domain.BaseModel{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
	if !r.Conditions.IsEmpty() {
		c.Conditions = r.Conditions
	}
	return c
}

// FromStorageRows converts a list of rows, preserving order
func FromStorageRows(rows []*Row) []*Coupon {
	coupons := make([]*Coupon, 0, len(rows))
	for _, r := range rows {
		coupons = append(coupons, FromStorageRow(r))
	}
	return coupons
}
