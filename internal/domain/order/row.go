package order

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// Row is the snake_case shape of an order in the orders table. Line items
// and applied coupons are stored as JSONB columns.
type Row struct {
	ID             string          `db:"id" json:"id"`
	StoreName      string          `db:"store_name" json:"store_name"`
	CustomerID     string          `db:"customer_id" json:"customer_id"`
	CustomerGroup  string          `db:"customer_group" json:"customer_group"`
	FirstPurchase  bool            `db:"first_purchase" json:"first_purchase"`
	Status         string          `db:"status" json:"status"`
	Items          LineItemList    `db:"items" json:"items"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	Shipping       decimal.Decimal `db:"shipping" json:"shipping"`
	Discount       decimal.Decimal `db:"discount" json:"discount"`
	AppliedCoupons OrderCouponList `db:"applied_coupons" json:"applied_coupons"`
	FinalizedAt    *time.Time      `db:"finalized_at" json:"finalized_at"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
	CreatedBy      string          `db:"created_by" json:"created_by"`
	UpdatedBy      string          `db:"updated_by" json:"updated_by"`
}

// LineItemList is a JSONB column of line items
type LineItemList []LineItem

// OrderCouponList is a JSONB column of applied coupon snapshots
type OrderCouponList []OrderCoupon

func (l LineItemList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]LineItem(l))
}

func (l *LineItemList) Scan(src any) error {
	return scanJSON(src, (*[]LineItem)(l))
}

func (l OrderCouponList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]OrderCoupon(l))
}

func (l *OrderCouponList) Scan(src any) error {
	return scanJSON(src, (*[]OrderCoupon)(l))
}

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return ierr.NewErrorf("unsupported json column type %T", src).
			Mark(ierr.ErrDatabase)
	}
}

// ToStorageRow maps the view model onto its storage row
func ToStorageRow(o *Order) *Row {
	if o == nil {
		return nil
	}
	return &Row{
		ID:             o.ID,
		StoreName:      o.StoreName,
		CustomerID:     o.CustomerID,
		CustomerGroup:  o.CustomerGroup,
		FirstPurchase:  o.FirstPurchase,
		Status:         string(o.Status),
		Items:          LineItemList(o.Items),
		Subtotal:       o.Subtotal,
		Shipping:       o.Shipping,
		Discount:       o.Discount,
		AppliedCoupons: OrderCouponList(o.AppliedCoupons),
		FinalizedAt:    o.FinalizedAt,
		CreatedAt:      o.CreatedAt.UTC(),
		UpdatedAt:      o.UpdatedAt.UTC(),
		CreatedBy:      o.CreatedBy,
		UpdatedBy:      o.UpdatedBy,
	}
}

// FromStorageRow maps a storage row back onto the view model
func FromStorageRow(r *Row) *Order {
	if r == nil {
		return nil
	}
	o := &Order{
		ID:             r.ID,
		StoreName:      r.StoreName,
		CustomerID:     r.CustomerID,
		CustomerGroup:  r.CustomerGroup,
		FirstPurchase:  r.FirstPurchase,
		Status:         types.OrderStatus(r.Status),
		Items:          []LineItem(r.Items),
		Subtotal:       r.Subtotal,
		Shipping:       r.Shipping,
		Discount:       r.Discount,
		AppliedCoupons: []OrderCoupon(r.AppliedCoupons),
		FinalizedAt:    r.FinalizedAt,
		BaseModel: domain.BaseModel{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
	if o.Items == nil {
		o.Items = []LineItem{}
	}
	if o.AppliedCoupons == nil {
		o.AppliedCoupons = []OrderCoupon{}
	}
	return o
}
