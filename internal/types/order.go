package types

// OrderStatus tracks whether an order's applied coupons may still change
type OrderStatus string

const (
	// OrderStatusDraft orders are being edited; coupons may be applied and removed
	OrderStatusDraft OrderStatus = "draft"
	// OrderStatusFinalized orders are frozen; applied coupons are immutable
	OrderStatusFinalized OrderStatus = "finalized"
)
