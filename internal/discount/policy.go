package discount

import "github.com/zaviagodev/ai-commerce-sub002/internal/config"

// DefaultCurrencyPrecision is the number of decimal places discounts are rounded to
const DefaultCurrencyPrecision int32 = 2

// Policy holds the behaviours merchants have asked to be configurable.
// The zero value, apart from precision, matches the dashboard's behaviour.
type Policy struct {
	// ClampFixedToSubtotal caps fixed discounts at the subtotal so the total
	// cannot go negative
	ClampFixedToSubtotal bool
	// RestoreShippingOnRemove puts the waived shipping charge back when the
	// last free-shipping coupon is removed
	RestoreShippingOnRemove bool
	// InclusiveEndDate makes the end date redeemable
	InclusiveEndDate bool
	// CurrencyPrecision is the number of decimal places amounts are rounded to
	CurrencyPrecision int32
}

// DefaultPolicy returns the policy used when nothing is configured
func DefaultPolicy() Policy {
	return Policy{CurrencyPrecision: DefaultCurrencyPrecision}
}

// PolicyFromConfig reads the discount section of the configuration
func PolicyFromConfig(cfg *config.Configuration) Policy {
	return Policy{
		ClampFixedToSubtotal:    cfg.Discount.ClampFixedToSubtotal,
		RestoreShippingOnRemove: cfg.Discount.RestoreShippingOnRemove,
		InclusiveEndDate:        cfg.Discount.InclusiveEndDate,
		CurrencyPrecision:       cfg.Discount.CurrencyPrecision,
	}
}

// NewEngineFromConfig is the fx constructor for the engine
func NewEngineFromConfig(cfg *config.Configuration) *Engine {
	return NewEngine(PolicyFromConfig(cfg))
}
