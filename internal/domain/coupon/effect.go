package coupon

import (
	"github.com/shopspring/decimal"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// Effect describes what applying a coupon does to an order. Exactly one of
// Amount or Factor is set, depending on Kind; free shipping carries neither.
type Effect struct {
	Kind   types.EffectKind `json:"kind"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Factor *decimal.Decimal `json:"factor,omitempty"`
}

func CurrencyEffect(amount decimal.Decimal) Effect {
	return Effect{Kind: types.EffectKindCurrency, Amount: &amount}
}

func FreeShippingEffect() Effect {
	return Effect{Kind: types.EffectKindFreeShipping}
}

func PointsMultiplierEffect(factor decimal.Decimal) Effect {
	return Effect{Kind: types.EffectKindPointsMultiplier, Factor: &factor}
}

// CurrencyAmount is the amount this effect takes off the order, zero for
// non-currency effects
func (e Effect) CurrencyAmount() decimal.Decimal {
	if e.Kind != types.EffectKindCurrency || e.Amount == nil {
		return decimal.Zero
	}
	return *e.Amount
}

func (e Effect) WaivesShipping() bool {
	return e.Kind == types.EffectKindFreeShipping
}

// PointsMultiplier returns the loyalty factor and whether this effect has one
func (e Effect) PointsMultiplier() (decimal.Decimal, bool) {
	if e.Kind != types.EffectKindPointsMultiplier || e.Factor == nil {
		return decimal.Zero, false
	}
	return *e.Factor, true
}

func (e Effect) Validate() error {
	switch e.Kind {
	case types.EffectKindCurrency:
		if e.Amount == nil || e.Factor != nil {
			return ierr.NewError("currency effect must carry only an amount").
				Mark(ierr.ErrValidation)
		}
	case types.EffectKindFreeShipping:
		if e.Amount != nil || e.Factor != nil {
			return ierr.NewError("free shipping effect carries no amount or factor").
				Mark(ierr.ErrValidation)
		}
	case types.EffectKindPointsMultiplier:
		if e.Factor == nil || e.Amount != nil {
			return ierr.NewError("points multiplier effect must carry only a factor").
				Mark(ierr.ErrValidation)
		}
	default:
		return ierr.NewError("unknown effect kind").
			WithReportableDetails(map[string]any{"kind": e.Kind}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
