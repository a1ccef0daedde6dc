package discount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
)

func TestPolicyFromConfig(t *testing.T) {
	cfg := config.GetDefaultConfig()
	assert.Equal(t, DefaultPolicy(), PolicyFromConfig(cfg))

	cfg.Discount.ClampFixedToSubtotal = true
	cfg.Discount.RestoreShippingOnRemove = true
	cfg.Discount.InclusiveEndDate = true
	cfg.Discount.CurrencyPrecision = 0

	engine := NewEngineFromConfig(cfg)
	assert.Equal(t, Policy{
		ClampFixedToSubtotal:    true,
		RestoreShippingOnRemove: true,
		InclusiveEndDate:        true,
		CurrencyPrecision:       0,
	}, engine.Policy())
}

func TestNewEngine_NegativePrecisionFallsBack(t *testing.T) {
	engine := NewEngine(Policy{CurrencyPrecision: -1})
	assert.Equal(t, DefaultCurrencyPrecision, engine.Policy().CurrencyPrecision)
}
