package discount

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/order"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// EvaluationContext holds the order facts advanced coupon conditions inspect
type EvaluationContext struct {
	Subtotal      decimal.Decimal
	Quantities    map[string]int
	CustomerGroup string
	FirstPurchase bool
}

// NewEvaluationContext collects the facts from an order
func NewEvaluationContext(o *order.Order) *EvaluationContext {
	ec := &EvaluationContext{
		Subtotal:      o.Subtotal,
		Quantities:    make(map[string]int, len(o.Items)),
		CustomerGroup: o.CustomerGroup,
		FirstPurchase: o.FirstPurchase,
	}
	for _, li := range o.Items {
		ec.Quantities[li.ProductID] += li.Quantity
	}
	return ec
}

// subtotalOnly is used when only the subtotal is known; rules about line
// items, groups or purchase history will not pass against it.
func subtotalOnly(subtotal decimal.Decimal) *EvaluationContext {
	return &EvaluationContext{Subtotal: subtotal}
}

// Evaluate reports whether the set passes and which rules failed. An empty
// set always passes.
func (ec *EvaluationContext) Evaluate(set *coupon.ConditionSet) (bool, []int) {
	if set.IsEmpty() {
		return true, nil
	}

	var failed []int
	for i, rule := range set.Rules {
		if !ec.evaluateRule(rule) {
			failed = append(failed, i)
		}
	}

	if set.Match == types.ConditionMatchAny {
		return len(failed) < len(set.Rules), failed
	}
	return len(failed) == 0, failed
}

func (ec *EvaluationContext) evaluateRule(rule coupon.Condition) bool {
	switch rule.Type {
	case types.ConditionTypeCartTotal:
		return compare(rule.Operator, ec.Subtotal, rule.Value)
	case types.ConditionTypeProductQuantity:
		qty := decimal.NewFromInt(int64(ec.Quantities[rule.ProductID]))
		return compare(rule.Operator, qty, rule.Value)
	case types.ConditionTypeCustomerGroup:
		if ec.CustomerGroup == "" {
			return false
		}
		return lo.ContainsBy(rule.Groups, func(g string) bool {
			return strings.EqualFold(g, ec.CustomerGroup)
		})
	case types.ConditionTypeFirstPurchase:
		return ec.FirstPurchase
	default:
		return false
	}
}

func compare(op types.ConditionOperator, actual, expected decimal.Decimal) bool {
	switch op {
	case types.ConditionOperatorGTE:
		return actual.GreaterThanOrEqual(expected)
	case types.ConditionOperatorLTE:
		return actual.LessThanOrEqual(expected)
	case types.ConditionOperatorEQ:
		return actual.Equal(expected)
	default:
		return false
	}
}
