package coupon

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// ConditionSet holds the advanced-mode rules a coupon must satisfy on top of
// its basic eligibility. Rules are combined with Match.
type ConditionSet struct {
	Match types.ConditionMatch `json:"match"`
	Rules []Condition          `json:"rules"`
}

// Condition is a single predicate over the order being discounted.
//
//   - cart_total compares the subtotal with Value
//   - product_quantity compares the quantity of ProductID with Value
//   - customer_group passes when the customer's group is one of Groups
//   - first_purchase passes when the order is the customer's first
type Condition struct {
	Type      types.ConditionType     `json:"type"`
	Operator  types.ConditionOperator `json:"operator,omitempty"`
	Value     decimal.Decimal         `json:"value"`
	ProductID string                  `json:"productId,omitempty"`
	Groups    []string                `json:"groups,omitempty"`
}

// IsEmpty reports whether there is nothing to evaluate
func (s *ConditionSet) IsEmpty() bool {
	return s == nil || len(s.Rules) == 0
}

func (s *ConditionSet) Validate() error {
	if s.IsEmpty() {
		return nil
	}
	if s.Match != types.ConditionMatchAll && s.Match != types.ConditionMatchAny {
		return ierr.NewError("invalid condition match").
			WithHint("Condition match must be all or any").
			WithReportableDetails(map[string]any{"match": s.Match}).
			Mark(ierr.ErrValidation)
	}
	for i, rule := range s.Rules {
		if err := rule.Validate(); err != nil {
			return ierr.WithError(err).
				WithReportableDetails(map[string]any{"rule": i}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

func (c Condition) Validate() error {
	if err := c.Type.Validate(); err != nil {
		return err
	}
	switch c.Type {
	case types.ConditionTypeCartTotal, types.ConditionTypeProductQuantity:
		if err := c.Operator.Validate(); err != nil {
			return err
		}
		if c.Value.IsNegative() {
			return ierr.NewError("condition value must not be negative").
				WithHint("Please provide a condition value of zero or more").
				Mark(ierr.ErrValidation)
		}
		if c.Type == types.ConditionTypeProductQuantity && c.ProductID == "" {
			return ierr.NewError("product_id is required for product quantity conditions").
				WithHint("Please select the product this condition applies to").
				Mark(ierr.ErrValidation)
		}
	case types.ConditionTypeCustomerGroup:
		if len(c.Groups) == 0 {
			return ierr.NewError("groups are required for customer group conditions").
				WithHint("Please select at least one customer group").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// Value stores the set as JSONB
func (s ConditionSet) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *ConditionSet) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return ierr.NewErrorf("unsupported conditions column type %T", src).
			Mark(ierr.ErrDatabase)
	}
	return json.Unmarshal(raw, s)
}
