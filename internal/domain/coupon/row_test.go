package coupon

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

func sampleCoupon() *Coupon {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &Coupon{
		ID:                "cpn_01",
		StoreName:         "acme",
		Code:              "welcome10",
		Name:              "Welcome",
		Description:       "10% off your first order",
		Type:              types.CouponTypePercentage,
		Value:             decimal.NewFromInt(10),
		MinPurchaseAmount: lo.ToPtr(decimal.NewFromInt(50)),
		MaxDiscountAmount: lo.ToPtr(decimal.NewFromInt(20)),
		UsageLimit:        lo.ToPtr(100),
		UsageCount:        3,
		StartDate:         start,
		EndDate:           start.AddDate(0, 1, 0),
		Status:            types.CouponStatusActive,
		Conditions: &ConditionSet{
			Match: types.ConditionMatchAny,
			Rules: []Condition{{Type: types.ConditionTypeFirstPurchase}},
		},
		BaseModel: domain.BaseModel{
			CreatedAt: start,
			UpdatedAt: start,
			CreatedBy: "user_1",
			UpdatedBy: "user_1",
		},
	}
}

func TestStorageRow_RoundTrip(t *testing.T) {
	c := sampleCoupon()

	row := ToStorageRow(c)
	require.NotNil(t, row)
	assert.Equal(t, "WELCOME10", row.Code)
	assert.Equal(t, "percentage", row.Type)
	assert.Equal(t, "active", row.Status)

	back := FromStorageRow(row)
	c.Code = "WELCOME10"
	assert.Equal(t, c, back)
}

func TestStorageRow_JSONUsesSnakeCase(t *testing.T) {
	raw, err := json.Marshal(ToStorageRow(sampleCoupon()))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"store_name", "min_purchase_amount", "max_discount_amount", "usage_limit", "usage_count", "start_date", "end_date"} {
		assert.Contains(t, fields, key)
	}
	assert.NotContains(t, fields, "minPurchaseAmount")

	raw, err = json.Marshal(sampleCoupon())
	require.NoError(t, err)
	fields = map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"storeName", "minPurchaseAmount", "maxDiscountAmount", "usageLimit", "usageCount", "startDate", "endDate", "createdAt"} {
		assert.Contains(t, fields, key)
	}
}

func TestStorageRow_EmptyConditionsStoredAsNull(t *testing.T) {
	c := sampleCoupon()
	c.Conditions = &ConditionSet{Match: types.ConditionMatchAll}

	row := ToStorageRow(c)
	assert.Nil(t, row.Conditions)
	assert.Nil(t, FromStorageRow(row).Conditions)
}

func TestStorageRow_Nil(t *testing.T) {
	assert.Nil(t, ToStorageRow(nil))
	assert.Nil(t, FromStorageRow(nil))
	assert.Empty(t, FromStorageRows(nil))
}

func TestConditionSet_ScanValue(t *testing.T) {
	set := ConditionSet{
		Match: types.ConditionMatchAll,
		Rules: []Condition{{
			Type:     types.ConditionTypeCartTotal,
			Operator: types.ConditionOperatorGTE,
			Value:    decimal.NewFromInt(100),
		}},
	}

	v, err := set.Value()
	require.NoError(t, err)

	var scanned ConditionSet
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, set.Match, scanned.Match)
	require.Len(t, scanned.Rules, 1)
	assert.True(t, scanned.Rules[0].Value.Equal(decimal.NewFromInt(100)))

	require.NoError(t, scanned.Scan(nil))
	assert.Error(t, scanned.Scan(42))
}
