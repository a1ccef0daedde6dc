package postgres

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

type fakeResult struct {
	n   int64
	err error
}

func (f fakeResult) RowsAffected() (int64, error) { return f.n, f.err }

func TestBuildCouponFilter(t *testing.T) {
	sc := types.NewStoreContext("Acme", "user_1")

	t.Run("store only", func(t *testing.T) {
		where, params := buildCouponFilter(sc, types.NewNoLimitCouponFilter())
		assert.Equal(t, "store_name = :store_name", where)
		assert.Equal(t, "acme", params["store_name"])
		assert.Len(t, params, 1)
	})

	t.Run("all clauses", func(t *testing.T) {
		filter := types.NewCouponFilter()
		filter.Search = " summer "
		filter.Statuses = []types.CouponStatus{types.CouponStatusActive}
		filter.Types = []types.CouponType{types.CouponTypePercentage, types.CouponTypeFixed}
		filter.Codes = []string{" save10 "}

		where, params := buildCouponFilter(sc, filter)
		assert.Equal(t,
			"store_name = :store_name AND (code ILIKE :search OR name ILIKE :search) AND status = ANY(:statuses) AND type = ANY(:types) AND code = ANY(:codes)",
			where)
		assert.Equal(t, "%summer%", params["search"])
		assert.Equal(t, pq.Array([]string{"active"}), params["statuses"])
		assert.Equal(t, pq.Array([]string{"percentage", "fixed"}), params["types"])
		assert.Equal(t, pq.Array([]string{"SAVE10"}), params["codes"])
	})
}

func TestRequireAffected(t *testing.T) {
	assert.NoError(t, requireAffected(fakeResult{n: 1}, "coupon", "cpn_1"))

	err := requireAffected(fakeResult{n: 0}, "coupon", "cpn_1")
	assert.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}
