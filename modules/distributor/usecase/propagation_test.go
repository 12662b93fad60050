package usecase

import (
	"math"
	"testing"

	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenPercent = decimal.RequireFromString("0.10")

func TestCommissionAmount(t *testing.T) {
	testCases := []struct {
		base     int64
		rate     string
		expected int64
	}{
		{base: 1000, rate: "0.10", expected: 100},
		{base: 999, rate: "0.10", expected: 99},
		{base: 9, rate: "0.10", expected: 0},
		{base: 10, rate: "0.10", expected: 1},
		{base: 3, rate: "0.3333", expected: 0},
		{base: 0, rate: "0.10", expected: 0},
		{base: 1000, rate: "0", expected: 0},
	}
	for _, tc := range testCases {
		commission, err := CommissionAmount(tc.base, decimal.RequireFromString(tc.rate))
		require.NoError(t, err)
		assert.Equal(t, tc.expected, commission, "floor(%d * %s)", tc.base, tc.rate)
	}

	_, err := CommissionAmount(math.MaxInt64, decimal.NewFromInt(2))
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestPropagate(t *testing.T) {
	t.Run("flat commission on a three level chain", func(t *testing.T) {
		f := newFixture(t)
		f.addChain("source", "u1", "u2", "u3")

		credits, err := f.uc.Propagate(f.ctx, PropagateParams{SourceID: "source", BaseAmount: 1000, Rate: tenPercent, MaxLevels: 5})
		require.NoError(t, err)
		assert.Len(t, credits, 4)

		f.assertPoints("source", 1000, 0)
		f.assertPoints("u1", 0, 100)
		f.assertPoints("u2", 0, 100)
		f.assertPoints("u3", 0, 100)
	})
	t.Run("level cap", func(t *testing.T) {
		f := newFixture(t)
		f.addChain("source", "u1", "u2", "u3", "u4", "u5", "u6", "u7")

		_, err := f.uc.Propagate(f.ctx, PropagateParams{SourceID: "source", BaseAmount: 1000, Rate: tenPercent, MaxLevels: 5})
		require.NoError(t, err)

		for _, id := range []string{"u1", "u2", "u3", "u4", "u5"} {
			f.assertPoints(id, 0, 100)
		}
		f.assertPoints("u6", 0, 0)
		f.assertPoints("u7", 0, 0)
	})
	t.Run("single hop", func(t *testing.T) {
		f := newFixture(t)
		f.addChain("source", "u1", "u2")

		result, err := f.uc.AddPointsWithCommission(f.ctx, "source", 500)
		require.NoError(t, err)
		assert.True(t, result.Success)

		f.assertPoints("source", 500, 0)
		f.assertPoints("u1", 0, 50)
		f.assertPoints("u2", 0, 0)
	})
	t.Run("commission rounds to zero", func(t *testing.T) {
		f := newFixture(t)
		f.addChain("source", "u1")

		credits, err := f.uc.Propagate(f.ctx, PropagateParams{SourceID: "source", BaseAmount: 9, Rate: tenPercent, MaxLevels: 5})
		require.NoError(t, err)
		assert.Len(t, credits, 1)
		f.assertPoints("source", 9, 0)
		f.assertPoints("u1", 0, 0)
	})
	t.Run("zero amount", func(t *testing.T) {
		f := newFixture(t)
		f.addChain("source", "u1")

		_, err := f.uc.Propagate(f.ctx, PropagateParams{SourceID: "source", BaseAmount: 0, Rate: tenPercent, MaxLevels: 5})
		require.NoError(t, err)
		f.assertPoints("source", 0, 0)
		f.assertPoints("u1", 0, 0)
	})
	t.Run("root source", func(t *testing.T) {
		f := newFixture(t)
		f.addDistributor("root", "")

		credits, err := f.uc.Propagate(f.ctx, PropagateParams{SourceID: "root", BaseAmount: 100, Rate: tenPercent, MaxLevels: 5})
		require.NoError(t, err)
		assert.Len(t, credits, 1)
		f.assertPoints("root", 100, 0)
	})
	t.Run("cyclic graph terminates at the level cap", func(t *testing.T) {
		f := newFixture(t)
		f.addDistributor("a", "")
		f.addDistributor("b", "a")
		// corrupt the graph behind the cycle check
		require.NoError(t, f.repo.UpdateUpline(f.ctx, "a", "b"))

		credits, err := f.uc.Propagate(f.ctx, PropagateParams{SourceID: "a", BaseAmount: 100, Rate: tenPercent, MaxLevels: 5})
		require.NoError(t, err)
		assert.Len(t, credits, 6)

		// levels 1, 3, 5 pay b and levels 2, 4 pay a
		f.assertPoints("a", 100, 20)
		f.assertPoints("b", 0, 30)
	})
	t.Run("failure rolls back every credit", func(t *testing.T) {
		f := newFixture(t)
		f.addChain("source", "u1", "u2", "u3")
		f.withFailure("u2")

		_, err := f.uc.Propagate(f.ctx, PropagateParams{SourceID: "source", BaseAmount: 1000, Rate: tenPercent, MaxLevels: 5})
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.Storage)

		f.assertPoints("source", 0, 0)
		f.assertPoints("u1", 0, 0)
		f.assertPoints("u2", 0, 0)
		f.assertPoints("u3", 0, 0)
	})
	t.Run("missing source", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Propagate(f.ctx, PropagateParams{SourceID: "missing", BaseAmount: 10, Rate: tenPercent, MaxLevels: 5})
		assert.ErrorIs(t, err, errs.NotFound)
	})
	t.Run("invalid params", func(t *testing.T) {
		f := newFixture(t)
		f.addDistributor("a", "")

		for _, arg := range []PropagateParams{
			{SourceID: "", BaseAmount: 10, Rate: tenPercent, MaxLevels: 5},
			{SourceID: "a", BaseAmount: -10, Rate: tenPercent, MaxLevels: 5},
			{SourceID: "a", BaseAmount: 10, Rate: decimal.NewFromInt(-1), MaxLevels: 5},
			{SourceID: "a", BaseAmount: 10, Rate: tenPercent, MaxLevels: -1},
		} {
			_, err := f.uc.Propagate(f.ctx, arg)
			assert.ErrorIs(t, err, errs.InvalidArgument)
		}
		f.assertPoints("a", 0, 0)
	})
}

func TestRecordActivity(t *testing.T) {
	t.Run("uses configured levels", func(t *testing.T) {
		f := newFixture(t)
		f.addChain("source", "u1", "u2", "u3", "u4", "u5", "u6")

		_, err := f.uc.RecordActivity(f.ctx, "source", 200)
		require.NoError(t, err)
		f.assertPoints("source", 200, 0)
		f.assertPoints("u5", 0, 20)
		f.assertPoints("u6", 0, 0)
		f.assertTotalsConsistent()
	})
	t.Run("pending source", func(t *testing.T) {
		f := newFixture(t)
		f.addDistributor("pending", "")
		require.NoError(t, f.repo.UpdateDistributorStatus(f.ctx, "pending", "pending"))

		_, err := f.uc.RecordActivity(f.ctx, "pending", 200)
		assert.ErrorIs(t, err, errs.InvalidArgument)
		f.assertPoints("pending", 0, 0)
	})
	t.Run("repeated events accumulate", func(t *testing.T) {
		f := newFixture(t)
		f.addChain("source", "u1")

		for i := 0; i < 3; i++ {
			_, err := f.uc.RecordActivity(f.ctx, "source", 100)
			require.NoError(t, err)
		}
		f.assertPoints("source", 300, 0)
		f.assertPoints("u1", 0, 30)
	})
}
