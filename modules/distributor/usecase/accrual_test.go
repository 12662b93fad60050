package usecase

import (
	"sync"
	"testing"

	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPoints(t *testing.T) {
	t.Run("personal", func(t *testing.T) {
		f := newFixture(t)
		f.addDistributor("a", "")

		result, err := f.uc.AddPoints(f.ctx, "a", 100, entity.PointKindPersonal)
		require.NoError(t, err)
		assert.True(t, result.Success)
		f.assertPoints("a", 100, 0)
	})
	t.Run("commission", func(t *testing.T) {
		f := newFixture(t)
		f.addDistributor("a", "")

		_, err := f.uc.AddPoints(f.ctx, "a", 40, entity.PointKindCommission)
		require.NoError(t, err)
		f.assertPoints("a", 0, 40)
	})
	t.Run("zero is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.addDistributor("a", "")

		for _, kind := range []entity.PointKind{entity.PointKindPersonal, entity.PointKindCommission} {
			result, err := f.uc.AddPoints(f.ctx, "a", 0, kind)
			require.NoError(t, err)
			assert.True(t, result.Success)
		}
		_, err := f.uc.AddPoints(f.ctx, "missing", 0, entity.PointKindPersonal)
		assert.NoError(t, err)
		f.assertPoints("a", 0, 0)
	})
	t.Run("negative amount", func(t *testing.T) {
		f := newFixture(t)
		f.addDistributor("a", "")

		_, err := f.uc.AddPoints(f.ctx, "a", -1, entity.PointKindPersonal)
		assert.ErrorIs(t, err, errs.InvalidArgument)
		f.assertPoints("a", 0, 0)
	})
	t.Run("unknown kind", func(t *testing.T) {
		f := newFixture(t)
		f.addDistributor("a", "")

		_, err := f.uc.AddPoints(f.ctx, "a", 1, entity.PointKind("bonus"))
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.AddPoints(f.ctx, "missing", 1, entity.PointKindPersonal)
		assert.ErrorIs(t, err, errs.NotFound)
	})
}

func TestAddPointsConcurrent(t *testing.T) {
	f := newFixture(t)
	f.addDistributor("a", "")

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.AddPoints(f.ctx, "a", 3, entity.PointKindPersonal)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	f.assertPoints("a", workers*3, 0)
}
