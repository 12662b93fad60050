package usecase

import (
	"testing"

	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignUpline(t *testing.T) {
	t.Run("links under an approved upline", func(t *testing.T) {
		f := newFixture(t)
		f.addDistributor("captain", "")
		f.addDistributor("crew", "")

		result, err := f.uc.AssignUpline(f.ctx, "crew", "captain")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "captain", f.get("crew").UplineID)
	})
	t.Run("rejects cycles", func(t *testing.T) {
		f := newFixture(t)
		f.addChain("c", "b", "a")

		_, err := f.uc.AssignUpline(f.ctx, "a", "c")
		assert.ErrorIs(t, err, errs.Cycle)
		assert.False(t, f.get("a").HasUpline())

		_, err = f.uc.AssignUpline(f.ctx, "a", "a")
		assert.ErrorIs(t, err, errs.Cycle)
	})
	t.Run("rejects an unapproved upline", func(t *testing.T) {
		f := newFixture(t)
		f.addDistributor("pending", "", func(d *entity.Distributor) { d.Status = entity.StatusPending })
		f.addDistributor("crew", "")

		_, err := f.uc.AssignUpline(f.ctx, "crew", "pending")
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.addDistributor("captain", "")

		_, err := f.uc.AssignUpline(f.ctx, "missing", "captain")
		assert.ErrorIs(t, err, errs.NotFound)
		_, err = f.uc.AssignUpline(f.ctx, "captain", "missing")
		assert.ErrorIs(t, err, errs.NotFound)
	})
}

func TestDeleteDistributor(t *testing.T) {
	t.Run("detaches children before removing the captain", func(t *testing.T) {
		f := newFixture(t)
		f.addDistributor("captain", "")
		f.addDistributor("crew-1", "captain")
		f.addDistributor("crew-2", "captain")

		result, err := f.uc.DeleteDistributor(f.ctx, "captain")
		require.NoError(t, err)
		assert.True(t, result.Success)

		_, err = f.repo.GetDistributorByID(f.ctx, "captain")
		assert.ErrorIs(t, err, errs.NotFound)
		assert.False(t, f.get("crew-1").HasUpline())
		assert.False(t, f.get("crew-2").HasUpline())
	})
	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.DeleteDistributor(f.ctx, "missing")
		assert.ErrorIs(t, err, errs.NotFound)
	})
}

func TestClearUplineForChildren(t *testing.T) {
	f := newFixture(t)
	f.addDistributor("captain", "")
	f.addDistributor("crew-1", "captain")
	f.addDistributor("crew-2", "captain")
	f.addDistributor("other", "")

	result, err := f.uc.ClearUplineForChildren(f.ctx, "captain")
	require.NoError(t, err)
	assert.Equal(t, "cleared upline of 2 distributor(s)", result.Message)
	assert.False(t, f.get("crew-1").HasUpline())

	// safe on leaves and unknown ids
	_, err = f.uc.ClearUplineForChildren(f.ctx, "other")
	assert.NoError(t, err)
	_, err = f.uc.ClearUplineForChildren(f.ctx, "missing")
	assert.NoError(t, err)
}
