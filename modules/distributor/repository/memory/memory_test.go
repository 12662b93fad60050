package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDistributor(id string, wallet string, code string) entity.Distributor {
	return entity.Distributor{
		ID:               id,
		WalletAddress:    wallet,
		ReferralCode:     code,
		Role:             entity.RoleDistributor,
		RoleType:         entity.RoleTypeCaptain,
		Status:           entity.StatusApproved,
		CreatedAt:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		RegistrationDate: "2024-01-01",
	}
}

func TestTransaction(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	require.NoError(t, repo.CreateDistributor(ctx, newDistributor("a", "0xa", "AAAA")))

	t.Run("rollback discards writes", func(t *testing.T) {
		tx, err := repo.BeginDistributorTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.IncrementPoints(ctx, datagateway.IncrementPointsParams{ID: "a", PersonalDelta: 10}))

		inTx, err := tx.GetDistributorByID(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, int64(10), inTx.TotalPoints)

		require.NoError(t, tx.Rollback(ctx))
		d, err := repo.GetDistributorByID(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, int64(0), d.TotalPoints)
	})

	t.Run("commit persists writes", func(t *testing.T) {
		tx, err := repo.BeginDistributorTx(ctx)
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, tx.Rollback(ctx))
		}()
		require.NoError(t, tx.IncrementPoints(ctx, datagateway.IncrementPointsParams{ID: "a", PersonalDelta: 10, CommissionDelta: 5}))
		require.NoError(t, tx.Commit(ctx))

		d, err := repo.GetDistributorByID(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, int64(10), d.PersonalPoints)
		assert.Equal(t, int64(5), d.CommissionPoints)
		assert.Equal(t, int64(15), d.TotalPoints)
	})

	t.Run("nested begin", func(t *testing.T) {
		tx, err := repo.BeginDistributorTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)
		_, err = tx.BeginDistributorTx(ctx)
		assert.ErrorIs(t, err, ErrTxAlreadyExists)
	})
}

func TestUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	require.NoError(t, repo.CreateDistributor(ctx, newDistributor("a", "0xa", "AAAA")))

	assert.ErrorIs(t, repo.CreateDistributor(ctx, newDistributor("b", "0xa", "BBBB")), errs.Conflict)
	assert.ErrorIs(t, repo.CreateDistributor(ctx, newDistributor("b", "0xb", "AAAA")), errs.Conflict)
	assert.NoError(t, repo.CreateDistributor(ctx, newDistributor("b", "0xb", "BBBB")))

	d, err := repo.GetDistributorByReferralCode(ctx, "BBBB")
	require.NoError(t, err)
	assert.Equal(t, "b", d.ID)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	_, err := repo.GetDistributorByID(ctx, "missing")
	assert.ErrorIs(t, err, errs.NotFound)
	assert.ErrorIs(t, repo.IncrementPoints(ctx, datagateway.IncrementPointsParams{ID: "missing", PersonalDelta: 1}), errs.NotFound)
	assert.ErrorIs(t, repo.DeleteDistributor(ctx, "missing"), errs.NotFound)
	_, err = repo.GetReferredUserByAddress(ctx, "0xmissing")
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestIncrementPointsOverflow(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	require.NoError(t, repo.CreateDistributor(ctx, newDistributor("a", "0xa", "AAAA")))
	require.NoError(t, repo.IncrementPoints(ctx, datagateway.IncrementPointsParams{ID: "a", PersonalDelta: math.MaxInt64 - 10}))

	err := repo.IncrementPoints(ctx, datagateway.IncrementPointsParams{ID: "a", CommissionDelta: 11})
	assert.ErrorIs(t, err, errs.InvalidArgument)

	d, err := repo.GetDistributorByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64-10), d.TotalPoints)
	assert.Equal(t, int64(0), d.CommissionPoints)
}

func TestSnapshotCandidates(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	approved := newDistributor("a", "0xa", "AAAA")
	pending := newDistributor("p", "0xp", "PPPP")
	pending.Status = entity.StatusPending
	require.NoError(t, repo.CreateDistributor(ctx, approved))
	require.NoError(t, repo.CreateDistributor(ctx, pending))

	for _, u := range []entity.ReferredUser{
		{ID: "u1", Address: "0x1", DistributorID: "a", WusdBalance: decimal.NewFromInt(100)},
		{ID: "u2", Address: "0x2", DistributorID: "a", WusdBalance: decimal.Zero},
		{ID: "u3", Address: "0x3", DistributorID: "p", WusdBalance: decimal.NewFromInt(100)},
	} {
		require.NoError(t, repo.CreateReferredUser(ctx, u))
	}

	candidates, err := repo.GetSnapshotCandidates(ctx, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "u1", candidates[0].ID)

	require.NoError(t, repo.DeleteDistributor(ctx, "a"))
	users, err := repo.GetReferredUsersByDistributor(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, users)
}
