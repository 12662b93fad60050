package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/gaze-network/distributor-network/modules/distributor/repository/postgres/gen"
	"github.com/shopspring/decimal"
)

func (r *Repository) CreateReferredUser(ctx context.Context, arg entity.ReferredUser) error {
	if err := arg.Validate(); err != nil {
		return errors.Mark(err, errs.InvalidArgument)
	}
	if err := r.queries.CreateReferredUser(ctx, mapReferredUserTypeToParams(arg)); err != nil {
		return wrapError(err, "failed to create referred user")
	}
	return nil
}

func (r *Repository) GetReferredUserByAddress(ctx context.Context, address string) (*entity.ReferredUser, error) {
	model, err := r.queries.GetReferredUserByAddress(ctx, address)
	if err != nil {
		return nil, wrapError(err, "failed to get referred user by address")
	}
	return mapReferredUserModelToType(model)
}

func (r *Repository) GetReferredUsersByDistributor(ctx context.Context, distributorID string) ([]entity.ReferredUser, error) {
	models, err := r.queries.GetReferredUsersByDistributor(ctx, distributorID)
	if err != nil {
		return nil, wrapError(err, "failed to get referred users by distributor")
	}
	return mapReferredUserModelsToTypes(models)
}

func (r *Repository) GetSnapshotCandidates(ctx context.Context, minBalance decimal.Decimal) ([]entity.ReferredUser, error) {
	models, err := r.queries.GetSnapshotCandidates(ctx, numericFromDecimal(minBalance))
	if err != nil {
		return nil, wrapError(err, "failed to get snapshot candidates")
	}
	return mapReferredUserModelsToTypes(models)
}

func (r *Repository) UpdateReferredUserBalance(ctx context.Context, arg datagateway.UpdateReferredUserBalanceParams) error {
	affected, err := r.queries.UpdateReferredUserBalance(ctx, gen.UpdateReferredUserBalanceParams{
		Address:     arg.Address,
		WusdBalance: numericFromDecimal(arg.WusdBalance),
	})
	return expectAffected(affected, err, "failed to update referred user balance")
}

func (r *Repository) IncrementReferredUserPointsEarned(ctx context.Context, id string, delta int64) error {
	affected, err := r.queries.IncrementReferredUserPointsEarned(ctx, gen.IncrementReferredUserPointsEarnedParams{
		ID:           id,
		PointsEarned: delta,
	})
	return expectAffected(affected, err, "failed to increment referred user points earned")
}
