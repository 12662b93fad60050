package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/gaze-network/distributor-network/modules/distributor/repository/postgres/gen"
	"github.com/jackc/pgx/v5/pgtype"
)

func (r *Repository) GetDistributorByID(ctx context.Context, id string) (*entity.Distributor, error) {
	model, err := r.queries.GetDistributorByID(ctx, id)
	if err != nil {
		return nil, wrapError(err, "failed to get distributor by id")
	}
	return mapDistributorModelToType(model)
}

func (r *Repository) GetDistributorByWallet(ctx context.Context, walletAddress string) (*entity.Distributor, error) {
	model, err := r.queries.GetDistributorByWallet(ctx, walletAddress)
	if err != nil {
		return nil, wrapError(err, "failed to get distributor by wallet")
	}
	return mapDistributorModelToType(model)
}

func (r *Repository) GetDistributorByReferralCode(ctx context.Context, referralCode string) (*entity.Distributor, error) {
	model, err := r.queries.GetDistributorByReferralCode(ctx, referralCode)
	if err != nil {
		return nil, wrapError(err, "failed to get distributor by referral code")
	}
	return mapDistributorModelToType(model)
}

func (r *Repository) GetDistributors(ctx context.Context, arg datagateway.GetDistributorsParams) ([]entity.Distributor, error) {
	var status pgtype.Text
	if arg.Status != nil {
		status = pgtype.Text{String: string(*arg.Status), Valid: true}
	}
	models, err := r.queries.GetDistributors(ctx, status)
	if err != nil {
		return nil, wrapError(err, "failed to get distributors")
	}
	return mapDistributorModelsToTypes(models)
}

func (r *Repository) GetDistributorsByUpline(ctx context.Context, uplineID string) ([]entity.Distributor, error) {
	models, err := r.queries.GetDistributorsByUpline(ctx, textFromString(uplineID))
	if err != nil {
		return nil, wrapError(err, "failed to get distributors by upline")
	}
	return mapDistributorModelsToTypes(models)
}

func (r *Repository) CreateDistributor(ctx context.Context, arg entity.Distributor) error {
	if err := arg.Validate(); err != nil {
		return errors.Mark(err, errs.InvalidArgument)
	}
	if err := r.queries.CreateDistributor(ctx, mapDistributorTypeToParams(arg)); err != nil {
		return wrapError(err, "failed to create distributor")
	}
	return nil
}

func (r *Repository) UpdateDistributorStatus(ctx context.Context, id string, status entity.Status) error {
	affected, err := r.queries.UpdateDistributorStatus(ctx, gen.UpdateDistributorStatusParams{
		ID:     id,
		Status: string(status),
	})
	return expectAffected(affected, err, "failed to update distributor status")
}

func (r *Repository) IncrementPoints(ctx context.Context, arg datagateway.IncrementPointsParams) error {
	affected, err := r.queries.IncrementPoints(ctx, gen.IncrementPointsParams{
		PersonalDelta:   arg.PersonalDelta,
		CommissionDelta: arg.CommissionDelta,
		ID:              arg.ID,
	})
	return expectAffected(affected, err, "failed to increment points")
}

func (r *Repository) LockReferralGraph(ctx context.Context) error {
	if err := r.queries.LockReferralGraph(ctx); err != nil {
		return wrapError(err, "failed to lock referral graph")
	}
	return nil
}

func (r *Repository) UpdateUpline(ctx context.Context, id string, uplineID string) error {
	affected, err := r.queries.UpdateUpline(ctx, gen.UpdateUplineParams{
		ID:                  id,
		UplineDistributorID: textFromString(uplineID),
	})
	return expectAffected(affected, err, "failed to update upline")
}

func (r *Repository) ClearUplineForChildren(ctx context.Context, id string) (int64, error) {
	affected, err := r.queries.ClearUplineForChildren(ctx, textFromString(id))
	if err != nil {
		return 0, wrapError(err, "failed to clear upline for children")
	}
	return affected, nil
}

func (r *Repository) DeleteDistributor(ctx context.Context, id string) error {
	affected, err := r.queries.DeleteDistributor(ctx, id)
	return expectAffected(affected, err, "failed to delete distributor")
}
