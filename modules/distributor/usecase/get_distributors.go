package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
)

// GetDistributor finds a distributor by id, wallet address or referral code and attaches its rank.
func (u *Usecase) GetDistributor(ctx context.Context, key string) (*entity.RankedDistributor, error) {
	d, err := u.findDistributor(ctx, key)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	ranks, err := u.ranks(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &entity.RankedDistributor{Distributor: *d, Rank: ranks[d.ID]}, nil
}

func (u *Usecase) findDistributor(ctx context.Context, key string) (*entity.Distributor, error) {
	if key == "" {
		return nil, errs.NewPublicError(errs.InvalidArgument, "distributor key is required")
	}
	lookups := []func() (*entity.Distributor, error){
		func() (*entity.Distributor, error) { return u.distributorDg.GetDistributorByID(ctx, key) },
		func() (*entity.Distributor, error) { return u.distributorDg.GetDistributorByReferralCode(ctx, key) },
	}
	if common.IsHexAddress(key) {
		wallet, err := entity.NormalizeWalletAddress(key)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		lookups = append([]func() (*entity.Distributor, error){
			func() (*entity.Distributor, error) { return u.distributorDg.GetDistributorByWallet(ctx, wallet) },
		}, lookups...)
	}
	for _, lookup := range lookups {
		d, err := lookup()
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, errs.NotFound) {
			return nil, errors.Wrap(err, "failed to get distributor")
		}
	}
	return nil, errs.NewPublicError(errs.NotFound, "distributor not found")
}

// ListDistributors returns distributors in registration order, filtered by status when given.
func (u *Usecase) ListDistributors(ctx context.Context, status *entity.Status) ([]entity.Distributor, error) {
	if status != nil && !status.IsValid() {
		return nil, errs.NewPublicError(errs.InvalidArgument, "unknown status")
	}
	distributors, err := u.distributorDg.GetDistributors(ctx, datagateway.GetDistributorsParams{Status: status})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get distributors")
	}
	return distributors, nil
}

// GetRankings returns the top approved distributors by total points. A non-positive limit returns all.
func (u *Usecase) GetRankings(ctx context.Context, limit int) ([]entity.RankedDistributor, error) {
	approved, err := u.approvedDistributors(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	ranked := entity.RankDistributors(approved)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// GetDownline returns the direct children of a distributor.
func (u *Usecase) GetDownline(ctx context.Context, distributorID string) ([]entity.Distributor, error) {
	if _, err := u.distributorDg.GetDistributorByID(ctx, distributorID); err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errs.NewPublicError(errs.NotFound, "distributor not found")
		}
		return nil, errors.Wrap(err, "failed to get distributor")
	}
	children, err := u.distributorDg.GetDistributorsByUpline(ctx, distributorID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get downline")
	}
	return children, nil
}

func (u *Usecase) approvedDistributors(ctx context.Context) ([]entity.Distributor, error) {
	status := entity.StatusApproved
	distributors, err := u.distributorDg.GetDistributors(ctx, datagateway.GetDistributorsParams{Status: &status})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get approved distributors")
	}
	return distributors, nil
}

func (u *Usecase) ranks(ctx context.Context) (map[string]int, error) {
	approved, err := u.approvedDistributors(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return entity.ComputeRanks(approved), nil
}
