package usecase

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddReferredUser attaches a wallet to the distributor that referred it.
func (u *Usecase) AddReferredUser(ctx context.Context, distributorID string, address string) (*entity.ReferredUser, error) {
	normalized, err := entity.NormalizeWalletAddress(address)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	now := u.now().UTC()
	user := entity.ReferredUser{
		ID:            uuid.NewString(),
		Address:       normalized,
		DistributorID: distributorID,
		WusdBalance:   decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = u.withTx(ctx, func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) error {
		if err := requireApproved(ctx, dg, distributorID); err != nil {
			return errors.WithStack(err)
		}
		if _, err := dg.GetReferredUserByAddress(ctx, normalized); err == nil {
			return errs.NewPublicError(errs.Conflict, "referred user already exists")
		} else if !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "failed to check referred user")
		}
		return errors.WithStack(dg.CreateReferredUser(ctx, user))
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to add referred user")
	}
	logger.InfoContext(ctx, "added referred user",
		slog.String("event", "referred_user_added"),
		slog.String("distributorId", distributorID),
		slog.String("referredUserId", user.ID),
	)
	return &user, nil
}

// UpdateReferredUserBalance records the latest wUSD balance reported for a referred wallet.
func (u *Usecase) UpdateReferredUserBalance(ctx context.Context, address string, balance decimal.Decimal) (*entity.ReferredUser, error) {
	normalized, err := entity.NormalizeWalletAddress(address)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if balance.IsNegative() {
		return nil, errs.NewPublicError(errs.InvalidArgument, "balance must not be negative")
	}
	if _, err := entity.FloorPoints(balance, u.points.WusdToPointsRate); err != nil {
		return nil, errs.NewPublicError(errs.InvalidArgument, "balance exceeds the supported points range")
	}
	err = u.distributorDg.UpdateReferredUserBalance(ctx, datagateway.UpdateReferredUserBalanceParams{
		Address:     normalized,
		WusdBalance: balance,
	})
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errs.NewPublicError(errs.NotFound, "referred user not found")
		}
		return nil, errors.Wrap(err, "failed to update referred user balance")
	}
	user, err := u.distributorDg.GetReferredUserByAddress(ctx, normalized)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get referred user")
	}
	return user, nil
}

// ListReferredUsers returns the referred users of a distributor.
func (u *Usecase) ListReferredUsers(ctx context.Context, distributorID string) ([]entity.ReferredUser, error) {
	users, err := u.distributorDg.GetReferredUsersByDistributor(ctx, distributorID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get referred users")
	}
	return users, nil
}
