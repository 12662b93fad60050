package usecase

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/gaze-network/distributor-network/pkg/logger/slogx"
)

// RecordActivity awards an activity event to a distributor and pays commission up to the configured level cap.
func (u *Usecase) RecordActivity(ctx context.Context, sourceID string, amount int64) (Result, error) {
	return u.earn(ctx, SourceActivity, PropagateParams{
		SourceID:   sourceID,
		BaseAmount: amount,
		Rate:       u.points.UplineCommissionRate,
		MaxLevels:  u.points.MaxCommissionLevels,
	})
}

// AddPointsWithCommission awards points to a distributor and pays commission to its direct upline only.
func (u *Usecase) AddPointsWithCommission(ctx context.Context, sourceID string, amount int64) (Result, error) {
	return u.earn(ctx, SourceAddPoint, PropagateParams{
		SourceID:   sourceID,
		BaseAmount: amount,
		Rate:       u.points.UplineCommissionRate,
		MaxLevels:  u.points.SingleHopLevels,
	})
}

func (u *Usecase) earn(ctx context.Context, source string, arg PropagateParams) (Result, error) {
	if err := arg.Validate(); err != nil {
		return Result{}, errors.WithStack(err)
	}
	var credits []entity.Credit
	err := u.withTx(ctx, func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) (err error) {
		if err := requireApproved(ctx, dg, arg.SourceID); err != nil {
			return errors.WithStack(err)
		}
		credits, err = propagate(ctx, dg, txUplineResolver(dg), arg)
		return err
	})
	u.metrics.ObservePropagation(source, err)
	if err != nil {
		logger.ErrorContext(ctx, "failed to propagate points", slogx.Error(err),
			slog.String("event", source),
			slog.String("distributorId", arg.SourceID),
		)
		return Result{}, errors.Wrap(err, "failed to propagate points")
	}
	u.observeCredits(credits)
	return succeed("awarded %d points to %s and %d upline(s)", arg.BaseAmount, arg.SourceID, len(credits)-1), nil
}

// AdminAddPoints grants points to a distributor. Personal grants also pay upline commission, commission grants do not.
func (u *Usecase) AdminAddPoints(ctx context.Context, targetID string, amount int64, kind entity.PointKind) (Result, error) {
	if err := validateCredit(targetID, amount, kind); err != nil {
		return Result{}, errors.WithStack(err)
	}
	arg := PropagateParams{
		SourceID:   targetID,
		BaseAmount: amount,
		Rate:       u.points.UplineCommissionRate,
		MaxLevels:  u.points.MaxCommissionLevels,
	}
	var credits []entity.Credit
	err := u.withTx(ctx, func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) error {
		if err := requireApproved(ctx, dg, targetID); err != nil {
			return errors.WithStack(err)
		}
		if err := addPoints(ctx, dg, targetID, amount, kind); err != nil {
			return errors.WithStack(err)
		}
		credits = append(credits, entity.Credit{DistributorID: targetID, Amount: amount, Kind: kind})
		if kind != entity.PointKindPersonal {
			return nil
		}
		uplineCredits, err := propagateUpline(ctx, dg, txUplineResolver(dg), arg)
		if err != nil {
			return errors.WithStack(err)
		}
		credits = append(credits, uplineCredits...)
		return nil
	})
	u.metrics.ObservePropagation(SourceAdmin, err)
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to grant points")
	}
	u.observeCredits(credits)
	logger.InfoContext(ctx, "granted points",
		slog.String("event", SourceAdmin),
		slog.String("distributorId", targetID),
		slog.Int64("amount", amount),
		slog.String("kind", string(kind)),
	)
	return succeed("granted %d %s points to %s", amount, kind, targetID), nil
}

func requireApproved(ctx context.Context, dg datagateway.DistributorReaderDataGateway, distributorID string) error {
	d, err := dg.GetDistributorByID(ctx, distributorID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError(errs.NotFound, "distributor not found")
		}
		return errors.Wrap(err, "failed to get distributor")
	}
	if !d.IsApproved() {
		return errs.NewPublicError(errs.InvalidArgument, "distributor is not approved")
	}
	return nil
}
