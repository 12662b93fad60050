package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
)

// AddPoints credits amount points of the given kind to a distributor in its own transaction.
// A zero amount is a no-op.
func (u *Usecase) AddPoints(ctx context.Context, distributorID string, amount int64, kind entity.PointKind) (Result, error) {
	if amount == 0 {
		return succeed("nothing to add"), nil
	}
	if err := validateCredit(distributorID, amount, kind); err != nil {
		return Result{}, errors.WithStack(err)
	}
	err := u.withTx(ctx, func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) error {
		return addPoints(ctx, dg, distributorID, amount, kind)
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to add points")
	}
	u.metrics.ObservePointsAwarded(string(kind), amount)
	return succeed("added %d %s points", amount, kind), nil
}

func validateCredit(distributorID string, amount int64, kind entity.PointKind) error {
	var errList []error
	if distributorID == "" {
		errList = append(errList, errors.New("distributor id is required"))
	}
	if amount < 0 {
		errList = append(errList, errors.Newf("amount must not be negative, got %d", amount))
	}
	if !kind.IsValid() {
		errList = append(errList, errors.Newf("unknown point kind %q", kind))
	}
	if err := errors.Join(errList...); err != nil {
		return errs.WithPublicMessage(errors.Mark(err, errs.InvalidArgument), "validation error")
	}
	return nil
}

// addPoints is one atomic increment inside the caller's transaction.
func addPoints(ctx context.Context, dg datagateway.DistributorWriterDataGateway, distributorID string, amount int64, kind entity.PointKind) error {
	if amount == 0 {
		return nil
	}
	if amount < 0 {
		return errors.Wrapf(errs.InvalidArgument, "negative amount %d", amount)
	}
	arg := datagateway.IncrementPointsParams{ID: distributorID}
	switch kind {
	case entity.PointKindPersonal:
		arg.PersonalDelta = amount
	case entity.PointKindCommission:
		arg.CommissionDelta = amount
	default:
		return errors.Wrapf(errs.InvalidArgument, "unknown point kind %q", kind)
	}
	if err := dg.IncrementPoints(ctx, arg); err != nil {
		return errors.Wrapf(err, "failed to credit %d %s points to %s", amount, kind, distributorID)
	}
	return nil
}
