package usecase

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/pkg/logger"
)

// AssignUpline links a distributor under an approved upline, rejecting links that would close a cycle.
func (u *Usecase) AssignUpline(ctx context.Context, distributorID string, uplineID string) (Result, error) {
	err := u.withTx(ctx, func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) error {
		return assignUpline(ctx, dg, distributorID, uplineID)
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to assign upline")
	}
	return succeed("assigned upline %s to %s", uplineID, distributorID), nil
}

func assignUpline(ctx context.Context, dg datagateway.DistributorDataGateway, distributorID string, uplineID string) error {
	if distributorID == "" || uplineID == "" {
		return errs.NewPublicError(errs.InvalidArgument, "distributor id and upline id are required")
	}
	if distributorID == uplineID {
		return errs.NewPublicError(errs.Cycle, "distributor cannot be its own upline")
	}
	if err := dg.LockReferralGraph(ctx); err != nil {
		return errors.WithStack(err)
	}
	if _, err := dg.GetDistributorByID(ctx, distributorID); err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError(errs.NotFound, "distributor not found")
		}
		return errors.Wrap(err, "failed to get distributor")
	}
	upline, err := dg.GetDistributorByID(ctx, uplineID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError(errs.NotFound, "upline not found")
		}
		return errors.Wrap(err, "failed to get upline")
	}
	if !upline.IsApproved() {
		return errs.NewPublicError(errs.InvalidArgument, "upline is not approved")
	}

	// walk the proposed upline's chain to its root
	visited := map[string]struct{}{uplineID: {}}
	for current := upline.UplineID; current != ""; {
		if current == distributorID {
			return errs.NewPublicError(errs.Cycle, "upline assignment would create a cycle")
		}
		if _, ok := visited[current]; ok {
			return errs.NewPublicError(errs.Cycle, "upline chain already contains a cycle")
		}
		visited[current] = struct{}{}

		ancestor, err := dg.GetDistributorByID(ctx, current)
		if err != nil {
			if errors.Is(err, errs.NotFound) {
				// dangling reference ends the chain
				break
			}
			return errors.Wrap(err, "failed to walk upline chain")
		}
		current = ancestor.UplineID
	}

	if err := dg.UpdateUpline(ctx, distributorID, uplineID); err != nil {
		return errors.Wrap(err, "failed to update upline")
	}
	return nil
}

// ClearUplineForChildren detaches every direct child of a distributor, making them roots.
func (u *Usecase) ClearUplineForChildren(ctx context.Context, distributorID string) (Result, error) {
	var cleared int64
	err := u.withTx(ctx, func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) (err error) {
		if err := dg.LockReferralGraph(ctx); err != nil {
			return errors.WithStack(err)
		}
		cleared, err = dg.ClearUplineForChildren(ctx, distributorID)
		return errors.WithStack(err)
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to clear upline for children")
	}
	return succeed("cleared upline of %d distributor(s)", cleared), nil
}

// DeleteDistributor detaches the distributor's children and removes it in one transaction.
// Its referred users are removed with it.
func (u *Usecase) DeleteDistributor(ctx context.Context, distributorID string) (Result, error) {
	if distributorID == "" {
		return Result{}, errs.NewPublicError(errs.InvalidArgument, "distributor id is required")
	}
	var cleared int64
	err := u.withTx(ctx, func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) (err error) {
		if err := dg.LockReferralGraph(ctx); err != nil {
			return errors.WithStack(err)
		}
		if _, err := dg.GetDistributorByID(ctx, distributorID); err != nil {
			if errors.Is(err, errs.NotFound) {
				return errs.NewPublicError(errs.NotFound, "distributor not found")
			}
			return errors.Wrap(err, "failed to get distributor")
		}
		cleared, err = dg.ClearUplineForChildren(ctx, distributorID)
		if err != nil {
			return errors.WithStack(err)
		}
		return errors.WithStack(dg.DeleteDistributor(ctx, distributorID))
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to delete distributor")
	}
	logger.InfoContext(ctx, "deleted distributor",
		slog.String("event", "distributor_deleted"),
		slog.String("distributorId", distributorID),
		slog.Int64("detachedChildren", cleared),
	)
	return succeed("deleted distributor %s", distributorID), nil
}
