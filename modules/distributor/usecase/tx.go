package usecase

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/gaze-network/distributor-network/pkg/logger/slogx"
)

type txFunc func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) error

// withTx runs fn in a single transaction bounded by the configured tx timeout.
// Any error from fn rolls back every write made through dg.
func (u *Usecase) withTx(ctx context.Context, fn txFunc) (err error) {
	if u.snapshot.TxTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.snapshot.TxTimeout)
		defer cancel()
	}
	defer func() {
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, errs.Timeout) {
			err = errors.Mark(err, errs.Timeout)
		}
	}()

	tx, err := u.distributorDg.BeginDistributorTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		// rollback must run even when ctx has expired
		if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil {
			logger.ErrorContext(ctx, "failed to rollback transaction", slogx.Error(err), slog.String("event", "rollback_failed"))
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return errors.WithStack(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}
