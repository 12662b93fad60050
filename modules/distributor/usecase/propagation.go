package usecase

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/shopspring/decimal"
)

// Sources of point-earning events, used in logs and metrics.
const (
	SourceActivity = "activity"
	SourceAddPoint = "add_points"
	SourceAdmin    = "admin"
	SourceSnapshot = "snapshot"
)

type PropagateParams struct {
	SourceID   string
	BaseAmount int64
	// Rate is the commission rate applied to BaseAmount at every level.
	Rate      decimal.Decimal
	MaxLevels int
}

func (p PropagateParams) Validate() error {
	var errList []error
	if p.SourceID == "" {
		errList = append(errList, errors.New("source distributor id is required"))
	}
	if p.BaseAmount < 0 {
		errList = append(errList, errors.Newf("base amount must not be negative, got %d", p.BaseAmount))
	}
	if p.Rate.IsNegative() {
		errList = append(errList, errors.Newf("rate must not be negative, got %s", p.Rate))
	}
	if p.MaxLevels < 0 {
		errList = append(errList, errors.Newf("max levels must not be negative, got %d", p.MaxLevels))
	}
	if err := errors.Join(errList...); err != nil {
		return errs.WithPublicMessage(errors.Mark(err, errs.InvalidArgument), "validation error")
	}
	return nil
}

// CommissionAmount is the flat per-level commission of a base amount.
func CommissionAmount(baseAmount int64, rate decimal.Decimal) (int64, error) {
	commission, err := entity.FloorPoints(decimal.NewFromInt(baseAmount), rate)
	return commission, errors.WithStack(err)
}

// uplineResolver returns the upline of a distributor, or "" for a root.
type uplineResolver func(ctx context.Context, distributorID string) (string, error)

// txUplineResolver reads uplines through the current transaction.
func txUplineResolver(dg datagateway.DistributorReaderDataGateway) uplineResolver {
	return func(ctx context.Context, distributorID string) (string, error) {
		d, err := dg.GetDistributorByID(ctx, distributorID)
		if err != nil {
			return "", errors.Wrapf(err, "failed to get upline of %s", distributorID)
		}
		return d.UplineID, nil
	}
}

// Propagate credits BaseAmount to the source as personal points, then pays
// floor(BaseAmount * Rate) commission to each of up to MaxLevels uplines. All-or-nothing.
func (u *Usecase) Propagate(ctx context.Context, arg PropagateParams) ([]entity.Credit, error) {
	if err := arg.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	var credits []entity.Credit
	err := u.withTx(ctx, func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) (err error) {
		credits, err = propagate(ctx, dg, txUplineResolver(dg), arg)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to propagate points")
	}
	u.observeCredits(credits)
	return credits, nil
}

func propagate(ctx context.Context, dg datagateway.DistributorWriterDataGateway, resolve uplineResolver, arg PropagateParams) ([]entity.Credit, error) {
	if err := addPoints(ctx, dg, arg.SourceID, arg.BaseAmount, entity.PointKindPersonal); err != nil {
		return nil, errors.WithStack(err)
	}
	credits := []entity.Credit{{
		DistributorID: arg.SourceID,
		Amount:        arg.BaseAmount,
		Kind:          entity.PointKindPersonal,
	}}
	uplineCredits, err := propagateUpline(ctx, dg, resolve, arg)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return append(credits, uplineCredits...), nil
}

// propagateUpline walks the upline chain of the source, paying commission on the original base amount.
// The level cap bounds the walk even on a cyclic graph.
func propagateUpline(ctx context.Context, dg datagateway.DistributorWriterDataGateway, resolve uplineResolver, arg PropagateParams) ([]entity.Credit, error) {
	var credits []entity.Credit
	current := arg.SourceID
	for level := 1; level <= arg.MaxLevels; level++ {
		upline, err := resolve(ctx, current)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve upline at level %d", level)
		}
		if upline == "" {
			break
		}
		commission, err := CommissionAmount(arg.BaseAmount, arg.Rate)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid commission at level %d", level)
		}
		if commission <= 0 {
			break
		}
		if err := addPoints(ctx, dg, upline, commission, entity.PointKindCommission); err != nil {
			return nil, errors.Wrapf(err, "failed to pay commission at level %d", level)
		}
		logger.DebugContext(ctx, "paid upline commission",
			slog.String("event", "commission_paid"),
			slog.String("distributorId", upline),
			slog.Int("level", level),
			slog.Int64("amount", commission),
		)
		credits = append(credits, entity.Credit{
			DistributorID: upline,
			Amount:        commission,
			Kind:          entity.PointKindCommission,
			Level:         level,
		})
		current = upline
	}
	return credits, nil
}

func (u *Usecase) observeCredits(credits []entity.Credit) {
	for _, c := range credits {
		u.metrics.ObservePointsAwarded(string(c.Kind), c.Amount)
	}
}
