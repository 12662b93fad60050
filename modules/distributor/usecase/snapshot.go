package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/metrics"
	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/gaze-network/distributor-network/pkg/logger/slogx"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// snapshotAttempts is the number of tries per referred user when the transaction times out.
const snapshotAttempts = 2

type SnapshotResult struct {
	Result
	ProcessedCount int   `json:"processedCount"`
	SkippedCount   int   `json:"skippedCount"`
	FailedCount    int   `json:"failedCount"`
	PointsAwarded  int64 `json:"pointsAwarded"`
}

type snapshotOutcome int

const (
	snapshotProcessed snapshotOutcome = iota
	snapshotSkipped
	snapshotFailed
)

// RunDailySnapshot awards every referred user's balance-derived points to its approved referrer and
// pays upline commission. Each user commits independently, so one failure never aborts the batch.
// Running it twice awards the points twice.
func (u *Usecase) RunDailySnapshot(ctx context.Context) (*SnapshotResult, error) {
	start := time.Now()
	ctx = logger.WithContext(ctx, slog.String("event", "daily_snapshot"))

	result, err := u.runDailySnapshot(ctx)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	u.metrics.ObserveSnapshotRun(outcome, time.Since(start))
	if err != nil {
		logger.ErrorContext(ctx, "daily snapshot failed", slogx.Error(err))
		return result, errors.WithStack(err)
	}
	logger.InfoContext(ctx, "daily snapshot completed",
		slog.Int("processed", result.ProcessedCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("failed", result.FailedCount),
		slog.Int64("pointsAwarded", result.PointsAwarded),
		slog.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (u *Usecase) runDailySnapshot(ctx context.Context) (*SnapshotResult, error) {
	// candidates first: every referrer they name is then present in the distributor read below
	candidates, err := u.distributorDg.GetSnapshotCandidates(ctx, decimal.Zero)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load referred users")
	}
	distributors, err := u.distributorDg.GetDistributors(ctx, datagateway.GetDistributorsParams{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load distributors")
	}
	uplines := newSnapshotUplines(distributors)

	var (
		mu     sync.Mutex
		result SnapshotResult
	)
	var g errgroup.Group
	g.SetLimit(max(u.snapshot.Concurrency, 1))
	for _, user := range candidates {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcome, awarded := u.processSnapshotUser(ctx, uplines, user)
			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case snapshotProcessed:
				result.ProcessedCount++
				result.PointsAwarded += awarded
				u.metrics.ObserveSnapshotUser(metrics.OutcomeSuccess)
			case snapshotSkipped:
				result.SkippedCount++
				u.metrics.ObserveSnapshotUser(metrics.OutcomeSkipped)
			case snapshotFailed:
				result.FailedCount++
				u.metrics.ObserveSnapshotUser(metrics.OutcomeFailure)
			}
			return nil
		})
	}
	_ = g.Wait()

	result.Result = succeed("processed %d of %d referred users (%d skipped, %d failed)",
		result.ProcessedCount, len(candidates), result.SkippedCount, result.FailedCount)
	if err := ctx.Err(); err != nil {
		result.Success = false
		return &result, errors.Wrap(err, "daily snapshot interrupted")
	}
	return &result, nil
}

// processSnapshotUser awards one referred user in its own transaction and returns the points awarded
// to the direct referrer (commissions excluded).
func (u *Usecase) processSnapshotUser(ctx context.Context, uplines snapshotUplines, user entity.ReferredUser) (snapshotOutcome, int64) {
	dailyPoints, err := entity.FloorPoints(user.WusdBalance, u.points.WusdToPointsRate)
	if err != nil {
		u.metrics.ObservePropagation(SourceSnapshot, err)
		logger.ErrorContext(ctx, "referred user balance exceeds the points range", slogx.Error(err),
			slog.String("referredUserId", user.ID),
			slog.String("distributorId", user.DistributorID),
		)
		return snapshotFailed, 0
	}
	if dailyPoints <= 0 {
		return snapshotSkipped, 0
	}
	arg := PropagateParams{
		SourceID:   user.DistributorID,
		BaseAmount: dailyPoints,
		Rate:       u.points.UplineCommissionRate,
		MaxLevels:  u.points.MaxCommissionLevels,
	}

	var credits []entity.Credit
	for attempt := 1; attempt <= snapshotAttempts; attempt++ {
		err = u.withTx(ctx, func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) (err error) {
			credits, err = propagate(ctx, dg, uplines.resolver(dg), arg)
			if err != nil {
				return errors.WithStack(err)
			}
			if err := dg.IncrementReferredUserPointsEarned(ctx, user.ID, dailyPoints); err != nil {
				return errors.Wrap(err, "failed to update points earned")
			}
			return nil
		})
		if err == nil || !errors.Is(err, errs.Timeout) || ctx.Err() != nil {
			break
		}
		logger.WarnContext(ctx, "snapshot transaction timed out, retrying",
			slog.String("referredUserId", user.ID),
			slog.Int("attempt", attempt),
		)
	}
	u.metrics.ObservePropagation(SourceSnapshot, err)
	if err != nil {
		logger.ErrorContext(ctx, "failed to process referred user", slogx.Error(err),
			slog.String("referredUserId", user.ID),
			slog.String("distributorId", user.DistributorID),
		)
		return snapshotFailed, 0
	}
	u.observeCredits(credits)
	return snapshotProcessed, dailyPoints
}

// snapshotUplines caches the upline of every distributor as loaded at batch start.
type snapshotUplines map[string]string

func newSnapshotUplines(distributors []entity.Distributor) snapshotUplines {
	uplines := make(snapshotUplines, len(distributors))
	for _, d := range distributors {
		uplines[d.ID] = d.UplineID
	}
	return uplines
}

// resolver reads from the cache and falls back to dg for distributors registered after it was loaded.
func (s snapshotUplines) resolver(dg datagateway.DistributorReaderDataGateway) uplineResolver {
	fallback := txUplineResolver(dg)
	return func(ctx context.Context, distributorID string) (string, error) {
		if upline, ok := s[distributorID]; ok {
			return upline, nil
		}
		return fallback(ctx, distributorID)
	}
}
