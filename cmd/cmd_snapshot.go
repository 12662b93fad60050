package cmd

import (
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/internal/config"
	"github.com/gaze-network/distributor-network/modules/distributor"
	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/gaze-network/distributor-network/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

// NewSnapshotCommand runs the daily snapshot once, for external schedulers.
func NewSnapshotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Run the daily referral snapshot once and exit",
		RunE:  snapshotHandler,
	}
}

func snapshotHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load()
	ctx := logger.WithContext(cmd.Context(), slog.String("module", "distributor"), slog.String("job", distributor.SnapshotJobName))

	uc, cleanupFuncs, err := distributor.NewUsecase(ctx, conf.Modules.Distributor)
	if err != nil {
		return errors.Wrap(err, "can't init distributor module")
	}
	defer func() {
		for _, cleanup := range cleanupFuncs {
			if err := cleanup(ctx); err != nil {
				logger.ErrorContext(ctx, "Failed to cleanup", slogx.Error(err))
			}
		}
	}()

	startAt := time.Now()
	result, err := uc.RunDailySnapshot(ctx)
	if err != nil {
		return errors.Wrap(err, "daily snapshot failed")
	}
	logger.InfoContext(ctx, "Daily snapshot finished",
		slog.Int("processed", result.ProcessedCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("failed", result.FailedCount),
		slog.Int64("points_awarded", result.PointsAwarded),
		slogx.Duration("duration", time.Since(startAt)),
	)
	if result.FailedCount > 0 {
		return errors.Errorf("%d referred users failed", result.FailedCount)
	}
	return nil
}
