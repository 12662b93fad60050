package distributor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/core"
	"github.com/gaze-network/distributor-network/core/scheduler"
	"github.com/gaze-network/distributor-network/internal/config"
	"github.com/gaze-network/distributor-network/internal/postgres"
	"github.com/gaze-network/distributor-network/modules/distributor/api/httphandler"
	distributorconfig "github.com/gaze-network/distributor-network/modules/distributor/config"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/metrics"
	"github.com/gaze-network/distributor-network/modules/distributor/repository/memory"
	distributorpostgres "github.com/gaze-network/distributor-network/modules/distributor/repository/postgres"
	"github.com/gaze-network/distributor-network/modules/distributor/usecase"
	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/gaze-network/distributor-network/pkg/logger/slogx"
	"github.com/gaze-network/distributor-network/pkg/middleware/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
)

var _ core.Worker = (*Module)(nil)

// Module runs the distributor scheduler and owns the resources opened for it.
type Module struct {
	Usecase   *usecase.Usecase
	scheduler *scheduler.Scheduler

	cleanupFuncs []func(context.Context) error
}

// New wires the distributor module: ledger store, use cases, HTTP API and the snapshot scheduler.
func New(injector do.Injector) (*Module, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)

	uc, cleanupFuncs, err := NewUsecase(ctx, conf.Modules.Distributor)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	module := &Module{
		Usecase:      uc,
		cleanupFuncs: cleanupFuncs,
	}

	// Mount API
	{
		httpServer := do.MustInvoke[*fiber.App](injector)
		authenticator := do.MustInvoke[*auth.Authenticator](injector)
		if err := httphandler.New(uc, authenticator).Mount(httpServer); err != nil {
			return nil, errors.Wrap(err, "can't mount distributor API")
		}
		logger.InfoContext(ctx, "Mounted HTTP handler")
	}

	snapshotConf := conf.Modules.Distributor.Snapshot
	if snapshotConf.Enabled {
		module.scheduler, err = NewSnapshotScheduler(uc, snapshotConf)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return module, nil
}

// NewUsecase opens the configured ledger store and builds the use cases on top of it.
func NewUsecase(ctx context.Context, conf distributorconfig.Config) (*usecase.Usecase, []func(context.Context) error, error) {
	var (
		distributorDg datagateway.DistributorDataGateway
		cleanupFuncs  []func(context.Context) error
	)
	switch strings.ToLower(conf.Storage) {
	case "postgresql", "postgres", "pg", "":
		pg, err := postgres.NewPool(ctx, conf.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, nil, errors.Wrap(err, "Invalid Postgres configuration for distributor")
			}
			return nil, nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		distributorDg = distributorpostgres.NewRepository(pg)
	case "memory":
		logger.WarnContext(ctx, "Using in-memory ledger store, data is lost on restart")
		distributorDg = memory.NewRepository()
	default:
		return nil, nil, errors.Wrapf(errs.Unsupported, "%q storage for distributor is not supported", conf.Storage)
	}
	return usecase.New(distributorDg, conf, usecase.WithMetrics(metrics.Distributor())), cleanupFuncs, nil
}

// NewSnapshotScheduler creates the scheduler that fires the daily snapshot.
// Interval takes precedence over RunAt.
func NewSnapshotScheduler(uc *usecase.Usecase, conf distributorconfig.SnapshotConfig) (*scheduler.Scheduler, error) {
	job := scheduler.JobFunc(SnapshotJobName, func(ctx context.Context) error {
		result, err := uc.RunDailySnapshot(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if result.FailedCount > 0 {
			logger.WarnContext(ctx, "Daily snapshot finished with failures",
				slog.Int("processed", result.ProcessedCount),
				slog.Int("failed", result.FailedCount),
			)
		}
		return nil
	})
	if conf.Interval > 0 {
		s, err := scheduler.NewInterval(job, conf.Interval)
		return s, errors.Wrap(err, "invalid snapshot interval")
	}
	s, err := scheduler.NewDaily(job, conf.RunAt)
	return s, errors.Wrap(err, "invalid snapshot run at")
}

// Run blocks on the snapshot scheduler, or until ctx is done when scheduling is disabled.
func (m *Module) Run(ctx context.Context) error {
	if m.scheduler == nil {
		logger.InfoContext(ctx, "Daily snapshot scheduler is disabled")
		<-ctx.Done()
		return nil
	}
	return errors.WithStack(m.scheduler.Run(ctx))
}

// Shutdown stops the scheduler and releases the ledger store. It is called by the injector.
func (m *Module) Shutdown(ctx context.Context) error {
	var errList []error
	if m.scheduler != nil {
		if err := m.scheduler.ShutdownWithContext(ctx); err != nil {
			errList = append(errList, errors.Wrap(err, "failed to shutdown scheduler"))
		}
	}
	for _, cleanup := range m.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to cleanup distributor resources", slogx.Error(err))
			errList = append(errList, errors.WithStack(err))
		}
	}
	return errors.Join(errList...)
}
