package usecase

import (
	"fmt"
	"time"

	"github.com/gaze-network/distributor-network/modules/distributor/config"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/metrics"
)

type Usecase struct {
	distributorDg datagateway.DistributorDataGateway
	points        config.PointsConfig
	snapshot      config.SnapshotConfig
	metrics       *metrics.DistributorMetrics
	now           func() time.Time
}

type Option func(u *Usecase)

// WithMetrics reports ledger activity to m.
func WithMetrics(m *metrics.DistributorMetrics) Option {
	return func(u *Usecase) {
		u.metrics = m
	}
}

// WithClock overrides the clock used for registration timestamps.
func WithClock(now func() time.Time) Option {
	return func(u *Usecase) {
		u.now = now
	}
}

func New(distributorDg datagateway.DistributorDataGateway, conf config.Config, opts ...Option) *Usecase {
	u := &Usecase{
		distributorDg: distributorDg,
		points:        conf.Points,
		snapshot:      conf.Snapshot,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Result is the outcome of a ledger operation. A failed operation always returns a non-nil error instead.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func succeed(format string, args ...any) Result {
	return Result{
		Success: true,
		Message: fmt.Sprintf(format, args...),
	}
}
