package config

import (
	"time"

	"github.com/gaze-network/distributor-network/internal/postgres"
	"github.com/shopspring/decimal"
)

type Config struct {
	// Storage selects the ledger store: "postgres" (default) or "memory".
	Storage  string          `mapstructure:"storage"`
	Postgres postgres.Config `mapstructure:"postgres"`
	Points   PointsConfig    `mapstructure:"points"`
	Snapshot SnapshotConfig  `mapstructure:"snapshot"`
}

type PointsConfig struct {
	WusdToPointsRate     decimal.Decimal `mapstructure:"wusd_to_points_rate"`
	UplineCommissionRate decimal.Decimal `mapstructure:"upline_commission_rate"`
	MaxCommissionLevels  int             `mapstructure:"max_commission_levels"`

	// SingleHopLevels is the level cap of the add-points API.
	SingleHopLevels int `mapstructure:"single_hop_levels"`
}

type SnapshotConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// RunAt is the UTC time of day ("15:04") the daily snapshot fires. Ignored when Interval is set.
	RunAt    string        `mapstructure:"run_at"`
	Interval time.Duration `mapstructure:"interval"`

	// Concurrency is the number of referred users processed in parallel.
	Concurrency int `mapstructure:"concurrency"`

	// TxTimeout bounds every ledger transaction, in the batch and on single events.
	TxTimeout time.Duration `mapstructure:"tx_timeout"`
}

func DefaultPointsConfig() PointsConfig {
	return PointsConfig{
		WusdToPointsRate:     decimal.NewFromInt(1),
		UplineCommissionRate: decimal.RequireFromString("0.10"),
		MaxCommissionLevels:  5,
		SingleHopLevels:      1,
	}
}

func DefaultSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{
		Enabled:     true,
		RunAt:       "00:00",
		Concurrency: 4,
		TxTimeout:   10 * time.Second,
	}
}
