package cmd

import (
	"context"
	"log/slog"

	"github.com/gaze-network/distributor-network/internal/config"
	"github.com/gaze-network/distributor-network/pkg/automaxprocs"
	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/gaze-network/distributor-network/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:  "distributor",
	Long: `Distributor network: wallet-authenticated referral and points service`,
}

func init() {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g.  `./config.yaml`")
	flags.String("storage", "", "ledger storage, E.g. `postgres` or `memory`")

	// Bind flags to configuration
	config.BindPFlag("modules.distributor.storage", flags.Lookup("storage"))

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		// Initialize configuration
		config := config.Parse(configFile)

		// Initialize logger
		if err := logger.Init(config.Logger); err != nil {
			logger.Panic("Failed to initialize logger: %v", slogx.Error(err), slog.Any("config", config.Logger))
		}

		// Match GOMAXPROCS to the container CPU quota
		if err := automaxprocs.Init(); err != nil {
			logger.Error("Failed to set GOMAXPROCS", slogx.Error(err))
		}
	})
}

func Execute(ctx context.Context) {
	// Register sub-commands
	cmd.AddCommand(
		NewVersionCommand(),
		NewRunCommand(),
		NewSnapshotCommand(),
		NewMigrateCommand(),
		NewIssueTokenCommand(),
	)

	// Execute command
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Panic("Failed to execute root command", slogx.Error(err))
	}
}
