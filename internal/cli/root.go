// Package cli implements the biolens command tree.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/abfi/biolens/internal/config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the biolens CLI. It wires up
// configuration, logging, and the subcommand groups (sentiment, prices,
// policy, carbon, config, dashboard).
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "biolens",
		Short:   "ABFI market-intelligence terminal",
		Long:    "biolens: bioenergy market sentiment, prices, and policy intelligence from the ABFI API",
		Version: ver,
		Example: rootCmdExample,
		// Runtime failures are reported as errors, not usage mistakes.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if initErr := config.InitLogger(cfg.Logging.Level, cfg.Logging.File); initErr != nil {
				return initErr
			}
			logger = config.GetLogger().With().Str("component", "cli").Logger()
			logger.Debug().
				Str("command", cmd.Name()).
				Str("base_url", cfg.ResolvedBaseURL()).
				Msg("command started")
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			config.CloseLogFile()
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("api-url", "", "override the API base URL")
	cmd.PersistentFlags().
		Bool("skip-version-check", false, "skip API version compatibility check")

	cmd.AddCommand(
		newSentimentCmd(), newPricesCmd(), newPolicyCmd(),
		newCarbonCmd(), newConfigCmd(), newDashboardCmd(), newStatusCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Launch the interactive dashboard
  biolens dashboard

  # Current price KPIs for all tracked commodities
  biolens prices kpis

  # Candlestick history and technicals for a commodity
  biolens prices ohlc woodchips --region AUS

  # Today's lending sentiment index
  biolens sentiment index

  # Estimate annual carbon revenue for a project
  biolens carbon calc --output-tonnes 50000 --emission-factor 0.8 --carbon-price 35

  # Initialize configuration
  biolens config init`
