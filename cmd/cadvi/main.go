// cadvi is a market scanner for crypto assets: it scores a listings
// snapshot with a multi-factor model, flags wash-trading suspects,
// sizes positions, and stress-tests the resulting candidate list with
// probabilistic trade simulations.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagLogLevel string
	flagNoColor  bool
)

var rootCmd = &cobra.Command{
	Use:   "cadvi",
	Short: "Crypto market advisor: scoring, wash detection, trade simulation",
	Long: `cadvi scores a market snapshot with a weighted multi-factor model,
screens out wash-trading suspects, sizes positions with a fractional
Kelly rule, and estimates strategy performance with a probabilistic
backtest and Monte Carlo driver.

All simulation output is hypothetical. Nothing here is financial advice.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(flagLogLevel, flagNoColor)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func setupLogging(level string, noColor bool) error {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    noColor,
		TimeFormat: time.RFC3339,
	})
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "path to YAML config file (defaults built in)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newBacktestCmd())
	rootCmd.AddCommand(newMonteCarloCmd())
	rootCmd.AddCommand(newServeCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
