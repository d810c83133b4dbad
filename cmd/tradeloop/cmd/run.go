package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tradeloop/config"
	"tradeloop/engine"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the trading loop from a config file",
	Long: `Start the trading loop using settings from a configuration file.

The config file sizes the compute pool and channel buffers, tunes the
simulated fill latency and slippage, selects the journal backend, and
lists the assets with their candle cadence and strategy.

The loop runs until interrupted (Ctrl-C or SIGTERM), then drains: the
feeds stop, the traders finish their queued candles, and every accepted
order fills before the process exits.

Example:
  tradeloop run --config simulation.yaml`,
	RunE: runRun,
}

var (
	runConfigPath string
	runLogLevel   string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	runCmd.MarkFlagRequired("config")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(runLogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	eng, err := engine.New(cfg, log)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	fmt.Printf("Starting trading loop (run %s)\n", eng.ID())
	fmt.Printf("  Account: %s (Balance: $%.2f %s)\n", cfg.Account.ID, cfg.Account.Balance, cfg.Account.Currency)
	fmt.Printf("  Pool: %d workers, buffers: %d market / %d order\n",
		cfg.Engine.PoolSize, cfg.Engine.MarketBuffer, cfg.Engine.OrderBuffer)
	for _, a := range cfg.Assets {
		fmt.Printf("  Asset: %s every %s, %s x %g\n", a.ID, a.Cadence, a.Strategy.Name, a.Quantity)
	}
	fmt.Println("\nPress Ctrl-C to stop.")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := eng.Run(ctx); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	cash, positions := eng.Portfolio().Snapshot()
	fmt.Printf("\nFinal state:\n")
	fmt.Printf("  Cash: $%.2f\n", cash)
	for _, pos := range positions {
		fmt.Printf("  %s: %g @ %.2f\n", pos.Asset, pos.Quantity, pos.AvgPrice)
	}
	return nil
}
