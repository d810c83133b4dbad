package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradeloop",
	Short: "A concurrent multi-asset trading-loop simulator",
	Long: `Tradeloop runs a decoupled trading loop over synthetic market data.

Each configured asset gets its own market feed and trader goroutine,
strategy evaluation runs on a bounded compute pool, and a single order
engine simulates broker fills against one shared portfolio. Channel
capacities are fixed, so a slow stage backpressures its producers
instead of dropping data.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
