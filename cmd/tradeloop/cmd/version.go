package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradeloop CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tradeloop version %s\n", version)
		fmt.Println("A concurrent multi-asset trading-loop simulator")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
