package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	FlagConfigFile = "config-file"
	FlagPaper      = "paper"
	FlagTrades     = "trades"
	FlagLogLevel   = "log-level"
)

var (
	configPath string
	paperMode  bool
	tradeCount int
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "volumebot",
		Short: "Synthetic trading volume generator for Solana",
		Long: `Issues a fixed number of small randomized buy/sell trades from one funded wallet,
pacing them with random delays. Intended for devnet and test clusters.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, FlagConfigFile, "f", "", "Path to a YAML configuration file (defaults and env vars apply when omitted)")
	rootCmd.PersistentFlags().BoolVar(&paperMode, FlagPaper, false, "Run against a simulated ledger instead of the RPC node")
	rootCmd.PersistentFlags().StringVar(&logLevel, FlagLogLevel, "", "Override app.log_level")

	rootCmd.AddCommand(runCmd(), preflightCmd(), configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the trade loop",
		Long: `Checks connectivity once, then performs the configured number of trades.
Individual trade failures are logged and skipped; the process exits 0 once the loop ends.

Example:
  volumebot run -f ./config.yaml --trades 5
  volumebot run --paper`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&tradeCount, FlagTrades, 0, "Override trade.count")
	return cmd
}

func preflightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check connectivity and balance without trading",
		Long: `Probes the node, reads the funding balance and reports whether a trade of
trade.max_amount would clear the reserve.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreflight(cmd.Context())
		},
	}
}
