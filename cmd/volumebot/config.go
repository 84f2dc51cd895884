package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/config"
	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/execution"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or scaffold configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration after defaults and env overrides",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				printSummary(cfg)
				if err := cfg.Validate(); err != nil {
					fmt.Printf("\nconfig is invalid:\n%v\n", err)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "init <path>",
			Short: "Write the default configuration to a YAML file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := config.Defaults()
				if err := config.Save(args[0], &cfg); err != nil {
					return err
				}
				fmt.Println("config saved to", args[0])
				return nil
			},
		},
	)
	return cmd
}

func printSummary(cfg *config.Config) {
	t := cfg.Trade
	fmt.Println("--- Configuration Summary ---")
	fmt.Printf("RPC: %s (%s, %.1f req/s)\n", cfg.Dex.RpcURL, cfg.Dex.Commitment, cfg.Dex.RateLimitRPS)
	fmt.Printf("Wallet: %s\n", cfg.Wallet.KeypairPath)
	fmt.Printf("Mode: %s -> %s\n", t.Mode, t.Destination)
	fmt.Printf("Trades: %d\n", t.Count)
	fmt.Printf("Amount: %s - %s SOL\n", execution.FormatSOL(t.MinAmount), execution.FormatSOL(t.MaxAmount))
	fmt.Printf("Delay: %s - %s\n", t.MinDelay(), t.MaxDelay())
	fmt.Printf("Reserve: %s SOL\n", execution.FormatSOL(t.MinReserve))
	fmt.Printf("Paper: %v\n", cfg.Paper.Enabled)
}
