// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	// ModeTransfer sends native SOL transfers as placeholder trades.
	ModeTransfer = "transfer"
	// ModeJupiter routes trades through Jupiter swaps.
	ModeJupiter = "jupiter"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"` // json|console
}

// Trade sizes and paces the synthetic volume. Amounts are lamports.
type Trade struct {
	Mode               string  `yaml:"mode"`
	Destination        string  `yaml:"destination"`
	TokenMint          string  `yaml:"token_mint"`
	SlippageBps        int     `yaml:"slippage_bps"`
	MinAmount          uint64  `yaml:"min_amount"`
	MaxAmount          uint64  `yaml:"max_amount"`
	MinDelaySecs       float64 `yaml:"min_delay_secs"`
	MaxDelaySecs       float64 `yaml:"max_delay_secs"`
	Count              int     `yaml:"count"`
	MinReserve         uint64  `yaml:"min_reserve"`
	Confirm            bool    `yaml:"confirm"`
	ConfirmTimeoutSecs int     `yaml:"confirm_timeout_secs"`
}

// MinDelay returns MinDelaySecs as a duration.
func (t Trade) MinDelay() time.Duration { return secs(t.MinDelaySecs) }

// MaxDelay returns MaxDelaySecs as a duration.
func (t Trade) MaxDelay() time.Duration { return secs(t.MaxDelaySecs) }

// ConfirmTimeout returns ConfirmTimeoutSecs as a duration.
func (t Trade) ConfirmTimeout() time.Duration {
	return time.Duration(t.ConfirmTimeoutSecs) * time.Second
}

func secs(s float64) time.Duration { return time.Duration(s * float64(time.Second)) }

// Paper configures dry runs against a simulated ledger and the trade journal.
type Paper struct {
	Enabled          bool   `yaml:"enabled"`
	StartingLamports uint64 `yaml:"starting_lamports"`
	FeeLamports      uint64 `yaml:"fee_lamports"`
	JournalPath      string `yaml:"journal_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App    App    `yaml:"app"`
	Dex    Dex    `yaml:"dex"`
	Wallet Wallet `yaml:"wallet"`
	Trade  Trade  `yaml:"trade"`
	Paper  Paper  `yaml:"paper"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Config {
	return Config{
		App: App{
			Name:      "volumebot",
			Env:       "devnet",
			LogLevel:  "info",
			LogFormat: "json",
		},
		Dex: Dex{
			Chain:        "solana",
			RpcURL:       "https://api.devnet.solana.com",
			Commitment:   "confirmed",
			JupiterBase:  "https://quote-api.jup.ag",
			RateLimitRPS: 5,
		},
		Wallet: Wallet{
			KeypairPath: "~/.solana/test-wallet.json",
		},
		Trade: Trade{
			Mode:               ModeTransfer,
			Destination:        "5LbmX6E15UQWA2oWUfgM9WBfak2JNLUua2xZtptBTjc5",
			TokenMint:          "5LbmX6E15UQWA2oWUfgM9WBfak2JNLUua2xZtptBTjc5",
			SlippageBps:        150,
			MinAmount:          100_000,
			MaxAmount:          500_000,
			MinDelaySecs:       15,
			MaxDelaySecs:       45,
			Count:              3,
			MinReserve:         1_000_000,
			ConfirmTimeoutSecs: 30,
		},
		Paper: Paper{
			StartingLamports: 2_000_000_000,
			FeeLamports:      5000,
		},
	}
}

// Load layers a YAML file (skipped when path is empty), a .env file and VOLUMEBOT_* environment
// variables over Defaults. The result is not validated.
func Load(path string) (*Config, error) {
	config := Defaults()
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	}
	if err := applyEnvOverrides(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	t := c.Trade
	if c.Dex.RpcURL == "" {
		err = multierr.Append(err, errors.New("dex.rpc_url must not be empty"))
	}
	if c.Dex.RateLimitRPS < 0 {
		err = multierr.Append(err, errors.New("dex.rate_limit_rps must not be negative"))
	}
	if t.Count <= 0 {
		err = multierr.Append(err, errors.New("trade.count must be positive"))
	}
	if t.MinAmount == 0 {
		err = multierr.Append(err, errors.New("trade.min_amount must be positive"))
	}
	if t.MinAmount > t.MaxAmount {
		err = multierr.Append(err, fmt.Errorf("trade.min_amount %d exceeds trade.max_amount %d", t.MinAmount, t.MaxAmount))
	}
	if t.MinDelaySecs < 0 {
		err = multierr.Append(err, errors.New("trade.min_delay_secs must not be negative"))
	}
	if t.MinDelaySecs > t.MaxDelaySecs {
		err = multierr.Append(err, fmt.Errorf("trade.min_delay_secs %g exceeds trade.max_delay_secs %g", t.MinDelaySecs, t.MaxDelaySecs))
	}
	if t.MinReserve == 0 {
		err = multierr.Append(err, errors.New("trade.min_reserve must be positive"))
	}
	if _, perr := solana.PublicKeyFromBase58(t.Destination); perr != nil {
		err = multierr.Append(err, fmt.Errorf("trade.destination: %w", perr))
	}
	switch t.Mode {
	case ModeTransfer:
	case ModeJupiter:
		if _, perr := solana.PublicKeyFromBase58(t.TokenMint); perr != nil {
			err = multierr.Append(err, fmt.Errorf("trade.token_mint: %w", perr))
		}
		if c.Dex.JupiterBase == "" {
			err = multierr.Append(err, errors.New("dex.jupiter_base must be set in jupiter mode"))
		}
		if t.SlippageBps <= 0 || t.SlippageBps > 10_000 {
			err = multierr.Append(err, fmt.Errorf("trade.slippage_bps %d out of range", t.SlippageBps))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("trade.mode %q unknown", t.Mode))
	}
	if t.Confirm && t.ConfirmTimeoutSecs <= 0 {
		err = multierr.Append(err, errors.New("trade.confirm_timeout_secs must be positive when confirm is set"))
	}
	if c.Paper.Enabled && c.Paper.StartingLamports == 0 {
		err = multierr.Append(err, errors.New("paper.starting_lamports must be positive in paper mode"))
	}
	return err
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
