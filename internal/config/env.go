package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

// applyEnvOverrides loads .env when present, then overwrites fields whose variable is set.
// RPC_ENDPOINT is honoured for compatibility with older deployments.
func applyEnvOverrides(cfg *Config) error {
	_ = godotenv.Load()

	var err error
	setStr(&cfg.Dex.RpcURL, "RPC_ENDPOINT")
	setStr(&cfg.Dex.RpcURL, "VOLUMEBOT_RPC_URL")
	setStr(&cfg.Dex.WsURL, "VOLUMEBOT_WS_URL")
	setStr(&cfg.Dex.Commitment, "VOLUMEBOT_COMMITMENT")
	setStr(&cfg.Dex.JupiterBase, "VOLUMEBOT_JUPITER_BASE")
	err = multierr.Append(err, setFloat64(&cfg.Dex.RateLimitRPS, "VOLUMEBOT_RATE_LIMIT_RPS"))

	setStr(&cfg.Wallet.KeypairPath, "VOLUMEBOT_KEYPAIR_PATH")

	setStr(&cfg.Trade.Mode, "VOLUMEBOT_MODE")
	setStr(&cfg.Trade.Destination, "VOLUMEBOT_DESTINATION")
	setStr(&cfg.Trade.TokenMint, "VOLUMEBOT_TOKEN_MINT")
	err = multierr.Append(err, setUint64(&cfg.Trade.MinAmount, "VOLUMEBOT_MIN_AMOUNT"))
	err = multierr.Append(err, setUint64(&cfg.Trade.MaxAmount, "VOLUMEBOT_MAX_AMOUNT"))
	err = multierr.Append(err, setFloat64(&cfg.Trade.MinDelaySecs, "VOLUMEBOT_MIN_DELAY_SECS"))
	err = multierr.Append(err, setFloat64(&cfg.Trade.MaxDelaySecs, "VOLUMEBOT_MAX_DELAY_SECS"))
	err = multierr.Append(err, setInt(&cfg.Trade.Count, "VOLUMEBOT_NUM_TRADES"))
	err = multierr.Append(err, setUint64(&cfg.Trade.MinReserve, "VOLUMEBOT_MIN_RESERVE"))
	err = multierr.Append(err, setBool(&cfg.Trade.Confirm, "VOLUMEBOT_CONFIRM"))

	setStr(&cfg.App.LogLevel, "VOLUMEBOT_LOG_LEVEL")
	setStr(&cfg.App.LogFormat, "VOLUMEBOT_LOG_FORMAT")
	setStr(&cfg.App.MetricsAddr, "VOLUMEBOT_METRICS_ADDR")

	err = multierr.Append(err, setBool(&cfg.Paper.Enabled, "VOLUMEBOT_PAPER"))
	setStr(&cfg.Paper.JournalPath, "VOLUMEBOT_JOURNAL_PATH")
	return err
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setUint64(dst *uint64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat64(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
