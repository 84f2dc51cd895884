package main

import (
	"context"
	"errors"
	"os"
	ossignal "os/signal"
	"syscall"

	solana "github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/config"
	dex "github.com/Vibesofdcity01/solana-volume-bot-poc/internal/dex/solana"
	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/execution"
	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/metrics"
	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/paper"
	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/preflight"
	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/risk"
	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/strategy"
	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/util"
	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/volume"
)

// ledger is the full node surface: reads for preflight, writes for submission.
type ledger interface {
	preflight.Ledger
	dex.TxLedger
}

type session struct {
	cfg    *config.Config
	log    zerolog.Logger
	owner  solana.PrivateKey
	ledger ledger
	paper  *paper.Account
}

func setup() (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if paperMode {
		cfg.Paper.Enabled = true
	}
	if tradeCount > 0 {
		cfg.Trade.Count = tradeCount
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}

	log := util.NewLoggerTo(os.Stdout, cfg.App.LogLevel, cfg.App.LogFormat).
		With().Str("run_id", uuid.NewString()).Logger()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid config")
		return nil, err
	}

	owner, err := loadCredential(cfg.Wallet)
	if err != nil {
		log.Error().Err(err).Str("kind", string(execution.KindOf(err))).Msg("load wallet")
		return nil, err
	}
	log = log.With().Str("wallet", owner.PublicKey().String()).Logger()

	s := &session{cfg: cfg, log: log, owner: owner}
	if cfg.Paper.Enabled {
		s.paper = paper.NewAccount(owner.PublicKey(), cfg.Paper.StartingLamports, cfg.Paper.FeeLamports)
		s.ledger = s.paper
		log.Info().Uint64("lamports", cfg.Paper.StartingLamports).Msg("paper ledger enabled")
	} else {
		client := dex.NewClient(cfg.Dex.RpcURL, cfg.Dex.Commitment, cfg.Dex.RateLimitRPS)
		client.SkipPreflight = cfg.Dex.SkipPreflight
		s.ledger = client
	}
	return s, nil
}

func loadCredential(w config.Wallet) (solana.PrivateKey, error) {
	if w.KeypairPath != "" {
		return dex.LoadKeypairFile(w.KeypairPath)
	}
	return dex.LoadPrivateKeyFromEnv()
}

func (s *session) assembler() dex.Assembler {
	dest := solana.MustPublicKeyFromBase58(s.cfg.Trade.Destination)
	if s.cfg.Trade.Mode == config.ModeJupiter {
		client := dex.NewJupiterClient(s.cfg.Dex.JupiterBase, s.owner.PublicKey())
		return dex.NewSwapAssembler(client, s.cfg.Trade.TokenMint, s.cfg.Trade.SlippageBps)
	}
	return dex.NewTransferAssembler(s.owner.PublicKey(), dest)
}

func runBot(parent context.Context) error {
	s, err := setup()
	if err != nil {
		return err
	}
	cfg, log := s.cfg, s.log

	if srv := metrics.Serve(cfg.App.MetricsAddr); srv != nil {
		defer srv.Close()
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}

	ctx, cancel := ossignal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	results := paper.NewLedger(cfg.Trade.Count)
	recorders := []execution.Recorder{results}
	if cfg.Paper.JournalPath != "" {
		journal, err := paper.NewJSONLRecorder(cfg.Paper.JournalPath)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.Paper.JournalPath).Msg("open journal")
			return err
		}
		defer journal.Close()
		recorders = append(recorders, journal)
	}

	sampler, err := strategy.NewRandom(strategy.Bounds{
		MinAmount: cfg.Trade.MinAmount,
		MaxAmount: cfg.Trade.MaxAmount,
		MinDelay:  cfg.Trade.MinDelay(),
		MaxDelay:  cfg.Trade.MaxDelay(),
	}, nil)
	if err != nil {
		return err
	}

	opts := volume.Options{
		Trades:    cfg.Trade.Count,
		Owner:     s.owner.PublicKey(),
		Preflight: preflight.NewChecker(s.ledger, risk.Reserve(cfg.Trade.MinReserve)),
		Sampler:   sampler,
		Submitter: dex.NewTrader(s.ledger, s.assembler(), s.owner),
		Reporter:  execution.NewLogReporter(log, recorders...),
		Log:       log,
	}
	if cfg.Trade.Confirm && !cfg.Paper.Enabled {
		opts.Confirmer = dex.NewConfirmer(dex.WSEndpoint(cfg.Dex.RpcURL, cfg.Dex.WsURL), cfg.Dex.Commitment, cfg.Trade.ConfirmTimeout())
	}

	log.Info().
		Str("mode", cfg.Trade.Mode).
		Int("trades", cfg.Trade.Count).
		Str("destination", cfg.Trade.Destination).
		Uint64("reserve", cfg.Trade.MinReserve).
		Msg("volume bot started")

	_, err = volume.NewDriver(opts).Run(ctx)
	vol := results.Volume()
	log.Info().
		Uint64("buy_lamports", vol[execution.Buy]).
		Uint64("sell_lamports", vol[execution.Sell]).
		Str("total_sol", execution.FormatSOL(vol[execution.Buy]+vol[execution.Sell])).
		Msg("volume generated")
	if s.paper != nil {
		snap := s.paper.Snapshot()
		log.Info().Uint64("balance", snap.Balance).Uint64("spent", snap.Spent).Uint64("fees", snap.Fees).Int("transactions", snap.Transactions).Msg("paper ledger")
	}
	switch {
	case errors.Is(err, volume.ErrAborted):
		// Connectivity abort is reported through the log stream only.
		return nil
	case errors.Is(err, context.Canceled):
		log.Warn().Msg("interrupted")
		return nil
	}
	return err
}

func runPreflight(parent context.Context) error {
	s, err := setup()
	if err != nil {
		return err
	}
	ctx, cancel := ossignal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	checker := preflight.NewChecker(s.ledger, risk.Reserve(s.cfg.Trade.MinReserve))
	reporter := execution.NewLogReporter(s.log)

	ok, err := checker.Connected(ctx)
	reporter.Connectivity(ok, err)
	if !ok {
		return err
	}
	balance, err := checker.Balance(ctx, s.owner.PublicKey())
	reporter.Balance(0, balance, err)
	if err != nil {
		return err
	}

	maxAmount := s.cfg.Trade.MaxAmount
	s.log.Info().
		Uint64("max_amount", maxAmount).
		Uint64("reserve", checker.Reserve()).
		Bool("sufficient", checker.Sufficient(balance, maxAmount)).
		Str("required_sol", execution.FormatSOL(maxAmount+checker.Reserve())).
		Msg("preflight complete")
	return nil
}
