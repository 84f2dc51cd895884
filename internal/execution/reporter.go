package execution

import (
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/metrics"
)

// One SOL is 10^9 lamports.
const solDecimals = 9

// Summary is emitted once when the loop stops.
type Summary struct {
	Iterations int  `json:"iterations"`
	Submitted  int  `json:"submitted"`
	Skipped    int  `json:"skipped"`
	Aborted    bool `json:"aborted"`
}

// Reporter receives every externally observable event of a run.
type Reporter interface {
	Connectivity(ok bool, err error)
	Balance(iteration int, lamports uint64, err error)
	Trade(res Result)
	Wait(iteration int, d time.Duration)
	Done(sum Summary)
}

// Recorder persists trade results for later inspection.
type Recorder interface {
	Record(Result)
}

// LogReporter writes events to a zerolog logger, updates metrics and fans results out to recorders.
type LogReporter struct {
	log       zerolog.Logger
	recorders []Recorder
}

// NewLogReporter wraps a zerolog logger. Recorders receive each trade result.
func NewLogReporter(log zerolog.Logger, recorders ...Recorder) *LogReporter {
	return &LogReporter{log: log, recorders: recorders}
}

// FormatSOL renders a lamport amount as a SOL decimal string.
func FormatSOL(lamports uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -solDecimals).String()
}

func (r *LogReporter) Connectivity(ok bool, err error) {
	if !ok {
		r.log.Error().Err(err).Str("kind", string(KindOf(err))).Msg("rpc unreachable, aborting run")
		return
	}
	r.log.Info().Msg("connected to rpc")
}

func (r *LogReporter) Balance(iteration int, lamports uint64, err error) {
	if err != nil {
		r.level(KindOf(err)).Err(err).Int("iteration", iteration).Str("kind", string(KindOf(err))).Msg("balance query failed")
		return
	}
	metrics.BalanceLamports.Set(float64(lamports))
	r.log.Info().Int("iteration", iteration).Uint64("lamports", lamports).Str("sol", FormatSOL(lamports)).Msg("balance")
}

// level picks the log level for a failure: fatal kinds are errors, the rest warnings.
func (r *LogReporter) level(kind Kind) *zerolog.Event {
	if kind.Fatal() {
		return r.log.Error()
	}
	return r.log.Warn()
}

func (r *LogReporter) Trade(res Result) {
	metrics.TradesTotal.WithLabelValues(string(res.Intent.Side), res.Outcome()).Inc()
	for _, rec := range r.recorders {
		rec.Record(res)
	}
	if res.OK() {
		evt := r.log.Info()
		if res.ConfirmErr != "" {
			evt = r.level(Confirmation).Str("kind", string(Confirmation)).Str("confirm_error", res.ConfirmErr)
		}
		evt.Int("iteration", res.Iteration).
			Str("side", string(res.Intent.Side)).
			Uint64("amount", res.Intent.Amount).
			Str("sol", FormatSOL(res.Intent.Amount)).
			Str("signature", res.Signature).
			Bool("confirmed", res.Confirmed).
			Msg("trade submitted")
		return
	}
	r.level(res.Kind).
		Int("iteration", res.Iteration).
		Str("side", string(res.Intent.Side)).
		Uint64("amount", res.Intent.Amount).
		Str("sol", FormatSOL(res.Intent.Amount)).
		Str("kind", string(res.Kind)).
		Str("error", res.Err).
		Msg("trade skipped")
}

func (r *LogReporter) Wait(iteration int, d time.Duration) {
	metrics.WaitSeconds.Observe(d.Seconds())
	r.log.Info().Int("iteration", iteration).Dur("wait", d).Msg("waiting before next trade")
}

func (r *LogReporter) Done(sum Summary) {
	evt := r.log.Info()
	if sum.Aborted {
		evt = r.log.Error()
	}
	evt.Int("iterations", sum.Iterations).
		Int("submitted", sum.Submitted).
		Int("skipped", sum.Skipped).
		Bool("aborted", sum.Aborted).
		Msg("run finished")
}
