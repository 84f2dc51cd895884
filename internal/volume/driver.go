// Package volume drives the bounded sequence of synthetic trades.
package volume

import (
	"context"
	"errors"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/execution"
)

// ErrAborted is returned when the initial connectivity probe fails.
var ErrAborted = errors.New("run aborted: rpc unreachable")

// State names the step the driver is in.
type State string

const (
	Idle       State = "idle"
	Connecting State = "connecting"
	Connected  State = "connected"
	Aborted    State = "aborted"
	Preparing  State = "preparing"
	Checking   State = "checking"
	Submitting State = "submitting"
	Reporting  State = "reporting"
	Waiting    State = "waiting"
	Done       State = "done"
)

// Preflight is the connectivity and balance gate consulted by the driver.
type Preflight interface {
	Connected(ctx context.Context) (bool, error)
	Balance(ctx context.Context, owner solana.PublicKey) (uint64, error)
	Sufficient(balance, amount uint64) bool
}

// Sampler draws trade intents and inter-trade delays.
type Sampler interface {
	Next() execution.Intent
	Delay() time.Duration
}

// Submitter assembles, signs and sends one trade, returning its signature.
type Submitter interface {
	Submit(ctx context.Context, intent execution.Intent) (solana.Signature, error)
}

// Confirmer waits for a submitted signature to land.
type Confirmer interface {
	Confirm(ctx context.Context, sig solana.Signature) error
}

// SleepFunc suspends for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc backed by a timer.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Options configures a Driver.
type Options struct {
	Trades    int
	Owner     solana.PublicKey
	Preflight Preflight
	Sampler   Sampler
	Submitter Submitter
	Reporter  execution.Reporter
	// Confirmer is optional.
	Confirmer Confirmer
	// Sleep defaults to Sleep.
	Sleep SleepFunc
	// Log receives state transitions at debug level.
	Log zerolog.Logger
	Now func() time.Time
}

// Driver runs a fixed number of trade iterations one after another.
type Driver struct {
	opts  Options
	state State
}

// NewDriver builds a driver in the Idle state.
func NewDriver(opts Options) *Driver {
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Driver{opts: opts, state: Idle}
}

// State returns the current step.
func (d *Driver) State() State { return d.state }

func (d *Driver) enter(s State, iteration int) {
	d.state = s
	d.opts.Log.Debug().Str("state", string(s)).Int("iteration", iteration).Msg("state")
}

// Run executes the configured number of iterations. Per-trade failures are reported and
// never returned; ErrAborted means no trade was attempted. A cancelled ctx stops the run
// early and returns ctx.Err().
func (d *Driver) Run(ctx context.Context) (execution.Summary, error) {
	var sum execution.Summary

	d.enter(Connecting, 0)
	ok, err := d.opts.Preflight.Connected(ctx)
	d.opts.Reporter.Connectivity(ok, err)
	if !ok {
		d.enter(Aborted, 0)
		sum.Aborted = true
		d.opts.Reporter.Done(sum)
		return sum, ErrAborted
	}
	d.enter(Connected, 0)

	for i := 1; i <= d.opts.Trades; i++ {
		res := d.iterate(ctx, i)
		sum.Iterations++
		if res.OK() {
			sum.Submitted++
		} else {
			sum.Skipped++
		}

		if i == d.opts.Trades {
			break
		}
		if err := ctx.Err(); err != nil {
			d.opts.Reporter.Done(sum)
			return sum, err
		}

		d.enter(Waiting, i)
		wait := d.opts.Sampler.Delay()
		d.opts.Reporter.Wait(i, wait)
		if err := d.opts.Sleep(ctx, wait); err != nil {
			d.opts.Reporter.Done(sum)
			return sum, err
		}
	}

	d.enter(Done, sum.Iterations)
	d.opts.Reporter.Done(sum)
	return sum, nil
}

func (d *Driver) iterate(ctx context.Context, i int) execution.Result {
	d.enter(Preparing, i)
	intent := d.opts.Sampler.Next()
	res := execution.Result{Iteration: i, Intent: intent}

	d.enter(Checking, i)
	balance, err := d.opts.Preflight.Balance(ctx, d.opts.Owner)
	d.opts.Reporter.Balance(i, balance, err)
	if err != nil {
		return d.report(i, fail(res, err))
	}
	if !d.opts.Preflight.Sufficient(balance, intent.Amount) {
		return d.report(i, fail(res, execution.Wrap(execution.InsufficientBalance,
			errInsufficient{balance: balance, amount: intent.Amount})))
	}

	d.enter(Submitting, i)
	sig, err := d.opts.Submitter.Submit(ctx, intent)
	if err != nil {
		if execution.KindOf(err) == "" {
			err = execution.Wrap(execution.Submission, err)
		}
		return d.report(i, fail(res, err))
	}
	res.Signature = sig.String()

	if d.opts.Confirmer != nil {
		if err := d.opts.Confirmer.Confirm(ctx, sig); err != nil {
			res.ConfirmErr = execution.Wrap(execution.Confirmation, err).Error()
		} else {
			res.Confirmed = true
		}
	}
	return d.report(i, res)
}

func (d *Driver) report(i int, res execution.Result) execution.Result {
	d.enter(Reporting, i)
	res.Ts = d.opts.Now()
	d.opts.Reporter.Trade(res)
	return res
}

func fail(res execution.Result, err error) execution.Result {
	res.Kind = execution.KindOf(err)
	res.Err = err.Error()
	return res
}
