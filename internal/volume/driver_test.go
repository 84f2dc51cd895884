package volume

import (
	"context"
	"errors"
	"testing"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/execution"
	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/risk"
)

type fakePreflight struct {
	connectErr error
	balances   []uint64
	balanceErr error
	reserve    risk.Reserve
	calls      int
}

func (f *fakePreflight) Connected(context.Context) (bool, error) {
	if f.connectErr != nil {
		return false, execution.Wrap(execution.Connectivity, f.connectErr)
	}
	return true, nil
}

func (f *fakePreflight) Balance(context.Context, solana.PublicKey) (uint64, error) {
	f.calls++
	if f.balanceErr != nil {
		return 0, execution.Wrap(execution.BalanceQuery, f.balanceErr)
	}
	if len(f.balances) == 0 {
		return 10_000_000_000, nil
	}
	b := f.balances[0]
	if len(f.balances) > 1 {
		f.balances = f.balances[1:]
	}
	return b, nil
}

func (f *fakePreflight) Sufficient(balance, amount uint64) bool {
	return f.reserve.Allow(balance, amount)
}

type fixedSampler struct {
	intents []execution.Intent
	delay   time.Duration
	n       int
}

func (s *fixedSampler) Next() execution.Intent {
	in := s.intents[s.n%len(s.intents)]
	s.n++
	return in
}

func (s *fixedSampler) Delay() time.Duration { return s.delay }

type fakeSubmitter struct {
	errs  []error
	calls []execution.Intent
}

func (f *fakeSubmitter) Submit(_ context.Context, intent execution.Intent) (solana.Signature, error) {
	f.calls = append(f.calls, intent)
	if i := len(f.calls) - 1; i < len(f.errs) && f.errs[i] != nil {
		return solana.Signature{}, f.errs[i]
	}
	var sig solana.Signature
	sig[0] = byte(len(f.calls))
	return sig, nil
}

type recordingReporter struct {
	connected []bool
	trades    []execution.Result
	waits     []time.Duration
	balances  int
	done      *execution.Summary
}

func (r *recordingReporter) Connectivity(ok bool, _ error) { r.connected = append(r.connected, ok) }
func (r *recordingReporter) Balance(int, uint64, error)    { r.balances++ }
func (r *recordingReporter) Trade(res execution.Result)    { r.trades = append(r.trades, res) }
func (r *recordingReporter) Wait(_ int, d time.Duration)   { r.waits = append(r.waits, d) }
func (r *recordingReporter) Done(sum execution.Summary)    { r.done = &sum }

type harness struct {
	pre    *fakePreflight
	sub    *fakeSubmitter
	rep    *recordingReporter
	slept  []time.Duration
	driver *Driver
}

func newHarness(trades int, pre *fakePreflight, sub *fakeSubmitter, intents ...execution.Intent) *harness {
	if len(intents) == 0 {
		intents = []execution.Intent{{Side: execution.Buy, Amount: 100_000}}
	}
	h := &harness{pre: pre, sub: sub, rep: &recordingReporter{}}
	h.driver = NewDriver(Options{
		Trades:    trades,
		Owner:     solana.NewWallet().PublicKey(),
		Preflight: pre,
		Sampler:   &fixedSampler{intents: intents, delay: 20 * time.Second},
		Submitter: sub,
		Reporter:  h.rep,
		Sleep: func(_ context.Context, d time.Duration) error {
			h.slept = append(h.slept, d)
			return nil
		},
	})
	return h
}

func TestRunAllSucceed(t *testing.T) {
	h := newHarness(3, &fakePreflight{reserve: 1_000_000}, &fakeSubmitter{})

	sum, err := h.driver.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, h.sub.calls, 3)
	assert.Len(t, h.rep.trades, 3)
	assert.Len(t, h.slept, 2, "no trailing wait after the last trade")
	assert.Len(t, h.rep.waits, 2)
	assert.Equal(t, execution.Summary{Iterations: 3, Submitted: 3}, sum)
	assert.Equal(t, Done, h.driver.State())
	for i, res := range h.rep.trades {
		assert.Equal(t, i+1, res.Iteration)
		assert.True(t, res.OK())
	}
	require.NotNil(t, h.rep.done)
}

func TestRunAbortsWithoutConnectivity(t *testing.T) {
	h := newHarness(5, &fakePreflight{connectErr: errors.New("no route to host")}, &fakeSubmitter{})

	sum, err := h.driver.Run(context.Background())
	assert.ErrorIs(t, err, ErrAborted)
	assert.True(t, sum.Aborted)
	assert.Empty(t, h.sub.calls)
	assert.Empty(t, h.rep.trades)
	assert.Empty(t, h.slept)
	assert.Zero(t, h.pre.calls)
	assert.Equal(t, Aborted, h.driver.State())
	assert.Equal(t, []bool{false}, h.rep.connected)
}

func TestRunInsufficientBalanceSkipsSubmission(t *testing.T) {
	pre := &fakePreflight{reserve: 1_000_000, balances: []uint64{1_050_000}}
	h := newHarness(1, pre, &fakeSubmitter{}, execution.Intent{Side: execution.Sell, Amount: 100_000})

	sum, err := h.driver.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, h.sub.calls)
	require.Len(t, h.rep.trades, 1)
	assert.Equal(t, execution.InsufficientBalance, h.rep.trades[0].Kind)
	assert.Equal(t, 1, sum.Skipped)
}

func TestRunFailuresAreNotFatal(t *testing.T) {
	pre := &fakePreflight{reserve: 1_000_000, balances: []uint64{5_000_000, 10, 5_000_000, 5_000_000, 5_000_000}}
	sub := &fakeSubmitter{errs: []error{
		execution.Wrap(execution.FreshnessToken, errors.New("blockhash not found")),
		nil,
		errors.New("transaction simulation failed"),
	}}
	h := newHarness(5, pre, sub)

	sum, err := h.driver.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Iterations)
	assert.Equal(t, 2, sum.Submitted)
	assert.Equal(t, 3, sum.Skipped)
	assert.Len(t, h.slept, 4)
	require.Len(t, h.rep.trades, 5)

	kinds := []execution.Kind{}
	for _, res := range h.rep.trades {
		kinds = append(kinds, res.Kind)
	}
	assert.Equal(t, []execution.Kind{
		execution.FreshnessToken,
		execution.InsufficientBalance,
		"",
		execution.Submission,
		"",
	}, kinds)
}

func TestRunBalanceQueryFailureSkips(t *testing.T) {
	h := newHarness(2, &fakePreflight{reserve: 1, balanceErr: errors.New("503")}, &fakeSubmitter{})

	sum, err := h.driver.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, h.sub.calls)
	assert.Equal(t, 2, sum.Skipped)
	assert.Len(t, h.slept, 1, "failed iterations still wait")
	assert.Equal(t, execution.BalanceQuery, h.rep.trades[0].Kind)
}

func TestRunStopsWhenWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := newHarness(3, &fakePreflight{reserve: 1}, &fakeSubmitter{})
	h.driver.opts.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return Sleep(ctx, d)
	}

	sum, err := h.driver.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sum.Iterations)
	assert.Len(t, h.sub.calls, 1)
	require.NotNil(t, h.rep.done)
}

type fakeConfirmer struct{ err error }

func (f fakeConfirmer) Confirm(context.Context, solana.Signature) error { return f.err }

func TestRunConfirmation(t *testing.T) {
	h := newHarness(2, &fakePreflight{reserve: 1}, &fakeSubmitter{})
	h.driver.opts.Confirmer = fakeConfirmer{}
	_, err := h.driver.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, h.rep.trades[0].Confirmed)

	h = newHarness(1, &fakePreflight{reserve: 1}, &fakeSubmitter{})
	h.driver.opts.Confirmer = fakeConfirmer{err: errors.New("timeout")}
	sum, err := h.driver.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, h.rep.trades[0].Confirmed)
	assert.True(t, h.rep.trades[0].OK())
	assert.Contains(t, h.rep.trades[0].ConfirmErr, "timeout")
	assert.Equal(t, string(execution.Confirmation), h.rep.trades[0].Outcome())
	assert.Equal(t, 1, sum.Submitted)
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	assert.NoError(t, Sleep(context.Background(), time.Millisecond))
}
