// Package strategy decides what each trade looks like and how long to wait before the next one.
package strategy

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/execution"
)

// Source is the subset of *rand.Rand the sampler draws from.
type Source interface {
	Intn(n int) int
	Int63n(n int64) int64
	Float64() float64
}

// Bounds are the inclusive ranges the sampler draws from.
type Bounds struct {
	MinAmount uint64
	MaxAmount uint64
	MinDelay  time.Duration
	MaxDelay  time.Duration
}

// Validate checks the range invariants.
func (b Bounds) Validate() error {
	if b.MinAmount > b.MaxAmount {
		return fmt.Errorf("min amount %d above max amount %d", b.MinAmount, b.MaxAmount)
	}
	if b.MaxAmount-b.MinAmount >= 1<<63-1 {
		return fmt.Errorf("amount range too wide")
	}
	if b.MinDelay < 0 || b.MinDelay > b.MaxDelay {
		return fmt.Errorf("delay range [%s, %s] invalid", b.MinDelay, b.MaxDelay)
	}
	return nil
}

// Random draws uniformly distributed intents and delays.
type Random struct {
	bounds Bounds
	src    Source
}

// NewRandom builds a sampler. A nil src falls back to a time-seeded generator.
func NewRandom(bounds Bounds, src Source) (*Random, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Random{bounds: bounds, src: src}, nil
}

// Next draws a side with equal probability and an amount in [MinAmount, MaxAmount].
func (r *Random) Next() execution.Intent {
	side := execution.Buy
	if r.src.Intn(2) == 1 {
		side = execution.Sell
	}
	span := int64(r.bounds.MaxAmount - r.bounds.MinAmount)
	amount := r.bounds.MinAmount + uint64(r.src.Int63n(span+1))
	return execution.Intent{Side: side, Amount: amount}
}

// Delay draws a wait in [MinDelay, MaxDelay].
func (r *Random) Delay() time.Duration {
	span := float64(r.bounds.MaxDelay - r.bounds.MinDelay)
	return r.bounds.MinDelay + time.Duration(r.src.Float64()*span)
}
