package strategy

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/execution"
)

// scripted returns fixed draws so boundary values can be asserted exactly.
type scripted struct {
	side  int
	pick  func(n int64) int64
	float float64
}

func (s scripted) Intn(int) int         { return s.side }
func (s scripted) Int63n(n int64) int64 { return s.pick(n) }
func (s scripted) Float64() float64     { return s.float }

var testBounds = Bounds{
	MinAmount: 100_000,
	MaxAmount: 500_000,
	MinDelay:  15 * time.Second,
	MaxDelay:  45 * time.Second,
}

func TestNextBoundaries(t *testing.T) {
	low, err := NewRandom(testBounds, scripted{side: 0, pick: func(int64) int64 { return 0 }})
	require.NoError(t, err)
	intent := low.Next()
	assert.Equal(t, execution.Buy, intent.Side)
	assert.Equal(t, uint64(100_000), intent.Amount)

	high, err := NewRandom(testBounds, scripted{side: 1, pick: func(n int64) int64 { return n - 1 }})
	require.NoError(t, err)
	intent = high.Next()
	assert.Equal(t, execution.Sell, intent.Side)
	assert.Equal(t, uint64(500_000), intent.Amount)
}

func TestDelayBoundaries(t *testing.T) {
	low, err := NewRandom(testBounds, scripted{float: 0})
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, low.Delay())

	high, err := NewRandom(testBounds, scripted{float: 1})
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, high.Delay())
}

func TestDrawsStayInRange(t *testing.T) {
	sampler, err := NewRandom(testBounds, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	sides := map[execution.Side]int{}
	for i := 0; i < 5000; i++ {
		intent := sampler.Next()
		require.GreaterOrEqual(t, intent.Amount, testBounds.MinAmount)
		require.LessOrEqual(t, intent.Amount, testBounds.MaxAmount)
		sides[intent.Side]++

		d := sampler.Delay()
		require.GreaterOrEqual(t, d, testBounds.MinDelay)
		require.LessOrEqual(t, d, testBounds.MaxDelay)
	}
	assert.Len(t, sides, 2)
	assert.InDelta(t, 2500, sides[execution.Buy], 250)
}

func TestDegenerateRanges(t *testing.T) {
	fixed := Bounds{MinAmount: 7, MaxAmount: 7, MinDelay: time.Second, MaxDelay: time.Second}
	sampler, err := NewRandom(fixed, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), sampler.Next().Amount)
	assert.Equal(t, time.Second, sampler.Delay())
}

func TestInvalidBounds(t *testing.T) {
	_, err := NewRandom(Bounds{MinAmount: 2, MaxAmount: 1}, nil)
	assert.Error(t, err)

	_, err = NewRandom(Bounds{MinDelay: 2 * time.Second, MaxDelay: time.Second}, nil)
	assert.Error(t, err)
}
