package paper

import (
	"sync"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/execution"
)

// Ledger stores trade results in memory for quick inspection.
type Ledger struct {
	mu      sync.Mutex
	results []execution.Result
}

// NewLedger creates an empty ledger optionally pre-sizing storage.
func NewLedger(capacity int) *Ledger {
	if capacity < 0 {
		capacity = 0
	}
	return &Ledger{results: make([]execution.Result, 0, capacity)}
}

// Record appends a result to the ledger.
func (l *Ledger) Record(res execution.Result) {
	l.mu.Lock()
	l.results = append(l.results, res)
	l.mu.Unlock()
}

// Snapshot returns a copy of the recorded results.
func (l *Ledger) Snapshot() []execution.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]execution.Result, len(l.results))
	copy(out, l.results)
	return out
}

// Volume sums submitted lamports per side.
func (l *Ledger) Volume() map[execution.Side]uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[execution.Side]uint64, 2)
	for _, res := range l.results {
		if res.OK() {
			out[res.Intent.Side] += res.Intent.Amount
		}
	}
	return out
}

// Reset clears all stored results.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.results = l.results[:0]
	l.mu.Unlock()
}
