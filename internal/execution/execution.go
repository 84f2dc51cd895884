// Package execution defines trade intents, their outcomes, and the sink that reports them.
package execution

import (
	"fmt"
	"time"
)

// Side enumerates trade directions used by the volume loop.
type Side string

const (
	// Buy labels a trade as a purchase.
	Buy Side = "BUY"
	// Sell labels a trade as a sale.
	Sell Side = "SELL"
)

// Intent is the per-iteration trade the loop wants to place. Amount is in lamports.
type Intent struct {
	Side   Side   `json:"side"`
	Amount uint64 `json:"amount"`
}

func (i Intent) String() string {
	return fmt.Sprintf("%s %d", i.Side, i.Amount)
}

// Result captures the outcome of a single iteration. Exactly one of Signature or Err is set.
type Result struct {
	Iteration int       `json:"iteration"`
	Intent    Intent    `json:"intent"`
	Signature string    `json:"signature,omitempty"`
	Kind      Kind      `json:"kind,omitempty"`
	Err       string    `json:"error,omitempty"`
	Confirmed bool      `json:"confirmed,omitempty"`
	Ts        time.Time `json:"ts"`
	// ConfirmErr is set when the transaction was sent but its confirmation was not observed.
	ConfirmErr string `json:"confirm_error,omitempty"`
}

// OK reports whether the iteration produced a transaction.
func (r Result) OK() bool { return r.Signature != "" && r.Err == "" }

// Outcome returns the metric label for the result.
func (r Result) Outcome() string {
	if r.OK() {
		if r.ConfirmErr != "" {
			return string(Confirmation)
		}
		return "submitted"
	}
	if r.Kind == "" {
		return "failed"
	}
	return string(r.Kind)
}
