// Package preflight verifies the node is reachable and the funding account can afford the next trade.
package preflight

import (
	"context"
	"fmt"

	solana "github.com/gagliardetto/solana-go"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/execution"
	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/risk"
)

// Ledger is the read side of the remote node the checker relies on.
type Ledger interface {
	Health(ctx context.Context) error
	Balance(ctx context.Context, owner solana.PublicKey) (uint64, error)
}

// Checker runs the connectivity probe, balance lookup and reserve gate.
type Checker struct {
	ledger  Ledger
	reserve risk.Reserve
}

// NewChecker wires a checker to the given ledger and reserve.
func NewChecker(ledger Ledger, reserve risk.Reserve) *Checker {
	return &Checker{ledger: ledger, reserve: reserve}
}

// Connected probes the node. A false result always comes with a Connectivity error.
func (c *Checker) Connected(ctx context.Context) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, execution.Wrap(execution.Connectivity, fmt.Errorf("probe panicked: %v", r))
		}
	}()
	if err := c.ledger.Health(ctx); err != nil {
		return false, execution.Wrap(execution.Connectivity, err)
	}
	return true, nil
}

// Balance returns the spendable lamports of owner. Lookup failures read as zero.
func (c *Checker) Balance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	lamports, err := c.ledger.Balance(ctx, owner)
	if err != nil {
		return 0, execution.Wrap(execution.BalanceQuery, err)
	}
	return lamports, nil
}

// Sufficient reports whether balance >= amount + reserve.
func (c *Checker) Sufficient(balance, amount uint64) bool {
	return c.reserve.Allow(balance, amount)
}

// Reserve returns the configured reserve in lamports.
func (c *Checker) Reserve() uint64 { return uint64(c.reserve) }
