package solana

import (
	"context"
	"fmt"

	solana "github.com/gagliardetto/solana-go"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/execution"
)

// TxLedger is the write side of the node: freshness token lookup and submission.
type TxLedger interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Trader fetches a blockhash, assembles, signs with the owner key and sends.
type Trader struct {
	ledger    TxLedger
	assembler Assembler
	owner     solana.PrivateKey
}

// NewTrader wires the pieces of a single submission.
func NewTrader(ledger TxLedger, assembler Assembler, owner solana.PrivateKey) *Trader {
	return &Trader{ledger: ledger, assembler: assembler, owner: owner}
}

// Submit returns errors tagged FreshnessToken or Submission.
func (t *Trader) Submit(ctx context.Context, intent execution.Intent) (solana.Signature, error) {
	var sig solana.Signature

	blockhash, err := t.ledger.LatestBlockhash(ctx)
	if err != nil {
		return sig, execution.Wrap(execution.FreshnessToken, err)
	}

	tx, err := t.assembler.Assemble(ctx, intent, blockhash)
	if err != nil {
		return sig, execution.Wrap(execution.Submission, fmt.Errorf("assemble: %w", err))
	}
	if err := t.sign(tx); err != nil {
		return sig, execution.Wrap(execution.Submission, err)
	}

	sig, err = t.ledger.Send(ctx, tx)
	if err != nil {
		return sig, execution.Wrap(execution.Submission, err)
	}
	return sig, nil
}

func (t *Trader) sign(tx *solana.Transaction) error {
	owner := t.owner.PublicKey()
	// Swap transactions arrive with placeholder signature slots.
	tx.Signatures = nil
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(owner) {
			return &t.owner
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	return nil
}
