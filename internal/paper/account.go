// Package paper rehearses runs against a simulated ledger and journals trade results.
package paper

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	solana "github.com/gagliardetto/solana-go"

	dex "github.com/Vibesofdcity01/solana-volume-bot-poc/internal/dex/solana"
)

// DefaultFeeLamports is the base signature fee charged per transaction.
const DefaultFeeLamports = 5000

// recentHashes bounds how many issued blockhashes stay valid.
const recentHashes = 150

// Account simulates the funding account and the node it lives on, so a run can be
// rehearsed without touching a cluster.
type Account struct {
	mu          sync.Mutex
	owner       solana.PublicKey
	balance     uint64
	feeLamports uint64
	spent       uint64
	fees        uint64
	slot        uint64
	issued      []solana.Hash
	healthErr   error
	sent        []solana.Signature
}

// Snapshot represents a thread-safe view of the simulated account.
type Snapshot struct {
	Balance      uint64
	Spent        uint64
	Fees         uint64
	Transactions int
}

// NewAccount funds owner with startingLamports and charges feeLamports per transaction.
func NewAccount(owner solana.PublicKey, startingLamports, feeLamports uint64) *Account {
	return &Account{
		owner:       owner,
		balance:     startingLamports,
		feeLamports: feeLamports,
	}
}

// SetHealthError makes subsequent Health calls fail with err (nil restores health).
func (a *Account) SetHealthError(err error) {
	a.mu.Lock()
	a.healthErr = err
	a.mu.Unlock()
}

func (a *Account) Health(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.healthErr
}

// Balance returns the simulated lamports of owner; unknown accounts hold nothing.
func (a *Account) Balance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !owner.Equals(a.owner) {
		return 0, nil
	}
	return a.balance, nil
}

// LatestBlockhash advances the simulated slot and issues a new blockhash.
func (a *Account) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	if err := ctx.Err(); err != nil {
		return solana.Hash{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.slot++
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], a.slot)
	hash := solana.Hash(sha256.Sum256(append(a.owner[:], buf[:]...)))
	a.issued = append(a.issued, hash)
	if len(a.issued) > recentHashes {
		a.issued = a.issued[len(a.issued)-recentHashes:]
	}
	return hash, nil
}

// Send validates signatures and blockhash, then debits transfers and the fee.
func (a *Account) Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if err := ctx.Err(); err != nil {
		return solana.Signature{}, err
	}
	if len(tx.Signatures) == 0 {
		return solana.Signature{}, errors.New("transaction is not signed")
	}
	if err := tx.VerifySignatures(); err != nil {
		return solana.Signature{}, fmt.Errorf("signature verification failed: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.known(tx.Message.RecentBlockhash) {
		return solana.Signature{}, errors.New("blockhash not found")
	}
	amount, _ := dex.TransferLamports(tx, a.owner)
	if amount > a.balance || a.balance-amount < a.feeLamports {
		return solana.Signature{}, errors.New("insufficient funds for fee")
	}
	a.balance -= amount + a.feeLamports
	a.spent += amount
	a.fees += a.feeLamports

	sig := tx.Signatures[0]
	a.sent = append(a.sent, sig)
	return sig, nil
}

func (a *Account) known(hash solana.Hash) bool {
	for _, h := range a.issued {
		if h == hash {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the simulated balances.
func (a *Account) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		Balance:      a.balance,
		Spent:        a.spent,
		Fees:         a.fees,
		Transactions: len(a.sent),
	}
}
