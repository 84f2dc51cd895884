// Package solana adapts the Solana JSON-RPC node, keypair files and transaction assembly to the volume loop.
package solana

import (
	"context"
	"errors"
	"fmt"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/time/rate"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/metrics"
)

// ParseCommitment maps a config string to an rpc commitment, defaulting to confirmed.
func ParseCommitment(commit string) rpc.CommitmentType {
	switch commit {
	case "processed":
		return rpc.CommitmentProcessed
	case "finalized":
		return rpc.CommitmentFinalized
	}
	return rpc.CommitmentConfirmed
}

// Client is the remote ledger transport. Every request waits on a shared rate limiter.
type Client struct {
	RPC           *rpc.Client
	Commit        rpc.CommitmentType
	SkipPreflight bool
	limiter       *rate.Limiter
}

// NewClient dials nothing up front; rps <= 0 disables throttling.
func NewClient(rpcURL, commit string, rps float64) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Client{
		RPC:     rpc.New(rpcURL),
		Commit:  ParseCommitment(commit),
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

func observe(method string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.RPCRequestsTotal.WithLabelValues(method, result).Inc()
}

// Health probes getHealth and fails unless the node answers "ok".
func (c *Client) Health(ctx context.Context) (err error) {
	defer func() { observe("getHealth", err) }()
	if err := c.wait(ctx); err != nil {
		return err
	}
	status, err := c.RPC.GetHealth(ctx)
	if err != nil {
		return fmt.Errorf("get health: %w", err)
	}
	if status != rpc.HealthOk {
		return fmt.Errorf("node unhealthy: %s", status)
	}
	return nil
}

// Balance returns the lamports held by owner.
func (c *Client) Balance(ctx context.Context, owner solana.PublicKey) (lamports uint64, err error) {
	defer func() { observe("getBalance", err) }()
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	out, err := c.RPC.GetBalance(ctx, owner, c.Commit)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	if out == nil {
		return 0, errors.New("get balance: empty response")
	}
	return out.Value, nil
}

// LatestBlockhash fetches the freshness token a transaction must be bound to.
func (c *Client) LatestBlockhash(ctx context.Context) (hash solana.Hash, err error) {
	defer func() { observe("getLatestBlockhash", err) }()
	if err := c.wait(ctx); err != nil {
		return hash, err
	}
	out, err := c.RPC.GetLatestBlockhash(ctx, c.Commit)
	if err != nil {
		return hash, fmt.Errorf("get latest blockhash: %w", err)
	}
	if out == nil || out.Value == nil || out.Value.Blockhash == (solana.Hash{}) {
		return hash, errors.New("get latest blockhash: empty response")
	}
	return out.Value.Blockhash, nil
}

// Send submits a signed transaction and returns its signature.
func (c *Client) Send(ctx context.Context, tx *solana.Transaction) (sig solana.Signature, err error) {
	defer func() { observe("sendTransaction", err) }()
	if err := c.wait(ctx); err != nil {
		return sig, err
	}
	sig, err = c.RPC.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       c.SkipPreflight,
		PreflightCommitment: c.Commit,
	})
	if err != nil {
		return sig, fmt.Errorf("send transaction: %w", err)
	}
	return sig, nil
}
