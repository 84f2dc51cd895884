package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/execution"
)

// NativeMint is wrapped SOL, the quote side of every swap.
const NativeMint = "So11111111111111111111111111111111111111112"

// SwapMode selects which side of a quote Amount fixes.
type SwapMode string

const (
	// ExactIn fixes the input amount.
	ExactIn SwapMode = "ExactIn"
	// ExactOut fixes the output amount.
	ExactOut SwapMode = "ExactOut"
)

type JupiterClient struct {
	Base  string
	Owner solana.PublicKey
	Http  *http.Client
}

type Quote struct {
	InputMint      string  `json:"inputMint"`
	OutputMint     string  `json:"outputMint"`
	InAmount       string  `json:"inAmount"`
	OutAmount      string  `json:"outAmount"`
	OtherAmount    string  `json:"otherAmountThreshold"`
	SlippageBps    int     `json:"slippageBps"`
	SwapMode       string  `json:"swapMode"`
	RoutePlan      any     `json:"routePlan"`
	PriceImpactPct float64 `json:"priceImpactPct,string"`
}

func NewJupiterClient(base string, owner solana.PublicKey) *JupiterClient {
	return &JupiterClient{
		Base:  strings.TrimSuffix(base, "/"),
		Owner: owner,
		Http:  &http.Client{Timeout: 8 * time.Second},
	}
}

// amount is in smallest units of the input mint for ExactIn and of the output mint for ExactOut.
func (j *JupiterClient) GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int, mode SwapMode) (*Quote, error) {
	if mode == "" {
		mode = ExactIn
	}
	q := url.Values{}
	q.Set("inputMint", inputMint)
	q.Set("outputMint", outputMint)
	q.Set("amount", fmt.Sprintf("%d", amount))
	q.Set("slippageBps", fmt.Sprintf("%d", slippageBps))
	q.Set("swapMode", string(mode))
	q.Set("onlyDirectRoutes", "false")
	u := j.Base + "/v6/quote?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := j.Http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter quote status %d", resp.StatusCode)
	}
	var out Quote
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SwapTransaction asks Jupiter for the unsigned swap transaction matching quote.
func (j *JupiterClient) SwapTransaction(ctx context.Context, quote *Quote) (*solana.Transaction, error) {
	payload := map[string]any{
		"userPublicKey":             j.Owner.String(),
		"wrapAndUnwrapSol":          true,
		"asLegacyTransaction":       false,
		"useTokenLedger":            false,
		"prioritizationFeeLamports": 0,
		"quoteResponse":             quote,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.Base+"/v6/swap", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := j.Http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter swap status %d", resp.StatusCode)
	}
	var sr struct {
		SwapTransaction string `json:"swapTransaction"` // base64, unsigned
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	if sr.SwapTransaction == "" {
		return nil, errors.New("jupiter swap: empty transaction")
	}

	raw, err := base64.StdEncoding.DecodeString(sr.SwapTransaction)
	if err != nil {
		return nil, fmt.Errorf("decode tx: %w", err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal tx: %w", err)
	}
	return tx, nil
}

// SwapAssembler routes BUY as SOL -> TokenMint and SELL as TokenMint -> SOL through Jupiter.
// Intent amounts stay in lamports both ways: BUY spends that much SOL (ExactIn) and SELL
// sells as many tokens as it takes to receive that much SOL (ExactOut).
type SwapAssembler struct {
	Client      *JupiterClient
	TokenMint   string
	SlippageBps int
}

func NewSwapAssembler(client *JupiterClient, tokenMint string, slippageBps int) *SwapAssembler {
	return &SwapAssembler{Client: client, TokenMint: tokenMint, SlippageBps: slippageBps}
}

// Assemble quotes the swap, fetches the transaction and rebinds it to blockhash.
func (a *SwapAssembler) Assemble(ctx context.Context, intent execution.Intent, blockhash solana.Hash) (*solana.Transaction, error) {
	in, out, mode := NativeMint, a.TokenMint, ExactIn
	if intent.Side == execution.Sell {
		in, out, mode = out, in, ExactOut
	}
	quote, err := a.Client.GetQuote(ctx, in, out, intent.Amount, a.SlippageBps, mode)
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}
	tx, err := a.Client.SwapTransaction(ctx, quote)
	if err != nil {
		return nil, fmt.Errorf("swap: %w", err)
	}
	tx.Message.RecentBlockhash = blockhash
	return tx, nil
}
