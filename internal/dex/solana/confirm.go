package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gorilla/websocket"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/execution"
)

// WSEndpoint derives the pubsub URL from an RPC URL when none is configured.
func WSEndpoint(rpcURL, wsURL string) string {
	if wsURL != "" {
		return wsURL
	}
	switch {
	case strings.HasPrefix(rpcURL, "https://"):
		return "wss://" + strings.TrimPrefix(rpcURL, "https://")
	case strings.HasPrefix(rpcURL, "http://"):
		return "ws://" + strings.TrimPrefix(rpcURL, "http://")
	}
	return rpcURL
}

// Confirmer waits on signatureSubscribe until the node reports the transaction at the
// configured commitment.
type Confirmer struct {
	endpoint string
	commit   rpc.CommitmentType
	timeout  time.Duration
	dialer   websocket.Dialer
}

func NewConfirmer(endpoint, commit string, timeout time.Duration) *Confirmer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Confirmer{
		endpoint: endpoint,
		commit:   ParseCommitment(commit),
		timeout:  timeout,
		dialer:   websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}
}

type wsRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type wsMessage struct {
	ID     *uint64         `json:"id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Method string `json:"method,omitempty"`
	Params *struct {
		Subscription uint64 `json:"subscription"`
		Result       struct {
			Value struct {
				Err any `json:"err"`
			} `json:"value"`
		} `json:"result"`
	} `json:"params,omitempty"`
}

// Confirm blocks until the signature lands, fails on-chain, or the timeout elapses.
func (c *Confirmer) Confirm(ctx context.Context, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return execution.Wrap(execution.Confirmation, fmt.Errorf("websocket dial: %w", err))
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.SetReadDeadline(time.Now()) })
	defer stop()

	req := wsRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "signatureSubscribe",
		Params:  []any{sig.String(), map[string]string{"commitment": string(c.commit)}},
	}
	if err := conn.WriteJSON(req); err != nil {
		return execution.Wrap(execution.Confirmation, fmt.Errorf("subscribe: %w", err))
	}

	var subID uint64
	subscribed := false
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			return execution.Wrap(execution.Confirmation, fmt.Errorf("await %s: %w", sig, err))
		}
		switch {
		case msg.Error != nil:
			return execution.Wrap(execution.Confirmation, fmt.Errorf("subscribe rejected: %d %s", msg.Error.Code, msg.Error.Message))
		case msg.ID != nil && *msg.ID == req.ID:
			if err := json.Unmarshal(msg.Result, &subID); err != nil {
				return execution.Wrap(execution.Confirmation, fmt.Errorf("decode subscription id: %w", err))
			}
			subscribed = true
		case msg.Method == "signatureNotification" && msg.Params != nil:
			if subscribed && msg.Params.Subscription != subID {
				continue
			}
			if txErr := msg.Params.Result.Value.Err; txErr != nil {
				return execution.Wrap(execution.Confirmation, fmt.Errorf("transaction failed: %v", txErr))
			}
			return nil
		}
	}
}
