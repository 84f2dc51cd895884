package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	solana "github.com/gagliardetto/solana-go"
)

type rpcReply struct {
	result any
	err    *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
}

// fakeNode answers JSON-RPC calls from a method -> reply table and counts calls.
type fakeNode struct {
	mu      sync.Mutex
	replies map[string]rpcReply
	calls   map[string]int
	sent    []string
}

func newFakeNode(t *testing.T, replies map[string]rpcReply) (*fakeNode, *httptest.Server) {
	t.Helper()
	node := &fakeNode{replies: replies, calls: map[string]int{}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		node.mu.Lock()
		node.calls[req.Method]++
		if req.Method == "sendTransaction" && len(req.Params) > 0 {
			var payload string
			_ = json.Unmarshal(req.Params[0], &payload)
			node.sent = append(node.sent, payload)
		}
		reply, ok := node.replies[req.Method]
		node.mu.Unlock()

		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		switch {
		case !ok:
			resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
		case reply.err != nil:
			resp["error"] = reply.err
		default:
			resp["result"] = reply.result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return node, server
}

func rpcErr(code int, msg string) rpcReply {
	r := rpcReply{}
	r.err = &struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}{code, msg}
	return r
}

var testBlockhash = solana.Hash{9, 9, 9, 1}

func healthyReplies() map[string]rpcReply {
	return map[string]rpcReply{
		"getHealth":  {result: "ok"},
		"getBalance": {result: map[string]any{"context": map[string]any{"slot": 1}, "value": 1_500_000}},
		"getLatestBlockhash": {result: map[string]any{
			"context": map[string]any{"slot": 1},
			"value":   map[string]any{"blockhash": testBlockhash.String(), "lastValidBlockHeight": 200},
		}},
		"sendTransaction": {result: solana.Signature{1, 2, 3}.String()},
	}
}

func TestClientHealth(t *testing.T) {
	_, server := newFakeNode(t, healthyReplies())
	if err := NewClient(server.URL, "confirmed", 0).Health(context.Background()); err != nil {
		t.Fatalf("Health returned error: %v", err)
	}

	_, down := newFakeNode(t, map[string]rpcReply{"getHealth": rpcErr(-32005, "Node is unhealthy")})
	if err := NewClient(down.URL, "confirmed", 0).Health(context.Background()); err == nil {
		t.Fatalf("expected unhealthy node to fail")
	}

	if err := NewClient("http://127.0.0.1:1", "confirmed", 0).Health(context.Background()); err == nil {
		t.Fatalf("expected unreachable node to fail")
	}
}

func TestClientBalanceAndBlockhash(t *testing.T) {
	_, server := newFakeNode(t, healthyReplies())
	client := NewClient(server.URL, "finalized", 100)

	bal, err := client.Balance(context.Background(), solana.NewWallet().PublicKey())
	if err != nil {
		t.Fatalf("Balance returned error: %v", err)
	}
	if bal != 1_500_000 {
		t.Fatalf("expected 1500000 lamports, got %d", bal)
	}

	hash, err := client.LatestBlockhash(context.Background())
	if err != nil {
		t.Fatalf("LatestBlockhash returned error: %v", err)
	}
	if hash != testBlockhash {
		t.Fatalf("unexpected blockhash %s", hash)
	}
}

func TestClientRateLimitHonoursContext(t *testing.T) {
	_, server := newFakeNode(t, healthyReplies())
	client := NewClient(server.URL, "confirmed", 0.001)
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("first call should use the burst: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := client.Health(ctx); err == nil {
		t.Fatalf("expected throttled call with cancelled context to fail")
	}
}

func TestParseCommitment(t *testing.T) {
	cases := map[string]string{"processed": "processed", "finalized": "finalized", "": "confirmed", "bogus": "confirmed"}
	for in, want := range cases {
		if got := string(ParseCommitment(in)); got != want {
			t.Fatalf("ParseCommitment(%q) = %s, want %s", in, got, want)
		}
	}
}
