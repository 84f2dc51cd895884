// Package config also contains DEX-specific configuration surfaces.
package config

// Dex defines network endpoints and defaults for decentralized execution.
type Dex struct {
	Chain         string  `yaml:"chain"` // e.g. "solana"
	RpcURL        string  `yaml:"rpc_url"`
	WsURL         string  `yaml:"ws_url"`       // derived from rpc_url when empty
	Commitment    string  `yaml:"commitment"`   // processed|confirmed|finalized
	JupiterBase   string  `yaml:"jupiter_base"` // https://quote-api.jup.ag
	RateLimitRPS  float64 `yaml:"rate_limit_rps"`
	SkipPreflight bool    `yaml:"skip_preflight"`
}

// Wallet points at the signing keypair. An empty path falls back to SOLANA_PRIVATE_KEY_BASE58.
type Wallet struct {
	KeypairPath string `yaml:"keypair_path"`
}
