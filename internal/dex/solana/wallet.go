package solana

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/edwards25519"
	solana "github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/mr-tron/base58"

	"github.com/Vibesofdcity01/solana-volume-bot-poc/internal/execution"
)

// KeypairLen is the size of a Solana keypair: 32-byte seed followed by the 32-byte public key.
const KeypairLen = ed25519.PrivateKeySize

// LoadKeypairFile reads a keypair written by `solana-keygen` (JSON byte array) or a base58 string.
func LoadKeypairFile(path string) (solana.PrivateKey, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, execution.Wrap(execution.CredentialLoad, err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, execution.Wrap(execution.CredentialLoad, fmt.Errorf("read keypair: %w", err))
	}
	key, err := decodeKeypair(bytes.TrimSpace(raw))
	if err != nil {
		return nil, execution.Wrap(execution.CredentialLoad, fmt.Errorf("%s: %w", path, err))
	}
	return key, nil
}

func LoadPrivateKeyFromEnv() (solana.PrivateKey, error) {
	_ = godotenv.Load() // best-effort
	b58 := os.Getenv("SOLANA_PRIVATE_KEY_BASE58")
	if b58 == "" {
		return nil, execution.Wrap(execution.CredentialLoad, errors.New("SOLANA_PRIVATE_KEY_BASE58 not set"))
	}
	key, err := decodeKeypair([]byte(b58))
	if err != nil {
		return nil, execution.Wrap(execution.CredentialLoad, err)
	}
	return key, nil
}

func decodeKeypair(raw []byte) (solana.PrivateKey, error) {
	var key []byte
	if len(raw) > 0 && raw[0] == '[' {
		var ints []int
		if err := json.Unmarshal(raw, &ints); err != nil {
			return nil, fmt.Errorf("decode keypair json: %w", err)
		}
		key = make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("keypair byte %d out of range: %d", i, v)
			}
			key[i] = byte(v)
		}
	} else {
		decoded, err := base58.Decode(string(raw))
		if err != nil {
			return nil, fmt.Errorf("decode keypair base58: %w", err)
		}
		key = decoded
	}
	if len(key) != KeypairLen {
		return nil, fmt.Errorf("invalid keypair length %d, want %d", len(key), KeypairLen)
	}
	if err := validateKeypair(key); err != nil {
		return nil, err
	}
	return solana.PrivateKey(key), nil
}

// validateKeypair checks that the public half is a curve point derived from the seed.
func validateKeypair(key []byte) error {
	pub := key[ed25519.SeedSize:]
	if _, err := new(edwards25519.Point).SetBytes(pub); err != nil {
		return fmt.Errorf("public key is not on the ed25519 curve: %w", err)
	}
	derived := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], pub) {
		return errors.New("public key does not match seed")
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
