package solana

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	solanago "github.com/gagliardetto/solana-go"
)

// LoadKeypair reads a solana-keygen keypair: either the JSON byte array
// itself or a path to a file holding it.
func LoadKeypair(jsonOrPath string) (solanago.PrivateKey, error) {
	src := strings.TrimSpace(jsonOrPath)
	if src == "" {
		return nil, fmt.Errorf("fee payer keypair is not configured")
	}

	raw := []byte(src)
	if !strings.HasPrefix(src, "[") {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("read keypair file: %w", err)
		}
		raw = data
	}

	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return nil, fmt.Errorf("parse keypair: %w", err)
	}
	if len(ints) != 64 {
		return nil, fmt.Errorf("keypair must be 64 bytes, got %d", len(ints))
	}
	key := make([]byte, 64)
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("keypair byte %d out of range", i)
		}
		key[i] = byte(v)
	}
	return solanago.PrivateKey(key), nil
}
