package solana

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keypairJSON(t *testing.T) (string, string) {
	t.Helper()
	key := newKey(t)
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	require.NoError(t, err)
	return string(raw), key.PublicKey().String()
}

func TestLoadKeypair_InlineJSON(t *testing.T) {
	raw, pub := keypairJSON(t)

	key, err := LoadKeypair(raw)
	require.NoError(t, err)
	assert.Equal(t, pub, key.PublicKey().String())
}

func TestLoadKeypair_File(t *testing.T) {
	raw, pub := keypairJSON(t)
	path := filepath.Join(t.TempDir(), "fee-payer.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	key, err := LoadKeypair(path)
	require.NoError(t, err)
	assert.Equal(t, pub, key.PublicKey().String())
}

func TestLoadKeypair_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"short", "[" + strings.Repeat("1,", 31) + "1]"},
		{"out of range", "[" + strings.Repeat("1,", 63) + "256]"},
		{"missing file", filepath.Join(t.TempDir(), "nope.json")},
		{"not json", "[1,2,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadKeypair(tt.input)
			assert.Error(t, err)
		})
	}
}
