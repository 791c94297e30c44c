package common

import (
	"os"
	"path/filepath"
	"testing"

	"dexter-rewards-go/internal/rewards"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokensYaml = `
tokens:
  - address: resource_tdx_2_1dextr
    symbol: DEXTR
    name: Dexter
    icon_url: https://example.com/dextr.png
  - address: resource_tdx_2_1xrd
    symbol: XRD
    name: Radix
`

func TestParseTokens(t *testing.T) {
	tokens, err := ParseTokens([]byte(tokensYaml))
	require.NoError(t, err)
	require.Len(t, tokens, 2)

	dextr := tokens.TokenInfo("resource_tdx_2_1dextr")
	assert.Equal(t, "DEXTR", dextr.Symbol)
	assert.Equal(t, "Dexter", dextr.Name)
	assert.Equal(t, "https://example.com/dextr.png", dextr.IconUrl)

	unknown := tokens.TokenInfo("resource_tdx_2_1other")
	assert.Equal(t, rewards.UnknownTokenSymbol, unknown.Symbol)
	assert.Equal(t, "resource_tdx_2_1other", unknown.Address)
}

func TestParseTokens_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing address", "tokens:\n  - symbol: DEXTR\n"},
		{"missing symbol", "tokens:\n  - address: resource_tdx_2_1dextr\n"},
		{"duplicate address", "tokens:\n  - {address: resource_a, symbol: A}\n  - {address: resource_a, symbol: B}\n"},
		{"not yaml", "tokens: [unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTokens([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadTokens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tokens.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tokensYaml), 0o600))

	tokens, err := LoadTokens(path)
	require.NoError(t, err)
	assert.Len(t, tokens, 2)
}

func TestLoadTokens_MissingFile(t *testing.T) {
	tokens, err := LoadTokens(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, tokens)

	tokens, err = LoadTokens("")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "account_tdx_2_12yxk6x...nnvxq9",
		ShortAddress("account_tdx_2_12yxk6xdt7a2qpsk4u5qs5e5rnhxq7aryxsz4vz2s9qvgk3xnnvxq9"))
	assert.Equal(t, "resource_a", ShortAddress("resource_a"))
	assert.Equal(t, "resource_tdx_2_1abc", ShortAddress("resource_tdx_2_1abc"))
}
