// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"rpc_list": ["https://rpc.example.com"],
		"wallets_file": "wallets.csv",
		"wallet_name": "main"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultSwapAPIURL, cfg.SwapAPIURL)
	assert.Equal(t, "confirmed", cfg.Commitment)
	assert.True(t, cfg.SkipPreflight)
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, DefaultRetryTimeoutMs, cfg.RetryTimeoutMs)
	assert.Equal(t, DefaultResendIntervalMs, cfg.ResendIntervalMs)
	assert.Equal(t, DefaultPollIntervalMs, cfg.PollIntervalMs)
	assert.Equal(t, DefaultBlockBuffer, cfg.BlockHeightBuffer)
	assert.False(t, cfg.SkipConfirmationCheck)
}

func TestLoadConfig_Validation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			"empty rpc list",
			`{"wallets_file": "wallets.csv"}`,
		},
		{
			"bad rpc protocol",
			`{"rpc_list": ["ftp://nope"], "wallets_file": "wallets.csv"}`,
		},
		{
			"missing wallets file",
			`{"rpc_list": ["https://rpc.example.com"]}`,
		},
		{
			"non-positive poll interval",
			`{"rpc_list": ["https://rpc.example.com"], "wallets_file": "w.csv", "poll_interval_ms": 0}`,
		},
		{
			"non-positive resend interval",
			`{"rpc_list": ["https://rpc.example.com"], "wallets_file": "w.csv", "resend_interval_ms": -5}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_EnvOverridesRPCList(t *testing.T) {
	t.Setenv("SOLANA_SWAP_RPC_LIST", "https://a.example.com, https://b.example.com")

	path := writeConfig(t, `{
		"rpc_list": ["https://rpc.example.com"],
		"wallets_file": "wallets.csv"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.RPCList)
}
