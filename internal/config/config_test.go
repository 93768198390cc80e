package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{}`))
	require.NoError(t, err)
	require.Equal(t, BackendMemory, cfg.Backend)
	require.Equal(t, DefaultDataDir, cfg.DataDir)
	require.Equal(t, DefaultRetries, cfg.Retries)
	require.False(t, cfg.DebugLogging)
}

func TestLoadConfigPebbleBackend(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{"backend": "pebble", "data_dir": "/tmp/launchpad"}`))
	require.NoError(t, err)
	require.Equal(t, BackendPebble, cfg.Backend)
	require.Equal(t, "/tmp/launchpad", cfg.DataDir)

	_, err = LoadConfig(writeConfig(t, `{"backend": "pebble", "data_dir": ""}`))
	require.Error(t, err)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"backend": "redis"}`))
	require.Error(t, err)
}

func TestLoadConfigRejectsBadKey(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"treasury_key": "not-base58!!!"}`))
	require.Error(t, err)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	key := solana.NewWallet().PublicKey().String()
	t.Setenv("LAUNCHPAD_BACKEND", "pebble")
	t.Setenv("LAUNCHPAD_DATA_DIR", "/tmp/env-data")
	t.Setenv("LAUNCHPAD_TREASURY_KEY", key)

	cfg, err := LoadConfig(writeConfig(t, `{"backend": "memory"}`))
	require.NoError(t, err)
	require.Equal(t, BackendPebble, cfg.Backend)
	require.Equal(t, "/tmp/env-data", cfg.DataDir)

	treasury, err := cfg.Treasury()
	require.NoError(t, err)
	require.Equal(t, key, treasury.String())
}

func TestKeysGeneratedWhenEmpty(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{}`))
	require.NoError(t, err)

	gov, err := cfg.Governance()
	require.NoError(t, err)
	require.False(t, gov.IsZero())

	other, err := cfg.Governance()
	require.NoError(t, err)
	require.False(t, gov.Equals(other))
}
