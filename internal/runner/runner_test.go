package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/config"
)

func TestLifecycleEndToEndMemory(t *testing.T) {
	cfg := &config.Config{Backend: config.BackendMemory, Retries: config.DefaultRetries}
	r, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	require.NoError(t, r.runLifecycle(context.Background()))
}

func TestLifecycleEndToEndPebble(t *testing.T) {
	cfg := &config.Config{
		Backend: config.BackendPebble,
		DataDir: t.TempDir(),
		Retries: config.DefaultRetries,
	}
	r, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	require.NoError(t, r.runLifecycle(context.Background()))
}
