package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitializeConfigOnce(t *testing.T) {
	e := newEnv(t)

	cfg, err := e.eng.Config()
	require.NoError(t, err)
	require.True(t, cfg.GovernanceAuthority.Equals(e.gov))
	require.True(t, cfg.Treasury.Equals(e.treasury))
	require.Equal(t, uint64(DefaultCreationFeeLamports), cfg.CreationFeeLamports)
	require.Equal(t, uint64(DefaultTradeFeeBps), cfg.TradeFeeBps)
	require.Equal(t, uint64(DefaultCreatorShareBps), cfg.CreatorShareBps)
	require.Equal(t, uint64(DefaultMigrationThreshold), cfg.MigrationThreshold)
	require.False(t, cfg.IsPaused)

	_, err = e.eng.InitializeConfig(context.Background(), e.gov, e.treasury)
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestUpdateConfigRequiresGovernance(t *testing.T) {
	e := newEnv(t)
	stranger := e.wallet(lamportsPerSol)

	cfg, err := e.eng.Config()
	require.NoError(t, err)

	next := *cfg
	next.IsPaused = true
	_, err = e.eng.UpdateConfig(context.Background(), stranger, next)
	require.ErrorIs(t, err, ErrUnauthorized)

	got, err := e.eng.UpdateConfig(context.Background(), e.gov, next)
	require.NoError(t, err)
	require.True(t, got.IsPaused)

	cfg, err = e.eng.Config()
	require.NoError(t, err)
	require.True(t, cfg.IsPaused)
}

func TestUpdateConfigHandsOverGovernance(t *testing.T) {
	e := newEnv(t)
	successor := e.wallet(lamportsPerSol)

	cfg, err := e.eng.Config()
	require.NoError(t, err)
	next := *cfg
	next.GovernanceAuthority = successor
	_, err = e.eng.UpdateConfig(context.Background(), e.gov, next)
	require.NoError(t, err)

	// The old authority lost its powers with the same call.
	_, err = e.eng.UpdateConfig(context.Background(), e.gov, next)
	require.ErrorIs(t, err, ErrUnauthorized)

	next.MigrationThreshold = 75 * lamportsPerSol
	got, err := e.eng.UpdateConfig(context.Background(), successor, next)
	require.NoError(t, err)
	require.Equal(t, uint64(75*lamportsPerSol), got.MigrationThreshold)
}
