package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-launchpad/internal/ledger"
	"github.com/rovshanmuradov/solana-launchpad/internal/state"
)

func TestCreateLaunchesCurve(t *testing.T) {
	e := newEnv(t)
	treasuryBefore := e.lamports(e.treasury)

	creator, res := e.createToken()

	bc, err := e.eng.Curve(res.Mint)
	require.NoError(t, err)
	require.True(t, bc.Creator.Equals(creator))
	require.True(t, bc.TokenMint.Equals(res.Mint))
	require.True(t, bc.TokenVault.Equals(res.TokenVault))
	require.Equal(t, uint64(InitialVirtualSol), bc.VirtualSolReserves)
	require.Equal(t, uint64(InitialVirtualTokens), bc.VirtualTokenReserves)
	require.Zero(t, bc.RealSolReserves)
	require.Zero(t, bc.CreatorFeesOwed)
	require.False(t, bc.IsCompleted)

	// Creation fee reached the treasury.
	require.Equal(t, treasuryBefore+DefaultCreationFeeLamports, e.lamports(e.treasury))

	// The whole supply sits in the curve vault and minting rights belong to
	// the curve, not the creator.
	txn := e.eng.store.Begin()
	defer txn.Discard()
	vaultBal, err := ledger.TokenBalance(txn, res.TokenVault)
	require.NoError(t, err)
	require.Equal(t, uint64(TotalSupply), vaultBal)
	m, err := ledger.GetMint(txn, res.Mint)
	require.NoError(t, err)
	require.True(t, m.MintAuthority.Equals(res.Curve))
	require.Equal(t, uint64(TotalSupply), m.Supply)
	require.Equal(t, uint8(TokenDecimals), m.Decimals)
}

func TestCreateValidatesMetadata(t *testing.T) {
	e := newEnv(t)
	creator := e.wallet(2 * lamportsPerSol)
	ctx := context.Background()

	_, err := e.eng.Create(ctx, creator, "", "TEST")
	require.ErrorIs(t, err, ErrInvalidMetadata)

	_, err = e.eng.Create(ctx, creator, strings.Repeat("x", MaxNameLen+1), "TEST")
	require.ErrorIs(t, err, ErrInvalidMetadata)

	_, err = e.eng.Create(ctx, creator, "Test Token", "")
	require.ErrorIs(t, err, ErrInvalidMetadata)

	_, err = e.eng.Create(ctx, creator, "Test Token", strings.Repeat("X", MaxSymbolLen+1))
	require.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestCreateRejectedWhenPaused(t *testing.T) {
	e := newEnv(t)
	cfg, err := e.eng.Config()
	require.NoError(t, err)
	next := *cfg
	next.IsPaused = true
	_, err = e.eng.UpdateConfig(context.Background(), e.gov, next)
	require.NoError(t, err)

	creator := e.wallet(2 * lamportsPerSol)
	_, err = e.eng.Create(context.Background(), creator, "Test Token", "TEST")
	require.ErrorIs(t, err, ErrPaused)
}

func TestCreateInsufficientFunds(t *testing.T) {
	e := newEnv(t)
	// Enough for the creation fee but not the account rents behind it.
	creator := e.wallet(DefaultCreationFeeLamports)
	balBefore := e.lamports(creator)

	_, err := e.eng.Create(context.Background(), creator, "Test Token", "TEST")
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// Nothing was charged: the failed operation left no partial state.
	require.Equal(t, balBefore, e.lamports(creator))
	addr, err := state.ConfigAddress()
	require.NoError(t, err)
	ok, err := e.eng.AccountExists(addr)
	require.NoError(t, err)
	require.True(t, ok)
}
