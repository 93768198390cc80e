package state

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDADerivation_Deterministic(t *testing.T) {
	mint := solana.NewWallet().PublicKey()

	a1, err := CurveAddress(mint)
	require.NoError(t, err)
	a2, err := CurveAddress(mint)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)

	other := solana.NewWallet().PublicKey()
	a3, err := CurveAddress(other)
	require.NoError(t, err)
	assert.NotEqual(t, a1, a3)

	// Different seed tags for the same mint never collide.
	pool, err := PoolAddress(mint)
	require.NoError(t, err)
	vault, err := PoolSolVaultAddress(mint)
	require.NoError(t, err)
	lp, err := LpMintAddress(mint)
	require.NoError(t, err)
	assert.NotEqual(t, a1, pool)
	assert.NotEqual(t, pool, vault)
	assert.NotEqual(t, vault, lp)
}

func TestBondingCurve_CodecRejectsWrongRecord(t *testing.T) {
	curve := &BondingCurve{
		Creator:              solana.NewWallet().PublicKey(),
		TokenMint:            solana.NewWallet().PublicKey(),
		TokenVault:           solana.NewWallet().PublicKey(),
		VirtualSolReserves:   1_000_000_000,
		VirtualTokenReserves: 100_000_000_000,
	}
	data, err := curve.Marshal()
	require.NoError(t, err)

	var back BondingCurve
	require.NoError(t, back.Unmarshal(data))
	assert.Equal(t, *curve, back)

	// A DexPool blob must not decode as a curve: the discriminator guards
	// against reading one record type at another record's address.
	pool := &DexPool{TokenMint: curve.TokenMint}
	poolData, err := pool.Marshal()
	require.NoError(t, err)
	assert.Error(t, back.Unmarshal(poolData))
}
