package quote

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-launchpad/internal/state"
)

func freshCurve() *state.BondingCurve {
	return &state.BondingCurve{
		VirtualSolReserves:   1_000_000_000,
		VirtualTokenReserves: 100_000 * 1_000_000,
	}
}

func defaultConfig() *state.ProtocolConfig {
	return &state.ProtocolConfig{
		TradeFeeBps:        30,
		CreatorShareBps:    10,
		MigrationThreshold: 50_000_000_000,
	}
}

func TestSpotPriceFreshCurve(t *testing.T) {
	// 1 SOL over 100k tokens: 0.00001 SOL per token.
	got := SpotPrice(freshCurve())
	require.True(t, got.Equal(decimal.RequireFromString("0.00001")), got.String())

	require.True(t, SpotPrice(&state.BondingCurve{}).IsZero())
}

func TestEstimateBuyMatchesExecutionNumbers(t *testing.T) {
	est, err := EstimateBuy(freshCurve(), defaultConfig(), 1_000_000_000)
	require.NoError(t, err)
	require.True(t, est.Tokens.Equal(decimal.RequireFromString("49924.887331")), est.Tokens.String())
	require.True(t, est.SolNet.Equal(decimal.RequireFromString("0.997")), est.SolNet.String())
	require.True(t, est.Fee.Equal(decimal.RequireFromString("0.003")), est.Fee.String())
}

func TestEstimateSellNetOfFees(t *testing.T) {
	bc := freshCurve()
	bc.VirtualSolReserves = 1_997_000_000
	bc.VirtualTokenReserves = 50_075_112_669

	est, err := EstimateSell(bc, defaultConfig(), 49_924_887_331)
	require.NoError(t, err)
	require.True(t, est.SolNet.Equal(decimal.RequireFromString("0.994009")), est.SolNet.String())
	require.True(t, est.Fee.Equal(decimal.RequireFromString("0.002991")), est.Fee.String())
}

func TestMigrationProgress(t *testing.T) {
	bc := freshCurve()
	cfg := defaultConfig()

	require.True(t, MigrationProgress(bc, cfg).IsZero())

	bc.RealSolReserves = 25_000_000_000
	require.True(t, MigrationProgress(bc, cfg).Equal(decimal.New(50, 0)))

	bc.RealSolReserves = 60_000_000_000
	require.True(t, MigrationProgress(bc, cfg).Equal(decimal.New(100, 0)))

	bc.IsCompleted = true
	bc.RealSolReserves = 0
	require.True(t, MigrationProgress(bc, cfg).Equal(decimal.New(100, 0)))
}
