package state

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ProgramID is the engine's own program identity; every record PDA is derived
// under it, so record addresses are deterministic and collision-free.
var ProgramID = solana.MustPublicKeyFromBase58("E61ngnb26CrW5CHtx2gAWzKhnJ5o6TMDVFoNS9Lhr62g")

// Seed tags. Changing any of these is a state-breaking migration.
const (
	seedProtocolConfig = "protocol_config"
	seedBondingCurve   = "bonding_curve"
	seedDexPool        = "dex_pool"
	seedDexSolVault    = "dex_sol_vault"
	seedLpMint         = "lp_mint"
)

func derive(seeds ...[]byte) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(seeds, ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive program address: %w", err)
	}
	return addr, nil
}

// ConfigAddress returns the singleton ProtocolConfig address.
func ConfigAddress() (solana.PublicKey, error) {
	return derive([]byte(seedProtocolConfig))
}

// CurveAddress returns the BondingCurve address for a token mint.
func CurveAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	return derive([]byte(seedBondingCurve), mint.Bytes())
}

// PoolAddress returns the DexPool address for a token mint.
func PoolAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	return derive([]byte(seedDexPool), mint.Bytes())
}

// PoolSolVaultAddress returns the pool's settlement-asset vault address.
func PoolSolVaultAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	return derive([]byte(seedDexSolVault), mint.Bytes())
}

// LpMintAddress returns the liquidity-position mint address for a pool.
func LpMintAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	return derive([]byte(seedLpMint), mint.Bytes())
}

// AssociatedTokenAddress returns the canonical token account of owner for
// mint, derived under the associated-token program like any SPL wallet.
func AssociatedTokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive associated token address: %w", err)
	}
	return addr, nil
}
