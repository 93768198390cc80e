package engine

import (
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-launchpad/internal/ledger"
	"github.com/rovshanmuradov/solana-launchpad/internal/state"
)

// Read-only snapshots for wallets, UIs and indexers. A snapshot can be stale
// the moment it is returned; operations rely only on their own in-transaction
// reads plus the caller's minimum-output and deadline guards.

// Config returns the current ProtocolConfig.
func (e *Engine) Config() (*state.ProtocolConfig, error) {
	txn := e.store.Begin()
	defer txn.Discard()
	cfg, _, err := loadConfig(txn)
	return cfg, err
}

// Curve returns the bonding curve record for a mint.
func (e *Engine) Curve(mint solana.PublicKey) (*state.BondingCurve, error) {
	txn := e.store.Begin()
	defer txn.Discard()
	bc, _, err := loadCurve(txn, mint)
	return bc, err
}

// Pool returns the DEX pool record for a mint.
func (e *Engine) Pool(mint solana.PublicKey) (*state.DexPool, error) {
	txn := e.store.Begin()
	defer txn.Discard()
	p, _, err := loadPool(txn, mint)
	return p, err
}

// MigrationReady reports whether the curve's real reserves have crossed the
// configured threshold. Pure predicate; crossing it changes no state.
func (e *Engine) MigrationReady(mint solana.PublicKey) (bool, error) {
	txn := e.store.Begin()
	defer txn.Discard()
	cfg, _, err := loadConfig(txn)
	if err != nil {
		return false, err
	}
	bc, _, err := loadCurve(txn, mint)
	if err != nil {
		return false, err
	}
	return !bc.IsCompleted && bc.RealSolReserves >= cfg.MigrationThreshold, nil
}

// Lamports returns the lamport balance at an address; missing reads as zero.
func (e *Engine) Lamports(addr solana.PublicKey) (uint64, error) {
	txn := e.store.Begin()
	defer txn.Discard()
	return ledger.Lamports(txn, addr)
}

// TokenBalance returns owner's associated-token-account balance for mint.
func (e *Engine) TokenBalance(owner, mint solana.PublicKey) (uint64, error) {
	txn := e.store.Begin()
	defer txn.Discard()
	ta, err := state.AssociatedTokenAddress(owner, mint)
	if err != nil {
		return 0, err
	}
	return ledger.TokenBalance(txn, ta)
}

// AccountExists reports whether any account lives at addr.
func (e *Engine) AccountExists(addr solana.PublicKey) (bool, error) {
	txn := e.store.Begin()
	defer txn.Discard()
	return txn.Has(addr)
}

// Fund credits lamports to an address outside any operation. Simulation and
// test setup only; a deployment funds accounts through its own faucet.
func (e *Engine) Fund(addr solana.PublicKey, lamports uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	txn := e.store.Begin()
	defer txn.Discard()
	if err := ledger.Fund(txn, addr, lamports); err != nil {
		return err
	}
	return txn.Commit()
}
