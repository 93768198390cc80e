package engine

import (
	"context"

	"cosmossdk.io/errors"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	"github.com/rovshanmuradov/solana-launchpad/internal/ledger"
	"github.com/rovshanmuradov/solana-launchpad/internal/state"
)

// InitializeDexPool allocates the empty receiving pool for a curve: the pool
// record, its settlement and token vaults, and the liquidity mint. Anyone may
// pay for it, once per token, any time before migration. Pool existence is
// the compare-and-set guard that lets CompleteAndMigrate run exactly once.
func (e *Engine) InitializeDexPool(ctx context.Context, payer, mint solana.PublicKey) (solana.PublicKey, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	txn := e.store.Begin()
	defer txn.Discard()

	bc, _, err := loadCurve(txn, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if bc.IsCompleted {
		return solana.PublicKey{}, ErrCurveCompleted
	}

	poolAddr, err := state.PoolAddress(mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if ok, err := txn.Has(poolAddr); err != nil {
		return solana.PublicKey{}, err
	} else if ok {
		return solana.PublicKey{}, errors.Wrapf(ErrAlreadyInitialized, "dex pool for %s", mint)
	}

	solVault, err := state.PoolSolVaultAddress(mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	lpMint, err := state.LpMintAddress(mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	tokenVault, err := state.AssociatedTokenAddress(poolAddr, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	lpVault, err := state.AssociatedTokenAddress(poolAddr, lpMint)
	if err != nil {
		return solana.PublicKey{}, err
	}

	if err := ledger.Create(txn, payer, solVault, state.ProgramID, nil); err != nil {
		return solana.PublicKey{}, wrapLedgerErr(err)
	}
	if err := ledger.CreateMint(txn, payer, lpMint, poolAddr, TokenDecimals); err != nil {
		return solana.PublicKey{}, wrapLedgerErr(err)
	}
	if err := ledger.CreateTokenAccount(txn, payer, tokenVault, mint, poolAddr); err != nil {
		return solana.PublicKey{}, wrapLedgerErr(err)
	}
	if err := ledger.CreateTokenAccount(txn, payer, lpVault, lpMint, poolAddr); err != nil {
		return solana.PublicKey{}, wrapLedgerErr(err)
	}

	pool := &state.DexPool{
		TokenMint:  mint,
		TokenVault: tokenVault,
		SolVault:   solVault,
		LpMint:     lpMint,
		LpVault:    lpVault,
	}
	data, err := pool.Marshal()
	if err != nil {
		return solana.PublicKey{}, err
	}
	if err := ledger.Create(txn, payer, poolAddr, state.ProgramID, data); err != nil {
		return solana.PublicKey{}, wrapLedgerErr(err)
	}

	if err := txn.Commit(); err != nil {
		return solana.PublicKey{}, err
	}

	e.logger.Info("DEX pool initialized",
		zap.String("mint", mint.String()),
		zap.String("pool", poolAddr.String()),
		zap.String("payer", payer.String()))
	e.publish(ctx, events.DexPoolInitializedEvent{
		BaseEvent: e.base(events.DexPoolInitialized),
		Mint:      mint,
		Pool:      poolAddr,
		Payer:     payer,
	})
	return poolAddr, nil
}

// MigrateResult reports the liquidity moved into the pool.
type MigrateResult struct {
	Pool          solana.PublicKey
	SolReserves   uint64
	TokenReserves uint64
}

// CompleteAndMigrate performs the one-time, irreversible migration: the
// entire vault balance and every curve lamport above the curve account's own
// rent minimum move into the DEX pool, the token vault closes with its rent
// going to the creator, and the curve is frozen. The move only relocates
// funds: the lamport total across the curve account and the pool's
// settlement vault is identical before and after.
func (e *Engine) CompleteAndMigrate(ctx context.Context, caller, mint solana.PublicKey) (*MigrateResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	txn := e.store.Begin()
	defer txn.Discard()

	cfg, _, err := loadConfig(txn)
	if err != nil {
		return nil, err
	}
	bc, curveAddr, err := loadCurve(txn, mint)
	if err != nil {
		return nil, err
	}
	if !bc.Creator.Equals(caller) {
		return nil, errors.Wrapf(ErrUnauthorized, "caller %s is not the curve creator", caller)
	}
	if bc.IsCompleted {
		return nil, ErrCurveCompleted
	}
	if bc.RealSolReserves < cfg.MigrationThreshold {
		return nil, errors.Wrapf(ErrThresholdNotMet, "real reserves %d, threshold %d",
			bc.RealSolReserves, cfg.MigrationThreshold)
	}
	pool, poolAddr, err := loadPool(txn, mint)
	if err != nil {
		return nil, err
	}

	tokensToDeposit, err := ledger.TokenBalance(txn, bc.TokenVault)
	if err != nil {
		return nil, err
	}
	solToDeposit := bc.RealSolReserves

	if err := ledger.TransferTokens(txn, curveAddr, bc.TokenVault, pool.TokenVault, tokensToDeposit); err != nil {
		return nil, wrapLedgerErr(err)
	}
	if err := ledger.CloseTokenAccount(txn, curveAddr, bc.TokenVault, bc.Creator); err != nil {
		return nil, err
	}

	// Locked-liquidity bookkeeping: mint the fixed LP amount to the pool's
	// own vault and burn it in the same breath.
	if err := ledger.MintTo(txn, pool.LpMint, poolAddr, pool.LpVault, lpLockAmount); err != nil {
		return nil, err
	}
	if err := ledger.Burn(txn, pool.LpMint, poolAddr, pool.LpVault, lpLockAmount); err != nil {
		return nil, err
	}

	// Sweep the curve's lamports into the pool's settlement vault, keeping
	// only the curve account's rent so the frozen record survives. This
	// includes any unclaimed creator fees; the claim window closed here.
	curveAcct, ok, err := ledger.Get(txn, curveAddr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCurveNotFound
	}
	rentFloor := ledger.RentExemptMinimum(len(curveAcct.Data))
	if curveAcct.Lamports > rentFloor {
		if err := ledger.Transfer(txn, curveAddr, pool.SolVault, curveAcct.Lamports-rentFloor); err != nil {
			return nil, wrapLedgerErr(err)
		}
	}

	pool.SolReserves = solToDeposit
	pool.TokenReserves = tokensToDeposit
	pool.LpMinted = lpLockAmount
	pool.LpBurned = lpLockAmount
	if err := savePool(txn, poolAddr, pool); err != nil {
		return nil, err
	}

	bc.IsCompleted = true
	bc.CreatorFeesOwed = 0
	bc.DexPool = poolAddr
	if err := saveCurve(txn, curveAddr, bc); err != nil {
		return nil, err
	}

	if err := txn.Commit(); err != nil {
		return nil, err
	}

	e.logger.Info("Curve migrated",
		zap.String("mint", mint.String()),
		zap.String("pool", poolAddr.String()),
		zap.Uint64("sol_reserves", solToDeposit),
		zap.Uint64("token_reserves", tokensToDeposit))
	e.publish(ctx, events.CurveMigratedEvent{
		BaseEvent:     e.base(events.CurveMigrated),
		Mint:          mint,
		Pool:          poolAddr,
		SolReserves:   solToDeposit,
		TokenReserves: tokensToDeposit,
	})
	return &MigrateResult{Pool: poolAddr, SolReserves: solToDeposit, TokenReserves: tokensToDeposit}, nil
}
