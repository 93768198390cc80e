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

// CreateResult reports the identities allocated for a new token.
type CreateResult struct {
	Mint       solana.PublicKey
	Curve      solana.PublicKey
	TokenVault solana.PublicKey
}

// Create issues a new token and its bonding curve. The creator pays the
// creation fee plus rent for the mint, curve, and vault accounts. The whole
// supply is minted into the curve's vault and the mint authority is handed
// to the curve itself, so nothing outside the engine can inflate the token.
func (e *Engine) Create(ctx context.Context, creator solana.PublicKey, name, symbol string) (*CreateResult, error) {
	if name == "" || len(name) > MaxNameLen {
		return nil, errors.Wrapf(ErrInvalidMetadata, "name length %d, want 1..%d", len(name), MaxNameLen)
	}
	if symbol == "" || len(symbol) > MaxSymbolLen {
		return nil, errors.Wrapf(ErrInvalidMetadata, "symbol length %d, want 1..%d", len(symbol), MaxSymbolLen)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	txn := e.store.Begin()
	defer txn.Discard()

	cfg, _, err := loadConfig(txn)
	if err != nil {
		return nil, err
	}
	if cfg.IsPaused {
		return nil, ErrPaused
	}

	mint := solana.NewWallet().PublicKey()
	curveAddr, err := state.CurveAddress(mint)
	if err != nil {
		return nil, err
	}
	vaultAddr, err := state.AssociatedTokenAddress(curveAddr, mint)
	if err != nil {
		return nil, err
	}

	if err := ledger.Transfer(txn, creator, cfg.Treasury, cfg.CreationFeeLamports); err != nil {
		return nil, wrapLedgerErr(err)
	}

	if err := ledger.CreateMint(txn, creator, mint, creator, TokenDecimals); err != nil {
		return nil, wrapLedgerErr(err)
	}

	bc := &state.BondingCurve{
		Creator:              creator,
		TokenMint:            mint,
		TokenVault:           vaultAddr,
		VirtualSolReserves:   InitialVirtualSol,
		VirtualTokenReserves: InitialVirtualTokens,
	}
	data, err := bc.Marshal()
	if err != nil {
		return nil, err
	}
	if err := ledger.Create(txn, creator, curveAddr, state.ProgramID, data); err != nil {
		return nil, wrapLedgerErr(err)
	}

	if err := ledger.CreateTokenAccount(txn, creator, vaultAddr, mint, curveAddr); err != nil {
		return nil, wrapLedgerErr(err)
	}

	// Hand minting rights to the curve, then mint the full supply into the
	// vault under that authority.
	if err := ledger.SetMintAuthority(txn, mint, creator, curveAddr); err != nil {
		return nil, err
	}
	if err := ledger.MintTo(txn, mint, curveAddr, vaultAddr, TotalSupply); err != nil {
		return nil, err
	}

	if err := txn.Commit(); err != nil {
		return nil, err
	}

	e.logger.Info("Token created",
		zap.String("mint", mint.String()),
		zap.String("creator", creator.String()),
		zap.String("curve", curveAddr.String()),
		zap.String("name", name),
		zap.String("symbol", symbol))
	e.publish(ctx, events.TokenCreatedEvent{
		BaseEvent: e.base(events.TokenCreated),
		Mint:      mint,
		Creator:   creator,
		Curve:     curveAddr,
		Name:      name,
		Symbol:    symbol,
	})
	return &CreateResult{Mint: mint, Curve: curveAddr, TokenVault: vaultAddr}, nil
}
