package engine

import (
	"context"
	"time"

	"cosmossdk.io/errors"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/curve"
	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	"github.com/rovshanmuradov/solana-launchpad/internal/ledger"
)

// TradeResult reports the settled amounts of a buy or sell.
type TradeResult struct {
	// TokensOut (buy) or TokensIn (sell), in raw token units.
	Tokens uint64
	// SolNet is the fee-net lamport amount: what entered the reserves on a
	// buy, or what the seller received on a sell.
	SolNet uint64
	// Fee breakdown of the trade.
	CreatorFee  uint64
	TreasuryFee uint64
}

// Buy swaps solIn lamports for curve tokens. The protocol and creator fees
// come out of solIn first; the quote runs on the remainder. The operation
// aborts on a stale deadline or when the quote falls below minTokensOut, so
// a resubmission after someone else moves the price can never execute at
// worse than the caller's floor.
func (e *Engine) Buy(ctx context.Context, buyer, mint solana.PublicKey, solIn, minTokensOut uint64, deadline time.Time) (*TradeResult, error) {
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
	if bc.IsCompleted {
		return nil, ErrCurveCompleted
	}
	if cfg.IsPaused {
		return nil, ErrPaused
	}
	if e.now().After(deadline) {
		return nil, errors.Wrapf(ErrExpired, "deadline %s", deadline.UTC().Format(time.RFC3339))
	}
	if solIn < MinSolTradeAmount {
		return nil, errors.Wrapf(ErrTradeTooSmall, "sol in %d, minimum %d", solIn, MinSolTradeAmount)
	}

	creatorFee, treasuryFee := curve.SplitFees(solIn, cfg.TradeFeeBps, cfg.CreatorShareBps)
	netSolIn := solIn - creatorFee - treasuryFee

	tokensOut, err := curve.QuoteBuy(bc.VirtualSolReserves, bc.VirtualTokenReserves, netSolIn)
	if err != nil {
		return nil, err
	}
	if tokensOut < minTokensOut {
		return nil, errors.Wrapf(ErrSlippageExceeded, "quoted %d, floor %d", tokensOut, minTokensOut)
	}

	// Settlement: net + creator fee lands on the curve account (the accrued
	// creator fee is claimable later), treasury fee goes straight out.
	if err := ledger.Transfer(txn, buyer, curveAddr, netSolIn+creatorFee); err != nil {
		return nil, wrapLedgerErr(err)
	}
	if err := ledger.Transfer(txn, buyer, cfg.Treasury, treasuryFee); err != nil {
		return nil, wrapLedgerErr(err)
	}

	buyerTA, err := ledger.EnsureAssociatedTokenAccount(txn, buyer, buyer, mint)
	if err != nil {
		return nil, wrapLedgerErr(err)
	}
	if err := ledger.TransferTokens(txn, curveAddr, bc.TokenVault, buyerTA, tokensOut); err != nil {
		return nil, wrapLedgerErr(err)
	}

	bc.VirtualSolReserves += netSolIn
	bc.VirtualTokenReserves -= tokensOut
	bc.RealSolReserves += netSolIn
	bc.CreatorFeesOwed += creatorFee
	if err := saveCurve(txn, curveAddr, bc); err != nil {
		return nil, err
	}

	if err := txn.Commit(); err != nil {
		return nil, err
	}

	e.logger.Debug("Buy executed",
		zap.String("mint", mint.String()),
		zap.String("buyer", buyer.String()),
		zap.Uint64("sol_in", solIn),
		zap.Uint64("tokens_out", tokensOut),
		zap.Uint64("real_sol_reserves", bc.RealSolReserves))
	e.publish(ctx, events.BuyExecutedEvent{
		BaseEvent: e.base(events.BuyExecuted),
		Mint:      mint,
		Buyer:     buyer,
		SolIn:     solIn,
		TokensOut: tokensOut,
	})
	return &TradeResult{
		Tokens:      tokensOut,
		SolNet:      netSolIn,
		CreatorFee:  creatorFee,
		TreasuryFee: treasuryFee,
	}, nil
}

// Sell swaps curve tokens back into lamports. The gross payout is quoted
// first; fees come out of the payout, and the net must clear minSolOut.
func (e *Engine) Sell(ctx context.Context, seller, mint solana.PublicKey, tokensIn, minSolOut uint64, deadline time.Time) (*TradeResult, error) {
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
	if bc.IsCompleted {
		return nil, ErrCurveCompleted
	}
	if cfg.IsPaused {
		return nil, ErrPaused
	}
	if e.now().After(deadline) {
		return nil, errors.Wrapf(ErrExpired, "deadline %s", deadline.UTC().Format(time.RFC3339))
	}
	if tokensIn == 0 {
		return nil, errors.Wrap(ErrTradeTooSmall, "zero tokens in")
	}

	grossSolOut, err := curve.QuoteSell(bc.VirtualSolReserves, bc.VirtualTokenReserves, tokensIn)
	if err != nil {
		return nil, err
	}
	if grossSolOut < MinSolTradeAmount {
		return nil, errors.Wrapf(ErrTradeTooSmall, "gross payout %d, minimum %d", grossSolOut, MinSolTradeAmount)
	}
	if bc.RealSolReserves < grossSolOut {
		return nil, errors.Wrapf(ErrInsufficientBalance, "reserves %d, payout %d", bc.RealSolReserves, grossSolOut)
	}

	creatorFee, treasuryFee := curve.SplitFees(grossSolOut, cfg.TradeFeeBps, cfg.CreatorShareBps)
	netSolOut := grossSolOut - creatorFee - treasuryFee
	if netSolOut < minSolOut {
		return nil, errors.Wrapf(ErrSlippageExceeded, "net payout %d, floor %d", netSolOut, minSolOut)
	}

	sellerTA, err := ledger.EnsureAssociatedTokenAccount(txn, seller, seller, mint)
	if err != nil {
		return nil, wrapLedgerErr(err)
	}
	if err := ledger.TransferTokens(txn, seller, sellerTA, bc.TokenVault, tokensIn); err != nil {
		return nil, wrapLedgerErr(err)
	}

	// The creator fee slice of the payout stays on the curve account as an
	// accrued claim; only the net and the treasury fee leave it.
	if err := ledger.Transfer(txn, curveAddr, seller, netSolOut); err != nil {
		return nil, wrapLedgerErr(err)
	}
	if err := ledger.Transfer(txn, curveAddr, cfg.Treasury, treasuryFee); err != nil {
		return nil, wrapLedgerErr(err)
	}

	bc.VirtualSolReserves -= grossSolOut
	bc.VirtualTokenReserves += tokensIn
	bc.RealSolReserves -= grossSolOut
	bc.CreatorFeesOwed += creatorFee
	if err := saveCurve(txn, curveAddr, bc); err != nil {
		return nil, err
	}

	if err := txn.Commit(); err != nil {
		return nil, err
	}

	e.logger.Debug("Sell executed",
		zap.String("mint", mint.String()),
		zap.String("seller", seller.String()),
		zap.Uint64("tokens_in", tokensIn),
		zap.Uint64("sol_out", netSolOut),
		zap.Uint64("real_sol_reserves", bc.RealSolReserves))
	e.publish(ctx, events.SellExecutedEvent{
		BaseEvent: e.base(events.SellExecuted),
		Mint:      mint,
		Seller:    seller,
		TokensIn:  tokensIn,
		SolOut:    netSolOut,
	})
	return &TradeResult{
		Tokens:      tokensIn,
		SolNet:      netSolOut,
		CreatorFee:  creatorFee,
		TreasuryFee: treasuryFee,
	}, nil
}
