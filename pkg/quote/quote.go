// Package quote turns raw curve state into display-side numbers: spot price,
// trade previews, and migration progress. Everything here is advisory; the
// engine re-quotes inside the operation and the caller's minimum-output bound
// is the only number that can protect an execution.
package quote

import (
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/solana-launchpad/internal/curve"
	"github.com/rovshanmuradov/solana-launchpad/internal/state"
)

var (
	lamportsPerSol = decimal.New(1, 9)
	unitsPerToken  = decimal.New(1, 6)
	hundred        = decimal.New(100, 0)
)

// Sol converts lamports to a SOL display amount.
func Sol(lamports uint64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).Div(lamportsPerSol)
}

// Tokens converts raw token units to a whole-token display amount.
func Tokens(units uint64) decimal.Decimal {
	return decimal.NewFromUint64(units).Div(unitsPerToken)
}

// SpotPrice returns the instantaneous SOL price of one whole token at the
// curve's current virtual reserves.
func SpotPrice(bc *state.BondingCurve) decimal.Decimal {
	if bc.VirtualTokenReserves == 0 {
		return decimal.Zero
	}
	return Sol(bc.VirtualSolReserves).Div(Tokens(bc.VirtualTokenReserves))
}

// TradeEstimate previews a trade at the current reserves.
type TradeEstimate struct {
	// Tokens bought or sold, in whole tokens.
	Tokens decimal.Decimal
	// SolNet is the fee-net SOL side of the trade: spent reserves on a buy,
	// received on a sell.
	SolNet decimal.Decimal
	// Fee is the total protocol-plus-creator fee in SOL.
	Fee decimal.Decimal
}

// EstimateBuy previews buying with solIn lamports.
func EstimateBuy(bc *state.BondingCurve, cfg *state.ProtocolConfig, solIn uint64) (*TradeEstimate, error) {
	creatorFee, treasuryFee := curve.SplitFees(solIn, cfg.TradeFeeBps, cfg.CreatorShareBps)
	net := solIn - creatorFee - treasuryFee
	out, err := curve.QuoteBuy(bc.VirtualSolReserves, bc.VirtualTokenReserves, net)
	if err != nil {
		return nil, err
	}
	return &TradeEstimate{
		Tokens: Tokens(out),
		SolNet: Sol(net),
		Fee:    Sol(creatorFee + treasuryFee),
	}, nil
}

// EstimateSell previews selling tokensIn raw token units.
func EstimateSell(bc *state.BondingCurve, cfg *state.ProtocolConfig, tokensIn uint64) (*TradeEstimate, error) {
	gross, err := curve.QuoteSell(bc.VirtualSolReserves, bc.VirtualTokenReserves, tokensIn)
	if err != nil {
		return nil, err
	}
	creatorFee, treasuryFee := curve.SplitFees(gross, cfg.TradeFeeBps, cfg.CreatorShareBps)
	return &TradeEstimate{
		Tokens: Tokens(tokensIn),
		SolNet: Sol(gross - creatorFee - treasuryFee),
		Fee:    Sol(creatorFee + treasuryFee),
	}, nil
}

// MigrationProgress returns how far the curve's real reserves are toward the
// migration threshold, as a percentage capped at 100.
func MigrationProgress(bc *state.BondingCurve, cfg *state.ProtocolConfig) decimal.Decimal {
	if cfg.MigrationThreshold == 0 || bc.IsCompleted {
		return hundred
	}
	pct := decimal.NewFromUint64(bc.RealSolReserves).
		Mul(hundred).
		Div(decimal.NewFromUint64(cfg.MigrationThreshold))
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
