// Package curve implements the constant-product pricing math for the
// launchpad bonding curves. All authoritative arithmetic runs on big.Int
// widened to 128 bits; floating point never touches these functions.
package curve

import (
	"errors"
	"math/big"
)

const (
	// FeeDenominator is the basis-point denominator for all fee rates.
	FeeDenominator = 10_000

	// TokenDecimals is the fractional precision of every curve-issued token.
	TokenDecimals = 6

	// SolDecimals is the fractional precision of the settlement asset.
	SolDecimals = 9
)

var (
	ErrZeroReserves = errors.New("curve: zero virtual reserves")
	ErrZeroAmount   = errors.New("curve: amount must be positive")
)

// K returns the constant-product invariant virtualSol * virtualToken.
func K(virtualSol, virtualToken uint64) *big.Int {
	return new(big.Int).Mul(
		new(big.Int).SetUint64(virtualSol),
		new(big.Int).SetUint64(virtualToken),
	)
}

// QuoteBuy returns the token amount paid out for solIn lamports added to the
// curve: tokensOut = y - k/(x + solIn). Rounds down, in favour of the curve.
// solIn must already be net of fees.
func QuoteBuy(virtualSol, virtualToken, solIn uint64) (uint64, error) {
	if virtualSol == 0 || virtualToken == 0 {
		return 0, ErrZeroReserves
	}
	if solIn == 0 {
		return 0, ErrZeroAmount
	}
	k := K(virtualSol, virtualToken)
	newSol := new(big.Int).Add(new(big.Int).SetUint64(virtualSol), new(big.Int).SetUint64(solIn))
	newToken := new(big.Int).Quo(k, newSol)
	out := new(big.Int).Sub(new(big.Int).SetUint64(virtualToken), newToken)
	if out.Sign() < 0 {
		out.SetUint64(0)
	}
	return out.Uint64(), nil
}

// QuoteSell returns the gross lamport payout for tokensIn added back to the
// curve: solOut = x - ceil(k/(y + tokensIn)). The ceiling division keeps the
// invariant non-decreasing, so rounding dust stays in the reserves.
func QuoteSell(virtualSol, virtualToken, tokensIn uint64) (uint64, error) {
	if virtualSol == 0 || virtualToken == 0 {
		return 0, ErrZeroReserves
	}
	if tokensIn == 0 {
		return 0, ErrZeroAmount
	}
	k := K(virtualSol, virtualToken)
	newToken := new(big.Int).Add(new(big.Int).SetUint64(virtualToken), new(big.Int).SetUint64(tokensIn))
	// ceil(k / newToken)
	newSol := new(big.Int).Add(k, new(big.Int).Sub(newToken, big.NewInt(1)))
	newSol.Quo(newSol, newToken)
	out := new(big.Int).Sub(new(big.Int).SetUint64(virtualSol), newSol)
	if out.Sign() < 0 {
		out.SetUint64(0)
	}
	return out.Uint64(), nil
}

// SplitFees splits a gross amount into creator and treasury fee portions.
// totalBps is the full trade fee in basis points; creatorShareBps is the
// slice of totalBps that accrues to the curve creator, the remainder goes to
// the protocol treasury. Integer arithmetic, rounding down at each step.
func SplitFees(amount, totalBps, creatorShareBps uint64) (creatorFee, treasuryFee uint64) {
	if totalBps == 0 || amount == 0 {
		return 0, 0
	}
	totalFee := new(big.Int).Mul(new(big.Int).SetUint64(amount), new(big.Int).SetUint64(totalBps))
	totalFee.Quo(totalFee, big.NewInt(FeeDenominator))
	if totalFee.Sign() == 0 {
		return 0, 0
	}
	cf := new(big.Int).Mul(totalFee, new(big.Int).SetUint64(creatorShareBps))
	cf.Quo(cf, new(big.Int).SetUint64(totalBps))
	tf := new(big.Int).Sub(totalFee, cf)
	return cf.Uint64(), tf.Uint64()
}
