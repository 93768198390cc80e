package engine

import (
	stderrors "errors"

	"cosmossdk.io/errors"

	"github.com/rovshanmuradov/solana-launchpad/internal/ledger"
)

// Codespace scopes the engine's registered error codes.
const Codespace = "launchpad"

// Engine sentinel errors. Every operation failure resolves to one of these;
// callers branch with errors.Is and decide whether a resubmission makes sense
// (slippage, expiry) or not (unauthorized, completed).
var (
	ErrNotInitialized      = errors.Register(Codespace, 2, "protocol config not initialized")
	ErrAlreadyInitialized  = errors.Register(Codespace, 3, "already initialized")
	ErrUnauthorized        = errors.Register(Codespace, 4, "caller is not the required authority")
	ErrPaused              = errors.Register(Codespace, 5, "protocol is paused")
	ErrExpired             = errors.Register(Codespace, 6, "transaction deadline exceeded")
	ErrSlippageExceeded    = errors.Register(Codespace, 7, "output amount below caller's minimum")
	ErrThresholdNotMet     = errors.Register(Codespace, 8, "real reserves below migration threshold")
	ErrCurveCompleted      = errors.Register(Codespace, 9, "bonding curve has migrated, trading is locked")
	ErrInsufficientBalance = errors.Register(Codespace, 10, "insufficient balance")
	ErrTradeTooSmall       = errors.Register(Codespace, 11, "trade amount below minimum")
	ErrInvalidMetadata     = errors.Register(Codespace, 12, "invalid token metadata")
	ErrPoolNotInitialized  = errors.Register(Codespace, 13, "dex pool not initialized")
	ErrCurveNotFound       = errors.Register(Codespace, 14, "bonding curve not found")
)

// wrapLedgerErr maps host-environment failures onto the engine's typed
// errors where callers care about the distinction.
func wrapLedgerErr(err error) error {
	switch {
	case stderrors.Is(err, ledger.ErrInsufficientLamports),
		stderrors.Is(err, ledger.ErrInsufficientTokens):
		return errors.Wrap(ErrInsufficientBalance, err.Error())
	case stderrors.Is(err, ledger.ErrAccountExists):
		return errors.Wrap(ErrAlreadyInitialized, err.Error())
	}
	return err
}
