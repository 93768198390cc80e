package engine

import (
	"context"

	"cosmossdk.io/errors"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	"github.com/rovshanmuradov/solana-launchpad/internal/ledger"
)

// ClaimCreatorFees pays the curve's accrued creator fees to the creator and
// resets the balance. Only the creator may call. A zero balance is a valid
// call that moves nothing. Claims stop once the curve has migrated; unclaimed
// fees at migration are swept into the pool with the rest of the liquidity.
func (e *Engine) ClaimCreatorFees(ctx context.Context, caller, mint solana.PublicKey) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	txn := e.store.Begin()
	defer txn.Discard()

	bc, curveAddr, err := loadCurve(txn, mint)
	if err != nil {
		return 0, err
	}
	if !bc.Creator.Equals(caller) {
		return 0, errors.Wrapf(ErrUnauthorized, "caller %s is not the curve creator", caller)
	}
	if bc.IsCompleted {
		return 0, ErrCurveCompleted
	}

	amount := bc.CreatorFeesOwed
	if amount == 0 {
		return 0, nil
	}

	if err := ledger.Transfer(txn, curveAddr, bc.Creator, amount); err != nil {
		return 0, wrapLedgerErr(err)
	}
	bc.CreatorFeesOwed = 0
	if err := saveCurve(txn, curveAddr, bc); err != nil {
		return 0, err
	}
	if err := txn.Commit(); err != nil {
		return 0, err
	}

	e.logger.Info("Creator fees claimed",
		zap.String("mint", mint.String()),
		zap.String("creator", caller.String()),
		zap.Uint64("amount", amount))
	e.publish(ctx, events.CreatorFeesClaimedEvent{
		BaseEvent: e.base(events.CreatorFeesClaimed),
		Mint:      mint,
		Creator:   caller,
		Amount:    amount,
	})
	return amount, nil
}
