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

// InitializeConfig creates the ProtocolConfig singleton with the default fee
// schedule. Exactly one call ever succeeds per deployment.
func (e *Engine) InitializeConfig(ctx context.Context, authority, treasury solana.PublicKey) (*state.ProtocolConfig, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	txn := e.store.Begin()
	defer txn.Discard()

	addr, err := state.ConfigAddress()
	if err != nil {
		return nil, err
	}
	if ok, err := txn.Has(addr); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.Wrap(ErrAlreadyInitialized, "protocol config")
	}

	cfg := &state.ProtocolConfig{
		GovernanceAuthority: authority,
		Treasury:            treasury,
		CreationFeeLamports: DefaultCreationFeeLamports,
		TradeFeeBps:         DefaultTradeFeeBps,
		CreatorShareBps:     DefaultCreatorShareBps,
		MigrationThreshold:  DefaultMigrationThreshold,
	}
	data, err := cfg.Marshal()
	if err != nil {
		return nil, err
	}
	if err := ledger.Create(txn, authority, addr, state.ProgramID, data); err != nil {
		return nil, wrapLedgerErr(err)
	}
	if err := txn.Commit(); err != nil {
		return nil, err
	}

	e.logger.Info("Protocol config initialized",
		zap.String("governance", authority.String()),
		zap.String("treasury", treasury.String()))
	e.publish(ctx, events.ConfigInitializedEvent{
		BaseEvent:  e.base(events.ConfigInitialized),
		Governance: authority,
		Treasury:   treasury,
	})
	return cfg, nil
}

// UpdateConfig replaces the config record. Only the current governance
// authority may call; handing over governance is itself a config update.
func (e *Engine) UpdateConfig(ctx context.Context, caller solana.PublicKey, next state.ProtocolConfig) (*state.ProtocolConfig, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	txn := e.store.Begin()
	defer txn.Discard()

	cfg, addr, err := loadConfig(txn)
	if err != nil {
		return nil, err
	}
	if !cfg.GovernanceAuthority.Equals(caller) {
		return nil, errors.Wrapf(ErrUnauthorized, "caller %s is not the governance authority", caller)
	}
	if err := saveConfig(txn, addr, &next); err != nil {
		return nil, err
	}
	if err := txn.Commit(); err != nil {
		return nil, err
	}

	e.logger.Info("Protocol config updated",
		zap.String("governance", next.GovernanceAuthority.String()),
		zap.String("treasury", next.Treasury.String()),
		zap.Bool("paused", next.IsPaused),
		zap.Uint64("migration_threshold", next.MigrationThreshold))
	e.publish(ctx, events.ConfigUpdatedEvent{
		BaseEvent:  e.base(events.ConfigUpdated),
		Governance: next.GovernanceAuthority,
		Treasury:   next.Treasury,
		IsPaused:   next.IsPaused,
	})
	return &next, nil
}
