// Package engine implements the bonding-curve state machine: token creation,
// curve trading, fee accrual and claim, and the one-time migration of curve
// liquidity into a DEX pool.
//
// Every entry point runs as a single store transaction. All preconditions are
// checked before any write, and a failure discards the transaction, so no
// operation ever leaves partial state behind. The engine serializes mutating
// operations, standing in for the host environment's ordering of conflicting
// transactions; callers protect themselves against that ordering with the
// minimum-output and deadline guards, never with snapshot reads.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/curve"
	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	"github.com/rovshanmuradov/solana-launchpad/internal/ledger"
	"github.com/rovshanmuradov/solana-launchpad/internal/state"
	"github.com/rovshanmuradov/solana-launchpad/internal/store"
)

// Curve and deployment constants. The fee rates and threshold live in the
// ProtocolConfig record so governance can change them; everything here is
// fixed at program level.
const (
	TokenDecimals = curve.TokenDecimals

	// TotalSupply is minted into the curve vault at creation: one billion
	// tokens at 6 decimals.
	TotalSupply = 1_000_000_000 * 1_000_000

	// Initial virtual reserves: the constant offset that keeps the starting
	// price finite with zero real reserves.
	InitialVirtualSol    = 1_000_000_000       // 1 SOL
	InitialVirtualTokens = 100_000 * 1_000_000 // 100k tokens

	// MinSolTradeAmount floors both buy inputs and gross sell payouts.
	MinSolTradeAmount = 1_000_000 // 0.001 SOL

	MaxNameLen   = 32
	MaxSymbolLen = 10

	// lpLockAmount is minted and immediately burned at migration, the
	// locked-liquidity bookkeeping the pool record carries.
	lpLockAmount = 1_000_000_000
)

// Defaults written by InitializeConfig; governance may change them later.
const (
	DefaultCreationFeeLamports = 1_000_000_000  // 1 SOL
	DefaultTradeFeeBps         = 30             // 0.30%
	DefaultCreatorShareBps     = 10             // a third of the trade fee
	DefaultMigrationThreshold  = 50_000_000_000 // 50 SOL
)

// Engine executes launchpad operations against an account store.
type Engine struct {
	mu     sync.Mutex
	store  store.Store
	bus    *events.Bus
	logger *zap.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's clock. Deadline checks use this clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over the given store. The bus may be shared with
// other subscribers; events are published only after a commit.
func New(s store.Store, bus *events.Bus, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:  s,
		bus:    bus,
		logger: logger.Named("engine"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// publish delivers an event after a successful commit. Handler failures are
// logged, never propagated: the state transition already happened.
func (e *Engine) publish(ctx context.Context, ev events.Event) {
	if e.bus == nil {
		return
	}
	if err := e.bus.Publish(ctx, ev); err != nil {
		e.logger.Warn("Event delivery failed", zap.String("event_type", string(ev.Type())), zap.Error(err))
	}
}

func (e *Engine) base(t events.EventType) events.BaseEvent {
	return events.BaseEvent{EventType: t, EventTime: e.now()}
}

// loadConfig reads the ProtocolConfig singleton.
func loadConfig(txn store.Txn) (*state.ProtocolConfig, solana.PublicKey, error) {
	addr, err := state.ConfigAddress()
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	acct, ok, err := ledger.Get(txn, addr)
	if err != nil {
		return nil, addr, err
	}
	if !ok {
		return nil, addr, ErrNotInitialized
	}
	var cfg state.ProtocolConfig
	if err := cfg.Unmarshal(acct.Data); err != nil {
		return nil, addr, err
	}
	return &cfg, addr, nil
}

func saveConfig(txn store.Txn, addr solana.PublicKey, cfg *state.ProtocolConfig) error {
	acct, ok, err := ledger.Get(txn, addr)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotInitialized
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	acct.Data = data
	return ledger.Put(txn, addr, acct)
}

// loadCurve reads the BondingCurve record for a mint.
func loadCurve(txn store.Txn, mint solana.PublicKey) (*state.BondingCurve, solana.PublicKey, error) {
	addr, err := state.CurveAddress(mint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	acct, ok, err := ledger.Get(txn, addr)
	if err != nil {
		return nil, addr, err
	}
	if !ok {
		return nil, addr, ErrCurveNotFound
	}
	var bc state.BondingCurve
	if err := bc.Unmarshal(acct.Data); err != nil {
		return nil, addr, err
	}
	return &bc, addr, nil
}

func saveCurve(txn store.Txn, addr solana.PublicKey, bc *state.BondingCurve) error {
	acct, ok, err := ledger.Get(txn, addr)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCurveNotFound
	}
	data, err := bc.Marshal()
	if err != nil {
		return err
	}
	acct.Data = data
	return ledger.Put(txn, addr, acct)
}

// loadPool reads the DexPool record for a mint.
func loadPool(txn store.Txn, mint solana.PublicKey) (*state.DexPool, solana.PublicKey, error) {
	addr, err := state.PoolAddress(mint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	acct, ok, err := ledger.Get(txn, addr)
	if err != nil {
		return nil, addr, err
	}
	if !ok {
		return nil, addr, ErrPoolNotInitialized
	}
	var p state.DexPool
	if err := p.Unmarshal(acct.Data); err != nil {
		return nil, addr, err
	}
	return &p, addr, nil
}

func savePool(txn store.Txn, addr solana.PublicKey, p *state.DexPool) error {
	acct, ok, err := ledger.Get(txn, addr)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPoolNotInitialized
	}
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	acct.Data = data
	return ledger.Put(txn, addr, acct)
}
