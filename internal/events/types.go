// internal/events/types.go
package events

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// EventType represents the type of event.
type EventType string

const (
	// Governance events
	ConfigInitialized EventType = "config.initialized"
	ConfigUpdated     EventType = "config.updated"

	// Curve lifecycle events
	TokenCreated       EventType = "curve.token_created"
	BuyExecuted        EventType = "curve.buy_executed"
	SellExecuted       EventType = "curve.sell_executed"
	CreatorFeesClaimed EventType = "curve.creator_fees_claimed"

	// Migration events
	DexPoolInitialized EventType = "migration.pool_initialized"
	CurveMigrated      EventType = "migration.completed"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	EventType EventType
	EventTime time.Time
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

// ConfigInitializedEvent is emitted once, when the protocol config singleton
// is created.
type ConfigInitializedEvent struct {
	BaseEvent
	Governance solana.PublicKey
	Treasury   solana.PublicKey
}

// ConfigUpdatedEvent is emitted on every governance config change.
type ConfigUpdatedEvent struct {
	BaseEvent
	Governance solana.PublicKey
	Treasury   solana.PublicKey
	IsPaused   bool
}

// TokenCreatedEvent is emitted when a new curve and its token are allocated.
type TokenCreatedEvent struct {
	BaseEvent
	Mint    solana.PublicKey
	Creator solana.PublicKey
	Curve   solana.PublicKey
	Name    string
	Symbol  string
}

// BuyExecutedEvent is emitted after a successful buy.
type BuyExecutedEvent struct {
	BaseEvent
	Mint      solana.PublicKey
	Buyer     solana.PublicKey
	SolIn     uint64
	TokensOut uint64
}

// SellExecutedEvent is emitted after a successful sell. SolOut is net of fees.
type SellExecutedEvent struct {
	BaseEvent
	Mint     solana.PublicKey
	Seller   solana.PublicKey
	TokensIn uint64
	SolOut   uint64
}

// CreatorFeesClaimedEvent is emitted when accrued creator fees are paid out.
type CreatorFeesClaimedEvent struct {
	BaseEvent
	Mint    solana.PublicKey
	Creator solana.PublicKey
	Amount  uint64
}

// DexPoolInitializedEvent is emitted when the receiving pool is allocated.
type DexPoolInitializedEvent struct {
	BaseEvent
	Mint  solana.PublicKey
	Pool  solana.PublicKey
	Payer solana.PublicKey
}

// CurveMigratedEvent is emitted exactly once per curve, at migration.
type CurveMigratedEvent struct {
	BaseEvent
	Mint          solana.PublicKey
	Pool          solana.PublicKey
	SolReserves   uint64
	TokenReserves uint64
}
