// Package history keeps an in-process record of executed curve trades, fed by
// the event bus, and exports it to CSV or JSON for analysis.
package history

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	"github.com/rovshanmuradov/solana-launchpad/pkg/quote"
)

// Trade sides.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Record is one executed trade. Amounts are raw on-ledger units; the CSV
// export renders them at display precision.
type Record struct {
	Timestamp   time.Time `json:"timestamp"`
	Mint        string    `json:"mint"`
	Trader      string    `json:"trader"`
	Side        string    `json:"side"`
	SolLamports uint64    `json:"sol_lamports"`
	TokenUnits  uint64    `json:"token_units"`
}

func csvHeaders() []string {
	return []string{"timestamp", "mint", "trader", "side", "amount_sol", "amount_token"}
}

func (r *Record) toCSV() []string {
	return []string{
		r.Timestamp.Format(time.RFC3339),
		r.Mint,
		r.Trader,
		r.Side,
		quote.Sol(r.SolLamports).String(),
		quote.Tokens(r.TokenUnits).String(),
	}
}

// Recorder accumulates trade records from a bus subscription.
type Recorder struct {
	mu      sync.Mutex
	logger  *zap.Logger
	records []Record
	subs    []events.Subscription
}

func NewRecorder(logger *zap.Logger) *Recorder {
	return &Recorder{logger: logger.Named("history")}
}

// Attach subscribes the recorder to the bus's trade events. Call Detach to
// stop recording.
func (r *Recorder) Attach(bus *events.Bus) {
	r.subs = append(r.subs,
		bus.SubscribeFunc(events.BuyExecuted, func(_ context.Context, ev events.Event) error {
			e := ev.(events.BuyExecutedEvent)
			r.append(Record{
				Timestamp:   e.Timestamp(),
				Mint:        e.Mint.String(),
				Trader:      e.Buyer.String(),
				Side:        SideBuy,
				SolLamports: e.SolIn,
				TokenUnits:  e.TokensOut,
			})
			return nil
		}),
		bus.SubscribeFunc(events.SellExecuted, func(_ context.Context, ev events.Event) error {
			e := ev.(events.SellExecutedEvent)
			r.append(Record{
				Timestamp:   e.Timestamp(),
				Mint:        e.Mint.String(),
				Trader:      e.Seller.String(),
				Side:        SideSell,
				SolLamports: e.SolOut,
				TokenUnits:  e.TokensIn,
			})
			return nil
		}),
	)
}

// Detach cancels the bus subscriptions. Recorded trades stay available.
func (r *Recorder) Detach() {
	for _, s := range r.subs {
		s.Unsubscribe()
	}
	r.subs = nil
}

func (r *Recorder) append(rec Record) {
	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()
	r.logger.Debug("Trade recorded",
		zap.String("mint", rec.Mint),
		zap.String("side", rec.Side))
}

// Records returns a copy of everything recorded so far, in arrival order.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}
