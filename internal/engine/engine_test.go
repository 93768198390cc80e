package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	"github.com/rovshanmuradov/solana-launchpad/internal/store"
)

const lamportsPerSol = 1_000_000_000

// fakeClock is the engine clock in tests; deadlines are checked against it.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type env struct {
	t        *testing.T
	eng      *Engine
	bus      *events.Bus
	clock    *fakeClock
	gov      solana.PublicKey
	treasury solana.PublicKey
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := store.NewMemory()
	t.Cleanup(func() { _ = s.Close() })

	clock := &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
	bus := events.NewBus(zap.NewNop())
	eng := New(s, bus, zap.NewNop(), WithClock(clock.Now))

	e := &env{
		t:        t,
		eng:      eng,
		bus:      bus,
		clock:    clock,
		gov:      solana.NewWallet().PublicKey(),
		treasury: solana.NewWallet().PublicKey(),
	}
	require.NoError(t, eng.Fund(e.gov, 10*lamportsPerSol))
	require.NoError(t, eng.Fund(e.treasury, lamportsPerSol))
	_, err := eng.InitializeConfig(context.Background(), e.gov, e.treasury)
	require.NoError(t, err)
	return e
}

func (e *env) wallet(lamports uint64) solana.PublicKey {
	e.t.Helper()
	pk := solana.NewWallet().PublicKey()
	require.NoError(e.t, e.eng.Fund(pk, lamports))
	return pk
}

func (e *env) deadline() time.Time {
	return e.clock.Now().Add(time.Minute)
}

// createToken funds a creator and launches a token with default metadata.
func (e *env) createToken() (solana.PublicKey, *CreateResult) {
	e.t.Helper()
	creator := e.wallet(2 * lamportsPerSol)
	res, err := e.eng.Create(context.Background(), creator, "Test Token", "TEST")
	require.NoError(e.t, err)
	return creator, res
}

// buyToThreshold pushes the curve's real reserves past the default migration
// threshold with a single large buy.
func (e *env) buyToThreshold(mint solana.PublicKey) solana.PublicKey {
	e.t.Helper()
	whale := e.wallet(60 * lamportsPerSol)
	_, err := e.eng.Buy(context.Background(), whale, mint, 51*lamportsPerSol, 0, e.deadline())
	require.NoError(e.t, err)
	return whale
}

func (e *env) lamports(addr solana.PublicKey) uint64 {
	e.t.Helper()
	bal, err := e.eng.Lamports(addr)
	require.NoError(e.t, err)
	return bal
}

func (e *env) tokenBalance(owner, mint solana.PublicKey) uint64 {
	e.t.Helper()
	bal, err := e.eng.TokenBalance(owner, mint)
	require.NoError(e.t, err)
	return bal
}
