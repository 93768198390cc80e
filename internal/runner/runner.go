// internal/runner/runner.go
package runner

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/config"
	"github.com/rovshanmuradov/solana-launchpad/internal/curve"
	"github.com/rovshanmuradov/solana-launchpad/internal/engine"
	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	"github.com/rovshanmuradov/solana-launchpad/internal/history"
	"github.com/rovshanmuradov/solana-launchpad/internal/store"
	"github.com/rovshanmuradov/solana-launchpad/pkg/quote"
)

const lamportsPerSol = 1_000_000_000

// Runner wires the store backend, event bus and engine together and drives a
// full token lifecycle against them: launch, trades, fee claim, migration.
type Runner struct {
	logger     *zap.Logger
	cfg        *config.Config
	store      store.Store
	bus        *events.Bus
	engine     *engine.Engine
	recorder   *history.Recorder
	shutdownCh chan os.Signal
}

func New(cfg *config.Config, logger *zap.Logger) (*Runner, error) {
	var (
		s   store.Store
		err error
	)
	switch cfg.Backend {
	case config.BackendPebble:
		s, err = store.OpenPebble(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open pebble store at %s: %w", cfg.DataDir, err)
		}
	default:
		s = store.NewMemory()
	}

	bus := events.NewBus(logger)
	return &Runner{
		logger:     logger,
		cfg:        cfg,
		store:      s,
		bus:        bus,
		engine:     engine.New(s, bus, logger),
		recorder:   history.NewRecorder(logger),
		shutdownCh: make(chan os.Signal, 1),
	}, nil
}

func (r *Runner) Close() error {
	return r.store.Close()
}

// subscribeLogging mirrors every lifecycle event into the log.
func (r *Runner) subscribeLogging() {
	r.bus.SubscribeFunc(events.TokenCreated, func(_ context.Context, ev events.Event) error {
		e := ev.(events.TokenCreatedEvent)
		r.logger.Info("🚀 Token launched",
			zap.String("mint", e.Mint.String()),
			zap.String("name", e.Name),
			zap.String("symbol", e.Symbol))
		return nil
	})
	r.bus.SubscribeFunc(events.BuyExecuted, func(_ context.Context, ev events.Event) error {
		e := ev.(events.BuyExecutedEvent)
		r.logger.Info("🟢 Buy",
			zap.String("mint", e.Mint.String()),
			zap.String("sol_in", quote.Sol(e.SolIn).String()),
			zap.String("tokens_out", quote.Tokens(e.TokensOut).String()))
		return nil
	})
	r.bus.SubscribeFunc(events.SellExecuted, func(_ context.Context, ev events.Event) error {
		e := ev.(events.SellExecutedEvent)
		r.logger.Info("🔴 Sell",
			zap.String("mint", e.Mint.String()),
			zap.String("tokens_in", quote.Tokens(e.TokensIn).String()),
			zap.String("sol_out", quote.Sol(e.SolOut).String()))
		return nil
	})
	r.bus.SubscribeFunc(events.CurveMigrated, func(_ context.Context, ev events.Event) error {
		e := ev.(events.CurveMigratedEvent)
		r.logger.Info("🏁 Curve migrated",
			zap.String("mint", e.Mint.String()),
			zap.String("pool", e.Pool.String()),
			zap.String("sol", quote.Sol(e.SolReserves).String()),
			zap.String("tokens", quote.Tokens(e.TokenReserves).String()))
		return nil
	})
}

// Run executes the demo lifecycle until it completes or a signal arrives.
func (r *Runner) Run(ctx context.Context) error {
	signal.Notify(r.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case sig := <-r.shutdownCh:
			r.logger.Info("📡 Signal received: " + sig.String())
			cancel()
		case <-runCtx.Done():
		}
	}()

	r.subscribeLogging()
	r.recorder.Attach(r.bus)
	defer r.recorder.Detach()

	if err := r.runLifecycle(runCtx); err != nil {
		return err
	}
	return r.exportHistory()
}

// exportHistory writes the session's trades next to the store data.
func (r *Runner) exportHistory() error {
	records := r.recorder.Records()
	if len(records) == 0 {
		return nil
	}
	path, err := history.NewExporter(r.logger).Export(records, history.ExportOptions{
		Format:    history.FormatCSV,
		OutputDir: r.cfg.DataDir,
	})
	if err != nil {
		return err
	}
	r.logger.Info("📄 Trade history written", zap.String("path", path))
	return nil
}

func (r *Runner) runLifecycle(ctx context.Context) error {
	gov, err := r.cfg.Governance()
	if err != nil {
		return err
	}
	treasury, err := r.cfg.Treasury()
	if err != nil {
		return err
	}
	if err := r.engine.Fund(gov, 10*lamportsPerSol); err != nil {
		return err
	}

	// A pebble-backed run may already carry an initialized deployment.
	if _, err := r.engine.InitializeConfig(ctx, gov, treasury); err != nil {
		if !stderrors.Is(err, engine.ErrAlreadyInitialized) {
			return err
		}
		r.logger.Info("Protocol config already present, reusing it")
	}

	creator := solana.NewWallet().PublicKey()
	if err := r.engine.Fund(creator, 3*lamportsPerSol); err != nil {
		return err
	}
	created, err := r.engine.Create(ctx, creator, "Demo Token", "DEMO")
	if err != nil {
		return err
	}

	trader := solana.NewWallet().PublicKey()
	if err := r.engine.Fund(trader, 10*lamportsPerSol); err != nil {
		return err
	}
	bought, err := r.buyWithRetry(ctx, trader, created.Mint, 2*lamportsPerSol)
	if err != nil {
		return err
	}
	if _, err := r.engine.Sell(ctx, trader, created.Mint, bought.Tokens/2, 0, time.Now().Add(30*time.Second)); err != nil {
		return err
	}

	claimed, err := r.engine.ClaimCreatorFees(ctx, creator, created.Mint)
	if err != nil {
		return err
	}
	r.logger.Info("💰 Creator fees claimed", zap.String("sol", quote.Sol(claimed).String()))

	if _, err := r.engine.InitializeDexPool(ctx, creator, created.Mint); err != nil {
		return err
	}

	whale := solana.NewWallet().PublicKey()
	if err := r.engine.Fund(whale, 60*lamportsPerSol); err != nil {
		return err
	}
	if _, err := r.buyWithRetry(ctx, whale, created.Mint, 52*lamportsPerSol); err != nil {
		return err
	}

	ready, err := r.engine.MigrationReady(created.Mint)
	if err != nil {
		return err
	}
	if !ready {
		return fmt.Errorf("curve %s did not reach the migration threshold", created.Mint)
	}
	migrated, err := r.engine.CompleteAndMigrate(ctx, creator, created.Mint)
	if err != nil {
		return err
	}

	pool, err := r.engine.Pool(created.Mint)
	if err != nil {
		return err
	}
	r.logger.Info("Lifecycle complete",
		zap.String("pool", migrated.Pool.String()),
		zap.String("pool_sol", quote.Sol(pool.SolReserves).String()),
		zap.String("pool_tokens", quote.Tokens(pool.TokenReserves).String()))
	return nil
}

// buyWithRetry quotes a slippage floor 1% under the current price and
// resubmits on slippage rejection; every retry re-quotes against the reserves
// that beat it. Any other failure aborts the retry loop.
func (r *Runner) buyWithRetry(ctx context.Context, buyer, mint solana.PublicKey, solIn uint64) (*engine.TradeResult, error) {
	op := func() (*engine.TradeResult, error) {
		bc, err := r.engine.Curve(mint)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		cfg, err := r.engine.Config()
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		creatorFee, treasuryFee := curve.SplitFees(solIn, cfg.TradeFeeBps, cfg.CreatorShareBps)
		quoted, err := curve.QuoteBuy(bc.VirtualSolReserves, bc.VirtualTokenReserves, solIn-creatorFee-treasuryFee)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		minOut := quoted - quoted/100

		got, err := r.engine.Buy(ctx, buyer, mint, solIn, minOut, time.Now().Add(30*time.Second))
		if err != nil {
			if stderrors.Is(err, engine.ErrSlippageExceeded) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return got, nil
	}
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(r.cfg.Retries)+1))
}
