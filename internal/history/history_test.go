package history

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/events"
)

func publishTrades(t *testing.T, bus *events.Bus, mint solana.PublicKey) {
	t.Helper()
	trader := solana.NewWallet().PublicKey()
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, bus.Publish(context.Background(), events.BuyExecutedEvent{
		BaseEvent: events.BaseEvent{EventType: events.BuyExecuted, EventTime: base},
		Mint:      mint,
		Buyer:     trader,
		SolIn:     1_000_000_000,
		TokensOut: 49_924_887_331,
	}))
	require.NoError(t, bus.Publish(context.Background(), events.SellExecutedEvent{
		BaseEvent: events.BaseEvent{EventType: events.SellExecuted, EventTime: base.Add(time.Minute)},
		Mint:      mint,
		Seller:    trader,
		TokensIn:  20_000_000_000,
		SolOut:    380_000_000,
	}))
}

func TestRecorderCapturesTrades(t *testing.T) {
	bus := events.NewBus(zap.NewNop())
	rec := NewRecorder(zap.NewNop())
	rec.Attach(bus)
	mint := solana.NewWallet().PublicKey()

	publishTrades(t, bus, mint)

	got := rec.Records()
	require.Len(t, got, 2)
	require.Equal(t, SideBuy, got[0].Side)
	require.Equal(t, uint64(1_000_000_000), got[0].SolLamports)
	require.Equal(t, SideSell, got[1].Side)
	require.Equal(t, uint64(20_000_000_000), got[1].TokenUnits)

	// After Detach nothing new is recorded.
	rec.Detach()
	publishTrades(t, bus, mint)
	require.Len(t, rec.Records(), 2)
}

func TestExportCSV(t *testing.T) {
	bus := events.NewBus(zap.NewNop())
	rec := NewRecorder(zap.NewNop())
	rec.Attach(bus)
	mint := solana.NewWallet().PublicKey()
	publishTrades(t, bus, mint)

	outputPath, err := NewExporter(zap.NewNop()).Export(rec.Records(), ExportOptions{
		Format:    FormatCSV,
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, csvHeaders(), rows[0])
	require.Equal(t, SideBuy, rows[1][3])
	require.Equal(t, "1", rows[1][4])
	require.Equal(t, "49924.887331", rows[1][5])
}

func TestExportJSONWithFilters(t *testing.T) {
	bus := events.NewBus(zap.NewNop())
	rec := NewRecorder(zap.NewNop())
	rec.Attach(bus)
	mint := solana.NewWallet().PublicKey()
	publishTrades(t, bus, mint)

	outputPath, err := NewExporter(zap.NewNop()).Export(rec.Records(), ExportOptions{
		Format:     FormatJSON,
		SideFilter: SideSell,
		MintFilter: mint.String(),
		OutputDir:  t.TempDir(),
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	var got struct {
		TradeCount int      `json:"trade_count"`
		Trades     []Record `json:"trades"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, 1, got.TradeCount)
	require.Equal(t, SideSell, got.Trades[0].Side)
}

func TestExportNoMatches(t *testing.T) {
	_, err := NewExporter(zap.NewNop()).Export(nil, ExportOptions{
		Format:    FormatCSV,
		OutputDir: t.TempDir(),
	})
	require.Error(t, err)
}
