package history

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Format is the export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ExportOptions configures which records are exported and where.
type ExportOptions struct {
	Format     Format
	StartTime  time.Time
	EndTime    time.Time
	MintFilter string // Filter by token mint
	SideFilter string // Filter by side (buy/sell)
	OutputDir  string
}

// Exporter writes trade records to disk.
type Exporter struct {
	logger *zap.Logger
}

func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger.Named("export")}
}

// Export filters, sorts, and writes records, returning the output path.
func (e *Exporter) Export(records []Record, options ExportOptions) (string, error) {
	filtered := filterRecords(records, options)
	if len(filtered) == 0 {
		return "", fmt.Errorf("no trades match the export criteria")
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.Before(filtered[j].Timestamp)
	})

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(options.OutputDir, generateFilename(options))

	var err error
	switch options.Format {
	case FormatCSV:
		err = exportToCSV(filtered, outputPath)
	case FormatJSON:
		err = exportToJSON(filtered, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return "", err
	}

	e.logger.Info("Trades exported",
		zap.String("file", outputPath),
		zap.Int("count", len(filtered)),
		zap.String("format", string(options.Format)))
	return outputPath, nil
}

func filterRecords(records []Record, options ExportOptions) []Record {
	var filtered []Record
	for _, rec := range records {
		if !options.StartTime.IsZero() && rec.Timestamp.Before(options.StartTime) {
			continue
		}
		if !options.EndTime.IsZero() && rec.Timestamp.After(options.EndTime) {
			continue
		}
		if options.MintFilter != "" && rec.Mint != options.MintFilter {
			continue
		}
		if options.SideFilter != "" && rec.Side != options.SideFilter {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

func generateFilename(options ExportOptions) string {
	timestamp := time.Now().Format("20060102_150405")

	prefix := "trades_all"
	if options.SideFilter != "" {
		prefix = fmt.Sprintf("trades_%s", options.SideFilter)
	}
	if options.MintFilter != "" {
		prefix += "_" + options.MintFilter[:8]
	}
	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

func exportToCSV(records []Record, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for i := range records {
		if err := writer.Write(records[i].toCSV()); err != nil {
			return fmt.Errorf("failed to write trade: %w", err)
		}
	}
	return nil
}

func exportToJSON(records []Record, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime time.Time `json:"export_time"`
		TradeCount int       `json:"trade_count"`
		Trades     []Record  `json:"trades"`
	}{
		ExportTime: time.Now(),
		TradeCount: len(records),
		Trades:     records,
	}
	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
