// ====================================
// File: cmd/launchpad/main.go
// ====================================
package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/config"
	"github.com/rovshanmuradov/solana-launchpad/internal/runner"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	logger.Info("Starting launchpad")

	configPath := "configs/config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if !cfg.DebugLogging {
		logger, _ = zap.NewProduction()
	}

	r, err := runner.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize runner", zap.Error(err))
	}
	defer r.Close()

	if err := r.Run(ctx); err != nil {
		logger.Fatal("Launchpad execution error", zap.Error(err))
	}
}
