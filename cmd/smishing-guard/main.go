package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/smishing-guard/internal/config"
	"github.com/mikey/smishing-guard/internal/core"
	"github.com/mikey/smishing-guard/internal/di"
	"github.com/mikey/smishing-guard/internal/ports"
	"go.uber.org/zap"
)

func main() {
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

func run(
	cfg *config.Config,
	logger *zap.Logger,
	messageFilter ports.MessageFilter,
	classifier core.Classifier,
	cacheRepo core.ClassifierCache,
) error {
	defer logger.Sync()

	logger.Info("Starting smishing-guard",
		zap.String("provider", cfg.GetLLM().Provider),
		zap.String("filter_type", cfg.GetString("server.filter_type")),
		zap.Int("escalation_threshold", cfg.GetEngine().EscalationThreshold))

	if err := messageFilter.Start(); err != nil {
		logger.Fatal("Failed to start filter", zap.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	if err := messageFilter.Stop(); err != nil {
		logger.Error("Failed to stop filter", zap.Error(err))
	}

	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier", zap.Error(err))
		}
	}

	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
