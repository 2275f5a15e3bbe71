package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/marek/biopsy-classifier/internal/core"
	"github.com/marek/biopsy-classifier/internal/di"
	"github.com/marek/biopsy-classifier/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	frontend ports.Frontend,
	store core.PredictionStore,
) error {
	defer logger.Sync()

	// Serve in the background; bootstrap already completed inside the
	// container, so the model is ready before the first request
	errCh := make(chan error, 1)
	go func() {
		errCh <- frontend.Start()
	}()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
			return err
		}
	case <-sigCh:
		logger.Info("Shutting down...")
	}

	// Stop the frontend
	if err := frontend.Stop(); err != nil {
		logger.Error("Failed to stop server", zap.Error(err))
	}

	// Stop the store if needed
	if stopper, ok := store.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
