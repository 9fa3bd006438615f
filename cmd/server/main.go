package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/midtrans-payment-reconciler/internal/config"
	"github.com/midtrans-payment-reconciler/internal/data/mongo"
	"github.com/midtrans-payment-reconciler/internal/data/resilient"
	"github.com/midtrans-payment-reconciler/internal/gateway/midtrans"
	"github.com/midtrans-payment-reconciler/internal/logger"
	"github.com/midtrans-payment-reconciler/internal/platform/persistence"
	"github.com/midtrans-payment-reconciler/internal/ratelimit"
	"github.com/midtrans-payment-reconciler/internal/server"
	"github.com/midtrans-payment-reconciler/internal/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize the document store with app context
	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize the repository and wrap it in the retrying writer
	transactionRepo := mongo.NewTransactionRepository(log, mongoDB.Database())
	resilientRepo := resilient.NewWriter(log, transactionRepo, &cfg.Retry)

	// Initialize the payment gateway client and the admission gate
	gatewayClient := midtrans.NewClient(log, &cfg.Midtrans)
	gate := ratelimit.NewGate(&cfg.RateLimit)

	// Initialize services
	intakeService := service.NewIntakeService(log, resilientRepo, gatewayClient)
	reconciliationService := service.NewReconciliationService(log, resilientRepo, cfg.Midtrans.ServerKey)

	// Initialize REST server
	srv := server.NewServer(log, cfg, gate, intakeService, reconciliationService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := srv.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server
	if err = srv.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
