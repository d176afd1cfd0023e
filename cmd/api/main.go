package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/finpilot-backoffice/internal/api"
	"github.com/finpilot-backoffice/internal/api/service"
	"github.com/finpilot-backoffice/internal/config"
	"github.com/finpilot-backoffice/internal/data/postgres"
	"github.com/finpilot-backoffice/internal/idempotency"
	"github.com/finpilot-backoffice/internal/logger"
	"github.com/finpilot-backoffice/internal/platform/messaging/producers"
	"github.com/finpilot-backoffice/internal/platform/persistence"
	"github.com/finpilot-backoffice/internal/scoring"
	"github.com/panjf2000/ants/v2"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize PostgreSQL with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize the idempotency store for the configured backend
	var idempotencyStore idempotency.Store
	var mongoDB *persistence.MongoDB
	switch cfg.Idempotency.Backend {
	case config.IdempotencyBackendMongo:
		mongoDB, err = persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
		if err != nil {
			log.Error("Failed to initialize MongoDB", "error", err)
			os.Exit(1)
		}
		idempotencyStore, err = idempotency.NewMongoStore(appCtx, log, mongoDB.Database(), cfg.Idempotency.TTL)
		if err != nil {
			log.Error("Failed to initialize idempotency store", "error", err)
			os.Exit(1)
		}
	default:
		idempotencyStore = idempotency.NewMemoryStore()
		log.Warn("Using in-memory idempotency store; cached responses are lost on restart")
	}

	// Initialize Kafka producer for reconciliation events
	eventProducer, err := producers.NewReconciliationEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize worker pool for background event publishing
	workerPool, err := ants.NewPool(cfg.WorkerPool.Size)
	if err != nil {
		log.Error("Failed to initialize worker pool", "error", err)
		os.Exit(1)
	}

	// Initialize the scoring engine client
	engineClient := scoring.NewClient(log, &cfg.Engine)

	// Initialize repositories
	tenantRepo := postgres.NewTenantRepository(log, postgresDB)
	invoiceRepo := postgres.NewInvoiceRepository(log)
	transactionRepo := postgres.NewBankTransactionRepository(log)

	// Initialize services
	tenantService := service.NewTenantService(tenantRepo)
	invoiceService := service.NewInvoiceService(postgresDB, invoiceRepo)
	bankTransactionService := service.NewBankTransactionService(postgresDB, transactionRepo)
	reconciliationService := service.NewReconciliationService(log, postgresDB, invoiceRepo, transactionRepo, engineClient, eventProducer, workerPool)

	// Initialize REST server
	server := api.NewServer(log, cfg, idempotencyStore, tenantService, invoiceService, bankTransactionService, reconciliationService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
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

	// Shutdown HTTP server first so in-flight publishes can still drain
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Drain queued event publishes before closing the producer
	workerPool.Release()

	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	if mongoDB != nil {
		if err = mongoDB.Close(shutdownCtx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

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
