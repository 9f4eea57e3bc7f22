package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cashcog-expense-manager/internal/config"
	"github.com/cashcog-expense-manager/internal/data/postgres"
	"github.com/cashcog-expense-manager/internal/logger"
	"github.com/cashcog-expense-manager/internal/platform/messaging/producers"
	"github.com/cashcog-expense-manager/internal/platform/persistence"
	"github.com/cashcog-expense-manager/internal/stream_consumer/consumer"
	"github.com/cashcog-expense-manager/internal/stream_consumer/processor"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("stream_consumer")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Stream Consumer",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"stream_url", cfg.Stream.URL,
		"stream_type", cfg.Stream.Type,
	)

	// Initialize database with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	employeeRepo := postgres.NewEmployeeRepository(log, postgresDB)
	expenseRepo := postgres.NewExpenseRepository(log, postgresDB)

	// Initialize Kafka DLQ producer
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	// dlqProducer might be nil if DLQTopic is not configured. Processor is nil-safe.

	// Register processors and resolve the configured stream type up front so a
	// bad STREAM_TYPE kills the process at startup instead of mid-stream.
	factory := processor.NewFactory()
	var dlq producers.DeadLetterPublisher
	if dlqProducer != nil {
		dlq = dlqProducer
	}
	factory.Register(processor.StreamTypeExpense, processor.NewExpenseProcessor(
		postgresDB,
		employeeRepo,
		expenseRepo,
		dlq,
		cfg.Stream.MaxRetries,
		cfg.Stream.RetryBackoff,
		log,
	))

	eventProcessor, err := factory.GetProcessor(cfg.Stream.Type)
	if err != nil {
		log.Error("Failed to resolve stream processor", "stream_type", cfg.Stream.Type, "error", err)
		os.Exit(1)
	}

	streamConsumer := consumer.NewStreamConsumer(&cfg.Stream, eventProcessor, log)

	// Expose Prometheus metrics when a port is configured
	var metricsServer *http.Server
	if cfg.Metrics.Port > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			log.Info("Starting metrics listener", "port", cfg.Metrics.Port)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Metrics listener error", "error", err)
			}
		}()
	}

	// Create error channel for consumer errors
	errChan := make(chan error, 1)

	// Start the consumer in a goroutine
	go func() {
		if err := streamConsumer.Run(appCtx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("stream consumer error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var consumerErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Consumer error occurred", "error", err)
		consumerErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during metrics listener shutdown", "error", err)
		}
	}

	// Close DLQ Kafka producer
	if dlqProducer != nil { // dlqProducer can be nil if DLQTopic was not configured
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Final status
	if consumerErr != nil {
		log.Error("Stream Consumer shutdown with errors", "error", consumerErr)
		os.Exit(1)
	}
	log.Info("Stream Consumer shutdown completed successfully")
}
