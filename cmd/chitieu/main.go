package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"chitieu/internal/backend"
	"chitieu/internal/cli"
	apphttp "chitieu/internal/http"
	"chitieu/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger, nil)

	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backend.Config{
		Type:         backend.BackendType(cfg.DataBackend),
		APIBaseURL:   cfg.APIBaseURL,
		APITimeout:   cfg.APITimeout,
		AMQPURL:      cfg.AMQPURL,
		AMQPExchange: cfg.AMQPExchange,
		AMQPQueue:    cfg.AMQPQueue,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	opts := apphttp.Options{
		Addr:         ":" + cfg.Port,
		Backend:      result.Backend,
		Logger:       logger,
		ViewTTL:      cfg.ViewTTL,
		ViewCapacity: cfg.ViewCapacity,
		RateLimit:    cfg.RateLimit,
	}
	// The UI only reads the journal; the worker owns writes and pruning.
	if cfg.JournalDBPath != "" {
		journal := cli.InitJournal(logger, cfg.JournalDBPath)
		defer journal.Close()
		opts.Journal = journal
	}

	srv, err := apphttp.NewServer(opts)
	if err != nil {
		logger.Error("Failed to create server", log.FieldError, err)
		os.Exit(1)
	}

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = cfg.APITimeout + 15*time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", log.FieldError, err)
			}
		}
	})

	logger.Info("Starting chitieu server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"journal", cfg.JournalDBPath != "",
		"publishing", cfg.AMQPURL != "")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
