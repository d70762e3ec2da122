package main

import (
	"context"
	"errors"
	"os"
	"time"

	"chitieu/internal/amqp"
	"chitieu/internal/cli"
	"chitieu/internal/config"
	"chitieu/internal/log"
	"chitieu/internal/sheets"
	gsheet "chitieu/internal/sheets/google"
	"chitieu/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting chitieu-worker")

	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	journal := cli.InitJournal(logger, cfg.JournalDBPath)
	defer journal.Close()

	// Google Sheets mirror (optional)
	var mirror sheets.JournalWriter
	if cfg.MirrorEnabled() {
		client, err := gsheet.New(context.Background(), gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleJournalSheet,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Google Sheets mirror enabled",
			log.FieldSpreadsheet, cfg.GoogleSpreadsheetID,
			log.FieldSheet, cfg.GoogleJournalSheet)
	} else {
		logger.Info("Google Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	jw := worker.NewJournalWorker(journal, mirror, cfg.JournalMirrorBatch, logger)
	scheduler := worker.NewScheduler(jw, worker.SchedulerConfig{
		PruneSchedule:  cfg.JournalPruneSchedule,
		Retention:      cfg.JournalRetention,
		MirrorInterval: cfg.JournalMirrorInterval,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := scheduler.Stop(ctx); err != nil {
			logger.Warn("Scheduler stop failed", log.FieldError, err)
		}
	})

	// Rows journaled while the mirror was unreachable
	if jw.Mirroring() {
		logger.Info("Performing startup mirror check...")
		if _, err := jw.MirrorPending(ctx); err != nil {
			logger.Error("Failed startup mirror check", log.FieldError, err)
		}
	}

	if err := scheduler.Start(ctx); err != nil {
		logger.Error("Failed to start scheduler", log.FieldError, err)
		os.Exit(1)
	}

	go func() {
		err := amqpClient.ConsumeMutations(ctx, jw.HandleMutation)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
