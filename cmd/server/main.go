package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/qbank-manager/internal/config"
	"github.com/stemsi/qbank-manager/internal/database"
	"github.com/stemsi/qbank-manager/internal/handler"
	"github.com/stemsi/qbank-manager/internal/logger"
	"github.com/stemsi/qbank-manager/internal/router"
	"github.com/stemsi/qbank-manager/internal/service"
	"github.com/stemsi/qbank-manager/internal/validator"
	"github.com/stemsi/qbank-manager/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Str("public_dir", cfg.PublicDir).
		Msg("Starting question bank manager")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Bank Store ───────────────────────────────────────────────
	store, closeStore, err := database.OpenBankStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open bank store")
	}
	defer closeStore()

	// ─── Initialize Services ──────────────────────────────────────────
	imageService := service.NewImageService(cfg)
	bankService := service.NewBankService(store, imageService, log)

	// Sync once before accepting traffic so the log shows what was added.
	if entries, err := bankService.Reconcile(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial reconcile failed")
	} else {
		log.Info().Int("entries", len(entries)).Msg("Bank loaded")
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	syncWorker := worker.NewSyncWorker(bankService, cfg.SyncInterval, log)
	go syncWorker.Start(workerCtx)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Bank:    handler.NewBankHandler(bankService, log),
		BankAPI: handler.NewBankAPIHandler(bankService),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(cfg, handlers, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Stop the sync worker after in-flight requests finished.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
