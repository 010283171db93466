package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/starman154/syllabus-scanner-server/internal/api"
	"github.com/starman154/syllabus-scanner-server/internal/config"
	"github.com/starman154/syllabus-scanner-server/internal/extract"
	"github.com/starman154/syllabus-scanner-server/internal/parser"
	"github.com/starman154/syllabus-scanner-server/internal/pipeline"
	"github.com/starman154/syllabus-scanner-server/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		MySQLDSN:   cfg.MySQLDSN,
		SQLitePath: cfg.SQLitePath,
	}, log)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	claude := extract.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	processor := pipeline.NewProcessor(claude, st, parser.NewRasterizer(cfg.RasterDPI), log)
	processor.PDFFallbackPdftotext = cfg.PDFFallbackPdftotext

	orch := pipeline.NewOrchestrator(pipeline.Config{
		WorkerCount:  cfg.WorkerCount,
		MaxQueueSize: cfg.MaxQueueSize,
		JobTTL:       cfg.JobTTL,
	}, processor, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, st, claude, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		claude.Close()
		st.Close()
	}()

	log.Info("starting syllabus scanner", "port", cfg.Port, "store", st.Dialect())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
