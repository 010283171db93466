package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/starman154/syllabus-scanner-server/internal/config"
	"github.com/starman154/syllabus-scanner-server/internal/extract"
	"github.com/starman154/syllabus-scanner-server/internal/parser"
	"github.com/starman154/syllabus-scanner-server/internal/pipeline"
	"github.com/starman154/syllabus-scanner-server/internal/store"
)

// The worker binary drains the jobs table that the API fills for deferred
// uploads. It shares the store and pipeline with the server and can run
// alongside it, or on a separate machine against the same MySQL.
func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.AnthropicAPIKey == "" {
		log.Error("ANTHROPIC_API_KEY is required")
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
	defer st.Close()

	claude := extract.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	defer claude.Close()

	processor := pipeline.NewProcessor(claude, st, parser.NewRasterizer(cfg.RasterDPI), log)
	processor.PDFFallbackPdftotext = cfg.PDFFallbackPdftotext
	poller := pipeline.NewPoller(st, processor, log, cfg.PollInterval)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
	}()

	log.Info("starting syllabus worker", "store", st.Dialect(), "poll_interval", cfg.PollInterval.String())
	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("worker error", "error", err)
		os.Exit(1)
	}
}
