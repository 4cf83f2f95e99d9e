package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tanisha290/adobe-teamkt-1b/internal/api"
	"github.com/tanisha290/adobe-teamkt-1b/internal/config"
	"github.com/tanisha290/adobe-teamkt-1b/internal/persona"
	"github.com/tanisha290/adobe-teamkt-1b/internal/pipeline"
	"github.com/tanisha290/adobe-teamkt-1b/internal/stats"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	lex, err := persona.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		log.Error("load lexicon", "path", cfg.LexiconPath, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize pipeline.
	st := stats.NewExtraction(time.Hour)
	analyzer := pipeline.NewAnalyzer(pipeline.OptionsFromConfig(cfg), lex, st, log)
	orch := pipeline.NewOrchestrator(cfg, analyzer, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, st, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: stop accepting requests before closing the queue.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting docintel",
		"port", cfg.Port,
		"workers", cfg.WorkerCount,
		"document_workers", cfg.DocumentWorkers,
		"lexicon_roles", lex.Len(),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
}
