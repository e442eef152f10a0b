package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docoutline/internal/api"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/pathstore"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := config.LoadDotEnv(os.Getenv("OUTLINER_ENV_FILE")); err != nil {
		log.Error("load env file", "error", err)
		os.Exit(1)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional outline sink.
	var (
		ps    *pathstore.Client
		sink  pipeline.OutlineSink
		store api.DocumentStore
	)
	if cfg.SinkEnabled() {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		sink, store = ps, ps
		log.Info("outline sink enabled", "pathstore_url", cfg.PathstoreURL)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, sink, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, store, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("starting docoutline",
		"port", cfg.Port,
		"workers", cfg.WorkerCount,
		"score_threshold", cfg.ClassifyConfig().ScoreThreshold,
	)

	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	err := serve(sigCtx, log, httpServer, func() {
		orch.Stop()
		if ps != nil {
			ps.Close()
		}
	})
	if err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// serve runs httpServer until ctx is done, drains it, then calls stop. It
// returns only after stop has finished, so in-flight jobs and the sink are
// closed before the process exits.
func serve(ctx context.Context, log *slog.Logger, httpServer *http.Server, stop func()) error {
	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	stop()

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
