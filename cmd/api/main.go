package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"museumdash/internal/app"
	"museumdash/internal/config"
	"museumdash/internal/dashboard"
	"museumdash/internal/enrich"
	"museumdash/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("startup failed", "error", err)
	}
	defer a.Close()

	store := dashboard.NewStore(cfg.Enrich.OutputPath)
	if d, err := store.Reload(); err != nil {
		log.Warn("no enriched dataset loaded; run the enrichment job first", "path", cfg.Enrich.OutputPath, "error", err)
	} else {
		log.Info("dataset loaded", "path", d.Source(), "records", d.Len())
	}

	reload := func(ctx context.Context, run *enrich.Run) error {
		d, err := store.Reload()
		if err != nil {
			return err
		}
		log.Info("dataset reloaded", "run_id", run.ID, "records", d.Len())
		return nil
	}
	jobs := enrich.NewHTTPHandler(a.Service, a.Runs, cfg.Enrich.InputPath, cfg.Enrich.OutputPath, reload, log)

	handler, stopLimiter := newRouter(cfg, log, routes{
		dashboard: dashboard.NewHTTPHandler(store),
		jobs:      jobs,
		ready: func(ctx context.Context) error {
			if _, err := store.Current(); err != nil {
				return err
			}
			return a.Ping(ctx)
		},
	})
	defer stopLimiter()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting server", "addr", cfg.Addr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
