package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"museumdash/internal/app"
	"museumdash/internal/config"
	"museumdash/internal/platform/logger"
)

func main() {
	var (
		input  = flag.String("input", "", "Collection CSV to enrich (default ENRICH_INPUT_PATH)")
		output = flag.String("output", "", "Enriched CSV to write (default ENRICH_OUTPUT_PATH)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if *input != "" {
		cfg.Enrich.InputPath = *input
	}
	if *output != "" {
		cfg.Enrich.OutputPath = *output
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}

	os.Exit(run(cfg, log))
}

func run(cfg config.Config, log *logger.Logger) int {
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		return 1
	}
	defer a.Close()

	r, err := a.Service.Run(ctx, cfg.Enrich.InputPath, cfg.Enrich.OutputPath)
	if err != nil {
		log.Error("enrichment failed", "error", err)
		return 1
	}

	log.Info("enrichment complete",
		"run_id", r.ID,
		"output", r.OutputPath,
		"records", r.RecordsRead,
		"skipped", r.RecordsSkipped,
		"artists", r.ArtistsDistinct,
		"resolved", r.ArtistsResolved,
		"unresolved", r.ArtistsUnresolved,
		"lookup_failures", r.LookupFailures,
		"cache_hits", r.CacheHits,
	)
	return 0
}
