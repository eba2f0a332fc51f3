package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"museumdash/internal/collection"
	"museumdash/internal/identity"
	"museumdash/internal/platform/logger"
	"museumdash/internal/resolver"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Workers int
}

// Resolver is the priority-ordered source chain.
type Resolver interface {
	Resolve(ctx context.Context, name string) (*resolver.Match, []resolver.Attempt, error)
}

type Service struct {
	chain   Resolver
	cache   identity.Repository
	runs    Repository
	log     *logger.Logger
	workers int
	now     func() time.Time
}

// NewService wires the pipeline. cache may be nil to disable the cross-run
// identity cache; runs may be nil to keep run audits in memory.
func NewService(chain Resolver, cache identity.Repository, runs Repository, log *logger.Logger, cfg Config) *Service {
	if runs == nil {
		runs = NewMemoryRepo()
	}
	if log == nil {
		log = logger.Nop()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Service{
		chain:   chain,
		cache:   cache,
		runs:    runs,
		log:     log,
		workers: workers,
		now:     time.Now,
	}
}

// Run reads inputPath, enriches it and atomically replaces outputPath.
// The returned run is finalised (COMPLETED or FAILED) in every case where
// it could be created.
func (s *Service) Run(ctx context.Context, inputPath, outputPath string) (run *Run, err error) {
	run = &Run{
		ID:         uuid.NewString(),
		StartedAt:  s.now(),
		Status:     StatusRunning,
		InputPath:  inputPath,
		OutputPath: outputPath,
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	log := s.log.With("run_id", run.ID)
	log.Info("enrichment run started", "input", inputPath, "output", outputPath)

	defer func() {
		finished := s.now()
		run.FinishedAt = &finished
		if err != nil && run.Error == "" {
			run.Error = err.Error()
		}
		if run.Error != "" {
			run.Status = StatusFailed
		} else {
			run.Status = StatusCompleted
		}
		if updateErr := s.runs.UpdateRun(context.WithoutCancel(ctx), run); updateErr != nil {
			log.Error("failed to update enrichment run", "error", updateErr)
		}
		log.Info("enrichment run finished",
			"status", run.Status,
			"records_read", run.RecordsRead,
			"records_skipped", run.RecordsSkipped,
			"artists_distinct", run.ArtistsDistinct,
			"artists_resolved", run.ArtistsResolved,
			"lookup_failures", run.LookupFailures,
			"cache_hits", run.CacheHits,
			"duration_ms", finished.Sub(run.StartedAt).Milliseconds(),
		)
	}()

	tbl, err := collection.ReadFile(inputPath)
	if err != nil {
		return run, err
	}
	run.RecordsRead = len(tbl.Records) + len(tbl.Skipped)
	run.RecordsSkipped = len(tbl.Skipped)
	for _, skipped := range tbl.Skipped {
		log.Warn("skipping malformed row", "file", inputPath, "line", skipped.Line, "error", skipped.Err)
	}
	for _, w := range tbl.Warnings {
		log.Warn("keeping row with unusable value", "file", inputPath, "line", w.Line, "error", w.Err)
	}

	out, resolutions, err := s.enrich(ctx, log, run, tbl.Records)
	if err != nil {
		return run, err
	}

	for _, res := range resolutions {
		if err := s.runs.RecordResolution(ctx, run.ID, res); err != nil {
			log.Warn("failed to record resolution", "artist", res.ArtistName, "error", err)
		}
	}

	if err := collection.WriteFile(outputPath, tbl.Header, out); err != nil {
		return run, err
	}
	return run, nil
}

// Enrich resolves every distinct artist in records and returns one enriched
// record per input record, in input order. Only ctx cancellation fails it.
func (s *Service) Enrich(ctx context.Context, records []collection.Record) ([]collection.EnrichedRecord, *Run, error) {
	run := &Run{
		ID:          uuid.NewString(),
		StartedAt:   s.now(),
		Status:      StatusRunning,
		RecordsRead: len(records),
	}
	out, _, err := s.enrich(ctx, s.log.With("run_id", run.ID), run, records)
	finished := s.now()
	run.FinishedAt = &finished
	if err != nil {
		run.Status = StatusFailed
		run.Error = err.Error()
		return nil, run, err
	}
	run.Status = StatusCompleted
	return out, run, nil
}

type artist struct {
	key  string
	name string
}

type outcome struct {
	identity   identity.Identity
	resolution Resolution
}

func (s *Service) enrich(ctx context.Context, log *logger.Logger, run *Run, records []collection.Record) ([]collection.EnrichedRecord, []Resolution, error) {
	keys := make([]string, len(records))
	slot := make(map[string]int)
	var artists []artist
	for i, rec := range records {
		key := identity.NormalizeKey(rec.ArtistName)
		keys[i] = key
		if key == "" {
			continue
		}
		if _, seen := slot[key]; !seen {
			slot[key] = len(artists)
			artists = append(artists, artist{key: key, name: identity.CleanName(rec.ArtistName)})
		}
	}

	results := make([]outcome, len(artists))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, a := range artists {
		g.Go(func() error {
			res, err := s.resolve(gctx, log, a)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("enrich: %w", err)
	}

	resolutions := make([]Resolution, len(results))
	run.ArtistsDistinct = len(artists)
	for i, r := range results {
		resolutions[i] = r.resolution
		if r.resolution.Matched {
			run.ArtistsResolved++
		} else {
			run.ArtistsUnresolved++
		}
		if r.resolution.CacheHit {
			run.CacheHits++
		}
		run.LookupFailures += r.resolution.LookupFailures
	}

	out := make([]collection.EnrichedRecord, len(records))
	for i, rec := range records {
		id := identity.Unknown()
		if idx, ok := slot[keys[i]]; ok && keys[i] != "" {
			id = results[idx].identity
		}
		out[i] = collection.EnrichedRecord{Record: rec, Identity: id}
	}
	return out, resolutions, nil
}

// resolve returns an error only when ctx is done.
func (s *Service) resolve(ctx context.Context, log *logger.Logger, a artist) (outcome, error) {
	res := Resolution{NameKey: a.key, ArtistName: a.name}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, a.key)
		switch {
		case err != nil && ctx.Err() != nil:
			return outcome{}, ctx.Err()
		case err != nil:
			log.Warn("identity cache read failed", "artist", a.name, "error", err)
		case ok:
			res.Matched = true
			res.CacheHit = true
			res.Source = cached.Source
			res.Confidence = cached.Confidence
			cached.ResolvedAt = time.Time{}
			return outcome{identity: cached, resolution: res}, nil
		}
	}

	match, attempts, err := s.chain.Resolve(ctx, a.name)
	if err != nil {
		return outcome{}, err
	}

	var errs []string
	for _, at := range attempts {
		switch {
		case at.Err == nil:
		case errors.Is(at.Err, resolver.ErrAmbiguous):
			log.Debug("ambiguous match", "artist", a.name, "source", at.Source)
		default:
			res.LookupFailures++
			errs = append(errs, at.Source+": "+at.Err.Error())
			log.Warn("artist lookup failed", "artist", a.name, "source", at.Source, "error", at.Err)
		}
	}
	res.Error = strings.Join(errs, "; ")

	if match == nil {
		log.Debug("artist unresolved", "artist", a.name)
		return outcome{identity: identity.Unknown(), resolution: res}, nil
	}

	id := match.Identity
	id.Heritage = identity.NormalizeHeritage(id.Heritage)
	if id.Gender == "" {
		id.Gender = identity.GenderUnknown
	}
	res.Matched = true
	res.Source = id.Source
	res.Confidence = id.Confidence

	// The resolution time belongs to the cache entry only, so enriched
	// output depends on the input and the sources alone.
	if s.cache != nil {
		entry := id
		entry.ResolvedAt = s.now()
		if err := s.cache.Put(ctx, a.key, entry, match.Raw); err != nil {
			log.Warn("identity cache write failed", "artist", a.name, "error", err)
		}
	}
	id.ResolvedAt = time.Time{}
	return outcome{identity: id, resolution: res}, nil
}
