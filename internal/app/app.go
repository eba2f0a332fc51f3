// Package app wires configuration into the enrichment service and its
// backing stores. Both the API server and the enrich command use it.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"museumdash/internal/config"
	"museumdash/internal/enrich"
	"museumdash/internal/identity"
	"museumdash/internal/platform/fetch"
	"museumdash/internal/platform/logger"
	"museumdash/internal/platform/ulan"
	"museumdash/internal/platform/viaf"
	"museumdash/internal/platform/wikidata"
	"museumdash/internal/resolver"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config  config.Config
	Log     *logger.Logger
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Cache   identity.Repository
	Runs    enrich.Repository
	Chain   *resolver.Chain
	Service *enrich.Service
}

// New opens the optional database and cache and builds the enrichment
// service. Close releases whatever was opened.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	if cfg.DBDSN != "" {
		db, err := OpenDB(ctx, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		a.DB = db
		a.Runs = enrich.NewPostgresRepo(db)
		log.Info("database connection OK", "dsn", logger.RedactDSN(cfg.DBDSN))
	} else {
		a.Runs = enrich.NewMemoryRepo()
		log.Info("DB_DSN not set; enrichment runs are kept in memory")
	}

	ttl := time.Duration(cfg.Cache.TTLDays) * 24 * time.Hour
	switch cfg.Cache.Backend {
	case "postgres":
		a.Cache = identity.NewPostgresRepo(a.DB, ttl)
	case "redis":
		rdb, err := identity.NewRedisClient(ctx, identity.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = rdb
		a.Cache = identity.NewRedisRepo(rdb, ttl)
	}
	log.Info("identity cache", "backend", cfg.Cache.Backend, "ttl_days", cfg.Cache.TTLDays)

	chain, err := NewChain(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Chain = chain
	log.Info("resolver chain", "sources", chain.Sources())

	a.Service = enrich.NewService(chain, a.Cache, a.Runs, log, enrich.Config{Workers: cfg.Enrich.Workers})
	return a, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// Ping checks the backing stores that were configured.
func (a *App) Ping(ctx context.Context) error {
	if a.DB != nil {
		if err := a.DB.Ping(ctx); err != nil {
			return fmt.Errorf("db: %w", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func OpenDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", logger.RedactDSN(dsn), err)
	}
	return pool, nil
}

// NewChain builds the resolvers named in ENRICH_SOURCES, in that order.
// All sources share one rate limited HTTP client.
func NewChain(cfg config.Config) (*resolver.Chain, error) {
	f := fetch.NewClient(fetch.Options{
		UserAgent:  cfg.Lookup.UserAgent,
		RPS:        cfg.Lookup.RPS,
		MaxRetries: cfg.Lookup.MaxRetries,
		Timeout:    cfg.Lookup.Timeout,
	})
	minConf := cfg.Enrich.MinConfidence

	var resolvers []resolver.Resolver
	for _, name := range cfg.Enrich.Sources {
		switch name {
		case resolver.SourceWikidata:
			resolvers = append(resolvers, resolver.NewWikidata(wikidata.NewClient(f, cfg.Lookup.WikidataEndpoint), minConf))
		case resolver.SourceVIAF:
			resolvers = append(resolvers, resolver.NewVIAF(viaf.NewClient(f, cfg.Lookup.VIAFEndpoint), minConf))
		case resolver.SourceULAN:
			resolvers = append(resolvers, resolver.NewULAN(ulan.NewClient(f, cfg.Lookup.ULANEndpoint), minConf))
		default:
			return nil, fmt.Errorf("unknown identity source %q", name)
		}
	}
	if len(resolvers) == 0 {
		return nil, errors.New("no identity sources configured")
	}
	return resolver.NewChain(resolvers...), nil
}
