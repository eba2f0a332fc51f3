package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env     string `validate:"oneof=dev development prod production test"`
	Addr    string `validate:"required"`
	DBDSN   string
	Redis   RedisConfig
	Cache   CacheConfig
	Enrich  EnrichConfig
	Lookup  LookupConfig
	HTTP    HTTPConfig
	Secret  string
	Migrate string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int `validate:"gte=0"`
}

type CacheConfig struct {
	Backend string `validate:"oneof=none postgres redis"`
	TTLDays int    `validate:"gte=0"`
}

type EnrichConfig struct {
	InputPath     string
	OutputPath    string
	Workers       int      `validate:"gte=1,lte=64"`
	Sources       []string `validate:"min=1,dive,oneof=wikidata viaf ulan"`
	MinConfidence float64  `validate:"gt=0,lte=1"`
}

type LookupConfig struct {
	RPS              float64       `validate:"gt=0"`
	MaxRetries       int           `validate:"gte=0,lte=10"`
	Timeout          time.Duration `validate:"gt=0"`
	UserAgent        string        `validate:"required"`
	WikidataEndpoint string        `validate:"required,url"`
	VIAFEndpoint     string        `validate:"required,url"`
	ULANEndpoint     string        `validate:"required,url"`
}

type HTTPConfig struct {
	AllowedOrigins []string
	RateLimitRPS   float64 `validate:"gt=0"`
	RateLimitBurst int     `validate:"gte=1"`
}

// LoadEnvFiles reads .env and .env.local. Values already present in the
// process environment win.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func Load() (Config, error) {
	LoadEnvFiles()

	var e env
	cfg := Config{
		Env:     String("APP_ENV", "dev"),
		Addr:    String("APP_ADDR", ":8080"),
		DBDSN:   String("DB_DSN", ""),
		Secret:  String("INTERNAL_SECRET", ""),
		Migrate: String("MIGRATIONS_DIR", "db/migrations"),
		Redis: RedisConfig{
			Addr:     String("REDIS_ADDR", "localhost:6379"),
			Password: String("REDIS_PASSWORD", ""),
			DB:       e.Int("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Backend: strings.ToLower(String("IDENTITY_CACHE", "none")),
			TTLDays: e.Int("IDENTITY_CACHE_TTL_DAYS", 30),
		},
		Enrich: EnrichConfig{
			InputPath:     String("ENRICH_INPUT_PATH", "data/collection.csv"),
			OutputPath:    String("ENRICH_OUTPUT_PATH", "data/collection_enriched.csv"),
			Workers:       e.Int("ENRICH_WORKERS", 4),
			Sources:       List("ENRICH_SOURCES", []string{"wikidata", "viaf", "ulan"}),
			MinConfidence: e.Float("MATCH_MIN_CONFIDENCE", 1.0),
		},
		Lookup: LookupConfig{
			RPS:              e.Float("LOOKUP_RPS", 1),
			MaxRetries:       e.Int("LOOKUP_MAX_RETRIES", 2),
			Timeout:          e.Duration("LOOKUP_TIMEOUT", 15*time.Second),
			UserAgent:        String("LOOKUP_USER_AGENT", "MuseumDataEnrichment/1.0"),
			WikidataEndpoint: String("WIKIDATA_ENDPOINT", "https://query.wikidata.org/sparql"),
			VIAFEndpoint:     String("VIAF_ENDPOINT", "https://viaf.org/viaf"),
			ULANEndpoint:     String("ULAN_ENDPOINT", "http://vocab.getty.edu/sparql.json"),
		},
		HTTP: HTTPConfig{
			AllowedOrigins: List("CORS_ALLOWED_ORIGINS", nil),
			RateLimitRPS:   e.Float("RATE_LIMIT_RPS", 20),
			RateLimitBurst: e.Int("RATE_LIMIT_BURST", 40),
		},
	}

	if err := errors.Join(e.errs...); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Cache.Backend == "postgres" && c.DBDSN == "" {
		return fmt.Errorf("invalid config: IDENTITY_CACHE=postgres requires DB_DSN")
	}
	return nil
}

func String(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// env reads typed values and records every malformed one.
type env struct {
	errs []error
}

func (e *env) Int(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s %q is not an integer", key, v))
		return def
	}
	return i
}

func (e *env) Float(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s %q is not a number", key, v))
		return def
	}
	return f
}

func (e *env) Duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s %q is not a duration", key, v))
		return def
	}
	return d
}

// List splits a comma separated value, dropping empty items.
func List(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
