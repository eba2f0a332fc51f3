package enrich

import (
	"errors"
	"time"
)

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

var ErrRunNotFound = errors.New("enrichment run not found")

// Run is the audit record of one enrichment pass.
type Run struct {
	ID                string     `json:"id"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        *time.Time `json:"finished_at,omitempty"`
	Status            string     `json:"status"`
	InputPath         string     `json:"input_path,omitempty"`
	OutputPath        string     `json:"output_path,omitempty"`
	RecordsRead       int        `json:"records_read"`
	RecordsSkipped    int        `json:"records_skipped"`
	ArtistsDistinct   int        `json:"artists_distinct"`
	ArtistsResolved   int        `json:"artists_resolved"`
	ArtistsUnresolved int        `json:"artists_unresolved"`
	LookupFailures    int        `json:"lookup_failures"`
	CacheHits         int        `json:"cache_hits"`
	Error             string     `json:"error,omitempty"`
}

// Resolution is the per-artist outcome kept against a run for provenance.
type Resolution struct {
	NameKey        string  `json:"name_key"`
	ArtistName     string  `json:"artist_name"`
	Matched        bool    `json:"matched"`
	Source         string  `json:"source,omitempty"`
	Confidence     float64 `json:"confidence"`
	CacheHit       bool    `json:"cache_hit"`
	LookupFailures int     `json:"lookup_failures"`
	Error          string  `json:"error,omitempty"`
}
