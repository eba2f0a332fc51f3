package enrich

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) error {
	const sql = `
		INSERT INTO enrichment_runs (id, started_at, status, input_path, output_path)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, sql, run.ID, run.StartedAt, run.Status, run.InputPath, run.OutputPath)
	return err
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE enrichment_runs SET
			finished_at = $1,
			status = $2,
			records_read = $3,
			records_skipped = $4,
			artists_distinct = $5,
			artists_resolved = $6,
			artists_unresolved = $7,
			lookup_failures = $8,
			cache_hits = $9,
			error = $10
		WHERE id = $11`

	tag, err := r.db.Exec(ctx, sql, run.FinishedAt, run.Status, run.RecordsRead, run.RecordsSkipped,
		run.ArtistsDistinct, run.ArtistsResolved, run.ArtistsUnresolved, run.LookupFailures,
		run.CacheHits, run.Error, run.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (r *PostgresRepo) GetRun(ctx context.Context, id string) (*Run, error) {
	const sql = `
		SELECT id, started_at, finished_at, status, input_path, output_path,
			records_read, records_skipped, artists_distinct, artists_resolved,
			artists_unresolved, lookup_failures, cache_hits, error
		FROM enrichment_runs
		WHERE id = $1`

	var run Run
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status, &run.InputPath, &run.OutputPath,
		&run.RecordsRead, &run.RecordsSkipped, &run.ArtistsDistinct, &run.ArtistsResolved,
		&run.ArtistsUnresolved, &run.LookupFailures, &run.CacheHits, &run.Error,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *PostgresRepo) RecordResolution(ctx context.Context, runID string, res Resolution) error {
	const sql = `
		INSERT INTO enrichment_resolutions
			(run_id, name_key, artist_name, matched, source, confidence, cache_hit, lookup_failures, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (run_id, name_key) DO NOTHING`
	_, err := r.db.Exec(ctx, sql, runID, res.NameKey, res.ArtistName, res.Matched, res.Source,
		res.Confidence, res.CacheHit, res.LookupFailures, res.Error)
	return err
}
