package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db  *pgxpool.Pool
	ttl time.Duration
	now func() time.Time
}

func NewPostgresRepo(db *pgxpool.Pool, ttl time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, ttl: ttl, now: time.Now}
}

func (r *PostgresRepo) Get(ctx context.Context, key string) (Identity, bool, error) {
	const query = `
		SELECT name, gender, heritage, wikidata_id, viaf_id, ulan_id,
		       birth_year, death_year, source, confidence, resolved_at
		FROM artist_identities
		WHERE name_key = $1`

	var (
		id     Identity
		gender string
	)
	err := r.db.QueryRow(ctx, query, key).Scan(
		&id.Name, &gender, &id.Heritage, &id.ExternalIDs.WikidataID, &id.ExternalIDs.VIAFID,
		&id.ExternalIDs.ULANID, &id.BirthYear, &id.DeathYear, &id.Source, &id.Confidence, &id.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, false, nil
		}
		return Identity{}, false, fmt.Errorf("get identity %q: %w", key, err)
	}
	if !Fresh(id.ResolvedAt, r.ttl, r.now()) {
		return Identity{}, false, nil
	}
	id.Gender = ParseGender(gender)
	id.Heritage = NormalizeHeritage(id.Heritage)
	return id, true, nil
}

func (r *PostgresRepo) Put(ctx context.Context, key string, id Identity, rawJSON []byte) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const identitySQL = `
		INSERT INTO artist_identities (name_key, name, gender, heritage, wikidata_id, viaf_id, ulan_id,
		                               birth_year, death_year, source, confidence, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		ON CONFLICT (name_key) DO UPDATE SET
			name = EXCLUDED.name,
			gender = EXCLUDED.gender,
			heritage = EXCLUDED.heritage,
			wikidata_id = EXCLUDED.wikidata_id,
			viaf_id = EXCLUDED.viaf_id,
			ulan_id = EXCLUDED.ulan_id,
			birth_year = EXCLUDED.birth_year,
			death_year = EXCLUDED.death_year,
			source = EXCLUDED.source,
			confidence = EXCLUDED.confidence,
			resolved_at = now()`

	_, err = tx.Exec(ctx, identitySQL, key, id.Name, string(id.Gender), NormalizeHeritage(id.Heritage),
		id.ExternalIDs.WikidataID, id.ExternalIDs.VIAFID, id.ExternalIDs.ULANID,
		id.BirthYear, id.DeathYear, id.Source, id.Confidence)
	if err != nil {
		return fmt.Errorf("upsert identity: %w", err)
	}

	const sourceSQL = `
		INSERT INTO identity_sources (name_key, provider, raw_json, fetched_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (name_key, provider) DO UPDATE SET
			raw_json = EXCLUDED.raw_json,
			fetched_at = now()`

	if _, err = tx.Exec(ctx, sourceSQL, key, id.Source, rawJSON); err != nil {
		return fmt.Errorf("upsert identity source: %w", err)
	}

	return tx.Commit(ctx)
}
