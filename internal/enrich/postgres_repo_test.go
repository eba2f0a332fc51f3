package enrich

import (
	"context"
	"testing"
	"time"

	"museumdash/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_RunLifecycle(t *testing.T) {
	repo := NewPostgresRepo(testutil.PostgresPool(t))
	ctx := context.Background()

	run := &Run{
		ID:         uuid.NewString(),
		StartedAt:  time.Now().UTC().Truncate(time.Millisecond),
		Status:     StatusRunning,
		InputPath:  "data/collection.csv",
		OutputPath: "data/enriched.csv",
	}
	require.NoError(t, repo.CreateRun(ctx, run))

	finished := run.StartedAt.Add(time.Minute)
	run.FinishedAt = &finished
	run.Status = StatusCompleted
	run.RecordsRead = 10
	run.ArtistsDistinct = 4
	run.ArtistsResolved = 3
	run.ArtistsUnresolved = 1
	require.NoError(t, repo.UpdateRun(ctx, run))

	require.NoError(t, repo.RecordResolution(ctx, run.ID, Resolution{
		NameKey: "jane doe", ArtistName: "Jane Doe", Matched: true, Source: "wikidata", Confidence: 1,
	}))
	// duplicate keys within a run are ignored
	require.NoError(t, repo.RecordResolution(ctx, run.ID, Resolution{NameKey: "jane doe", ArtistName: "Jane Doe"}))

	got, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, 10, got.RecordsRead)
	assert.Equal(t, 3, got.ArtistsResolved)
	require.NotNil(t, got.FinishedAt)

	_, err = repo.GetRun(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrRunNotFound)

	err = repo.UpdateRun(ctx, &Run{ID: uuid.NewString(), Status: StatusFailed})
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestMemoryRepo(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	err := repo.UpdateRun(ctx, &Run{ID: "missing"})
	assert.ErrorIs(t, err, ErrRunNotFound)

	run := &Run{ID: "r1", Status: StatusRunning}
	require.NoError(t, repo.CreateRun(ctx, run))
	run.Status = StatusCompleted
	require.NoError(t, repo.UpdateRun(ctx, run))

	got, err := repo.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)

	// returned runs are copies
	got.Status = "CHANGED"
	again, _ := repo.GetRun(ctx, "r1")
	assert.Equal(t, StatusCompleted, again.Status)
}
