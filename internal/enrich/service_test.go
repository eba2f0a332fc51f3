package enrich

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"museumdash/internal/collection"
	"museumdash/internal/identity"
	"museumdash/internal/platform/logger"
	"museumdash/internal/resolver"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fixtureSource answers from a fixed table and counts lookups.
type fixtureSource struct {
	name    string
	matches map[string]identity.Identity
	err     error

	mu    sync.Mutex
	calls map[string]int
}

func (f *fixtureSource) Name() string { return f.name }

func (f *fixtureSource) Resolve(ctx context.Context, name string) (*resolver.Match, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	id, ok := f.matches[name]
	if !ok {
		return nil, nil
	}
	return &resolver.Match{Identity: id, Raw: []byte(`{}`)}, nil
}

type mockChain struct {
	mock.Mock
}

func (m *mockChain) Resolve(ctx context.Context, name string) (*resolver.Match, []resolver.Attempt, error) {
	args := m.Called(ctx, name)
	var match *resolver.Match
	if v := args.Get(0); v != nil {
		match = v.(*resolver.Match)
	}
	var attempts []resolver.Attempt
	if v := args.Get(1); v != nil {
		attempts = v.([]resolver.Attempt)
	}
	return match, attempts, args.Error(2)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(chain Resolver, cache identity.Repository, runs Repository, workers int) *Service {
	s := NewService(chain, cache, runs, nil, Config{Workers: workers})
	s.now = func() time.Time { return fixedNow }
	return s
}

func janeDoe() identity.Identity {
	return identity.Identity{
		Name:        "Jane Doe",
		Gender:      identity.GenderFemale,
		Heritage:    []string{"American"},
		ExternalIDs: identity.ExternalIDs{WikidataID: "Q42"},
		Source:      "wikidata",
		Confidence:  1,
	}
}

func TestService_Enrich_Scenarios(t *testing.T) {
	primary := &fixtureSource{name: "wikidata", matches: map[string]identity.Identity{"Jane Doe": janeDoe()}}
	authority := &fixtureSource{name: "viaf"}
	art := &fixtureSource{name: "ulan"}
	s := newTestService(resolver.NewChain(primary, authority, art), nil, nil, 4)

	records := []collection.Record{
		{ArtistName: "Jane Doe", Department: "Painting"},
		{ArtistName: "Unknown Artist", Department: "Sculpture"},
	}
	out, run, err := s.Enrich(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Jane Doe", out[0].ArtistName)
	assert.Equal(t, "Painting", out[0].Department)
	assert.Equal(t, identity.GenderFemale, out[0].Identity.Gender)
	assert.Equal(t, []string{"American"}, out[0].Identity.Heritage)
	assert.Equal(t, "wikidata", out[0].Identity.Source)

	assert.Equal(t, "Unknown Artist", out[1].ArtistName)
	assert.Equal(t, "Sculpture", out[1].Department)
	assert.Equal(t, identity.GenderUnknown, out[1].Identity.Gender)
	assert.Equal(t, []string{}, out[1].Identity.Heritage)
	assert.False(t, out[1].Identity.Resolved())

	assert.Equal(t, StatusCompleted, run.Status)
	assert.Equal(t, 2, run.ArtistsDistinct)
	assert.Equal(t, 1, run.ArtistsResolved)
	assert.Equal(t, 1, run.ArtistsUnresolved)

	// a primary hit never reaches the later sources
	assert.Zero(t, authority.calls["Jane Doe"])
	assert.Equal(t, 1, authority.calls["Unknown Artist"])
	assert.Equal(t, 1, art.calls["Unknown Artist"])
}

func TestService_Enrich_PreservesLengthAndOrder(t *testing.T) {
	primary := &fixtureSource{name: "wikidata", matches: map[string]identity.Identity{
		"Jane Doe":     janeDoe(),
		"Mary Cassatt": {Gender: identity.GenderFemale, Heritage: []string{"North American"}, Source: "wikidata", Confidence: 1},
	}}
	s := newTestService(resolver.NewChain(primary), nil, nil, 3)

	records := []collection.Record{
		{ArtworkID: "1", ArtistName: "Jane Doe"},
		{ArtworkID: "2", ArtistName: ""},
		{ArtworkID: "3", ArtistName: "Cassatt, Mary"},
		{ArtworkID: "4", ArtistName: "  jane   doe "},
		{ArtworkID: "5", ArtistName: "Mary Cassatt"},
		{ArtworkID: "6", ArtistName: "???"},
	}
	input := make([]collection.Record, len(records))
	copy(input, records)

	out, run, err := s.Enrich(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, out, len(records))
	for i := range records {
		assert.Equal(t, records[i].ArtworkID, out[i].ArtworkID)
	}
	assert.Equal(t, input, records, "input must not be mutated")

	assert.Equal(t, identity.GenderUnknown, out[1].Identity.Gender)
	assert.Equal(t, identity.GenderUnknown, out[5].Identity.Gender)
	assert.Equal(t, identity.GenderFemale, out[2].Identity.Gender)
	assert.Equal(t, out[2].Identity, out[4].Identity)

	// distinct names are looked up once each
	assert.Equal(t, 2, run.ArtistsDistinct)
	assert.Equal(t, 1, primary.calls["Jane Doe"])
	assert.Equal(t, 1, primary.calls["Mary Cassatt"])
	assert.Len(t, primary.calls, 2)
}

func TestService_Enrich_Idempotent(t *testing.T) {
	primary := &fixtureSource{name: "wikidata", matches: map[string]identity.Identity{"Jane Doe": janeDoe()}}
	s := newTestService(resolver.NewChain(primary), nil, nil, 4)
	records := []collection.Record{
		{ArtistName: "Jane Doe"}, {ArtistName: "Nobody"}, {ArtistName: "Jane Doe"},
	}

	first, _, err := s.Enrich(context.Background(), records)
	require.NoError(t, err)
	second, _, err := s.Enrich(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestService_Enrich_IdempotentWithWallClock(t *testing.T) {
	primary := &fixtureSource{name: "wikidata", matches: map[string]identity.Identity{"Jane Doe": janeDoe()}}
	s := NewService(resolver.NewChain(primary), nil, nil, nil, Config{Workers: 2})
	records := []collection.Record{{ArtistName: "Jane Doe", Department: "Painting"}}

	first, _, err := s.Enrich(context.Background(), records)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, _, err := s.Enrich(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, first[0].Identity.ResolvedAt.IsZero())
}

func TestService_Enrich_SourceFailureDoesNotAbort(t *testing.T) {
	down := &fixtureSource{name: "wikidata", err: errors.New("503 after retries")}
	authority := &fixtureSource{name: "viaf", matches: map[string]identity.Identity{"Jane Doe": janeDoe()}}
	s := newTestService(resolver.NewChain(down, authority), nil, nil, 2)

	out, run, err := s.Enrich(context.Background(), []collection.Record{
		{ArtistName: "Jane Doe"}, {ArtistName: "Unknown Artist"},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, identity.GenderFemale, out[0].Identity.Gender)
	assert.Equal(t, "viaf", out[0].Identity.Source)
	assert.Equal(t, identity.GenderUnknown, out[1].Identity.Gender)
	assert.Equal(t, 2, run.LookupFailures)
	assert.Equal(t, StatusCompleted, run.Status)
}

func TestService_Enrich_AmbiguousIsUnresolved(t *testing.T) {
	chain := new(mockChain)
	chain.On("Resolve", mock.Anything, "John Smith").Return(nil, []resolver.Attempt{
		{Source: "wikidata", Err: resolver.ErrAmbiguous},
	}, nil)
	s := newTestService(chain, nil, nil, 1)

	out, run, err := s.Enrich(context.Background(), []collection.Record{{ArtistName: "John Smith"}})
	require.NoError(t, err)
	assert.Equal(t, identity.Unknown(), out[0].Identity)
	assert.Equal(t, 0, run.LookupFailures)
	chain.AssertExpectations(t)
}

func TestService_Enrich_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestService(resolver.NewChain(&fixtureSource{name: "wikidata"}), nil, nil, 2)
	out, run, err := s.Enrich(ctx, []collection.Record{{ArtistName: "Jane Doe"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
	assert.Equal(t, StatusFailed, run.Status)
}

func TestService_Enrich_Cache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := identity.NewMockRepository(ctrl)
	cached := janeDoe()
	cached.ResolvedAt = fixedNow.Add(-time.Hour)

	cassatt := identity.Identity{Gender: identity.GenderFemale, Heritage: []string{"North American"}, Source: "wikidata", Confidence: 1}
	primary := &fixtureSource{name: "wikidata", matches: map[string]identity.Identity{"Mary Cassatt": cassatt}}

	cache.EXPECT().Get(gomock.Any(), "jane doe").Return(cached, true, nil)
	cache.EXPECT().Get(gomock.Any(), "mary cassatt").Return(identity.Identity{}, false, nil)
	cache.EXPECT().Get(gomock.Any(), "unknown artist").Return(identity.Identity{}, false, errors.New("redis down"))

	stored := cassatt
	stored.ResolvedAt = fixedNow
	cache.EXPECT().Put(gomock.Any(), "mary cassatt", stored, []byte(`{}`)).Return(errors.New("write failed"))

	s := newTestService(resolver.NewChain(primary), cache, nil, 2)
	out, run, err := s.Enrich(context.Background(), []collection.Record{
		{ArtistName: "Jane Doe"}, {ArtistName: "Mary Cassatt"}, {ArtistName: "Unknown Artist"},
	})
	require.NoError(t, err)

	assert.Equal(t, janeDoe(), out[0].Identity, "resolution time stays in the cache")
	assert.Equal(t, identity.GenderFemale, out[1].Identity.Gender)
	assert.Equal(t, identity.GenderUnknown, out[2].Identity.Gender)
	assert.Zero(t, primary.calls["Jane Doe"])
	assert.Equal(t, 1, run.CacheHits)
	assert.Equal(t, 2, run.ArtistsResolved)
}

const collectionCSV = `artwork_id,title,artist_name,year_created,acquisition_date,department,medium
MA0001,Artwork 1,Jane Doe,1990,2021-04-01,Painting,Oil on canvas
MA0002,Artwork 2,Unknown Artist,1950,2003-09-12,Sculpture,Bronze
MA0003,Artwork 3,Jane Doe,1980,someday,Sculpture,Bronze
MA0005,Artwork 5,Unknown Artist,c. 1906,2023-02-02,Prints & Drawings,Lithograph
MA0004,Artwork 4,Jane Doe,1991,2022-01-15,Photography,Photography
`

func writeInput(t *testing.T) (string, string) {
	dir := t.TempDir()
	in := filepath.Join(dir, "collection.csv")
	require.NoError(t, os.WriteFile(in, []byte(collectionCSV), 0o644))
	return in, filepath.Join(dir, "enriched.csv")
}

func TestService_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepository(ctrl)
	repo.EXPECT().CreateRun(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, run *Run) error {
		assert.Equal(t, StatusRunning, run.Status)
		assert.NotEmpty(t, run.ID)
		return nil
	})
	repo.EXPECT().RecordResolution(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	repo.EXPECT().UpdateRun(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, run *Run) error {
		assert.Equal(t, StatusCompleted, run.Status)
		assert.NotNil(t, run.FinishedAt)
		return nil
	})

	primary := &fixtureSource{name: "wikidata", matches: map[string]identity.Identity{"Jane Doe": janeDoe()}}
	s := newTestService(resolver.NewChain(primary), nil, repo, 2)

	in, out := writeInput(t)
	run, err := s.Run(context.Background(), in, out)
	require.NoError(t, err)

	assert.Equal(t, 5, run.RecordsRead)
	assert.Equal(t, 1, run.RecordsSkipped)
	assert.Equal(t, 2, run.ArtistsDistinct)
	assert.Equal(t, 1, run.ArtistsResolved)
	assert.Equal(t, 1, run.ArtistsUnresolved)

	_, got, err := collection.ReadEnrichedFile(out)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "MA0001", got[0].ArtworkID)
	assert.Equal(t, identity.GenderFemale, got[0].Identity.Gender)
	assert.Equal(t, identity.GenderUnknown, got[1].Identity.Gender)
	assert.Equal(t, "MA0005", got[2].ArtworkID)
	assert.Equal(t, "MA0004", got[3].ArtworkID)
}

func TestService_Run_LogsRowProblems(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	primary := &fixtureSource{name: "wikidata", matches: map[string]identity.Identity{"Jane Doe": janeDoe()}}
	s := NewService(resolver.NewChain(primary), nil, nil, log, Config{Workers: 1})

	in, out := writeInput(t)
	_, err := s.Run(context.Background(), in, out)
	require.NoError(t, err)

	skipped := logs.FilterMessage("skipping malformed row").All()
	require.Len(t, skipped, 1)
	assert.EqualValues(t, 4, skipped[0].ContextMap()["line"])

	kept := logs.FilterMessage("keeping row with unusable value").All()
	require.Len(t, kept, 1)
	assert.EqualValues(t, 5, kept[0].ContextMap()["line"])
	assert.Contains(t, kept[0].ContextMap()["error"], "c. 1906")
}

func TestService_Run_OutputIdempotent(t *testing.T) {
	primary := &fixtureSource{name: "wikidata", matches: map[string]identity.Identity{"Jane Doe": janeDoe()}}
	s := newTestService(resolver.NewChain(primary), nil, NewMemoryRepo(), 2)

	in, out := writeInput(t)
	_, err := s.Run(context.Background(), in, out)
	require.NoError(t, err)
	first, err := os.ReadFile(out)
	require.NoError(t, err)

	_, err = s.Run(context.Background(), in, out)
	require.NoError(t, err)
	second, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestService_Run_WriteFailure(t *testing.T) {
	repo := NewMemoryRepo()
	s := newTestService(resolver.NewChain(&fixtureSource{name: "wikidata"}), nil, repo, 1)

	in, _ := writeInput(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("keep"), 0o644))

	run, err := s.Run(context.Background(), in, filepath.Join(blocker, "enriched.csv"))
	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, StatusFailed, run.Status)
	assert.NotEmpty(t, run.Error)

	stored, err := repo.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, stored.Status)
	assert.Len(t, repo.Resolutions(run.ID), 2)
}

func TestService_Run_MissingArtistColumn(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(in, []byte("title,department\nA,B\n"), 0o644))

	s := newTestService(resolver.NewChain(), nil, NewMemoryRepo(), 1)
	run, err := s.Run(context.Background(), in, filepath.Join(dir, "out.csv"))
	assert.ErrorIs(t, err, collection.ErrMissingArtistColumn)
	assert.Equal(t, StatusFailed, run.Status)
	_, statErr := os.Stat(filepath.Join(dir, "out.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestService_Run_CreateRunFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepository(ctrl)
	repo.EXPECT().CreateRun(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	s := newTestService(resolver.NewChain(), nil, repo, 1)
	run, err := s.Run(context.Background(), "in.csv", "out.csv")
	assert.Error(t, err)
	assert.Nil(t, run)
}
