package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"museumdash/internal/collection"
	"museumdash/internal/config"
	"museumdash/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, endpoint string) config.Config {
	dir := t.TempDir()
	cfg := config.Config{Env: "test", Addr: ":0"}
	cfg.Cache.Backend = "none"
	cfg.Enrich.InputPath = filepath.Join(dir, "collection.csv")
	cfg.Enrich.OutputPath = filepath.Join(dir, "out", "enriched.csv")
	cfg.Enrich.Workers = 2
	cfg.Enrich.Sources = []string{"viaf"}
	cfg.Enrich.MinConfidence = 1
	cfg.Lookup.RPS = 1000
	cfg.Lookup.UserAgent = "test"
	cfg.Lookup.WikidataEndpoint = endpoint
	cfg.Lookup.VIAFEndpoint = endpoint
	cfg.Lookup.ULANEndpoint = endpoint
	return cfg
}

func TestRun_WritesOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/AutoSuggest":
			fmt.Fprint(w, `{"query":"x","result":[{"term":"Kahlo, Frida","displayForm":"Kahlo, Frida","nametype":"personal","viafid":"22152240"}]}`)
		case "/22152240/viaf.json":
			fmt.Fprint(w, `{"viafID":"22152240","nameType":"Personal","birthDate":"1907-07-06","deathDate":"1954-07-13","fixed":{"gender":"a"},"nationalityOfEntity":{"data":{"text":"MX"}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	require.NoError(t, os.WriteFile(cfg.Enrich.InputPath,
		[]byte("artwork_id,title,artist_name\nMA0001,Self-Portrait,Frida Kahlo\n"), 0o644))

	assert.Equal(t, 0, run(cfg, logger.Nop()))

	_, records, err := collection.ReadEnrichedFile(cfg.Enrich.OutputPath)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "female", string(records[0].Identity.Gender))
	assert.Equal(t, "22152240", records[0].Identity.ExternalIDs.VIAFID)
}

func TestRun_MissingInput(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	assert.Equal(t, 1, run(cfg, logger.Nop()))
}
