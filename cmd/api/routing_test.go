package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"museumdash/internal/collection"
	"museumdash/internal/config"
	"museumdash/internal/dashboard"
	"museumdash/internal/enrich"
	"museumdash/internal/platform/logger"
	"museumdash/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct{}

func (stubRunner) Run(ctx context.Context, in, out string) (*enrich.Run, error) {
	return &enrich.Run{ID: "run-1", Status: enrich.StatusCompleted}, nil
}

func newTestRouter(t *testing.T, loaded bool) http.Handler {
	t.Helper()
	cfg := config.Config{Secret: "s3cret"}
	cfg.HTTP.RateLimitRPS = 1000
	cfg.HTTP.RateLimitBurst = 1000

	store := dashboard.NewStore("unused.csv")
	if loaded {
		store.Set(dashboard.NewDataset(nil, []collection.EnrichedRecord{{
			Record: collection.Record{ArtworkID: "MA0001", ArtistName: "Frida Kahlo", AcquisitionDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		}}, "test", time.Now()))
	}

	handler, stop := newRouter(cfg, logger.Nop(), routes{
		dashboard: dashboard.NewHTTPHandler(store),
		jobs:      enrich.NewHTTPHandler(stubRunner{}, enrich.NewMemoryRepo(), "in.csv", "out.csv", nil, logger.Nop()),
		ready: func(ctx context.Context) error {
			_, err := store.Current()
			return err
		},
	})
	t.Cleanup(stop)
	return handler
}

func TestV1Routing(t *testing.T) {
	h := newTestRouter(t, true)

	for _, path := range []string{
		"/v1/filters",
		"/v1/stats/summary",
		"/v1/stats/gender",
		"/v1/stats/heritage",
		"/v1/stats/acquisitions",
		"/v1/stats/intersection",
		"/v1/records",
		"/healthz",
		"/readyz",
	} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouting_NotFoundAndMethod(t *testing.T) {
	h := newTestRouter(t, true)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats/summary", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/stats/summary", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouting_ReadyzWithoutDataset(t *testing.T) {
	h := newTestRouter(t, false)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouting_InternalJobs(t *testing.T) {
	h := newTestRouter(t, true)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/internal/jobs/enrich", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/internal/jobs/enrich", nil)
	req.Header.Set("X-Internal-Secret", "s3cret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	res := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "run-1", res.Data()["id"])

	req = httptest.NewRequest(http.MethodGet, "/internal/jobs/enrich/6f1c1e0e-8c4b-4a43-9d55-0b6a3d1f5c11", nil)
	req.Header.Set("X-Internal-Secret", "s3cret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
