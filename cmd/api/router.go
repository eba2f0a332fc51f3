package main

import (
	"context"
	"net/http"
	"time"

	"museumdash/internal/config"
	"museumdash/internal/dashboard"
	"museumdash/internal/enrich"
	"museumdash/internal/httpx"
	"museumdash/internal/platform/logger"
)

const maxRequestBytes = 1 << 20

type routes struct {
	dashboard *dashboard.HTTPHandler
	jobs      *enrich.HTTPHandler
	ready     func(ctx context.Context) error
}

// newRouter registers every route and wraps the mux in the middleware
// stack. The returned func stops the rate limiter's eviction loop.
func newRouter(cfg config.Config, log *logger.Logger, rt routes) (http.Handler, func()) {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := rt.ready(ctx); err != nil {
			http.Error(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	d := rt.dashboard
	router.HandleFunc("GET /v1/filters", d.Filters)
	router.HandleFunc("GET /v1/stats/summary", d.Summary)
	router.HandleFunc("GET /v1/stats/gender", d.Gender)
	router.HandleFunc("GET /v1/stats/heritage", d.Heritage)
	router.HandleFunc("GET /v1/stats/acquisitions", d.Acquisitions)
	router.HandleFunc("GET /v1/stats/intersection", d.Intersection)
	router.HandleFunc("GET /v1/records", d.Records)

	internal := httpx.InternalSecretMiddleware(cfg.Secret)
	router.Handle("POST /internal/jobs/enrich", internal(http.HandlerFunc(rt.jobs.Enrich)))
	router.Handle("GET /internal/jobs/enrich/{id}", internal(http.HandlerFunc(rt.jobs.GetRun)))

	limiter := httpx.NewRateLimitMiddleware(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(cfg.HTTP.AllowedOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(maxRequestBytes),
	)
	return handler, limiter.Stop
}
