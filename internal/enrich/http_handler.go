package enrich

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"museumdash/internal/httpx"
	"museumdash/internal/platform/logger"

	"github.com/google/uuid"
)

// Runner is the part of Service the handler needs.
type Runner interface {
	Run(ctx context.Context, inputPath, outputPath string) (*Run, error)
}

// RunReader looks up past runs.
type RunReader interface {
	GetRun(ctx context.Context, id string) (*Run, error)
}

type HTTPHandler struct {
	svc        Runner
	runs       RunReader
	inputPath  string
	outputPath string
	onComplete func(ctx context.Context, run *Run) error
	log        *logger.Logger
	running    atomic.Bool
}

// NewHTTPHandler builds the internal job handler. onComplete, when set, is
// called after a successful run (the API uses it to reload the dataset).
func NewHTTPHandler(svc Runner, runs RunReader, inputPath, outputPath string, onComplete func(ctx context.Context, run *Run) error, log *logger.Logger) *HTTPHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &HTTPHandler{
		svc:        svc,
		runs:       runs,
		inputPath:  inputPath,
		outputPath: outputPath,
		onComplete: onComplete,
		log:        log,
	}
}

// Enrich handles POST /internal/jobs/enrich
// @Summary Trigger collection enrichment
// @Description Resolve artist identities for the configured collection file and reload the dashboard dataset
// @Tags internal
// @Produce json
// @Param X-Internal-Secret header string true "Internal secret for authentication"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /internal/jobs/enrich [post]
func (h *HTTPHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	if !h.running.CompareAndSwap(false, true) {
		httpx.JSONError(w, r, http.StatusConflict, "JOB_RUNNING", "an enrichment run is already in progress", nil)
		return
	}
	defer h.running.Store(false)

	run, err := h.svc.Run(r.Context(), h.inputPath, h.outputPath)
	if err != nil {
		h.log.Error("enrichment job failed", "request_id", httpx.RequestIDFrom(r), "error", err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "ENRICH_FAILED", err.Error(), nil)
		return
	}

	if h.onComplete != nil {
		if err := h.onComplete(r.Context(), run); err != nil {
			h.log.Error("dataset reload failed", "run_id", run.ID, "error", err)
			httpx.JSONError(w, r, http.StatusInternalServerError, "RELOAD_FAILED", err.Error(), nil)
			return
		}
	}

	httpx.JSONSuccess(w, r, run, nil)
}

// GetRun handles GET /internal/jobs/enrich/{id}
func (h *HTTPHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "run not found", nil)
		return
	}

	run, err := h.runs.GetRun(r.Context(), id)
	if errors.Is(err, ErrRunNotFound) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "run not found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load run", nil)
		return
	}
	httpx.JSONSuccess(w, r, run, nil)
}
