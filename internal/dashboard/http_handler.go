package dashboard

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"museumdash/internal/httpx"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type HTTPHandler struct {
	store *Store
	now   func() time.Time
}

func NewHTTPHandler(store *Store) *HTTPHandler {
	return &HTTPHandler{store: store, now: time.Now}
}

type filterQuery struct {
	From        string   `validate:"omitempty,datetime=2006-01-02"`
	To          string   `validate:"omitempty,datetime=2006-01-02"`
	Departments []string `validate:"dive,max=200"`
	Genders     []string `validate:"dive,oneof=All all female male non-binary unknown Female Male Non-Binary Unknown"`
	Heritages   []string `validate:"dive,max=100"`
}

var queryFields = map[string]string{
	"From": "from", "To": "to", "Departments": "department", "Genders": "gender", "Heritages": "heritage",
	"Page": "page", "PageSize": "page_size",
}

func parseFilter(r *http.Request) (Filter, []httpx.ErrorDetail) {
	q := r.URL.Query()
	fq := filterQuery{
		From:        q.Get("from"),
		To:          q.Get("to"),
		Departments: multi(q["department"]),
		Genders:     multi(q["gender"]),
		Heritages:   multi(q["heritage"]),
	}
	if details := validationDetails(validate.Struct(fq)); details != nil {
		return Filter{}, details
	}

	f := Filter{Departments: fq.Departments, Genders: fq.Genders, Heritages: fq.Heritages}
	f.From, _ = time.Parse("2006-01-02", fq.From)
	f.To, _ = time.Parse("2006-01-02", fq.To)
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return Filter{}, []httpx.ErrorDetail{{Field: "to", Message: "to must not be before from"}}
	}
	return f, nil
}

// multi accepts both repeated parameters and comma separated values.
func multi(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func validationDetails(err error) []httpx.ErrorDetail {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []httpx.ErrorDetail{{Field: "query", Message: err.Error()}}
	}
	details := make([]httpx.ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.StructField()
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		field := queryFields[name]
		if field == "" {
			field = strings.ToLower(name)
		}

		var message string
		switch fe.Tag() {
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", field, fe.Param())
		case "gte", "min":
			message = fmt.Sprintf("%s must be at least %s", field, fe.Param())
		case "lte", "max":
			message = fmt.Sprintf("%s must be at most %s", field, fe.Param())
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}
		details = append(details, httpx.ErrorDetail{Field: field, Message: message})
	}
	return details
}

// dataset writes the error response itself when it returns ok=false.
func (h *HTTPHandler) dataset(w http.ResponseWriter, r *http.Request) (*Dataset, Filter, bool) {
	d, err := h.store.Current()
	if err != nil {
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "DATASET_NOT_LOADED", "no enriched dataset is loaded yet", nil)
		return nil, Filter{}, false
	}
	f, details := parseFilter(r)
	if details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "invalid query parameters", details)
		return nil, Filter{}, false
	}
	return d, f, true
}

func datasetMeta(d *Dataset) map[string]interface{} {
	return map[string]interface{}{
		"source":    d.Source(),
		"loaded_at": d.LoadedAt(),
	}
}

// Filters handles GET /v1/filters
// @Summary Filter options
// @Description Distinct departments, genders, heritages and the acquisition date range of the loaded dataset
// @Tags dashboard
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/filters [get]
func (h *HTTPHandler) Filters(w http.ResponseWriter, r *http.Request) {
	d, err := h.store.Current()
	if err != nil {
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "DATASET_NOT_LOADED", "no enriched dataset is loaded yet", nil)
		return
	}
	httpx.JSONSuccess(w, r, d.FilterOptions(), datasetMeta(d))
}

// Summary handles GET /v1/stats/summary
// @Summary Diversity KPIs
// @Tags dashboard
// @Produce json
// @Param from query string false "Acquired on or after (YYYY-MM-DD)"
// @Param to query string false "Acquired on or before (YYYY-MM-DD)"
// @Param department query string false "Department filter"
// @Param gender query string false "Gender filter"
// @Param heritage query string false "Heritage filter"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/stats/summary [get]
func (h *HTTPHandler) Summary(w http.ResponseWriter, r *http.Request) {
	d, f, ok := h.dataset(w, r)
	if !ok {
		return
	}
	httpx.JSONSuccess(w, r, d.Summary(f, h.now()), datasetMeta(d))
}

// Gender handles GET /v1/stats/gender
func (h *HTTPHandler) Gender(w http.ResponseWriter, r *http.Request) {
	d, f, ok := h.dataset(w, r)
	if !ok {
		return
	}
	httpx.JSONSuccess(w, r, d.GenderCounts(f), datasetMeta(d))
}

// Heritage handles GET /v1/stats/heritage
func (h *HTTPHandler) Heritage(w http.ResponseWriter, r *http.Request) {
	d, f, ok := h.dataset(w, r)
	if !ok {
		return
	}
	httpx.JSONSuccess(w, r, d.HeritageCounts(f), datasetMeta(d))
}

// Acquisitions handles GET /v1/stats/acquisitions
func (h *HTTPHandler) Acquisitions(w http.ResponseWriter, r *http.Request) {
	d, f, ok := h.dataset(w, r)
	if !ok {
		return
	}
	httpx.JSONSuccess(w, r, d.AcquisitionsByYear(f), datasetMeta(d))
}

// Intersection handles GET /v1/stats/intersection
func (h *HTTPHandler) Intersection(w http.ResponseWriter, r *http.Request) {
	d, f, ok := h.dataset(w, r)
	if !ok {
		return
	}
	httpx.JSONSuccess(w, r, d.Intersection(f), datasetMeta(d))
}

// Records handles GET /v1/records
// @Summary Search artworks
// @Description Search artist name and title; newest acquisitions first
// @Tags dashboard
// @Produce json
// @Param q query string false "Search term"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/records [get]
func (h *HTTPHandler) Records(w http.ResponseWriter, r *http.Request) {
	d, f, ok := h.dataset(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	rows, total := d.Search(f, query.Get("q"), page, pageSize)
	httpx.JSONSuccess(w, r, rows, map[string]interface{}{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}
