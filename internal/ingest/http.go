package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/healthstats/visitload/internal/model"
	"github.com/healthstats/visitload/internal/validate"
)

// uploadHandler accepts a multipart upload and submits it for
// asynchronous ingestion.
type uploadHandler struct {
	service *Service
}

// NewUploadHandler wraps the service with a POST upload endpoint. On
// acceptance it answers 202 with the PENDING job; a rejected file
// answers 400 with the FAILED job's id and the rejection reason.
func NewUploadHandler(service *Service) http.Handler {
	return &uploadHandler{service: service}
}

func (h *uploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	job, err := h.service.Submit(r.Context(), header.Filename, payload)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"job_id": decodeErr.JobID,
				"error":  decodeErr.Err.Error(),
			})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, job)
}

// jobsHandler lists recent ingestion jobs, newest first.
type jobsHandler struct {
	store JobQueries
}

// NewJobsHandler exposes the job list with an optional ?limit.
func NewJobsHandler(store JobQueries) http.Handler {
	return &jobsHandler{store: store}
}

func (h *jobsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, ok := limitParam(w, r, 20)
	if !ok {
		return
	}
	jobs, err := h.store.ListJobs(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

// jobHandler serves one job for status polling.
type jobHandler struct {
	store JobQueries
}

// NewJobHandler exposes a single job by its {job_id} path value.
func NewJobHandler(store JobQueries) http.Handler {
	return &jobHandler{store: store}
}

func (h *jobHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobID, ok := jobIDParam(w, r)
	if !ok {
		return
	}
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "job not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// jobFailuresHandler lists a job's failed rows with their staged
// payloads, in file order.
type jobFailuresHandler struct {
	store JobQueries
}

// NewJobFailuresHandler exposes a job's row failures by its {job_id}
// path value, with an optional ?limit.
func NewJobFailuresHandler(store JobQueries) http.Handler {
	return &jobFailuresHandler{store: store}
}

func (h *jobFailuresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobID, ok := jobIDParam(w, r)
	if !ok {
		return
	}
	limit, ok := limitParam(w, r, 100)
	if !ok {
		return
	}
	failures, err := h.store.JobFailures(r.Context(), jobID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if failures == nil {
		failures = []model.StagingFailure{}
	}
	writeJSON(w, http.StatusOK, failures)
}

// templateHandler serves the canonical upload template as a CSV
// download.
type templateHandler struct{}

// NewTemplateHandler exposes the upload template.
func NewTemplateHandler() http.Handler {
	return templateHandler{}
}

func (templateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="patient_visit_template.csv"`)
	_, _ = io.WriteString(w, validate.TemplateCSV())
}

func jobIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	jobID, err := strconv.ParseInt(r.PathValue("job_id"), 10, 64)
	if err != nil || jobID < 1 {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return 0, false
	}
	return jobID, true
}

func limitParam(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
