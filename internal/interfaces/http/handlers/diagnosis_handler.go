// HTTP handler for the diagnosis resource: triggering runs, fetching the
// latest result, browsing run history, and invalidating cached outputs.

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/SME-Diagnostics/internal/application/diagnosis"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
)

// DiagnosisHandler handles HTTP requests for diagnosis operations.
type DiagnosisHandler struct {
	svc    diagnosis.Service
	logger logging.Logger
}

// NewDiagnosisHandler creates a DiagnosisHandler.
func NewDiagnosisHandler(svc diagnosis.Service, logger logging.Logger) *DiagnosisHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &DiagnosisHandler{svc: svc, logger: logger.Named("http.diagnosis")}
}

// RunDiagnosisRequest is the optional body of POST .../diagnosis.
type RunDiagnosisRequest struct {
	// Force recomputes even when the business's input bundle is unchanged.
	Force bool `json:"force,omitempty"`
}

// RunDiagnosisResponse wraps a diagnosis run with its provenance.
type RunDiagnosisResponse struct {
	Run      interface{} `json:"run"`
	Reused   bool        `json:"reused"`
	CacheHit bool        `json:"cache_hit"`
}

// RunDiagnosis handles POST /api/v1/businesses/{businessID}/diagnosis.
// A fresh computation answers 201; an unchanged input bundle answers 200
// with the prior run.
func (h *DiagnosisHandler) RunDiagnosis(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")

	var req RunDiagnosisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, errors.NewValidation("invalid request body"))
		return
	}
	// force=true in the query wins over the body for curl convenience.
	if parseBoolQuery(r, "force") {
		req.Force = true
	}

	result, err := h.svc.Diagnose(r.Context(), diagnosis.DiagnoseRequest{
		BusinessID: businessID,
		Force:      req.Force,
		Trigger:    "api",
	})
	if err != nil {
		h.logger.Error("Diagnosis request failed",
			logging.String("business_id", businessID), logging.Err(err))
		writeAppError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Reused {
		status = http.StatusOK
	}
	writeJSON(w, status, RunDiagnosisResponse{
		Run:      result.Run,
		Reused:   result.Reused,
		CacheHit: result.CacheHit,
	})
}

// LatestDiagnosis handles GET /api/v1/businesses/{businessID}/diagnosis/latest.
func (h *DiagnosisHandler) LatestDiagnosis(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")

	run, err := h.svc.Latest(r.Context(), businessID)
	if err != nil {
		if !errors.IsNotFound(err) {
			h.logger.Error("Latest-diagnosis lookup failed",
				logging.String("business_id", businessID), logging.Err(err))
		}
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// ListRuns handles GET /api/v1/businesses/{businessID}/diagnosis/runs.
func (h *DiagnosisHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	page, pageSize := parsePagination(r)

	result, err := h.svc.ListRuns(r.Context(), diagnosis.ListRunsRequest{
		BusinessID: businessID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		h.logger.Error("Run-history listing failed",
			logging.String("business_id", businessID), logging.Err(err))
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetRun handles GET /api/v1/diagnosis/runs/{runID}.
func (h *DiagnosisHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	run, err := h.svc.GetRun(r.Context(), runID)
	if err != nil {
		if !errors.IsNotFound(err) {
			h.logger.Error("Run lookup failed",
				logging.String("run_id", runID), logging.Err(err))
		}
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// InvalidateCache handles DELETE /api/v1/businesses/{businessID}/diagnosis/cache.
// Data-ingestion surfaces call it after a business's profile changes so the
// next diagnosis recomputes.
func (h *DiagnosisHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")

	if err := h.svc.Invalidate(r.Context(), businessID); err != nil {
		h.logger.Error("Cache invalidation failed",
			logging.String("business_id", businessID), logging.Err(err))
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

//Personal.AI order the ending
