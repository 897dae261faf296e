// Shared helpers for HTTP handlers: JSON rendering, pagination parsing, and
// the mapping from application error codes to HTTP status codes.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/turtacn/SME-Diagnostics/pkg/errors"
)

// parsePagination extracts page and page_size from query parameters.
func parsePagination(r *http.Request) (int, int) {
	page := 1
	pageSize := 20

	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}
	return page, pageSize
}

// parseBoolQuery reads a boolean query parameter, defaulting to false.
func parseBoolQuery(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a structured error response carrying the application
// error code.
func writeError(w http.ResponseWriter, statusCode int, err error) {
	resp := ErrorResponse{
		Code:    string(errors.GetCode(err)),
		Message: err.Error(),
	}
	writeJSON(w, statusCode, resp)
}

// statusForCode maps an application error code to an HTTP status.
func statusForCode(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeProfileNotFound,
		errors.ErrCodeRunNotFound, errors.ErrCodeFinancialsNotFound:
		return http.StatusNotFound
	case errors.ErrCodeValidation, errors.ErrCodeBadRequest,
		errors.ErrCodeProfileInvalid, errors.ErrCodeDocumentTypeInvalid:
		return http.StatusBadRequest
	case errors.ErrCodeConflict, errors.ErrCodeRunAlreadyExists:
		return http.StatusConflict
	case errors.ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case errors.ErrCodeServiceUnavailable, errors.ErrCodeExternalService,
		errors.ErrCodeBenchmarkUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError maps application-level errors to HTTP responses.  Server-side
// failures are masked so internal detail never leaks to clients.
func writeAppError(w http.ResponseWriter, err error) {
	status := statusForCode(errors.GetCode(err))
	if status >= http.StatusInternalServerError {
		writeError(w, status, errors.New(errors.ErrCodeInternal, "internal server error"))
		return
	}
	writeError(w, status, err)
}

//Personal.AI order the ending
