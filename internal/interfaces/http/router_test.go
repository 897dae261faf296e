package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SME-Diagnostics/internal/application/diagnosis"
	"github.com/turtacn/SME-Diagnostics/internal/domain/diagnostics"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SME-Diagnostics/internal/interfaces/http/handlers"
	"github.com/turtacn/SME-Diagnostics/internal/interfaces/http/middleware"
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// routerStubService satisfies diagnosis.Service for route wiring tests.
type routerStubService struct{}

func (routerStubService) Diagnose(context.Context, diagnosis.DiagnoseRequest) (*diagnosis.DiagnoseResult, error) {
	return &diagnosis.DiagnoseResult{Run: &diagnostics.Run{ID: "run-1", Output: &dg.Output{}}}, nil
}

func (routerStubService) Latest(context.Context, string) (*diagnostics.Run, error) {
	return &diagnostics.Run{ID: "run-1", Output: &dg.Output{}}, nil
}

func (routerStubService) GetRun(context.Context, string) (*diagnostics.Run, error) {
	return &diagnostics.Run{ID: "run-1", Output: &dg.Output{}}, nil
}

func (routerStubService) ListRuns(context.Context, diagnosis.ListRunsRequest) (*diagnosis.RunPage, error) {
	return &diagnosis.RunPage{Page: 1, PageSize: 20}, nil
}

func (routerStubService) Invalidate(context.Context, string) error { return nil }

func newTestRouterConfig(t *testing.T) RouterConfig {
	t.Helper()
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace: "test",
		Subsystem: "router",
	}, logging.NewNopLogger())
	require.NoError(t, err)

	return RouterConfig{
		DiagnosisHandler: handlers.NewDiagnosisHandler(routerStubService{}, logging.NewNopLogger()),
		HealthHandler:    handlers.NewHealthHandler("test"),
		AppMetrics:       prometheus.NewAppMetrics(collector),
		MetricsCollector: collector,
	}
}

func doRequest(router http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter_WiresAllRoutes(t *testing.T) {
	router := NewRouter(newTestRouterConfig(t))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/healthz/detail", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodPost, "/api/v1/businesses/biz-1/diagnosis", http.StatusCreated},
		{http.MethodGet, "/api/v1/businesses/biz-1/diagnosis/latest", http.StatusOK},
		{http.MethodGet, "/api/v1/businesses/biz-1/diagnosis/runs", http.StatusOK},
		{http.MethodDelete, "/api/v1/businesses/biz-1/diagnosis/cache", http.StatusOK},
		{http.MethodGet, "/api/v1/diagnosis/runs/run-1", http.StatusOK},
	}
	for _, tt := range tests {
		w := doRequest(router, tt.method, tt.path)
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestNewRouter_UnknownRoute404(t *testing.T) {
	router := NewRouter(newTestRouterConfig(t))

	assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/api/v1/unknown").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, doRequest(router, http.MethodPut, "/api/v1/businesses/b/diagnosis").Code)
}

func TestNewRouter_NilHandlersAreSkipped(t *testing.T) {
	router := NewRouter(RouterConfig{})

	assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/metrics").Code)
}

func TestNewRouter_RateLimitApplied(t *testing.T) {
	cfg := newTestRouterConfig(t)
	limiter := middleware.NewTokenBucketLimiter(1, 1, 0)
	cfg.RateLimit = middleware.RateLimit(limiter, middleware.DefaultRateLimitConfig())
	router := NewRouter(cfg)

	first := doRequest(router, http.MethodGet, "/api/v1/businesses/biz-1/diagnosis/latest")
	require.Equal(t, http.StatusOK, first.Code)
	assert.NotEmpty(t, first.Header().Get("X-RateLimit-Limit"))

	second := doRequest(router, http.MethodGet, "/api/v1/businesses/biz-1/diagnosis/latest")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Probes bypass the limiter.
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/healthz").Code)
}

func TestNewRouter_MetricsObserveAPITraffic(t *testing.T) {
	cfg := newTestRouterConfig(t)
	router := NewRouter(cfg)

	doRequest(router, http.MethodGet, "/api/v1/businesses/biz-1/diagnosis/latest")

	w := doRequest(router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_router_http_requests_total")
}

// panicService panics on every call; used to exercise the Recoverer.
type panicService struct{ routerStubService }

func (panicService) Latest(context.Context, string) (*diagnostics.Run, error) {
	panic("unexpected")
}

func TestNewRouter_RecovererCatchesPanics(t *testing.T) {
	cfg := newTestRouterConfig(t)
	cfg.DiagnosisHandler = handlers.NewDiagnosisHandler(panicService{}, logging.NewNopLogger())
	router := NewRouter(cfg)

	var w *httptest.ResponseRecorder
	assert.NotPanics(t, func() {
		w = doRequest(router, http.MethodGet, "/api/v1/businesses/biz-1/diagnosis/latest")
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

//Personal.AI order the ending
