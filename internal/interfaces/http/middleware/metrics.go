// HTTP metrics middleware feeding the request counters and latency
// histograms.  The route pattern, not the raw path, is used as the label so
// per-business URLs do not explode metric cardinality.
package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/prometheus"
)

// HTTPMetrics returns middleware that records request count, latency, and
// in-flight gauge for every request.
func HTTPMetrics(metrics *prometheus.AppMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if metrics == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			metrics.HTTPActiveRequests.WithLabelValues().Inc()
			defer metrics.HTTPActiveRequests.WithLabelValues().Dec()

			wrapped := newWrappedResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}
			prometheus.RecordHTTPRequest(metrics, r.Method, path,
				wrapped.statusCode, time.Since(start))
		})
	}
}

//Personal.AI order the ending
