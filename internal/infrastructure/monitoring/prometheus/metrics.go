package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds the platform's instrument families.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Diagnosis pipeline
	DiagnosisRunsTotal      CounterVec
	DiagnosisDuration       HistogramVec
	DiagnosisCacheHitsTotal CounterVec
	DiagnosisReusedTotal    CounterVec
	DiagnosisFailuresTotal  CounterVec
	DiagnosisMeanScore      HistogramVec

	// Report archive
	ReportsArchivedTotal CounterVec
	ReportArchiveErrors  CounterVec

	// Infrastructure
	DBQueryDuration        HistogramVec
	DBConnectionPoolActive GaugeVec
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	EventsPublishedTotal   CounterVec
	EventsConsumedTotal    CounterVec
	EventProcessDuration   HistogramVec
	EventsDeadLetteredTotal CounterVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultPipelineDurationBuckets = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15, 30}
	DefaultDBDurationBuckets       = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultScoreBuckets            = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
)

// NewAppMetrics registers every instrument family on the collector.
func NewAppMetrics(c MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = c.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = c.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = c.RegisterGauge("http_active_requests", "In-flight HTTP requests")

	m.DiagnosisRunsTotal = c.RegisterCounter("diagnosis_runs_total", "Completed diagnosis runs", "health_band", "stage")
	m.DiagnosisDuration = c.RegisterHistogram("diagnosis_duration_seconds", "End-to-end diagnosis pipeline duration", DefaultPipelineDurationBuckets, "trigger")
	m.DiagnosisCacheHitsTotal = c.RegisterCounter("diagnosis_cache_hits_total", "Diagnoses served from the result cache")
	m.DiagnosisReusedTotal = c.RegisterCounter("diagnosis_reused_total", "Diagnoses reused from an unchanged prior run")
	m.DiagnosisFailuresTotal = c.RegisterCounter("diagnosis_failures_total", "Failed diagnosis attempts", "error_code")
	m.DiagnosisMeanScore = c.RegisterHistogram("diagnosis_mean_score", "Mean dimension score per completed run", DefaultScoreBuckets)

	m.ReportsArchivedTotal = c.RegisterCounter("reports_archived_total", "Reports archived to object storage")
	m.ReportArchiveErrors = c.RegisterCounter("report_archive_errors_total", "Report archive failures")

	m.DBQueryDuration = c.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "operation")
	m.DBConnectionPoolActive = c.RegisterGauge("db_pool_active", "Active database connections")
	m.CacheHitsTotal = c.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = c.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.EventsPublishedTotal = c.RegisterCounter("events_published_total", "Events published", "topic")
	m.EventsConsumedTotal = c.RegisterCounter("events_consumed_total", "Events consumed", "topic", "status")
	m.EventProcessDuration = c.RegisterHistogram("event_process_duration_seconds", "Event handler duration", DefaultHTTPDurationBuckets, "topic")
	m.EventsDeadLetteredTotal = c.RegisterCounter("events_dead_lettered_total", "Events forwarded to the dead-letter topic", "origin_topic")

	m.HealthCheckStatus = c.RegisterGauge("health_check_status", "Component health (1=up, 0=down)", "component")
	m.ErrorsTotal = c.RegisterCounter("errors_total", "Total errors", "component", "error_code")

	return m
}

// RecordHTTPRequest updates the request counter and latency histogram.
func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDiagnosisRun records one completed diagnosis.
func RecordDiagnosisRun(m *AppMetrics, healthBand, stage, trigger string, meanScore float64, duration time.Duration) {
	m.DiagnosisRunsTotal.WithLabelValues(healthBand, stage).Inc()
	m.DiagnosisDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	m.DiagnosisMeanScore.WithLabelValues().Observe(meanScore)
}

// RecordDiagnosisFailure records one failed diagnosis attempt.
func RecordDiagnosisFailure(m *AppMetrics, errorCode string) {
	m.DiagnosisFailuresTotal.WithLabelValues(errorCode).Inc()
}

// RecordCacheAccess records a cache hit or miss for the named cache.
func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordEventConsumed records an event handled by a consumer.
func RecordEventConsumed(m *AppMetrics, topic string, ok bool, duration time.Duration) {
	status := "ok"
	if !ok {
		status = "error"
	}
	m.EventsConsumedTotal.WithLabelValues(topic, status).Inc()
	m.EventProcessDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

// RecordHealthStatus sets a component's health gauge.
func RecordHealthStatus(m *AppMetrics, component string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1.0
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

// RecordError counts an error by component and code.
func RecordError(m *AppMetrics, component, errorCode string) {
	m.ErrorsTotal.WithLabelValues(component, errorCode).Inc()
}

//Personal.AI order the ending
