package main

import (
	"context"
	"time"

	"github.com/turtacn/SME-Diagnostics/internal/application/diagnosis"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/database/redis"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/search/opensearch"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/storage/minio"
)

// eventHandlers holds the per-topic event handlers.  Indexer, archiver, and
// cache may be nil when the backing service is not configured; the handlers
// skip those steps.
type eventHandlers struct {
	svc      diagnosis.Service
	runs     *repositories.RunRepository
	indexer  *opensearch.RunIndexer
	archiver *minio.ReportArchiver
	cache    *redis.DiagnosisCache
	metrics  *prometheus.AppMetrics
	logger   logging.Logger
}

// handleRequested runs the diagnosis pipeline for an asynchronously requested
// business.  The service itself publishes the completed/failed events.
func (h *eventHandlers) handleRequested(ctx context.Context, env *kafka.EventEnvelope) error {
	started := time.Now()
	var p kafka.DiagnosisRequestedPayload
	if err := env.DecodePayload(&p); err != nil {
		return err
	}

	result, err := h.svc.Diagnose(ctx, diagnosis.DiagnoseRequest{
		BusinessID: p.BusinessID,
		Force:      p.Force,
		Trigger:    "event",
	})
	prometheus.RecordEventConsumed(h.metrics, kafka.TopicDiagnosisRequested, err == nil, time.Since(started))
	if err != nil {
		return err
	}

	h.logger.Info("Diagnosis completed from event",
		logging.String("business_id", p.BusinessID),
		logging.String("run_id", result.Run.ID),
		logging.Bool("reused", result.Reused),
	)
	return nil
}

// handleCompleted indexes and archives a finished run.  Both steps must
// succeed before the message is considered handled, so a transient OpenSearch
// or MinIO outage retries rather than losing the run.
func (h *eventHandlers) handleCompleted(ctx context.Context, env *kafka.EventEnvelope) error {
	started := time.Now()
	var p kafka.DiagnosisCompletedPayload
	if err := env.DecodePayload(&p); err != nil {
		return err
	}

	run, err := h.runs.Get(ctx, p.RunID)
	if err != nil {
		prometheus.RecordEventConsumed(h.metrics, kafka.TopicDiagnosisCompleted, false, time.Since(started))
		return err
	}

	if h.indexer != nil {
		if err := h.indexer.IndexRun(ctx, run); err != nil {
			prometheus.RecordEventConsumed(h.metrics, kafka.TopicDiagnosisCompleted, false, time.Since(started))
			return err
		}
	}
	if h.archiver != nil {
		if _, err := h.archiver.ArchiveRun(ctx, run); err != nil {
			prometheus.RecordEventConsumed(h.metrics, kafka.TopicDiagnosisCompleted, false, time.Since(started))
			return err
		}
	}

	prometheus.RecordEventConsumed(h.metrics, kafka.TopicDiagnosisCompleted, true, time.Since(started))
	h.logger.Info("Run indexed and archived",
		logging.String("run_id", p.RunID),
		logging.String("business_id", p.BusinessID),
	)
	return nil
}

// handleProfileUpdated drops the cached diagnosis for a business whose inputs
// changed, so the next request recomputes against fresh data.
func (h *eventHandlers) handleProfileUpdated(ctx context.Context, env *kafka.EventEnvelope) error {
	started := time.Now()
	var p kafka.ProfileUpdatedPayload
	if err := env.DecodePayload(&p); err != nil {
		return err
	}

	if h.cache == nil {
		return nil
	}
	removed, err := h.cache.Invalidate(ctx, p.BusinessID)
	prometheus.RecordEventConsumed(h.metrics, kafka.TopicProfileUpdated, err == nil, time.Since(started))
	if err != nil {
		return err
	}

	h.logger.Info("Invalidated cached diagnosis",
		logging.String("business_id", p.BusinessID),
		logging.String("section", p.Section),
		logging.Int64("entries_removed", removed),
	)
	return nil
}

//Personal.AI order the ending
