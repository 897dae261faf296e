// Package diagnosis provides the application-level service for running
// business-health diagnoses.  It sits between the HTTP/CLI/worker surfaces
// and the domain engine: loading input bundles, short-circuiting unchanged
// inputs, persisting runs, and fanning out events and metrics.
package diagnosis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/turtacn/SME-Diagnostics/internal/domain/diagnostics"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// ResultCache stores diagnosis outputs keyed by business and input hash.
// A miss is (nil, nil), not an error.
type ResultCache interface {
	Get(ctx context.Context, businessID, inputHash string) (*dg.Output, error)
	Put(ctx context.Context, businessID, inputHash string, out *dg.Output) error
	Invalidate(ctx context.Context, businessID string) (int64, error)
}

// Lock serializes concurrent diagnoses of one business.
type Lock interface {
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
}

// LockFactory yields a distributed lock scoped to one business.
type LockFactory func(businessID string) Lock

// Service defines the diagnosis application operations.
type Service interface {
	Diagnose(ctx context.Context, req DiagnoseRequest) (*DiagnoseResult, error)
	Latest(ctx context.Context, businessID string) (*diagnostics.Run, error)
	GetRun(ctx context.Context, runID string) (*diagnostics.Run, error)
	ListRuns(ctx context.Context, req ListRunsRequest) (*RunPage, error)
	Invalidate(ctx context.Context, businessID string) error
}

// DiagnoseRequest asks for a diagnosis of one business.
type DiagnoseRequest struct {
	BusinessID string
	// Force recomputes even when the input bundle is unchanged.
	Force bool
	// Trigger labels the origin for metrics: "api", "event", "cli".
	Trigger string
}

// DiagnoseResult is the outcome of one Diagnose call.
type DiagnoseResult struct {
	Run *diagnostics.Run
	// Reused is true when the input was unchanged and a prior run was
	// returned instead of recomputing.
	Reused bool
	// CacheHit is true when the reuse decision was confirmed by the result
	// cache rather than only the run store.
	CacheHit bool
}

// ListRunsRequest pages through a business's run history.
type ListRunsRequest struct {
	BusinessID string
	Page       int
	PageSize   int
}

// RunPage is one page of run history, newest first.
type RunPage struct {
	Runs     []*diagnostics.Run `json:"runs"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// Deps bundles the service dependencies.  Engine, Loader, and Runs are
// required; the rest degrade gracefully when absent.
type Deps struct {
	Engine  *diagnostics.Engine
	Loader  diagnostics.InputLoader
	Runs    diagnostics.RunRepository
	Cache   ResultCache
	Locks   LockFactory
	Events  kafka.EventPublisher
	Metrics *prometheus.AppMetrics
	Logger  logging.Logger
}

type serviceImpl struct {
	deps  Deps
	log   logging.Logger
	newID func() string
	now   func() time.Time
}

// NewService builds the diagnosis service.
func NewService(deps Deps) (Service, error) {
	if deps.Engine == nil {
		return nil, errors.NewValidation("engine is required")
	}
	if deps.Loader == nil {
		return nil, errors.NewValidation("input loader is required")
	}
	if deps.Runs == nil {
		return nil, errors.NewValidation("run repository is required")
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	return &serviceImpl{
		deps:  deps,
		log:   deps.Logger.Named("diagnosis"),
		newID: uuid.NewString,
		now:   time.Now,
	}, nil
}

func (s *serviceImpl) Diagnose(ctx context.Context, req DiagnoseRequest) (*DiagnoseResult, error) {
	if req.BusinessID == "" {
		return nil, errors.NewValidation("business ID is required")
	}
	if req.Trigger == "" {
		req.Trigger = "api"
	}
	started := s.now()

	if s.deps.Locks != nil {
		lock := s.deps.Locks(req.BusinessID)
		if err := lock.Lock(ctx); err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Unlock(ctx); err != nil {
				s.log.Warn("Failed to release diagnosis lock",
					logging.String("business_id", req.BusinessID), logging.Err(err))
			}
		}()
	}

	in, err := s.deps.Loader.LoadInput(ctx, req.BusinessID)
	if err != nil {
		s.recordFailure(ctx, req.BusinessID, err)
		return nil, err
	}
	hash := diagnostics.InputHash(in)

	if !req.Force {
		if result := s.tryReuse(ctx, req.BusinessID, hash); result != nil {
			return result, nil
		}
	}

	out, err := s.deps.Engine.Diagnose(in)
	if err != nil {
		s.recordFailure(ctx, req.BusinessID, err)
		return nil, err
	}

	run := diagnostics.NewRun(s.newID(), in, out)
	if err := s.deps.Runs.Save(ctx, run); err != nil {
		s.recordFailure(ctx, req.BusinessID, err)
		return nil, errors.Wrap(err, errors.ErrCodeRunPersistFailed, "failed to persist diagnosis run")
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Put(ctx, req.BusinessID, hash, out); err != nil {
			s.log.Warn("Failed to cache diagnosis output",
				logging.String("business_id", req.BusinessID), logging.Err(err))
		}
	}

	if s.deps.Events != nil {
		payload := kafka.CompletedPayloadFromOutput(run.ID, run.BusinessID, run.InputHash, out)
		if err := s.deps.Events.DiagnosisCompleted(ctx, payload); err != nil {
			// Indexing and archiving catch up on the next run; the diagnosis
			// itself is already durable.
			s.log.Error("Failed to publish completion event",
				logging.String("run_id", run.ID), logging.Err(err))
		}
	}

	if s.deps.Metrics != nil {
		prometheus.RecordDiagnosisRun(s.deps.Metrics,
			string(out.HealthBand), string(out.Stage), req.Trigger,
			out.Scores.Mean(), s.now().Sub(started))
	}

	s.log.Info("Diagnosis completed",
		logging.String("business_id", req.BusinessID),
		logging.String("run_id", run.ID),
		logging.String("health_band", string(out.HealthBand)),
		logging.String("stage", string(out.Stage)),
	)
	return &DiagnoseResult{Run: run}, nil
}

// tryReuse returns the latest run when the input bundle hash is unchanged.
func (s *serviceImpl) tryReuse(ctx context.Context, businessID, hash string) *DiagnoseResult {
	var cacheHit bool
	if s.deps.Cache != nil {
		out, err := s.deps.Cache.Get(ctx, businessID, hash)
		if err != nil {
			s.log.Warn("Result cache read failed", logging.Err(err))
		}
		cacheHit = out != nil
		if s.deps.Metrics != nil {
			prometheus.RecordCacheAccess(s.deps.Metrics, "diagnosis", cacheHit)
		}
	}

	latest, err := s.deps.Runs.Latest(ctx, businessID)
	if err != nil {
		if !errors.IsNotFound(err) {
			s.log.Warn("Latest-run lookup failed", logging.Err(err))
		}
		return nil
	}
	if latest.InputHash != hash {
		return nil
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.DiagnosisReusedTotal.WithLabelValues().Inc()
		if cacheHit {
			s.deps.Metrics.DiagnosisCacheHitsTotal.WithLabelValues().Inc()
		}
	}
	if s.deps.Cache != nil && !cacheHit {
		if err := s.deps.Cache.Put(ctx, businessID, hash, latest.Output); err != nil {
			s.log.Warn("Failed to warm result cache", logging.Err(err))
		}
	}

	s.log.Debug("Reusing prior diagnosis",
		logging.String("business_id", businessID),
		logging.String("run_id", latest.ID),
	)
	return &DiagnoseResult{Run: latest, Reused: true, CacheHit: cacheHit}
}

func (s *serviceImpl) recordFailure(ctx context.Context, businessID string, cause error) {
	code := string(errors.GetCode(cause))
	if s.deps.Metrics != nil {
		prometheus.RecordDiagnosisFailure(s.deps.Metrics, code)
	}
	if s.deps.Events != nil {
		err := s.deps.Events.DiagnosisFailed(ctx, kafka.DiagnosisFailedPayload{
			BusinessID: businessID,
			ErrorCode:  code,
			Reason:     cause.Error(),
			FailedAt:   s.now().UTC(),
		})
		if err != nil {
			s.log.Warn("Failed to publish failure event", logging.Err(err))
		}
	}
}

func (s *serviceImpl) Latest(ctx context.Context, businessID string) (*diagnostics.Run, error) {
	if businessID == "" {
		return nil, errors.NewValidation("business ID is required")
	}
	return s.deps.Runs.Latest(ctx, businessID)
}

func (s *serviceImpl) GetRun(ctx context.Context, runID string) (*diagnostics.Run, error) {
	if runID == "" {
		return nil, errors.NewValidation("run ID is required")
	}
	return s.deps.Runs.Get(ctx, runID)
}

func (s *serviceImpl) ListRuns(ctx context.Context, req ListRunsRequest) (*RunPage, error) {
	if req.BusinessID == "" {
		return nil, errors.NewValidation("business ID is required")
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	offset := (req.Page - 1) * req.PageSize
	runs, err := s.deps.Runs.ListByBusiness(ctx, req.BusinessID, req.PageSize, offset)
	if err != nil {
		return nil, err
	}
	return &RunPage{Runs: runs, Page: req.Page, PageSize: req.PageSize}, nil
}

// Invalidate drops cached outputs for a business after its data changes.
func (s *serviceImpl) Invalidate(ctx context.Context, businessID string) error {
	if businessID == "" {
		return errors.NewValidation("business ID is required")
	}
	if s.deps.Cache == nil {
		return nil
	}
	n, err := s.deps.Cache.Invalidate(ctx, businessID)
	if err != nil {
		return err
	}
	s.log.Debug("Invalidated cached diagnoses",
		logging.String("business_id", businessID), logging.Int64("entries", n))
	return nil
}

//Personal.AI order the ending
